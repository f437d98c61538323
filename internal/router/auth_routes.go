package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketing-core/internal/handler"
	"github.com/iliyamo/ticketing-core/internal/middleware"
)

// RegisterAuth registers the public auth endpoints plus the JWT-protected
// "me" endpoint, under /v1.
func RegisterAuth(e *echo.Echo, h *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.POST("/auth/register", h.Register)
	g.POST("/auth/login", h.Login)
	g.POST("/auth/refresh", h.Refresh)
	g.POST("/auth/refresh-access", h.RefreshAccess)
	g.POST("/auth/logout", h.Logout)

	protected := g.Group("", middleware.JWTAuth(jwtSecret))
	protected.GET("/auth/me", h.Me)
}
