package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketing-core/internal/handler"
	"github.com/iliyamo/ticketing-core/internal/middleware"
)

// RegisterAdmin registers the §12 administrative surface: event/seat-map
// CRUD and dead-letter-queue inspection. All routes require a valid JWT
// and the ADMIN role.
func RegisterAdmin(e *echo.Echo, ev *handler.AdminEventHandler, st *handler.AdminSeatHandler, q *handler.QueueHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	g.POST("/events", ev.Create)
	g.GET("/events", ev.List)
	g.GET("/events/:id", ev.Get)
	g.PUT("/events/:id", ev.Update)
	g.PATCH("/events/:id", ev.Update)
	g.POST("/events/:id/close-sales", ev.CloseSales)
	g.DELETE("/events/:id", ev.Delete)

	g.POST("/events/:id/seats", st.CreateSeats)

	e.GET("/v2/admin/dlq", q.ListDLQ, middleware.JWTAuth(jwtSecret), middleware.RequireRole("ADMIN"))
}

// RegisterPublic registers unauthenticated read endpoints so guests can
// browse events and their seat maps before signing in.
func RegisterPublic(e *echo.Echo, ev *handler.AdminEventHandler, st *handler.AdminSeatHandler) {
	g := e.Group("/v1")
	g.GET("/events", ev.List)
	g.GET("/events/:id", ev.Get)
	g.GET("/events/:id/seats", st.ListSeats)
}
