package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketing-core/internal/handler"
	"github.com/iliyamo/ticketing-core/internal/middleware"
)

// RegisterQueue registers the v2 queued-path endpoints. All routes require
// a valid JWT; the queue stats endpoint is read-only and has no further
// ownership constraint.
func RegisterQueue(e *echo.Echo, h *handler.QueueHandler, jwtSecret string) {
	g := e.Group(
		"/v2",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireUserHeader(),
	)

	g.POST("/reservations", h.Submit)
	g.GET("/reservations/:request_id", h.GetStatus)
	g.DELETE("/reservations/:request_id", h.CancelRequest)
	g.GET("/queue/stats/:event_id", h.Stats)
}
