// Package router wires the HTTP surface together: one RegisterX function
// per domain group, each attaching its own middleware chain, assembled by
// RegisterRoutes at startup.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketing-core/internal/handler"
)

// Handlers bundles every handler cmd/server wires up, so RegisterRoutes
// takes one argument instead of a long positional list.
type Handlers struct {
	Auth         *handler.AuthHandler
	Reservations *handler.ReservationHandler
	Bookings     *handler.BookingHandler
	Queue        *handler.QueueHandler
	AdminEvents  *handler.AdminEventHandler
	AdminSeats   *handler.AdminSeatHandler
}

func RegisterRoutes(e *echo.Echo, h Handlers, jwtSecret string) {
	e.GET("/healthz", handler.Health)

	RegisterPublic(e, h.AdminEvents, h.AdminSeats)
	RegisterAuth(e, h.Auth, jwtSecret)
	RegisterReservations(e, h.Reservations, h.Bookings, jwtSecret)
	RegisterQueue(e, h.Queue, jwtSecret)
	RegisterAdmin(e, h.AdminEvents, h.AdminSeats, h.Queue, jwtSecret)
}
