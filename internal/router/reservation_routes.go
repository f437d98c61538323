package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketing-core/internal/handler"
	"github.com/iliyamo/ticketing-core/internal/middleware"
)

// RegisterReservations registers the v1 immediate-path reservation and
// booking endpoints. All routes require a valid JWT; ownership of the
// resource being acted on is enforced inside each handler.
func RegisterReservations(e *echo.Echo, r *handler.ReservationHandler, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireUserHeader(),
	)

	g.POST("/reservations", r.Reserve)
	g.GET("/reservations/:id", r.GetReservation)
	g.DELETE("/reservations/:id", r.CancelReservation)
	g.POST("/reservations/:id/extend", r.ExtendReservation)
	g.GET("/my-reservations", r.ListMyReservations)

	g.POST("/bookings", b.Book)
	g.GET("/bookings/:id", b.GetBooking)
	g.GET("/my-bookings", b.ListMyBookings)
	g.POST("/bookings/:id/confirm-payment", b.ConfirmPayment)
	g.POST("/bookings/:id/fail-payment", b.FailPayment)
	g.POST("/bookings/:id/cancel", b.CancelBooking)
}
