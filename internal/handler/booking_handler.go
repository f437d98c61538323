package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketing-core/internal/model"
	"github.com/iliyamo/ticketing-core/internal/queue"
	"github.com/iliyamo/ticketing-core/internal/repository"
	qsvc "github.com/iliyamo/ticketing-core/internal/service"
	"github.com/iliyamo/ticketing-core/internal/ticketing"
)

// BookingHandler exposes the v1 booking lifecycle endpoints.
type BookingHandler struct {
	Immediate *ticketing.ImmediatePath
	Bookings  *repository.BookingRepo
	Seats     *repository.SeatRepo
}

func NewBookingHandler(immediate *ticketing.ImmediatePath, bookings *repository.BookingRepo, seats *repository.SeatRepo) *BookingHandler {
	if immediate == nil || bookings == nil || seats == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Immediate: immediate, Bookings: bookings, Seats: seats}
}

type bookReq struct {
	EventID uint64   `json:"event_id"`
	SeatIDs []uint64 `json:"seat_ids"`
}

type bookingDTO struct {
	ID            uint64 `json:"id"`
	Reference     string `json:"reference"`
	EventID       uint64 `json:"event_id"`
	TotalCents    uint32 `json:"total_cents"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

func toBookingDTO(b *model.Booking) bookingDTO {
	return bookingDTO{
		ID: b.ID, Reference: b.Reference, EventID: b.EventID,
		TotalCents: b.TotalCents, Status: b.Status, PaymentStatus: b.PaymentStatus,
	}
}

// Book handles POST /v1/bookings.
func (h *BookingHandler) Book(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EventID == 0 || len(req.SeatIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id and seat_ids required"})
	}

	booking, err := h.Immediate.Book(c.Request().Context(), req.EventID, req.SeatIDs, userID)
	if err != nil {
		return writeEngineErr(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingDTO(booking))
}

// GetBooking handles GET /v1/bookings/:id.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if b.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, toBookingDTO(b))
}

// ListMyBookings handles GET /v1/my-bookings.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]bookingDTO, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingDTO(b))
	}
	return c.JSON(http.StatusOK, out)
}

type confirmPaymentReq struct {
	PaymentID string `json:"payment_id"`
}

// ConfirmPayment handles POST /v1/bookings/:id/confirm-payment. Owning-user
// check happens before the engine call since ConfirmPayment itself does not
// take a user id (payment gateways call back without one).
func (h *BookingHandler) ConfirmPayment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req confirmPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	existing, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if existing.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	b, err := h.Immediate.ConfirmPayment(c.Request().Context(), id, req.PaymentID)
	if err != nil {
		return writeEngineErr(c, err)
	}

	seats, _ := h.Seats.ListByBookingID(c.Request().Context(), id)
	go publishBookingConfirmed(b, seats)

	return c.JSON(http.StatusOK, toBookingDTO(b))
}

// FailPayment handles POST /v1/bookings/:id/fail-payment. This endpoint
// models the gateway webhook invoked when a charge declines; the caller is
// still required to be the owning user since it shares the general
// JWT-authenticated booking surface rather than a separate webhook route.
func (h *BookingHandler) FailPayment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req confirmPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	existing, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if existing.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	seats, _ := h.Seats.ListByBookingID(c.Request().Context(), id)
	seatIDs := make([]uint64, len(seats))
	for i, s := range seats {
		seatIDs[i] = s.ID
	}

	b, err := h.Immediate.FailPayment(c.Request().Context(), id, req.PaymentID, seatIDs)
	if err != nil {
		return writeEngineErr(c, err)
	}

	go publishPaymentFailed(b, seats, req.PaymentID)

	return c.JSON(http.StatusOK, toBookingDTO(b))
}

// CancelBooking handles POST /v1/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	seats, err := h.Seats.ListByBookingID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	seatIDs := make([]uint64, len(seats))
	for i, s := range seats {
		seatIDs[i] = s.ID
	}

	b, err := h.Immediate.CancelBooking(c.Request().Context(), id, userID, seatIDs)
	if err != nil {
		return writeEngineErr(c, err)
	}
	return c.JSON(http.StatusOK, toBookingDTO(b))
}

func publishBookingConfirmed(b *model.Booking, seats []*model.Seat) {
	labels := make([]string, len(seats))
	for i, s := range seats {
		labels[i] = s.Label
	}
	confirmedAt := time.Now().UTC().Format(time.RFC3339)
	if b.ConfirmedAt != nil {
		confirmedAt = b.ConfirmedAt.Format(time.RFC3339)
	}
	_ = qsvc.PublishBookingConfirmed(context.Background(), queue.BookingConfirmedEvent{
		BookingID: b.ID, BookingReference: b.Reference, UserID: b.UserID, EventID: b.EventID,
		SeatLabels: labels, TotalAmountCents: b.TotalCents, ConfirmedAt: confirmedAt,
	})
}

func publishPaymentFailed(b *model.Booking, seats []*model.Seat, paymentRef string) {
	labels := make([]string, len(seats))
	for i, s := range seats {
		labels[i] = s.Label
	}
	_ = qsvc.PublishPaymentFailed(context.Background(), queue.PaymentFailedEvent{
		BookingID: b.ID, BookingReference: b.Reference, UserID: b.UserID, EventID: b.EventID,
		SeatLabels: labels, PaymentRef: paymentRef, FailedAt: time.Now().UTC().Format(time.RFC3339),
	})
}
