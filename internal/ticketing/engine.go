package ticketing

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/ticketing-core/internal/model"
	"github.com/iliyamo/ticketing-core/internal/repository"
	"github.com/iliyamo/ticketing-core/internal/utils"
)

// Engine wraps the durable store and exposes the four seat-lifecycle
// primitives. Every primitive runs inside a single transaction using the
// teacher's BeginTx + committed bool + deferred conditional Rollback
// idiom, so a panic or early return never leaves a half-applied mutation.
type Engine struct {
	DB           *sql.DB
	Events       *repository.EventRepo
	Seats        *repository.SeatRepo
	Reservations *repository.ReservationRepo
	Bookings     *repository.BookingRepo

	ReservationTimeout time.Duration
	MaxSeatsPerBooking int
}

func New(db *sql.DB, events *repository.EventRepo, seats *repository.SeatRepo,
	reservations *repository.ReservationRepo, bookings *repository.BookingRepo,
	reservationTimeout time.Duration, maxSeatsPerBooking int) *Engine {
	return &Engine{
		DB: db, Events: events, Seats: seats, Reservations: reservations, Bookings: bookings,
		ReservationTimeout: reservationTimeout, MaxSeatsPerBooking: maxSeatsPerBooking,
	}
}

// ReserveResult is returned by Reserve.
type ReserveResult struct {
	Reservations []*model.Reservation
	TotalCents   uint32
}

// Reserve implements 4.3.1: load seats FOR UPDATE ordered by id, validate
// event membership and availability, stamp a shared expiry, flip every
// seat to RESERVED, and insert one ACTIVE reservation row per seat.
func (e *Engine) Reserve(ctx context.Context, eventID uint64, seatIDs []uint64, userID uint64, sessionID *string) (*ReserveResult, error) {
	if len(seatIDs) == 0 || len(seatIDs) > e.MaxSeatsPerBooking {
		return nil, newErr(InvalidInput, "seat count out of bounds")
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	event, err := e.Events.GetByIDTx(ctx, tx, eventID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, newErr(NotFound, "event not found")
		}
		return nil, err
	}
	if !event.AcceptsSales() {
		return nil, newErr(WrongEvent, "event does not accept sales")
	}

	seats, err := e.Seats.LoadForUpdateTx(ctx, tx, seatIDs)
	if err != nil {
		return nil, err
	}
	if len(seats) != len(seatIDs) {
		return nil, newErr(NotFound, "one or more seats not found")
	}
	for _, s := range seats {
		if s.EventID != eventID {
			return nil, newErr(WrongEvent, "seat does not belong to event")
		}
	}

	var offending []string
	for _, s := range seats {
		if !s.IsAvailable() {
			offending = append(offending, s.Label)
		}
	}
	if len(offending) > 0 {
		return nil, unavailableErr(offending)
	}

	expiresAt := time.Now().UTC().Add(e.ReservationTimeout)

	var total uint32
	for _, s := range seats {
		if err := e.Seats.ReserveTx(ctx, tx, s, userID, expiresAt); err != nil {
			return nil, err
		}
		total += s.PriceCents
	}

	reservations, err := e.Reservations.InsertActiveTx(ctx, tx, eventID, userID, sessionID, seatIDs, expiresAt)
	if err != nil {
		return nil, err
	}

	if err := e.Events.AdjustAvailableSeatsTx(ctx, tx, eventID, -len(seats)); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	return &ReserveResult{Reservations: reservations, TotalCents: total}, nil
}

// Book implements 4.3.2: the seats must currently be RESERVED by user.
// Price is snapshotted into BookingSeat at booking time.
func (e *Engine) Book(ctx context.Context, eventID uint64, seatIDs []uint64, userID uint64) (*model.Booking, error) {
	if len(seatIDs) == 0 || len(seatIDs) > e.MaxSeatsPerBooking {
		return nil, newErr(InvalidInput, "seat count out of bounds")
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	seats, err := e.Seats.LoadForUpdateTx(ctx, tx, seatIDs)
	if err != nil {
		return nil, err
	}
	if len(seats) != len(seatIDs) {
		return nil, newErr(NotFound, "one or more seats not found")
	}

	var offending []string
	var total uint32
	for _, s := range seats {
		if s.EventID != eventID {
			return nil, newErr(WrongEvent, "seat does not belong to event")
		}
		if s.Status != model.SeatReserved || s.HolderUserID == nil || *s.HolderUserID != userID {
			offending = append(offending, s.Label)
			continue
		}
		total += s.PriceCents
	}
	if len(offending) > 0 {
		return nil, unavailableErr(offending)
	}

	booking := &model.Booking{
		Reference: "BK-" + utils.NewULID(),
		EventID:   eventID,
		UserID:    userID,
		TotalCents: total,
	}
	bookingID, err := e.Bookings.InsertTx(ctx, tx, booking, seats)
	if err != nil {
		return nil, err
	}
	booking.ID = bookingID

	for _, s := range seats {
		if err := e.Seats.BookTx(ctx, tx, s, bookingID); err != nil {
			return nil, err
		}
	}

	if err := e.Reservations.ConfirmActiveBySeatsTx(ctx, tx, seatIDs, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	booking.Status = model.BookingPending
	booking.PaymentStatus = model.PaymentPending
	return booking, nil
}

// ConfirmPayment implements the confirm half of 4.3.3.
func (e *Engine) ConfirmPayment(ctx context.Context, bookingID uint64, paymentID string) (*model.Booking, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := e.Bookings.GetByIDTx(ctx, tx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.BookingPending {
		return nil, newErr(StateMismatch, "booking is not pending")
	}
	if err := e.Bookings.ConfirmPaymentTx(ctx, tx, bookingID, paymentID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	booking.Status = model.BookingConfirmed
	booking.PaymentStatus = model.PaymentSuccess
	return booking, nil
}

// FailPayment implements the fail half of 4.3.3: release every seat back
// to AVAILABLE and mark the booking FAILED/FAILED.
func (e *Engine) FailPayment(ctx context.Context, bookingID uint64, paymentID string) (*model.Booking, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := e.Bookings.GetByIDTx(ctx, tx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.BookingPending {
		return nil, newErr(StateMismatch, "booking is not pending")
	}

	seats, err := e.Seats.LoadByBookingTx(ctx, tx, bookingID)
	if err != nil {
		return nil, err
	}
	for _, s := range seats {
		if err := e.Seats.ReleaseTx(ctx, tx, s); err != nil {
			return nil, err
		}
	}
	if err := e.Events.AdjustAvailableSeatsTx(ctx, tx, booking.EventID, len(seats)); err != nil {
		return nil, err
	}
	if err := e.Bookings.FailPaymentTx(ctx, tx, bookingID, paymentID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	booking.Status = model.BookingFailed
	booking.PaymentStatus = model.PaymentFailed
	return booking, nil
}

// CancelBooking implements the booking half of 4.3.4.
func (e *Engine) CancelBooking(ctx context.Context, bookingID uint64, userID uint64) (*model.Booking, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := e.Bookings.GetByIDTx(ctx, tx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, newErr(Forbidden, "not the owning user")
	}
	if booking.Status != model.BookingPending && booking.Status != model.BookingConfirmed {
		return nil, newErr(StateMismatch, "booking cannot be cancelled")
	}

	seats, err := e.Seats.LoadByBookingTx(ctx, tx, bookingID)
	if err != nil {
		return nil, err
	}
	for _, s := range seats {
		if s.Status == model.SeatBooked {
			if err := e.Seats.ReleaseTx(ctx, tx, s); err != nil {
				return nil, err
			}
		}
	}
	if err := e.Events.AdjustAvailableSeatsTx(ctx, tx, booking.EventID, len(seats)); err != nil {
		return nil, err
	}
	if err := e.Bookings.CancelTx(ctx, tx, bookingID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	booking.Status = model.BookingCancelled
	return booking, nil
}

// CancelReservation implements the reservation half of 4.3.4.
func (e *Engine) CancelReservation(ctx context.Context, reservationID uint64, userID uint64) (*model.Reservation, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	reservation, err := e.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.UserID != userID {
		return nil, newErr(Forbidden, "not the owning user")
	}
	if reservation.Status != model.ReservationActive {
		return nil, newErr(StateMismatch, "reservation is not active")
	}

	seats, err := e.Seats.LoadForUpdateTx(ctx, tx, []uint64{reservation.SeatID})
	if err != nil || len(seats) != 1 {
		if err == nil {
			err = newErr(NotFound, "seat not found")
		}
		return nil, err
	}
	seat := seats[0]
	if seat.Status == model.SeatReserved {
		if err := e.Seats.ReleaseTx(ctx, tx, seat); err != nil {
			return nil, err
		}
		if err := e.Events.AdjustAvailableSeatsTx(ctx, tx, reservation.EventID, 1); err != nil {
			return nil, err
		}
	}
	if err := e.Reservations.UpdateStatusTx(ctx, tx, reservationID, model.ReservationActive, model.ReservationCancelled); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	reservation.Status = model.ReservationCancelled
	return reservation, nil
}

// ExtendReservation raises a reservation's (and its seat's) hold deadline
// by minutes, bounded to [1,15].
func (e *Engine) ExtendReservation(ctx context.Context, reservationID uint64, userID uint64, minutes int) (*model.Reservation, error) {
	if minutes < 1 || minutes > 15 {
		return nil, newErr(InvalidInput, "extension must be between 1 and 15 minutes")
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	reservation, err := e.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.UserID != userID {
		return nil, newErr(Forbidden, "not the owning user")
	}
	if reservation.Status != model.ReservationActive {
		return nil, newErr(StateMismatch, "reservation is not active")
	}

	seats, err := e.Seats.LoadForUpdateTx(ctx, tx, []uint64{reservation.SeatID})
	if err != nil || len(seats) != 1 {
		if err == nil {
			err = newErr(NotFound, "seat not found")
		}
		return nil, err
	}

	newExpiry := reservation.ExpiresAt.Add(time.Duration(minutes) * time.Minute)
	if err := e.Seats.ExtendHoldTx(ctx, tx, seats[0], newExpiry); err != nil {
		return nil, err
	}
	if err := e.Reservations.ExtendExpiryTx(ctx, tx, reservationID, newExpiry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	reservation.ExpiresAt = newExpiry
	return reservation, nil
}
