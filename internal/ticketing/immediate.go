package ticketing

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/ticketing-core/internal/lock"
	"github.com/iliyamo/ticketing-core/internal/model"
)

// ImmediatePath is the v1 synchronous entry point (C5): it acquires a
// MultiLock over the implicated seats, runs the matching Engine primitive,
// and releases the lock whether the primitive succeeds or fails. The lock
// is held across the whole database transaction — the coordination store
// keeps two transactions from ever attempting conflicting row locks.
type ImmediatePath struct {
	Engine *Engine
	Redis  *redis.Client
	Opts   lock.Options
}

func NewImmediatePath(engine *Engine, rdb *redis.Client, opts lock.Options) *ImmediatePath {
	return &ImmediatePath{Engine: engine, Redis: rdb, Opts: opts}
}

func seatKeys(seatIDs []uint64) []string {
	keys := make([]string, len(seatIDs))
	for i, id := range seatIDs {
		keys[i] = fmt.Sprintf("seat:%d", id)
	}
	return keys
}

func (p *ImmediatePath) withLock(ctx context.Context, seatIDs []uint64, fn func() (any, error)) (any, error) {
	ml, err := lock.AcquireMulti(ctx, p.Redis, seatKeys(seatIDs), true, p.Opts)
	if err != nil {
		return nil, newErr(RetryableConflict, "could not acquire seat locks, please retry")
	}
	defer ml.Release(ctx)
	return fn()
}

func (p *ImmediatePath) Reserve(ctx context.Context, eventID uint64, seatIDs []uint64, userID uint64, sessionID *string) (*ReserveResult, error) {
	out, err := p.withLock(ctx, seatIDs, func() (any, error) {
		return p.Engine.Reserve(ctx, eventID, seatIDs, userID, sessionID)
	})
	if err != nil {
		return nil, err
	}
	return out.(*ReserveResult), nil
}

func (p *ImmediatePath) Book(ctx context.Context, eventID uint64, seatIDs []uint64, userID uint64) (*model.Booking, error) {
	out, err := p.withLock(ctx, seatIDs, func() (any, error) {
		return p.Engine.Book(ctx, eventID, seatIDs, userID)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.Booking), nil
}

// CancelReservation and ExtendReservation lock a single seat key derived
// from the reservation; the reservation itself names the seat, so the
// caller supplies seatID explicitly rather than the engine looking it up
// twice.
func (p *ImmediatePath) CancelReservation(ctx context.Context, reservationID, seatID, userID uint64) (*model.Reservation, error) {
	out, err := p.withLock(ctx, []uint64{seatID}, func() (any, error) {
		return p.Engine.CancelReservation(ctx, reservationID, userID)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.Reservation), nil
}

func (p *ImmediatePath) ExtendReservation(ctx context.Context, reservationID, seatID, userID uint64, minutes int) (*model.Reservation, error) {
	out, err := p.withLock(ctx, []uint64{seatID}, func() (any, error) {
		return p.Engine.ExtendReservation(ctx, reservationID, userID, minutes)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.Reservation), nil
}

func (p *ImmediatePath) CancelBooking(ctx context.Context, bookingID, userID uint64, seatIDs []uint64) (*model.Booking, error) {
	out, err := p.withLock(ctx, seatIDs, func() (any, error) {
		return p.Engine.CancelBooking(ctx, bookingID, userID)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.Booking), nil
}

func (p *ImmediatePath) ConfirmPayment(ctx context.Context, bookingID uint64, paymentID string) (*model.Booking, error) {
	return p.Engine.ConfirmPayment(ctx, bookingID, paymentID)
}

func (p *ImmediatePath) FailPayment(ctx context.Context, bookingID uint64, paymentID string, seatIDs []uint64) (*model.Booking, error) {
	out, err := p.withLock(ctx, seatIDs, func() (any, error) {
		return p.Engine.FailPayment(ctx, bookingID, paymentID)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.Booking), nil
}
