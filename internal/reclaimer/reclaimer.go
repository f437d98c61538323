// Package reclaimer runs the periodic sweep (C8) that expires abandoned
// reservations and returns their seats to AVAILABLE without any user
// action.
package reclaimer

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/iliyamo/ticketing-core/internal/model"
	"github.com/iliyamo/ticketing-core/internal/repository"
)

// Reclaimer owns the transactional expiry sweep. It is intentionally a
// plain ticker loop over already-wired repository calls — a single
// fixed-interval use site doesn't earn a scheduling library.
type Reclaimer struct {
	DB           *sql.DB
	Events       *repository.EventRepo
	Seats        *repository.SeatRepo
	Reservations *repository.ReservationRepo
	Interval     time.Duration
}

func New(db *sql.DB, events *repository.EventRepo, seats *repository.SeatRepo,
	reservations *repository.ReservationRepo, interval time.Duration) *Reclaimer {
	return &Reclaimer{DB: db, Events: events, Seats: seats, Reservations: reservations, Interval: interval}
}

// Run blocks until ctx is cancelled, ticking every Interval. Each tick
// failure is logged and retried on the next tick rather than propagated.
func (r *Reclaimer) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.tick(ctx); err != nil {
				log.Printf("reclaimer: tick failed: %v", err)
			}
		}
	}
}

// tick expires ACTIVE reservations past expires_at. A seat already moved
// past RESERVED (e.g. booked moments before the tick) is left alone — the
// seat's own status is authoritative, the reservation's expires_at is
// merely advisory once that race is lost.
func (r *Reclaimer) tick(ctx context.Context) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	expired, err := r.Reservations.ListExpiredActiveTx(ctx, tx, time.Now().UTC())
	if err != nil {
		return err
	}

	releasedByEvent := map[uint64]int{}
	for _, res := range expired {
		if err := r.Reservations.UpdateStatusTx(ctx, tx, res.ID, model.ReservationActive, model.ReservationExpired); err != nil {
			return err
		}

		seats, err := r.Seats.LoadForUpdateTx(ctx, tx, []uint64{res.SeatID})
		if err != nil {
			return err
		}
		if len(seats) != 1 {
			continue
		}
		seat := seats[0]
		if seat.Status != model.SeatReserved {
			continue
		}
		if err := r.Seats.ReleaseTx(ctx, tx, seat); err != nil {
			return err
		}
		releasedByEvent[res.EventID]++
	}

	for eventID, n := range releasedByEvent {
		if err := r.Events.AdjustAvailableSeatsTx(ctx, tx, eventID, n); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
