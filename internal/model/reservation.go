package model

import "time"

// Reservation status values. ACTIVE is the only non-terminal status;
// the other three are one-way destinations from ACTIVE.
const (
	ReservationActive    = "ACTIVE"
	ReservationConfirmed = "CONFIRMED"
	ReservationExpired   = "EXPIRED"
	ReservationCancelled = "CANCELLED"
)

// Reservation is a single-seat hold. A multi-seat reserve() call produces
// one Reservation row per seat, all sharing the same ExpiresAt so the
// client can show a single countdown for the whole batch.
//
// Fields:
//
//	ID        – reservations.id
//	SeatID    – reservations.seat_id
//	EventID   – reservations.event_id
//	UserID    – reservations.user_id
//	SessionID – reservations.session_id (nullable, v2 correlation)
//	ExpiresAt – reservations.expires_at
//	Status    – reservations.status
//	CreatedAt – reservations.created_at
type Reservation struct {
	ID        uint64
	SeatID    uint64
	EventID   uint64
	UserID    uint64
	SessionID *string
	ExpiresAt time.Time
	Status    string
	CreatedAt time.Time
}

// IsTerminal reports whether the reservation can no longer transition.
func (r *Reservation) IsTerminal() bool {
	return r.Status != ReservationActive
}
