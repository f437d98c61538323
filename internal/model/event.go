package model

import "time"

// Event status values.
const (
	EventUpcoming = "UPCOMING"
	EventOnSale   = "ON_SALE"
	EventSoldOut  = "SOLD_OUT"
	EventCanceled = "CANCELLED"
)

// Event represents a sellable occasion: a concert, a match, a show.
// AvailableSeats is a denormalized cache of how many seats are still
// AVAILABLE; it is kept in sync inside the same transaction as every
// seat-status mutation (see internal/ticketing), but the authoritative
// answer is always a scan of the Seat table's status column.
//
// Fields:
//
//	ID             – events.id
//	Name           – events.name
//	EventTime      – events.event_time
//	Venue          – events.venue
//	TotalSeats     – events.total_seats
//	AvailableSeats – events.available_seats (denormalized, may lag)
//	Status         – events.status
//	SaleStartAt    – events.sale_start_at (nullable)
//	CreatedAt      – events.created_at
//	UpdatedAt      – events.updated_at
type Event struct {
	ID             uint64
	Name           string
	EventTime      time.Time
	Venue          string
	TotalSeats     uint32
	AvailableSeats uint32
	Status         string
	SaleStartAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AcceptsSales reports whether the event is in a state that permits
// reserve/book calls to proceed past the engine's precondition check.
func (e *Event) AcceptsSales() bool {
	if e.Status != EventOnSale {
		return false
	}
	if e.SaleStartAt != nil && e.SaleStartAt.After(time.Now()) {
		return false
	}
	return true
}
