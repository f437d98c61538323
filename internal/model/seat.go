package model

import "time"

// Seat status values — the spine of the seat lifecycle state machine.
const (
	SeatAvailable = "AVAILABLE"
	SeatReserved  = "RESERVED"
	SeatBooked    = "BOOKED"
	SeatBlocked   = "BLOCKED"
)

// Seat category values.
const (
	SeatCategoryRegular = "REGULAR"
	SeatCategoryVIP     = "VIP"
	SeatCategoryPremium = "PREMIUM"
)

// Seat belongs directly to an Event (no venue/hall hierarchy). Label is
// unique within the owning event. Version is a monotonic counter bumped
// on every mutation, the optimistic-concurrency witness the repository
// layer's `WHERE version = :expected` writes depend on.
//
// Fields:
//
//	ID             – seats.id
//	EventID        – seats.event_id
//	Label          – seats.label (e.g. "A12"), unique per event
//	Section        – seats.section (nullable)
//	Row            – seats.row_label (nullable)
//	Category       – seats.category
//	PriceCents     – seats.price_cents
//	Status         – seats.status
//	Version        – seats.version
//	HolderUserID   – seats.holder_user_id (nullable)
//	ReservedUntil  – seats.reserved_until (nullable)
//	BookingID      – seats.booking_id (nullable)
//	CreatedAt      – seats.created_at
//	UpdatedAt      – seats.updated_at
type Seat struct {
	ID            uint64
	EventID       uint64
	Label         string
	Section       *string
	Row           *string
	Category      string
	PriceCents    uint32
	Status        string
	Version       uint64
	HolderUserID  *uint64
	ReservedUntil *time.Time
	BookingID     *uint64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsAvailable reports whether the seat can currently be reserved.
func (s *Seat) IsAvailable() bool {
	return s.Status == SeatAvailable
}
