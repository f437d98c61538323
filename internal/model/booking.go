package model

import "time"

// Booking status values.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
	BookingFailed    = "FAILED"
)

// Payment status values.
const (
	PaymentPending = "PENDING"
	PaymentSuccess = "SUCCESS"
	PaymentFailed  = "FAILED"
)

// Booking is the purchase record spanning one or more seats in a single
// event. Reference is a ULID rendered in Crockford base32: globally
// unique, lexicographically sortable by creation time, and safe to quote
// back to the user (see internal/utils.NewULID).
//
// Fields:
//
//	ID             – bookings.id
//	Reference      – bookings.reference (ULID string)
//	EventID        – bookings.event_id
//	UserID         – bookings.user_id
//	TotalCents     – bookings.total_cents
//	Status         – bookings.status
//	PaymentStatus  – bookings.payment_status
//	PaymentRef     – bookings.payment_ref (nullable, external gateway id)
//	CreatedAt      – bookings.created_at
//	ConfirmedAt    – bookings.confirmed_at (nullable)
type Booking struct {
	ID            uint64
	Reference     string
	EventID       uint64
	UserID        uint64
	TotalCents    uint32
	Status        string
	PaymentStatus string
	PaymentRef    *string
	CreatedAt     time.Time
	ConfirmedAt   *time.Time
}

// BookingSeat is the association row materializing a booking's
// constituent seat set, pinning the price at booking time.
//
// Fields:
//
//	ID         – booking_seats.id
//	BookingID  – booking_seats.booking_id
//	SeatID     – booking_seats.seat_id
//	PriceCents – booking_seats.price_cents (price at booking time)
type BookingSeat struct {
	ID         uint64
	BookingID  uint64
	SeatID     uint64
	PriceCents uint32
}
