// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking's payment is confirmed.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID        uint64   `json:"booking_id"`
	BookingReference string   `json:"booking_reference"`
	UserID           uint64   `json:"user_id"`
	EventID          uint64   `json:"event_id"`
	EventTitle       string   `json:"event_title"`
	VenueName        string   `json:"venue_name"`
	StartsAt         string   `json:"starts_at"`
	SeatLabels       []string `json:"seats"`
	TotalAmountCents uint32   `json:"total_amount_cents"`
	ConfirmedAt      string   `json:"confirmed_at"`
}

// PaymentFailedEvent is published when a booking's payment fails and its
// seats are released back to the pool, letting downstream consumers notify
// the user without the request path blocking on that delivery.
type PaymentFailedEvent struct {
	BookingID        uint64   `json:"booking_id"`
	BookingReference string   `json:"booking_reference"`
	UserID           uint64   `json:"user_id"`
	EventID          uint64   `json:"event_id"`
	SeatLabels       []string `json:"seats"`
	PaymentRef       string   `json:"payment_ref"`
	FailedAt         string   `json:"failed_at"`
}
