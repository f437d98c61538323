package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/ticketing-core/internal/model"
)

// BookingRepo persists 'bookings' and 'booking_seats'.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

// InsertTx creates a PENDING booking plus its BookingSeat association rows,
// pinning each seat's current price — snapshotted so later price changes
// never alter historical bookings.
func (r *BookingRepo) InsertTx(ctx context.Context, tx *sql.Tx, b *model.Booking, seats []*model.Seat) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (reference, event_id, user_id, total_cents, status, payment_status)
		 VALUES (?,?,?,?,?,?)`,
		b.Reference, b.EventID, b.UserID, b.TotalCents, model.BookingPending, model.PaymentPending)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	bookingID := uint64(id)

	for _, s := range seats {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO booking_seats (booking_id, seat_id, price_cents) VALUES (?,?,?)`,
			bookingID, s.ID, s.PriceCents); err != nil {
			return 0, err
		}
	}
	return bookingID, nil
}

// GetByIDTx loads a booking row locked for update.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	return r.scan(tx.QueryRowContext(ctx,
		`SELECT id, reference, event_id, user_id, total_cents, status, payment_status, payment_ref, created_at, confirmed_at
		 FROM bookings WHERE id=? FOR UPDATE`, id))
}

// GetByID loads a booking row without locking (read path).
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	return r.scan(r.DB.QueryRowContext(ctx,
		`SELECT id, reference, event_id, user_id, total_cents, status, payment_status, payment_ref, created_at, confirmed_at
		 FROM bookings WHERE id=? LIMIT 1`, id))
}

// GetByReference loads a booking by its externally quotable reference.
func (r *BookingRepo) GetByReference(ctx context.Context, ref string) (*model.Booking, error) {
	return r.scan(r.DB.QueryRowContext(ctx,
		`SELECT id, reference, event_id, user_id, total_cents, status, payment_status, payment_ref, created_at, confirmed_at
		 FROM bookings WHERE reference=? LIMIT 1`, ref))
}

func (r *BookingRepo) scan(row *sql.Row) (*model.Booking, error) {
	var b model.Booking
	if err := row.Scan(&b.ID, &b.Reference, &b.EventID, &b.UserID, &b.TotalCents, &b.Status,
		&b.PaymentStatus, &b.PaymentRef, &b.CreatedAt, &b.ConfirmedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ConfirmPaymentTx finalizes a PENDING booking as CONFIRMED/SUCCESS.
func (r *BookingRepo) ConfirmPaymentTx(ctx context.Context, tx *sql.Tx, id uint64, paymentRef string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status=?, payment_status=?, payment_ref=?, confirmed_at=NOW()
		 WHERE id=? AND status=?`,
		model.BookingConfirmed, model.PaymentSuccess, paymentRef, id, model.BookingPending)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

// FailPaymentTx marks a PENDING booking FAILED/FAILED.
func (r *BookingRepo) FailPaymentTx(ctx context.Context, tx *sql.Tx, id uint64, paymentRef string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status=?, payment_status=?, payment_ref=? WHERE id=? AND status=?`,
		model.BookingFailed, model.PaymentFailed, paymentRef, id, model.BookingPending)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

// CancelTx moves a PENDING or CONFIRMED booking to CANCELLED.
func (r *BookingRepo) CancelTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status=? WHERE id=? AND status IN (?,?)`,
		model.BookingCancelled, id, model.BookingPending, model.BookingConfirmed)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

// ListByUser returns a user's bookings, most recent first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Booking, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, reference, event_id, user_id, total_cents, status, payment_status, payment_ref, created_at, confirmed_at
		 FROM bookings WHERE user_id=? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.Reference, &b.EventID, &b.UserID, &b.TotalCents, &b.Status,
			&b.PaymentStatus, &b.PaymentRef, &b.CreatedAt, &b.ConfirmedAt); err != nil {
			return nil, err
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}
