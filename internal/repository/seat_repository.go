package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/ticketing-core/internal/model"
)

// SeatRepo persists the 'seats' table, scoped to an event (no venue/hall
// hierarchy — the spec's Seat belongs directly to an Event).
type SeatRepo struct{ DB *sql.DB }

func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{DB: db} }

// CreateBulk inserts many seats for an event in one statement, mirroring
// the teacher's placeholder-batching idiom for per-hall seat maps.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []*model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString("INSERT INTO seats (event_id, label, section, row_label, category, price_cents, status, version) VALUES ")
	args := make([]any, 0, len(seats)*8)
	for i, s := range seats {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?,?,?,?,?,?,?,?)")
		args = append(args, s.EventID, s.Label, s.Section, s.Row, s.Category, s.PriceCents, model.SeatAvailable, 1)
	}
	_, err := r.DB.ExecContext(ctx, sb.String(), args...)
	return err
}

// ListByEvent returns every seat belonging to an event, ordered by label.
func (r *SeatRepo) ListByEvent(ctx context.Context, eventID uint64) ([]*model.Seat, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, event_id, label, section, row_label, category, price_cents, status, version,
		        holder_user_id, reserved_until, booking_id, created_at, updated_at
		 FROM seats WHERE event_id=? ORDER BY label`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LoadForUpdateTx loads the given seat ids with ORDER BY id FOR UPDATE — the
// load-bearing ordering that guarantees the same row-lock acquisition
// order across concurrent transactions, preventing database-level
// deadlock the same way the sorted-key rule prevents distributed-lock
// deadlock.
func (r *SeatRepo) LoadForUpdateTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64) ([]*model.Seat, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(seatIDs))
	args := make([]any, len(seatIDs))
	for i, id := range seatIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(
		`SELECT id, event_id, label, section, row_label, category, price_cents, status, version,
		        holder_user_id, reserved_until, booking_id, created_at, updated_at
		 FROM seats WHERE id IN (%s) ORDER BY id FOR UPDATE`, strings.Join(placeholders, ","))

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LoadByBookingTx loads every seat currently attached to a booking, under
// row lock, ordered by id for the same deadlock-avoidance reason.
func (r *SeatRepo) LoadByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) ([]*model.Seat, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, event_id, label, section, row_label, category, price_cents, status, version,
		        holder_user_id, reserved_until, booking_id, created_at, updated_at
		 FROM seats WHERE booking_id=? ORDER BY id FOR UPDATE`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListByBookingID returns a booking's seats without locking, used by
// handlers to discover the seat set before acquiring locks for a mutation.
func (r *SeatRepo) ListByBookingID(ctx context.Context, bookingID uint64) ([]*model.Seat, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, event_id, label, section, row_label, category, price_cents, status, version,
		        holder_user_id, reserved_until, booking_id, created_at, updated_at
		 FROM seats WHERE booking_id=? ORDER BY id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ReserveTx flips a seat AVAILABLE->RESERVED, bumping version, inside an
// open transaction. Guarded by `WHERE version = :expected` as a second
// line of defense even though the row is already FOR UPDATE-locked.
func (r *SeatRepo) ReserveTx(ctx context.Context, tx *sql.Tx, s *model.Seat, holderUserID uint64, reservedUntil time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE seats SET status=?, holder_user_id=?, reserved_until=?, version=version+1
		 WHERE id=? AND version=?`,
		model.SeatReserved, holderUserID, reservedUntil, s.ID, s.Version)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

// BookTx flips a seat RESERVED->BOOKED, clearing hold fields, attaching a
// booking id, and bumping version.
func (r *SeatRepo) BookTx(ctx context.Context, tx *sql.Tx, s *model.Seat, bookingID uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE seats SET status=?, holder_user_id=NULL, reserved_until=NULL, booking_id=?, version=version+1
		 WHERE id=? AND version=?`,
		model.SeatBooked, bookingID, s.ID, s.Version)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

// ReleaseTx returns a seat to AVAILABLE from any non-AVAILABLE status,
// clearing holder/hold-deadline/booking and bumping version. Used by
// cancel_reservation, cancel_booking, fail_payment, and the reclaimer.
func (r *SeatRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, s *model.Seat) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE seats SET status=?, holder_user_id=NULL, reserved_until=NULL, booking_id=NULL, version=version+1
		 WHERE id=? AND version=?`,
		model.SeatAvailable, s.ID, s.Version)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

// ExtendHoldTx raises a RESERVED seat's reserved_until without touching
// status or holder.
func (r *SeatRepo) ExtendHoldTx(ctx context.Context, tx *sql.Tx, s *model.Seat, reservedUntil time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE seats SET reserved_until=?, version=version+1 WHERE id=? AND version=?`,
		reservedUntil, s.ID, s.Version)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func checkRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSeat(rows rowScanner) (*model.Seat, error) {
	var s model.Seat
	if err := rows.Scan(&s.ID, &s.EventID, &s.Label, &s.Section, &s.Row, &s.Category, &s.PriceCents,
		&s.Status, &s.Version, &s.HolderUserID, &s.ReservedUntil, &s.BookingID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
