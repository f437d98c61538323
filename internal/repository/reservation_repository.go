package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/ticketing-core/internal/model"
)

// ReservationRepo persists the 'reservations' table.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

// InsertActiveTx creates one ACTIVE reservation row per seat, all sharing
// expiresAt, inside an open transaction — the bulk-insert-then-assemble
// pattern the teacher uses for its own reservation batches.
func (r *ReservationRepo) InsertActiveTx(ctx context.Context, tx *sql.Tx, eventID, userID uint64, sessionID *string, seatIDs []uint64, expiresAt time.Time) ([]*model.Reservation, error) {
	out := make([]*model.Reservation, 0, len(seatIDs))
	for _, seatID := range seatIDs {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO reservations (seat_id, event_id, user_id, session_id, expires_at, status)
			 VALUES (?,?,?,?,?,?)`,
			seatID, eventID, userID, sessionID, expiresAt, model.ReservationActive)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		out = append(out, &model.Reservation{
			ID: uint64(id), SeatID: seatID, EventID: eventID, UserID: userID,
			SessionID: sessionID, ExpiresAt: expiresAt, Status: model.ReservationActive,
		})
	}
	return out, nil
}

// GetByID fetches a reservation by id.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		`SELECT id, seat_id, event_id, user_id, session_id, expires_at, status, created_at
		 FROM reservations WHERE id=? LIMIT 1`, id))
}

// GetBySeatIDTx loads the newest reservation row for a seat in the given
// status, locked FOR UPDATE inside tx.
func (r *ReservationRepo) GetBySeatIDTx(ctx context.Context, tx *sql.Tx, seatID uint64, status string) (*model.Reservation, error) {
	return r.scanOne(tx.QueryRowContext(ctx,
		`SELECT id, seat_id, event_id, user_id, session_id, expires_at, status, created_at
		 FROM reservations WHERE seat_id=? AND status=? ORDER BY id DESC LIMIT 1 FOR UPDATE`, seatID, status))
}

func (r *ReservationRepo) scanOne(row *sql.Row) (*model.Reservation, error) {
	var res model.Reservation
	if err := row.Scan(&res.ID, &res.SeatID, &res.EventID, &res.UserID, &res.SessionID,
		&res.ExpiresAt, &res.Status, &res.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

// ListByUser returns a user's reservations, optionally filtered by event.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64, eventID uint64) ([]*model.Reservation, error) {
	query := `SELECT id, seat_id, event_id, user_id, session_id, expires_at, status, created_at
	          FROM reservations WHERE user_id=?`
	args := []any{userID}
	if eventID != 0 {
		query += " AND event_id=?"
		args = append(args, eventID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Reservation
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.SeatID, &res.EventID, &res.UserID, &res.SessionID,
			&res.ExpiresAt, &res.Status, &res.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &res)
	}
	return out, rows.Err()
}

// UpdateStatusTx moves a reservation to a terminal status (or CONFIRMED),
// guarded by `WHERE status = :fromStatus` so the monotonic lattice never
// regresses.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, fromStatus, toStatus string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status=? WHERE id=? AND status=?`, toStatus, id, fromStatus)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

// ConfirmActiveBySeatsTx flips every ACTIVE reservation for the given seats
// and user to CONFIRMED, as part of book().
func (r *ReservationRepo) ConfirmActiveBySeatsTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64, userID uint64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	placeholders := make([]string, len(seatIDs))
	args := make([]any, 0, len(seatIDs)+3)
	args = append(args, model.ReservationConfirmed, userID, model.ReservationActive)
	for i, id := range seatIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	query := fmt.Sprintf(
		`UPDATE reservations SET status=? WHERE user_id=? AND status=? AND seat_id IN (%s)`,
		strings.Join(placeholders, ","))
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ExtendExpiryTx raises expires_at on an ACTIVE reservation.
func (r *ReservationRepo) ExtendExpiryTx(ctx context.Context, tx *sql.Tx, id uint64, newExpiry time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE reservations SET expires_at=? WHERE id=? AND status=?`, newExpiry, id, model.ReservationActive)
	return err
}

// ListExpiredActiveTx finds ACTIVE reservations past expires_at — the
// reclaimer's sole query, run inside its own periodic transaction.
func (r *ReservationRepo) ListExpiredActiveTx(ctx context.Context, tx *sql.Tx, now time.Time) ([]*model.Reservation, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, seat_id, event_id, user_id, session_id, expires_at, status, created_at
		 FROM reservations WHERE status=? AND expires_at < ? FOR UPDATE`, model.ReservationActive, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Reservation
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.SeatID, &res.EventID, &res.UserID, &res.SessionID,
			&res.ExpiresAt, &res.Status, &res.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &res)
	}
	return out, rows.Err()
}
