package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/ticketing-core/internal/model"
)

// EventRepo persists the 'events' table.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

// Create inserts a new event and returns its id.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO events (name, event_time, venue, total_seats, available_seats, status, sale_start_at)
		 VALUES (?,?,?,?,?,?,?)`,
		e.Name, e.EventTime, e.Venue, e.TotalSeats, e.TotalSeats, e.Status, e.SaleStartAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a single event.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		`SELECT id, name, event_time, venue, total_seats, available_seats, status, sale_start_at, created_at, updated_at
		 FROM events WHERE id=? LIMIT 1`, id))
}

// GetByIDTx is the FOR UPDATE variant used inside engine transactions that
// need to adjust available_seats alongside a seat mutation.
func (r *EventRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Event, error) {
	return r.scanOne(tx.QueryRowContext(ctx,
		`SELECT id, name, event_time, venue, total_seats, available_seats, status, sale_start_at, created_at, updated_at
		 FROM events WHERE id=? FOR UPDATE`, id))
}

func (r *EventRepo) scanOne(row *sql.Row) (*model.Event, error) {
	var e model.Event
	if err := row.Scan(&e.ID, &e.Name, &e.EventTime, &e.Venue, &e.TotalSeats, &e.AvailableSeats,
		&e.Status, &e.SaleStartAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// List returns events ordered by event_time, optionally filtered by status.
func (r *EventRepo) List(ctx context.Context, status string) ([]*model.Event, error) {
	query := `SELECT id, name, event_time, venue, total_seats, available_seats, status, sale_start_at, created_at, updated_at FROM events`
	args := []any{}
	if status != "" {
		query += " WHERE status=?"
		args = append(args, status)
	}
	query += " ORDER BY event_time"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.EventTime, &e.Venue, &e.TotalSeats, &e.AvailableSeats,
			&e.Status, &e.SaleStartAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// AdjustAvailableSeatsTx bumps events.available_seats by delta (positive on
// release, negative on reserve) inside an already-open transaction. This is
// the single code path that ever writes the counter — kept in every C4
// transaction rather than recomputed separately.
func (r *EventRepo) AdjustAvailableSeatsTx(ctx context.Context, tx *sql.Tx, eventID uint64, delta int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE events SET available_seats = available_seats + ? WHERE id=?`, delta, eventID)
	return err
}

// UpdateStatusTx transitions an event's status (e.g. ON_SALE -> SOLD_OUT)
// inside an open transaction.
func (r *EventRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, eventID uint64, status string) error {
	_, err := tx.ExecContext(ctx, `UPDATE events SET status=? WHERE id=?`, status, eventID)
	return err
}

// UpdateStatus transitions an event's status outside of a transaction, for
// admin actions like closing sales that don't also touch a seat row.
func (r *EventRepo) UpdateStatus(ctx context.Context, eventID uint64, status string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE events SET status=? WHERE id=?`, status, eventID)
	return err
}

// UpdateByID applies an admin edit (§12) to an existing event.
func (r *EventRepo) UpdateByID(ctx context.Context, e *model.Event) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE events SET name=?, event_time=?, venue=?, status=?, sale_start_at=? WHERE id=?`,
		e.Name, e.EventTime, e.Venue, e.Status, e.SaleStartAt, e.ID)
	return err
}

// DeleteByID removes an event (admin-only; seats cascade via FK).
func (r *EventRepo) DeleteByID(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id=?`, id)
	return err
}
