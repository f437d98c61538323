package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RequestStatus is the lattice a queued request's status hash moves
// through: PENDING -> PROCESSING -> {COMPLETED, FAILED}. CANCELLED is
// reachable only from PENDING, matching the decision that a request
// already claimed by a worker runs to completion rather than being
// pulled out from under it.
type RequestStatus string

const (
	StatusPending    RequestStatus = "PENDING"
	StatusProcessing RequestStatus = "PROCESSING"
	StatusCompleted  RequestStatus = "COMPLETED"
	StatusFailed     RequestStatus = "FAILED"
	StatusCancelled  RequestStatus = "CANCELLED"
)

// ErrTransitionNotAllowed guards the lattice: a caller cannot move a
// request backwards or out of a terminal state.
var ErrTransitionNotAllowed = errors.New("queue: status transition not allowed")

func statusKey(requestID string) string { return "ticketing:status:" + requestID }
func resultKey(requestID string) string { return "ticketing:result:" + requestID }

// StatusEntry is the hash stored at statusKey.
type StatusEntry struct {
	RequestID string        `json:"request_id"`
	Status    RequestStatus `json:"status"`
	Message   string        `json:"message"`
}

// StatusRegistry records request lifecycle in Redis hashes with a fixed
// TTL, letting pollers recover status without holding a DB connection and
// letting entries age out on their own rather than needing a reaper.
type StatusRegistry struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStatusRegistry(rdb *redis.Client, ttl time.Duration) *StatusRegistry {
	return &StatusRegistry{rdb: rdb, ttl: ttl}
}

func allowedTransition(from, to RequestStatus) bool {
	switch from {
	case "":
		return to == StatusPending
	case StatusPending:
		return to == StatusProcessing || to == StatusCancelled
	case StatusProcessing:
		return to == StatusCompleted || to == StatusFailed
	default:
		return false
	}
}

// SetStatus writes a new status, rejecting anything but a forward move on
// the lattice. The read-then-write is not atomic against a concurrent
// writer, but in practice only the single per-event worker goroutine (and
// the submitting caller, for the initial PENDING) ever writes a given
// request's status, so there is no real race to guard against.
func (s *StatusRegistry) SetStatus(ctx context.Context, requestID string, status RequestStatus, message string) error {
	cur, err := s.Get(ctx, requestID)
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	from := RequestStatus("")
	if cur != nil {
		from = cur.Status
	}
	if !allowedTransition(from, status) {
		return ErrTransitionNotAllowed
	}

	entry := StatusEntry{RequestID: requestID, Status: status, Message: message}
	return s.write(ctx, entry)
}

func (s *StatusRegistry) write(ctx context.Context, entry StatusEntry) error {
	key := statusKey(entry.RequestID)
	if err := s.rdb.HSet(ctx, key, map[string]any{
		"request_id": entry.RequestID,
		"status":     string(entry.Status),
		"message":    entry.Message,
	}).Err(); err != nil {
		return err
	}
	return s.rdb.Expire(ctx, key, s.ttl).Err()
}

// Get returns nil, redis.Nil when no status has been recorded (unknown or
// already-expired request).
func (s *StatusRegistry) Get(ctx context.Context, requestID string) (*StatusEntry, error) {
	vals, err := s.rdb.HGetAll(ctx, statusKey(requestID)).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}
	return &StatusEntry{
		RequestID: vals["request_id"],
		Status:    RequestStatus(vals["status"]),
		Message:   vals["message"],
	}, nil
}

// Cancel moves a PENDING request straight to CANCELLED, the mechanism a
// caller uses to pull back a request the worker hasn't yet claimed. It is
// a no-op error (ErrTransitionNotAllowed) once the worker has already
// moved the request to PROCESSING or beyond.
func (s *StatusRegistry) Cancel(ctx context.Context, requestID string) error {
	return s.SetStatus(ctx, requestID, StatusCancelled, "cancelled by requester")
}

// SetResult stores the final payload a completed or failed request
// produced, under its own key so pollers can fetch status cheaply without
// always paying for the (potentially larger) result body.
func (s *StatusRegistry) SetResult(ctx context.Context, requestID string, result any) error {
	body, err := json.Marshal(result)
	if err != nil {
		return err
	}
	key := resultKey(requestID)
	if err := s.rdb.Set(ctx, key, body, s.ttl).Err(); err != nil {
		return err
	}
	return nil
}

// GetResult returns the raw JSON result payload, or redis.Nil if none has
// been recorded (yet, or it already expired).
func (s *StatusRegistry) GetResult(ctx context.Context, requestID string) (json.RawMessage, error) {
	body, err := s.rdb.Get(ctx, resultKey(requestID)).Bytes()
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}
