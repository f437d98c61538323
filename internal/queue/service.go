package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/ticketing-core/internal/ticketing"
	"github.com/iliyamo/ticketing-core/internal/utils"
)

// Service is the v2 entry point: it validates and enqueues a reservation
// request, lazily starting the per-event worker, and lets callers poll for
// the outcome by request ID. Unlike the immediate path it never touches
// the durable store directly — every seat mutation happens inside the
// worker goroutine that eventually dequeues the request.
type Service struct {
	Stream             *Stream
	Status             *StatusRegistry
	Workers            *Workers
	MaxSeatsPerBooking int
}

func NewService(stream *Stream, status *StatusRegistry, workers *Workers, maxSeatsPerBooking int) *Service {
	return &Service{Stream: stream, Status: status, Workers: workers, MaxSeatsPerBooking: maxSeatsPerBooking}
}

// SubmitResult is returned immediately on enqueue, before any primitive
// has run.
type SubmitResult struct {
	Accepted  bool   `json:"accepted"`
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// Submit enqueues a reservation request onto the given priority (the
// caller chooses it, including any tier check) and starts that event's worker if it isn't already
// running. It returns a 202-shaped result: the caller polls Status for the
// outcome.
func (s *Service) Submit(ctx context.Context, eventID, userID uint64, seatIDs []uint64, priority Priority, sessionID *string) (SubmitResult, error) {
	if len(seatIDs) == 0 || len(seatIDs) > s.MaxSeatsPerBooking {
		return SubmitResult{}, &ticketing.Error{Kind: ticketing.InvalidInput, Message: fmt.Sprintf("seat count must be between 1 and %d", s.MaxSeatsPerBooking)}
	}

	requestID := "RQ-" + utils.NewULID()
	req := TicketRequest{
		RequestID: requestID,
		EventID:   eventID,
		UserID:    userID,
		SeatIDs:   seatIDs,
		Priority:  priority,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
	}

	if err := s.Status.SetStatus(ctx, requestID, StatusPending, "queued for processing"); err != nil {
		return SubmitResult{}, err
	}

	if _, err := s.Stream.Enqueue(ctx, req); err != nil {
		return SubmitResult{}, err
	}

	s.Workers.Ensure(ctx, eventID)

	return SubmitResult{Accepted: true, RequestID: requestID, Status: string(StatusPending), Message: "request queued for processing"}, nil
}

// StatusResult is the shape returned to a polling client.
type StatusResult struct {
	RequestID string          `json:"request_id"`
	Status    RequestStatus   `json:"status"`
	Message   string          `json:"message"`
	Result    json.RawMessage `json:"result,omitempty"`
}

// GetStatus returns nil, nil when the request is unknown (never submitted,
// or its entry already aged out of the registry).
func (s *Service) GetStatus(ctx context.Context, requestID string) (*StatusResult, error) {
	entry, err := s.Status.Get(ctx, requestID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	out := &StatusResult{RequestID: entry.RequestID, Status: entry.Status, Message: entry.Message}
	if entry.Status == StatusCompleted || entry.Status == StatusFailed {
		if body, err := s.Status.GetResult(ctx, requestID); err == nil {
			out.Result = body
		}
	}
	return out, nil
}

// Cancel pulls back a request the worker has not yet claimed.
func (s *Service) Cancel(ctx context.Context, requestID string) error {
	return s.Status.Cancel(ctx, requestID)
}

// Stats reports per-priority pending counts for an event's streams.
func (s *Service) Stats(ctx context.Context, eventID uint64) (QueueStats, error) {
	return s.Stream.Stats(ctx, eventID)
}

// ListDLQ returns the most recent dead-lettered messages, for admin
// inspection.
func (s *Service) ListDLQ(ctx context.Context, limit int64) ([]DLQEntry, error) {
	return s.Stream.ListDLQ(ctx, limit)
}
