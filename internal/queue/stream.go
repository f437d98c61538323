package queue

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Priority selects which of an event's three streams a request lands on.
// A worker always drains HIGH fully, then NORMAL, then LOW — a low
// priority request behind a sustained run of high priority ones can wait
// indefinitely, which is the accepted tradeoff for fairness toward
// verified buyers during a hot on-sale.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// Priorities is the strict drain order.
var Priorities = []Priority{PriorityHigh, PriorityNormal, PriorityLow}

// PriorityFromTier maps a user's priority_tier column onto a stream
// priority, defaulting anything unrecognized to NORMAL.
func PriorityFromTier(tier string) Priority {
	switch strings.ToUpper(tier) {
	case "HIGH":
		return PriorityHigh
	case "LOW":
		return PriorityLow
	default:
		return PriorityNormal
	}
}

const consumerGroup = "ticketing-workers"
const dlqStream = "ticketing:dlq"

func streamKey(eventID uint64, p Priority) string {
	return "ticketing:queue:" + uintToA(eventID) + ":" + string(p)
}

func uintToA(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// TicketRequest is the envelope carried on the stream: enough to replay
// the reservation attempt with no other context than what the worker
// reads back off XREADGROUP.
type TicketRequest struct {
	RequestID string    `json:"request_id"`
	EventID   uint64    `json:"event_id"`
	UserID    uint64    `json:"user_id"`
	SeatIDs   []uint64  `json:"seat_ids"`
	Priority  Priority  `json:"priority"`
	SessionID *string   `json:"session_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrGroupExists is not returned by this package: ensureGroup treats
// Redis's BUSYGROUP reply (the consumer group already exists) as success.
var ErrGroupExists = errors.New("queue: consumer group already exists")

// Stream wraps every event's three priority streams and the shared
// dead-letter stream on one Redis client.
type Stream struct {
	rdb *redis.Client
}

func NewStream(rdb *redis.Client) *Stream {
	return &Stream{rdb: rdb}
}

// Enqueue appends the request to its priority stream, creating the stream
// and consumer group on first use (MKSTREAM), and returns the stream
// message ID.
func (s *Stream) Enqueue(ctx context.Context, req TicketRequest) (string, error) {
	key := streamKey(req.EventID, req.Priority)
	if err := s.ensureGroup(ctx, key); err != nil {
		return "", err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	id, err := s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: key,
		Values: map[string]any{"payload": body},
	}).Result()
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Stream) ensureGroup(ctx context.Context, key string) error {
	err := s.rdb.XGroupCreateMkStream(ctx, key, consumerGroup, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// StreamMessage pairs a decoded request with the raw stream message ID a
// worker must XAck (or dead-letter) once it has handled it.
type StreamMessage struct {
	ID      string
	Request TicketRequest
}

// ReadNext drains priorities in strict HIGH, NORMAL, LOW order for one
// event: it polls HIGH first and only falls through to NORMAL/LOW when
// HIGH has nothing pending, so a burst of high-priority traffic can starve
// lower tiers by design.
func (s *Stream) ReadNext(ctx context.Context, eventID uint64, consumer string, block time.Duration) (*StreamMessage, error) {
	for _, p := range Priorities {
		key := streamKey(eventID, p)
		if err := s.ensureGroup(ctx, key); err != nil {
			return nil, err
		}

		res, err := s.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    consumerGroup,
			Consumer: consumer,
			Streams:  []string{key, ">"},
			Count:    1,
			Block:    -1, // non-blocking poll: negative omits BLOCK entirely
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, err
		}
		if len(res) == 0 || len(res[0].Messages) == 0 {
			continue
		}

		msg := res[0].Messages[0]
		raw, _ := msg.Values["payload"].(string)
		var req TicketRequest
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			// Malformed payload: dead-letter it immediately, it will
			// never parse on redelivery either.
			_ = s.deadLetter(ctx, key, msg.ID, raw, "unmarshal: "+err.Error())
			_ = s.rdb.XAck(ctx, key, consumerGroup, msg.ID).Err()
			continue
		}
		return &StreamMessage{ID: msg.ID, Request: req}, nil
	}

	// Nothing ready on any priority: block briefly on HIGH so the worker
	// loop doesn't spin a tight poll.
	key := streamKey(eventID, PriorityHigh)
	res, err := s.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    consumerGroup,
		Consumer: consumer,
		Streams:  []string{key, ">"},
		Count:    1,
		Block:    block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(res) == 0 || len(res[0].Messages) == 0 {
		return nil, nil
	}
	msg := res[0].Messages[0]
	raw, _ := msg.Values["payload"].(string)
	var req TicketRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		_ = s.deadLetter(ctx, key, msg.ID, raw, "unmarshal: "+err.Error())
		_ = s.rdb.XAck(ctx, key, consumerGroup, msg.ID).Err()
		return nil, nil
	}
	return &StreamMessage{ID: msg.ID, Request: req}, nil
}

// Ack acknowledges successful (or terminally failed but handled) processing
// of a message on req's priority stream.
func (s *Stream) Ack(ctx context.Context, req TicketRequest, messageID string) error {
	return s.rdb.XAck(ctx, streamKey(req.EventID, req.Priority), consumerGroup, messageID).Err()
}

// DeadLetter moves a message that failed on a primitive the worker cannot
// recover from (DB unreachable, programmer error) onto the shared DLQ
// stream for manual inspection, then acks the source stream so it is not
// redelivered forever.
func (s *Stream) DeadLetter(ctx context.Context, req TicketRequest, messageID, reason string) error {
	body, _ := json.Marshal(req)
	if err := s.deadLetter(ctx, streamKey(req.EventID, req.Priority), messageID, string(body), reason); err != nil {
		return err
	}
	return s.Ack(ctx, req, messageID)
}

func (s *Stream) deadLetter(ctx context.Context, sourceKey, sourceMessageID, payload, reason string) error {
	return s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: dlqStream,
		Values: map[string]any{
			"source_stream":     sourceKey,
			"source_message_id": sourceMessageID,
			"payload":           payload,
			"reason":            reason,
		},
	}).Err()
}

// PriorityStats is one priority's length/pending pair.
type PriorityStats struct {
	Length  int64 `json:"length"`
	Pending int64 `json:"pending"`
}

// QueueStats reports per-priority stream length and unacknowledged count
// for an event, backing the operator-facing stats endpoint.
type QueueStats struct {
	EventID uint64                     `json:"event_id"`
	ByPriority map[Priority]PriorityStats `json:"by_priority"`
}

func (s *Stream) Stats(ctx context.Context, eventID uint64) (QueueStats, error) {
	out := QueueStats{EventID: eventID, ByPriority: map[Priority]PriorityStats{}}
	for _, p := range Priorities {
		key := streamKey(eventID, p)

		length, err := s.rdb.XLen(ctx, key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return out, err
		}

		var pending int64
		if summary, err := s.rdb.XPending(ctx, key, consumerGroup).Result(); err == nil && summary != nil {
			pending = summary.Count
		}

		out.ByPriority[p] = PriorityStats{Length: length, Pending: pending}
	}
	return out, nil
}

// DLQEntry is one message on the shared dead-letter stream.
type DLQEntry struct {
	ID            string `json:"id"`
	SourceStream  string `json:"source_stream"`
	SourceMsgID   string `json:"source_message_id"`
	Payload       string `json:"payload"`
	Reason        string `json:"reason"`
}

// ListDLQ returns up to limit dead-letter entries, most recent first, for
// the admin inspection endpoint.
func (s *Stream) ListDLQ(ctx context.Context, limit int64) ([]DLQEntry, error) {
	msgs, err := s.rdb.XRevRangeN(ctx, dlqStream, "+", "-", limit).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	out := make([]DLQEntry, 0, len(msgs))
	for _, m := range msgs {
		entry := DLQEntry{ID: m.ID}
		if v, ok := m.Values["source_stream"].(string); ok {
			entry.SourceStream = v
		}
		if v, ok := m.Values["source_message_id"].(string); ok {
			entry.SourceMsgID = v
		}
		if v, ok := m.Values["payload"].(string); ok {
			entry.Payload = v
		}
		if v, ok := m.Values["reason"].(string); ok {
			entry.Reason = v
		}
		out = append(out, entry)
	}
	return out, nil
}
