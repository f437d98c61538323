package queue

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/iliyamo/ticketing-core/internal/ticketing"
)

// Result is the JSON body a poller receives once a request has finished
// processing, mirroring ReserveResult in the shape a v2 client expects.
type Result struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	Reservations []uint64 `json:"reservation_ids,omitempty"`
	TotalCents   uint32   `json:"total_cents,omitempty"`
}

// worker drains one event's three priority streams sequentially. Since
// only one worker ever reads a given event's streams, the reservation
// primitive runs without the distributed mutex the immediate path needs —
// the stream's single-consumer ordering is itself the serialization point.
type worker struct {
	eventID uint64
	stream  *Stream
	status  *StatusRegistry
	engine  *ticketing.Engine
	cancel  context.CancelFunc
	done    chan struct{}
}

// Workers lazily starts and tracks one worker goroutine per event, so an
// event with no queued traffic never spins up a consumer.
type Workers struct {
	stream *Stream
	status *StatusRegistry
	engine *ticketing.Engine

	mu      sync.Mutex
	workers map[uint64]*worker
}

func NewWorkers(stream *Stream, status *StatusRegistry, engine *ticketing.Engine) *Workers {
	return &Workers{stream: stream, status: status, engine: engine, workers: map[uint64]*worker{}}
}

// Ensure starts a worker for eventID if one isn't already running.
func (w *Workers) Ensure(ctx context.Context, eventID uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.workers[eventID]; ok {
		return
	}

	// Detached from ctx (often an HTTP request context) so the worker
	// outlives the call that started it; StopAll cancels it.
	wctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	wk := &worker{
		eventID: eventID,
		stream:  w.stream,
		status:  w.status,
		engine:  w.engine,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	w.workers[eventID] = wk
	go wk.run(wctx)
}

// StopAll cancels every running worker and waits for in-flight messages to
// finish before returning.
func (w *Workers) StopAll() {
	w.mu.Lock()
	workers := make([]*worker, 0, len(w.workers))
	for _, wk := range w.workers {
		workers = append(workers, wk)
	}
	w.workers = map[uint64]*worker{}
	w.mu.Unlock()

	for _, wk := range workers {
		wk.cancel()
		<-wk.done
	}
}

func (wk *worker) run(ctx context.Context) {
	defer close(wk.done)
	consumer := fmt.Sprintf("worker-%d-1", wk.eventID)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msg, err := wk.stream.ReadNext(ctx, wk.eventID, consumer, 5_000_000_000)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("queue worker event=%d: read failed: %v", wk.eventID, err)
			continue
		}
		if msg == nil {
			continue
		}

		// Cancellation stops the read loop, not the message already read.
		wk.process(context.WithoutCancel(ctx), msg)
	}
}

// process handles one message end to end: it skips messages whose
// request already reached a terminal status or was cancelled, runs the
// reservation, records the result, and only then acknowledges — so a
// worker crash mid-primitive leaves the message unacknowledged in the
// consumer group's pending list instead of silently losing it. ReadNext
// reads only new messages, so such a pending message is not read again
// by this worker.
func (wk *worker) process(ctx context.Context, msg *StreamMessage) {
	req := msg.Request

	if existing, err := wk.status.Get(ctx, req.RequestID); err == nil && existing != nil {
		switch existing.Status {
		case StatusCompleted, StatusFailed:
			_ = wk.stream.Ack(ctx, req, msg.ID)
			return
		case StatusCancelled:
			_ = wk.stream.Ack(ctx, req, msg.ID)
			return
		}
	}

	if err := wk.status.SetStatus(ctx, req.RequestID, StatusProcessing, "processing"); err != nil {
		if cur, gerr := wk.status.Get(ctx, req.RequestID); gerr == nil && cur.Status == StatusCancelled {
			_ = wk.stream.Ack(ctx, req, msg.ID)
			return
		}
		log.Printf("queue worker event=%d request=%s: status transition failed: %v", wk.eventID, req.RequestID, err)
	}

	result, deadLetterReason := wk.reserve(ctx, req)

	if err := wk.status.SetResult(ctx, req.RequestID, result); err != nil {
		log.Printf("queue worker event=%d request=%s: result write failed: %v", wk.eventID, req.RequestID, err)
	}

	finalStatus := StatusCompleted
	if !result.Success {
		finalStatus = StatusFailed
	}
	if err := wk.status.SetStatus(ctx, req.RequestID, finalStatus, result.Message); err != nil {
		log.Printf("queue worker event=%d request=%s: final status write failed: %v", wk.eventID, req.RequestID, err)
	}

	if deadLetterReason != "" {
		if err := wk.stream.DeadLetter(ctx, req, msg.ID, deadLetterReason); err != nil {
			log.Printf("queue worker event=%d request=%s: dead-letter failed: %v", wk.eventID, req.RequestID, err)
		}
		return
	}

	if err := wk.stream.Ack(ctx, req, msg.ID); err != nil {
		log.Printf("queue worker event=%d request=%s: ack failed: %v", wk.eventID, req.RequestID, err)
	}
}

// reserve runs the reservation primitive and classifies the outcome. A
// *ticketing.Error is an ordinary rejection (seat gone, wrong event, bad
// input) and is reported as a failed Result like any other. Any other
// error is a primitive the worker cannot interpret or recover from — it
// is routed to the dead-letter stream instead of being acked as a normal
// failure, so it surfaces for inspection rather than disappearing.
func (wk *worker) reserve(ctx context.Context, req TicketRequest) (Result, string) {
	out, err := wk.engine.Reserve(ctx, req.EventID, req.SeatIDs, req.UserID, req.SessionID)
	if err != nil {
		if tErr, ok := ticketing.AsError(err); ok {
			return Result{Success: false, Message: tErr.Error()}, ""
		}
		return Result{Success: false, Message: "internal error processing reservation"}, err.Error()
	}

	ids := make([]uint64, len(out.Reservations))
	for i, r := range out.Reservations {
		ids[i] = r.ID
	}
	return Result{Success: true, Message: "reservation successful", Reservations: ids, TotalCents: out.TotalCents}, ""
}
