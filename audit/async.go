// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

var (
	ErrQueueFull = errors.New("audit queue full")
	ErrClosed    = errors.New("audit sink closed")
)

// AsyncSink queues events for a single consumer goroutine so callers never wait
// on the underlying sink. When the queue is full, events are dropped and
// reported through OnDrop. LogSync skips the queue.
type AsyncSink struct {
	next   Sink
	queue  chan Event
	logger *slog.Logger

	// OnDrop is called for every event dropped because the queue was full.
	OnDrop func(Event)

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewAsyncSink(next Sink, size int, logger *slog.Logger) *AsyncSink {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AsyncSink{
		next:   next,
		queue:  make(chan Event, size),
		logger: logger,
		done:   make(chan struct{}),
	}
}

func (a *AsyncSink) Log(_ context.Context, ev Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}

	select {
	case a.queue <- ev:
		return nil
	default:
		a.logger.Warn("audit queue full, dropping event", "action", string(ev.Action), "entity_id", ev.EntityID)
		if a.OnDrop != nil {
			a.OnDrop(ev)
		}
		return ErrQueueFull
	}
}

func (a *AsyncSink) LogSync(ctx context.Context, ev Event) error {
	return a.next.Log(ctx, ev)
}

// Run consumes the queue until ctx is cancelled or Close is called, then
// drains whatever is still queued. It returns nil on a clean shutdown.
func (a *AsyncSink) Run(ctx context.Context) error {
	defer close(a.done)
	for {
		select {
		case ev, ok := <-a.queue:
			if !ok {
				return nil
			}
			a.write(ev)
		case <-ctx.Done():
			a.Close()
			for ev := range a.queue {
				a.write(ev)
			}
			return nil
		}
	}
}

// Close stops accepting events. Run finishes once the queue is drained.
func (a *AsyncSink) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	close(a.queue)
}

// Done is closed when Run returns.
func (a *AsyncSink) Done() <-chan struct{} {
	return a.done
}

func (a *AsyncSink) write(ev Event) {
	// The request context is gone by now; the consumer owns delivery.
	if err := a.next.Log(context.Background(), ev); err != nil {
		a.logger.Error("failed to write audit event", "error", err, "action", string(ev.Action), "entity_id", ev.EntityID)
	}
}
