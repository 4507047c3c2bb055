// Package publisher delivers audit events to a sink, synchronously by
// default or through a bounded buffer when callers must not block on the
// sink's latency.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	audit "userbase/pkg/platform/audit"
	"userbase/pkg/platform/circuit"
)

// Publisher emits audit events to a sink.
//
// In sync mode Emit blocks until the sink accepts the event. In async mode
// events pass through a bounded buffer drained by a single goroutine; a full
// buffer drops the event rather than stalling the request path, and Close
// drains whatever is still queued.
type Publisher struct {
	sink    audit.Sink
	logger  *slog.Logger
	breaker *circuit.Breaker

	events    chan audit.Event
	wg        sync.WaitGroup
	closeOnce sync.Once

	mu     sync.RWMutex
	closed bool
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to async mode with the given
// buffer capacity.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan audit.Event, size)
		}
	}
}

// WithBreaker tracks sink health through a circuit breaker so a flapping
// sink does not flood the log with delivery errors.
func WithBreaker(b *circuit.Breaker) Option {
	return func(p *Publisher) {
		p.breaker = b
	}
}

// WithLogger sets a logger for drop and delivery-failure reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPublisher creates a publisher over the given sink.
func NewPublisher(sink audit.Sink, opts ...Option) *Publisher {
	p := &Publisher{
		sink:   sink,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.events != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records an event. A zero timestamp is stamped with the current time.
// Audit delivery is best-effort from the caller's perspective: a full async
// buffer drops the event and the business operation proceeds.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if p.events == nil {
		return p.deliver(ctx, event, false)
	}

	// Hold the read lock across the send so Close cannot close the channel
	// between the closed check and the send. Emits that lose the race to
	// Close are dropped like buffer-full ones; shutdown must not panic over
	// a late audit event.
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logger.Warn("audit publisher closed, dropping event",
			"action", event.Action,
			"user_id", event.UserID,
		)
		return nil
	}

	select {
	case p.events <- event:
	default:
		p.logger.Warn("audit buffer full, dropping event",
			"action", event.Action,
			"user_id", event.UserID,
		)
	}
	return nil
}

// Close stops accepting events and drains the buffer. Safe to call more
// than once. Sync-mode publishers have nothing to drain.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		if p.events != nil {
			close(p.events)
		}
		p.mu.Unlock()
	})
	p.wg.Wait()
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.events {
		_ = p.deliver(context.Background(), event, true)
	}
}

// deliver appends the event to the sink and records the outcome on the
// breaker. With the breaker open, per-event failure logging is suppressed;
// the transitions are logged instead. Sync callers handle the returned error
// themselves, so logFailure only applies to the drain goroutine.
func (p *Publisher) deliver(ctx context.Context, event audit.Event, logFailure bool) error {
	err := p.sink.Append(ctx, event)
	if err == nil {
		if p.breaker != nil {
			if _, change := p.breaker.RecordSuccess(); change.Closed {
				p.logger.Info("audit sink recovered", "breaker", p.breaker.Name())
			}
		}
		return nil
	}

	if p.breaker == nil {
		if logFailure {
			p.logger.Error("audit event delivery failed",
				"action", event.Action,
				"user_id", event.UserID,
				"error", err,
			)
		}
		return err
	}

	suppressed, change := p.breaker.RecordFailure()
	switch {
	case change.Opened:
		p.logger.Error("audit sink failing, suppressing further delivery errors",
			"breaker", p.breaker.Name(),
			"error", err,
		)
	case logFailure && !suppressed:
		p.logger.Error("audit event delivery failed",
			"action", event.Action,
			"user_id", event.UserID,
			"error", err,
		)
	}
	return err
}
