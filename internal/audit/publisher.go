package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Publisher records coordinator decisions. With an async buffer it never
// blocks the calling action: events that do not fit are counted and dropped.
type Publisher struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time

	queue   chan Event
	mu      sync.RWMutex
	closed  bool
	drained sync.WaitGroup
	dropped atomic.Int64
}

type PublisherOption func(*Publisher)

// WithAsyncBuffer persists events from a background goroutine through a
// queue of the given size. Zero keeps the publisher synchronous.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.queue = make(chan Event, size)
		}
	}
}

func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.queue != nil {
		p.drained.Add(1)
		go p.drain()
	}
	return p
}

func (p *Publisher) drain() {
	defer p.drained.Done()
	for event := range p.queue {
		p.persist(context.Background(), event)
	}
}

func (p *Publisher) persist(ctx context.Context, event Event) error {
	err := p.store.Append(ctx, event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to persist audit event",
			"action", event.Action,
			"entity", event.Entity,
			"decision", event.Decision,
			"error", err,
		)
	}
	return err
}

// Emit timestamps event and hands it to the store. After Close, events are
// written synchronously.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.queue == nil || p.closed {
		return p.persist(ctx, event)
	}
	select {
	case p.queue <- event:
	default:
		p.dropped.Add(1)
		p.logger.WarnContext(ctx, "audit queue full, event dropped",
			"action", event.Action,
			"entity", event.Entity,
		)
	}
	return nil
}

// Dropped reports how many events were discarded because the queue was full.
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}

// Close flushes queued events. It is safe to call more than once.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.queue == nil || p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()
	p.drained.Wait()
}

// List returns the events recorded for subjectID, oldest first.
func (p *Publisher) List(ctx context.Context, subjectID string) ([]Event, error) {
	return p.store.ListBySubject(ctx, subjectID)
}
