package messaging

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Kiiichu/stress-estimator/internal/domain/port"
	"github.com/Kiiichu/stress-estimator/pkg/events"
)

// ErrQueueFull is returned when the background queue has no room for a batch.
var ErrQueueFull = errors.New("event queue is full")

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("event publisher is closed")

const (
	defaultQueueSize      = 256
	defaultPublishTimeout = 2 * time.Second
)

// AsyncConfig configures an AsyncPublisher.
type AsyncConfig struct {
	// QueueSize is the number of batches that may wait for delivery.
	QueueSize int
	// PublishTimeout bounds one delivery attempt to the wrapped publisher.
	PublishTimeout time.Duration
}

// AsyncPublisher hands events to a single background worker so callers never
// wait on the broker. Delivery failures are logged by the worker.
type AsyncPublisher struct {
	next    port.EventPublisher
	logger  *slog.Logger
	queue   chan []events.DomainEvent
	done    chan struct{}
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
}

// NewAsyncPublisher starts the delivery worker for next.
func NewAsyncPublisher(next port.EventPublisher, cfg AsyncConfig, logger *slog.Logger) *AsyncPublisher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = defaultPublishTimeout
	}

	p := &AsyncPublisher{
		next:    next,
		logger:  logger,
		queue:   make(chan []events.DomainEvent, cfg.QueueSize),
		done:    make(chan struct{}),
		timeout: cfg.PublishTimeout,
	}
	go p.run()
	return p
}

// Publish enqueues the events and returns immediately.
func (p *AsyncPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.queue <- evts:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits for queued batches to be delivered
// or for ctx to end.
func (p *AsyncPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *AsyncPublisher) run() {
	defer close(p.done)

	for batch := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		if err := p.next.Publish(ctx, batch...); err != nil {
			p.logger.Warn("event delivery failed",
				slog.String("event_type", batch[0].EventType()),
				slog.Int("count", len(batch)),
				slog.String("error", err.Error()),
			)
		}
		cancel()
	}
}
