// Package analytics records directory searches: a buffered Collector publishes
// SearchEvents to Kafka off the request path, and an Aggregator consumes them
// into query statistics served over HTTP.
package analytics

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/kafka"
)

// Publisher is the subset of kafka.Producer the collector needs.
type Publisher interface {
	Publish(ctx context.Context, events ...kafka.Event) error
}

// Collector buffers events and publishes them from a single goroutine.
// Track never blocks; events are dropped when the buffer is full or the
// collector is closed.
type Collector struct {
	publisher Publisher
	eventCh   chan SearchEvent
	logger    *slog.Logger
	done      chan struct{}

	mu      sync.RWMutex
	closed  bool
	started atomic.Bool
}

func NewCollector(publisher Publisher, bufferSize int) *Collector {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	return &Collector{
		publisher: publisher,
		eventCh:   make(chan SearchEvent, bufferSize),
		logger:    slog.Default().With("component", "analytics-collector"),
		done:      make(chan struct{}),
	}
}

// Start launches the publish loop. Close must be called to stop it.
func (c *Collector) Start(ctx context.Context) {
	c.started.Store(true)
	go func() {
		defer close(c.done)
		for event := range c.eventCh {
			c.publish(ctx, event)
		}
	}()
	c.logger.Info("analytics collector started", "buffer_size", cap(c.eventCh))
}

func (c *Collector) Track(event SearchEvent) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		c.logger.Debug("analytics event dropped (collector closed)", "query", event.Query)
		return
	}
	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("analytics event dropped (buffer full)", "query", event.Query)
	}
}

// Close stops accepting events, publishes what is buffered, and waits for
// the publish loop when Start was called. It is safe to call more than once.
func (c *Collector) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.eventCh)
	c.mu.Unlock()

	if c.started.Load() {
		<-c.done
	}
}

func (c *Collector) publish(ctx context.Context, event SearchEvent) {
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}
	if err := c.publisher.Publish(ctx, kafka.Event{Key: event.Query, Value: event}); err != nil {
		c.logger.Error("failed to publish analytics event", "error", err)
	}
}
