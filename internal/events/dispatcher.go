// Package events delivers domain events to registered observers in-process.
// It replaces push-based storage listeners: the engine publishes, consumers
// subscribe, neither knows about the other.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
)

// Handler consumes a single domain event
type Handler func(ctx context.Context, event domain.Event)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Dispatcher fans domain events out to subscribers. Delivery is
// fire-and-forget: each handler runs in its own goroutine with a bounded
// context, a slow or failing subscriber never blocks the engine.
type Dispatcher struct {
	mu          sync.RWMutex
	subscribers []Handler
	timeout     time.Duration
	logger      Logger
}

// NewDispatcher creates a dispatcher with the given per-handler timeout
func NewDispatcher(timeout time.Duration, logger Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{timeout: timeout, logger: logger}
}

// Subscribe registers a handler for all future events
func (d *Dispatcher) Subscribe(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers = append(d.subscribers, h)
}

// Publish delivers the event to every subscriber and returns immediately
func (d *Dispatcher) Publish(event domain.Event) {
	d.mu.RLock()
	handlers := make([]Handler, len(d.subscribers))
	copy(handlers, d.subscribers)
	d.mu.RUnlock()

	for _, h := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					d.logger.Warn("events: subscriber panicked: %v", r)
				}
			}()

			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			defer cancel()

			h(ctx, event)
		}(h)
	}
}
