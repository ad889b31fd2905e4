package event

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vertextoedge/linkguard/internal/domain"
	"go.uber.org/zap"
)

// allEvents subscribes a handler to every event name
const allEvents = "*"

// EventHandler handles domain events
type EventHandler interface {
	// Handle processes the event
	Handle(event DomainEvent) error
	// HandledEvents returns the event names this handler handles
	HandledEvents() []string
}

// EventDispatcher dispatches domain events to registered handlers
type EventDispatcher interface {
	// Dispatch sends an event to all registered handlers
	Dispatch(event DomainEvent)
	// Subscribe registers a handler for events
	Subscribe(handler EventHandler)
	// Unsubscribe removes a handler
	Unsubscribe(handler EventHandler)
}

// InMemoryDispatcher is an in-memory implementation of EventDispatcher.
// Handler errors and panics are logged and never reach the caller.
type InMemoryDispatcher struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
	async    bool
	logger   *zap.Logger
	wg       sync.WaitGroup
}

// NewInMemoryDispatcher creates a new InMemoryDispatcher
func NewInMemoryDispatcher(async bool) *InMemoryDispatcher {
	return &InMemoryDispatcher{
		handlers: make(map[string][]EventHandler),
		async:    async,
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger used to report handler failures
func (d *InMemoryDispatcher) SetLogger(logger *zap.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	d.logger = logger
}

// Dispatch sends an event to all registered handlers
func (d *InMemoryDispatcher) Dispatch(event DomainEvent) {
	d.mu.RLock()
	named := d.handlers[event.EventName()]
	wildcard := d.handlers[allEvents]
	logger := d.logger
	d.mu.RUnlock()

	targets := make([]EventHandler, 0, len(named)+len(wildcard))
	targets = append(targets, named...)
	targets = append(targets, wildcard...)

	for _, handler := range targets {
		if d.async {
			d.wg.Add(1)
			go func(h EventHandler) {
				defer d.wg.Done()
				d.deliver(h, event, logger)
			}(handler)
		} else {
			d.deliver(handler, event, logger)
		}
	}
}

// Wait blocks until every asynchronously dispatched event has been handled
func (d *InMemoryDispatcher) Wait() {
	d.wg.Wait()
}

func (d *InMemoryDispatcher) deliver(h EventHandler, event DomainEvent, logger *zap.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event handler panicked",
				zap.String("event", event.EventName()),
				zap.String("handler", fmt.Sprintf("%T", h)),
				zap.Any("panic", r))
		}
	}()

	err := h.Handle(event)
	if err == nil {
		return
	}

	var skippable *domain.SkippableError
	if errors.As(err, &skippable) {
		logger.Warn("event handler skipped",
			zap.String("event", event.EventName()),
			zap.String("handler", fmt.Sprintf("%T", h)),
			zap.Error(err))
		return
	}
	logger.Error("event handler failed",
		zap.String("event", event.EventName()),
		zap.String("handler", fmt.Sprintf("%T", h)),
		zap.Error(err))
}

// Subscribe registers a handler for events
func (d *InMemoryDispatcher) Subscribe(handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, eventName := range handler.HandledEvents() {
		d.handlers[eventName] = append(d.handlers[eventName], handler)
	}
}

// Unsubscribe removes a handler
func (d *InMemoryDispatcher) Unsubscribe(handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, eventName := range handler.HandledEvents() {
		current := d.handlers[eventName]
		for i, h := range current {
			if h != handler {
				continue
			}
			// Copy so a concurrent Dispatch keeps iterating its own snapshot
			kept := make([]EventHandler, 0, len(current)-1)
			kept = append(kept, current[:i]...)
			d.handlers[eventName] = append(kept, current[i+1:]...)
			break
		}
	}
}

// HandlerCount returns the number of handlers registered for an event name
func (d *InMemoryDispatcher) HandlerCount(eventName string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[eventName])
}

// NullDispatcher drops every event
type NullDispatcher struct{}

// NewNullDispatcher creates a new NullDispatcher
func NewNullDispatcher() *NullDispatcher {
	return &NullDispatcher{}
}

func (d *NullDispatcher) Dispatch(event DomainEvent)       {}
func (d *NullDispatcher) Subscribe(handler EventHandler)   {}
func (d *NullDispatcher) Unsubscribe(handler EventHandler) {}
