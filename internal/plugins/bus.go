package plugins

import (
	"sync"

	"go.trai.ch/pyforge/internal/core/ports"
)

// Handler receives one published event payload.
type Handler func(event string, payload map[string]any)

// Subscription identifies one registered handler so it can be removed
// again. Handlers are not comparable, so removal goes through the token.
type Subscription struct {
	event   string
	handler Handler
}

// EventBus is an in-process publish/subscribe bus for lifecycle
// notifications. It implements ports.EventPublisher. Publishing is
// synchronous but isolated: a panicking subscriber never breaks the
// publisher or other subscribers.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]*Subscription
	logger   ports.Logger
}

// NewEventBus creates an empty EventBus.
func NewEventBus(logger ports.Logger) *EventBus {
	return &EventBus{
		handlers: make(map[string][]*Subscription),
		logger:   logger,
	}
}

// Subscribe registers a handler for an event name.
func (b *EventBus) Subscribe(event string, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub := &Subscription{event: event, handler: h}
	b.handlers[event] = append(b.handlers[event], sub)
	return sub
}

// Unsubscribe removes a previously registered handler. Unknown
// subscriptions are ignored.
func (b *EventBus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[sub.event]
	for i, s := range subs {
		if s == sub {
			b.handlers[sub.event] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.handlers[sub.event]) == 0 {
		delete(b.handlers, sub.event)
	}
}

// Publish delivers the payload to every subscriber of the event. Publish
// never fails; subscriber panics are logged and swallowed.
func (b *EventBus) Publish(event string, payload map[string]any) {
	b.mu.RLock()
	subs := make([]*Subscription, len(b.handlers[event]))
	copy(subs, b.handlers[event])
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(s.handler, event, payload)
	}
}

func (b *EventBus) deliver(h Handler, event string, payload map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event subscriber panicked", "event", event, "panic", r)
		}
	}()
	h(event, payload)
}
