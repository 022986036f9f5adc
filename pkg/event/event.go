// Package event is an in-process publish/subscribe bus.
//
// The order service publishes order.placed and order.status_updated; the
// websocket hub subscribes and forwards them to admin dashboards.
package event

import (
	"sync"
)

// Handler receives an event payload.
type Handler func(name string, payload any)

// Bus dispatches named events to listeners. The zero value is not usable;
// call New.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	all      []Handler
}

func New() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// Listen registers h for one event name.
func (b *Bus) Listen(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// ListenAll registers h for every event.
func (b *Bus) ListenAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

func (b *Bus) listeners(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Handler, 0, len(b.handlers[name])+len(b.all))
	out = append(out, b.handlers[name]...)
	return append(out, b.all...)
}

// Fire calls every listener synchronously, in registration order.
// A nil Bus drops the event.
func (b *Bus) Fire(name string, payload any) {
	if b == nil {
		return
	}
	for _, h := range b.listeners(name) {
		h(name, payload)
	}
}
