package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrHubClosed is returned by Subscribe after Close.
var ErrHubClosed = errors.New("realtime hub closed")

// Filter narrows the events of a topic delivered to a subscription. Zero fields match everything.
type Filter struct {
	Type  EventType
	Field string
	Value string
}

// Matches reports whether ev passes the filter.
func (f Filter) Matches(ev ChangeEvent) bool {
	if f.Type != "" && ev.Type != f.Type {
		return false
	}
	if f.Field != "" && ev.Str(f.Field) != f.Value {
		return false
	}
	return true
}

// Handler receives matching events.
type Handler func(ChangeEvent)

// Subscription is an open channel subscription.
type Subscription interface {
	Unsubscribe()
}

// Subscriber opens topic subscriptions.
type Subscriber interface {
	Subscribe(topic Topic, filter Filter, h Handler) (Subscription, error)
}

type observer interface {
	Inc(topic string)
}

type entry struct {
	topic   Topic
	filter  Filter
	handler Handler
}

// Hub routes events to in-process subscribers. It is the local broker and the sink of the
// Kafka and RabbitMQ consumers.
type Hub struct {
	mu      sync.RWMutex
	nextID  uint64
	subs    map[uint64]entry
	closed  bool
	metrics observer
}

// NewHub creates an empty hub. metrics may be nil.
func NewHub(metrics observer) *Hub {
	return &Hub{subs: make(map[uint64]entry), metrics: metrics}
}

// Subscribe registers h for the events of topic matching filter.
func (h *Hub) Subscribe(topic Topic, filter Filter, handler Handler) (Subscription, error) {
	if !topic.Valid() {
		return nil, fmt.Errorf("subscribe: unknown topic %q", topic)
	}
	if handler == nil {
		return nil, errors.New("subscribe: nil handler")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrHubClosed
	}
	h.nextID++
	id := h.nextID
	h.subs[id] = entry{topic: topic, filter: filter, handler: handler}
	return &hubSubscription{hub: h, id: id}, nil
}

// Dispatch delivers ev to the matching subscribers. Handlers run on the caller's goroutine.
func (h *Hub) Dispatch(ev ChangeEvent) {
	h.mu.RLock()
	targets := make([]Handler, 0, len(h.subs))
	for _, e := range h.subs {
		if e.topic == ev.Topic && e.filter.Matches(ev) {
			targets = append(targets, e.handler)
		}
	}
	h.mu.RUnlock()

	if h.metrics != nil {
		h.metrics.Inc(string(ev.Topic))
	}
	for _, fn := range targets {
		fn(ev)
	}
}

// Publish implements Publisher for the local broker.
func (h *Hub) Publish(ctx context.Context, ev ChangeEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.Dispatch(ev)
	return nil
}

// Len returns the number of open subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close drops every subscription and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.subs = make(map[uint64]entry)
}

type hubSubscription struct {
	hub  *Hub
	id   uint64
	once sync.Once
}

func (s *hubSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s.id)
		s.hub.mu.Unlock()
	})
}
