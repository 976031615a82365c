// Package events is the change-notification layer between the stores and
// whatever renders them. It replaces an ambient broadcast namespace with an
// explicit hub: subscribers hold a typed unsubscribe handle and release it on
// teardown. Delivery is synchronous, payload-free, in unspecified order, with
// no replay for late subscribers — a store mutation that should refresh a
// view must emit, or the view goes silently stale.
package events

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Topic names match the record domains they announce.
const (
	TopicProducts  = "products-updated"
	TopicOrders    = "orders-updated"
	TopicReviews   = "reviews-updated"
	TopicFavorites = "favorites-updated"
)

var emitsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "store_events_emitted_total",
		Help: "Total number of store change events emitted, by topic.",
	},
	[]string{"topic"},
)

type Hub struct {
	mu           sync.Mutex
	seq          int
	subs         map[string]map[int]func()
	identitySubs map[int]func(userID string)
}

func NewHub() *Hub {
	return &Hub{
		subs:         make(map[string]map[int]func()),
		identitySubs: make(map[int]func(string)),
	}
}

// Subscribe registers fn for topic and returns its unsubscribe handle.
func (h *Hub) Subscribe(topic string, fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	id := h.seq

	if h.subs[topic] == nil {
		h.subs[topic] = make(map[int]func())
	}

	h.subs[topic][id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		delete(h.subs[topic], id)
	}
}

// Emit delivers synchronously to all current subscribers of topic.
func (h *Hub) Emit(topic string) {
	h.mu.Lock()

	fns := make([]func(), 0, len(h.subs[topic]))
	for _, fn := range h.subs[topic] {
		fns = append(fns, fn)
	}

	h.mu.Unlock()

	emitsTotal.WithLabelValues(topic).Inc()

	for _, fn := range fns {
		fn()
	}
}

// SubscribeIdentity registers fn for identity changes. Unlike the plain
// topics this signal carries the new user id, empty on logout, because the
// favorites migration needs to know who just logged in.
func (h *Hub) SubscribeIdentity(fn func(userID string)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	id := h.seq
	h.identitySubs[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		delete(h.identitySubs, id)
	}
}

func (h *Hub) EmitIdentity(userID string) {
	h.mu.Lock()

	fns := make([]func(string), 0, len(h.identitySubs))
	for _, fn := range h.identitySubs {
		fns = append(fns, fn)
	}

	h.mu.Unlock()

	emitsTotal.WithLabelValues("identity-changed").Inc()

	for _, fn := range fns {
		fn(userID)
	}
}
