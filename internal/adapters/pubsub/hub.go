// Package pubsub holds the in-process change notifier used when the API runs
// without redis.
package pubsub

import (
	"context"
	"sync"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
)

var _ domain.ChangeNotifier = (*Hub)(nil)

type topic struct {
	owner string
	coll  domain.Collection
}

type Hub struct {
	mu   sync.Mutex
	subs map[topic]map[chan struct{}]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[topic]map[chan struct{}]struct{})}
}

// Publish never blocks: a watcher with a pending signal already knows it has
// to reload.
func (h *Hub) Publish(ctx context.Context, ownerID string, coll domain.Collection) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[topic{ownerID, coll}] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

func (h *Hub) Watch(ctx context.Context, ownerID string, coll domain.Collection) (<-chan struct{}, func(), error) {
	key := topic{ownerID, coll}
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[chan struct{}]struct{})
	}
	h.subs[key][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[key], ch)
			if len(h.subs[key]) == 0 {
				delete(h.subs, key)
			}
			close(ch)
		})
	}
	return ch, release, nil
}

// Watchers reports the number of live watches, across all topics.
func (h *Hub) Watchers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, set := range h.subs {
		n += len(set)
	}
	return n
}
