package notify

import (
	"context"
	"log"
	"sync"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
)

const streamBuffer = 8

// StreamHub delivers notifications to the user's open event streams. A user
// with no open stream simply misses the notification.
type StreamHub struct {
	mu   sync.Mutex
	subs map[string]map[chan domain.Notification]struct{}
}

func NewStreamHub() *StreamHub {
	return &StreamHub{subs: make(map[string]map[chan domain.Notification]struct{})}
}

func (h *StreamHub) Notify(ctx context.Context, userID string, n domain.Notification) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[userID] {
		select {
		case ch <- n:
		default:
			log.Printf("[NOTIFY] Stream buffer full for %s, dropping %q", userID, n.Title)
		}
	}
	return nil
}

// Subscribe returns a channel of the user's notifications and a function
// that closes it.
func (h *StreamHub) Subscribe(userID string) (<-chan domain.Notification, func()) {
	ch := make(chan domain.Notification, streamBuffer)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan domain.Notification]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[userID], ch)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
			close(ch)
		})
	}
}
