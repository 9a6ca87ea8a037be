package workers

import (
	"context"
	"sync"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
)

type sent struct {
	UserID       string
	Notification domain.Notification
}

type recordingQueue struct {
	mu   sync.Mutex
	sent []sent
	ch   chan sent
}

func newRecordingQueue() *recordingQueue {
	return &recordingQueue{ch: make(chan sent, 16)}
}

func (q *recordingQueue) Enqueue(userID string, n domain.Notification) bool {
	q.mu.Lock()
	q.sent = append(q.sent, sent{userID, n})
	q.mu.Unlock()
	select {
	case q.ch <- sent{userID, n}:
	default:
	}
	return true
}

func (q *recordingQueue) Sent() []sent {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]sent(nil), q.sent...)
}

type recordingNotifier struct {
	ch  chan sent
	err error
}

func (n *recordingNotifier) Notify(ctx context.Context, userID string, msg domain.Notification) error {
	n.ch <- sent{userID, msg}
	return n.err
}
