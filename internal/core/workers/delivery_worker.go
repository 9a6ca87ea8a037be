package workers

import (
	"context"
	"log"
	"time"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
)

const (
	defaultQueueSize = 100
	deliveryTimeout  = 10 * time.Second
)

type DeliveryJob struct {
	UserID       string
	Notification domain.Notification
}

// DeliveryWorker hands notifications to a sink in the background. Enqueue
// never blocks the caller.
type DeliveryWorker struct {
	notifier domain.Notifier
	jobs     chan DeliveryJob
}

func NewDeliveryWorker(notifier domain.Notifier, queueSize int) *DeliveryWorker {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &DeliveryWorker{
		notifier: notifier,
		jobs:     make(chan DeliveryJob, queueSize),
	}
}

func (w *DeliveryWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Delivery Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Delivery Worker shutting down...")
				return
			}
		}
	}()
}

// Enqueue reports false when the queue is full and the job was dropped.
func (w *DeliveryWorker) Enqueue(userID string, n domain.Notification) bool {
	select {
	case w.jobs <- DeliveryJob{UserID: userID, Notification: n}:
		return true
	default:
		log.Printf("[NOTIFY] Delivery queue full! Dropping %q for user %s", n.Title, userID)
		return false
	}
}

func (w *DeliveryWorker) processJob(ctx context.Context, job DeliveryJob) {
	ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	if err := w.notifier.Notify(ctx, job.UserID, job.Notification); err != nil {
		log.Printf("[NOTIFY] Delivery failed for user %s (%q): %v", job.UserID, job.Notification.Title, err)
	}
}
