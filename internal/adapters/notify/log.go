// Package notify holds the sinks reminders and celebrations are delivered to.
package notify

import (
	"context"
	"log"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
)

// LogNotifier writes notifications to the standard logger. It is the sink of
// last resort when nothing else is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, userID string, n domain.Notification) error {
	log.Printf("[NOTIFY] user=%s tag=%q title=%q body=%q", userID, n.Tag, n.Title, n.Body)
	return nil
}
