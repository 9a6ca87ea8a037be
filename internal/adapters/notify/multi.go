package notify

import (
	"context"
	"errors"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
)

// Multi fans a notification out to every sink. One failing sink does not stop
// the others; all errors are joined.
type Multi []domain.Notifier

func (m Multi) Notify(ctx context.Context, userID string, n domain.Notification) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Notify(ctx, userID, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
