package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
)

// ReplayResult counts what happened to the queued writes.
type ReplayResult struct {
	Sent     int
	Rejected int
	Pending  int
}

// Replay re-sends queued writes oldest first. Writes the server accepts are
// removed. Writes it rejects with a 4xx are removed too since resending
// cannot succeed. Replay stops at the first transport error or 401 and
// leaves the rest queued.
func (c *Client) Replay(ctx context.Context) (ReplayResult, error) {
	var res ReplayResult
	if c.outbox == nil {
		return res, nil
	}

	pending, err := c.outbox.Pending(ctx)
	if err != nil {
		return res, fmt.Errorf("client: replay: %w", err)
	}

	for _, w := range pending {
		err := c.send(ctx, w.Method, w.Path, w.Body, nil)

		var (
			apiErr *APIError
			terr   *transportError
		)
		switch {
		case err == nil:
			res.Sent++
		case errors.As(err, &terr), errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized:
			res.Pending = len(pending) - res.Sent - res.Rejected
			return res, fmt.Errorf("client: replay: %w", err)
		case errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError:
			log.Printf("[OFFLINE] Dropping queued %s %s: %v", w.Method, w.Path, err)
			res.Rejected++
		default:
			log.Printf("[OFFLINE] Keeping queued %s %s: %v", w.Method, w.Path, err)
			res.Pending++
			continue
		}

		if err := c.outbox.Remove(ctx, w.ID); err != nil {
			return res, fmt.Errorf("client: replay: %w", err)
		}
	}
	return res, nil
}
