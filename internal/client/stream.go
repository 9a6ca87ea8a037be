package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
)

const maxEventSize = 4 << 20

type event struct {
	Name string
	Data string
}

// readEvents parses a text/event-stream body and calls fn once per event.
// Comment lines and the id/retry fields are ignored.
func readEvents(r io.Reader, fn func(event) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxEventSize)

	var (
		ev   event
		data []string
	)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			if ev.Name != "" || len(data) > 0 {
				if ev.Name == "" {
					ev.Name = "message"
				}
				ev.Data = strings.Join(data, "\n")
				if err := fn(ev); err != nil {
					return err
				}
			}
			ev, data = event{}, nil
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			ev.Name = value
		case "data":
			data = append(data, value)
		}
	}
	return sc.Err()
}

func (c *Client) openStream(ctx context.Context, path string) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.stream.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: stream %s: %w", path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}
	return resp.Body, nil
}

// stream runs until ctx is cancelled, the server closes the stream or fn
// fails. Cancellation is not reported as an error.
func stream[T any](ctx context.Context, c *Client, path, name string, fn func(T) error) error {
	body, err := c.openStream(ctx, path)
	if err != nil {
		return err
	}
	defer body.Close()

	err = readEvents(body, func(ev event) error {
		if ev.Name != name {
			return nil
		}
		var v T
		if err := json.Unmarshal([]byte(ev.Data), &v); err != nil {
			return fmt.Errorf("client: decode %s event: %w", name, err)
		}
		return fn(v)
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Watch calls fn with the initial snapshot of coll and again after every
// change.
func (c *Client) Watch(ctx context.Context, coll domain.Collection, fn func(domain.Snapshot) error) error {
	return stream(ctx, c, "/collections/"+string(coll)+"/stream", "snapshot", fn)
}

// WatchNotifications calls fn for every notification delivered to the user.
func (c *Client) WatchNotifications(ctx context.Context, fn func(domain.Notification) error) error {
	return stream(ctx, c, "/notifications/stream", "notification", fn)
}
