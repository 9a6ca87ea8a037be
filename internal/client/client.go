// Package client is a typed client for the itera API. Writes that fail
// because the server cannot be reached are parked in an outbox and can be
// replayed later.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/comitanigiacomo/itera-sync/internal/adapters/localstore"
	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
	"github.com/comitanigiacomo/itera-sync/internal/core/services"
	"github.com/comitanigiacomo/itera-sync/internal/core/workers"
)

const apiPrefix = "/api/v1"

// ErrQueued is returned when a write could not be sent and was saved to the
// outbox instead.
var ErrQueued = errors.New("request queued for replay")

// Outbox persists writes made while offline.
type Outbox interface {
	Enqueue(ctx context.Context, method, path string, body []byte) (int64, error)
	Pending(ctx context.Context) ([]localstore.PendingWrite, error)
	Remove(ctx context.Context, id int64) error
}

type Options struct {
	BaseURL string
	Token   string

	// HTTPClient defaults to http.DefaultClient. Event streams reuse its
	// transport without the timeout.
	HTTPClient *http.Client

	// Outbox is optional. Without one, offline writes simply fail.
	Outbox Outbox
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	stream  *http.Client
	outbox  Outbox
}

func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		http:    hc,
		stream:  &http.Client{Transport: hc.Transport},
		outbox:  opts.Outbox,
	}
}

func (c *Client) SetToken(token string) { c.token = token }

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Unwrap maps well known statuses back to domain errors so callers can use
// errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return domain.ErrTrackerNotFound
	case http.StatusConflict:
		return domain.ErrNotEligible
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, r)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// send performs one round trip and decodes a JSON answer into out.
func (c *Client) send(ctx context.Context, method, path string, body []byte, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &transportError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s %s: %w", method, path, err)
	}
	return nil
}

// transportError means the request never got an answer.
type transportError struct{ err error }

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

func decodeAPIError(resp *http.Response) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &payload); err != nil || (payload.Error == "" && payload.Message == "") {
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}
	msg := payload.Error
	if msg == "" {
		msg = payload.Message
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

// read is a GET. The offline router may answer it from cache.
func (c *Client) read(ctx context.Context, path string, out any) error {
	if err := c.send(ctx, http.MethodGet, path, nil, out); err != nil {
		var terr *transportError
		if errors.As(err, &terr) {
			return fmt.Errorf("client: GET %s: %w", path, err)
		}
		return err
	}
	return nil
}

// write sends a mutating request, queueing it when the server is unreachable.
func (c *Client) write(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return fmt.Errorf("client: encode: %w", err)
		}
	}

	err := c.send(ctx, method, path, body, out)
	if err == nil {
		return nil
	}

	var terr *transportError
	if !errors.As(err, &terr) {
		return err
	}
	if c.outbox == nil || ctx.Err() != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}

	id, qerr := c.outbox.Enqueue(ctx, method, path, body)
	if qerr != nil {
		return fmt.Errorf("client: %s %s: %w (queueing failed: %v)", method, path, err, qerr)
	}
	return fmt.Errorf("%w as #%d: %w", ErrQueued, id, err)
}

type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Register(ctx context.Context, email, password string) (*UserInfo, error) {
	var u UserInfo
	body, _ := json.Marshal(credentials{Email: email, Password: password})
	if err := c.send(ctx, http.MethodPost, "/auth/register", body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login returns a bearer token and starts using it.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body, _ := json.Marshal(credentials{Email: email, Password: password})
	if err := c.send(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return "", err
	}
	c.token = out.Token
	return out.Token, nil
}

type CreateTracker struct {
	Name        string            `json:"name"`
	Icon        string            `json:"icon,omitempty"`
	Color       string            `json:"color,omitempty"`
	Description string            `json:"description,omitempty"`
	Difficulty  domain.Difficulty `json:"difficulty,omitempty"`
	Duration    int               `json:"duration"`
}

// UpdateTracker merges into the stored tracker. Empty fields keep their value.
type UpdateTracker struct {
	Name        string `json:"name,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

func (c *Client) Snapshot(ctx context.Context, coll domain.Collection) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := c.read(ctx, "/collections/"+string(coll)+"/trackers", &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *Client) Get(ctx context.Context, id string) (*services.TrackerView, error) {
	var v services.TrackerView
	if err := c.read(ctx, "/trackers/"+id, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) Create(ctx context.Context, coll domain.Collection, in CreateTracker) (*services.TrackerView, error) {
	var v services.TrackerView
	if err := c.write(ctx, http.MethodPost, "/collections/"+string(coll)+"/trackers", in, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) Update(ctx context.Context, id string, in UpdateTracker) (*services.TrackerView, error) {
	var v services.TrackerView
	if err := c.write(ctx, http.MethodPatch, "/trackers/"+id, in, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) Toggle(ctx context.Context, id string, dayIndex int) (*services.ToggleResult, error) {
	var res services.ToggleResult
	in := map[string]int{"day_index": dayIndex}
	if err := c.write(ctx, http.MethodPost, "/trackers/"+id+"/toggle", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Extend(ctx context.Context, id string) (*services.TrackerView, error) {
	var v services.TrackerView
	if err := c.write(ctx, http.MethodPost, "/trackers/"+id+"/extend", nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.write(ctx, http.MethodDelete, "/trackers/"+id, nil, nil)
}

// SendMessage posts a worker message to the reminder scheduler.
func (c *Client) SendMessage(ctx context.Context, msg domain.WorkerMessage) error {
	return c.write(ctx, http.MethodPost, "/notifications/messages", msg, nil)
}

func (c *Client) Click(ctx context.Context, click domain.NotificationClick) (*workers.ClickOutcome, error) {
	var out workers.ClickOutcome
	body, err := json.Marshal(click)
	if err != nil {
		return nil, fmt.Errorf("client: encode: %w", err)
	}
	if err := c.send(ctx, http.MethodPost, "/notifications/clicks", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) NotificationSettings(ctx context.Context) (*domain.NotificationSettings, error) {
	var s domain.NotificationSettings
	if err := c.read(ctx, "/notifications/settings", &s); err != nil {
		return nil, err
	}
	return &s, nil
}
