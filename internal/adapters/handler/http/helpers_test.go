package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/comitanigiacomo/itera-sync/internal/adapters/notify"
	"github.com/comitanigiacomo/itera-sync/internal/adapters/pubsub"
	"github.com/comitanigiacomo/itera-sync/internal/adapters/repository"
	"github.com/comitanigiacomo/itera-sync/internal/core/services"
	"github.com/comitanigiacomo/itera-sync/internal/core/workers"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	router    *gin.Engine
	token     string
	userID    string
	trackers  *services.TrackerService
	scheduler *workers.ReminderScheduler
	tokens    *services.TokenService
}

// newTestEnv wires the whole API on in-memory storage with one registered
// user and a frozen clock.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := func() time.Time { return testNow }

	users := repository.NewInMemoryUserRepository()
	tokens := services.NewTokenService("handler-test-secret", "itera-test", time.Hour, users)
	auth := services.NewAuthService(users, tokens)

	user, err := auth.Register(context.Background(), services.Credentials{
		Email:    "tester@itera.app",
		Password: "Password123!",
	})
	require.NoError(t, err)

	token, err := tokens.GenerateToken(user.ID)
	require.NoError(t, err)

	hub := pubsub.NewHub()
	trackerSvc := services.NewTrackerService(repository.NewInMemoryTrackerRepository(), hub, clock)
	feed := services.NewFeedService(trackerSvc, hub)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	stream := notify.NewStreamHub()
	delivery := workers.NewDeliveryWorker(stream, 10)
	delivery.Start(ctx)
	scheduler := workers.NewReminderScheduler(delivery, clock)

	router := NewRouter(RouterDependencies{
		AuthHandler:         NewAuthHandler(auth),
		TrackerHandler:      NewTrackerHandler(trackerSvc),
		FeedHandler:         NewFeedHandler(feed),
		NotificationHandler: NewNotificationHandler(scheduler, stream),
		TokenService:        tokens,
		StartTime:           testNow,
	})

	return &testEnv{
		router:    router,
		token:     token,
		userID:    user.ID,
		trackers:  trackerSvc,
		scheduler: scheduler,
		tokens:    tokens,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// openStream starts an event stream against a live server. The returned
// reader yields one event per call.
func (e *testEnv) openStream(t *testing.T, path string) func() (string, string) {
	t.Helper()

	srv := httptest.NewServer(e.router)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+e.token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	reader := bufio.NewReader(resp.Body)
	return func() (string, string) {
		var event, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\r\n")
			switch {
			case line == "":
				if event != "" || data != "" {
					return event, data
				}
			case strings.HasPrefix(line, "event:"):
				event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				data += strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			}
		}
	}
}
