package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
	"github.com/comitanigiacomo/itera-sync/internal/core/workers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationHandler_Messages(t *testing.T) {
	env := newTestEnv(t)

	t.Run("Settings are stored", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/notifications/messages", domain.WorkerMessage{
			Type: domain.MsgSetNotificationSettings,
			Settings: &domain.NotificationSettings{
				Enabled:   true,
				Reminders: []domain.Reminder{{Time: "20:00", Title: "Evening check", Enabled: true}},
			},
			CurrentTime: "09:30",
		})
		require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

		w = env.do(t, http.MethodGet, "/api/v1/notifications/settings", nil)
		require.Equal(t, http.StatusOK, w.Code)

		settings := decode[domain.NotificationSettings](t, w)
		assert.True(t, settings.Enabled)
		require.Len(t, settings.Reminders, 1)
		assert.Equal(t, "20:00", settings.Reminders[0].Time)
	})

	t.Run("Unknown type is rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/notifications/messages", map[string]any{"type": "PING"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unknown worker message type")
	})

	t.Run("Bad reminder time is rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/notifications/messages", domain.WorkerMessage{
			Type:     domain.MsgSettingsUpdated,
			Settings: &domain.NotificationSettings{Reminders: []domain.Reminder{{Time: "25:00"}}},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestNotificationHandler_SettingsNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/notifications/settings", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotificationHandler_Clicks(t *testing.T) {
	env := newTestEnv(t)

	t.Run("Open defaults to the root", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/notifications/clicks", domain.NotificationClick{Action: domain.ActionOpen})
		require.Equal(t, http.StatusOK, w.Code)

		out := decode[workers.ClickOutcome](t, w)
		assert.Equal(t, domain.ActionOpen, out.Action)
		assert.Equal(t, "/", out.URL)
	})

	t.Run("Snooze reports when it fires again", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/notifications/clicks", domain.NotificationClick{Action: domain.ActionSnooze, Title: "Later"})
		require.Equal(t, http.StatusOK, w.Code)

		out := decode[workers.ClickOutcome](t, w)
		require.NotNil(t, out.SnoozedUntil)
		assert.Equal(t, testNow.Add(workers.SnoozeDelay), out.SnoozedUntil.UTC())
		env.scheduler.Stop()
	})

	t.Run("Unknown action", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/notifications/clicks", map[string]string{"action": "archive"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestNotificationHandler_Stream(t *testing.T) {
	env := newTestEnv(t)

	next := env.openStream(t, "/api/v1/notifications/stream")

	w := env.do(t, http.MethodPost, "/api/v1/notifications/messages", domain.WorkerMessage{
		Type:    domain.MsgShowNotification,
		Payload: &domain.Notification{Title: "Streak at 7!", Body: "One week done."},
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	for {
		event, data := next()
		if event == "ping" {
			continue
		}
		require.Equal(t, "notification", event)

		var n domain.Notification
		require.NoError(t, json.Unmarshal([]byte(data), &n))
		assert.Equal(t, "Streak at 7!", n.Title)
		assert.Equal(t, "/", n.URL, "missing fields are filled in")
		return
	}
}
