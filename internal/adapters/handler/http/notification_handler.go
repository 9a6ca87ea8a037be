package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
	"github.com/comitanigiacomo/itera-sync/internal/core/workers"
	"github.com/gin-gonic/gin"
)

// ReminderControl is the message surface of the reminder scheduler.
type ReminderControl interface {
	HandleMessage(ctx context.Context, userID string, msg domain.WorkerMessage) error
	HandleClick(ctx context.Context, userID string, click domain.NotificationClick) (*workers.ClickOutcome, error)
	Settings(userID string) (domain.NotificationSettings, bool)
}

// NotificationFeed hands out per-user channels of delivered notifications.
type NotificationFeed interface {
	Subscribe(userID string) (<-chan domain.Notification, func())
}

type NotificationHandler struct {
	reminders ReminderControl
	feed      NotificationFeed
	keepAlive time.Duration
}

func NewNotificationHandler(reminders ReminderControl, feed NotificationFeed) *NotificationHandler {
	return &NotificationHandler{
		reminders: reminders,
		feed:      feed,
		keepAlive: defaultKeepAlive,
	}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	n := router.Group("/notifications")
	{
		n.POST("/messages", h.PostMessage)
		n.POST("/clicks", h.PostClick)
		n.GET("/settings", h.GetSettings)
		n.GET("/stream", h.Stream)
	}
}

// PostMessage godoc
// @Summary  Send a message to the reminder scheduler
// @Tags     notifications
// @Accept   json
// @Param    body body domain.WorkerMessage true "message"
// @Success  202
// @Failure  400 {object} errorResponse
// @Security BearerAuth
// @Router   /notifications/messages [post]
func (h *NotificationHandler) PostMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var msg domain.WorkerMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := h.reminders.HandleMessage(c.Request.Context(), userID, msg); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// PostClick godoc
// @Summary  Report a click on a shown notification
// @Tags     notifications
// @Accept   json
// @Produce  json
// @Param    body body domain.NotificationClick true "click"
// @Success  200 {object} workers.ClickOutcome
// @Security BearerAuth
// @Router   /notifications/clicks [post]
func (h *NotificationHandler) PostClick(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var click domain.NotificationClick
	if err := c.ShouldBindJSON(&click); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	outcome, err := h.reminders.HandleClick(c.Request.Context(), userID, click)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// GetSettings godoc
// @Summary  Reminder settings last pushed by this user
// @Tags     notifications
// @Produce  json
// @Success  200 {object} domain.NotificationSettings
// @Failure  404 {object} errorResponse
// @Security BearerAuth
// @Router   /notifications/settings [get]
func (h *NotificationHandler) GetSettings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	settings, found := h.reminders.Settings(userID)
	if !found {
		c.JSON(http.StatusNotFound, errorResponse{Error: "no notification settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Stream godoc
// @Summary  Notifications delivered to this user, as server-sent events
// @Tags     notifications
// @Produce  text/event-stream
// @Success  200 {object} domain.Notification
// @Security BearerAuth
// @Router   /notifications/stream [get]
func (h *NotificationHandler) Stream(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	ch, release := h.feed.Subscribe(userID)
	defer release()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	ctx := c.Request.Context()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case n, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("notification", n)
			return true
		case <-ticker.C:
			c.SSEvent("ping", "")
			return true
		}
	})
}
