package http

import (
	"io"
	"net/http"
	"time"

	"github.com/comitanigiacomo/itera-sync/internal/core/services"
	"github.com/gin-gonic/gin"
)

const defaultKeepAlive = 15 * time.Second

// FeedHandler serves live collection snapshots as server-sent events.
type FeedHandler struct {
	feed      *services.FeedService
	keepAlive time.Duration
}

func NewFeedHandler(feed *services.FeedService) *FeedHandler {
	return &FeedHandler{
		feed:      feed,
		keepAlive: defaultKeepAlive,
	}
}

func (h *FeedHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/collections/:collection/stream", h.Stream)
}

// Stream godoc
// @Summary  Live snapshots of a collection
// @Description Emits a "snapshot" event right away and one more after every change. "ping" events keep idle connections open.
// @Tags     trackers
// @Produce  text/event-stream
// @Param    collection path string true "itera, tatakae or habits"
// @Success  200 {object} domain.Snapshot
// @Security BearerAuth
// @Router   /collections/{collection}/stream [get]
func (h *FeedHandler) Stream(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	coll, ok := collectionParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	sub, err := h.feed.Subscribe(ctx, userID, coll)
	if err != nil {
		respondError(c, err)
		return
	}
	defer sub.Close()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case snap, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent("snapshot", snap)
			return true
		case <-ticker.C:
			c.SSEvent("ping", "")
			return true
		}
	})
}
