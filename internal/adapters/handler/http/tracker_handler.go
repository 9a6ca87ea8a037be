package http

import (
	"net/http"

	"github.com/comitanigiacomo/itera-sync/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
	"github.com/comitanigiacomo/itera-sync/internal/core/services"
	"github.com/gin-gonic/gin"
)

type TrackerHandler struct {
	svc *services.TrackerService
}

func NewTrackerHandler(svc *services.TrackerService) *TrackerHandler {
	return &TrackerHandler{
		svc: svc,
	}
}

type createTrackerRequest struct {
	Name        string `json:"name" binding:"required"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
	Duration    int    `json:"duration"`
}

type updateTrackerRequest struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

type toggleRequest struct {
	DayIndex *int `json:"day_index" binding:"required"`
}

func (h *TrackerHandler) RegisterRoutes(router *gin.RouterGroup) {
	collections := router.Group("/collections/:collection")
	{
		collections.GET("/trackers", h.List)
		collections.POST("/trackers", h.Create)
	}

	trackers := router.Group("/trackers")
	{
		trackers.GET("/:id", h.Get)
		trackers.PATCH("/:id", h.Update)
		trackers.DELETE("/:id", h.Delete)
		trackers.POST("/:id/toggle", h.Toggle)
		trackers.POST("/:id/extend", h.Extend)
	}
}

// collectionParam reads and validates :collection, answering 400 itself on
// failure.
func collectionParam(c *gin.Context) (domain.Collection, bool) {
	coll, err := domain.ParseCollection(c.Param("collection"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return "", false
	}
	return coll, true
}

func currentUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.Owner(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "user context missing"})
	}
	return userID, ok
}

// List godoc
// @Summary  Snapshot of a collection: active and history trackers plus rollup
// @Tags     trackers
// @Produce  json
// @Param    collection path string true "itera, tatakae or habits"
// @Success  200 {object} domain.Snapshot
// @Security BearerAuth
// @Router   /collections/{collection}/trackers [get]
func (h *TrackerHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	coll, ok := collectionParam(c)
	if !ok {
		return
	}

	snap, err := h.svc.Snapshot(c.Request.Context(), userID, coll)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Create godoc
// @Summary  Start a new tracker
// @Tags     trackers
// @Accept   json
// @Produce  json
// @Param    collection path string true "itera, tatakae or habits"
// @Param    body body createTrackerRequest true "tracker"
// @Success  201 {object} services.TrackerView
// @Failure  400 {object} errorResponse
// @Security BearerAuth
// @Router   /collections/{collection}/trackers [post]
func (h *TrackerHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	coll, ok := collectionParam(c)
	if !ok {
		return
	}

	var req createTrackerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	tracker, err := h.svc.Create(c.Request.Context(), services.CreateTrackerInput{
		OwnerID:     userID,
		Collection:  coll,
		Name:        req.Name,
		Icon:        req.Icon,
		Color:       req.Color,
		Description: req.Description,
		Difficulty:  domain.Difficulty(req.Difficulty),
		Duration:    req.Duration,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.svc.View(tracker))
}

// Get godoc
// @Summary  One tracker with its derived status
// @Tags     trackers
// @Produce  json
// @Param    id path string true "tracker id"
// @Success  200 {object} services.TrackerView
// @Failure  404 {object} errorResponse
// @Security BearerAuth
// @Router   /trackers/{id} [get]
func (h *TrackerHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	tracker, err := h.svc.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.svc.View(tracker))
}

// Update godoc
// @Summary  Merge display details; empty fields keep their value
// @Tags     trackers
// @Accept   json
// @Produce  json
// @Param    id path string true "tracker id"
// @Param    body body updateTrackerRequest true "details"
// @Success  200 {object} services.TrackerView
// @Security BearerAuth
// @Router   /trackers/{id} [patch]
func (h *TrackerHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req updateTrackerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	tracker, err := h.svc.Update(c.Request.Context(), services.UpdateTrackerInput{
		ID:          c.Param("id"),
		OwnerID:     userID,
		Name:        req.Name,
		Icon:        req.Icon,
		Color:       req.Color,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.svc.View(tracker))
}

// Toggle godoc
// @Summary  Advance the mark of today's cell
// @Description Toggling any day but today, or an expired tracker, is ignored and answered with applied=false.
// @Tags     trackers
// @Accept   json
// @Produce  json
// @Param    id path string true "tracker id"
// @Param    body body toggleRequest true "zero-based day index"
// @Success  200 {object} services.ToggleResult
// @Security BearerAuth
// @Router   /trackers/{id}/toggle [post]
func (h *TrackerHandler) Toggle(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res, err := h.svc.Toggle(c.Request.Context(), c.Param("id"), userID, *req.DayIndex)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Extend godoc
// @Summary  Turn an eligible 7-day tracker into a 30-day one
// @Tags     trackers
// @Produce  json
// @Param    id path string true "tracker id"
// @Success  200 {object} services.TrackerView
// @Failure  409 {object} errorResponse
// @Security BearerAuth
// @Router   /trackers/{id}/extend [post]
func (h *TrackerHandler) Extend(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	tracker, err := h.svc.Extend(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.svc.View(tracker))
}

// Delete godoc
// @Summary  Delete a tracker permanently
// @Tags     trackers
// @Param    id path string true "tracker id"
// @Success  204
// @Security BearerAuth
// @Router   /trackers/{id} [delete]
func (h *TrackerHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
