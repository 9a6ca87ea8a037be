package http

import (
	"errors"
	"net/http"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
	"github.com/gin-gonic/gin"
)

var validationErrors = []error{
	domain.ErrTrackerNameEmpty,
	domain.ErrTrackerNameTooLong,
	domain.ErrTrackerDescTooLong,
	domain.ErrTrackerInvalidOwner,
	domain.ErrInvalidColor,
	domain.ErrInvalidDuration,
	domain.ErrInvalidDifficulty,
	domain.ErrInvalidCollection,
	domain.ErrInvalidMark,
	domain.ErrInvalidReminder,
	domain.ErrInvalidMessageType,
	domain.ErrInvalidAction,
	domain.ErrMissingPayload,
	domain.ErrMissingSettings,
}

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrTrackerNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotEligible):
		return http.StatusConflict
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// respondError writes the status mapped from err. Internal errors are
// recorded on the context and hidden from the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, errorResponse{Error: "internal server error"})
		return
	}
	c.JSON(status, errorResponse{Error: err.Error()})
}
