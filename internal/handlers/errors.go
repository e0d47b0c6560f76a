package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ashwin76038/civic-ai/internal/model"
)

// respondError translates a domain error into the JSON error shape and
// status the frontend expects. Every classifier failure mode is
// recoverable here; nothing propagates past the handler.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var (
		validationErr *model.ValidationError
		decodeErr     *model.DecodeError
		categoryErr   *model.InvalidCategoryError
		notLoadedErr  *model.ModelNotLoadedError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &decodeErr), errors.As(err, &categoryErr):
		status = http.StatusBadRequest
	case errors.As(err, &notLoadedErr):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	} else {
		h.logger.Warn("request rejected", zap.Error(err))
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
