package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health reports liveness plus which category models are serving.
func (h *Handler) Health(c *gin.Context) {
	status := gin.H{
		"status": "ok",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	}
	if h.registry != nil {
		status["models_loaded"] = h.registry.Loaded()
	}
	c.JSON(http.StatusOK, status)
}

// Stats exposes request counters for operators. Counters are in-process
// only and reset on restart.
func (h *Handler) Stats(c *gin.Context) {
	stats := gin.H{
		"predictions":       h.predictions.Load(),
		"prediction_errors": h.predictFails.Load(),
		"reports_submitted": h.submissions.Load(),
		"uptime_seconds":    int64(time.Since(h.startTime).Seconds()),
	}
	if h.registry != nil {
		stats["models_loaded"] = h.registry.Loaded()
	}
	c.JSON(http.StatusOK, stats)
}
