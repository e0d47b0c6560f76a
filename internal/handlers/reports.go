package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ashwin76038/civic-ai/internal/model"
)

// SubmitReport persists a citizen report. The classifier verdict fields
// arrive in the form because the client already called Predict before
// deciding to submit.
func (h *Handler) SubmitReport(c *gin.Context) {
	issueType := c.PostForm("type")
	if issueType == "" {
		h.respondError(c, &model.ValidationError{Field: "type"})
		return
	}

	latitude, err := requiredFloat(c, "latitude")
	if err != nil {
		h.respondError(c, err)
		return
	}
	longitude, err := requiredFloat(c, "longitude")
	if err != nil {
		h.respondError(c, err)
		return
	}

	report := model.Report{
		IssueType: issueType,
		Location: model.Location{
			Latitude:  latitude,
			Longitude: longitude,
			Address:   c.PostForm("address"),
		},
		Description:   c.PostForm("description"),
		AISeverity:    c.PostForm("ai_severity"),
		ImageFilename: c.PostForm("image_filename"),
	}
	if report.ImageFilename == "" {
		if fileHeader, err := c.FormFile("image"); err == nil {
			report.ImageFilename = fileHeader.Filename
		}
	}
	if raw := c.PostForm("ai_probability"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.respondError(c, &model.ValidationError{Field: "ai_probability", Reason: "not a number"})
			return
		}
		report.AIProbability = p
	}

	id, err := h.reports.InsertReport(c.Request.Context(), &report)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.submissions.Add(1)

	if h.hub != nil {
		h.hub.Publish(report)
	}
	h.logger.Info("report submitted",
		zap.String("id", id),
		zap.String("type", issueType))

	c.JSON(http.StatusCreated, gin.H{
		"message": "report submitted",
		"id":      id,
	})
}

// ListComplaints returns all stored reports, newest first.
func (h *Handler) ListComplaints(c *gin.Context) {
	reports, err := h.reports.ListReports(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"complaints": reports,
		"count":      len(reports),
	})
}

func requiredFloat(c *gin.Context, field string) (float64, error) {
	raw := c.PostForm(field)
	if raw == "" {
		return 0, &model.ValidationError{Field: field}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &model.ValidationError{Field: field, Reason: "not a number"}
	}
	return v, nil
}
