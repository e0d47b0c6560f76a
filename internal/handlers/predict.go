package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ashwin76038/civic-ai/internal/model"
)

// Predict classifies an uploaded image against a claimed category and
// returns the verdict without persisting anything.
func (h *Handler) Predict(c *gin.Context) {
	imageData, err := h.imageFromForm(c)
	if err != nil {
		h.predictFails.Add(1)
		h.respondError(c, err)
		return
	}

	category := c.PostForm("category")
	if category == "" {
		h.predictFails.Add(1)
		h.respondError(c, &model.ValidationError{Field: "category"})
		return
	}

	result, err := h.classifier.Classify(c.Request.Context(), imageData, category)
	if err != nil {
		h.predictFails.Add(1)
		h.respondError(c, err)
		return
	}

	h.predictions.Add(1)
	c.JSON(http.StatusOK, result)
}

// imageFromForm pulls the uploaded image bytes out of the multipart
// form. The file is read fully into memory; nothing touches disk.
func (h *Handler) imageFromForm(c *gin.Context) ([]byte, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, &model.ValidationError{Field: "image"}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, &model.ValidationError{Field: "image", Reason: "unreadable upload"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &model.ValidationError{Field: "image", Reason: "unreadable upload"}
	}
	return data, nil
}
