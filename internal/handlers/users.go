package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ashwin76038/civic-ai/internal/model"
	"github.com/Ashwin76038/civic-ai/internal/store"
)

type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Neighborhood string `json:"neighborhood"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a citizen account. Duplicate emails are rejected with
// a conflict rather than a generic error so clients can prompt a login.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, &model.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	if req.Name == "" {
		h.respondError(c, &model.ValidationError{Field: "name"})
		return
	}
	if req.Email == "" {
		h.respondError(c, &model.ValidationError{Field: "email"})
		return
	}
	if req.Password == "" {
		h.respondError(c, &model.ValidationError{Field: "password"})
		return
	}

	user := model.User{
		Name:         req.Name,
		Email:        req.Email,
		Neighborhood: req.Neighborhood,
	}
	id, err := h.users.CreateUser(c.Request.Context(), &user, req.Password)
	if errors.Is(err, store.ErrUserExists) {
		c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("user registered", zap.String("id", id), zap.String("email", req.Email))
	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered",
		"id":      id,
	})
}

// Login verifies credentials and returns the account profile. Unknown
// email and wrong password produce the same response.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, &model.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	if req.Email == "" {
		h.respondError(c, &model.ValidationError{Field: "email"})
		return
	}
	if req.Password == "" {
		h.respondError(c, &model.ValidationError{Field: "password"})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, store.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"user":    user,
	})
}
