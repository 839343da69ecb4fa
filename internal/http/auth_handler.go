package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BIGvic-Coder/task-manager-api/internal/metrics"
	"github.com/BIGvic-Coder/task-manager-api/internal/service"
)

// AuthHandler expone registro, login local y login con Google.
type AuthHandler struct {
	logger  *zap.Logger
	auth    *service.AuthService
	metrics metrics.Recorder
}

func NewAuthHandler(logger *zap.Logger, auth *service.AuthService, rec metrics.Recorder) *AuthHandler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &AuthHandler{logger: logger, auth: auth, metrics: rec}
}

// Register maneja POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,max=100"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6,max=72"`
	}
	if !bindJSON(c, h.logger, &req) {
		h.metrics.RecordRegistration(metrics.OutcomeFailure)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateEmail) || errors.Is(err, service.ErrInvalidInput) {
			h.metrics.RecordRegistration(metrics.OutcomeFailure)
		} else {
			h.metrics.RecordRegistration(metrics.OutcomeError)
		}
		writeServiceError(c, h.logger, "User", err)
		return
	}

	h.metrics.RecordRegistration(metrics.OutcomeSuccess)
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email})
}

// Login maneja POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, h.logger, &req) {
		return
	}

	token, _, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.metrics.RecordLogin(metrics.MethodPassword, metrics.OutcomeFailure)
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		h.metrics.RecordLogin(metrics.MethodPassword, metrics.OutcomeError)
		internalError(c, h.logger, "login failed", err)
		return
	}

	h.metrics.RecordLogin(metrics.MethodPassword, metrics.OutcomeSuccess)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GoogleLogin maneja GET /auth/google.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	redirect, err := h.auth.BeginOAuth(c.Request.Context())
	if err != nil {
		internalError(c, h.logger, "begin oauth failed", err)
		return
	}
	c.Redirect(http.StatusFound, redirect)
}

// GoogleCallback maneja GET /auth/google/callback.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	token, user, err := h.auth.CompleteOAuth(c.Request.Context(), service.OAuthCallback{
		Code:          c.Query("code"),
		State:         c.Query("state"),
		ProviderError: c.Query("error"),
	})
	if err != nil {
		h.metrics.RecordLogin(metrics.MethodGoogle, metrics.OutcomeFailure)
		c.JSON(http.StatusUnauthorized, gin.H{"message": "OAuth login failed"})
		return
	}

	h.metrics.RecordLogin(metrics.MethodGoogle, metrics.OutcomeSuccess)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}
