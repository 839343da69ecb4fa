package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BIGvic-Coder/task-manager-api/internal/domain"
	"github.com/BIGvic-Coder/task-manager-api/internal/service"
)

// UserHandler mantiene dependencias para endpoints de usuarios.
type UserHandler struct {
	logger *zap.Logger
	users  *service.UserService
}

func NewUserHandler(logger *zap.Logger, users *service.UserService) *UserHandler {
	return &UserHandler{logger: logger, users: users}
}

// List maneja GET /api/users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, "User", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Get maneja GET /api/users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.logger, "User", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update maneja PUT /api/users/:id (nombre, y rol si quien llama es admin).
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Name *string      `json:"name" binding:"omitempty,max=100"`
		Role *domain.Role `json:"role" binding:"omitempty,oneof=user admin"`
	}
	if !bindJSON(c, h.logger, &req) {
		return
	}
	user, err := h.users.Update(c.Request.Context(), actorFrom(c), id, service.UserUpdateInput{
		Name: req.Name,
		Role: req.Role,
	})
	if err != nil {
		writeServiceError(c, h.logger, "User", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete maneja DELETE /api/users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		writeServiceError(c, h.logger, "User", err)
		return
	}
	c.Status(http.StatusNoContent)
}
