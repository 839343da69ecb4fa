package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BIGvic-Coder/task-manager-api/internal/service"
)

// ActivityLogHandler expone el historial a administradores.
type ActivityLogHandler struct {
	logger   *zap.Logger
	activity *service.ActivityService
}

func NewActivityLogHandler(logger *zap.Logger, activity *service.ActivityService) *ActivityLogHandler {
	return &ActivityLogHandler{logger: logger, activity: activity}
}

func (h *ActivityLogHandler) List(c *gin.Context) {
	entries, err := h.activity.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, "ActivityLog", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *ActivityLogHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	entry, err := h.activity.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.logger, "ActivityLog", err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Create maneja POST /api/activity-logs para entradas manuales.
func (h *ActivityLogHandler) Create(c *gin.Context) {
	var req struct {
		Action   string `json:"action" binding:"required,max=200"`
		Entity   string `json:"entity" binding:"required,max=100"`
		EntityID string `json:"entity_id" binding:"required,uuid"`
		Details  string `json:"details" binding:"max=2000"`
	}
	if !bindJSON(c, h.logger, &req) {
		return
	}
	entry, err := h.activity.Create(c.Request.Context(), service.ActivityInput{
		UserID:   actorFrom(c).ID,
		Action:   req.Action,
		Entity:   req.Entity,
		EntityID: req.EntityID,
		Details:  req.Details,
	})
	if err != nil {
		writeServiceError(c, h.logger, "ActivityLog", err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}
