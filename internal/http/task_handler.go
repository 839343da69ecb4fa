package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BIGvic-Coder/task-manager-api/internal/domain"
	"github.com/BIGvic-Coder/task-manager-api/internal/service"
)

type TaskHandler struct {
	logger *zap.Logger
	tasks  *service.TaskService
}

func NewTaskHandler(logger *zap.Logger, tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{logger: logger, tasks: tasks}
}

type taskRequest struct {
	Title       *string              `json:"title" binding:"omitempty,max=200"`
	Description *string              `json:"description" binding:"omitempty,max=2000"`
	Priority    *domain.TaskPriority `json:"priority" binding:"omitempty,oneof=Low Medium High"`
	Status      *domain.TaskStatus   `json:"status" binding:"omitempty,oneof=Pending 'In Progress' Completed"`
	DueDate     *time.Time           `json:"due_date"`
	Tags        *[]string            `json:"tags"`
}

func (r taskRequest) input() service.TaskInput {
	return service.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Status:      r.Status,
		DueDate:     r.DueDate,
		Tags:        r.Tags,
	}
}

// List maneja GET /api/tasks.
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.tasks.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, "Task", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// Get maneja GET /api/tasks/:id.
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	task, err := h.tasks.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.logger, "Task", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Create maneja POST /api/tasks.
func (h *TaskHandler) Create(c *gin.Context) {
	var req taskRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if req.Title == nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []fieldError{{Field: "title", Message: "title is required"}}})
		return
	}
	task, err := h.tasks.Create(c.Request.Context(), actorFrom(c).ID, req.input())
	if err != nil {
		writeServiceError(c, h.logger, "Task", err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// Update maneja PUT /api/tasks/:id con actualizacion parcial.
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req taskRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	task, err := h.tasks.Update(c.Request.Context(), actorFrom(c).ID, id, req.input())
	if err != nil {
		writeServiceError(c, h.logger, "Task", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Delete maneja DELETE /api/tasks/:id.
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), actorFrom(c).ID, id); err != nil {
		writeServiceError(c, h.logger, "Task", err)
		return
	}
	c.Status(http.StatusNoContent)
}
