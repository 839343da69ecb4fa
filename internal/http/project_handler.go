package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BIGvic-Coder/task-manager-api/internal/domain"
	"github.com/BIGvic-Coder/task-manager-api/internal/service"
)

type ProjectHandler struct {
	logger   *zap.Logger
	projects *service.ProjectService
}

func NewProjectHandler(logger *zap.Logger, projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{logger: logger, projects: projects}
}

type projectRequest struct {
	Name        *string               `json:"name" binding:"omitempty,max=200"`
	Description *string               `json:"description" binding:"omitempty,max=2000"`
	Status      *domain.ProjectStatus `json:"status" binding:"omitempty,oneof=Active 'On Hold' Completed"`
	MemberIDs   *[]string             `json:"members"`
	TaskIDs     *[]string             `json:"tasks"`
}

func (r projectRequest) input() service.ProjectInput {
	return service.ProjectInput{
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		MemberIDs:   r.MemberIDs,
		TaskIDs:     r.TaskIDs,
	}
}

func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, "Project", err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	project, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.logger, "Project", err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if req.Name == nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []fieldError{{Field: "name", Message: "name is required"}}})
		return
	}
	project, err := h.projects.Create(c.Request.Context(), actorFrom(c).ID, req.input())
	if err != nil {
		writeServiceError(c, h.logger, "Project", err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req projectRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	project, err := h.projects.Update(c.Request.Context(), actorFrom(c).ID, id, req.input())
	if err != nil {
		writeServiceError(c, h.logger, "Project", err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.projects.Delete(c.Request.Context(), actorFrom(c).ID, id); err != nil {
		writeServiceError(c, h.logger, "Project", err)
		return
	}
	c.Status(http.StatusNoContent)
}
