package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/BIGvic-Coder/task-manager-api/internal/domain"
	"github.com/BIGvic-Coder/task-manager-api/internal/repository"
)

type ProjectService struct {
	projects repository.ProjectRepository
	activity *ActivityService
	now      func() time.Time
}

func NewProjectService(projects repository.ProjectRepository, activity *ActivityService) *ProjectService {
	return &ProjectService{
		projects: projects,
		activity: activity,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type ProjectInput struct {
	Name        *string
	Description *string
	Status      *domain.ProjectStatus
	MemberIDs   *[]string
	TaskIDs     *[]string
}

func (s *ProjectService) Create(ctx context.Context, actorID string, input ProjectInput) (domain.Project, error) {
	now := s.now()
	project := domain.Project{
		ID:        uuid.NewString(),
		OwnerID:   actorID,
		Status:    domain.ProjectActive,
		MemberIDs: []string{},
		TaskIDs:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := applyProjectInput(&project, input); err != nil {
		return domain.Project{}, err
	}
	if project.Name == "" {
		return domain.Project{}, invalidInput("name is required")
	}
	if project.OwnerID == "" {
		return domain.Project{}, invalidInput("owner is required")
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return domain.Project{}, storageError(err)
	}
	s.activity.Track(ctx, ActivityInput{
		UserID:   actorID,
		Action:   "Created Project",
		Entity:   domain.EntityProject,
		EntityID: project.ID,
		Details:  project.Name,
	})
	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Project{}, ErrNotFound
		}
		return domain.Project{}, storageError(err)
	}
	return project, nil
}

func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	return projects, nil
}

func (s *ProjectService) Update(ctx context.Context, actorID, id string, input ProjectInput) (domain.Project, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}
	if err := applyProjectInput(&project, input); err != nil {
		return domain.Project{}, err
	}
	if project.Name == "" {
		return domain.Project{}, invalidInput("name cannot be empty")
	}
	project.UpdatedAt = s.now()
	if err := s.projects.Update(ctx, project); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Project{}, ErrNotFound
		}
		return domain.Project{}, storageError(err)
	}
	s.activity.Track(ctx, ActivityInput{
		UserID:   actorID,
		Action:   "Updated Project",
		Entity:   domain.EntityProject,
		EntityID: project.ID,
		Details:  project.Name,
	})
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return storageError(err)
	}
	s.activity.Track(ctx, ActivityInput{
		UserID:   actorID,
		Action:   "Deleted Project",
		Entity:   domain.EntityProject,
		EntityID: id,
	})
	return nil
}

func applyProjectInput(project *domain.Project, input ProjectInput) error {
	if input.Name != nil {
		project.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		project.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return invalidInput("invalid status")
		}
		project.Status = *input.Status
	}
	if input.MemberIDs != nil {
		project.MemberIDs = cleanList(*input.MemberIDs)
	}
	if input.TaskIDs != nil {
		project.TaskIDs = cleanList(*input.TaskIDs)
	}
	return nil
}
