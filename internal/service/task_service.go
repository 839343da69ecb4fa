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

// TaskService aplica las reglas de tareas y deja rastro en el historial.
type TaskService struct {
	tasks    repository.TaskRepository
	activity *ActivityService
	now      func() time.Time
}

func NewTaskService(tasks repository.TaskRepository, activity *ActivityService) *TaskService {
	return &TaskService{
		tasks:    tasks,
		activity: activity,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// TaskInput usa punteros para distinguir campos ausentes en actualizaciones parciales.
type TaskInput struct {
	Title       *string
	Description *string
	Priority    *domain.TaskPriority
	Status      *domain.TaskStatus
	DueDate     *time.Time
	Tags        *[]string
}

func (s *TaskService) Create(ctx context.Context, actorID string, input TaskInput) (domain.Task, error) {
	now := s.now()
	task := domain.Task{
		ID:        uuid.NewString(),
		Priority:  domain.PriorityLow,
		Status:    domain.TaskPending,
		OwnerID:   actorID,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := applyTaskInput(&task, input); err != nil {
		return domain.Task{}, err
	}
	if task.Title == "" {
		return domain.Task{}, invalidInput("title is required")
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return domain.Task{}, storageError(err)
	}
	s.activity.Track(ctx, ActivityInput{
		UserID:   actorID,
		Action:   "Created Task",
		Entity:   domain.EntityTask,
		EntityID: task.ID,
		Details:  task.Title,
	})
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, ErrNotFound
		}
		return domain.Task{}, storageError(err)
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	return tasks, nil
}

func (s *TaskService) Update(ctx context.Context, actorID, id string, input TaskInput) (domain.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	if err := applyTaskInput(&task, input); err != nil {
		return domain.Task{}, err
	}
	if task.Title == "" {
		return domain.Task{}, invalidInput("title cannot be empty")
	}
	task.UpdatedAt = s.now()
	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, ErrNotFound
		}
		return domain.Task{}, storageError(err)
	}
	s.activity.Track(ctx, ActivityInput{
		UserID:   actorID,
		Action:   "Updated Task",
		Entity:   domain.EntityTask,
		EntityID: task.ID,
		Details:  task.Title,
	})
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return storageError(err)
	}
	s.activity.Track(ctx, ActivityInput{
		UserID:   actorID,
		Action:   "Deleted Task",
		Entity:   domain.EntityTask,
		EntityID: id,
	})
	return nil
}

func applyTaskInput(task *domain.Task, input TaskInput) error {
	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return invalidInput("invalid priority")
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return invalidInput("invalid status")
		}
		task.Status = *input.Status
	}
	if input.DueDate != nil {
		due := input.DueDate.UTC()
		task.DueDate = &due
	}
	if input.Tags != nil {
		task.Tags = cleanList(*input.Tags)
	}
	return nil
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
