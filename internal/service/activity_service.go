package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/BIGvic-Coder/task-manager-api/internal/domain"
	"github.com/BIGvic-Coder/task-manager-api/internal/repository"
)

// ActivityService registra y consulta el historial de acciones.
type ActivityService struct {
	logger *zap.Logger
	logs   repository.ActivityLogRepository
	now    func() time.Time
}

func NewActivityService(logger *zap.Logger, logs repository.ActivityLogRepository) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{
		logger: logger,
		logs:   logs,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type ActivityInput struct {
	UserID   string
	Action   string
	Entity   string
	EntityID string
	Details  string
}

func (s *ActivityService) Create(ctx context.Context, input ActivityInput) (domain.ActivityLog, error) {
	entry := domain.ActivityLog{
		ID:        uuid.NewString(),
		UserID:    strings.TrimSpace(input.UserID),
		Action:    strings.TrimSpace(input.Action),
		Entity:    strings.TrimSpace(input.Entity),
		EntityID:  strings.TrimSpace(input.EntityID),
		Details:   input.Details,
		Timestamp: s.now(),
	}
	if entry.UserID == "" || entry.Action == "" || entry.Entity == "" {
		return domain.ActivityLog{}, invalidInput("user, action and entity are required")
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		return domain.ActivityLog{}, storageError(err)
	}
	return entry, nil
}

// Track registra la accion y solo loguea si falla.
func (s *ActivityService) Track(ctx context.Context, input ActivityInput) {
	if s == nil {
		return
	}
	if _, err := s.Create(ctx, input); err != nil {
		s.logger.Warn("record activity failed",
			zap.Error(err),
			zap.String("action", input.Action),
			zap.String("entity_id", input.EntityID),
		)
	}
}

func (s *ActivityService) Get(ctx context.Context, id string) (domain.ActivityLog, error) {
	entry, err := s.logs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ActivityLog{}, ErrNotFound
		}
		return domain.ActivityLog{}, storageError(err)
	}
	return entry, nil
}

func (s *ActivityService) List(ctx context.Context) ([]domain.ActivityLog, error) {
	entries, err := s.logs.List(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	return entries, nil
}
