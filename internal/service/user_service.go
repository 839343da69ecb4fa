package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/BIGvic-Coder/task-manager-api/internal/domain"
	"github.com/BIGvic-Coder/task-manager-api/internal/repository"
)

// Actor identifica a quien ejecuta la peticion segun su token.
type Actor struct {
	ID   string
	Role domain.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == domain.RoleAdmin
}

// UserService administra perfiles de usuario ya existentes.
type UserService struct {
	users    repository.UserRepository
	activity *ActivityService
	now      func() time.Time
}

func NewUserService(users repository.UserRepository, activity *ActivityService) *UserService {
	return &UserService{
		users:    users,
		activity: activity,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type UserUpdateInput struct {
	Name *string
	Role *domain.Role
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, storageError(err)
	}
	return user, nil
}

// Update permite al propio usuario cambiar su nombre; el rol solo lo cambia un admin.
func (s *UserService) Update(ctx context.Context, actor Actor, id string, input UserUpdateInput) (domain.User, error) {
	if actor.ID != id && !actor.IsAdmin() {
		return domain.User{}, ErrForbidden
	}
	if input.Role != nil && !actor.IsAdmin() {
		return domain.User{}, ErrForbidden
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	roleChanged := false
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return domain.User{}, invalidInput("name cannot be empty")
		}
		user.Name = name
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return domain.User{}, invalidInput("invalid role")
		}
		roleChanged = user.Role != *input.Role
		user.Role = *input.Role
	}
	user.UpdatedAt = s.now()

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, storageError(err)
	}
	if roleChanged {
		s.activity.Track(ctx, ActivityInput{
			UserID:   actor.ID,
			Action:   "Changed User Role",
			Entity:   domain.EntityUser,
			EntityID: user.ID,
			Details:  string(user.Role),
		})
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return storageError(err)
	}
	if actor.ID != id {
		s.activity.Track(ctx, ActivityInput{
			UserID:   actor.ID,
			Action:   "Deleted User",
			Entity:   domain.EntityUser,
			EntityID: id,
		})
	}
	return nil
}
