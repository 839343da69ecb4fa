package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/BIGvic-Coder/task-manager-api/internal/domain"
)

func seededUserService() (*UserService, *mockUserRepo, *mockActivityRepo) {
	repo := newMockUserRepo()
	repo.put(domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com", PasswordHash: "h", Role: domain.RoleUser})
	repo.put(domain.User{ID: "a1", Name: "Root", Email: "root@example.com", PasswordHash: "h", Role: domain.RoleAdmin})
	logs := &mockActivityRepo{}
	return NewUserService(repo, NewActivityService(zap.NewNop(), logs)), repo, logs
}

func TestUserService_UpdateSelf(t *testing.T) {
	svc, _, _ := seededUserService()
	updated, err := svc.Update(context.Background(), Actor{ID: "u1", Role: domain.RoleUser}, "u1", UserUpdateInput{Name: strPtr("Ada L.")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Ada L." {
		t.Fatalf("unexpected name %q", updated.Name)
	}
}

func TestUserService_UpdateOtherForbidden(t *testing.T) {
	svc, _, _ := seededUserService()
	_, err := svc.Update(context.Background(), Actor{ID: "u1", Role: domain.RoleUser}, "a1", UserUpdateInput{Name: strPtr("x")})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_RoleChangeRequiresAdmin(t *testing.T) {
	svc, repo, logs := seededUserService()
	admin := domain.RoleAdmin

	if _, err := svc.Update(context.Background(), Actor{ID: "u1", Role: domain.RoleUser}, "u1", UserUpdateInput{Role: &admin}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for self promotion, got %v", err)
	}

	if _, err := svc.Update(context.Background(), Actor{ID: "a1", Role: domain.RoleAdmin}, "u1", UserUpdateInput{Role: &admin}); err != nil {
		t.Fatalf("admin role change: %v", err)
	}
	stored, _ := repo.GetByID(context.Background(), "u1")
	if stored.Role != domain.RoleAdmin {
		t.Fatalf("expected promoted user, got %q", stored.Role)
	}
	if got := logs.actions(); len(got) != 1 || got[0] != "Changed User Role" {
		t.Fatalf("unexpected activity: %v", got)
	}
}

func TestUserService_Delete(t *testing.T) {
	svc, repo, _ := seededUserService()
	ctx := context.Background()

	if err := svc.Delete(ctx, Actor{ID: "u1", Role: domain.RoleUser}, "a1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, Actor{ID: "a1", Role: domain.RoleAdmin}, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if repo.count() != 1 {
		t.Fatalf("expected one user left, got %d", repo.count())
	}
	if err := svc.Delete(ctx, Actor{ID: "a1", Role: domain.RoleAdmin}, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestActivityService_CreateRequiresFields(t *testing.T) {
	svc := NewActivityService(zap.NewNop(), &mockActivityRepo{})
	if _, err := svc.Create(context.Background(), ActivityInput{UserID: "u1"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	entry, err := svc.Create(context.Background(), ActivityInput{UserID: "u1", Action: "Manual", Entity: "Task", EntityID: "t1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Get(context.Background(), entry.ID); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
