package http

import (
	"context"
	"net/url"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/BIGvic-Coder/task-manager-api/internal/domain"
	"github.com/BIGvic-Coder/task-manager-api/internal/repository"
)

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]domain.User)}
}

func (m *mockUserRepo) findBy(match func(domain.User) bool) (domain.User, error) {
	for _, u := range m.users {
		if match(u) {
			return u, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.findBy(func(u domain.User) bool { return u.Email == user.Email }); err == nil {
		return repository.ErrConflict
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findBy(func(u domain.User) bool { return u.Email == email })
}

func (m *mockUserRepo) GetByAuth(_ context.Context, provider, subject string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findBy(func(u domain.User) bool { return u.AuthProvider == provider && u.AuthSubject == subject })
}

func (m *mockUserRepo) UpsertOAuth(_ context.Context, user domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, err := m.findBy(func(u domain.User) bool { return u.Email == user.Email })
	if err != nil {
		m.users[user.ID] = user
		return user, nil
	}
	if existing.AuthProvider != "" && existing.AuthSubject != user.AuthSubject {
		return domain.User{}, repository.ErrIdentityMismatch
	}
	existing.AuthProvider = user.AuthProvider
	existing.AuthSubject = user.AuthSubject
	m.users[existing.ID] = existing
	return existing, nil
}

func (m *mockUserRepo) List(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepo) Update(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.users, id)
	return nil
}

type mockTaskRepo struct {
	tasks map[string]domain.Task
}

func (m *mockTaskRepo) Create(_ context.Context, task domain.Task) error {
	m.tasks[task.ID] = task
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (domain.Task, error) {
	task, ok := m.tasks[id]
	if !ok {
		return domain.Task{}, pgx.ErrNoRows
	}
	return task, nil
}

func (m *mockTaskRepo) List(_ context.Context) ([]domain.Task, error) {
	out := make([]domain.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTaskRepo) Update(_ context.Context, task domain.Task) error {
	if _, ok := m.tasks[task.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.tasks[task.ID] = task
	return nil
}

func (m *mockTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.tasks[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.tasks, id)
	return nil
}

type mockProjectRepo struct {
	projects map[string]domain.Project
}

func (m *mockProjectRepo) Create(_ context.Context, p domain.Project) error {
	m.projects[p.ID] = p
	return nil
}

func (m *mockProjectRepo) GetByID(_ context.Context, id string) (domain.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return domain.Project{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockProjectRepo) List(_ context.Context) ([]domain.Project, error) {
	out := make([]domain.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProjectRepo) Update(_ context.Context, p domain.Project) error {
	if _, ok := m.projects[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.projects[p.ID] = p
	return nil
}

func (m *mockProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.projects[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.projects, id)
	return nil
}

type mockActivityRepo struct {
	entries []domain.ActivityLog
}

func (m *mockActivityRepo) Create(_ context.Context, entry domain.ActivityLog) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockActivityRepo) GetByID(_ context.Context, id string) (domain.ActivityLog, error) {
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.ActivityLog{}, pgx.ErrNoRows
}

func (m *mockActivityRepo) List(_ context.Context) ([]domain.ActivityLog, error) {
	return m.entries, nil
}

type fakeProvider struct {
	profile domain.ExternalProfile
	err     error
}

func (f *fakeProvider) Name() string { return "google" }

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + url.QueryEscape(state)
}

func (f *fakeProvider) FetchProfile(context.Context, string) (domain.ExternalProfile, error) {
	return f.profile, f.err
}
