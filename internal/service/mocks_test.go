package service

import (
	"context"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/BIGvic-Coder/task-manager-api/internal/domain"
	"github.com/BIGvic-Coder/task-manager-api/internal/repository"
)

type mockUserRepo struct {
	mu           sync.Mutex
	usersByID    map[string]domain.User
	usersByEmail map[string]string
	usersByAuth  map[string]string

	// hideEmails simula una carrera en la que la consulta previa no ve el registro.
	hideEmails bool
	err        error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
		usersByAuth:  make(map[string]string),
	}
}

func authKey(provider, subject string) string {
	return provider + "|" + subject
}

func (m *mockUserRepo) put(user domain.User) {
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	if user.IsLinked() {
		m.usersByAuth[authKey(user.AuthProvider, user.AuthSubject)] = user.ID
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.usersByEmail[user.Email]; ok {
		return repository.ErrConflict
	}
	if user.IsLinked() {
		if _, ok := m.usersByAuth[authKey(user.AuthProvider, user.AuthSubject)]; ok {
			return repository.ErrConflict
		}
	}
	m.put(user)
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domain.User{}, m.err
	}
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domain.User{}, m.err
	}
	id, ok := m.usersByEmail[email]
	if !ok || m.hideEmails {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.usersByID[id], nil
}

func (m *mockUserRepo) GetByAuth(_ context.Context, provider, subject string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domain.User{}, m.err
	}
	id, ok := m.usersByAuth[authKey(provider, subject)]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.usersByID[id], nil
}

func (m *mockUserRepo) UpsertOAuth(_ context.Context, user domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domain.User{}, m.err
	}
	if id, ok := m.usersByEmail[user.Email]; ok {
		existing := m.usersByID[id]
		switch {
		case existing.AuthProvider == "":
			existing.AuthProvider = user.AuthProvider
			existing.AuthSubject = user.AuthSubject
			existing.UpdatedAt = user.UpdatedAt
			m.put(existing)
			return existing, nil
		case existing.AuthProvider == user.AuthProvider && existing.AuthSubject == user.AuthSubject:
			return existing, nil
		default:
			return domain.User{}, repository.ErrIdentityMismatch
		}
	}
	if _, ok := m.usersByAuth[authKey(user.AuthProvider, user.AuthSubject)]; ok {
		return domain.User{}, repository.ErrConflict
	}
	m.put(user)
	return user, nil
}

func (m *mockUserRepo) List(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	users := make([]domain.User, 0, len(m.usersByID))
	for _, u := range m.usersByID {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (m *mockUserRepo) Update(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	existing, ok := m.usersByID[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Name = user.Name
	existing.Role = user.Role
	existing.UpdatedAt = user.UpdatedAt
	m.usersByID[user.ID] = existing
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(m.usersByID, id)
	delete(m.usersByEmail, user.Email)
	delete(m.usersByAuth, authKey(user.AuthProvider, user.AuthSubject))
	return nil
}

func (m *mockUserRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.usersByID)
}

type mockTaskRepo struct {
	tasks map[string]domain.Task
	err   error
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]domain.Task)}
}

func (m *mockTaskRepo) Create(_ context.Context, task domain.Task) error {
	if m.err != nil {
		return m.err
	}
	m.tasks[task.ID] = task
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (domain.Task, error) {
	if m.err != nil {
		return domain.Task{}, m.err
	}
	task, ok := m.tasks[id]
	if !ok {
		return domain.Task{}, pgx.ErrNoRows
	}
	return task, nil
}

func (m *mockTaskRepo) List(_ context.Context) ([]domain.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
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

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{projects: make(map[string]domain.Project)}
}

func (m *mockProjectRepo) Create(_ context.Context, project domain.Project) error {
	m.projects[project.ID] = project
	return nil
}

func (m *mockProjectRepo) GetByID(_ context.Context, id string) (domain.Project, error) {
	project, ok := m.projects[id]
	if !ok {
		return domain.Project{}, pgx.ErrNoRows
	}
	return project, nil
}

func (m *mockProjectRepo) List(_ context.Context) ([]domain.Project, error) {
	out := make([]domain.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProjectRepo) Update(_ context.Context, project domain.Project) error {
	if _, ok := m.projects[project.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.projects[project.ID] = project
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
	mu      sync.Mutex
	entries []domain.ActivityLog
	err     error
}

func (m *mockActivityRepo) Create(_ context.Context, entry domain.ActivityLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockActivityRepo) GetByID(_ context.Context, id string) (domain.ActivityLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.ActivityLog{}, pgx.ErrNoRows
}

func (m *mockActivityRepo) List(_ context.Context) ([]domain.ActivityLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ActivityLog(nil), m.entries...), nil
}

func (m *mockActivityRepo) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Action)
	}
	return out
}
