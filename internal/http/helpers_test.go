package http

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BIGvic-Coder/task-manager-api/internal/domain"
	"github.com/BIGvic-Coder/task-manager-api/internal/service"
)

const testSecret = "secret"

type testApp struct {
	router   *gin.Engine
	jwt      *service.JWTService
	users    *mockUserRepo
	tasks    *mockTaskRepo
	activity *mockActivityRepo
}

func newTestApp(t *testing.T, provider service.IdentityProvider) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	app := &testApp{
		jwt:      service.NewJWTService(testSecret),
		users:    newMockUserRepo(),
		tasks:    &mockTaskRepo{tasks: make(map[string]domain.Task)},
		activity: &mockActivityRepo{},
	}

	opts := []service.AuthServiceOption{service.WithBcryptCost(bcrypt.MinCost)}
	if provider != nil {
		opts = append(opts, service.WithOAuth(provider, service.NewMemoryStateStore()))
	}
	authSvc, err := service.NewAuthService(logger, app.users, app.jwt, opts...)
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	activitySvc := service.NewActivityService(logger, app.activity)

	app.router = NewRouter(RouterDeps{
		Logger:   logger,
		Verifier: app.jwt,
		Auth:     NewAuthHandler(logger, authSvc, nil),
		Tasks:    NewTaskHandler(logger, service.NewTaskService(app.tasks, activitySvc)),
		Projects: NewProjectHandler(logger, service.NewProjectService(&mockProjectRepo{projects: make(map[string]domain.Project)}, activitySvc)),
		Activity: NewActivityLogHandler(logger, activitySvc),
		Users:    NewUserHandler(logger, service.NewUserService(app.users, activitySvc)),
		Health:   NewHealthHandler(logger, nil),
	})
	return app
}

// seedUser guarda un usuario y devuelve un token valido para el.
func (a *testApp) seedUser(t *testing.T, role domain.Role) (domain.User, string) {
	t.Helper()
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         "Seed " + string(role),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	a.users.users[user.ID] = user
	token, err := a.jwt.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return user, token
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func firstFieldError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode(t, rec)
	errs, ok := body["errors"].([]any)
	if !ok || len(errs) == 0 {
		t.Fatalf("expected errors array, got %v", body)
	}
	first, _ := errs[0].(map[string]any)
	field, _ := first["field"].(string)
	return field
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
