package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BIGvic-Coder/task-manager-api/internal/domain"
	"github.com/BIGvic-Coder/task-manager-api/internal/repository"
)

// IdentityProvider abstrae al proveedor OAuth externo.
type IdentityProvider interface {
	Name() string
	AuthCodeURL(state string) string
	FetchProfile(ctx context.Context, code string) (domain.ExternalProfile, error)
}

// TokenIssuer firma tokens para un usuario autenticado.
type TokenIssuer interface {
	Issue(user domain.User) (string, error)
}

// AuthService coordina registro, login local y login OAuth.
type AuthService struct {
	logger     *zap.Logger
	users      repository.UserRepository
	tokens     TokenIssuer
	states     StateStore
	provider   IdentityProvider
	bcryptCost int
	dummyHash  []byte
	now        func() time.Time
}

type AuthServiceOption func(*AuthService)

// WithOAuth habilita el flujo OAuth con el proveedor y el almacen de estados dados.
func WithOAuth(provider IdentityProvider, states StateStore) AuthServiceOption {
	return func(s *AuthService) {
		s.provider = provider
		s.states = states
	}
}

func WithBcryptCost(cost int) AuthServiceOption {
	return func(s *AuthService) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

func NewAuthService(logger *zap.Logger, users repository.UserRepository, tokens TokenIssuer, opts ...AuthServiceOption) (*AuthService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuthService{
		logger:     logger,
		users:      users,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.provider != nil && s.states == nil {
		s.states = NewMemoryStateStore()
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	s.dummyHash = dummy
	return s, nil
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return domain.User{}, invalidInput("name, email and password are required")
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return domain.User{}, ErrDuplicateEmail
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, storageError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return domain.User{}, invalidInput("password is too long")
		}
		return domain.User{}, err
	}

	now := s.now()
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return domain.User{}, ErrDuplicateEmail
		}
		return domain.User{}, storageError(err)
	}
	return user, nil
}

// Authenticate compara la contrasena con el hash almacenado. Cuando no hay usuario
// o no tiene contrasena se compara contra un hash de relleno para igualar el coste.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	email = normalizeEmail(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, storageError(err)
	}
	if err != nil || !user.HasPassword() {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Login autentica y devuelve el token firmado.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", domain.User{}, err
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", domain.User{}, err
	}
	return token, user, nil
}

func (s *AuthService) OAuthEnabled() bool {
	return s.provider != nil
}

// BeginOAuth guarda un estado nuevo y devuelve la URL de autorizacion del proveedor.
func (s *AuthService) BeginOAuth(ctx context.Context) (string, error) {
	if s.provider == nil {
		return "", ErrOAuthFailed
	}
	state, err := newState()
	if err != nil {
		return "", err
	}
	if err := s.states.Save(ctx, state, OAuthStateTTL); err != nil {
		return "", storageError(err)
	}
	return s.provider.AuthCodeURL(state), nil
}

type OAuthCallback struct {
	Code          string
	State         string
	ProviderError string
}

// CompleteOAuth valida el estado, canjea el codigo y resuelve el usuario local.
func (s *AuthService) CompleteOAuth(ctx context.Context, cb OAuthCallback) (string, domain.User, error) {
	if s.provider == nil {
		return "", domain.User{}, ErrOAuthFailed
	}
	if cb.ProviderError != "" {
		s.logger.Warn("oauth provider returned error", zap.String("error", cb.ProviderError))
		return "", domain.User{}, ErrOAuthFailed
	}
	if strings.TrimSpace(cb.Code) == "" {
		return "", domain.User{}, ErrOAuthFailed
	}

	ok, err := s.states.Consume(ctx, cb.State)
	if err != nil {
		s.logger.Error("consume oauth state failed", zap.Error(err))
		return "", domain.User{}, ErrOAuthFailed
	}
	if !ok {
		s.logger.Warn("oauth state rejected")
		return "", domain.User{}, ErrOAuthFailed
	}

	profile, err := s.provider.FetchProfile(ctx, cb.Code)
	if err != nil {
		s.logger.Warn("oauth profile fetch failed", zap.Error(err))
		return "", domain.User{}, ErrOAuthFailed
	}
	if profile.Provider == "" {
		profile.Provider = s.provider.Name()
	}

	user, err := s.ResolveOAuthUser(ctx, profile)
	if err != nil {
		return "", domain.User{}, err
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("issue token after oauth failed", zap.Error(err))
		return "", domain.User{}, ErrOAuthFailed
	}
	return token, user, nil
}

// ResolveOAuthUser busca por identidad externa y, si no existe, crea o vincula por email
// en una sola escritura atomica.
func (s *AuthService) ResolveOAuthUser(ctx context.Context, profile domain.ExternalProfile) (domain.User, error) {
	provider := strings.ToLower(strings.TrimSpace(profile.Provider))
	subject := strings.TrimSpace(profile.Subject)
	email := normalizeEmail(profile.Email)
	if provider == "" || subject == "" || email == "" {
		return domain.User{}, ErrOAuthFailed
	}

	user, err := s.users.GetByAuth(ctx, provider, subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		s.logger.Error("lookup oauth identity failed", zap.Error(err))
		return domain.User{}, ErrOAuthFailed
	}

	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = email
	}
	now := s.now()
	candidate := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         domain.RoleUser,
		AuthProvider: provider,
		AuthSubject:  subject,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if !profile.EmailVerified {
		// sin email verificado solo se permite crear, nunca vincular
		err = s.users.Create(ctx, candidate)
		if err == nil {
			return candidate, nil
		}
		return s.recoverOAuthWrite(ctx, provider, subject, email, err)
	}

	stored, err := s.users.UpsertOAuth(ctx, candidate)
	if err == nil {
		return stored, nil
	}
	return s.recoverOAuthWrite(ctx, provider, subject, email, err)
}

func (s *AuthService) recoverOAuthWrite(ctx context.Context, provider, subject, email string, writeErr error) (domain.User, error) {
	switch {
	case errors.Is(writeErr, repository.ErrConflict):
		user, err := s.users.GetByAuth(ctx, provider, subject)
		if err == nil {
			return user, nil
		}
		s.logger.Warn("oauth account conflicts with existing email", zap.String("email", email))
	case errors.Is(writeErr, repository.ErrIdentityMismatch):
		s.logger.Warn("oauth email already linked to another identity", zap.String("email", email))
	default:
		s.logger.Error("persist oauth user failed", zap.Error(writeErr))
	}
	return domain.User{}, ErrOAuthFailed
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
