package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BIGvic-Coder/task-manager-api/internal/domain"
)

const (
	TokenTTL        = time.Hour
	TokenIssuerName = "task-manager-api"
)

// JWTService emite y valida tokens de acceso sin consultar la base de datos.
// Un usuario borrado o degradado conserva su token hasta que expira.
type JWTService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type Claims struct {
	UserID string      `json:"id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

var ErrSigningKeyMissing = errors.New("jwt secret not configured")

func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		issuer: TokenIssuerName,
		ttl:    TokenTTL,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Issue firma un token con expiracion exacta de una hora.
func (s *JWTService) Issue(user domain.User) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrSigningKeyMissing
	}
	if strings.TrimSpace(user.ID) == "" {
		return "", ErrTokenInvalid
	}
	role := user.Role
	if !role.Valid() {
		role = domain.RoleUser
	}

	now := s.now()
	claims := Claims{
		UserID: user.ID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify valida firma, algoritmo, emisor y expiracion.
func (s *JWTService) Verify(tokenString string) (Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return Claims{}, ErrTokenMissing
	}
	if len(s.secret) == 0 {
		return Claims{}, ErrTokenInvalid
	}

	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !validClaims(claims) {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

func validClaims(claims Claims) bool {
	if strings.TrimSpace(claims.UserID) == "" {
		return false
	}
	if claims.Subject != claims.UserID {
		return false
	}
	return claims.Role.Valid()
}
