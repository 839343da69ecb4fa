package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BIGvic-Coder/task-manager-api/internal/domain"
	"github.com/BIGvic-Coder/task-manager-api/internal/metrics"
	"github.com/BIGvic-Coder/task-manager-api/internal/service"
)

const authClaimsKey = "auth_claims"

// TokenVerifier valida un bearer token y devuelve sus claims.
type TokenVerifier interface {
	Verify(token string) (service.Claims, error)
}

func gateFailure(c *gin.Context, message, code string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
		"error":   code,
	})
}

// JWTAuthMiddleware exige "Authorization: Bearer <token>" y guarda los claims en el contexto.
func JWTAuthMiddleware(verifier TokenVerifier, rec metrics.Recorder) gin.HandlerFunc {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return func(c *gin.Context) {
		parts := strings.Fields(c.GetHeader("Authorization"))
		if len(parts) < 2 || !strings.EqualFold(parts[0], "bearer") {
			rec.RecordTokenVerification("token_missing")
			gateFailure(c, "Access denied. No token provided.", "token_missing")
			return
		}
		// esquema bearer con mas de un valor
		if len(parts) > 2 {
			rec.RecordTokenVerification("token_invalid")
			gateFailure(c, "Invalid or malformed token.", "token_invalid")
			return
		}

		claims, err := verifier.Verify(parts[1])
		switch {
		case err == nil:
		case errors.Is(err, service.ErrTokenMissing):
			rec.RecordTokenVerification("token_missing")
			gateFailure(c, "Access denied. No token provided.", "token_missing")
			return
		case errors.Is(err, service.ErrTokenExpired):
			rec.RecordTokenVerification("token_expired")
			gateFailure(c, "Token expired. Please log in again.", "token_expired")
			return
		default:
			rec.RecordTokenVerification("token_invalid")
			gateFailure(c, "Invalid or malformed token.", "token_invalid")
			return
		}

		rec.RecordTokenVerification(metrics.OutcomeSuccess)
		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

// RequireRole deja pasar si el rol del token coincide o si basta con ser usuario.
func RequireRole(required domain.Role, rec metrics.Recorder) gin.HandlerFunc {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return func(c *gin.Context) {
		claims, ok := GetAuthClaims(c)
		if !ok {
			gateFailure(c, "Access denied. No token provided.", "token_missing")
			return
		}
		if required == domain.RoleUser || claims.Role == required {
			c.Next()
			return
		}
		rec.RecordForbidden()
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "Access denied. Admins only.",
		})
	}
}

// GetAuthClaims obtiene claims de JWT desde el contexto.
func GetAuthClaims(c *gin.Context) (service.Claims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := val.(service.Claims)
	return claims, ok
}

func actorFrom(c *gin.Context) service.Actor {
	claims, _ := GetAuthClaims(c)
	return service.Actor{ID: claims.UserID, Role: claims.Role}
}
