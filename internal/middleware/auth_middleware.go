// internal/middleware/auth_middleware.go
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"directory-service/internal/domain/auth"
	"directory-service/internal/metrics"
	"directory-service/internal/pkg/jwt"
	"directory-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	actorKey = "actor"
	jtiKey   = "jti"
)

// TokenVerifier is satisfied by *jwt.Verifier.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*jwt.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewAuthMiddleware(verifier TokenVerifier, m *metrics.Metrics, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		metrics:  m,
		logger:   logger,
	}
}

// Auth validates the bearer token and stores the caller as an auth.Actor.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			m.metrics.AuthRejected("missing_token")
			response.Error(c, http.StatusUnauthorized, "missing authorization token", nil)
			return
		}

		claims, err := m.verifier.VerifyAccessToken(token)
		if err != nil {
			m.metrics.AuthRejected("invalid_token")
			m.logger.Debug("token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			response.Error(c, http.StatusUnauthorized, "invalid or expired token", nil)
			return
		}

		setActor(c, claims)
		c.Next()
	}
}

// RequireRole passes callers holding at least one of roles.
// MUST be used after Auth().
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			m.metrics.AuthRejected("no_actor")
			response.Error(c, http.StatusUnauthorized, "authentication required", nil)
			return
		}

		for _, role := range roles {
			if actor.HasRole(role) {
				c.Next()
				return
			}
		}

		m.metrics.AuthRejected("forbidden")
		response.Error(c, http.StatusForbidden, "insufficient permissions",
			errors.New("user does not have required role"),
			map[string]interface{}{
				"required_roles": roles,
				"user_roles":     actor.Roles,
			})
	}
}

// AdminOnly returns Auth + RequireRole(admin).
func (m *AuthMiddleware) AdminOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireRole(auth.RoleAdmin),
	}
}

// WithRole returns Auth + RequireRole(roles...).
func (m *AuthMiddleware) WithRole(roles ...string) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireRole(roles...),
	}
}

// OptionalAuth sets the actor when a valid token is present and never aborts.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if claims, err := m.verifier.VerifyAccessToken(token); err == nil {
				setActor(c, claims)
			}
		}
		c.Next()
	}
}

func setActor(c *gin.Context, claims *jwt.Claims) {
	c.Set(actorKey, auth.Actor{
		Subject: claims.Subject,
		Email:   claims.Email,
		Roles:   claims.Roles,
	})
	c.Set(jtiKey, claims.ID)
}

// extractToken reads the Bearer token from the Authorization header.
func extractToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
