// internal/middleware/helpers.go
package middleware

import (
	"directory-service/internal/domain/auth"

	"github.com/gin-gonic/gin"
)

// GetActor returns the caller set by Auth or OptionalAuth.
func GetActor(c *gin.Context) (auth.Actor, bool) {
	v, exists := c.Get(actorKey)
	if !exists {
		return auth.Actor{}, false
	}
	actor, ok := v.(auth.Actor)
	return actor, ok && !actor.IsZero()
}

// MustGetActor gets the actor from context or panics
func MustGetActor(c *gin.Context) auth.Actor {
	actor, ok := GetActor(c)
	if !ok {
		panic("actor not found in context")
	}
	return actor
}

func GetJTI(c *gin.Context) (string, bool) {
	jti, exists := c.Get(jtiKey)
	if !exists {
		return "", false
	}
	s, ok := jti.(string)
	return s, ok
}

func IsAuthenticated(c *gin.Context) bool {
	_, ok := GetActor(c)
	return ok
}

func IsAdmin(c *gin.Context) bool {
	actor, ok := GetActor(c)
	return ok && actor.IsAdmin()
}

// GetRequestID returns the id assigned by RequestLogger, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
