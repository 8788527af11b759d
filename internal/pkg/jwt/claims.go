// internal/pkg/jwt/claims.go
package jwt

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin     = "admin"
	RoleRecruiter = "recruiter"
	RoleOwner     = "owner"
)

const PurposeAccess = "access"

// Claims are issued by the hosted auth service. The directory only reads the
// subject and the role facts.
type Claims struct {
	Roles   []string `json:"roles,omitempty"`
	Email   string   `json:"email,omitempty"`
	Purpose string   `json:"purpose"`
	jwt.RegisteredClaims
}

func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

func (c *Claims) IsAdmin() bool {
	return c.HasRole(RoleAdmin)
}
