// internal/domain/auth/actor.go
package auth

import "slices"

const (
	RoleAdmin     = "admin"
	RoleRecruiter = "recruiter"
	RoleOwner     = "owner"
)

// Actor is the caller identity resolved from a verified token.
type Actor struct {
	Subject string
	Email   string
	Roles   []string
}

func (a Actor) HasRole(role string) bool {
	return slices.Contains(a.Roles, role)
}

func (a Actor) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}

func (a Actor) IsZero() bool {
	return a.Subject == ""
}
