// internal/domain/job/entity.go
package job

import (
	"time"

	"directory-service/internal/domain/i18n"

	"github.com/google/uuid"
)

type Employment string

const (
	EmploymentFullTime  Employment = "full_time"
	EmploymentPartTime  Employment = "part_time"
	EmploymentTemporary Employment = "temporary"
)

func (e Employment) Valid() bool {
	switch e {
	case EmploymentFullTime, EmploymentPartTime, EmploymentTemporary:
		return true
	}
	return false
}

type Job struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	VenueID      *uuid.UUID `json:"venue_id,omitempty" db:"venue_id"`
	Title        i18n.Text  `json:"title" db:"title"`
	Description  i18n.Text  `json:"description" db:"description"`
	CityID       int64      `json:"city_id" db:"city_id"`
	Employment   Employment `json:"employment" db:"employment"`
	ContactEmail string     `json:"contact_email" db:"contact_email"`
	PostedBy     string     `json:"posted_by" db:"posted_by"`
	ExpiresAt    time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

func (j *Job) ExpiredAt(now time.Time) bool {
	return !now.Before(j.ExpiresAt)
}
