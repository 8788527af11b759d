// internal/domain/venue/entity.go
package venue

import (
	"time"

	"directory-service/internal/domain/i18n"
	"directory-service/internal/domain/schedule"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive Status = "active"
	StatusHidden Status = "hidden"
)

type Venue struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Slug        string    `json:"slug" db:"slug"`
	Name        i18n.Text `json:"name" db:"name"`
	Description i18n.Text `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`

	// Location
	RegionID  int64   `json:"region_id" db:"region_id"`
	CityID    int64   `json:"city_id" db:"city_id"`
	Address   string  `json:"address" db:"address"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`

	// Contact
	Phone     string `json:"phone" db:"phone"`
	WhatsApp  string `json:"whatsapp" db:"whatsapp"`
	Website   string `json:"website" db:"website"`
	Instagram string `json:"instagram" db:"instagram"`
	Facebook  string `json:"facebook" db:"facebook"`

	// SubscriptionPlan is the raw stored value; parse it with plan.ParseKey.
	SubscriptionPlan string `json:"subscription_plan" db:"subscription_plan"`

	// Hours
	Schedule  schedule.WeeklySchedule `json:"schedule,omitempty" db:"schedule"`
	OpenTime  *string                 `json:"open_time,omitempty" db:"open_time"`
	CloseTime *string                 `json:"close_time,omitempty" db:"close_time"`

	Gallery []string `json:"gallery" db:"gallery"`
	Tags    []string `json:"tags" db:"tags"`

	OwnerID *string `json:"owner_id,omitempty" db:"owner_id"`
	Status  Status  `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FallbackHours returns the legacy open/close pair, "" for missing values.
func (v *Venue) FallbackHours() (string, string) {
	var open, close string
	if v.OpenTime != nil {
		open = *v.OpenTime
	}
	if v.CloseTime != nil {
		close = *v.CloseTime
	}
	return open, close
}

// IsOwnedBy reports whether userID owns the listing.
func (v *Venue) IsOwnedBy(userID string) bool {
	return v.OwnerID != nil && userID != "" && *v.OwnerID == userID
}

// ScheduleIssue is one row of the admin data-quality report.
type ScheduleIssue struct {
	VenueID     uuid.UUID                 `json:"venue_id"`
	Slug        string                    `json:"slug"`
	Entries     []schedule.MalformedEntry `json:"entries,omitempty"`
	UnknownPlan string                    `json:"unknown_plan,omitempty"`
}
