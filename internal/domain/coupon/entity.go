// internal/domain/coupon/entity.go
package coupon

import (
	"time"

	"directory-service/internal/domain/i18n"

	"github.com/google/uuid"
)

type Coupon struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	VenueID         uuid.UUID  `json:"venue_id" db:"venue_id"`
	Title           i18n.Text  `json:"title" db:"title"`
	Code            string     `json:"code" db:"code"`
	DiscountPercent int        `json:"discount_percent" db:"discount_percent"`
	ValidFrom       time.Time  `json:"valid_from" db:"valid_from"`
	ValidUntil      *time.Time `json:"valid_until,omitempty" db:"valid_until"`
	Active          bool       `json:"active" db:"active"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// IsActiveAt reports whether the coupon can be redeemed at now. Both window
// bounds are inclusive and a nil ValidUntil never expires.
func (c *Coupon) IsActiveAt(now time.Time) bool {
	if !c.Active || now.Before(c.ValidFrom) {
		return false
	}
	return c.ValidUntil == nil || !now.After(*c.ValidUntil)
}
