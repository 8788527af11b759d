// internal/domain/analytics/entity.go
package analytics

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindView          Kind = "view"
	KindWhatsAppClick Kind = "whatsapp_click"
	KindWebsiteClick  Kind = "website_click"
	KindCouponView    Kind = "coupon_view"
	KindPhoneClick    Kind = "phone_click"
)

var kinds = []Kind{KindView, KindWhatsAppClick, KindWebsiteClick, KindCouponView, KindPhoneClick}

func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

func (k Kind) Valid() bool {
	for _, v := range kinds {
		if v == k {
			return true
		}
	}
	return false
}

// Event IDs are ULIDs so they sort by creation time.
type Event struct {
	ID        string    `json:"id" db:"id"`
	VenueID   uuid.UUID `json:"venue_id" db:"venue_id"`
	Kind      Kind      `json:"kind" db:"kind"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Stats struct {
	VenueID uuid.UUID      `json:"venue_id"`
	From    time.Time      `json:"from"`
	To      time.Time      `json:"to"`
	Counts  map[Kind]int64 `json:"counts"`
	Total   int64          `json:"total"`
}
