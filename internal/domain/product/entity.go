// internal/domain/product/entity.go
package product

import (
	"errors"
	"time"

	"directory-service/internal/domain/i18n"

	"github.com/google/uuid"
)

// ErrPlanLimitReached is returned when a venue already holds as many products
// as its plan allows.
var ErrPlanLimitReached = errors.New("plan product limit reached")

type Product struct {
	ID        uuid.UUID `json:"id" db:"id"`
	VenueID   uuid.UUID `json:"venue_id" db:"venue_id"`
	Name      i18n.Text `json:"name" db:"name"`
	Price     float64   `json:"price" db:"price"`
	ImageURL  string    `json:"image_url,omitempty" db:"image_url"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
