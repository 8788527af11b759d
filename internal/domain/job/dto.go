// internal/domain/job/dto.go
package job

import (
	"time"

	"directory-service/internal/domain/i18n"

	"github.com/google/uuid"
)

type CreateJobRequest struct {
	VenueID      *uuid.UUID `json:"venue_id"`
	Title        i18n.Text  `json:"title"`
	Description  i18n.Text  `json:"description"`
	CityID       int64      `json:"city_id" binding:"required,min=1"`
	Employment   Employment `json:"employment" binding:"required,oneof=full_time part_time temporary"`
	ContactEmail string     `json:"contact_email" binding:"required,email"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

type JobListFilters struct {
	CityID     *int64 `form:"city_id"`
	Employment string `form:"employment"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type JobListResponse struct {
	Jobs       []Job `json:"jobs"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}
