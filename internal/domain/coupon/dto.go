// internal/domain/coupon/dto.go
package coupon

import (
	"time"

	"directory-service/internal/domain/i18n"
)

type CreateCouponRequest struct {
	Title           i18n.Text  `json:"title"`
	Code            string     `json:"code" binding:"required,max=40"`
	DiscountPercent int        `json:"discount_percent" binding:"required,min=1,max=100"`
	ValidFrom       *time.Time `json:"valid_from"`
	ValidUntil      *time.Time `json:"valid_until"`
}

type UpdateCouponRequest struct {
	Title           *i18n.Text `json:"title"`
	DiscountPercent *int       `json:"discount_percent" binding:"omitempty,min=1,max=100"`
	ValidUntil      *time.Time `json:"valid_until"`
	Active          *bool      `json:"active"`
}
