// internal/domain/venue/dto.go
package venue

import (
	"directory-service/internal/domain/coupon"
	"directory-service/internal/domain/i18n"
	"directory-service/internal/domain/plan"
	"directory-service/internal/domain/product"
	"directory-service/internal/domain/schedule"

	"github.com/google/uuid"
)

type CreateVenueRequest struct {
	Slug        string    `json:"slug" binding:"required,max=120"`
	Name        i18n.Text `json:"name"`
	Description i18n.Text `json:"description"`
	Category    string    `json:"category" binding:"required,max=60"`

	RegionID  int64   `json:"region_id" binding:"required,min=1"`
	CityID    int64   `json:"city_id" binding:"required,min=1"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`

	Phone     string `json:"phone"`
	WhatsApp  string `json:"whatsapp"`
	Website   string `json:"website" binding:"omitempty,url"`
	Instagram string `json:"instagram"`
	Facebook  string `json:"facebook"`

	SubscriptionPlan string `json:"subscription_plan"`

	Schedule  schedule.WeeklySchedule `json:"schedule"`
	OpenTime  *string                 `json:"open_time"`
	CloseTime *string                 `json:"close_time"`

	Gallery []string `json:"gallery"`
	Tags    []string `json:"tags"`
	OwnerID *string  `json:"owner_id"`
}

type UpdateVenueRequest struct {
	Name        *i18n.Text `json:"name"`
	Description *i18n.Text `json:"description"`
	Category    *string    `json:"category" binding:"omitempty,max=60"`
	Address     *string    `json:"address"`
	Latitude    *float64   `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude   *float64   `json:"longitude" binding:"omitempty,min=-180,max=180"`

	Phone     *string `json:"phone"`
	WhatsApp  *string `json:"whatsapp"`
	Website   *string `json:"website" binding:"omitempty,url"`
	Instagram *string `json:"instagram"`
	Facebook  *string `json:"facebook"`

	Schedule  schedule.WeeklySchedule `json:"schedule"`
	OpenTime  *string                 `json:"open_time"`
	CloseTime *string                 `json:"close_time"`

	Gallery []string `json:"gallery"`
	Tags    []string `json:"tags"`
	Status  *Status  `json:"status" binding:"omitempty,oneof=active hidden"`
}

type ChangePlanRequest struct {
	Plan string `json:"plan" binding:"required"`
}

type VenueListFilters struct {
	RegionID *int64   `form:"region_id"`
	CityID   *int64   `form:"city_id"`
	Category string   `form:"category"`
	Tags     []string `form:"tag"`
	Search   string   `form:"search"`
	OpenNow  bool     `form:"open_now"`
	Locale   string   `form:"locale"`
	Page     int      `form:"page" binding:"omitempty,min=1"`
	PageSize int      `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Card is the compact, plan-gated form used in listings.
type Card struct {
	ID       uuid.UUID `json:"id"`
	Slug     string    `json:"slug"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	CityID   int64     `json:"city_id"`
	Address  string    `json:"address"`
	Cover    string    `json:"cover,omitempty"`
	WhatsApp string    `json:"whatsapp,omitempty"`
	Verified bool      `json:"verified"`
	Featured bool      `json:"featured"`
	OpenNow  bool      `json:"open_now"`
	PlanRank int       `json:"-"`
}

// Listing is the public, plan-gated detail view of a venue.
type Listing struct {
	ID          uuid.UUID           `json:"id"`
	Slug        string              `json:"slug"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	RegionID    int64               `json:"region_id"`
	CityID      int64               `json:"city_id"`
	Address     string              `json:"address"`
	Latitude    float64             `json:"latitude"`
	Longitude   float64             `json:"longitude"`
	Plan        plan.Key            `json:"plan"`
	Features    plan.Features       `json:"features"`
	Verified    bool                `json:"verified"`
	Featured    bool                `json:"featured"`
	WhatsApp    string              `json:"whatsapp,omitempty"`
	Phone       string              `json:"phone,omitempty"`
	Website     string              `json:"website,omitempty"`
	Instagram   string              `json:"instagram,omitempty"`
	Facebook    string              `json:"facebook,omitempty"`
	Gallery     []string            `json:"gallery"`
	Tags        []string            `json:"tags"`
	Products    []product.Product   `json:"products"`
	Coupons     []coupon.Coupon     `json:"coupons"`
	Hours       schedule.OpenStatus `json:"hours"`
	OpenNow     bool                `json:"open_now"`
}

type VenueListResponse struct {
	Venues     []Card `json:"venues"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}
