// internal/handlers/venue/venue_handler.go
package venue

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"directory-service/internal/domain/auth"
	"directory-service/internal/domain/venue"
	"directory-service/internal/middleware"
	"directory-service/internal/pkg/response"
	planservice "directory-service/internal/service/plan"
	venueservice "directory-service/internal/service/venue"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// VenueService is implemented by *venueservice.VenueService.
type VenueService interface {
	List(ctx context.Context, filters *venue.VenueListFilters) (*venue.VenueListResponse, error)
	GetBySlug(ctx context.Context, slug, locale string) (*venue.Listing, error)
	Featured(ctx context.Context, limit int, locale string) ([]venue.Card, error)
	UpgradeLink(ctx context.Context, slug, target string) (*planservice.UpgradeLink, error)
	Create(ctx context.Context, req *venue.CreateVenueRequest) (*venue.Venue, error)
	Update(ctx context.Context, id uuid.UUID, actor auth.Actor, req *venue.UpdateVenueRequest) (*venue.Venue, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ChangePlan(ctx context.Context, id uuid.UUID, raw string) (*venue.Venue, error)
	ScheduleReport(ctx context.Context) ([]venue.ScheduleIssue, error)
}

type VenueHandler struct {
	venueService VenueService
}

func NewVenueHandler(venueService VenueService) *VenueHandler {
	return &VenueHandler{
		venueService: venueService,
	}
}

// ========== Public Endpoints ==========

// ListVenues returns venue cards, premium first
func (h *VenueHandler) ListVenues(c *gin.Context) {
	var filters venue.VenueListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}
	filters.Locale = Locale(c)

	result, err := h.venueService.List(c.Request.Context(), &filters)
	if err != nil {
		response.ServiceError(c, "failed to list venues", err)
		return
	}

	response.Success(c, http.StatusOK, "venues retrieved", result)
}

// GetFeatured returns venues whose plan includes the featured slot
func (h *VenueHandler) GetFeatured(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "6"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 6
	}

	cards, err := h.venueService.Featured(c.Request.Context(), limit, Locale(c))
	if err != nil {
		response.ServiceError(c, "failed to get featured venues", err)
		return
	}

	response.Success(c, http.StatusOK, "featured venues retrieved", cards)
}

// GetVenue returns the feature-gated public listing
func (h *VenueHandler) GetVenue(c *gin.Context) {
	listing, err := h.venueService.GetBySlug(c.Request.Context(), c.Param("slug"), Locale(c))
	if err != nil {
		response.ServiceError(c, "venue not available", err)
		return
	}

	response.Success(c, http.StatusOK, "venue retrieved", listing)
}

// GetUpgradeLink builds the WhatsApp link to request a plan change (?plan=premium)
func (h *VenueHandler) GetUpgradeLink(c *gin.Context) {
	target := c.Query("plan")
	if target == "" {
		response.Error(c, http.StatusBadRequest, "target plan is required", nil)
		return
	}

	link, err := h.venueService.UpgradeLink(c.Request.Context(), c.Param("slug"), target)
	if err != nil {
		response.ServiceError(c, "failed to build upgrade link", err)
		return
	}

	response.Success(c, http.StatusOK, "upgrade link created", link)
}

// ========== Owner / Admin Endpoints ==========

// CreateVenue creates a listing (admin only)
func (h *VenueHandler) CreateVenue(c *gin.Context) {
	var req venue.CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	v, err := h.venueService.Create(c.Request.Context(), &req)
	if err != nil {
		writeError(c, "failed to create venue", err)
		return
	}

	response.Success(c, http.StatusCreated, "venue created", v)
}

// UpdateVenue edits a listing (owner or admin)
func (h *VenueHandler) UpdateVenue(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid venue ID", err)
		return
	}

	var req venue.UpdateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	v, err := h.venueService.Update(c.Request.Context(), id, middleware.MustGetActor(c), &req)
	if err != nil {
		writeError(c, "failed to update venue", err)
		return
	}

	response.Success(c, http.StatusOK, "venue updated", v)
}

// DeleteVenue removes a listing (admin only)
func (h *VenueHandler) DeleteVenue(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid venue ID", err)
		return
	}

	if err := h.venueService.Delete(c.Request.Context(), id); err != nil {
		response.ServiceError(c, "failed to delete venue", err)
		return
	}

	response.Success(c, http.StatusOK, "venue deleted", nil)
}

// ChangePlan sets the subscription plan after a manual upgrade (admin only)
func (h *VenueHandler) ChangePlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid venue ID", err)
		return
	}

	var req venue.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	v, err := h.venueService.ChangePlan(c.Request.Context(), id, req.Plan)
	if err != nil {
		response.ServiceError(c, "failed to change plan", err)
		return
	}

	response.Success(c, http.StatusOK, "plan changed", v)
}

// ScheduleReport lists venues with malformed hours or unknown plans (admin only)
func (h *VenueHandler) ScheduleReport(c *gin.Context) {
	issues, err := h.venueService.ScheduleReport(c.Request.Context())
	if err != nil {
		response.ServiceError(c, "failed to build schedule report", err)
		return
	}

	response.Success(c, http.StatusOK, "schedule report built", gin.H{
		"issues": issues,
		"count":  len(issues),
	})
}

// ========== Helpers ==========

// writeError returns malformed schedule entries as the response data.
func writeError(c *gin.Context, message string, err error) {
	var invalid *venueservice.InvalidScheduleError
	if errors.As(err, &invalid) {
		response.Error(c, http.StatusBadRequest, "invalid schedule", err, invalid.Entries)
		return
	}
	response.ServiceError(c, message, err)
}

// Locale picks ?locale= first, then the primary Accept-Language tag. An empty
// result means the service default.
func Locale(c *gin.Context) string {
	if l := strings.TrimSpace(c.Query("locale")); l != "" {
		return strings.ToLower(l)
	}
	header := c.GetHeader("Accept-Language")
	if header == "" {
		return ""
	}
	tag := strings.TrimSpace(strings.Split(header, ",")[0])
	tag = strings.Split(tag, ";")[0]
	tag = strings.Split(tag, "-")[0]
	return strings.ToLower(tag)
}
