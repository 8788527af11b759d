// internal/handlers/analytics/analytics_handler.go
package analytics

import (
	"context"
	"net/http"

	"directory-service/internal/domain/analytics"
	"directory-service/internal/domain/auth"
	"directory-service/internal/middleware"
	"directory-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AnalyticsService interface {
	Record(ctx context.Context, slug string, kind analytics.Kind) (*analytics.Event, error)
	Stats(ctx context.Context, venueID uuid.UUID, actor auth.Actor, days int) (*analytics.Stats, error)
}

type AnalyticsHandler struct {
	analyticsService AnalyticsService
}

func NewAnalyticsHandler(analyticsService AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// RecordEvent stores a listing interaction
func (h *AnalyticsHandler) RecordEvent(c *gin.Context) {
	var req analytics.RecordEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	event, err := h.analyticsService.Record(c.Request.Context(), c.Param("slug"), req.Kind)
	if err != nil {
		response.ServiceError(c, "failed to record event", err)
		return
	}

	response.Success(c, http.StatusAccepted, "event recorded", gin.H{"id": event.ID})
}

// GetStats aggregates events per kind (?days=30, owner or admin)
func (h *AnalyticsHandler) GetStats(c *gin.Context) {
	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid venue ID", err)
		return
	}

	var q analytics.StatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	stats, err := h.analyticsService.Stats(c.Request.Context(), venueID, middleware.MustGetActor(c), q.Days)
	if err != nil {
		response.ServiceError(c, "failed to get stats", err)
		return
	}

	response.Success(c, http.StatusOK, "stats retrieved", stats)
}
