// internal/handlers/plan/plan_handler.go
package plan

import (
	"net/http"

	"directory-service/internal/domain/plan"
	"directory-service/internal/pkg/response"
	planservice "directory-service/internal/service/plan"

	"github.com/gin-gonic/gin"
)

type PlanService interface {
	ListPlans() []plan.Plan
	GetPlan(raw string) (*plan.Plan, error)
	Reload() ([]plan.Plan, error)
}

type PlanHandler struct {
	planService PlanService
}

func NewPlanHandler(planService PlanService) *PlanHandler {
	return &PlanHandler{
		planService: planService,
	}
}

// ListPlans returns the catalog in display order
func (h *PlanHandler) ListPlans(c *gin.Context) {
	response.Success(c, http.StatusOK, "plans retrieved", h.planService.ListPlans())
}

// GetPlan returns a single plan by key
func (h *PlanHandler) GetPlan(c *gin.Context) {
	p, err := h.planService.GetPlan(c.Param("key"))
	if err != nil {
		if planservice.IsUnknownPlan(err) {
			response.Error(c, http.StatusNotFound, "plan not found", err)
			return
		}
		response.ServiceError(c, "failed to get plan", err)
		return
	}

	response.Success(c, http.StatusOK, "plan retrieved", p)
}

// ReloadPlans re-reads the plans file (admin only)
func (h *PlanHandler) ReloadPlans(c *gin.Context) {
	plans, err := h.planService.Reload()
	if err != nil {
		response.ServiceError(c, "failed to reload plans", err)
		return
	}

	response.Success(c, http.StatusOK, "plans reloaded", plans)
}
