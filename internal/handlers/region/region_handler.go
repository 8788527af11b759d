// internal/handlers/region/region_handler.go
package region

import (
	"context"
	"net/http"

	"directory-service/internal/domain/region"
	"directory-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type RegionService interface {
	List(ctx context.Context) ([]region.Region, error)
}

type RegionHandler struct {
	regionService RegionService
}

func NewRegionHandler(regionService RegionService) *RegionHandler {
	return &RegionHandler{regionService: regionService}
}

// ListRegions returns every region with its cities
func (h *RegionHandler) ListRegions(c *gin.Context) {
	regions, err := h.regionService.List(c.Request.Context())
	if err != nil {
		response.ServiceError(c, "failed to list regions", err)
		return
	}

	response.Success(c, http.StatusOK, "regions retrieved", regions)
}
