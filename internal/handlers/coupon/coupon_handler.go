// internal/handlers/coupon/coupon_handler.go
package coupon

import (
	"context"
	"net/http"

	"directory-service/internal/domain/auth"
	"directory-service/internal/domain/coupon"
	"directory-service/internal/middleware"
	"directory-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CouponService interface {
	ListForVenue(ctx context.Context, slug string) ([]coupon.Coupon, error)
	Create(ctx context.Context, venueID uuid.UUID, actor auth.Actor, req *coupon.CreateCouponRequest) (*coupon.Coupon, error)
	Update(ctx context.Context, id uuid.UUID, actor auth.Actor, req *coupon.UpdateCouponRequest) (*coupon.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID, actor auth.Actor) error
}

type CouponHandler struct {
	couponService CouponService
}

func NewCouponHandler(couponService CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

// ListVenueCoupons returns active coupons when the venue plan includes them
func (h *CouponHandler) ListVenueCoupons(c *gin.Context) {
	coupons, err := h.couponService.ListForVenue(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.ServiceError(c, "failed to list coupons", err)
		return
	}

	response.Success(c, http.StatusOK, "coupons retrieved", coupons)
}

// CreateCoupon adds a coupon to a venue (owner or admin)
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid venue ID", err)
		return
	}

	var req coupon.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	created, err := h.couponService.Create(c.Request.Context(), venueID, middleware.MustGetActor(c), &req)
	if err != nil {
		response.ServiceError(c, "failed to create coupon", err)
		return
	}

	response.Success(c, http.StatusCreated, "coupon created", created)
}

// UpdateCoupon edits a coupon (owner or admin)
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid coupon ID", err)
		return
	}

	var req coupon.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	updated, err := h.couponService.Update(c.Request.Context(), id, middleware.MustGetActor(c), &req)
	if err != nil {
		response.ServiceError(c, "failed to update coupon", err)
		return
	}

	response.Success(c, http.StatusOK, "coupon updated", updated)
}

// DeleteCoupon removes a coupon (owner or admin)
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid coupon ID", err)
		return
	}

	if err := h.couponService.Delete(c.Request.Context(), id, middleware.MustGetActor(c)); err != nil {
		response.ServiceError(c, "failed to delete coupon", err)
		return
	}

	response.Success(c, http.StatusOK, "coupon deleted", nil)
}
