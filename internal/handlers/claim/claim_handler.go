// internal/handlers/claim/claim_handler.go
package claim

import (
	"context"
	"net/http"

	"directory-service/internal/domain/auth"
	"directory-service/internal/domain/claim"
	"directory-service/internal/middleware"
	"directory-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ClaimService interface {
	Submit(ctx context.Context, slug string, req *claim.SubmitClaimRequest, remoteIP string) (*claim.Request, error)
	List(ctx context.Context, filters *claim.ClaimListFilters) (*claim.ClaimListResponse, error)
	Approve(ctx context.Context, id uuid.UUID, reviewer auth.Actor, ownerID string) (*claim.Request, error)
	Reject(ctx context.Context, id uuid.UUID, reviewer auth.Actor) (*claim.Request, error)
}

type ClaimHandler struct {
	claimService ClaimService
}

func NewClaimHandler(claimService ClaimService) *ClaimHandler {
	return &ClaimHandler{claimService: claimService}
}

// SubmitClaim files an ownership request for an unclaimed venue
func (h *ClaimHandler) SubmitClaim(c *gin.Context) {
	var req claim.SubmitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	created, err := h.claimService.Submit(c.Request.Context(), c.Param("slug"), &req, c.ClientIP())
	if err != nil {
		response.ServiceError(c, "failed to submit claim", err)
		return
	}

	response.Success(c, http.StatusCreated, "claim submitted", gin.H{
		"id":     created.ID,
		"status": created.Status,
	})
}

// ========== Admin Endpoints ==========

// ListClaims returns claim requests (?status=pending)
func (h *ClaimHandler) ListClaims(c *gin.Context) {
	var filters claim.ClaimListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	result, err := h.claimService.List(c.Request.Context(), &filters)
	if err != nil {
		response.ServiceError(c, "failed to list claims", err)
		return
	}

	response.Success(c, http.StatusOK, "claims retrieved", result)
}

// ApproveClaim makes owner_id the venue owner
func (h *ClaimHandler) ApproveClaim(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid claim ID", err)
		return
	}

	var req claim.ApproveClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	approved, err := h.claimService.Approve(c.Request.Context(), id, middleware.MustGetActor(c), req.OwnerID)
	if err != nil {
		response.ServiceError(c, "failed to approve claim", err)
		return
	}

	response.Success(c, http.StatusOK, "claim approved", approved)
}

// RejectClaim closes a pending claim
func (h *ClaimHandler) RejectClaim(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid claim ID", err)
		return
	}

	rejected, err := h.claimService.Reject(c.Request.Context(), id, middleware.MustGetActor(c))
	if err != nil {
		response.ServiceError(c, "failed to reject claim", err)
		return
	}

	response.Success(c, http.StatusOK, "claim rejected", rejected)
}
