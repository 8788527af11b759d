// internal/service/claim/claim_service.go
package claim

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"directory-service/internal/domain/auth"
	"directory-service/internal/domain/claim"
	"directory-service/internal/domain/plan"
	"directory-service/internal/domain/venue"
	xerrors "directory-service/internal/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ClaimRepository interface {
	Create(ctx context.Context, c *claim.Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*claim.Request, error)
	List(ctx context.Context, filters *claim.ClaimListFilters) ([]claim.Request, int64, error)
	Approve(ctx context.Context, id uuid.UUID, reviewer, ownerID string) (*claim.Request, error)
	Reject(ctx context.Context, id uuid.UUID, reviewer string) (*claim.Request, error)
}

type VenueAccess interface {
	Resolve(ctx context.Context, slug string) (*venue.Venue, plan.Features, error)
	Invalidate(ctx context.Context, id uuid.UUID)
}

type TokenVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

type Notifier interface {
	NotifyClaim(ctx context.Context, c *claim.Request, v *venue.Venue) error
}

type ClaimService struct {
	repo     ClaimRepository
	venues   VenueAccess
	verifier TokenVerifier
	notifier Notifier
	now      func() time.Time
	logger   *zap.Logger
}

func NewClaimService(repo ClaimRepository, venues VenueAccess, verifier TokenVerifier, notifier Notifier, logger *zap.Logger) *ClaimService {
	return &ClaimService{
		repo:     repo,
		venues:   venues,
		verifier: verifier,
		notifier: notifier,
		now:      time.Now,
		logger:   logger,
	}
}

// Submit files a pending claim on an unowned venue. The admin notification is
// best effort; a delivery failure does not fail the request.
func (s *ClaimService) Submit(ctx context.Context, slug string, req *claim.SubmitClaimRequest, remoteIP string) (*claim.Request, error) {
	ok, err := s.verifier.Verify(ctx, req.CaptchaToken, remoteIP)
	if err != nil {
		s.logger.Error("captcha verification unavailable", zap.Error(err))
		return nil, fmt.Errorf("failed to verify captcha: %w", err)
	}
	if !ok {
		s.logger.Warn("captcha rejected", zap.String("slug", slug), zap.String("ip", remoteIP))
		return nil, xerrors.ErrCaptchaFailed
	}

	v, _, err := s.venues.Resolve(ctx, slug)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != nil && *v.OwnerID != "" {
		return nil, fmt.Errorf("venue %s already has an owner: %w", slug, xerrors.ErrConflict)
	}

	c := &claim.Request{
		ID:        uuid.New(),
		VenueID:   v.ID,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Message:   strings.TrimSpace(req.Message),
		Status:    claim.StatusPending,
		CreatedAt: s.now(),
	}
	if c.Name == "" || c.Email == "" {
		return nil, fmt.Errorf("name and email are required: %w", xerrors.ErrInvalidInput)
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("failed to store claim request", zap.String("venue_id", v.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to create claim request: %w", err)
	}

	if err := s.notifier.NotifyClaim(ctx, c, v); err != nil {
		s.logger.Warn("failed to notify admin of claim",
			zap.String("claim_id", c.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("claim request submitted",
		zap.String("claim_id", c.ID.String()),
		zap.String("venue_id", v.ID.String()),
	)
	return c, nil
}

func (s *ClaimService) List(ctx context.Context, filters *claim.ClaimListFilters) (*claim.ClaimListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}

	claims, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list claim requests: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}
	return &claim.ClaimListResponse{
		Claims:     claims,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// Approve hands the venue to ownerID and drops the cached listing.
func (s *ClaimService) Approve(ctx context.Context, id uuid.UUID, reviewer auth.Actor, ownerID string) (*claim.Request, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, fmt.Errorf("owner id is required: %w", xerrors.ErrInvalidInput)
	}

	c, err := s.repo.Approve(ctx, id, reviewer.Subject, ownerID)
	if err != nil {
		if errors.Is(err, xerrors.ErrConflict) {
			s.logger.Warn("claim approval refused, venue already owned",
				zap.String("claim_id", id.String()),
				zap.String("reviewer", reviewer.Subject),
			)
		}
		return nil, err
	}
	s.venues.Invalidate(ctx, c.VenueID)

	s.logger.Info("claim approved",
		zap.String("claim_id", id.String()),
		zap.String("venue_id", c.VenueID.String()),
		zap.String("owner_id", ownerID),
		zap.String("reviewer", reviewer.Subject),
	)
	return c, nil
}

func (s *ClaimService) Reject(ctx context.Context, id uuid.UUID, reviewer auth.Actor) (*claim.Request, error) {
	c, err := s.repo.Reject(ctx, id, reviewer.Subject)
	if err != nil {
		return nil, err
	}
	s.logger.Info("claim rejected", zap.String("claim_id", id.String()), zap.String("reviewer", reviewer.Subject))
	return c, nil
}
