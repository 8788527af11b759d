// internal/service/coupon/coupon_service.go
package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"directory-service/internal/domain/auth"
	"directory-service/internal/domain/coupon"
	"directory-service/internal/domain/plan"
	"directory-service/internal/domain/venue"
	xerrors "directory-service/internal/pkg/errors"
	planservice "directory-service/internal/service/plan"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CouponRepository interface {
	Create(ctx context.Context, c *coupon.Coupon) error
	Update(ctx context.Context, c *coupon.Coupon) error
	GetByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error)
	ListActive(ctx context.Context, venueID uuid.UUID, now time.Time) ([]coupon.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type VenueAccess interface {
	Resolve(ctx context.Context, slug string) (*venue.Venue, plan.Features, error)
	Manage(ctx context.Context, id uuid.UUID, actor auth.Actor) (*venue.Venue, error)
}

type CouponService struct {
	repo   CouponRepository
	venues VenueAccess
	plans  *planservice.PlanService
	now    func() time.Time
	logger *zap.Logger
}

func NewCouponService(repo CouponRepository, venues VenueAccess, plans *planservice.PlanService, logger *zap.Logger) *CouponService {
	return &CouponService{
		repo:   repo,
		venues: venues,
		plans:  plans,
		now:    time.Now,
		logger: logger,
	}
}

// ListForVenue returns active coupons, or none when the venue plan has no
// coupons.
func (s *CouponService) ListForVenue(ctx context.Context, slug string) ([]coupon.Coupon, error) {
	v, f, err := s.venues.Resolve(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !f.Coupons {
		return []coupon.Coupon{}, nil
	}

	coupons, err := s.repo.ListActive(ctx, v.ID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, nil
}

func (s *CouponService) Create(ctx context.Context, venueID uuid.UUID, actor auth.Actor, req *coupon.CreateCouponRequest) (*coupon.Coupon, error) {
	v, err := s.venues.Manage(ctx, venueID, actor)
	if err != nil {
		return nil, err
	}
	if err := s.requireCoupons(v); err != nil {
		return nil, err
	}

	now := s.now()
	c := &coupon.Coupon{
		ID:              uuid.New(),
		VenueID:         v.ID,
		Title:           req.Title,
		Code:            strings.ToUpper(strings.TrimSpace(req.Code)),
		DiscountPercent: req.DiscountPercent,
		ValidFrom:       now,
		ValidUntil:      req.ValidUntil,
		Active:          true,
	}
	if req.ValidFrom != nil {
		c.ValidFrom = *req.ValidFrom
	}
	if err := validate(c); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, xerrors.ErrDuplicateEntry) {
			return nil, fmt.Errorf("coupon code %s already exists for this venue: %w", c.Code, xerrors.ErrConflict)
		}
		s.logger.Error("failed to create coupon", zap.String("venue_id", v.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	s.logger.Info("coupon created",
		zap.String("coupon_id", c.ID.String()),
		zap.String("venue_id", v.ID.String()),
		zap.String("by", actor.Subject),
	)
	return c, nil
}

func (s *CouponService) Update(ctx context.Context, id uuid.UUID, actor auth.Actor, req *coupon.UpdateCouponRequest) (*coupon.Coupon, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.venues.Manage(ctx, c.VenueID, actor); err != nil {
		return nil, err
	}

	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.DiscountPercent != nil {
		c.DiscountPercent = *req.DiscountPercent
	}
	if req.ValidUntil != nil {
		c.ValidUntil = req.ValidUntil
	}
	if req.Active != nil {
		c.Active = *req.Active
	}
	if err := validate(c); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}
	return c, nil
}

func (s *CouponService) Delete(ctx context.Context, id uuid.UUID, actor auth.Actor) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.venues.Manage(ctx, c.VenueID, actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}

	s.logger.Info("coupon deleted", zap.String("coupon_id", id.String()), zap.String("by", actor.Subject))
	return nil
}

// ========== Helper Methods ==========

func (s *CouponService) requireCoupons(v *venue.Venue) error {
	_, f, err := s.plans.ResolveDefault(v.SubscriptionPlan)
	if err != nil {
		return xerrors.Classify(xerrors.ErrConflict, err)
	}
	if !f.Coupons {
		return fmt.Errorf("plan %s does not include coupons: %w", v.SubscriptionPlan, xerrors.ErrForbidden)
	}
	return nil
}

func validate(c *coupon.Coupon) error {
	if c.Code == "" {
		return fmt.Errorf("coupon code is required: %w", xerrors.ErrInvalidInput)
	}
	if c.DiscountPercent < 1 || c.DiscountPercent > 100 {
		return fmt.Errorf("discount must be between 1 and 100: %w", xerrors.ErrInvalidInput)
	}
	if c.ValidUntil != nil && c.ValidUntil.Before(c.ValidFrom) {
		return fmt.Errorf("coupon expires before it starts: %w", xerrors.ErrInvalidInput)
	}
	return nil
}
