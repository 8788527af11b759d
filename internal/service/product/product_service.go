// internal/service/product/product_service.go
package product

import (
	"context"
	"errors"
	"fmt"

	"directory-service/internal/domain/auth"
	"directory-service/internal/domain/plan"
	"directory-service/internal/domain/product"
	"directory-service/internal/domain/venue"
	xerrors "directory-service/internal/pkg/errors"
	planservice "directory-service/internal/service/plan"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductRepository interface {
	CreateWithinLimit(ctx context.Context, p *product.Product, limit int) error
	GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error)
	ListByVenue(ctx context.Context, venueID uuid.UUID, limit int) ([]product.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type VenueAccess interface {
	Resolve(ctx context.Context, slug string) (*venue.Venue, plan.Features, error)
	Manage(ctx context.Context, id uuid.UUID, actor auth.Actor) (*venue.Venue, error)
}

type ProductService struct {
	repo   ProductRepository
	venues VenueAccess
	plans  *planservice.PlanService
	logger *zap.Logger
}

func NewProductService(repo ProductRepository, venues VenueAccess, plans *planservice.PlanService, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		venues: venues,
		plans:  plans,
		logger: logger,
	}
}

// ListForVenue returns at most ProductsLimit items in display position order.
func (s *ProductService) ListForVenue(ctx context.Context, slug string) ([]product.Product, error) {
	v, f, err := s.venues.Resolve(ctx, slug)
	if err != nil {
		return nil, err
	}
	if f.ProductsLimit <= 0 {
		return []product.Product{}, nil
	}

	products, err := s.repo.ListByVenue(ctx, v.ID, f.ProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *ProductService) Create(ctx context.Context, venueID uuid.UUID, actor auth.Actor, req *product.CreateProductRequest) (*product.Product, error) {
	v, err := s.venues.Manage(ctx, venueID, actor)
	if err != nil {
		return nil, err
	}
	if req.Name.IsZero() {
		return nil, fmt.Errorf("product name is required: %w", xerrors.ErrInvalidInput)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative: %w", xerrors.ErrInvalidInput)
	}

	_, f, err := s.plans.ResolveDefault(v.SubscriptionPlan)
	if err != nil {
		return nil, xerrors.Classify(xerrors.ErrConflict, err)
	}

	p := &product.Product{
		ID:       uuid.New(),
		VenueID:  v.ID,
		Name:     req.Name,
		Price:    req.Price,
		ImageURL: req.ImageURL,
		Position: -1,
	}
	if req.Position != nil {
		p.Position = *req.Position
	}

	if err := s.repo.CreateWithinLimit(ctx, p, f.ProductsLimit); err != nil {
		if errors.Is(err, product.ErrPlanLimitReached) {
			return nil, xerrors.Classify(xerrors.ErrConflict, err)
		}
		s.logger.Error("failed to create product", zap.String("venue_id", v.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("product created",
		zap.String("product_id", p.ID.String()),
		zap.String("venue_id", v.ID.String()),
		zap.Int("position", p.Position),
	)
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID, actor auth.Actor) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.venues.Manage(ctx, p.VenueID, actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}
