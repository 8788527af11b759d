// internal/service/region/region_service.go
package region

import (
	"context"
	"fmt"

	"directory-service/internal/domain/region"

	"go.uber.org/zap"
)

type RegionRepository interface {
	ListWithCities(ctx context.Context) ([]region.Region, error)
}

type RegionCache interface {
	GetRegions(ctx context.Context) ([]region.Region, error)
	SetRegions(ctx context.Context, regions []region.Region) error
}

type RegionService struct {
	repo   RegionRepository
	cache  RegionCache
	logger *zap.Logger
}

// NewRegionService accepts a nil cache.
func NewRegionService(repo RegionRepository, cache RegionCache, logger *zap.Logger) *RegionService {
	return &RegionService{repo: repo, cache: cache, logger: logger}
}

func (s *RegionService) List(ctx context.Context) ([]region.Region, error) {
	if s.cache != nil {
		cached, err := s.cache.GetRegions(ctx)
		if err != nil {
			s.logger.Warn("region cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	regions, err := s.repo.ListWithCities(ctx)
	if err != nil {
		s.logger.Error("failed to list regions", zap.Error(err))
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetRegions(ctx, regions); err != nil {
			s.logger.Warn("region cache write failed", zap.Error(err))
		}
	}
	return regions, nil
}
