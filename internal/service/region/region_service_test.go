package region

import (
	"context"
	"errors"
	"testing"

	"directory-service/internal/domain/region"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingRepo struct {
	calls int
	err   error
}

func (r *countingRepo) ListWithCities(context.Context) ([]region.Region, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []region.Region{{ID: 1, Name: "Centro", Slug: "centro", Cities: []region.City{{ID: 10, RegionID: 1, Name: "Puebla", Slug: "puebla"}}}}, nil
}

type memCache struct {
	regions []region.Region
	readErr error
}

func (c *memCache) GetRegions(context.Context) ([]region.Region, error) {
	return c.regions, c.readErr
}

func (c *memCache) SetRegions(_ context.Context, regions []region.Region) error {
	c.regions = regions
	return nil
}

func TestListReadsThroughCache(t *testing.T) {
	repo := &countingRepo{}
	svc := NewRegionService(repo, &memCache{}, zap.NewNop())

	for i := 0; i < 3; i++ {
		got, err := svc.List(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "puebla", got[0].Cities[0].Slug)
	}
	assert.Equal(t, 1, repo.calls)
}

func TestListCacheErrorFallsBack(t *testing.T) {
	repo := &countingRepo{}
	svc := NewRegionService(repo, &memCache{readErr: errors.New("redis down")}, zap.NewNop())

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	noCache := NewRegionService(&countingRepo{err: errors.New("boom")}, nil, zap.NewNop())
	_, err = noCache.List(context.Background())
	assert.Error(t, err)
}
