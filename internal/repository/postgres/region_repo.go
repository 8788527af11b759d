// internal/repository/postgres/region_repo.go
package postgres

import (
	"context"
	"fmt"

	"directory-service/internal/domain/region"

	"github.com/jackc/pgx/v5/pgxpool"
)

type RegionRepository struct {
	db *pgxpool.Pool
}

func NewRegionRepository(db *pgxpool.Pool) *RegionRepository {
	return &RegionRepository{db: db}
}

// ListWithCities returns every region with its cities, both sorted by name.
func (r *RegionRepository) ListWithCities(ctx context.Context) ([]region.Region, error) {
	query := `
		SELECT r.id, r.name, r.slug, c.id, c.name, c.slug
		FROM regions r
		LEFT JOIN cities c ON c.region_id = r.id
		ORDER BY r.name, c.name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	defer rows.Close()

	regions := []region.Region{}
	index := map[int64]int{}
	for rows.Next() {
		var reg region.Region
		var cityID *int64
		var cityName, citySlug *string
		if err := rows.Scan(&reg.ID, &reg.Name, &reg.Slug, &cityID, &cityName, &citySlug); err != nil {
			return nil, fmt.Errorf("failed to scan region row: %w", err)
		}

		i, ok := index[reg.ID]
		if !ok {
			reg.Cities = []region.City{}
			regions = append(regions, reg)
			i = len(regions) - 1
			index[reg.ID] = i
		}
		if cityID != nil {
			regions[i].Cities = append(regions[i].Cities, region.City{
				ID:       *cityID,
				RegionID: reg.ID,
				Name:     *cityName,
				Slug:     *citySlug,
			})
		}
	}
	return regions, rows.Err()
}
