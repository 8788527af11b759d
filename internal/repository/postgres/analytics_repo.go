// internal/repository/postgres/analytics_repo.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"directory-service/internal/domain/analytics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AnalyticsRepository struct {
	db *pgxpool.Pool
}

func NewAnalyticsRepository(db *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) Record(ctx context.Context, e *analytics.Event) error {
	query := `INSERT INTO venue_events (id, venue_id, kind, created_at) VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, query, e.ID, e.VenueID, e.Kind, e.CreatedAt); err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

// CountByKind aggregates events in [from, to).
func (r *AnalyticsRepository) CountByKind(ctx context.Context, venueID uuid.UUID, from, to time.Time) (map[analytics.Kind]int64, error) {
	query := `
		SELECT kind, COUNT(*)
		FROM venue_events
		WHERE venue_id = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY kind
	`
	rows, err := r.db.Query(ctx, query, venueID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate events: %w", err)
	}
	defer rows.Close()

	counts := make(map[analytics.Kind]int64)
	for rows.Next() {
		var kind analytics.Kind
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("failed to scan event count: %w", err)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}
