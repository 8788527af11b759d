// internal/service/analytics/analytics_service.go
package analytics

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"directory-service/internal/domain/analytics"
	"directory-service/internal/domain/auth"
	"directory-service/internal/domain/plan"
	"directory-service/internal/domain/venue"
	xerrors "directory-service/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const defaultStatsDays = 30

type EventRepository interface {
	Record(ctx context.Context, e *analytics.Event) error
	CountByKind(ctx context.Context, venueID uuid.UUID, from, to time.Time) (map[analytics.Kind]int64, error)
}

type VenueAccess interface {
	Resolve(ctx context.Context, slug string) (*venue.Venue, plan.Features, error)
	Manage(ctx context.Context, id uuid.UUID, actor auth.Actor) (*venue.Venue, error)
}

type AnalyticsService struct {
	repo   EventRepository
	venues VenueAccess
	now    func() time.Time
	logger *zap.Logger
}

func NewAnalyticsService(repo EventRepository, venues VenueAccess, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		repo:   repo,
		venues: venues,
		now:    time.Now,
		logger: logger,
	}
}

func (s *AnalyticsService) Record(ctx context.Context, slug string, kind analytics.Kind) (*analytics.Event, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown event kind %q: %w", kind, xerrors.ErrInvalidInput)
	}

	v, _, err := s.venues.Resolve(ctx, slug)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate event id: %w", err)
	}

	e := &analytics.Event{
		ID:        id.String(),
		VenueID:   v.ID,
		Kind:      kind,
		CreatedAt: now,
	}
	if err := s.repo.Record(ctx, e); err != nil {
		s.logger.Error("failed to record event",
			zap.String("venue_id", v.ID.String()),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to record event: %w", err)
	}
	return e, nil
}

// Stats counts events per kind over the last days. Every kind is present in
// the result, zero when nothing was recorded.
func (s *AnalyticsService) Stats(ctx context.Context, venueID uuid.UUID, actor auth.Actor, days int) (*analytics.Stats, error) {
	if days <= 0 {
		days = defaultStatsDays
	}
	if days > 365 {
		return nil, fmt.Errorf("stats window is limited to 365 days: %w", xerrors.ErrInvalidInput)
	}

	v, err := s.venues.Manage(ctx, venueID, actor)
	if err != nil {
		return nil, err
	}

	to := s.now().UTC()
	from := to.AddDate(0, 0, -days)
	counts, err := s.repo.CountByKind(ctx, v.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate events: %w", err)
	}

	stats := &analytics.Stats{
		VenueID: v.ID,
		From:    from,
		To:      to,
		Counts:  make(map[analytics.Kind]int64, len(analytics.Kinds())),
	}
	for _, k := range analytics.Kinds() {
		stats.Counts[k] = counts[k]
		stats.Total += counts[k]
	}
	return stats, nil
}
