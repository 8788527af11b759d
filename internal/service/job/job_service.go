// internal/service/job/job_service.go
package job

import (
	"context"
	"fmt"
	"time"

	"directory-service/internal/domain/auth"
	"directory-service/internal/domain/job"
	xerrors "directory-service/internal/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultListingPeriod = 30 * 24 * time.Hour
	maxListingPeriod     = 180 * 24 * time.Hour
)

type JobRepository interface {
	Create(ctx context.Context, j *job.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error)
	ListOpen(ctx context.Context, filters *job.JobListFilters, now time.Time) ([]job.Job, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type JobService struct {
	repo   JobRepository
	now    func() time.Time
	logger *zap.Logger
}

func NewJobService(repo JobRepository, logger *zap.Logger) *JobService {
	return &JobService{
		repo:   repo,
		now:    time.Now,
		logger: logger,
	}
}

// List returns open postings only. Expired ones stay in storage until removed.
func (s *JobService) List(ctx context.Context, filters *job.JobListFilters) (*job.JobListResponse, error) {
	if filters.Employment != "" && !job.Employment(filters.Employment).Valid() {
		return nil, fmt.Errorf("unknown employment type %q: %w", filters.Employment, xerrors.ErrInvalidInput)
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}

	jobs, total, err := s.repo.ListOpen(ctx, filters, s.now())
	if err != nil {
		s.logger.Error("failed to list jobs", zap.Error(err))
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &job.JobListResponse{
		Jobs:       jobs,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *JobService) Create(ctx context.Context, actor auth.Actor, req *job.CreateJobRequest) (*job.Job, error) {
	if req.Title.IsZero() {
		return nil, fmt.Errorf("job title is required: %w", xerrors.ErrInvalidInput)
	}
	if !req.Employment.Valid() {
		return nil, fmt.Errorf("unknown employment type %q: %w", req.Employment, xerrors.ErrInvalidInput)
	}

	now := s.now()
	expires := now.Add(defaultListingPeriod)
	if req.ExpiresAt != nil {
		expires = *req.ExpiresAt
	}
	if !expires.After(now) {
		return nil, fmt.Errorf("expiry must be in the future: %w", xerrors.ErrInvalidInput)
	}
	if expires.Sub(now) > maxListingPeriod {
		return nil, fmt.Errorf("job postings can run at most 180 days: %w", xerrors.ErrInvalidInput)
	}

	j := &job.Job{
		ID:           uuid.New(),
		VenueID:      req.VenueID,
		Title:        req.Title,
		Description:  req.Description,
		CityID:       req.CityID,
		Employment:   req.Employment,
		ContactEmail: req.ContactEmail,
		PostedBy:     actor.Subject,
		ExpiresAt:    expires,
		CreatedAt:    now,
	}
	if err := s.repo.Create(ctx, j); err != nil {
		s.logger.Error("failed to create job", zap.String("posted_by", actor.Subject), zap.Error(err))
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.logger.Info("job posted",
		zap.String("job_id", j.ID.String()),
		zap.String("posted_by", actor.Subject),
		zap.Time("expires_at", expires),
	)
	return j, nil
}

// Delete is allowed for admins and for the account that posted the job.
func (s *JobService) Delete(ctx context.Context, id uuid.UUID, actor auth.Actor) error {
	j, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && j.PostedBy != actor.Subject {
		return fmt.Errorf("job belongs to another recruiter: %w", xerrors.ErrForbidden)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}
