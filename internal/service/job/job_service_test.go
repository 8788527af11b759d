package job

import (
	"context"
	"testing"
	"time"

	"directory-service/internal/domain/auth"
	"directory-service/internal/domain/i18n"
	"directory-service/internal/domain/job"
	xerrors "directory-service/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	items map[uuid.UUID]*job.Job
}

func (r *fakeRepo) Create(_ context.Context, j *job.Job) error {
	cp := *j
	r.items[j.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*job.Job, error) {
	j, ok := r.items[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return j, nil
}

func (r *fakeRepo) ListOpen(_ context.Context, filters *job.JobListFilters, now time.Time) ([]job.Job, int64, error) {
	out := []job.Job{}
	for _, j := range r.items {
		if j.ExpiredAt(now) {
			continue
		}
		if filters.CityID != nil && j.CityID != *filters.CityID {
			continue
		}
		out = append(out, *j)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

var (
	start     = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	recruiter = auth.Actor{Subject: "rec-1", Roles: []string{auth.RoleRecruiter}}
)

func setup() (*JobService, *fakeRepo) {
	repo := &fakeRepo{items: map[uuid.UUID]*job.Job{}}
	svc := NewJobService(repo, zap.NewNop())
	svc.now = func() time.Time { return start }
	return svc, repo
}

func request() *job.CreateJobRequest {
	return &job.CreateJobRequest{
		Title:        i18n.Plain("Barista"),
		CityID:       7,
		Employment:   job.EmploymentPartTime,
		ContactEmail: "jobs@example.com",
	}
}

func TestCreateDefaultsExpiry(t *testing.T) {
	svc, _ := setup()

	j, err := svc.Create(context.Background(), recruiter, request())
	require.NoError(t, err)
	assert.Equal(t, start.Add(30*24*time.Hour), j.ExpiresAt)
	assert.Equal(t, "rec-1", j.PostedBy)
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc, _ := setup()

	past := start.Add(-time.Minute)
	req := request()
	req.ExpiresAt = &past
	_, err := svc.Create(context.Background(), recruiter, req)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	far := start.Add(365 * 24 * time.Hour)
	req = request()
	req.ExpiresAt = &far
	_, err = svc.Create(context.Background(), recruiter, req)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	req = request()
	req.Employment = "gig"
	_, err = svc.Create(context.Background(), recruiter, req)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	req = request()
	req.Title = i18n.Text{}
	_, err = svc.Create(context.Background(), recruiter, req)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestListHidesExpired(t *testing.T) {
	svc, repo := setup()

	_, err := svc.Create(context.Background(), recruiter, request())
	require.NoError(t, err)
	old := &job.Job{ID: uuid.New(), CityID: 7, ExpiresAt: start}
	repo.items[old.ID] = old

	res, err := svc.List(context.Background(), &job.JobListFilters{PageSize: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Total)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 1, res.TotalPages)

	_, err = svc.List(context.Background(), &job.JobListFilters{Employment: "gig"})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestDeleteOwnership(t *testing.T) {
	svc, repo := setup()

	j, err := svc.Create(context.Background(), recruiter, request())
	require.NoError(t, err)

	other := auth.Actor{Subject: "rec-2", Roles: []string{auth.RoleRecruiter}}
	assert.ErrorIs(t, svc.Delete(context.Background(), j.ID, other), xerrors.ErrForbidden)

	require.NoError(t, svc.Delete(context.Background(), j.ID, recruiter))
	assert.Empty(t, repo.items)

	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New(), recruiter), xerrors.ErrNotFound)
}
