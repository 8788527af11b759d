// internal/repository/postgres/job_repo.go
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"directory-service/internal/domain/job"
	xerrors "directory-service/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type JobRepository struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) *JobRepository {
	return &JobRepository{db: db}
}

const jobColumns = `id, venue_id, title, description, city_id, employment, contact_email, posted_by, expires_at, created_at`

func (r *JobRepository) scanJobRow(scanner rowScanner) (*job.Job, error) {
	var j job.Job
	var titleJSON, descJSON []byte

	err := scanner.Scan(
		&j.ID, &j.VenueID, &titleJSON, &descJSON, &j.CityID, &j.Employment,
		&j.ContactEmail, &j.PostedBy, &j.ExpiresAt, &j.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeText(titleJSON, &j.Title); err != nil {
		return nil, fmt.Errorf("failed to decode job title: %w", err)
	}
	if err := decodeText(descJSON, &j.Description); err != nil {
		return nil, fmt.Errorf("failed to decode job description: %w", err)
	}
	return &j, nil
}

func (r *JobRepository) Create(ctx context.Context, j *job.Job) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	titleJSON, err := textJSON(j.Title)
	if err != nil {
		return fmt.Errorf("failed to marshal title: %w", err)
	}
	descJSON, err := textJSON(j.Description)
	if err != nil {
		return fmt.Errorf("failed to marshal description: %w", err)
	}

	query := `
		INSERT INTO jobs (id, venue_id, title, description, city_id, employment, contact_email, posted_by, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	err = r.db.QueryRow(ctx, query,
		j.ID, j.VenueID, titleJSON, descJSON, j.CityID, j.Employment, j.ContactEmail, j.PostedBy, j.ExpiresAt,
	).Scan(&j.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE id = $1`, jobColumns)

	j, err := r.scanJobRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// ListOpen returns jobs that have not expired at now, newest first.
func (r *JobRepository) ListOpen(ctx context.Context, filters *job.JobListFilters, now time.Time) ([]job.Job, int64, error) {
	conditions := []string{"expires_at > $1"}
	args := []interface{}{now}
	argPos := 2

	if filters.CityID != nil {
		conditions = append(conditions, fmt.Sprintf("city_id = $%d", argPos))
		args = append(args, *filters.CityID)
		argPos++
	}

	if filters.Employment != "" {
		conditions = append(conditions, fmt.Sprintf("employment = $%d", argPos))
		args = append(args, filters.Employment)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM jobs WHERE %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	_, pageSize, offset := pageBounds(filters.Page, filters.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		jobColumns, whereClause, argPos, argPos+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []job.Job{}
	for rows.Next() {
		j, err := r.scanJobRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, total, rows.Err()
}

func (r *JobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
