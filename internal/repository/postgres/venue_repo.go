// internal/repository/postgres/venue_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"directory-service/internal/domain/plan"
	"directory-service/internal/domain/schedule"
	"directory-service/internal/domain/venue"
	xerrors "directory-service/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VenueRepository struct {
	db *pgxpool.Pool
}

func NewVenueRepository(db *pgxpool.Pool) *VenueRepository {
	return &VenueRepository{db: db}
}

const venueColumns = `
	id, slug, name, description, category, region_id, city_id, address, latitude, longitude,
	phone, whatsapp, website, instagram, facebook, subscription_plan,
	schedule, open_time, close_time, gallery, tags, owner_id, status, created_at, updated_at`

// planRankSQL ranks stored plan values the same way plan.Key.Rank does.
// Values outside the catalog rank with free.
func planRankSQL() string {
	var b strings.Builder
	b.WriteString("CASE lower(trim(subscription_plan))")
	for _, k := range plan.Keys() {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", k, k.Rank())
	}
	fmt.Fprintf(&b, " ELSE %d END", plan.Free.Rank())
	return b.String()
}

func (r *VenueRepository) scanVenueRow(scanner rowScanner) (*venue.Venue, error) {
	var v venue.Venue
	var nameJSON, descJSON, scheduleJSON []byte
	var gallery, tags []string

	err := scanner.Scan(
		&v.ID, &v.Slug, &nameJSON, &descJSON, &v.Category, &v.RegionID, &v.CityID, &v.Address,
		&v.Latitude, &v.Longitude, &v.Phone, &v.WhatsApp, &v.Website, &v.Instagram, &v.Facebook,
		&v.SubscriptionPlan, &scheduleJSON, &v.OpenTime, &v.CloseTime,
		&gallery, &tags, &v.OwnerID, &v.Status, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := decodeText(nameJSON, &v.Name); err != nil {
		return nil, fmt.Errorf("failed to decode venue name: %w", err)
	}
	if err := decodeText(descJSON, &v.Description); err != nil {
		return nil, fmt.Errorf("failed to decode venue description: %w", err)
	}
	if len(scheduleJSON) > 0 {
		var ws schedule.WeeklySchedule
		if err := json.Unmarshal(scheduleJSON, &ws); err != nil {
			return nil, fmt.Errorf("failed to decode venue schedule: %w", err)
		}
		v.Schedule = ws
	}

	v.Gallery = nonNilStrings(gallery)
	v.Tags = nonNilStrings(tags)
	return &v, nil
}

// nonNilStrings keeps text[] columns at '{}' instead of NULL.
func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func venueWriteArgs(v *venue.Venue) ([]interface{}, error) {
	nameJSON, err := textJSON(v.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal name: %w", err)
	}
	descJSON, err := textJSON(v.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal description: %w", err)
	}
	var scheduleJSON []byte
	if v.Schedule != nil {
		scheduleJSON, err = json.Marshal(v.Schedule)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal schedule: %w", err)
		}
	}
	return []interface{}{
		v.Slug, nameJSON, descJSON, v.Category, v.RegionID, v.CityID, v.Address, v.Latitude, v.Longitude,
		v.Phone, v.WhatsApp, v.Website, v.Instagram, v.Facebook, v.SubscriptionPlan,
		scheduleJSON, v.OpenTime, v.CloseTime, nonNilStrings(v.Gallery), nonNilStrings(v.Tags),
		v.OwnerID, v.Status,
	}, nil
}

// Create inserts a venue. A duplicate slug returns xerrors.ErrDuplicateEntry.
func (r *VenueRepository) Create(ctx context.Context, v *venue.Venue) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	args, err := venueWriteArgs(v)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO venues (
			slug, name, description, category, region_id, city_id, address, latitude, longitude,
			phone, whatsapp, website, instagram, facebook, subscription_plan,
			schedule, open_time, close_time, gallery, tags, owner_id, status, id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING created_at, updated_at
	`
	args = append(args, v.ID)
	if err := r.db.QueryRow(ctx, query, args...).Scan(&v.CreatedAt, &v.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return xerrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create venue: %w", err)
	}
	return nil
}

func (r *VenueRepository) Update(ctx context.Context, v *venue.Venue) error {
	args, err := venueWriteArgs(v)
	if err != nil {
		return err
	}

	query := `
		UPDATE venues
		SET slug = $1, name = $2, description = $3, category = $4, region_id = $5, city_id = $6,
		    address = $7, latitude = $8, longitude = $9, phone = $10, whatsapp = $11, website = $12,
		    instagram = $13, facebook = $14, subscription_plan = $15, schedule = $16,
		    open_time = $17, close_time = $18, gallery = $19, tags = $20, owner_id = $21, status = $22,
		    updated_at = $23
		WHERE id = $24
		RETURNING updated_at
	`
	args = append(args, time.Now(), v.ID)
	if err := r.db.QueryRow(ctx, query, args...).Scan(&v.UpdatedAt); err != nil {
		if isNoRows(err) {
			return xerrors.ErrNotFound
		}
		if isUniqueViolation(err) {
			return xerrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to update venue: %w", err)
	}
	return nil
}

func (r *VenueRepository) UpdatePlan(ctx context.Context, id uuid.UUID, key plan.Key) error {
	query := `UPDATE venues SET subscription_plan = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(ctx, query, string(key), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *VenueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM venues WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete venue: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *VenueRepository) GetByID(ctx context.Context, id uuid.UUID) (*venue.Venue, error) {
	query := fmt.Sprintf(`SELECT %s FROM venues WHERE id = $1`, venueColumns)

	v, err := r.scanVenueRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	return v, nil
}

func (r *VenueRepository) GetBySlug(ctx context.Context, slug string) (*venue.Venue, error) {
	query := fmt.Sprintf(`SELECT %s FROM venues WHERE slug = $1`, venueColumns)

	v, err := r.scanVenueRow(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if isNoRows(err) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get venue by slug: %w", err)
	}
	return v, nil
}

// List returns active venues ordered premium first, then by slug. A limit of
// zero returns every match.
func (r *VenueRepository) List(ctx context.Context, filters *venue.VenueListFilters, limit, offset int) ([]venue.Venue, int64, error) {
	conditions := []string{"status = 'active'"}
	args := []interface{}{}
	argPos := 1

	if filters.RegionID != nil {
		conditions = append(conditions, fmt.Sprintf("region_id = $%d", argPos))
		args = append(args, *filters.RegionID)
		argPos++
	}

	if filters.CityID != nil {
		conditions = append(conditions, fmt.Sprintf("city_id = $%d", argPos))
		args = append(args, *filters.CityID)
		argPos++
	}

	if filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argPos))
		args = append(args, filters.Category)
		argPos++
	}

	if len(filters.Tags) > 0 {
		conditions = append(conditions, fmt.Sprintf("tags && $%d", argPos))
		args = append(args, filters.Tags)
		argPos++
	}

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name::text ILIKE $%d OR description::text ILIKE $%d OR $%d = ANY(tags))",
			argPos, argPos, argPos+1,
		))
		args = append(args, "%"+filters.Search+"%", strings.ToLower(filters.Search))
		argPos += 2
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM venues WHERE %s", whereClause)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count venues: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM venues WHERE %s ORDER BY %s DESC, slug ASC`,
		venueColumns, whereClause, planRankSQL())
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
		args = append(args, limit, offset)
	}

	venues, err := r.queryVenues(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list venues: %w", err)
	}
	return venues, total, nil
}

// ListByPlans returns active venues whose plan is one of keys.
func (r *VenueRepository) ListByPlans(ctx context.Context, keys []plan.Key, limit int) ([]venue.Venue, error) {
	raw := make([]string, len(keys))
	for i, k := range keys {
		raw[i] = string(k)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM venues
		WHERE status = 'active' AND lower(trim(subscription_plan)) = ANY($1)
		ORDER BY updated_at DESC
		LIMIT $2`, venueColumns)

	venues, err := r.queryVenues(ctx, query, raw, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues by plan: %w", err)
	}
	return venues, nil
}

const listAllBatch = 500

// ListAll streams every venue, hidden ones included, in batches.
func (r *VenueRepository) ListAll(ctx context.Context, fn func(v *venue.Venue) error) error {
	query := fmt.Sprintf(`SELECT %s FROM venues WHERE id > $1 ORDER BY id LIMIT $2`, venueColumns)
	return walkVenueBatches(listAllBatch, func(after uuid.UUID, limit int) ([]venue.Venue, error) {
		return r.queryVenues(ctx, query, after, limit)
	}, fn)
}

// walkVenueBatches pages by id until a short batch comes back.
func walkVenueBatches(
	size int,
	fetch func(after uuid.UUID, limit int) ([]venue.Venue, error),
	fn func(v *venue.Venue) error,
) error {
	var after uuid.UUID
	for {
		venues, err := fetch(after, size)
		if err != nil {
			return fmt.Errorf("failed to scan venues: %w", err)
		}
		for i := range venues {
			if err := fn(&venues[i]); err != nil {
				return err
			}
		}
		if len(venues) < size {
			return nil
		}
		after = venues[len(venues)-1].ID
	}
}

func (r *VenueRepository) queryVenues(ctx context.Context, query string, args ...interface{}) ([]venue.Venue, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	venues := []venue.Venue{}
	for rows.Next() {
		v, err := r.scanVenueRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan venue row: %w", err)
		}
		venues = append(venues, *v)
	}
	return venues, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
