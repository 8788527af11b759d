// internal/repository/postgres/coupon_repo.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"directory-service/internal/domain/coupon"
	xerrors "directory-service/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CouponRepository struct {
	db *pgxpool.Pool
}

func NewCouponRepository(db *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{db: db}
}

const couponColumns = `id, venue_id, title, code, discount_percent, valid_from, valid_until, active, created_at, updated_at`

func (r *CouponRepository) scanCouponRow(scanner rowScanner) (*coupon.Coupon, error) {
	var c coupon.Coupon
	var titleJSON []byte

	err := scanner.Scan(
		&c.ID, &c.VenueID, &titleJSON, &c.Code, &c.DiscountPercent,
		&c.ValidFrom, &c.ValidUntil, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeText(titleJSON, &c.Title); err != nil {
		return nil, fmt.Errorf("failed to decode coupon title: %w", err)
	}
	return &c, nil
}

func (r *CouponRepository) Create(ctx context.Context, c *coupon.Coupon) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	titleJSON, err := textJSON(c.Title)
	if err != nil {
		return fmt.Errorf("failed to marshal title: %w", err)
	}

	query := `
		INSERT INTO coupons (id, venue_id, title, code, discount_percent, valid_from, valid_until, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRow(ctx, query,
		c.ID, c.VenueID, titleJSON, c.Code, c.DiscountPercent, c.ValidFrom, c.ValidUntil, c.Active,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return xerrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}

func (r *CouponRepository) Update(ctx context.Context, c *coupon.Coupon) error {
	titleJSON, err := textJSON(c.Title)
	if err != nil {
		return fmt.Errorf("failed to marshal title: %w", err)
	}

	query := `
		UPDATE coupons
		SET title = $1, discount_percent = $2, valid_until = $3, active = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := r.db.Exec(ctx, query, titleJSON, c.DiscountPercent, c.ValidUntil, c.Active, time.Now(), c.ID)
	if err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *CouponRepository) GetByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	query := fmt.Sprintf(`SELECT %s FROM coupons WHERE id = $1`, couponColumns)

	c, err := r.scanCouponRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	return c, nil
}

// ListActive returns coupons redeemable at now, soonest expiry first.
func (r *CouponRepository) ListActive(ctx context.Context, venueID uuid.UUID, now time.Time) ([]coupon.Coupon, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM coupons
		WHERE venue_id = $1 AND active = TRUE
		  AND valid_from <= $2 AND (valid_until IS NULL OR valid_until >= $2)
		ORDER BY valid_until ASC NULLS LAST, created_at DESC`, couponColumns)

	rows, err := r.db.Query(ctx, query, venueID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	defer rows.Close()

	coupons := []coupon.Coupon{}
	for rows.Next() {
		c, err := r.scanCouponRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coupon row: %w", err)
		}
		coupons = append(coupons, *c)
	}
	return coupons, rows.Err()
}

func (r *CouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
