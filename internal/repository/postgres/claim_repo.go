// internal/repository/postgres/claim_repo.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"directory-service/internal/domain/claim"
	xerrors "directory-service/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClaimRepository struct {
	db        *pgxpool.Pool
	dbWrapper *DB
}

func NewClaimRepository(db *pgxpool.Pool, dbWrapper *DB) *ClaimRepository {
	return &ClaimRepository{db: db, dbWrapper: dbWrapper}
}

const claimColumns = `id, venue_id, name, email, phone, message, status, reviewed_by, created_at, reviewed_at`

func (r *ClaimRepository) scanClaimRow(scanner rowScanner) (*claim.Request, error) {
	var c claim.Request
	err := scanner.Scan(
		&c.ID, &c.VenueID, &c.Name, &c.Email, &c.Phone, &c.Message,
		&c.Status, &c.ReviewedBy, &c.CreatedAt, &c.ReviewedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClaimRepository) Create(ctx context.Context, c *claim.Request) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	query := `
		INSERT INTO claim_requests (id, venue_id, name, email, phone, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, c.ID, c.VenueID, c.Name, c.Email, c.Phone, c.Message, c.Status).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create claim request: %w", err)
	}
	return nil
}

func (r *ClaimRepository) GetByID(ctx context.Context, id uuid.UUID) (*claim.Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM claim_requests WHERE id = $1`, claimColumns)

	c, err := r.scanClaimRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get claim request: %w", err)
	}
	return c, nil
}

func (r *ClaimRepository) List(ctx context.Context, filters *claim.ClaimListFilters) ([]claim.Request, int64, error) {
	where := "TRUE"
	args := []interface{}{}
	argPos := 1
	if filters.Status != "" {
		where = "status = $1"
		args = append(args, filters.Status)
		argPos++
	}

	var total int64
	if err := r.db.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM claim_requests WHERE %s", where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count claim requests: %w", err)
	}

	_, pageSize, offset := pageBounds(filters.Page, filters.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM claim_requests WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		claimColumns, where, argPos, argPos+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list claim requests: %w", err)
	}
	defer rows.Close()

	claims := []claim.Request{}
	for rows.Next() {
		c, err := r.scanClaimRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan claim row: %w", err)
		}
		claims = append(claims, *c)
	}
	return claims, total, rows.Err()
}

// Approve marks a pending claim approved and hands the venue to ownerID in
// one transaction. A venue that already has an owner returns
// xerrors.ErrConflict and leaves the claim pending.
func (r *ClaimRepository) Approve(ctx context.Context, id uuid.UUID, reviewer, ownerID string) (*claim.Request, error) {
	var out *claim.Request
	err := r.dbWrapper.WithTx(ctx, func(tx pgx.Tx) error {
		c, err := r.review(ctx, tx, id, claim.StatusApproved, reviewer)
		if err != nil {
			return err
		}
		result, err := tx.Exec(ctx,
			`UPDATE venues SET owner_id = $1, updated_at = $2
			 WHERE id = $3 AND (owner_id IS NULL OR owner_id = '')`,
			ownerID, time.Now(), c.VenueID)
		if err != nil {
			return fmt.Errorf("failed to set venue owner: %w", err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("%w: venue already has an owner", xerrors.ErrConflict)
		}
		out = c
		return nil
	})
	return out, err
}

func (r *ClaimRepository) Reject(ctx context.Context, id uuid.UUID, reviewer string) (*claim.Request, error) {
	var out *claim.Request
	err := r.dbWrapper.WithTx(ctx, func(tx pgx.Tx) error {
		c, err := r.review(ctx, tx, id, claim.StatusRejected, reviewer)
		out = c
		return err
	})
	return out, err
}

func (r *ClaimRepository) review(ctx context.Context, tx pgx.Tx, id uuid.UUID, status claim.Status, reviewer string) (*claim.Request, error) {
	query := fmt.Sprintf(`
		UPDATE claim_requests
		SET status = $1, reviewed_by = $2, reviewed_at = $3
		WHERE id = $4 AND status = 'pending'
		RETURNING %s`, claimColumns)

	c, err := r.scanClaimRow(tx.QueryRow(ctx, query, status, reviewer, time.Now(), id))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("claim %s is not pending: %w", id, xerrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to review claim: %w", err)
	}
	return c, nil
}
