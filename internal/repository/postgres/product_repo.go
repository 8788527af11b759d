// internal/repository/postgres/product_repo.go
package postgres

import (
	"context"
	"fmt"

	"directory-service/internal/domain/product"
	xerrors "directory-service/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	db        *pgxpool.Pool
	dbWrapper *DB
}

func NewProductRepository(db *pgxpool.Pool, dbWrapper *DB) *ProductRepository {
	return &ProductRepository{db: db, dbWrapper: dbWrapper}
}

const productColumns = `id, venue_id, name, price, image_url, position, created_at`

func (r *ProductRepository) scanProductRow(scanner rowScanner) (*product.Product, error) {
	var p product.Product
	var nameJSON []byte

	if err := scanner.Scan(&p.ID, &p.VenueID, &nameJSON, &p.Price, &p.ImageURL, &p.Position, &p.CreatedAt); err != nil {
		return nil, err
	}
	if err := decodeText(nameJSON, &p.Name); err != nil {
		return nil, fmt.Errorf("failed to decode product name: %w", err)
	}
	return &p, nil
}

// CreateWithinLimit inserts p unless the venue already has limit products.
// The venue row is locked so concurrent inserts cannot overshoot.
func (r *ProductRepository) CreateWithinLimit(ctx context.Context, p *product.Product, limit int) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	nameJSON, err := textJSON(p.Name)
	if err != nil {
		return fmt.Errorf("failed to marshal name: %w", err)
	}

	return r.dbWrapper.WithTx(ctx, func(tx pgx.Tx) error {
		var locked uuid.UUID
		if err := tx.QueryRow(ctx, `SELECT id FROM venues WHERE id = $1 FOR UPDATE`, p.VenueID).Scan(&locked); err != nil {
			if isNoRows(err) {
				return xerrors.ErrNotFound
			}
			return fmt.Errorf("failed to lock venue: %w", err)
		}

		var count, maxPos int
		err := tx.QueryRow(ctx,
			`SELECT COUNT(*), COALESCE(MAX(position), -1) FROM products WHERE venue_id = $1`, p.VenueID,
		).Scan(&count, &maxPos)
		if err != nil {
			return fmt.Errorf("failed to count products: %w", err)
		}
		if count >= limit {
			return product.ErrPlanLimitReached
		}
		if p.Position < 0 {
			p.Position = maxPos + 1
		}

		query := `
			INSERT INTO products (id, venue_id, name, price, image_url, position)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at
		`
		if err := tx.QueryRow(ctx, query, p.ID, p.VenueID, nameJSON, p.Price, p.ImageURL, p.Position).Scan(&p.CreatedAt); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return nil
	})
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	p, err := r.scanProductRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// ListByVenue returns products ordered by position. A limit of zero returns all.
func (r *ProductRepository) ListByVenue(ctx context.Context, venueID uuid.UUID, limit int) ([]product.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE venue_id = $1 ORDER BY position ASC, created_at ASC`, productColumns)
	args := []interface{}{venueID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []product.Product{}
	for rows.Next() {
		p, err := r.scanProductRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
