// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

/*
Postgres implementation of the catalog storage layer.

# Schema Table Mapping
  - catalog.product: Seller-owned listings.
*/

package product

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phamquangminh/shoply/internal/platform/apperr"
	"github.com/phamquangminh/shoply/internal/platform/database/schema"
	"github.com/phamquangminh/shoply/internal/platform/dberr"
	"github.com/phamquangminh/shoply/pkg/pagination"
)

// PostgresProductRepository implements [ProductRepository] using pgx.
type PostgresProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new Postgres implementation for the catalog.
func NewProductRepository(pool *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{pool: pool}
}

/*
Create persists a new listing into the catalog.product table.

Parameters:
  - context: context.Context
  - product: *Product

Returns:
  - error: apperr.Conflict on a duplicate slug, or connectivity errors
*/
func (repository *PostgresProductRepository) Create(context context.Context, product *Product) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		schema.CatalogProduct.Table,
		schema.CatalogProduct.ID, schema.CatalogProduct.OwnerID, schema.CatalogProduct.Title,
		schema.CatalogProduct.Slug, schema.CatalogProduct.Description, schema.CatalogProduct.Price,
		schema.CatalogProduct.Stock, schema.CatalogProduct.Image,
		schema.CatalogProduct.CreatedAt, schema.CatalogProduct.UpdatedAt,
	)

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		product.ID,
		product.OwnerID,
		product.Title,
		product.Slug,
		product.Description,
		product.Price,
		product.Stock,
		product.Image,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return dberr.Wrap(err, "Product")
		}
		return fmt.Errorf("postgres_product_repo_create_failed: %w", err)
	}

	return nil
}

/*
GetByID retrieves one listing by primary key.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Product: Hydrated listing
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresProductRepository) GetByID(context context.Context, id string) (*Product, error) {
	query := fmt.Sprintf(`%s WHERE %s = $1`, selectProductQuery(), schema.CatalogProduct.ID)

	product := &Product{}
	err := repository.pool.QueryRow(context, query, id).Scan(scanTargets(product)...)
	if err != nil {
		return nil, dberr.Wrap(err, "Product")
	}
	return product, nil
}

/*
GetByIDs retrieves all listings matching the given IDs.

Description: Used for wishlist hydration. References that no longer resolve
are skipped silently, so the result may be shorter than the input.

Parameters:
  - context: context.Context
  - ids: []string

Returns:
  - []Product: Matching listings in creation order
  - error: Database execution failures
*/
func (repository *PostgresProductRepository) GetByIDs(context context.Context, ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	query := fmt.Sprintf(`%s WHERE %s = ANY($1) ORDER BY %s`,
		selectProductQuery(), schema.CatalogProduct.ID, schema.CatalogProduct.CreatedAt)

	rows, err := repository.pool.Query(context, query, ids)
	if err != nil {
		return nil, fmt.Errorf("postgres_product_repo_get_by_ids_failed: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

/*
List returns one page of listings ordered by creation time, newest first.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []Product: Page of listings
  - int: Total listing count
  - error: Database execution failures
*/
func (repository *PostgresProductRepository) List(context context.Context, params pagination.Params) ([]Product, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.CatalogProduct.Table)

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_product_repo_count_failed: %w", err)
	}

	query := fmt.Sprintf(`%s ORDER BY %s DESC LIMIT $1 OFFSET $2`,
		selectProductQuery(), schema.CatalogProduct.CreatedAt)

	rows, err := repository.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_product_repo_list_failed: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	return products, total, err
}

/*
ListByOwner returns one page of a single seller's listings.

Parameters:
  - context: context.Context
  - ownerID: string
  - params: pagination.Params

Returns:
  - []Product: Page of listings
  - int: The seller's total listing count
  - error: Database execution failures
*/
func (repository *PostgresProductRepository) ListByOwner(context context.Context, ownerID string, params pagination.Params) ([]Product, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.CatalogProduct.Table, schema.CatalogProduct.OwnerID)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_product_repo_owner_count_failed: %w", err)
	}

	query := fmt.Sprintf(`%s WHERE %s = $1 ORDER BY %s DESC LIMIT $2 OFFSET $3`,
		selectProductQuery(), schema.CatalogProduct.OwnerID, schema.CatalogProduct.CreatedAt)

	rows, err := repository.pool.Query(context, query, ownerID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_product_repo_owner_list_failed: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	return products, total, err
}

/*
Update modifies the mutable fields of a listing.

Parameters:
  - context: context.Context
  - product: *Product

Returns:
  - error: apperr.NotFound, apperr.Conflict on a slug collision, or update failures
*/
func (repository *PostgresProductRepository) Update(context context.Context, product *Product) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8
		WHERE %s = $1`,
		schema.CatalogProduct.Table,
		schema.CatalogProduct.Title, schema.CatalogProduct.Slug, schema.CatalogProduct.Description,
		schema.CatalogProduct.Price, schema.CatalogProduct.Stock, schema.CatalogProduct.Image,
		schema.CatalogProduct.UpdatedAt,
		schema.CatalogProduct.ID,
	)

	tag, err := repository.pool.Exec(context, query,
		product.ID,
		product.Title,
		product.Slug,
		product.Description,
		product.Price,
		product.Stock,
		product.Image,
		time.Now(),
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return dberr.Wrap(err, "Product")
		}
		return fmt.Errorf("postgres_product_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Product")
	}

	return nil
}

/*
Delete permanently removes a listing row.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound when no such listing, or execution failures
*/
func (repository *PostgresProductRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CatalogProduct.Table, schema.CatalogProduct.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_product_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Product")
	}
	return nil
}

// # Query Helpers

// selectProductQuery builds the canonical SELECT clause for hydrating a Product.
func selectProductQuery() string {
	return fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s`,
		schema.CatalogProduct.ID, schema.CatalogProduct.OwnerID, schema.CatalogProduct.Title,
		schema.CatalogProduct.Slug, schema.CatalogProduct.Description, schema.CatalogProduct.Price,
		schema.CatalogProduct.Stock, schema.CatalogProduct.Image,
		schema.CatalogProduct.CreatedAt, schema.CatalogProduct.UpdatedAt,
		schema.CatalogProduct.Table,
	)
}

// scanTargets returns Scan destinations in selectProductQuery column order.
func scanTargets(product *Product) []any {
	return []any{
		&product.ID,
		&product.OwnerID,
		&product.Title,
		&product.Slug,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.Image,
		&product.CreatedAt,
		&product.UpdatedAt,
	}
}

// collectProducts drains rows into a slice.
func collectProducts(rows pgx.Rows) ([]Product, error) {
	var products []Product
	for rows.Next() {
		var product Product
		if err := rows.Scan(scanTargets(&product)...); err != nil {
			return nil, fmt.Errorf("postgres_product_repo_scan_failed: %w", err)
		}
		products = append(products, product)
	}
	if products == nil {
		products = []Product{}
	}
	return products, rows.Err()
}
