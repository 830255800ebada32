// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

/*
Postgres implementation of the cart storage layer.

# Schema Table Mapping
  - cart.item: One row per (user, product) pair, unique-constrained.
*/

package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phamquangminh/shoply/internal/platform/apperr"
	"github.com/phamquangminh/shoply/internal/platform/database/schema"
)

// PostgresCartRepository implements [CartRepository] using pgx.
type PostgresCartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository creates a new Postgres implementation for cart storage.
func NewCartRepository(pool *pgxpool.Pool) *PostgresCartRepository {
	return &PostgresCartRepository{pool: pool}
}

/*
Upsert adds quantity to an existing row or creates a fresh one.

Description: The (userid, productid) unique constraint drives the ON CONFLICT
clause, so two concurrent adds for the same product both land and the
quantities sum. A dangling product reference is rejected by the foreign key
and reported as NotFound.

Parameters:
  - context: context.Context
  - item: *Item (ID, UserID, ProductID, Quantity must be set)

Returns:
  - error: apperr.NotFound on an unknown product, or execution failures
*/
func (repository *PostgresCartRepository) Upsert(context context.Context, item *Item) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (%s, %s) DO UPDATE SET
			%s = %s.%s + EXCLUDED.%s,
			%s = EXCLUDED.%s`,
		schema.CartItem.Table,
		schema.CartItem.ID, schema.CartItem.UserID, schema.CartItem.ProductID,
		schema.CartItem.Quantity, schema.CartItem.CreatedAt, schema.CartItem.UpdatedAt,
		schema.CartItem.UserID, schema.CartItem.ProductID,
		schema.CartItem.Quantity, schema.CartItem.Table, schema.CartItem.Quantity, schema.CartItem.Quantity,
		schema.CartItem.UpdatedAt, schema.CartItem.UpdatedAt,
	)

	now := time.Now()
	_, err := repository.pool.Exec(context, query,
		item.ID,
		item.UserID,
		item.ProductID,
		item.Quantity,
		now,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return apperr.NotFound("Product")
		}
		return fmt.Errorf("postgres_cart_repo_upsert_failed: %w", err)
	}

	return nil
}

/*
Remove deletes the (userID, productID) row.

Parameters:
  - context: context.Context
  - userID: string
  - productID: string

Returns:
  - error: apperr.NotFound when the product is not in the cart, or execution failures
*/
func (repository *PostgresCartRepository) Remove(context context.Context, userID, productID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.CartItem.Table, schema.CartItem.UserID, schema.CartItem.ProductID)

	tag, err := repository.pool.Exec(context, query, userID, productID)
	if err != nil {
		return fmt.Errorf("postgres_cart_repo_remove_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Cart item")
	}
	return nil
}

/*
ListLines returns the user's cart joined with the catalog, oldest first.

Description: The join drops rows whose product was deleted since being
carted, so the view never shows orphaned lines.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []Line: Hydrated cart lines
  - error: Execution failures
*/
func (repository *PostgresCartRepository) ListLines(context context.Context, userID string) ([]Line, error) {
	query := fmt.Sprintf(`
		SELECT i.%s, i.%s, p.%s, p.%s, p.%s, p.%s, i.%s
		FROM %s i
		JOIN %s p ON p.%s = i.%s
		WHERE i.%s = $1
		ORDER BY i.%s`,
		schema.CartItem.ID, schema.CartItem.ProductID,
		schema.CatalogProduct.Title, schema.CatalogProduct.Slug,
		schema.CatalogProduct.Price, schema.CatalogProduct.Image,
		schema.CartItem.Quantity,
		schema.CartItem.Table,
		schema.CatalogProduct.Table, schema.CatalogProduct.ID, schema.CartItem.ProductID,
		schema.CartItem.UserID,
		schema.CartItem.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_cart_repo_list_failed: %w", err)
	}
	defer rows.Close()

	lines := []Line{}
	for rows.Next() {
		var line Line
		if err := rows.Scan(
			&line.ItemID, &line.ProductID, &line.Title, &line.Slug,
			&line.Price, &line.Image, &line.Quantity,
		); err != nil {
			return nil, fmt.Errorf("postgres_cart_repo_scan_failed: %w", err)
		}
		line.Subtotal = line.Price * float64(line.Quantity)
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

// foreignKeyViolation is the Postgres SQLSTATE for FK violations.
const foreignKeyViolation = "23503"

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}
