// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

/*
Postgres implementation of the identity storage layer.

# Architecture

The repository is strictly separated from domain logic: it implements
[UserRepository] using the [pgxpool.Pool] connection manager, and maps
storage-specific errors (pgx.ErrNoRows, unique violations) to domain-friendly
[apperr.AppError] values so callers never see driver details.

# Session Slot Semantics

The refreshtoken column is the single session slot. SwapSessionToken performs
the compare-and-set in one UPDATE statement, letting Postgres row locking
decide the winner when two refresh requests race.
*/

package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phamquangminh/shoply/internal/platform/apperr"
	"github.com/phamquangminh/shoply/internal/platform/database/schema"
	"github.com/phamquangminh/shoply/internal/platform/dberr"
	"github.com/phamquangminh/shoply/internal/platform/sec"
	"github.com/phamquangminh/shoply/pkg/pagination"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: Initializes timestamps if not provided. A duplicate email is
reported as a Conflict so the handler can return 409.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate email, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Name, schema.UserAccount.Email,
		schema.UserAccount.Password, schema.UserAccount.Image, schema.UserAccount.Role,
		schema.UserAccount.Status, schema.UserAccount.RefreshToken, schema.UserAccount.Wishlist,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.Wishlist == nil {
		user.Wishlist = []string{}
	}

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Image,
		user.Role,
		user.Status,
		user.RefreshToken,
		user.Wishlist,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return dberr.Wrap(err, "User")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
GetByID retrieves a user record by primary key.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *User: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresUserRepository) GetByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`%s WHERE %s = $1`, selectUserQuery(), schema.UserAccount.ID)

	user, err := repository.scanUser(context, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}

/*
GetByEmail retrieves a user record by its unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresUserRepository) GetByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`%s WHERE %s = $1`, selectUserQuery(), schema.UserAccount.Email)

	user, err := repository.scanUser(context, query, email)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}

/*
List returns one page of accounts ordered by creation time, newest first,
plus the total account count for pagination metadata.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []User: Page of accounts
  - int: Total number of accounts
  - error: Database execution failures
*/
func (repository *PostgresUserRepository) List(context context.Context, params pagination.Params) ([]User, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.UserAccount.Table)

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_count_failed: %w", err)
	}

	query := fmt.Sprintf(`%s ORDER BY %s DESC LIMIT $1 OFFSET $2`,
		selectUserQuery(), schema.UserAccount.CreatedAt)

	rows, err := repository.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Image,
			&user.Role, &user.Status, &user.RefreshToken, &user.Wishlist,
			&user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_user_repo_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	return users, total, rows.Err()
}

/*
UpdateProfile modifies the mutable profile fields of a user.

Description: Syncs the Name, Email, and Image columns while refreshing the
updatedat timestamp. The session slot and role columns are never touched here.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: apperr.Conflict on an email collision, or update failures
*/
func (repository *PostgresUserRepository) UpdateProfile(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Name, schema.UserAccount.Email, schema.UserAccount.Image,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.Name,
		user.Email,
		user.Image,
		time.Now(),
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return dberr.Wrap(err, "User")
		}
		return fmt.Errorf("postgres_user_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
UpdateRole sets the account role.

Parameters:
  - context: context.Context
  - id: string
  - role: sec.UserRole

Returns:
  - error: apperr.NotFound when no such account, or update failures
*/
func (repository *PostgresUserRepository) UpdateRole(context context.Context, id string, role sec.UserRole) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Role, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, id, role)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_role_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

/*
Delete permanently removes an account row.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound when no such account, or execution failures
*/
func (repository *PostgresUserRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

// # Session Slot

/*
SetSessionToken unconditionally overwrites the refresh-token slot.

Description: Login semantics. Whatever token was in the slot before is dead
the moment this commits.

Parameters:
  - context: context.Context
  - id: string
  - token: string (New slot content)

Returns:
  - error: apperr.NotFound when no such account, or update failures
*/
func (repository *PostgresUserRepository) SetSessionToken(context context.Context, id, token string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.RefreshToken, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, id, token)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_session_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

/*
SwapSessionToken atomically replaces the slot only if it still holds old.

Description: The compare and the write happen in a single UPDATE so that when
two rotation attempts race on the same token, exactly one observes the match
and wins. The loser sees zero rows affected.

Parameters:
  - context: context.Context
  - id: string
  - old: string (Expected current slot content)
  - new: string (Replacement token)

Returns:
  - bool: true when the swap happened, false when the compare failed
  - error: Update failures
*/
func (repository *PostgresUserRepository) SwapSessionToken(context context.Context, id, old, new string) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $3, %s = NOW()
		WHERE %s = $1 AND %s = $2`,
		schema.UserAccount.Table, schema.UserAccount.RefreshToken, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.RefreshToken)

	tag, err := repository.pool.Exec(context, query, id, old, new)
	if err != nil {
		return false, fmt.Errorf("postgres_user_repo_swap_session_failed: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

/*
ClearSessionToken empties the slot, ending the session.

Description: Logout semantics. Idempotent: clearing an already empty slot
succeeds.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Update failures
*/
func (repository *PostgresUserRepository) ClearSessionToken(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = '', %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.RefreshToken, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID)

	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_clear_session_failed: %w", err)
	}
	return nil
}

// # Wishlist

/*
AddWishlistItem appends a product reference to the wishlist if absent.

Description: Uses array_append guarded by a containment check so repeated adds
of the same product stay idempotent.

Parameters:
  - context: context.Context
  - id: string
  - productID: string

Returns:
  - error: apperr.NotFound when no such account, or update failures
*/
func (repository *PostgresUserRepository) AddWishlistItem(context context.Context, id, productID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = array_append(%s, $2), %s = NOW()
		WHERE %s = $1 AND NOT (%s @> ARRAY[$2::text])`,
		schema.UserAccount.Table,
		schema.UserAccount.Wishlist, schema.UserAccount.Wishlist, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.Wishlist)

	tag, err := repository.pool.Exec(context, query, id, productID)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_wishlist_add_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the user is missing or the item is already present. Confirm
		// the account exists so a true NotFound is not silently swallowed.
		if _, err := repository.GetByID(context, id); err != nil {
			return err
		}
	}
	return nil
}

/*
RemoveWishlistItem removes a product reference from the wishlist if present.

Parameters:
  - context: context.Context
  - id: string
  - productID: string

Returns:
  - error: apperr.NotFound when no such account, or update failures
*/
func (repository *PostgresUserRepository) RemoveWishlistItem(context context.Context, id, productID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = array_remove(%s, $2), %s = NOW()
		WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Wishlist, schema.UserAccount.Wishlist, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, id, productID)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_wishlist_remove_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

// # Query Helpers

// selectUserQuery builds the canonical SELECT clause for hydrating a User.
func selectUserQuery() string {
	return fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s`,
		schema.UserAccount.ID, schema.UserAccount.Name, schema.UserAccount.Email,
		schema.UserAccount.Password, schema.UserAccount.Image, schema.UserAccount.Role,
		schema.UserAccount.Status, schema.UserAccount.RefreshToken, schema.UserAccount.Wishlist,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.Table,
	)
}

// scanUser runs a single-row query and hydrates the entity.
func (repository *PostgresUserRepository) scanUser(context context.Context, query string, arg any) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(context, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Image,
		&user.Role,
		&user.Status,
		&user.RefreshToken,
		&user.Wishlist,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
