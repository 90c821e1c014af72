// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seojinpark/novelshelf/internal/platform/apperr"
	"github.com/seojinpark/novelshelf/internal/platform/database/schema"
	"github.com/seojinpark/novelshelf/internal/platform/dberr"
	"github.com/seojinpark/novelshelf/internal/users/auth"
)

// # PostgreSQL Account Repository

// accountRepository implements the [AccountRepository] interface using pgx.
type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository constructs a PostgreSQL backed account store.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *auth.User: Loaded account entity
  - error: apperr.NotFound or storage failures
*/
func (repository *accountRepository) FindByID(context context.Context, id int64) (*auth.User, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s WHERE %s = $1
	`,
		schema.UsersAccount.ID,
		schema.UsersAccount.Email,
		schema.UsersAccount.Nickname,
		schema.UsersAccount.PasswordHash,
		schema.UsersAccount.IsAdmin,
		schema.UsersAccount.IsActive,
		schema.UsersAccount.CreatedAt,
		schema.UsersAccount.UpdatedAt,
		schema.UsersAccount.Table,
		schema.UsersAccount.ID,
	)

	user := &auth.User{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Nickname,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return user, nil
}

/*
UpdateNickname replaces the account's public display name.

Parameters:
  - context: context.Context
  - id: int64
  - nickname: string

Returns:
  - error: apperr.Conflict on a duplicate active nickname, apperr.NotFound
    if the account does not exist
*/
func (repository *accountRepository) UpdateNickname(context context.Context, id int64, nickname string) error {

	query := fmt.Sprintf("UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2",
		schema.UsersAccount.Table,
		schema.UsersAccount.Nickname,
		schema.UsersAccount.UpdatedAt,
		schema.UsersAccount.ID,
	)

	result, err := repository.pool.Exec(context, query, nickname, id)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Nickname is already taken")
		}
		return fmt.Errorf("postgres: failed to update nickname: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
SoftDelete flags an account as logically deleted.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: apperr.NotFound or execution failures
*/
func (repository *accountRepository) SoftDelete(context context.Context, id int64) error {

	query := fmt.Sprintf("UPDATE %s SET %s = FALSE, %s = NOW() WHERE %s = $1",
		schema.UsersAccount.Table,
		schema.UsersAccount.IsActive,
		schema.UsersAccount.UpdatedAt,
		schema.UsersAccount.ID,
	)

	result, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to soft-delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
Delete physically removes the account row.

Description: Memo rows referencing the account are removed by the ON DELETE
CASCADE constraints on the annotation tables.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: apperr.NotFound or execution failures
*/
func (repository *accountRepository) Delete(context context.Context, id int64) error {

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.UsersAccount.Table, schema.UsersAccount.ID)

	result, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}
