// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seojinpark/novelshelf/internal/platform/apperr"
	"github.com/seojinpark/novelshelf/internal/platform/database/schema"
	"github.com/seojinpark/novelshelf/internal/platform/dberr"
)

// # PostgreSQL User Repository

// userRepository implements the [UserRepository] interface using pgx.
type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a PostgreSQL backed account store.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

// userColumns is the SELECT list shared by the account lookups.
func userColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
		schema.UsersAccount.ID,
		schema.UsersAccount.Email,
		schema.UsersAccount.Nickname,
		schema.UsersAccount.PasswordHash,
		schema.UsersAccount.IsAdmin,
		schema.UsersAccount.IsActive,
		schema.UsersAccount.CreatedAt,
		schema.UsersAccount.UpdatedAt,
	)
}

// scanUser maps one account row into the destination entity.
func scanUser(user *User) []any {
	return []any{
		&user.ID,
		&user.Email,
		&user.Nickname,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	}
}

/*
FindByID returns the account with the given ID.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *User: Hydrated entity
  - error: apperr.NotFound or database retrieval failures
*/
func (repository *userRepository) FindByID(context context.Context, id int64) (*User, error) {

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		userColumns(), schema.UsersAccount.Table, schema.UsersAccount.ID)

	user := &User{}
	if err := repository.pool.QueryRow(context, query, id).Scan(scanUser(user)...); err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return user, nil
}

/*
FindByEmail returns the account with the given email.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated entity
  - error: apperr.NotFound or database retrieval failures
*/
func (repository *userRepository) FindByEmail(context context.Context, email string) (*User, error) {

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		userColumns(), schema.UsersAccount.Table, schema.UsersAccount.Email)

	user := &User{}
	if err := repository.pool.QueryRow(context, query, email).Scan(scanUser(user)...); err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return user, nil
}

/*
Create persists a brand-new user account.

Description: Maps the two uniqueness constraints onto client-safe conflicts
using the violated constraint name, so the caller learns which identity field
collided without leaking storage internals.

Parameters:
  - context: context.Context
  - user: *User (ID and timestamps populated on return)

Returns:
  - error: apperr.Conflict on a duplicate email or nickname
*/
func (repository *userRepository) Create(context context.Context, user *User) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s, %s
	`,
		schema.UsersAccount.Table,
		schema.UsersAccount.Email,
		schema.UsersAccount.Nickname,
		schema.UsersAccount.PasswordHash,
		schema.UsersAccount.IsAdmin,
		schema.UsersAccount.IsActive,
		schema.UsersAccount.ID,
		schema.UsersAccount.CreatedAt,
		schema.UsersAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.Email,
		user.Nickname,
		user.PasswordHash,
		user.IsAdmin,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			var pgError *pgconn.PgError
			if errors.As(err, &pgError) && strings.Contains(pgError.ConstraintName, "nickname") {
				return apperr.Conflict("Nickname is already taken")
			}
			return apperr.Conflict("Email is already registered")
		}
		return fmt.Errorf("postgres: failed to create user: %w", err)
	}

	return nil
}
