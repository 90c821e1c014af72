// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

/*
Package account handles user profile management and account lifecycle.

It provides functionality for users to view their private identity data,
change their nickname, and delete their account.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Deletion: Soft delete flips is_active and frees the nickname for reuse;
    permanent delete physically removes the row and, through storage-level
    cascades, every annotation the account ever wrote.
*/
package account

import (
	"context"

	"github.com/seojinpark/novelshelf/internal/users/auth"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id int64) (*auth.User, error)

	/*
		UpdateNickname replaces the account's public display name.

		Parameters:
		  - context: context.Context
		  - id: int64
		  - nickname: string

		Returns:
		  - error: apperr.Conflict if the nickname is held by another active
		    account, apperr.NotFound if the account does not exist
	*/
	UpdateNickname(context context.Context, id int64, nickname string) error

	/*
		SoftDelete flags an account as logically deleted.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - error: apperr.NotFound or execution failures
	*/
	SoftDelete(context context.Context, id int64) error

	/*
		Delete physically removes the account row.

		Annotations owned by the account are removed by the storage cascade.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - error: apperr.NotFound or execution failures
	*/
	Delete(context context.Context, id int64) error
}

// SessionRevoker terminates every live session for a user. Satisfied by the
// auth session repository.
type SessionRevoker interface {
	RevokeAll(context context.Context, userID int64) error
}

// # Field Identifiers

const (
	FieldNickname = "nickname"
	FieldMessage  = "message"
)
