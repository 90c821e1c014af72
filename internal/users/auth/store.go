// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User (ID and timestamps populated on return)

		Returns:
		  - error: apperr.Conflict on a duplicate email or nickname
	*/
	Create(context context.Context, user *User) error
}

// # Session Data Access

// SessionRepository defines the data access contract for refresh-token sessions.
//
// Sessions are keyed by the SHA-256 digest of the opaque refresh token so a
// leaked session store cannot be replayed against the API.
type SessionRepository interface {

	/*
		Create stores a new session for an authenticated login.

		Parameters:
		  - context: context.Context
		  - tokenHash: string (SHA-256 digest of the refresh token)
		  - userID: int64
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, tokenHash string, userID int64, ttl time.Duration) error

	/*
		Resolve returns the user ID owning the session for the token hash.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - int64: Session owner
		  - error: apperr.Unauthorized if the session is absent or expired
	*/
	Resolve(context context.Context, tokenHash string) (int64, error)

	/*
		Revoke removes the session for the token hash.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - error: Persistence failures; revoking an absent session is not an error
	*/
	Revoke(context context.Context, tokenHash string) error

	/*
		RevokeAll removes every active session belonging to the user.

		Used when an account is deleted so no refresh token survives the owner.

		Parameters:
		  - context: context.Context
		  - userID: int64

		Returns:
		  - error: Persistence failures
	*/
	RevokeAll(context context.Context, userID int64) error
}
