// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

/*
Package auth implements the user identity and session management layer.

It defines the core account entity and the logic for registration, login,
refresh-token rotation, and logout.

# Architecture

Accounts live in PostgreSQL; refresh-token sessions are opaque random tokens
stored in Redis as SHA-256 digests with a 30 day TTL. Access tokens are
short-lived RS256 JWTs carrying the principal so request handling never has
to touch the database for identity.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered member of the Novelshelf platform.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Nickname     string    `json:"nickname"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	IsAdmin      bool      `json:"is_admin"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail        = "email"
	FieldNickname     = "nickname"
	FieldPassword     = "password"
	FieldRefreshToken = "refresh_token"
	FieldAccessToken  = "access_token"
	FieldTokenType    = "token_type"
	FieldExpiresIn    = "expires_in"
	FieldUser         = "user"
	FieldMessage      = "message"
)
