// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/seojinpark/novelshelf/internal/platform/apperr"
	"github.com/seojinpark/novelshelf/internal/platform/constants"
)

// # Redis Session Repository

// RedisSessionRepository implements [SessionRepository] using Redis.
//
// Layout:
//   - auth:session:{tokenHash} -> userID, expiring with the session TTL
//   - auth:user_sessions:{userID} -> set of the user's live token hashes,
//     consulted only by RevokeAll
type RedisSessionRepository struct {
	client *redis.Client
}

// NewSessionRepository creates a new Redis-backed SessionRepository.
func NewSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func sessionKey(tokenHash string) string {
	return constants.RedisPrefixSession + tokenHash
}

func userSessionsKey(userID int64) string {
	return constants.RedisPrefixUserSessions + strconv.FormatInt(userID, 10)
}

/*
Create stores a new session and indexes it under its owner.

Parameters:
  - context: context.Context
  - tokenHash: string
  - userID: int64
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisSessionRepository) Create(context context.Context, tokenHash string, userID int64, ttl time.Duration) error {

	if err := repository.client.Set(context, sessionKey(tokenHash), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}

	// The owner index outlives individual sessions; stale members are dropped
	// lazily by RevokeAll when their session key has already expired.
	pipeline := repository.client.Pipeline()
	pipeline.SAdd(context, userSessionsKey(userID), tokenHash)
	pipeline.Expire(context, userSessionsKey(userID), ttl)
	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("redis_session_index_failed: %w", err)
	}

	return nil
}

/*
Resolve returns the user ID owning the session for the token hash.

Description: Returns apperr.Unauthorized if the session is absent or expired,
keeping the message generic so token probing learns nothing.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - int64: Session owner
  - error: apperr.Unauthorized or connectivity errors
*/
func (repository *RedisSessionRepository) Resolve(context context.Context, tokenHash string) (int64, error) {

	value, err := repository.client.Get(context, sessionKey(tokenHash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, apperr.Unauthorized("Invalid or expired refresh token")
		}
		return 0, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis_session_corrupt_value: %w", err)
	}

	return userID, nil
}

/*
Revoke removes the session for the token hash.

Description: Idempotent; revoking an absent session succeeds silently.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisSessionRepository) Revoke(context context.Context, tokenHash string) error {

	// Resolve the owner first so the index entry can be cleaned alongside.
	value, err := repository.client.Get(context, sessionKey(tokenHash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("redis_session_revoke_lookup_failed: %w", err)
	}

	pipeline := repository.client.Pipeline()
	pipeline.Del(context, sessionKey(tokenHash))
	if userID, parseErr := strconv.ParseInt(value, 10, 64); parseErr == nil {
		pipeline.SRem(context, userSessionsKey(userID), tokenHash)
	}
	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("redis_session_revoke_failed: %w", err)
	}

	return nil
}

/*
RevokeAll removes every active session belonging to the user.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - error: Execution failures
*/
func (repository *RedisSessionRepository) RevokeAll(context context.Context, userID int64) error {

	tokenHashes, err := repository.client.SMembers(context, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("redis_session_revoke_all_lookup_failed: %w", err)
	}

	pipeline := repository.client.Pipeline()
	for _, tokenHash := range tokenHashes {
		pipeline.Del(context, sessionKey(tokenHash))
	}
	pipeline.Del(context, userSessionsKey(userID))
	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("redis_session_revoke_all_failed: %w", err)
	}

	return nil
}
