// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package account_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seojinpark/novelshelf/internal/platform/apperr"
	"github.com/seojinpark/novelshelf/internal/platform/sec"
	"github.com/seojinpark/novelshelf/internal/users/account"
	"github.com/seojinpark/novelshelf/internal/users/auth"
)

// # Test Fakes

type fakeAccountRepo struct {
	users map[int64]*auth.User
}

func (repo *fakeAccountRepo) FindByID(_ context.Context, id int64) (*auth.User, error) {
	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (repo *fakeAccountRepo) UpdateNickname(_ context.Context, id int64, nickname string) error {
	user, ok := repo.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	for otherID, other := range repo.users {
		if otherID != id && other.IsActive && other.Nickname == nickname {
			return apperr.Conflict("Nickname is already taken")
		}
	}
	user.Nickname = nickname
	return nil
}

func (repo *fakeAccountRepo) SoftDelete(_ context.Context, id int64) error {
	user, ok := repo.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	user.IsActive = false
	return nil
}

func (repo *fakeAccountRepo) Delete(_ context.Context, id int64) error {
	if _, ok := repo.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(repo.users, id)
	return nil
}

type fakeRevoker struct {
	revoked []int64
}

func (revoker *fakeRevoker) RevokeAll(_ context.Context, userID int64) error {
	revoker.revoked = append(revoker.revoked, userID)
	return nil
}

// # Test Setup

func newTestService(t *testing.T) (*account.Service, *fakeAccountRepo, *fakeRevoker) {
	t.Helper()

	repo := &fakeAccountRepo{users: map[int64]*auth.User{
		1: {ID: 1, Email: "reader@example.com", Nickname: "bookworm", IsActive: true},
		2: {ID: 2, Email: "other@example.com", Nickname: "nightowl", IsActive: true},
	}}
	revoker := &fakeRevoker{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return account.NewService(repo, revoker, logger), repo, revoker
}

func claimsFor(userID int64, isAdmin bool) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: userID, IsAdmin: isAdmin}
}

// # Nickname Updates

func TestUpdateNickname(t *testing.T) {
	service, _, _ := newTestService(t)

	user, err := service.UpdateNickname(context.Background(), 1, "pageturner")
	require.NoError(t, err)
	assert.Equal(t, "pageturner", user.Nickname)
}

func TestUpdateNickname_LengthBounds(t *testing.T) {
	service, _, _ := newTestService(t)

	// 1. Too short.
	_, err := service.UpdateNickname(context.Background(), 1, "a")
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)

	// 2. Too long (21 characters).
	_, err = service.UpdateNickname(context.Background(), 1, "abcdefghijklmnopqrstu")
	appError = apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
}

func TestUpdateNickname_TakenByActiveAccount(t *testing.T) {
	service, repo, _ := newTestService(t)

	// 1. An active holder blocks the rename.
	_, err := service.UpdateNickname(context.Background(), 1, "nightowl")
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "CONFLICT", appError.Code)

	// 2. A soft-deleted holder frees the nickname.
	repo.users[2].IsActive = false
	user, err := service.UpdateNickname(context.Background(), 1, "nightowl")
	require.NoError(t, err)
	assert.Equal(t, "nightowl", user.Nickname)
}

// # Account Deletion

func TestDeleteAccount_SoftByDefault(t *testing.T) {
	service, repo, revoker := newTestService(t)

	// 1. Soft deletion keeps the row but deactivates it.
	err := service.DeleteAccount(context.Background(), claimsFor(1, false), 1, false)
	require.NoError(t, err)
	require.Contains(t, repo.users, int64(1))
	assert.False(t, repo.users[1].IsActive)

	// 2. Every live session of the target was revoked.
	assert.Equal(t, []int64{1}, revoker.revoked)
}

func TestDeleteAccount_PermanentRemovesRow(t *testing.T) {
	service, repo, revoker := newTestService(t)

	err := service.DeleteAccount(context.Background(), claimsFor(1, false), 1, true)
	require.NoError(t, err)
	assert.NotContains(t, repo.users, int64(1))
	assert.Equal(t, []int64{1}, revoker.revoked)
}

func TestDeleteAccount_ForeignRequiresAdmin(t *testing.T) {
	service, repo, _ := newTestService(t)

	// 1. A regular user cannot delete someone else's account.
	err := service.DeleteAccount(context.Background(), claimsFor(1, false), 2, false)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "FORBIDDEN", appError.Code)
	assert.Contains(t, repo.users, int64(2))

	// 2. An admin can, and the removal is always physical.
	err = service.DeleteAccount(context.Background(), claimsFor(1, true), 2, false)
	require.NoError(t, err)
	assert.NotContains(t, repo.users, int64(2))
}

func TestDeleteAccount_UnknownTarget(t *testing.T) {
	service, _, revoker := newTestService(t)

	err := service.DeleteAccount(context.Background(), claimsFor(1, true), 99, true)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
	assert.Empty(t, revoker.revoked)
}
