// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package auth_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seojinpark/novelshelf/internal/platform/apperr"
	"github.com/seojinpark/novelshelf/internal/platform/sec"
	"github.com/seojinpark/novelshelf/internal/users/auth"
)

// # Test Fakes

type fakeUserRepo struct {
	users  map[int64]*auth.User
	nextID int64
}

func (repo *fakeUserRepo) FindByID(_ context.Context, id int64) (*auth.User, error) {
	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (repo *fakeUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	for _, existing := range repo.users {
		if existing.Email == user.Email {
			return apperr.Conflict("Email is already registered")
		}
		if existing.IsActive && existing.Nickname == user.Nickname {
			return apperr.Conflict("Nickname is already taken")
		}
	}
	repo.nextID++
	user.ID = repo.nextID
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	repo.users[user.ID] = &clone
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]int64
}

func (repo *fakeSessionRepo) Create(_ context.Context, tokenHash string, userID int64, _ time.Duration) error {
	repo.sessions[tokenHash] = userID
	return nil
}

func (repo *fakeSessionRepo) Resolve(_ context.Context, tokenHash string) (int64, error) {
	userID, ok := repo.sessions[tokenHash]
	if !ok {
		return 0, apperr.Unauthorized("Invalid or expired refresh token")
	}
	return userID, nil
}

func (repo *fakeSessionRepo) Revoke(_ context.Context, tokenHash string) error {
	delete(repo.sessions, tokenHash)
	return nil
}

func (repo *fakeSessionRepo) RevokeAll(_ context.Context, userID int64) error {
	for tokenHash, owner := range repo.sessions {
		if owner == userID {
			delete(repo.sessions, tokenHash)
		}
	}
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID int64, nickname string, isAdmin bool, _ time.Duration) (string, error) {
	return fmt.Sprintf("jwt:%d:%s:%t", userID, nickname, isAdmin), nil
}

// # Test Setup

func newTestService(t *testing.T) (*auth.Service, *fakeUserRepo, *fakeSessionRepo) {
	t.Helper()

	userRepo := &fakeUserRepo{users: map[int64]*auth.User{}}
	sessionRepo := &fakeSessionRepo{sessions: map[string]int64{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return auth.NewService(userRepo, sessionRepo, fakeTokenProvider{}, logger), userRepo, sessionRepo
}

func register(t *testing.T, service *auth.Service, email, nickname string) *auth.User {
	t.Helper()

	user, err := service.Register(context.Background(), auth.RegisterInput{
		Email:    email,
		Nickname: nickname,
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	return user
}

// # Registration

func TestRegister_HashesPassword(t *testing.T) {
	service, userRepo, _ := newTestService(t)

	// 1. Enroll a new member.
	user := register(t, service, "reader@example.com", "bookworm")

	// 2. The stored hash verifies the original password and nothing else.
	stored := userRepo.users[user.ID]
	assert.NotEqual(t, "correct horse battery", stored.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("correct horse battery", stored.PasswordHash))
	assert.False(t, sec.CheckPasswordHash("wrong password", stored.PasswordHash))

	// 3. New accounts start active and without the admin flag.
	assert.True(t, user.IsActive)
	assert.False(t, user.IsAdmin)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	service, _, _ := newTestService(t)
	register(t, service, "reader@example.com", "bookworm")

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Email:    "reader@example.com",
		Nickname: "different",
		Password: "another password",
	})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "CONFLICT", appError.Code)
}

// # Login

func TestLogin_IssuesTokenPair(t *testing.T) {
	service, _, sessionRepo := newTestService(t)
	register(t, service, "reader@example.com", "bookworm")

	// 1. Valid credentials open a session.
	session, err := service.Login(context.Background(), auth.LoginInput{
		Email:    "reader@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	// 2. The pair is populated and the refresh token is tracked hashed.
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Contains(t, sessionRepo.sessions, sec.HashToken(session.RefreshToken))
	assert.NotContains(t, sessionRepo.sessions, session.RefreshToken)
}

func TestLogin_GenericRejection(t *testing.T) {
	service, userRepo, _ := newTestService(t)
	user := register(t, service, "reader@example.com", "bookworm")

	cases := []struct {
		name  string
		setup func()
		input auth.LoginInput
	}{
		{
			name:  "unknown email",
			setup: func() {},
			input: auth.LoginInput{Email: "ghost@example.com", Password: "correct horse battery"},
		},
		{
			name:  "wrong password",
			setup: func() {},
			input: auth.LoginInput{Email: "reader@example.com", Password: "wrong password"},
		},
		{
			name:  "deactivated account",
			setup: func() { userRepo.users[user.ID].IsActive = false },
			input: auth.LoginInput{Email: "reader@example.com", Password: "correct horse battery"},
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			testCase.setup()

			_, err := service.Login(context.Background(), testCase.input)

			// Every failure mode yields the same message to prevent enumeration.
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Invalid login credentials")
		})
	}
}

// # Session Rotation

func TestRefreshSession_RotatesToken(t *testing.T) {
	service, _, sessionRepo := newTestService(t)
	register(t, service, "reader@example.com", "bookworm")

	session, err := service.Login(context.Background(), auth.LoginInput{
		Email:    "reader@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	// 1. Refresh yields a new pair and invalidates the old token.
	rotated, err := service.RefreshSession(context.Background(), session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)
	assert.NotContains(t, sessionRepo.sessions, sec.HashToken(session.RefreshToken))
	assert.Contains(t, sessionRepo.sessions, sec.HashToken(rotated.RefreshToken))

	// 2. Replaying the consumed token is rejected.
	_, err = service.RefreshSession(context.Background(), session.RefreshToken)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)
}

func TestRefreshSession_DeactivatedOwner(t *testing.T) {
	service, userRepo, _ := newTestService(t)
	user := register(t, service, "reader@example.com", "bookworm")

	session, err := service.Login(context.Background(), auth.LoginInput{
		Email:    "reader@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	// A session cannot be rotated once its owner is deactivated.
	userRepo.users[user.ID].IsActive = false

	_, err = service.RefreshSession(context.Background(), session.RefreshToken)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)
}

// # Logout

func TestLogout_Idempotent(t *testing.T) {
	service, _, sessionRepo := newTestService(t)
	register(t, service, "reader@example.com", "bookworm")

	session, err := service.Login(context.Background(), auth.LoginInput{
		Email:    "reader@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	// 1. Logout revokes the session.
	require.NoError(t, service.Logout(context.Background(), session.RefreshToken))
	assert.Empty(t, sessionRepo.sessions)

	// 2. Logging out again still succeeds.
	require.NoError(t, service.Logout(context.Background(), session.RefreshToken))
}
