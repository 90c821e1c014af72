// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package account

import (
	"context"
	"log/slog"

	"github.com/seojinpark/novelshelf/internal/platform/apperr"
	"github.com/seojinpark/novelshelf/internal/platform/sec"
	"github.com/seojinpark/novelshelf/internal/platform/validate"
	"github.com/seojinpark/novelshelf/internal/users/auth"
)

// # Service Layer

// Service implements account profile and lifecycle use cases.
type Service struct {
	accountRepository AccountRepository
	sessionRevoker    SessionRevoker
	logger            *slog.Logger
}

// NewService constructs a new account [Service].
func NewService(accountRepo AccountRepository, sessionRevoker SessionRevoker, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		sessionRevoker:    sessionRevoker,
		logger:            logger,
	}
}

/*
GetProfile returns the account owning the given ID.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - *auth.User: The account profile
  - error: apperr.NotFound or storage failures
*/
func (service *Service) GetProfile(context context.Context, userID int64) (*auth.User, error) {
	return service.accountRepository.FindByID(context, userID)
}

/*
UpdateNickname changes the caller's public display name.

Parameters:
  - context: context.Context
  - userID: int64
  - nickname: string

Returns:
  - *auth.User: The updated profile
  - error: Validation, apperr.Conflict, or storage failures
*/
func (service *Service) UpdateNickname(context context.Context, userID int64, nickname string) (*auth.User, error) {

	validator := &validate.Validator{}
	validator.Required(FieldNickname, nickname).
		MinLen(FieldNickname, nickname, auth.NicknameMinLen).
		MaxLen(FieldNickname, nickname, auth.NicknameMaxLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.accountRepository.UpdateNickname(context, userID, nickname); err != nil {
		return nil, err
	}

	service.logger.Info("nickname_updated", slog.Int64("user_id", userID))

	return service.accountRepository.FindByID(context, userID)
}

// # Account Deletion

/*
DeleteAccount removes an account, softly by default.

Description: Soft deletion flips is_active and keeps the row; annotations
survive but the account can no longer authenticate. Permanent deletion removes
the row, and the storage cascade erases every memo the account owned. Callers
may delete their own account either way; deleting a different account is
permanent-only and requires the admin flag. All live sessions of the target
are revoked in both modes.

Parameters:
  - context: context.Context
  - caller: *sec.AuthClaims (The authenticated principal)
  - targetID: int64 (Account to delete)
  - permanent: bool

Returns:
  - error: apperr.Forbidden, apperr.NotFound, or storage failures
*/
func (service *Service) DeleteAccount(context context.Context, caller *sec.AuthClaims, targetID int64, permanent bool) error {

	if caller.UserID != targetID {
		if !caller.IsAdmin {
			return apperr.Forbidden("Only admins can delete other accounts")
		}
		// Admin removal of a foreign account is always physical.
		permanent = true
	}

	// Confirm the target exists before touching sessions.
	if _, err := service.accountRepository.FindByID(context, targetID); err != nil {
		return err
	}

	if permanent {
		if err := service.accountRepository.Delete(context, targetID); err != nil {
			return err
		}
	} else {
		if err := service.accountRepository.SoftDelete(context, targetID); err != nil {
			return err
		}
	}

	if err := service.sessionRevoker.RevokeAll(context, targetID); err != nil {
		// The account is already gone; a failed session sweep only shortens
		// token lifetime to the Redis TTL. Log and move on.
		service.logger.Warn("session_revoke_all_failed",
			slog.Int64("user_id", targetID),
			slog.String("error", err.Error()),
		)
	}

	service.logger.Info("account_deleted",
		slog.Int64("user_id", targetID),
		slog.Bool("permanent", permanent),
		slog.Int64("deleted_by", caller.UserID),
	)

	return nil
}
