// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/seojinpark/novelshelf/internal/platform/middleware"
	requestutil "github.com/seojinpark/novelshelf/internal/platform/request"
	"github.com/seojinpark/novelshelf/internal/platform/respond"
	"github.com/seojinpark/novelshelf/pkg/convert"
)

// # Handler Implementation

// Handler implements the HTTP layer for profile and account lifecycle.
type Handler struct {
	service *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the account endpoints. Every endpoint
// requires authentication.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/me", handler.me)
	router.Patch("/me", handler.updateNickname)
	router.Delete("/me", handler.deleteOwnAccount)

	// Admin removal of a foreign account
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin)
		admin.Delete("/{userID}", handler.deleteAccount)
	})

	return router
}

// # Profile Endpoints

/*
GET /api/v1/users/me.

Response:
  - 200: User: The caller's profile
  - 401: UNAUTHORIZED: Missing or invalid access token
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateNicknameRequest defines the inbound JSON schema for nickname changes.
type updateNicknameRequest struct {
	Nickname string `json:"nickname"`
}

/*
PATCH /api/v1/users/me.

Request (Body):
  - nickname: string (2-20 characters)

Response:
  - 200: User: The updated profile
  - 400: Validation: Nickname length out of bounds
  - 409: CONFLICT: Nickname held by another active account
*/
func (handler *Handler) updateNickname(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateNicknameRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateNickname(request.Context(), userID, input.Nickname)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// # Deletion Endpoints

/*
DELETE /api/v1/users/me.

Description: Deletes the caller's own account. Soft by default; pass
permanent=true to remove the row and every annotation with it.

Request:
  - permanent: bool (query, default false)

Response:
  - 204: Account removed
  - 401: UNAUTHORIZED: Missing or invalid access token
*/
func (handler *Handler) deleteOwnAccount(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	permanent := convert.ToBool(request.URL.Query().Get("permanent"))

	if err := handler.service.DeleteAccount(request.Context(), claims, claims.UserID, permanent); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
DELETE /api/v1/users/{userID}.

Description: Admin-only permanent removal of another account.

Response:
  - 204: Account removed
  - 403: FORBIDDEN: Caller lacks the admin flag
  - 404: NOT_FOUND: Account does not exist
*/
func (handler *Handler) deleteAccount(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID, err := requestutil.Int64Param(request, "userID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteAccount(request.Context(), claims, targetID, true); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
