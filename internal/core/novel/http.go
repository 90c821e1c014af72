// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

/*
Package novel provides the HTTP interface for catalogue discovery and annotation.

It exposes endpoints for browsing novels, registering new novels from external
platforms, and managing the caller's per-novel annotation envelope.

# Routing Strategy

  - Public (v1): Discovery endpoints accessible to all visitors (GET /novels).
    Authenticated visitors transparently receive their own envelopes merged in.
  - Private (v1): Registration and envelope mutation require authentication;
    ownership is enforced by key, never by role.

The handler translates between the web/JSON layer and the internal domain [Service].
*/
package novel

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/seojinpark/novelshelf/internal/platform/middleware"
	requestutil "github.com/seojinpark/novelshelf/internal/platform/request"
	"github.com/seojinpark/novelshelf/internal/platform/respond"
	"github.com/seojinpark/novelshelf/pkg/convert"
	"github.com/seojinpark/novelshelf/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for the novel catalogue and envelopes.
type Handler struct {
	service *Service
}

// NewHandler constructs a new novel [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the novel domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Discovery Endpoints
	router.Get("/", handler.listNovels)
	router.Get("/{novelID}", handler.getNovel)

	// ## Registration & Annotation (Authenticated)
	router.Group(func(private chi.Router) {
		private.Use(middleware.RequireAuth)

		private.Post("/", handler.createNovel)

		// Envelope facets
		private.Get("/{novelID}/memo", handler.getMemo)
		private.Post("/{novelID}/memo", handler.createMemo)
		private.Put("/{novelID}/memo", handler.updateMemo)
		private.Delete("/{novelID}/memo", handler.deleteMemo)
		private.Post("/{novelID}/favorite", handler.markAsFavorite)
		private.Delete("/{novelID}/favorite", handler.unmarkAsFavorite)
	})

	return router
}

// # Catalogue Endpoints

/*
GET /api/v1/novels.

Description: Retrieves a paginated catalogue page. Authenticated callers
receive each novel merged with their own annotation envelope.

Request:
  - q: string (Case-insensitive substring search; % and _ are literal)
  - filter_by: string (all, title, author, description)
  - category: string (fantasy, modern_fantasy, wuxia, romance, romance_fantasy)
  - order_by: string (title, author, published_at, last_updated_at)
  - desc: bool (default true)
  - limit: int
  - page: int

Response:
  - 200: {items, total}: Paginated catalogue page
  - 400: Validation: Unknown enum value
*/
func (handler *Handler) listNovels(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	filter := filterFromQuery(request)

	// Authenticated callers get their envelopes merged in.
	if claims := requestutil.Claims(request); claims != nil {
		entries, total, err := handler.service.ListNovelsWithMemos(request.Context(), filter, claims.UserID, paginationParams.Limit, paginationParams.Offset())
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.List(writer, entries, total)
		return
	}

	novels, total, err := handler.service.ListNovels(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, novels, total)
}

/*
GET /api/v1/novels/{novelID}.

Description: Retrieves a single catalogue record. Authenticated callers
receive the record merged with their own envelope (zero-valued when absent).

Request:
  - novelID: int64

Response:
  - 200: Novel | NovelWithMemo: Success
  - 404: NOT_FOUND: Novel not found
*/
func (handler *Handler) getNovel(writer http.ResponseWriter, request *http.Request) {
	novelID, err := requestutil.Int64Param(request, "novelID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if claims := requestutil.Claims(request); claims != nil {
		entry, err := handler.service.GetNovelWithMemo(request.Context(), novelID, claims.UserID)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, entry)
		return
	}

	record, err := handler.service.GetNovel(request.Context(), novelID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

/*
POST /api/v1/novels.

Description: Registers a novel by platform reference. Metadata is retrieved
from the external fetch service under a fixed 30 second deadline.

Request (Body):
  - id: string (Platform-scoped novel identifier)
  - url: string (Novel page URL; used to derive the identifier when id is absent)
  - platform: string (ridi, kakao, series, munpia)

Response:
  - 201: Novel: Registered catalogue record
  - 400: Validation: Missing reference or upstream-rejected identifier
  - 404: NOT_FOUND: Platform source not found
  - 409: CONFLICT: Platform identifier already registered
  - 502: UPSTREAM_ERROR: Fetch service failure
*/
func (handler *Handler) createNovel(writer http.ResponseWriter, request *http.Request) {
	var command CreateCommand
	if err := requestutil.DecodeJSON(request, &command); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.CreateNovel(request.Context(), command)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, record)
}

// # Envelope Endpoints

// memoRequest defines the inbound JSON schema for content mutations.
type memoRequest struct {
	Content string `json:"content"`
}

/*
GET /api/v1/novels/{novelID}/memo.

Description: Returns the caller's envelope for the novel, or the zero-valued
envelope when the caller has never annotated it.

Response:
  - 200: Memo: The envelope
  - 404: NOT_FOUND: Novel not found
*/
func (handler *Handler) getMemo(writer http.ResponseWriter, request *http.Request) {
	handler.envelopeOperation(writer, request, handler.service.GetMemo)
}

/*
POST /api/v1/novels/{novelID}/memo.

Description: Creates the caller's memo content. Fails when the envelope
already carries content; a row holding only a favorite flag or an average
star does not count as an existing memo.

Request (Body):
  - content: string (required)

Response:
  - 201: Memo: The envelope
  - 404: NOT_FOUND: Novel not found
  - 409: CONFLICT: Memo content already exists
*/
func (handler *Handler) createMemo(writer http.ResponseWriter, request *http.Request) {
	novelID, userID, err := handler.envelopeKey(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input memoRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	memo, err := handler.service.UpsertMemo(request.Context(), novelID, userID, input.Content, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, memo)
}

/*
PUT /api/v1/novels/{novelID}/memo.

Description: Overwrites the caller's memo content. Idempotent: repeating the
call yields the same final state, and the favorite flag and average star are
untouched.

Request (Body):
  - content: string (required)

Response:
  - 200: Memo: The envelope
  - 404: NOT_FOUND: Novel not found
*/
func (handler *Handler) updateMemo(writer http.ResponseWriter, request *http.Request) {
	novelID, userID, err := handler.envelopeKey(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input memoRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	memo, err := handler.service.UpsertMemo(request.Context(), novelID, userID, input.Content, false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, memo)
}

/*
DELETE /api/v1/novels/{novelID}/memo.

Description: Clears the caller's memo content. Deleting an absent memo is a
no-op returning the zero envelope; an envelope left with no other facet is
removed entirely.

Response:
  - 200: Memo: The resulting envelope
  - 404: NOT_FOUND: Novel not found
*/
func (handler *Handler) deleteMemo(writer http.ResponseWriter, request *http.Request) {
	handler.envelopeOperation(writer, request, handler.service.DeleteMemo)
}

/*
POST /api/v1/novels/{novelID}/favorite.

Response:
  - 200: Memo: The envelope with the favorite flag set
  - 404: NOT_FOUND: Novel not found
*/
func (handler *Handler) markAsFavorite(writer http.ResponseWriter, request *http.Request) {
	handler.envelopeOperation(writer, request, handler.service.MarkAsFavorite)
}

/*
DELETE /api/v1/novels/{novelID}/favorite.

Response:
  - 200: Memo: The resulting envelope (zero-valued once pruned)
  - 404: NOT_FOUND: Novel not found
*/
func (handler *Handler) unmarkAsFavorite(writer http.ResponseWriter, request *http.Request) {
	handler.envelopeOperation(writer, request, handler.service.UnmarkAsFavorite)
}

// # Helpers

// envelopeKey resolves the (novel, user) key for an envelope operation.
func (handler *Handler) envelopeKey(request *http.Request) (int64, int64, error) {
	novelID, err := requestutil.Int64Param(request, "novelID")
	if err != nil {
		return 0, 0, err
	}

	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		return 0, 0, err
	}

	return novelID, userID, nil
}

// envelopeOperation runs a keyed service call and writes the envelope result.
func (handler *Handler) envelopeOperation(
	writer http.ResponseWriter,
	request *http.Request,
	operation func(context.Context, int64, int64) (*Memo, error),
) {
	novelID, userID, err := handler.envelopeKey(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	memo, err := operation(request.Context(), novelID, userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, memo)
}

// filterFromQuery assembles the catalogue filter from URL query parameters.
func filterFromQuery(request *http.Request) Filter {
	queryParams := request.URL.Query()

	descending := true
	if raw := queryParams.Get("desc"); raw != "" {
		descending = convert.ToBool(raw)
	}

	return Filter{
		Query:    queryParams.Get("q"),
		FilterBy: FilterBy(queryParams.Get("filter_by")),
		Category: Category(queryParams.Get("category")),
		OrderBy:  OrderBy(queryParams.Get("order_by")),
		Asc:      !descending,
	}
}
