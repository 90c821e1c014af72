// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package chapter

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/seojinpark/novelshelf/internal/platform/middleware"
	requestutil "github.com/seojinpark/novelshelf/internal/platform/request"
	"github.com/seojinpark/novelshelf/internal/platform/respond"
	"github.com/seojinpark/novelshelf/pkg/convert"
	"github.com/seojinpark/novelshelf/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for chapter rosters and memos.
type Handler struct {
	service *Service
}

// NewHandler constructs a new chapter [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches chapter endpoints to the root API router.
// Chapter endpoints live under the /novels/{novelID}/chapters prefix.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	// Discovery endpoints
	api.Get("/novels/{novelID}/chapters", handler.listChapters)

	// Admin protected endpoints
	api.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin)
		admin.Post("/novels/{novelID}/chapters", handler.createChapter)
	})

	// Memo interactions (Require authentication)
	api.Group(func(user chi.Router) {
		user.Use(middleware.RequireAuth)
		user.Get("/novels/{novelID}/chapters/{chapterNo}/memo", handler.getMemo)
		user.Post("/novels/{novelID}/chapters/{chapterNo}/memo", handler.createMemo)
		user.Put("/novels/{novelID}/chapters/{chapterNo}/memo", handler.updateMemo)
		user.Delete("/novels/{novelID}/chapters/{chapterNo}/memo", handler.deleteMemo)
	})
}

// # Chapter Retrieval

/*
GET /api/v1/novels/{novelID}/chapters.

Description: Returns a paginated roster of chapters for a novel, newest
chapter first by default. Authenticated callers receive each chapter paired
with their own memo when one exists.

Request:
  - novelID: int64
  - desc: bool (default true)
  - limit: int
  - page: int

Response:
  - 200: {items, total}: Paginated list
  - 400: Validation: Malformed novel identifier
*/
func (handler *Handler) listChapters(writer http.ResponseWriter, request *http.Request) {
	novelID, err := requestutil.Int64Param(request, "novelID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)
	asc := ascFromQuery(request)

	if claims := requestutil.Claims(request); claims != nil {
		entries, total, err := handler.service.ListChaptersWithMemos(request.Context(), novelID, claims.UserID, asc, paginationParams.Limit, paginationParams.Offset())
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.List(writer, entries, total)
		return
	}

	chapters, total, err := handler.service.ListChapters(request.Context(), novelID, asc, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, chapters, total)
}

// # Chapter Creation

// createChapterRequest defines the inbound JSON schema for chapter ingestion.
type createChapterRequest struct {
	ChapterNo   int        `json:"chapter_no"`
	Title       string     `json:"title"`
	RidiID      *string    `json:"ridi_id"`
	KakaoID     *string    `json:"kakao_id"`
	SeriesID    *string    `json:"series_id"`
	MunpiaID    *string    `json:"munpia_id"`
	PublishedAt *time.Time `json:"published_at"`
}

/*
POST /api/v1/novels/{novelID}/chapters.

Description: Registers a new chapter record for a novel.

Request:
  - novelID: int64
  - body: createChapterRequest

Response:
  - 201: Chapter: Created chapter object
  - 400: Validation: Invalid payload
  - 403: FORBIDDEN: Insufficient permissions
  - 404: NOT_FOUND: Novel not found
  - 409: CONFLICT: Chapter number already registered
*/
func (handler *Handler) createChapter(writer http.ResponseWriter, request *http.Request) {
	novelID, err := requestutil.Int64Param(request, "novelID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createChapterRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapter := &Chapter{
		NovelID:     novelID,
		ChapterNo:   input.ChapterNo,
		Title:       input.Title,
		RidiID:      input.RidiID,
		KakaoID:     input.KakaoID,
		SeriesID:    input.SeriesID,
		MunpiaID:    input.MunpiaID,
		PublishedAt: input.PublishedAt,
	}

	if err := handler.service.CreateChapter(request.Context(), chapter); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, chapter)
}

// # Memo Endpoints

/*
GET /api/v1/novels/{novelID}/chapters/{chapterNo}/memo.

Description: Returns the caller's memo for a chapter. Chapter memos have no
zero-valued fallback: an absent memo is a 404.

Response:
  - 200: Memo: The persisted memo
  - 404: NOT_FOUND: Chapter memo not found
*/
func (handler *Handler) getMemo(writer http.ResponseWriter, request *http.Request) {
	novelID, chapterNo, userID, err := handler.memoKey(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	memo, err := handler.service.GetMemo(request.Context(), novelID, chapterNo, userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, memo)
}

/*
POST /api/v1/novels/{novelID}/chapters/{chapterNo}/memo.

Description: Attaches a new memo to a chapter. Content and a 1-10 star rating
are both required; the owning novel's average star is recomputed on success.

Request (Body):
  - content: string (required)
  - star: int (required, 1-10)

Response:
  - 201: Memo: The persisted memo
  - 400: Validation: Missing content or out-of-range star
  - 404: NOT_FOUND: Chapter not found
  - 409: CONFLICT: Memo already exists for this chapter
*/
func (handler *Handler) createMemo(writer http.ResponseWriter, request *http.Request) {
	novelID, chapterNo, userID, err := handler.memoKey(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var command CreateCommand
	if err := requestutil.DecodeJSON(request, &command); err != nil {
		respond.Error(writer, request, err)
		return
	}
	command.NovelID = novelID
	command.ChapterNo = chapterNo
	command.UserID = userID

	memo, err := handler.service.CreateMemo(request.Context(), command)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, memo)
}

/*
PUT /api/v1/novels/{novelID}/chapters/{chapterNo}/memo.

Description: Partially updates an existing memo. Omitted fields keep their
current values; the owning novel's average star is recomputed on success.

Request (Body):
  - content: string (optional)
  - star: int (optional, 1-10)

Response:
  - 200: Memo: The updated memo
  - 400: Validation: Empty content or out-of-range star
  - 404: NOT_FOUND: Chapter memo not found
*/
func (handler *Handler) updateMemo(writer http.ResponseWriter, request *http.Request) {
	novelID, chapterNo, userID, err := handler.memoKey(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var command UpdateCommand
	if err := requestutil.DecodeJSON(request, &command); err != nil {
		respond.Error(writer, request, err)
		return
	}
	command.NovelID = novelID
	command.ChapterNo = chapterNo
	command.UserID = userID

	memo, err := handler.service.UpdateMemo(request.Context(), command)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, memo)
}

/*
DELETE /api/v1/novels/{novelID}/chapters/{chapterNo}/memo.

Description: Removes the caller's memo and returns the deleted snapshot; the
owning novel's average star is recomputed without the removed rating.

Response:
  - 200: Memo: Snapshot of the deleted memo
  - 404: NOT_FOUND: Chapter memo not found
*/
func (handler *Handler) deleteMemo(writer http.ResponseWriter, request *http.Request) {
	novelID, chapterNo, userID, err := handler.memoKey(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	memo, err := handler.service.DeleteMemo(request.Context(), novelID, chapterNo, userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, memo)
}

// # Helpers

// memoKey resolves the (novel, chapter, user) key for a memo operation.
func (handler *Handler) memoKey(request *http.Request) (int64, int, int64, error) {
	novelID, err := requestutil.Int64Param(request, "novelID")
	if err != nil {
		return 0, 0, 0, err
	}

	chapterNo, err := requestutil.IntParam(request, "chapterNo")
	if err != nil {
		return 0, 0, 0, err
	}

	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		return 0, 0, 0, err
	}

	return novelID, chapterNo, userID, nil
}

// ascFromQuery reads the sort direction; descending is the default.
func ascFromQuery(request *http.Request) bool {
	descending := true
	if raw := request.URL.Query().Get("desc"); raw != "" {
		descending = convert.ToBool(raw)
	}
	return !descending
}
