// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package novel

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/seojinpark/novelshelf/internal/platform/apperr"
	"github.com/seojinpark/novelshelf/internal/platform/validate"
)

// # Envelope Operations
//
// Every mutating operation funnels through an upsert-by-key pattern: it never
// assumes the row exists, and it finishes by handing the envelope to
// saveOrPrune so a semantically-empty row is never left in storage. Row
// presence therefore answers "has this user touched this novel at all".

/*
GetMemo returns the caller's envelope for a novel.

Description: An absent row is reported as the zero-valued envelope, never as
an error, and no row is created by reading.

Parameters:
  - context: context.Context
  - novelID: int64
  - userID: int64

Returns:
  - *Memo: The persisted or zero-valued envelope
  - error: apperr.NotFound if the novel does not exist
*/
func (service *Service) GetMemo(context context.Context, novelID, userID int64) (*Memo, error) {
	if err := service.ensureNovel(context, novelID); err != nil {
		return nil, err
	}
	return service.findOrZero(context, novelID, userID)
}

/*
UpsertMemo sets the content facet of the caller's envelope.

Description: Loads the existing row or instantiates a fresh envelope, then
overwrites content and stamps modified_at. With requireAbsent set, an existing
row that already carries content is rejected with a Conflict; the favorite
flag and average star of a pre-existing row are preserved either way, since
only the content facet is touched.

Parameters:
  - context: context.Context
  - novelID: int64
  - userID: int64
  - content: string (New memo text, required)
  - requireAbsent: bool (Creation precondition: fail if content already set)

Returns:
  - *Memo: The resulting envelope
  - error: apperr.NotFound, apperr.Conflict, validation, or persistence errors
*/
func (service *Service) UpsertMemo(context context.Context, novelID, userID int64, content string, requireAbsent bool) (*Memo, error) {

	if err := service.ensureNovel(context, novelID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldContent, content)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	memo, err := service.findOrZero(context, novelID, userID)
	if err != nil {
		return nil, err
	}

	// Creation precondition: an envelope row without content does not count
	// as an existing memo.
	if requireAbsent && memo.Content != nil {
		return nil, apperr.Conflict("Novel memo already exists")
	}

	now := time.Now().UTC()
	memo.Content = &content
	memo.ModifiedAt = &now

	result, err := service.saveOrPrune(context, memo)
	if err != nil {
		return nil, err
	}

	service.logger.Info("novel_memo_upserted",
		slog.Int64("novel_id", novelID),
		slog.Int64("user_id", userID),
	)

	return result, nil
}

/*
DeleteMemo clears the content facet of the caller's envelope.

Description: A missing row is a no-op returning the zero envelope. Otherwise
content and modified_at are nulled and the envelope is re-evaluated: if no
other facet carries data the row is physically removed.

Parameters:
  - context: context.Context
  - novelID: int64
  - userID: int64

Returns:
  - *Memo: The resulting envelope (possibly zero-valued)
  - error: apperr.NotFound if the novel does not exist, or persistence errors
*/
func (service *Service) DeleteMemo(context context.Context, novelID, userID int64) (*Memo, error) {

	if err := service.ensureNovel(context, novelID); err != nil {
		return nil, err
	}

	memo, err := service.memoRepo.Find(context, novelID, userID)
	if err != nil {
		if isNotFound(err) {
			return &Memo{NovelID: novelID, UserID: userID}, nil
		}
		return nil, err
	}

	memo.Content = nil
	memo.ModifiedAt = nil

	result, err := service.saveOrPrune(context, memo)
	if err != nil {
		return nil, err
	}

	service.logger.Info("novel_memo_deleted",
		slog.Int64("novel_id", novelID),
		slog.Int64("user_id", userID),
	)

	return result, nil
}

/*
MarkAsFavorite sets the favorite flag on the caller's envelope.

Description: Upserts the envelope row if absent; other facets are untouched.

Parameters:
  - context: context.Context
  - novelID: int64
  - userID: int64

Returns:
  - *Memo: The resulting envelope
  - error: apperr.NotFound if the novel does not exist, or persistence errors
*/
func (service *Service) MarkAsFavorite(context context.Context, novelID, userID int64) (*Memo, error) {
	return service.setFavorite(context, novelID, userID, true)
}

/*
UnmarkAsFavorite clears the favorite flag on the caller's envelope.

Description: After the flag flips to false the lazy-deletion invariant is
re-evaluated; an envelope left with no content and no average star is removed
entirely, so a later read returns the zero envelope rather than a stale row.

Parameters:
  - context: context.Context
  - novelID: int64
  - userID: int64

Returns:
  - *Memo: The resulting envelope (possibly zero-valued)
  - error: apperr.NotFound if the novel does not exist, or persistence errors
*/
func (service *Service) UnmarkAsFavorite(context context.Context, novelID, userID int64) (*Memo, error) {
	return service.setFavorite(context, novelID, userID, false)
}

// setFavorite flips the favorite facet and funnels the result through saveOrPrune.
func (service *Service) setFavorite(context context.Context, novelID, userID int64, favorite bool) (*Memo, error) {

	if err := service.ensureNovel(context, novelID); err != nil {
		return nil, err
	}

	memo, err := service.findOrZero(context, novelID, userID)
	if err != nil {
		return nil, err
	}

	memo.IsFavorite = favorite

	result, err := service.saveOrPrune(context, memo)
	if err != nil {
		return nil, err
	}

	service.logger.Info("novel_favorite_changed",
		slog.Int64("novel_id", novelID),
		slog.Int64("user_id", userID),
		slog.Bool("is_favorite", favorite),
	)

	return result, nil
}

/*
UpdateAverageStar recomputes the derived average facet of the caller's envelope.

Description: A full re-scan recompute: the mean of every chapter star the user
holds for the novel is taken, rounded to 2 decimal places, and persisted into
the envelope. With zero rated chapters the envelope is returned untouched; a
previously-stored average stays in place rather than resetting to null.

Parameters:
  - context: context.Context
  - novelID: int64
  - userID: int64

Returns:
  - *Memo: The resulting envelope
  - error: apperr.NotFound if the novel does not exist, or persistence errors
*/
func (service *Service) UpdateAverageStar(context context.Context, novelID, userID int64) (*Memo, error) {

	if err := service.ensureNovel(context, novelID); err != nil {
		return nil, err
	}

	average, rated, err := service.memoRepo.AverageStar(context, novelID, userID)
	if err != nil {
		return nil, err
	}

	// Zero rated chapters: report current state without persisting anything.
	if rated == 0 {
		return service.findOrZero(context, novelID, userID)
	}

	memo, err := service.findOrZero(context, novelID, userID)
	if err != nil {
		return nil, err
	}

	rounded := round2(average)
	memo.AverageStar = &rounded

	result, err := service.saveOrPrune(context, memo)
	if err != nil {
		return nil, err
	}

	service.logger.Info("novel_average_star_updated",
		slog.Int64("novel_id", novelID),
		slog.Int64("user_id", userID),
		slog.Float64("average_star", rounded),
		slog.Int("rated_chapters", rated),
	)

	return result, nil
}

// # Internal Helpers

// ensureNovel verifies the referenced novel exists before any envelope operation.
func (service *Service) ensureNovel(context context.Context, novelID int64) error {
	exists, err := service.novelRepo.Exists(context, novelID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Novel")
	}
	return nil
}

// findOrZero loads the envelope for the key, substituting the zero envelope
// when no row exists.
func (service *Service) findOrZero(context context.Context, novelID, userID int64) (*Memo, error) {
	memo, err := service.memoRepo.Find(context, novelID, userID)
	if err != nil {
		if isNotFound(err) {
			return &Memo{NovelID: novelID, UserID: userID}, nil
		}
		return nil, err
	}
	return memo, nil
}

/*
saveOrPrune persists the envelope, or removes its row when every facet is default.

Description: The single enforcement point for the empty-row invariant. Every
facet mutation funnels through here, so an envelope whose content is null,
favorite flag is false, and average star is null or zero can never survive in
storage; callers receive the zero envelope in its place.

Parameters:
  - context: context.Context
  - memo: *Memo (Envelope after the facet mutation)

Returns:
  - *Memo: The envelope as persisted, or zero-valued after pruning
  - error: Persistence errors
*/
func (service *Service) saveOrPrune(context context.Context, memo *Memo) (*Memo, error) {

	if memo.IsEmpty() {
		if err := service.memoRepo.Delete(context, memo.NovelID, memo.UserID); err != nil && !isNotFound(err) {
			return nil, err
		}
		return &Memo{NovelID: memo.NovelID, UserID: memo.UserID}, nil
	}

	if err := service.memoRepo.Save(context, memo); err != nil {
		return nil, err
	}

	return memo, nil
}

// round2 rounds to 2 decimal places, the precision stored for average stars.
func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// isNotFound reports whether err is the domain NotFound classification.
func isNotFound(err error) bool {
	appError := apperr.As(err)
	return appError != nil && appError.HTTPStatus == http.StatusNotFound
}
