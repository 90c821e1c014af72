// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package chapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/seojinpark/novelshelf/internal/core/novel"
	"github.com/seojinpark/novelshelf/internal/platform/apperr"
	"github.com/seojinpark/novelshelf/internal/platform/validate"
	"github.com/seojinpark/novelshelf/pkg/slice"
)

// # Service Layer

// StarAggregator recomputes the derived average on the novel envelope after
// a chapter-memo mutation. Satisfied by the novel service.
type StarAggregator interface {
	UpdateAverageStar(context context.Context, novelID, userID int64) (*novel.Memo, error)
}

// Service orchestrates the chapter roster and per-chapter annotations.
//
// Every successful memo mutation finishes with a full average-star recompute
// on the owning novel's envelope for the same user. The recompute re-scans
// all of the user's rated chapters rather than adjusting incrementally, so a
// lost increment can never leave the aggregate drifting from its inputs.
type Service struct {
	chapterRepo ChapterRepository
	memoRepo    MemoRepository
	aggregator  StarAggregator
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(chapterRepo ChapterRepository, memoRepo MemoRepository, aggregator StarAggregator, logger *slog.Logger) *Service {
	return &Service{
		chapterRepo: chapterRepo,
		memoRepo:    memoRepo,
		aggregator:  aggregator,
		logger:      logger,
	}
}

// # Roster Lookups

/*
ListChapters returns a window of a novel's chapters.

Parameters:
  - context: context.Context
  - novelID: int64
  - asc: bool (Ascending chapter order; default is descending)
  - limit: int
  - offset: int

Returns:
  - []*Chapter: Chapters in the window
  - int: Total chapters for the novel
  - error: Repository level errors
*/
func (service *Service) ListChapters(context context.Context, novelID int64, asc bool, limit, offset int) ([]*Chapter, int, error) {
	return service.chapterRepo.ListByNovel(context, novelID, asc, limit, offset)
}

/*
ListChaptersWithMemos returns a chapter window merged with the caller's memos.

Description: Fetches the window, then the subset of the user's memos matching
the windowed chapter numbers, and pairs them up in memory. Chapters the user
has not annotated carry a nil memo.

Parameters:
  - context: context.Context
  - novelID: int64
  - userID: int64 (Memo owner)
  - asc: bool
  - limit: int
  - offset: int

Returns:
  - []*ChapterWithMemo: Chapters paired with the user's memos
  - int: Total chapters for the novel
  - error: Repository level errors
*/
func (service *Service) ListChaptersWithMemos(context context.Context, novelID, userID int64, asc bool, limit, offset int) ([]*ChapterWithMemo, int, error) {

	chapters, total, err := service.chapterRepo.ListByNovel(context, novelID, asc, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	// Memo window restricted to the listed chapter numbers
	chapterNos := slice.Map(chapters, func(c *Chapter) int { return c.ChapterNo })
	memos, err := service.memoRepo.FindByChapters(context, novelID, userID, chapterNos)
	if err != nil {
		return nil, 0, err
	}

	memosByChapter := make(map[int]*Memo, len(memos))
	for _, memo := range memos {
		memosByChapter[memo.ChapterNo] = memo
	}

	results := slice.Map(chapters, func(c *Chapter) *ChapterWithMemo {
		return &ChapterWithMemo{Chapter: *c, Memo: memosByChapter[c.ChapterNo]}
	})

	return results, total, nil
}

// # Chapter Ingestion

/*
CreateChapter registers a new chapter for a novel.

Description: The ingestion entry point. Chapter numbers must be positive and
unique within the novel; annotation flows never mutate the roster.

Parameters:
  - context: context.Context
  - chapter: *Chapter

Returns:
  - error: Validation, conflict, or persistence errors
*/
func (service *Service) CreateChapter(context context.Context, chapter *Chapter) error {

	validator := &validate.Validator{}
	validator.Required(FieldTitle, chapter.Title)
	validator.Custom(FieldChapterNo, chapter.ChapterNo <= 0, "Chapter number must be positive")
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.chapterRepo.Create(context, chapter); err != nil {
		return err
	}

	service.logger.Info("chapter_created",
		slog.Int64("novel_id", chapter.NovelID),
		slog.Int("chapter_no", chapter.ChapterNo),
	)

	return nil
}

// # Memo Operations

/*
GetMemo returns the caller's memo for a chapter.

Description: Chapter memos are optional-presence: an absent row is reported
as NotFound explicitly, never as a zero-valued convenience record.

Parameters:
  - context: context.Context
  - novelID: int64
  - chapterNo: int
  - userID: int64

Returns:
  - *Memo: The persisted memo
  - error: apperr.NotFound if absent
*/
func (service *Service) GetMemo(context context.Context, novelID int64, chapterNo int, userID int64) (*Memo, error) {
	return service.memoRepo.Find(context, novelID, chapterNo, userID)
}

/*
CreateMemo attaches a new memo to a chapter.

Description: Requires the chapter to exist and the key to be vacant; content
and star are both mandatory at creation. On success the owning novel's
average star is recomputed for the same user.

Parameters:
  - context: context.Context
  - command: CreateCommand

Returns:
  - *Memo: The persisted memo
  - error: apperr.NotFound, apperr.Conflict, validation, or persistence errors
*/
func (service *Service) CreateMemo(context context.Context, command CreateCommand) (*Memo, error) {

	validator := &validate.Validator{}
	validator.Required(FieldContent, command.Content)
	validator.Range(FieldStar, command.Star, StarMin, StarMax)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Chapter dependency
	exists, err := service.chapterRepo.Exists(context, command.NovelID, command.ChapterNo)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("Chapter")
	}

	memo := &Memo{
		NovelID:    command.NovelID,
		ChapterNo:  command.ChapterNo,
		UserID:     command.UserID,
		Content:    command.Content,
		Star:       command.Star,
		ModifiedAt: time.Now().UTC(),
	}

	if err := service.memoRepo.Create(context, memo); err != nil {
		return nil, err
	}

	if err := service.recomputeAverage(context, command.NovelID, command.UserID); err != nil {
		return nil, err
	}

	service.logger.Info("chapter_memo_created",
		slog.Int64("novel_id", command.NovelID),
		slog.Int("chapter_no", command.ChapterNo),
		slog.Int64("user_id", command.UserID),
		slog.Int("star", command.Star),
	)

	return memo, nil
}

/*
UpdateMemo applies a partial update to an existing memo.

Description: Only the fields the caller supplied are overwritten; nil means
"leave unchanged". The modification timestamp always refreshes, and the
owning novel's average star is recomputed afterwards.

Parameters:
  - context: context.Context
  - command: UpdateCommand

Returns:
  - *Memo: The updated memo
  - error: apperr.NotFound, validation, or persistence errors
*/
func (service *Service) UpdateMemo(context context.Context, command UpdateCommand) (*Memo, error) {

	validator := &validate.Validator{}
	if command.Content != nil {
		validator.Required(FieldContent, *command.Content)
	}
	if command.Star != nil {
		validator.Range(FieldStar, *command.Star, StarMin, StarMax)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	memo, err := service.memoRepo.Find(context, command.NovelID, command.ChapterNo, command.UserID)
	if err != nil {
		return nil, err
	}

	// Partial field application
	if command.Content != nil {
		memo.Content = *command.Content
	}
	if command.Star != nil {
		memo.Star = *command.Star
	}
	memo.ModifiedAt = time.Now().UTC()

	if err := service.memoRepo.Update(context, memo); err != nil {
		return nil, err
	}

	if err := service.recomputeAverage(context, command.NovelID, command.UserID); err != nil {
		return nil, err
	}

	service.logger.Info("chapter_memo_updated",
		slog.Int64("novel_id", command.NovelID),
		slog.Int("chapter_no", command.ChapterNo),
		slog.Int64("user_id", command.UserID),
	)

	return memo, nil
}

/*
DeleteMemo removes the caller's memo from a chapter.

Description: Deletes physically and returns the deleted snapshot; afterwards
the owning novel's average star is recomputed without the removed rating.

Parameters:
  - context: context.Context
  - novelID: int64
  - chapterNo: int
  - userID: int64

Returns:
  - *Memo: Snapshot of the deleted memo
  - error: apperr.NotFound if absent, or persistence errors
*/
func (service *Service) DeleteMemo(context context.Context, novelID int64, chapterNo int, userID int64) (*Memo, error) {

	memo, err := service.memoRepo.Find(context, novelID, chapterNo, userID)
	if err != nil {
		return nil, err
	}

	if err := service.memoRepo.Delete(context, novelID, chapterNo, userID); err != nil {
		return nil, err
	}

	if err := service.recomputeAverage(context, novelID, userID); err != nil {
		return nil, err
	}

	service.logger.Info("chapter_memo_deleted",
		slog.Int64("novel_id", novelID),
		slog.Int("chapter_no", chapterNo),
		slog.Int64("user_id", userID),
	)

	return memo, nil
}

// # Internal Helpers

// recomputeAverage runs the aggregation trigger after a memo mutation.
func (service *Service) recomputeAverage(context context.Context, novelID, userID int64) error {
	_, err := service.aggregator.UpdateAverageStar(context, novelID, userID)
	return err
}
