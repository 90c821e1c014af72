// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package chapter_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seojinpark/novelshelf/internal/core/chapter"
	"github.com/seojinpark/novelshelf/internal/core/novel"
	"github.com/seojinpark/novelshelf/internal/platform/apperr"
	"github.com/seojinpark/novelshelf/pkg/pointer"
)

// # Test Fakes

type chapterKey struct {
	novelID   int64
	chapterNo int
}

type memoKey struct {
	novelID   int64
	chapterNo int
	userID    int64
}

type fakeChapterRepo struct {
	chapters map[chapterKey]*chapter.Chapter
	nextID   int64
}

func (repo *fakeChapterRepo) ListByNovel(_ context.Context, novelID int64, asc bool, limit, offset int) ([]*chapter.Chapter, int, error) {
	var matched []*chapter.Chapter
	for key, c := range repo.chapters {
		if key.novelID == novelID {
			matched = append(matched, c)
		}
	}

	// Selection sort keeps the fake dependency-free.
	for i := range matched {
		for j := i + 1; j < len(matched); j++ {
			before := matched[j].ChapterNo < matched[i].ChapterNo
			if !asc {
				before = matched[j].ChapterNo > matched[i].ChapterNo
			}
			if before {
				matched[i], matched[j] = matched[j], matched[i]
			}
		}
	}

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (repo *fakeChapterRepo) Exists(_ context.Context, novelID int64, chapterNo int) (bool, error) {
	_, ok := repo.chapters[chapterKey{novelID, chapterNo}]
	return ok, nil
}

func (repo *fakeChapterRepo) Create(_ context.Context, c *chapter.Chapter) error {
	key := chapterKey{c.NovelID, c.ChapterNo}
	if _, ok := repo.chapters[key]; ok {
		return apperr.Conflict("Chapter already exists")
	}
	repo.nextID++
	c.ID = repo.nextID
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	repo.chapters[key] = c
	return nil
}

type fakeMemoRepo struct {
	memos map[memoKey]*chapter.Memo
}

func (repo *fakeMemoRepo) Find(_ context.Context, novelID int64, chapterNo int, userID int64) (*chapter.Memo, error) {
	memo, ok := repo.memos[memoKey{novelID, chapterNo, userID}]
	if !ok {
		return nil, apperr.NotFound("Chapter memo")
	}
	clone := *memo
	return &clone, nil
}

func (repo *fakeMemoRepo) FindByChapters(_ context.Context, novelID, userID int64, chapterNos []int) ([]*chapter.Memo, error) {
	wanted := make(map[int]bool, len(chapterNos))
	for _, no := range chapterNos {
		wanted[no] = true
	}

	var memos []*chapter.Memo
	for key, memo := range repo.memos {
		if key.novelID == novelID && key.userID == userID && wanted[key.chapterNo] {
			clone := *memo
			memos = append(memos, &clone)
		}
	}
	return memos, nil
}

func (repo *fakeMemoRepo) Create(_ context.Context, memo *chapter.Memo) error {
	key := memoKey{memo.NovelID, memo.ChapterNo, memo.UserID}
	if _, ok := repo.memos[key]; ok {
		return apperr.Conflict("Chapter memo already exists")
	}
	memo.CreatedAt = time.Now().UTC()
	clone := *memo
	repo.memos[key] = &clone
	return nil
}

func (repo *fakeMemoRepo) Update(_ context.Context, memo *chapter.Memo) error {
	key := memoKey{memo.NovelID, memo.ChapterNo, memo.UserID}
	if _, ok := repo.memos[key]; !ok {
		return apperr.NotFound("Chapter memo")
	}
	clone := *memo
	repo.memos[key] = &clone
	return nil
}

func (repo *fakeMemoRepo) Delete(_ context.Context, novelID int64, chapterNo int, userID int64) error {
	key := memoKey{novelID, chapterNo, userID}
	if _, ok := repo.memos[key]; !ok {
		return apperr.NotFound("Chapter memo")
	}
	delete(repo.memos, key)
	return nil
}

// fakeAggregator records every recompute request it receives.
type aggregatorCall struct {
	novelID int64
	userID  int64
}

type fakeAggregator struct {
	calls []aggregatorCall
}

func (aggregator *fakeAggregator) UpdateAverageStar(_ context.Context, novelID, userID int64) (*novel.Memo, error) {
	aggregator.calls = append(aggregator.calls, aggregatorCall{novelID: novelID, userID: userID})
	return &novel.Memo{NovelID: novelID, UserID: userID}, nil
}

// # Test Setup

func newTestService(t *testing.T) (*chapter.Service, *fakeChapterRepo, *fakeMemoRepo, *fakeAggregator) {
	t.Helper()

	chapterRepo := &fakeChapterRepo{chapters: map[chapterKey]*chapter.Chapter{}}
	memoRepo := &fakeMemoRepo{memos: map[memoKey]*chapter.Memo{}}
	aggregator := &fakeAggregator{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return chapter.NewService(chapterRepo, memoRepo, aggregator, logger), chapterRepo, memoRepo, aggregator
}

func seedChapters(repo *fakeChapterRepo, novelID int64, chapterNos ...int) {
	for _, no := range chapterNos {
		repo.nextID++
		repo.chapters[chapterKey{novelID, no}] = &chapter.Chapter{
			ID:        repo.nextID,
			NovelID:   novelID,
			ChapterNo: no,
			Title:     "Chapter",
		}
	}
}

// # Memo Creation

func TestCreateMemo_TriggersAverageRecompute(t *testing.T) {
	service, chapterRepo, _, aggregator := newTestService(t)
	seedChapters(chapterRepo, 1, 1)

	// 1. Attach a rated memo to the chapter.
	memo, err := service.CreateMemo(context.Background(), chapter.CreateCommand{
		NovelID: 1, ChapterNo: 1, UserID: 42,
		Content: "Strong opening chapter", Star: 8,
	})
	require.NoError(t, err)

	// 2. The memo carries the submitted facets.
	assert.Equal(t, "Strong opening chapter", memo.Content)
	assert.Equal(t, 8, memo.Star)
	assert.False(t, memo.ModifiedAt.IsZero())

	// 3. The owning novel's aggregate was recomputed for the same key.
	require.Len(t, aggregator.calls, 1)
	assert.Equal(t, aggregatorCall{novelID: 1, userID: 42}, aggregator.calls[0])
}

func TestCreateMemo_UnknownChapter(t *testing.T) {
	service, chapterRepo, _, aggregator := newTestService(t)
	seedChapters(chapterRepo, 1, 1)

	// 1. Target a chapter number the novel does not have.
	_, err := service.CreateMemo(context.Background(), chapter.CreateCommand{
		NovelID: 1, ChapterNo: 99, UserID: 42,
		Content: "Ghost chapter", Star: 5,
	})

	// 2. The miss surfaces as NotFound and no recompute ran.
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
	assert.Empty(t, aggregator.calls)
}

func TestCreateMemo_DuplicateConflicts(t *testing.T) {
	service, chapterRepo, _, _ := newTestService(t)
	seedChapters(chapterRepo, 1, 1)

	// 1. First creation succeeds.
	_, err := service.CreateMemo(context.Background(), chapter.CreateCommand{
		NovelID: 1, ChapterNo: 1, UserID: 42,
		Content: "First impression", Star: 7,
	})
	require.NoError(t, err)

	// 2. A second creation on the same key conflicts.
	_, err = service.CreateMemo(context.Background(), chapter.CreateCommand{
		NovelID: 1, ChapterNo: 1, UserID: 42,
		Content: "Second thoughts", Star: 3,
	})
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "CONFLICT", appError.Code)
}

func TestCreateMemo_StarBounds(t *testing.T) {
	service, chapterRepo, _, aggregator := newTestService(t)
	seedChapters(chapterRepo, 1, 1, 2, 3, 4)

	cases := []struct {
		name      string
		chapterNo int
		star      int
		wantErr   bool
	}{
		{name: "below minimum", chapterNo: 1, star: 0, wantErr: true},
		{name: "minimum", chapterNo: 1, star: 1, wantErr: false},
		{name: "maximum", chapterNo: 2, star: 10, wantErr: false},
		{name: "above maximum", chapterNo: 3, star: 11, wantErr: true},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.CreateMemo(context.Background(), chapter.CreateCommand{
				NovelID: 1, ChapterNo: testCase.chapterNo, UserID: 42,
				Content: "Rated", Star: testCase.star,
			})
			if testCase.wantErr {
				appError := apperr.As(err)
				require.NotNil(t, appError)
				assert.Equal(t, "VALIDATION_ERROR", appError.Code)
			} else {
				require.NoError(t, err)
			}
		})
	}

	// Only the two accepted ratings triggered a recompute.
	assert.Len(t, aggregator.calls, 2)
}

func TestCreateMemo_RequiresContent(t *testing.T) {
	service, chapterRepo, _, _ := newTestService(t)
	seedChapters(chapterRepo, 1, 1)

	_, err := service.CreateMemo(context.Background(), chapter.CreateCommand{
		NovelID: 1, ChapterNo: 1, UserID: 42, Star: 5,
	})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
}

// # Memo Updates

func TestUpdateMemo_PartialFields(t *testing.T) {
	service, chapterRepo, _, aggregator := newTestService(t)
	seedChapters(chapterRepo, 1, 1)

	// 1. Seed a memo via the create flow.
	_, err := service.CreateMemo(context.Background(), chapter.CreateCommand{
		NovelID: 1, ChapterNo: 1, UserID: 42,
		Content: "Original take", Star: 6,
	})
	require.NoError(t, err)

	// 2. Update only the star; content must survive.
	updated, err := service.UpdateMemo(context.Background(), chapter.UpdateCommand{
		NovelID: 1, ChapterNo: 1, UserID: 42,
		Star: pointer.To(9),
	})
	require.NoError(t, err)
	assert.Equal(t, "Original take", updated.Content)
	assert.Equal(t, 9, updated.Star)

	// 3. Update only the content; the star must survive.
	updated, err = service.UpdateMemo(context.Background(), chapter.UpdateCommand{
		NovelID: 1, ChapterNo: 1, UserID: 42,
		Content: pointer.To("Revised take"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Revised take", updated.Content)
	assert.Equal(t, 9, updated.Star)

	// 4. Create plus both updates: three recomputes in total.
	assert.Len(t, aggregator.calls, 3)
}

func TestUpdateMemo_AbsentIsNotFound(t *testing.T) {
	service, chapterRepo, _, aggregator := newTestService(t)
	seedChapters(chapterRepo, 1, 1)

	// 1. Update without a prior create: updates never create rows.
	_, err := service.UpdateMemo(context.Background(), chapter.UpdateCommand{
		NovelID: 1, ChapterNo: 1, UserID: 42,
		Content: pointer.To("Nothing to update"),
	})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
	assert.Empty(t, aggregator.calls)
}

func TestUpdateMemo_RejectsInvalidStar(t *testing.T) {
	service, chapterRepo, _, _ := newTestService(t)
	seedChapters(chapterRepo, 1, 1)

	_, err := service.CreateMemo(context.Background(), chapter.CreateCommand{
		NovelID: 1, ChapterNo: 1, UserID: 42,
		Content: "Rated", Star: 5,
	})
	require.NoError(t, err)

	_, err = service.UpdateMemo(context.Background(), chapter.UpdateCommand{
		NovelID: 1, ChapterNo: 1, UserID: 42,
		Star: pointer.To(11),
	})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
}

// # Memo Deletion

func TestDeleteMemo_ReturnsSnapshotAndRecomputes(t *testing.T) {
	service, chapterRepo, memoRepo, aggregator := newTestService(t)
	seedChapters(chapterRepo, 1, 1)

	_, err := service.CreateMemo(context.Background(), chapter.CreateCommand{
		NovelID: 1, ChapterNo: 1, UserID: 42,
		Content: "Short lived", Star: 4,
	})
	require.NoError(t, err)

	// 1. Delete returns the removed memo.
	snapshot, err := service.DeleteMemo(context.Background(), 1, 1, 42)
	require.NoError(t, err)
	assert.Equal(t, "Short lived", snapshot.Content)
	assert.Equal(t, 4, snapshot.Star)

	// 2. The row is physically gone.
	assert.Empty(t, memoRepo.memos)

	// 3. Create and delete both recomputed the aggregate.
	assert.Len(t, aggregator.calls, 2)
}

func TestDeleteMemo_AbsentIsNotFound(t *testing.T) {
	service, chapterRepo, _, _ := newTestService(t)
	seedChapters(chapterRepo, 1, 1)

	_, err := service.DeleteMemo(context.Background(), 1, 1, 42)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
}

// # Memo Retrieval

func TestGetMemo_AbsentIsNotFound(t *testing.T) {
	service, chapterRepo, _, _ := newTestService(t)
	seedChapters(chapterRepo, 1, 1)

	// Unlike the novel envelope, an absent chapter memo has no zero fallback.
	_, err := service.GetMemo(context.Background(), 1, 1, 42)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
}

// # Roster Composition

func TestListChaptersWithMemos_MergesOwnAnnotations(t *testing.T) {
	service, chapterRepo, _, _ := newTestService(t)
	seedChapters(chapterRepo, 1, 1, 2, 3)

	// 1. User 42 annotates chapters 1 and 3; user 7 annotates chapter 2.
	_, err := service.CreateMemo(context.Background(), chapter.CreateCommand{
		NovelID: 1, ChapterNo: 1, UserID: 42, Content: "Mine", Star: 8,
	})
	require.NoError(t, err)
	_, err = service.CreateMemo(context.Background(), chapter.CreateCommand{
		NovelID: 1, ChapterNo: 3, UserID: 42, Content: "Also mine", Star: 6,
	})
	require.NoError(t, err)
	_, err = service.CreateMemo(context.Background(), chapter.CreateCommand{
		NovelID: 1, ChapterNo: 2, UserID: 7, Content: "Someone else", Star: 2,
	})
	require.NoError(t, err)

	// 2. The merged roster is newest-first by default.
	entries, total, err := service.ListChaptersWithMemos(context.Background(), 1, 42, false, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, entries, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{entries[0].ChapterNo, entries[1].ChapterNo, entries[2].ChapterNo})

	// 3. Only the caller's memos are paired in; foreign memos stay invisible.
	require.NotNil(t, entries[0].Memo)
	assert.Equal(t, "Also mine", entries[0].Memo.Content)
	assert.Nil(t, entries[1].Memo)
	require.NotNil(t, entries[2].Memo)
	assert.Equal(t, "Mine", entries[2].Memo.Content)
}

func TestListChapters_AscendingWindow(t *testing.T) {
	service, chapterRepo, _, _ := newTestService(t)
	seedChapters(chapterRepo, 1, 1, 2, 3, 4, 5)

	chapters, total, err := service.ListChapters(context.Background(), 1, true, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, chapters, 2)
	assert.Equal(t, 3, chapters[0].ChapterNo)
	assert.Equal(t, 4, chapters[1].ChapterNo)
}

// # Chapter Ingestion

func TestCreateChapter_Validation(t *testing.T) {
	service, _, _, _ := newTestService(t)

	// 1. Missing title.
	err := service.CreateChapter(context.Background(), &chapter.Chapter{NovelID: 1, ChapterNo: 1})
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)

	// 2. Non-positive chapter number.
	err = service.CreateChapter(context.Background(), &chapter.Chapter{NovelID: 1, ChapterNo: 0, Title: "Prologue"})
	appError = apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)

	// 3. Valid payload persists.
	err = service.CreateChapter(context.Background(), &chapter.Chapter{NovelID: 1, ChapterNo: 1, Title: "Prologue"})
	require.NoError(t, err)
}
