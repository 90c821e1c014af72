// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package novel_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seojinpark/novelshelf/internal/core/novel"
	"github.com/seojinpark/novelshelf/internal/platform/apperr"
)

// # In-Memory Fakes

type memoKey struct {
	novelID int64
	userID  int64
}

// fakeNovelRepo backs the service with a map of catalogue records.
type fakeNovelRepo struct {
	novels map[int64]*novel.Novel
}

func (f *fakeNovelRepo) List(_ context.Context, _ novel.Filter, _, _ int) ([]*novel.Novel, int, error) {
	return nil, 0, nil
}

func (f *fakeNovelRepo) ListWithMemos(_ context.Context, _ novel.Filter, _ int64, _, _ int) ([]*novel.NovelWithMemo, int, error) {
	return nil, 0, nil
}

func (f *fakeNovelRepo) FindByID(_ context.Context, id int64) (*novel.Novel, error) {
	record, ok := f.novels[id]
	if !ok {
		return nil, apperr.NotFound("Novel")
	}
	return record, nil
}

func (f *fakeNovelRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.novels[id]
	return ok, nil
}

func (f *fakeNovelRepo) Create(_ context.Context, record *novel.Novel) error {
	record.ID = int64(len(f.novels) + 1)
	f.novels[record.ID] = record
	return nil
}

// fakeMemoRepo stores envelopes and per-user chapter stars keyed by (novel, user).
type fakeMemoRepo struct {
	memos map[memoKey]*novel.Memo
	stars map[memoKey][]int
}

func newFakeMemoRepo() *fakeMemoRepo {
	return &fakeMemoRepo{
		memos: map[memoKey]*novel.Memo{},
		stars: map[memoKey][]int{},
	}
}

func (f *fakeMemoRepo) Find(_ context.Context, novelID, userID int64) (*novel.Memo, error) {
	stored, ok := f.memos[memoKey{novelID, userID}]
	if !ok {
		return nil, apperr.NotFound("Novel memo")
	}
	clone := *stored
	return &clone, nil
}

func (f *fakeMemoRepo) Save(_ context.Context, memo *novel.Memo) error {
	clone := *memo
	f.memos[memoKey{memo.NovelID, memo.UserID}] = &clone
	return nil
}

func (f *fakeMemoRepo) Delete(_ context.Context, novelID, userID int64) error {
	key := memoKey{novelID, userID}
	if _, ok := f.memos[key]; !ok {
		return apperr.NotFound("Novel memo")
	}
	delete(f.memos, key)
	return nil
}

func (f *fakeMemoRepo) AverageStar(_ context.Context, novelID, userID int64) (float64, int, error) {
	values := f.stars[memoKey{novelID, userID}]
	if len(values) == 0 {
		return 0, 0, nil
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values)), len(values), nil
}

// fakeFetcher satisfies the fetch dependency; memo tests never reach it.
type fakeFetcher struct {
	result *novel.FetchedNovel
	err    error
}

func (f *fakeFetcher) Fetch(_ context.Context, _ novel.Platform, _ string) (*novel.FetchedNovel, error) {
	return f.result, f.err
}

func newTestService(novels *fakeNovelRepo, memos *fakeMemoRepo) *novel.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return novel.NewService(novels, memos, &fakeFetcher{}, logger)
}

func catalogueWith(ids ...int64) *fakeNovelRepo {
	repo := &fakeNovelRepo{novels: map[int64]*novel.Novel{}}
	for _, id := range ids {
		repo.novels[id] = &novel.Novel{ID: id, Title: "novel"}
	}
	return repo
}

// # Envelope Read Semantics

/*
TestGetMemo_AbsentReturnsZeroEnvelope verifies reads never create rows and
absent rows surface as the zero envelope.
*/
func TestGetMemo_AbsentReturnsZeroEnvelope(t *testing.T) {
	memos := newFakeMemoRepo()
	service := newTestService(catalogueWith(1), memos)

	memo, err := service.GetMemo(context.Background(), 1, 42)
	require.NoError(t, err)

	// 1. Zero-valued envelope with the key populated
	assert.Equal(t, int64(1), memo.NovelID)
	assert.Equal(t, int64(42), memo.UserID)
	assert.Nil(t, memo.Content)
	assert.Nil(t, memo.AverageStar)
	assert.False(t, memo.IsFavorite)
	assert.Nil(t, memo.ModifiedAt)

	// 2. Reading must not create a row
	assert.Empty(t, memos.memos)
}

/*
TestGetMemo_UnknownNovel verifies envelope operations require the novel to exist.
*/
func TestGetMemo_UnknownNovel(t *testing.T) {
	service := newTestService(catalogueWith(), newFakeMemoRepo())

	_, err := service.GetMemo(context.Background(), 99, 42)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
}

// # Content Facet

/*
TestUpsertMemo_CreateConflict verifies the creation precondition: an envelope
that already carries content rejects a second create, while a row holding only
a favorite flag does not count as an existing memo.
*/
func TestUpsertMemo_CreateConflict(t *testing.T) {
	memos := newFakeMemoRepo()
	service := newTestService(catalogueWith(1), memos)

	// 1. First create succeeds
	_, err := service.UpsertMemo(context.Background(), 1, 42, "first impressions", true)
	require.NoError(t, err)

	// 2. Second create on the same key conflicts
	_, err = service.UpsertMemo(context.Background(), 1, 42, "again", true)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "CONFLICT", appError.Code)

	// 3. A favorite-only envelope does not block creation
	_, err = service.MarkAsFavorite(context.Background(), 1, 7)
	require.NoError(t, err)
	_, err = service.UpsertMemo(context.Background(), 1, 7, "late memo", true)
	assert.NoError(t, err)
}

/*
TestUpsertMemo_IdempotentOverwrite verifies updating content twice yields the
same final state and preserves the untouched facets.
*/
func TestUpsertMemo_IdempotentOverwrite(t *testing.T) {
	memos := newFakeMemoRepo()
	service := newTestService(catalogueWith(1), memos)

	// 1. Seed an envelope carrying a favorite flag and a derived average
	_, err := service.MarkAsFavorite(context.Background(), 1, 42)
	require.NoError(t, err)
	memos.stars[memoKey{1, 42}] = []int{7}
	_, err = service.UpdateAverageStar(context.Background(), 1, 42)
	require.NoError(t, err)

	// 2. Overwrite content twice
	first, err := service.UpsertMemo(context.Background(), 1, 42, "X", false)
	require.NoError(t, err)
	second, err := service.UpsertMemo(context.Background(), 1, 42, "X", false)
	require.NoError(t, err)

	// 3. Same final content, other facets untouched
	assert.Equal(t, *first.Content, *second.Content)
	assert.Equal(t, "X", *second.Content)
	assert.True(t, second.IsFavorite)
	require.NotNil(t, second.AverageStar)
	assert.Equal(t, 7.0, *second.AverageStar)
}

/*
TestUpsertMemo_RequiresContent verifies blank content is a validation failure.
*/
func TestUpsertMemo_RequiresContent(t *testing.T) {
	service := newTestService(catalogueWith(1), newFakeMemoRepo())

	_, err := service.UpsertMemo(context.Background(), 1, 42, "", false)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
}

/*
TestDeleteMemo_PrunesEmptyRow verifies clearing the last facet removes the
row physically, and deleting an absent memo is a quiet no-op.
*/
func TestDeleteMemo_PrunesEmptyRow(t *testing.T) {
	memos := newFakeMemoRepo()
	service := newTestService(catalogueWith(1), memos)

	// 1. Deleting a nonexistent memo returns the zero envelope
	memo, err := service.DeleteMemo(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.Nil(t, memo.Content)

	// 2. A content-only envelope vanishes entirely after deletion
	_, err = service.UpsertMemo(context.Background(), 1, 42, "to be removed", true)
	require.NoError(t, err)
	_, err = service.DeleteMemo(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.Empty(t, memos.memos)

	// 3. A favorite survives content deletion
	_, err = service.UpsertMemo(context.Background(), 1, 7, "keep the flag", true)
	require.NoError(t, err)
	_, err = service.MarkAsFavorite(context.Background(), 1, 7)
	require.NoError(t, err)
	memo, err = service.DeleteMemo(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Nil(t, memo.Content)
	assert.True(t, memo.IsFavorite)
	assert.Len(t, memos.memos, 1)
}

// # Favorite Facet

/*
TestUnmarkAsFavorite_LazyDeletion verifies an envelope holding only the
favorite flag is removed once unfavorited, and a later read reports the zero
envelope rather than an error.
*/
func TestUnmarkAsFavorite_LazyDeletion(t *testing.T) {
	memos := newFakeMemoRepo()
	service := newTestService(catalogueWith(1), memos)

	// 1. Favorite creates the row lazily
	memo, err := service.MarkAsFavorite(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.True(t, memo.IsFavorite)
	assert.Len(t, memos.memos, 1)

	// 2. Unfavorite prunes the now-empty row
	memo, err = service.UnmarkAsFavorite(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.False(t, memo.IsFavorite)
	assert.Empty(t, memos.memos)

	// 3. Subsequent read is the zero envelope, not NotFound
	memo, err = service.GetMemo(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.False(t, memo.IsFavorite)
}

// # Average Star Facet

/*
TestUpdateAverageStar_Recompute verifies the mean is taken over the user's
rated chapters and rounded to 2 decimal places.
*/
func TestUpdateAverageStar_Recompute(t *testing.T) {
	memos := newFakeMemoRepo()
	service := newTestService(catalogueWith(1), memos)

	memos.stars[memoKey{1, 42}] = []int{8, 6, 10}

	memo, err := service.UpdateAverageStar(context.Background(), 1, 42)
	require.NoError(t, err)

	require.NotNil(t, memo.AverageStar)
	assert.Equal(t, 8.0, *memo.AverageStar)

	// Rounding check: {7, 7, 8} -> 7.33
	memos.stars[memoKey{1, 42}] = []int{7, 7, 8}
	memo, err = service.UpdateAverageStar(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.Equal(t, 7.33, *memo.AverageStar)
}

/*
TestUpdateAverageStar_ZeroRatedChapters verifies the recompute is a no-op when
the user holds no chapter ratings: nothing is persisted and a previously
stored average stays in place.
*/
func TestUpdateAverageStar_ZeroRatedChapters(t *testing.T) {
	memos := newFakeMemoRepo()
	service := newTestService(catalogueWith(1), memos)

	// 1. No ratings and no envelope: nothing is created
	memo, err := service.UpdateAverageStar(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.Nil(t, memo.AverageStar)
	assert.Empty(t, memos.memos)

	// 2. A stored average survives a recompute with zero rated chapters
	memos.stars[memoKey{1, 42}] = []int{9}
	_, err = service.UpdateAverageStar(context.Background(), 1, 42)
	require.NoError(t, err)

	memos.stars[memoKey{1, 42}] = nil
	memo, err = service.UpdateAverageStar(context.Background(), 1, 42)
	require.NoError(t, err)
	require.NotNil(t, memo.AverageStar)
	assert.Equal(t, 9.0, *memo.AverageStar)
}

/*
TestUpdateAverageStar_ScopedToUser verifies one user's average is unaffected
by another user's ratings on the same novel.
*/
func TestUpdateAverageStar_ScopedToUser(t *testing.T) {
	memos := newFakeMemoRepo()
	service := newTestService(catalogueWith(1), memos)

	memos.stars[memoKey{1, 42}] = []int{10}
	memos.stars[memoKey{1, 7}] = []int{2, 2, 2}

	memoA, err := service.UpdateAverageStar(context.Background(), 1, 42)
	require.NoError(t, err)
	memoB, err := service.UpdateAverageStar(context.Background(), 1, 7)
	require.NoError(t, err)

	assert.Equal(t, 10.0, *memoA.AverageStar)
	assert.Equal(t, 2.0, *memoB.AverageStar)
}
