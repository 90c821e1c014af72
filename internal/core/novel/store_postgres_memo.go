// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package novel

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seojinpark/novelshelf/internal/platform/apperr"
	"github.com/seojinpark/novelshelf/internal/platform/database/schema"
	"github.com/seojinpark/novelshelf/internal/platform/dberr"
)

// memoRepository implements the [MemoRepository] interface using pgx.
type memoRepository struct {
	pool *pgxpool.Pool
}

// NewMemoRepository constructs a PostgreSQL backed envelope store.
func NewMemoRepository(pool *pgxpool.Pool) MemoRepository {
	return &memoRepository{pool: pool}
}

// # Memo Repository Implementation

/*
Find returns the envelope for the given (novel, user) key.

Parameters:
  - context: context.Context
  - novelID: int64
  - userID: int64

Returns:
  - *Memo: The persisted envelope
  - error: apperr.NotFound if no row exists for the key
*/
func (repository *memoRepository) Find(context context.Context, novelID, userID int64) (*Memo, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
	`,
		schema.LibraryNovelMemo.NovelID,
		schema.LibraryNovelMemo.UserID,
		schema.LibraryNovelMemo.Content,
		schema.LibraryNovelMemo.AverageStar,
		schema.LibraryNovelMemo.IsFavorite,
		schema.LibraryNovelMemo.ModifiedAt,
		schema.LibraryNovelMemo.Table,
		schema.LibraryNovelMemo.NovelID,
		schema.LibraryNovelMemo.UserID,
	)

	memo := &Memo{}
	err := repository.pool.QueryRow(context, query, novelID, userID).Scan(
		&memo.NovelID,
		&memo.UserID,
		&memo.Content,
		&memo.AverageStar,
		&memo.IsFavorite,
		&memo.ModifiedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Novel memo")
	}

	return memo, nil
}

/*
Save upserts the envelope keyed by (NovelID, UserID).

Description: Relies on the composite primary key for the upsert decision.
ON CONFLICT overwrites every facet, matching the read-modify-write pattern
used by the service layer, so the row always mirrors the in-memory envelope.

Parameters:
  - context: context.Context
  - memo: *Memo

Returns:
  - error: Storage or constraint failures
*/
func (repository *memoRepository) Save(context context.Context, memo *Memo) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (%s, %s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = NOW()
	`,
		schema.LibraryNovelMemo.Table,
		schema.LibraryNovelMemo.NovelID,
		schema.LibraryNovelMemo.UserID,
		schema.LibraryNovelMemo.Content,
		schema.LibraryNovelMemo.AverageStar,
		schema.LibraryNovelMemo.IsFavorite,
		schema.LibraryNovelMemo.ModifiedAt,
		schema.LibraryNovelMemo.NovelID, schema.LibraryNovelMemo.UserID,
		schema.LibraryNovelMemo.Content, schema.LibraryNovelMemo.Content,
		schema.LibraryNovelMemo.AverageStar, schema.LibraryNovelMemo.AverageStar,
		schema.LibraryNovelMemo.IsFavorite, schema.LibraryNovelMemo.IsFavorite,
		schema.LibraryNovelMemo.ModifiedAt, schema.LibraryNovelMemo.ModifiedAt,
		schema.LibraryNovelMemo.UpdatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		memo.NovelID,
		memo.UserID,
		memo.Content,
		memo.AverageStar,
		memo.IsFavorite,
		memo.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save novel memo: %w", err)
	}

	return nil
}

/*
Delete physically removes the envelope row for the key.

Parameters:
  - context: context.Context
  - novelID: int64
  - userID: int64

Returns:
  - error: apperr.NotFound if no row exists, or storage failures
*/
func (repository *memoRepository) Delete(context context.Context, novelID, userID int64) error {

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2",
		schema.LibraryNovelMemo.Table,
		schema.LibraryNovelMemo.NovelID,
		schema.LibraryNovelMemo.UserID,
	)

	result, err := repository.pool.Exec(context, query, novelID, userID)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete novel memo: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("Novel memo")
	}

	return nil
}

/*
AverageStar computes the mean of one user's chapter stars for a novel.

Description: A full re-scan over the user's chapter memos for the novel. AVG
and COUNT are taken in one round-trip; a user with zero rated chapters yields
a zero count with the mean coalesced to zero.

Parameters:
  - context: context.Context
  - novelID: int64
  - userID: int64

Returns:
  - float64: Arithmetic mean of the user's star values (unrounded)
  - int: Number of rated chapters contributing to the mean
  - error: Database retrieval failures
*/
func (repository *memoRepository) AverageStar(context context.Context, novelID, userID int64) (float64, int, error) {

	query := fmt.Sprintf(`
		SELECT COALESCE(AVG(%s), 0), COUNT(%s)
		FROM %s
		WHERE %s = $1 AND %s = $2
	`,
		schema.LibraryChapterMemo.Star,
		schema.LibraryChapterMemo.Star,
		schema.LibraryChapterMemo.Table,
		schema.LibraryChapterMemo.NovelID,
		schema.LibraryChapterMemo.UserID,
	)

	var average float64
	var rated int
	if err := repository.pool.QueryRow(context, query, novelID, userID).Scan(&average, &rated); err != nil {
		return 0, 0, fmt.Errorf("postgres: failed to compute average star: %w", err)
	}

	return average, rated, nil
}
