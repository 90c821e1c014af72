// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package chapter

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

// NewMemoRepository constructs a PostgreSQL backed chapter-memo store.
func NewMemoRepository(pool *pgxpool.Pool) MemoRepository {
	return &memoRepository{pool: pool}
}

// memoColumns is the SELECT list shared by the memo lookups.
func memoColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s",
		schema.LibraryChapterMemo.NovelID,
		schema.LibraryChapterMemo.ChapterNo,
		schema.LibraryChapterMemo.UserID,
		schema.LibraryChapterMemo.Content,
		schema.LibraryChapterMemo.Star,
		schema.LibraryChapterMemo.ModifiedAt,
		schema.LibraryChapterMemo.CreatedAt,
	)
}

// scanTargets maps one memo row into the destination entity.
func scanTargets(memo *Memo) []any {
	return []any{
		&memo.NovelID,
		&memo.ChapterNo,
		&memo.UserID,
		&memo.Content,
		&memo.Star,
		&memo.ModifiedAt,
		&memo.CreatedAt,
	}
}

// # Memo Repository Implementation

/*
Find returns the memo for the given (novel, chapter, user) key.

Parameters:
  - context: context.Context
  - novelID: int64
  - chapterNo: int
  - userID: int64

Returns:
  - *Memo: The persisted memo
  - error: apperr.NotFound if no row exists for the key
*/
func (repository *memoRepository) Find(context context.Context, novelID int64, chapterNo int, userID int64) (*Memo, error) {

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND %s = $2 AND %s = $3
	`,
		memoColumns(),
		schema.LibraryChapterMemo.Table,
		schema.LibraryChapterMemo.NovelID,
		schema.LibraryChapterMemo.ChapterNo,
		schema.LibraryChapterMemo.UserID,
	)

	memo := &Memo{}
	if err := repository.pool.QueryRow(context, query, novelID, chapterNo, userID).Scan(scanTargets(memo)...); err != nil {
		return nil, dberr.Wrap(err, "Chapter memo")
	}

	return memo, nil
}

/*
FindByChapters returns one user's memos restricted to a chapter-number set.

Description: Matches the window with a single ANY($3) array predicate rather
than issuing one lookup per chapter.

Parameters:
  - context: context.Context
  - novelID: int64
  - userID: int64
  - chapterNos: []int

Returns:
  - []*Memo: The user's memos within the window
  - error: Database execution errors
*/
func (repository *memoRepository) FindByChapters(context context.Context, novelID, userID int64, chapterNos []int) ([]*Memo, error) {

	if len(chapterNos) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND %s = $2 AND %s = ANY($3)
	`,
		memoColumns(),
		schema.LibraryChapterMemo.Table,
		schema.LibraryChapterMemo.NovelID,
		schema.LibraryChapterMemo.UserID,
		schema.LibraryChapterMemo.ChapterNo,
	)

	rows, err := repository.pool.Query(context, query, novelID, userID, chapterNos)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list chapter memos: %w", err)
	}
	defer rows.Close()

	var memos []*Memo
	for rows.Next() {
		memo := &Memo{}
		if err := rows.Scan(scanTargets(memo)...); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan chapter memo: %w", err)
		}
		memos = append(memos, memo)
	}

	return memos, nil
}

/*
Create inserts a new memo row.

Parameters:
  - context: context.Context
  - memo: *Memo (CreatedAt populated on return)

Returns:
  - error: apperr.Conflict if a row already exists for the key
*/
func (repository *memoRepository) Create(context context.Context, memo *Memo) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`,
		schema.LibraryChapterMemo.Table,
		schema.LibraryChapterMemo.NovelID,
		schema.LibraryChapterMemo.ChapterNo,
		schema.LibraryChapterMemo.UserID,
		schema.LibraryChapterMemo.Content,
		schema.LibraryChapterMemo.Star,
		schema.LibraryChapterMemo.ModifiedAt,
		schema.LibraryChapterMemo.CreatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		memo.NovelID,
		memo.ChapterNo,
		memo.UserID,
		memo.Content,
		memo.Star,
		memo.ModifiedAt,
	).Scan(&memo.CreatedAt)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Chapter memo already exists")
		}
		return fmt.Errorf("postgres: failed to create chapter memo: %w", err)
	}

	return nil
}

/*
Update overwrites the mutable fields of an existing memo row.

Parameters:
  - context: context.Context
  - memo: *Memo

Returns:
  - error: apperr.NotFound if no row exists for the key
*/
func (repository *memoRepository) Update(context context.Context, memo *Memo) error {

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = $3
		WHERE %s = $4 AND %s = $5 AND %s = $6
	`,
		schema.LibraryChapterMemo.Table,
		schema.LibraryChapterMemo.Content,
		schema.LibraryChapterMemo.Star,
		schema.LibraryChapterMemo.ModifiedAt,
		schema.LibraryChapterMemo.NovelID,
		schema.LibraryChapterMemo.ChapterNo,
		schema.LibraryChapterMemo.UserID,
	)

	result, err := repository.pool.Exec(context, query,
		memo.Content,
		memo.Star,
		memo.ModifiedAt,
		memo.NovelID,
		memo.ChapterNo,
		memo.UserID,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to update chapter memo: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("Chapter memo")
	}

	return nil
}

/*
Delete physically removes the memo row for the key.

Parameters:
  - context: context.Context
  - novelID: int64
  - chapterNo: int
  - userID: int64

Returns:
  - error: apperr.NotFound if no row exists, or storage failures
*/
func (repository *memoRepository) Delete(context context.Context, novelID int64, chapterNo int, userID int64) error {

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2 AND %s = $3",
		schema.LibraryChapterMemo.Table,
		schema.LibraryChapterMemo.NovelID,
		schema.LibraryChapterMemo.ChapterNo,
		schema.LibraryChapterMemo.UserID,
	)

	result, err := repository.pool.Exec(context, query, novelID, chapterNo, userID)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete chapter memo: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("Chapter memo")
	}

	return nil
}
