// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package chapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seojinpark/novelshelf/internal/platform/apperr"
	"github.com/seojinpark/novelshelf/internal/platform/database/schema"
	"github.com/seojinpark/novelshelf/internal/platform/dberr"
)

// # PostgreSQL Repositories

// chapterRepository implements the [ChapterRepository] interface using pgx.
type chapterRepository struct {
	pool *pgxpool.Pool
}

// NewChapterRepository constructs a PostgreSQL backed chapter store.
func NewChapterRepository(pool *pgxpool.Pool) ChapterRepository {
	return &chapterRepository{pool: pool}
}

// # Chapter Repository Implementation

/*
ListByNovel returns a window of a novel's chapters ordered by chapter number.

Parameters:
  - context: context.Context
  - novelID: int64
  - asc: bool
  - limit: int
  - offset: int

Returns:
  - []*Chapter: Slice of chapters in the window
  - int: Total chapters for the novel
  - error: Database execution errors
*/
func (repository *chapterRepository) ListByNovel(context context.Context, novelID int64, asc bool, limit, offset int) ([]*Chapter, int, error) {

	direction := "DESC"
	if asc {
		direction = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT
			%s, %s, %s, %s,
			%s, %s, %s, %s,
			%s, %s, %s,
			COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1
		ORDER BY %s %s
		LIMIT $2 OFFSET $3
	`,
		schema.CoreChapter.ID,
		schema.CoreChapter.NovelID,
		schema.CoreChapter.ChapterNo,
		schema.CoreChapter.Title,
		schema.CoreChapter.RidiID,
		schema.CoreChapter.KakaoID,
		schema.CoreChapter.SeriesID,
		schema.CoreChapter.MunpiaID,
		schema.CoreChapter.PublishedAt,
		schema.CoreChapter.CreatedAt,
		schema.CoreChapter.UpdatedAt,
		schema.CoreChapter.Table,
		schema.CoreChapter.NovelID,
		schema.CoreChapter.ChapterNo, direction,
	)

	rows, err := repository.pool.Query(context, query, novelID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list chapters: %w", err)
	}
	defer rows.Close()

	var chapters []*Chapter
	var totalCount int

	for rows.Next() {
		var chapter Chapter
		err := rows.Scan(
			&chapter.ID,
			&chapter.NovelID,
			&chapter.ChapterNo,
			&chapter.Title,
			&chapter.RidiID,
			&chapter.KakaoID,
			&chapter.SeriesID,
			&chapter.MunpiaID,
			&chapter.PublishedAt,
			&chapter.CreatedAt,
			&chapter.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan chapter: %w", err)
		}
		chapters = append(chapters, &chapter)
	}

	return chapters, totalCount, nil
}

/*
Exists reports whether the chapter identified by (novel, chapter_no) is present.

Parameters:
  - context: context.Context
  - novelID: int64
  - chapterNo: int

Returns:
  - bool: Presence flag
  - error: Database execution errors
*/
func (repository *chapterRepository) Exists(context context.Context, novelID int64, chapterNo int) (bool, error) {

	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)",
		schema.CoreChapter.Table, schema.CoreChapter.NovelID, schema.CoreChapter.ChapterNo)

	var exists bool
	if err := repository.pool.QueryRow(context, query, novelID, chapterNo).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres: failed to check chapter existence: %w", err)
	}

	return exists, nil
}

/*
Create persists a new chapter from the ingestion flow.

Description: Maps the two constraint classes onto the domain taxonomy: a
unique violation on (novelid, chapterno) is a Conflict, and a foreign-key
violation means the owning novel does not exist.

Parameters:
  - context: context.Context
  - chapter: *Chapter

Returns:
  - error: apperr.Conflict, apperr.NotFound, or storage failures
*/
func (repository *chapterRepository) Create(context context.Context, chapter *Chapter) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s,
			%s, %s, %s, %s,
			%s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s, %s
	`,
		schema.CoreChapter.Table,
		schema.CoreChapter.NovelID, schema.CoreChapter.ChapterNo, schema.CoreChapter.Title,
		schema.CoreChapter.RidiID, schema.CoreChapter.KakaoID, schema.CoreChapter.SeriesID, schema.CoreChapter.MunpiaID,
		schema.CoreChapter.PublishedAt,
		schema.CoreChapter.ID, schema.CoreChapter.CreatedAt, schema.CoreChapter.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		chapter.NovelID,
		chapter.ChapterNo,
		chapter.Title,
		chapter.RidiID,
		chapter.KakaoID,
		chapter.SeriesID,
		chapter.MunpiaID,
		chapter.PublishedAt,
	).Scan(&chapter.ID, &chapter.CreatedAt, &chapter.UpdatedAt)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Chapter already exists")
		}
		var pgError *pgconn.PgError
		if errors.As(err, &pgError) && pgError.Code == pgerrcode.ForeignKeyViolation {
			return apperr.NotFound("Novel")
		}
		return fmt.Errorf("postgres: failed to create chapter: %w", err)
	}

	return nil
}
