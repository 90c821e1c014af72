// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

/*
Package novel provides the PostgreSQL implementation for the catalogue's data access.

It utilizes several Postgres features to keep discovery queries in one round-trip:
  - Window Functions: Calculates total result counts without a separate 'COUNT' query.
  - LEFT JOIN Hydration: Merges the requesting user's envelope into catalogue rows.
  - ILIKE with explicit ESCAPE: Case-insensitive substring search with '%'/'_' treated literally.
*/
package novel

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seojinpark/novelshelf/internal/platform/database/schema"
	"github.com/seojinpark/novelshelf/internal/platform/dberr"
)

// # PostgreSQL Repositories

// novelRepository implements the [NovelRepository] interface using pgx.
type novelRepository struct {
	pool *pgxpool.Pool
}

// NewNovelRepository constructs a PostgreSQL backed novel store.
func NewNovelRepository(pool *pgxpool.Pool) NovelRepository {
	return &novelRepository{pool: pool}
}

// novelColumns is the aliased SELECT list shared by every catalogue query.
func novelColumns(alias string) string {
	cols := schema.CoreNovel.Columns()
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = alias + "." + col
	}
	return strings.Join(parts, ", ")
}

// scanTargets maps one aliased catalogue row into the destination entity.
func scanTargets(novel *Novel) []any {
	return []any{
		&novel.ID,
		&novel.Title,
		&novel.Author,
		&novel.Description,
		&novel.Category,
		&novel.Slug,
		&novel.ImageURL,
		&novel.RidiID,
		&novel.KakaoID,
		&novel.SeriesID,
		&novel.MunpiaID,
		&novel.PublishedAt,
		&novel.LastUpdatedAt,
		&novel.CreatedAt,
		&novel.UpdatedAt,
	}
}

/*
escapeLike neutralizes LIKE metacharacters in a user-supplied search term.

Description: The search contract treats '%' and '_' as literal characters, so
both are escaped along with the escape character itself before the term is
wrapped in wildcards.

Parameters:
  - term: string (Raw user query)

Returns:
  - string: Escaped term safe for an ILIKE ... ESCAPE '\' predicate
*/
func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}

/*
applySearch appends the text-search predicate for the active filter scope.

Description: FilterByAll matches the term against title, author, and
description jointly; a narrower scope restricts the predicate to one column.

Parameters:
  - builder: *strings.Builder (Query under construction)
  - filter: Filter
  - args: []any (Positional arguments accumulated so far)
  - argID: int (Next positional placeholder index)

Returns:
  - []any: Extended argument list
  - int: Next free placeholder index
*/
func applySearch(builder *strings.Builder, filter Filter, args []any, argID int) ([]any, int) {
	if filter.Query == "" {
		return args, argID
	}

	pattern := "%" + escapeLike(filter.Query) + "%"

	// Column scope resolution
	switch filter.FilterBy {
	case FilterByTitle:
		builder.WriteString(fmt.Sprintf(` AND n.%s ILIKE $%d ESCAPE '\'`, schema.CoreNovel.Title, argID))
	case FilterByAuthor:
		builder.WriteString(fmt.Sprintf(` AND n.%s ILIKE $%d ESCAPE '\'`, schema.CoreNovel.Author, argID))
	case FilterByDescription:
		builder.WriteString(fmt.Sprintf(` AND n.%s ILIKE $%d ESCAPE '\'`, schema.CoreNovel.Description, argID))
	default:
		builder.WriteString(fmt.Sprintf(
			` AND (n.%s ILIKE $%d ESCAPE '\' OR n.%s ILIKE $%d ESCAPE '\' OR n.%s ILIKE $%d ESCAPE '\')`,
			schema.CoreNovel.Title, argID,
			schema.CoreNovel.Author, argID,
			schema.CoreNovel.Description, argID,
		))
	}

	return append(args, pattern), argID + 1
}

/*
applyOrder appends the ORDER BY clause for the requested sort column.

Description: Defaults to last_updated_at descending. The novel ID is appended
as a tiebreaker so pagination windows stay stable across requests.
*/
func applyOrder(builder *strings.Builder, filter Filter) {
	column := schema.CoreNovel.LastUpdatedAt
	switch filter.OrderBy {
	case OrderByTitle:
		column = schema.CoreNovel.Title
	case OrderByAuthor:
		column = schema.CoreNovel.Author
	case OrderByPublishedAt:
		column = schema.CoreNovel.PublishedAt
	case OrderByLastUpdatedAt:
		column = schema.CoreNovel.LastUpdatedAt
	}

	direction := "DESC"
	if filter.Asc {
		direction = "ASC"
	}

	builder.WriteString(fmt.Sprintf(" ORDER BY n.%s %s, n.%s DESC", column, direction, schema.CoreNovel.ID))
}

// # Novel Repository Implementation

/*
List returns a filtered, paginated slice of novels and the total count.

Description: Uses COUNT(*) OVER() to retrieve the total record count in the
same round-trip as the page itself. Filters are assembled dynamically so the
planner only sees predicates the caller actually supplied.

Parameters:
  - context: context.Context
  - filter: Filter (Search scope, category, ordering)
  - limit: int
  - offset: int

Returns:
  - []*Novel: Slice of hydrated catalogue entities
  - int: Total count matching filters
  - error: Database execution errors
*/
func (repository *novelRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Novel, int, error) {

	// Query build initialization
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s n
		WHERE TRUE
	`, novelColumns("n"), schema.CoreNovel.Table))

	// Category filtering
	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND n.%s = $%d", schema.CoreNovel.Category, argID))
		args = append(args, filter.Category)
		argID++
	}

	// Text search filtering
	args, argID = applySearch(&queryBuilder, filter, args, argID)

	// Sorting
	applyOrder(&queryBuilder, filter)

	// Pagination injection
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	// Query execution
	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list novels: %w", err)
	}
	defer rows.Close()

	var novels []*Novel
	var totalCount int

	for rows.Next() {
		novel := &Novel{}
		targets := append(scanTargets(novel), &totalCount)
		if err := rows.Scan(targets...); err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan novel: %w", err)
		}
		novels = append(novels, novel)
	}

	return novels, totalCount, nil
}

/*
ListWithMemos returns the filtered catalogue left-joined with one user's envelopes.

Description: The LEFT JOIN keeps every catalogue row regardless of whether the
user holds an envelope for it; absent envelopes surface as NULL columns which
are normalized into the zero-valued [Memo] during scanning.

Parameters:
  - context: context.Context
  - filter: Filter
  - userID: int64 (Envelope owner)
  - limit: int
  - offset: int

Returns:
  - []*NovelWithMemo: Catalogue rows paired with the user's envelopes
  - int: Total count matching filters
  - error: Database execution errors
*/
func (repository *novelRepository) ListWithMemos(context context.Context, filter Filter, userID int64, limit, offset int) ([]*NovelWithMemo, int, error) {

	// Query build initialization
	var queryBuilder strings.Builder
	args := []any{userID}
	argID := 2

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s,
			m.%s, m.%s, COALESCE(m.%s, FALSE), m.%s,
			COUNT(*) OVER() AS total_count
		FROM %s n
		LEFT JOIN %s m ON m.%s = n.%s AND m.%s = $1
		WHERE TRUE
	`,
		novelColumns("n"),
		schema.LibraryNovelMemo.Content,
		schema.LibraryNovelMemo.AverageStar,
		schema.LibraryNovelMemo.IsFavorite,
		schema.LibraryNovelMemo.ModifiedAt,
		schema.CoreNovel.Table,
		schema.LibraryNovelMemo.Table,
		schema.LibraryNovelMemo.NovelID, schema.CoreNovel.ID,
		schema.LibraryNovelMemo.UserID,
	))

	// Category filtering
	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND n.%s = $%d", schema.CoreNovel.Category, argID))
		args = append(args, filter.Category)
		argID++
	}

	// Text search filtering
	args, argID = applySearch(&queryBuilder, filter, args, argID)

	// Sorting
	applyOrder(&queryBuilder, filter)

	// Pagination injection
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	// Query execution
	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list novels with memos: %w", err)
	}
	defer rows.Close()

	var results []*NovelWithMemo
	var totalCount int

	for rows.Next() {
		entry := &NovelWithMemo{}
		targets := append(scanTargets(&entry.Novel),
			&entry.Memo.Content,
			&entry.Memo.AverageStar,
			&entry.Memo.IsFavorite,
			&entry.Memo.ModifiedAt,
			&totalCount,
		)
		if err := rows.Scan(targets...); err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan novel with memo: %w", err)
		}

		// Envelope key hydration
		entry.Memo.NovelID = entry.ID
		entry.Memo.UserID = userID

		results = append(results, entry)
	}

	return results, totalCount, nil
}

/*
FindByID retrieves a novel record by its primary key.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Novel: The hydrated domain entity
  - error: apperr.NotFound if the novel does not exist
*/
func (repository *novelRepository) FindByID(context context.Context, id int64) (*Novel, error) {

	query := fmt.Sprintf(`SELECT %s FROM %s n WHERE n.%s = $1`,
		novelColumns("n"), schema.CoreNovel.Table, schema.CoreNovel.ID)

	novel := &Novel{}
	if err := repository.pool.QueryRow(context, query, id).Scan(scanTargets(novel)...); err != nil {
		return nil, dberr.Wrap(err, "Novel")
	}

	return novel, nil
}

/*
Exists reports whether a novel with the given ID is present.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - bool: Presence flag
  - error: Database execution errors
*/
func (repository *novelRepository) Exists(context context.Context, id int64) (bool, error) {

	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)",
		schema.CoreNovel.Table, schema.CoreNovel.ID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres: failed to check novel existence: %w", err)
	}

	return exists, nil
}

/*
Create persists a new novel and assigns its generated identity.

Description: The database generates the numeric identity and row timestamps,
which are scanned back into the entity via RETURNING. A duplicate platform
identifier trips the global unique constraints and surfaces as a Conflict.

Parameters:
  - context: context.Context
  - novel: *Novel (Metadata from the fetch service)

Returns:
  - error: apperr.Conflict on a duplicate platform identifier, or storage failures
*/
func (repository *novelRepository) Create(context context.Context, novel *Novel) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s,
			%s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING %s, %s, %s
	`,
		schema.CoreNovel.Table,
		schema.CoreNovel.Title, schema.CoreNovel.Author, schema.CoreNovel.Description,
		schema.CoreNovel.Category, schema.CoreNovel.Slug, schema.CoreNovel.ImageURL,
		schema.CoreNovel.RidiID, schema.CoreNovel.KakaoID, schema.CoreNovel.SeriesID, schema.CoreNovel.MunpiaID,
		schema.CoreNovel.PublishedAt, schema.CoreNovel.LastUpdatedAt,
		schema.CoreNovel.ID, schema.CoreNovel.CreatedAt, schema.CoreNovel.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		novel.Title,
		novel.Author,
		novel.Description,
		novel.Category,
		novel.Slug,
		novel.ImageURL,
		novel.RidiID,
		novel.KakaoID,
		novel.SeriesID,
		novel.MunpiaID,
		novel.PublishedAt,
		novel.LastUpdatedAt,
	).Scan(&novel.ID, &novel.CreatedAt, &novel.UpdatedAt)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return dberr.Wrap(err, "Novel")
		}
		return fmt.Errorf("postgres: failed to create novel: %w", err)
	}

	return nil
}
