// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package novel

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/seojinpark/novelshelf/internal/platform/apperr"
	"github.com/seojinpark/novelshelf/internal/platform/validate"
	"github.com/seojinpark/novelshelf/pkg/slug"
)

// # Service Layer

// Service orchestrates the business logic for the novel catalogue and
// the per-user annotation envelopes attached to it.
type Service struct {
	novelRepo NovelRepository
	memoRepo  MemoRepository
	fetcher   Fetcher
	logger    *slog.Logger
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(novelRepo NovelRepository, memoRepo MemoRepository, fetcher Fetcher, logger *slog.Logger) *Service {
	return &Service{
		novelRepo: novelRepo,
		memoRepo:  memoRepo,
		fetcher:   fetcher,
		logger:    logger,
	}
}

// # Catalogue Lookups

/*
ListNovels retrieves a paginated and filtered collection of novels.

Description: Validates the filter enums, then passes criteria directly to the
repository layer for database-level filtering and sorting. The default order
is last_updated_at descending.

Parameters:
  - context: context.Context
  - filter: Filter (Search scope, category, ordering)
  - limit: int (Max records to return)
  - offset: int (Pagination cursor)

Returns:
  - []*Novel: Slice of matching catalogue records
  - int: Total count of records matching the filter
  - error: Validation or repository level errors
*/
func (service *Service) ListNovels(context context.Context, filter Filter, limit, offset int) ([]*Novel, int, error) {
	if err := validateFilter(filter); err != nil {
		return nil, 0, err
	}
	return service.novelRepo.List(context, filter, limit, offset)
}

/*
ListNovelsWithMemos retrieves the filtered catalogue merged with one user's envelopes.

Description: Identical filtering semantics to [Service.ListNovels]; each row
additionally carries the requesting user's envelope, or the zero-valued
envelope where the user has never annotated the novel.

Parameters:
  - context: context.Context
  - filter: Filter
  - userID: int64 (Envelope owner)
  - limit: int
  - offset: int

Returns:
  - []*NovelWithMemo: Catalogue rows paired with the user's envelopes
  - int: Total count of records matching the filter
  - error: Validation or repository level errors
*/
func (service *Service) ListNovelsWithMemos(context context.Context, filter Filter, userID int64, limit, offset int) ([]*NovelWithMemo, int, error) {
	if err := validateFilter(filter); err != nil {
		return nil, 0, err
	}
	return service.novelRepo.ListWithMemos(context, filter, userID, limit, offset)
}

/*
GetNovel fetches a single catalogue record by its numeric ID.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Novel: The hydrated domain entity
  - error: apperr.NotFound if no match is found
*/
func (service *Service) GetNovel(context context.Context, id int64) (*Novel, error) {
	return service.novelRepo.FindByID(context, id)
}

/*
GetNovelWithMemo fetches a single novel merged with the caller's envelope.

Description: An absent envelope is reported as the zero-valued [Memo], never
as an error; envelope presence is an implementation detail of lazy creation.

Parameters:
  - context: context.Context
  - id: int64
  - userID: int64

Returns:
  - *NovelWithMemo: The novel paired with the caller's envelope
  - error: apperr.NotFound if the novel does not exist
*/
func (service *Service) GetNovelWithMemo(context context.Context, id, userID int64) (*NovelWithMemo, error) {

	record, err := service.novelRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	memo, err := service.findOrZero(context, id, userID)
	if err != nil {
		return nil, err
	}

	return &NovelWithMemo{Novel: *record, Memo: *memo}, nil
}

// # Novel Registration

// CreateCommand carries the caller-supplied reference to a platform novel.
// Exactly one of ExternalID or URL must resolve to a platform identifier.
type CreateCommand struct {
	ExternalID string   `json:"id"`
	URL        string   `json:"url"`
	Platform   Platform `json:"platform"`
}

/*
CreateNovel registers a novel by delegating metadata retrieval to the fetch service.

Description: Resolves the platform identifier (deriving it from the URL's last
path segment when absent), retrieves full metadata from the external fetch
service under the fixed 30 second deadline, generates the SEO slug, and
persists the record. Duplicate platform identifiers surface as a Conflict.

Parameters:
  - context: context.Context
  - command: CreateCommand (Platform reference)

Returns:
  - *Novel: The persisted catalogue entity
  - error: Validation, upstream, conflict, or persistence errors
*/
func (service *Service) CreateNovel(context context.Context, command CreateCommand) (*Novel, error) {

	// Platform validation
	validator := &validate.Validator{}
	validator.Required(FieldPlatform, string(command.Platform)).OneOf(FieldPlatform, string(command.Platform),
		string(PlatformRidi),
		string(PlatformKakao),
		string(PlatformSeries),
		string(PlatformMunpia),
	)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Identifier resolution
	externalID := command.ExternalID
	if externalID == "" {
		externalID = deriveExternalID(command.URL, command.Platform)
	}
	if externalID == "" {
		return nil, apperr.ValidationError("Novel reference required: supply an id or a platform URL")
	}

	// External metadata retrieval
	fetched, err := service.fetcher.Fetch(context, command.Platform, externalID)
	if err != nil {
		return nil, err
	}

	// Entity assembly
	record := &Novel{
		Title:         fetched.Title,
		Author:        fetched.Author,
		Description:   fetched.Description,
		Category:      fetched.Category,
		Slug:          slug.From(fetched.Title),
		ImageURL:      fetched.ImageURL,
		PublishedAt:   fetched.PublishedAt,
		LastUpdatedAt: fetched.LastUpdatedAt,
	}
	record.SetPlatformID(command.Platform, externalID)

	// Persistence via repository
	if err := service.novelRepo.Create(context, record); err != nil {
		return nil, err
	}

	service.logger.Info("novel_created",
		slog.Int64("novel_id", record.ID),
		slog.String("platform", string(command.Platform)),
		slog.String("title", record.Title),
	)

	return record, nil
}

// # Internal Helpers

// validateFilter rejects unknown enum values on the optional filter fields.
func validateFilter(filter Filter) error {
	validator := &validate.Validator{}

	if filter.Category != "" {
		validator.Custom(FieldCategory, !filter.Category.IsValid(), "Unknown category")
	}
	if filter.FilterBy != "" {
		validator.Custom(FieldFilterBy, !filter.FilterBy.IsValid(), "Unknown filter scope")
	}
	if filter.OrderBy != "" {
		validator.Custom(FieldOrderBy, !filter.OrderBy.IsValid(), "Unknown order column")
	}

	return validator.Err()
}

/*
deriveExternalID extracts a platform identifier from a novel page URL.

Description: The identifier is the last non-empty path segment. Ridi URLs
embed the identifier among display text, so for that platform only the digit
characters of the segment are kept.

Parameters:
  - rawURL: string (Platform novel page URL)
  - platform: Platform

Returns:
  - string: The derived identifier, or "" when none could be extracted
*/
func deriveExternalID(rawURL string, platform Platform) string {
	if rawURL == "" {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	last := segments[len(segments)-1]

	if platform == PlatformRidi {
		var digits strings.Builder
		for _, r := range last {
			if r >= '0' && r <= '9' {
				digits.WriteRune(r)
			}
		}
		last = digits.String()
	}

	return last
}
