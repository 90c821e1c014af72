// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

/*
Package novel defines the core domain entities for the Novelshelf catalogue.

It manages serialised web novels registered from external Korean publishing
platforms, plus the per-user annotation envelope (memo, favorite flag, and the
derived average star rating) attached to each novel.

Core Responsibility:

  - Catalogue: Defines categories (Fantasy, Wuxia, Romance) and source platforms.
  - Discovery: Filterable, searchable listing joined with a reader's own memos.
  - Annotation: Per-(novel, user) envelopes with lazy creation and deletion.

This package acts as the source of truth for all novel-related data models.
*/
package novel

import "time"

// # Domain Enums

// Category classifies the genre of a novel.
type Category string

const (
	// CategoryFantasy covers traditional high/medieval fantasy.
	CategoryFantasy Category = "fantasy"

	// CategoryModernFantasy covers fantasy set in the present day (hunters, gates, regressors).
	CategoryModernFantasy Category = "modern_fantasy"

	// CategoryWuxia covers martial-arts and murim settings.
	CategoryWuxia Category = "wuxia"

	// CategoryRomance covers contemporary romance.
	CategoryRomance Category = "romance"

	// CategoryRomanceFantasy covers romance in fantasy settings.
	CategoryRomanceFantasy Category = "romance_fantasy"
)

// IsValid reports whether c is a recognised [Category] value.
func (c Category) IsValid() bool {
	switch c {
	case
		CategoryFantasy,
		CategoryModernFantasy,
		CategoryWuxia,
		CategoryRomance,
		CategoryRomanceFantasy:
		return true
	}
	return false
}

// Platform identifies the external publishing platform a novel was sourced from.
type Platform string

const (
	PlatformRidi   Platform = "ridi"
	PlatformKakao  Platform = "kakao"
	PlatformSeries Platform = "series"
	PlatformMunpia Platform = "munpia"
)

// IsValid reports whether p is a recognised [Platform] value.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformRidi, PlatformKakao, PlatformSeries, PlatformMunpia:
		return true
	}
	return false
}

// FilterBy narrows the catalogue search to a single text field.
type FilterBy string

const (
	FilterByAll         FilterBy = "all"
	FilterByTitle       FilterBy = "title"
	FilterByAuthor      FilterBy = "author"
	FilterByDescription FilterBy = "description"
)

// IsValid reports whether f is a recognised [FilterBy] value.
func (f FilterBy) IsValid() bool {
	switch f {
	case FilterByAll, FilterByTitle, FilterByAuthor, FilterByDescription:
		return true
	}
	return false
}

// OrderBy selects the catalogue sort column.
type OrderBy string

const (
	OrderByTitle         OrderBy = "title"
	OrderByAuthor        OrderBy = "author"
	OrderByPublishedAt   OrderBy = "published_at"
	OrderByLastUpdatedAt OrderBy = "last_updated_at"
)

// IsValid reports whether o is a recognised [OrderBy] value.
func (o OrderBy) IsValid() bool {
	switch o {
	case OrderByTitle, OrderByAuthor, OrderByPublishedAt, OrderByLastUpdatedAt:
		return true
	}
	return false
}

// # Core Entities

// Novel is the central aggregate of the Novelshelf domain.
// It represents a single serialised work registered in the catalogue.
//
// A novel carries at most one external identifier per platform column; each
// identifier is globally unique across the catalogue when present. Novels are
// immutable after registration except for ingestion-driven metadata refreshes.
type Novel struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Slug        string   `json:"slug"` // URL-safe identifier
	ImageURL    string   `json:"image_url"`

	// # External Platform Identifiers
	RidiID   *string `json:"ridi_id,omitempty"`
	KakaoID  *string `json:"kakao_id,omitempty"`
	SeriesID *string `json:"series_id,omitempty"`
	MunpiaID *string `json:"munpia_id,omitempty"`

	PublishedAt   *time.Time `json:"published_at,omitempty"`
	LastUpdatedAt *time.Time `json:"last_updated_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// SetPlatformID assigns an external identifier to the matching platform column.
func (n *Novel) SetPlatformID(platform Platform, externalID string) {
	switch platform {
	case PlatformRidi:
		n.RidiID = &externalID
	case PlatformKakao:
		n.KakaoID = &externalID
	case PlatformSeries:
		n.SeriesID = &externalID
	case PlatformMunpia:
		n.MunpiaID = &externalID
	}
}

// Memo is the per-user annotation envelope for a novel.
//
// At most one row exists per (NovelID, UserID). The row is created lazily on
// the first write to any facet and removed once every facet returns to its
// default value; callers observe an absent row as a zero-valued envelope.
type Memo struct {
	NovelID     int64      `json:"novel_id"`
	UserID      int64      `json:"user_id"`
	Content     *string    `json:"content"`
	AverageStar *float64   `json:"average_star"` // Derived from chapter stars; never set directly
	IsFavorite  bool       `json:"is_favorite"`
	ModifiedAt  *time.Time `json:"modified_at"` // Set only when content changes
}

// IsEmpty reports whether the envelope carries no non-default facet.
// An empty envelope must not be persisted.
func (m *Memo) IsEmpty() bool {
	if m.Content != nil {
		return false
	}
	if m.IsFavorite {
		return false
	}
	if m.AverageStar != nil && *m.AverageStar != 0 {
		return false
	}
	return true
}

// NovelWithMemo pairs a catalogue entry with the requesting user's envelope.
// Users without an envelope for the novel receive the zero-valued [Memo].
type NovelWithMemo struct {
	Novel
	Memo Memo `json:"memo"`
}

// # Search & Filtering

// Filter holds the parameters for a filtered novel list query.
type Filter struct {
	Query    string   `json:"q,omitempty"`         // Case-insensitive substring match
	FilterBy FilterBy `json:"filter_by,omitempty"` // Field scope for Query (default: all)
	Category Category `json:"category,omitempty"`  // Exact-match genre filter
	OrderBy  OrderBy  `json:"order_by,omitempty"`  // Sort column (default: last_updated_at)
	Asc      bool     `json:"asc,omitempty"`       // Ascending sort (default: descending)
}

// # Field Identifiers

// Global field names for validation and dynamic query mapping.
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldAuthor      = "author"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldPlatform    = "platform"
	FieldURL         = "url"
	FieldContent     = "content"
	FieldStar        = "star"
	FieldFilterBy    = "filter_by"
	FieldOrderBy     = "order_by"
)
