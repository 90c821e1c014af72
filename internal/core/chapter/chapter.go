// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

/*
Package chapter defines the chapter roster and per-chapter annotation domain.

A chapter belongs to exactly one novel and is addressed by (novel_id,
chapter_no) rather than its surrogate key. Readers attach at most one memo per
chapter, carrying free text and a 1-10 star rating; chapter stars feed the
per-user average persisted on the novel envelope.
*/
package chapter

import "time"

// # Star Rating Bounds

const (
	// StarMin is the lowest accepted chapter rating.
	StarMin = 1
	// StarMax is the highest accepted chapter rating.
	StarMax = 10
)

// # Core Entities

// Chapter is one installment of a novel. Chapters are written by ingestion
// and never mutated by the annotation flow.
type Chapter struct {
	ID        int64  `json:"id"`
	NovelID   int64  `json:"novel_id"`
	ChapterNo int    `json:"chapter_no"`
	Title     string `json:"title"`

	// # External Platform Identifiers
	RidiID   *string `json:"ridi_id,omitempty"`
	KakaoID  *string `json:"kakao_id,omitempty"`
	SeriesID *string `json:"series_id,omitempty"`
	MunpiaID *string `json:"munpia_id,omitempty"`

	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Memo is one reader's annotation for a chapter, keyed by
// (NovelID, ChapterNo, UserID). Unlike the novel envelope, content and star
// are both required at creation and the row is always deleted explicitly.
type Memo struct {
	NovelID    int64     `json:"novel_id"`
	ChapterNo  int       `json:"chapter_no"`
	UserID     int64     `json:"user_id"`
	Content    string    `json:"content"`
	Star       int       `json:"star"`
	ModifiedAt time.Time `json:"modified_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// ChapterWithMemo pairs a chapter with the requesting user's memo.
// Memo is nil when the user has not annotated the chapter.
type ChapterWithMemo struct {
	Chapter
	Memo *Memo `json:"memo,omitempty"`
}

// # Commands

// CreateCommand carries a new chapter memo. Content and star are required.
type CreateCommand struct {
	NovelID   int64  `json:"-"`
	ChapterNo int    `json:"-"`
	UserID    int64  `json:"-"`
	Content   string `json:"content"`
	Star      int    `json:"star"`
}

// UpdateCommand carries a partial chapter-memo update. Nil pointers mean
// "leave unchanged", distinguishing absence from an explicit value.
type UpdateCommand struct {
	NovelID   int64   `json:"-"`
	ChapterNo int     `json:"-"`
	UserID    int64   `json:"-"`
	Content   *string `json:"content"`
	Star      *int    `json:"star"`
}

// # Field Identifiers

const (
	FieldChapterNo = "chapter_no"
	FieldTitle     = "title"
	FieldContent   = "content"
	FieldStar      = "star"
)
