// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package chapter

import "context"

// # Chapter Data Access

// ChapterRepository defines the data access contract for the chapter roster.
type ChapterRepository interface {

	/*
		ListByNovel returns a window of a novel's chapters ordered by chapter number.

		Parameters:
		  - context: context.Context
		  - novelID: int64 (Owner novel)
		  - asc: bool (Ascending chapter order; default ordering is descending)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Chapter: Slice of chapters in the window
		  - int: Total chapters for the novel
		  - error: Database retrieval failures
	*/
	ListByNovel(context context.Context, novelID int64, asc bool, limit, offset int) ([]*Chapter, int, error)

	/*
		Exists reports whether the chapter identified by (novel, chapter_no) is present.

		Parameters:
		  - context: context.Context
		  - novelID: int64
		  - chapterNo: int

		Returns:
		  - bool: Presence flag
		  - error: Database retrieval failures
	*/
	Exists(context context.Context, novelID int64, chapterNo int) (bool, error)

	/*
		Create persists a new chapter from the ingestion flow.

		Parameters:
		  - context: context.Context
		  - chapter: *Chapter (ID populated on return)

		Returns:
		  - error: apperr.Conflict on a duplicate (novel, chapter_no),
		    apperr.NotFound when the novel does not exist, or storage failures
	*/
	Create(context context.Context, chapter *Chapter) error
}

// # Chapter Memo Data Access

// MemoRepository defines the data access contract for chapter memos.
type MemoRepository interface {

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
	Find(context context.Context, novelID int64, chapterNo int, userID int64) (*Memo, error)

	/*
		FindByChapters returns one user's memos restricted to a chapter-number set.

		Used by the list-with-annotation composition; chapters the user has not
		annotated are simply absent from the result.

		Parameters:
		  - context: context.Context
		  - novelID: int64
		  - userID: int64
		  - chapterNos: []int (Window of chapter numbers to match)

		Returns:
		  - []*Memo: The user's memos within the window
		  - error: Database retrieval failures
	*/
	FindByChapters(context context.Context, novelID, userID int64, chapterNos []int) ([]*Memo, error)

	/*
		Create inserts a new memo row.

		Parameters:
		  - context: context.Context
		  - memo: *Memo (Timestamps populated on return)

		Returns:
		  - error: apperr.Conflict if a row already exists for the key
	*/
	Create(context context.Context, memo *Memo) error

	/*
		Update overwrites the mutable fields of an existing memo row.

		Parameters:
		  - context: context.Context
		  - memo: *Memo

		Returns:
		  - error: apperr.NotFound if no row exists for the key
	*/
	Update(context context.Context, memo *Memo) error

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
	Delete(context context.Context, novelID int64, chapterNo int, userID int64) error
}
