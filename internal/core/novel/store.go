// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package novel

import "context"

// # Novel Data Access

// NovelRepository defines the data access contract for the novel catalogue.
type NovelRepository interface {

	/*
		List returns a filtered, paginated slice of novels and the total count.

		Parameters:
		  - context: context.Context
		  - filter: Filter (Search scope, category, ordering)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Novel: Slice of matching catalogue records
		  - int: Total count of records matching the filter
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Novel, int, error)

	/*
		ListWithMemos returns the filtered catalogue left-joined with one user's envelopes.

		Novels the user has never annotated carry a zero-valued [Memo].

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - userID: int64 (Envelope owner)
		  - limit: int
		  - offset: int

		Returns:
		  - []*NovelWithMemo: Catalogue rows paired with the user's envelopes
		  - int: Total count of records matching the filter
		  - error: Database retrieval failures
	*/
	ListWithMemos(context context.Context, filter Filter, userID int64, limit, offset int) ([]*NovelWithMemo, int, error)

	/*
		FindByID returns the novel with the given ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Novel: The hydrated domain entity
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id int64) (*Novel, error)

	/*
		Exists reports whether a novel with the given ID is present.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - bool: Presence flag
		  - error: Database retrieval failures
	*/
	Exists(context context.Context, id int64) (bool, error)

	/*
		Create persists a new novel and assigns its generated identity.

		Parameters:
		  - context: context.Context
		  - novel: *Novel (Metadata from the fetch service; ID populated on return)

		Returns:
		  - error: apperr.Conflict on a duplicate platform identifier, or storage failures
	*/
	Create(context context.Context, novel *Novel) error
}

// # Memo Data Access

// MemoRepository defines the data access contract for novel annotation envelopes.
type MemoRepository interface {

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
	Find(context context.Context, novelID, userID int64) (*Memo, error)

	/*
		Save upserts the envelope keyed by (NovelID, UserID).

		An absent row is inserted; an existing row is overwritten in full.

		Parameters:
		  - context: context.Context
		  - memo: *Memo

		Returns:
		  - error: Storage or constraint failures
	*/
	Save(context context.Context, memo *Memo) error

	/*
		Delete physically removes the envelope row for the key.

		Parameters:
		  - context: context.Context
		  - novelID: int64
		  - userID: int64

		Returns:
		  - error: apperr.NotFound if no row exists, or storage failures
	*/
	Delete(context context.Context, novelID, userID int64) error

	/*
		AverageStar computes the mean of one user's chapter stars for a novel.

		The scan covers every chapter memo the user holds for the novel; memos
		belonging to other users never influence the result.

		Parameters:
		  - context: context.Context
		  - novelID: int64
		  - userID: int64

		Returns:
		  - float64: Arithmetic mean of the user's star values (unrounded)
		  - int: Number of rated chapters contributing to the mean
		  - error: Database retrieval failures
	*/
	AverageStar(context context.Context, novelID, userID int64) (float64, int, error)
}
