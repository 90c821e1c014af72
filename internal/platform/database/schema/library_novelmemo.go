package schema

// LibraryNovelMemoTable represents the 'library.novelmemo' table
type LibraryNovelMemoTable struct {
	Table       string
	NovelID     string
	UserID      string
	Content     string
	AverageStar string
	IsFavorite  string
	ModifiedAt  string
	CreatedAt   string
	UpdatedAt   string
}

// LibraryNovelMemo is the schema definition for library.novelmemo.
// Primary key is (novelid, userid): at most one memo per user per novel.
var LibraryNovelMemo = LibraryNovelMemoTable{
	Table:       "library.novelmemo",
	NovelID:     "novelid",
	UserID:      "userid",
	Content:     "content",
	AverageStar: "averagestar",
	IsFavorite:  "isfavorite",
	ModifiedAt:  "modifiedat",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t LibraryNovelMemoTable) Columns() []string {
	return []string{
		t.NovelID, t.UserID, t.Content, t.AverageStar, t.IsFavorite,
		t.ModifiedAt, t.CreatedAt, t.UpdatedAt,
	}
}
