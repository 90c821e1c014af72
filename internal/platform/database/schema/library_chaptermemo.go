package schema

// LibraryChapterMemoTable represents the 'library.chaptermemo' table
type LibraryChapterMemoTable struct {
	Table      string
	NovelID    string
	ChapterNo  string
	UserID     string
	Content    string
	Star       string
	ModifiedAt string
	CreatedAt  string
}

// LibraryChapterMemo is the schema definition for library.chaptermemo.
// Primary key is (novelid, chapterno, userid).
var LibraryChapterMemo = LibraryChapterMemoTable{
	Table:      "library.chaptermemo",
	NovelID:    "novelid",
	ChapterNo:  "chapterno",
	UserID:     "userid",
	Content:    "content",
	Star:       "star",
	ModifiedAt: "modifiedat",
	CreatedAt:  "createdat",
}

func (t LibraryChapterMemoTable) Columns() []string {
	return []string{
		t.NovelID, t.ChapterNo, t.UserID, t.Content, t.Star, t.ModifiedAt, t.CreatedAt,
	}
}
