package schema

// CoreChapterTable represents the 'core.chapter' table
type CoreChapterTable struct {
	Table       string
	ID          string
	NovelID     string
	ChapterNo   string
	Title       string
	RidiID      string
	KakaoID     string
	SeriesID    string
	MunpiaID    string
	PublishedAt string
	CreatedAt   string
	UpdatedAt   string
}

// CoreChapter is the schema definition for core.chapter
var CoreChapter = CoreChapterTable{
	Table:       "core.chapter",
	ID:          "id",
	NovelID:     "novelid",
	ChapterNo:   "chapterno",
	Title:       "title",
	RidiID:      "ridiid",
	KakaoID:     "kakaoid",
	SeriesID:    "seriesid",
	MunpiaID:    "munpiaid",
	PublishedAt: "publishedat",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t CoreChapterTable) Columns() []string {
	return []string{
		t.ID, t.NovelID, t.ChapterNo, t.Title,
		t.RidiID, t.KakaoID, t.SeriesID, t.MunpiaID,
		t.PublishedAt, t.CreatedAt, t.UpdatedAt,
	}
}
