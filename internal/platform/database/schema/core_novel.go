package schema

// CoreNovelTable represents the 'core.novel' table
type CoreNovelTable struct {
	Table         string
	ID            string
	Title         string
	Author        string
	Description   string
	Category      string
	Slug          string
	ImageURL      string
	RidiID        string
	KakaoID       string
	SeriesID      string
	MunpiaID      string
	PublishedAt   string
	LastUpdatedAt string
	CreatedAt     string
	UpdatedAt     string
}

// CoreNovel is the schema definition for core.novel
var CoreNovel = CoreNovelTable{
	Table:         "core.novel",
	ID:            "id",
	Title:         "title",
	Author:        "author",
	Description:   "description",
	Category:      "category",
	Slug:          "slug",
	ImageURL:      "imageurl",
	RidiID:        "ridiid",
	KakaoID:       "kakaoid",
	SeriesID:      "seriesid",
	MunpiaID:      "munpiaid",
	PublishedAt:   "publishedat",
	LastUpdatedAt: "lastupdatedat",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

func (t CoreNovelTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Author, t.Description, t.Category, t.Slug, t.ImageURL,
		t.RidiID, t.KakaoID, t.SeriesID, t.MunpiaID,
		t.PublishedAt, t.LastUpdatedAt, t.CreatedAt, t.UpdatedAt,
	}
}
