package domain

// SortKey orders catalogue browse results.
type SortKey string

const (
	SortRatingDesc  SortKey = "rating-desc"
	SortReleaseDesc SortKey = "release-desc"
	SortTitleAsc    SortKey = "title-asc"
	SortTitleDesc   SortKey = "title-desc"
)

// BrowseQuery is the full filter/sort/page state for a catalogue page.
// It is owned by the browse service and never persisted server-side.
type BrowseQuery struct {
	Q        string  // Free-text title search
	Platform string  // Single platform slug, "" = any
	Genre    string  // Single genre, "" = any
	YearMin  int     // 0 = unbounded
	YearMax  int     // 0 = unbounded
	Sort     SortKey // One of the four defined keys
	Page     int     // 1-based
	PageSize int
}

// BrowseResult is one page of catalogue results plus the total match
// count, used to derive total pages.
type BrowseResult struct {
	Items []*Game
	Total int
}
