package browse

import (
	"fmt"

	"github.com/completeditmate/mate/internal/domain"
)

// DefaultPageSize matches the web frontend's default grid density.
const DefaultPageSize = 24

// PageSizes are the page sizes the UI offers.
var PageSizes = []int{12, 24, 36, 48}

// DefaultQuery returns the initial browse state. The defaults are a
// deliberate configuration, not all-empty: the catalogue opens sorted by
// highest rating.
func DefaultQuery(pageSize int) domain.BrowseQuery {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return domain.BrowseQuery{
		Sort:     domain.SortRatingDesc,
		Page:     1,
		PageSize: pageSize,
	}
}

// QueryPatch is a partial change to a BrowseQuery. Nil fields are left
// untouched by Merge.
type QueryPatch struct {
	Q        *string
	Platform *string
	Genre    *string
	YearMin  *int
	YearMax  *int
	Sort     *domain.SortKey
	Page     *int
	PageSize *int
}

// Merge applies the patch to q and returns the result. Any change to the
// free-text term, platform, genre, year range, sort, or page size resets
// the page to 1: changing a filter invalidates the current page position.
// A page-only change preserves every other field.
func Merge(q domain.BrowseQuery, p QueryPatch) domain.BrowseQuery {
	resetPage := false

	if p.Q != nil && *p.Q != q.Q {
		q.Q = *p.Q
		resetPage = true
	}
	if p.Platform != nil && *p.Platform != q.Platform {
		q.Platform = *p.Platform
		resetPage = true
	}
	if p.Genre != nil && *p.Genre != q.Genre {
		q.Genre = *p.Genre
		resetPage = true
	}
	if p.YearMin != nil && *p.YearMin != q.YearMin {
		q.YearMin = *p.YearMin
		resetPage = true
	}
	if p.YearMax != nil && *p.YearMax != q.YearMax {
		q.YearMax = *p.YearMax
		resetPage = true
	}
	if p.Sort != nil && *p.Sort != q.Sort {
		q.Sort = *p.Sort
		resetPage = true
	}
	if p.PageSize != nil && *p.PageSize != q.PageSize {
		q.PageSize = *p.PageSize
		resetPage = true
	}

	if p.Page != nil {
		q.Page = *p.Page
	}
	if resetPage {
		q.Page = 1
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}

// queryKey is the canonical cache key for one page of results.
func queryKey(q domain.BrowseQuery) string {
	return fmt.Sprintf("q=%s|p=%s|g=%s|y=%d-%d|s=%s|pg=%d|ps=%d",
		q.Q, q.Platform, q.Genre, q.YearMin, q.YearMax, q.Sort, q.Page, q.PageSize)
}

// YearPreset names a convenience year range.
type YearPreset string

const (
	PresetAny    YearPreset = "any"
	PresetLast1  YearPreset = "last-1"
	PresetLast3  YearPreset = "last-3"
	PresetLast5  YearPreset = "last-5"
	PresetLast10 YearPreset = "last-10"
	Preset1990s  YearPreset = "1990s"
	Preset2000s  YearPreset = "2000s"
	Preset2010s  YearPreset = "2010s"
	Preset2020s  YearPreset = "2020s"
)

// YearPresets lists the presets in display order.
var YearPresets = []YearPreset{
	PresetAny, PresetLast1, PresetLast3, PresetLast5, PresetLast10,
	Preset1990s, Preset2000s, Preset2010s, Preset2020s,
}

// Label returns the display label for a preset.
func (p YearPreset) Label() string {
	switch p {
	case PresetLast1:
		return "Last 12 months"
	case PresetLast3:
		return "Last 3 years"
	case PresetLast5:
		return "Last 5 years"
	case PresetLast10:
		return "Last 10 years"
	case Preset1990s:
		return "1990s"
	case Preset2000s:
		return "2000s"
	case Preset2010s:
		return "2010s"
	case Preset2020s:
		return "2020s"
	default:
		return "Any time"
	}
}

// YearRange computes the concrete [min, max] bounds for a preset given
// the current year. "any" clears both bounds (0, 0).
func YearRange(p YearPreset, currentYear int) (int, int) {
	switch p {
	case PresetLast1:
		return currentYear - 1, currentYear
	case PresetLast3:
		return currentYear - 3, currentYear
	case PresetLast5:
		return currentYear - 5, currentYear
	case PresetLast10:
		return currentYear - 10, currentYear
	case Preset1990s:
		return 1990, 1999
	case Preset2000s:
		return 2000, 2009
	case Preset2010s:
		return 2010, 2019
	case Preset2020s:
		return 2020, currentYear
	default:
		return 0, 0
	}
}
