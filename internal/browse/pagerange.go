package browse

import "sort"

// PageItem is one slot in a rendered pagination strip: either a page
// number or an ellipsis gap marker.
type PageItem struct {
	Page     int
	Ellipsis bool
}

// PageRange computes the page numbers to render for the current page p
// of total pages. The window always includes 1, total, p, and the two
// neighbors on each side of p, clipped to [1, total] and sorted; an
// ellipsis marks any gap wider than one page. Callers hide pagination
// entirely when total <= 1.
func PageRange(p, total int) []PageItem {
	if total <= 1 {
		return nil
	}
	if p < 1 {
		p = 1
	}
	if p > total {
		p = total
	}

	show := map[int]struct{}{1: {}, total: {}, p: {}}
	for d := 1; d <= 2; d++ {
		show[p-d] = struct{}{}
		show[p+d] = struct{}{}
	}

	ordered := make([]int, 0, len(show))
	for n := range show {
		if n >= 1 && n <= total {
			ordered = append(ordered, n)
		}
	}
	sort.Ints(ordered)

	items := make([]PageItem, 0, len(ordered)+2)
	for i, n := range ordered {
		if i > 0 && n-ordered[i-1] > 1 {
			items = append(items, PageItem{Ellipsis: true})
		}
		items = append(items, PageItem{Page: n})
	}
	return items
}
