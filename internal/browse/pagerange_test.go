package browse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// pages flattens a range for comparison; ellipsis slots become -1.
func pages(items []PageItem) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		if it.Ellipsis {
			out = append(out, -1)
		} else {
			out = append(out, it.Page)
		}
	}
	return out
}

func TestPageRangeMiddle(t *testing.T) {
	got := PageRange(7, 20)
	assert.Equal(t, []int{1, -1, 5, 6, 7, 8, 9, -1, 20}, pages(got))
}

func TestPageRangeNearStart(t *testing.T) {
	got := PageRange(1, 5)
	assert.Equal(t, []int{1, 2, 3, -1, 5}, pages(got))
}

func TestPageRangeNearEnd(t *testing.T) {
	got := PageRange(19, 20)
	assert.Equal(t, []int{1, -1, 17, 18, 19, 20}, pages(got))
}

func TestPageRangeSmallTotals(t *testing.T) {
	assert.Nil(t, PageRange(1, 1))
	assert.Nil(t, PageRange(1, 0))
	assert.Equal(t, []int{1, 2}, pages(PageRange(1, 2)))
	assert.Equal(t, []int{1, 2, 3}, pages(PageRange(2, 3)))
}

func TestPageRangeNoEllipsisWhenWindowTouches(t *testing.T) {
	// 1..3 are contiguous with the window around 3, no gap marker.
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, pages(PageRange(3, 6)))
	// Gap of exactly one page still gets the missing page's slot marked.
	assert.Equal(t, []int{1, -1, 3, 4, 5, 6, 7, -1, 9}, pages(PageRange(5, 9)))
}

func TestPageRangeClampsCurrentPage(t *testing.T) {
	// Out-of-range current pages behave as the nearest valid page.
	assert.Equal(t, pages(PageRange(20, 20)), pages(PageRange(99, 20)))
	assert.Equal(t, pages(PageRange(1, 20)), pages(PageRange(-3, 20)))
}

func TestPageRangeNeverDuplicates(t *testing.T) {
	for total := 2; total <= 25; total++ {
		for p := 1; p <= total; p++ {
			seen := map[int]bool{}
			for _, it := range PageRange(p, total) {
				if it.Ellipsis {
					continue
				}
				assert.False(t, seen[it.Page], "duplicate page %d for p=%d total=%d", it.Page, p, total)
				seen[it.Page] = true
			}
			assert.True(t, seen[1])
			assert.True(t, seen[total])
			assert.True(t, seen[p])
		}
	}
}
