package components

import (
	"testing"

	"github.com/completeditmate/mate/internal/browse"
	"github.com/completeditmate/mate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycleOptionWrapsThroughAny(t *testing.T) {
	options := []domain.FacetOption{{Value: "PC"}, {Value: "Switch"}}

	assert.Equal(t, "PC", CycleOption("", options))
	assert.Equal(t, "Switch", CycleOption("PC", options))
	assert.Equal(t, "", CycleOption("Switch", options), "past the last option comes back to any")
}

func TestCycleOptionUnknownCurrentResets(t *testing.T) {
	options := []domain.FacetOption{{Value: "PC"}}
	assert.Equal(t, "", CycleOption("stale-value", options))
}

func TestCycleOptionEmptyList(t *testing.T) {
	assert.Equal(t, "", CycleOption("", nil))
}

func TestCycleSortRotation(t *testing.T) {
	s := domain.SortRatingDesc
	s = CycleSort(s)
	assert.Equal(t, domain.SortReleaseDesc, s)
	s = CycleSort(s)
	assert.Equal(t, domain.SortTitleAsc, s)
	s = CycleSort(s)
	assert.Equal(t, domain.SortTitleDesc, s)
	s = CycleSort(s)
	assert.Equal(t, domain.SortRatingDesc, s, "rotation wraps")

	assert.Equal(t, domain.SortRatingDesc, CycleSort("bogus"))
}

func TestFilterBarSearchLifecycle(t *testing.T) {
	f := NewFilterBar()
	assert.False(t, f.Searching())

	f.StartSearch("zelda")
	assert.True(t, f.Searching())
	assert.Equal(t, "zelda", f.Value())

	got := f.StopSearch()
	assert.False(t, f.Searching())
	assert.Equal(t, "zelda", got)
}

func TestFilterBarYearPresetCycle(t *testing.T) {
	f := NewFilterBar()
	assert.Equal(t, browse.PresetAny, f.YearPreset())

	seen := map[browse.YearPreset]bool{}
	for range browse.YearPresets {
		seen[f.CycleYearPreset()] = true
	}
	assert.Len(t, seen, len(browse.YearPresets), "cycle visits every preset")
	assert.Equal(t, browse.PresetAny, f.YearPreset(), "full cycle lands back on any")

	f.CycleYearPreset()
	f.ResetYearPreset()
	assert.Equal(t, browse.PresetAny, f.YearPreset())
}

func TestPaginationHiddenForSinglePage(t *testing.T) {
	assert.Empty(t, Pagination(1, 1))
	assert.Empty(t, Pagination(1, 0))
}

func TestPaginationShowsWindow(t *testing.T) {
	out := Pagination(7, 20)
	assert.Contains(t, out, "prev")
	assert.Contains(t, out, "next")
	for _, n := range []string{"1", "5", "6", "7", "8", "9", "20"} {
		assert.Contains(t, out, n)
	}
	assert.Contains(t, out, "…")
}

func newList(titles ...string) GameList {
	l := NewGameList(nil)
	items := make([]*domain.Game, len(titles))
	for i, title := range titles {
		items[i] = &domain.Game{ID: title, Title: title}
	}
	l.SetSize(80, 10)
	l.SetItems(items)
	return l
}

func TestGameListCursorMovement(t *testing.T) {
	l := newList("A", "B", "C")

	require.NotNil(t, l.Selected())
	assert.Equal(t, "A", l.Selected().Title)

	l.MoveUp()
	assert.Equal(t, "A", l.Selected().Title, "cursor stops at the top")

	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, "C", l.Selected().Title)
	l.MoveDown()
	assert.Equal(t, "C", l.Selected().Title, "cursor stops at the bottom")

	l.Home()
	assert.Equal(t, "A", l.Selected().Title)
}

func TestGameListSetItemsKeepsCursorInRange(t *testing.T) {
	l := newList("A", "B", "C")
	l.MoveDown()
	l.MoveDown()

	l.SetItems([]*domain.Game{{ID: "x", Title: "X"}})
	require.NotNil(t, l.Selected())
	assert.Equal(t, "X", l.Selected().Title)

	l.SetItems(nil)
	assert.Nil(t, l.Selected())
}

func TestGameListLocalFilter(t *testing.T) {
	l := newList("Hollow Knight", "Hades", "Celeste")

	l.SetFilter("hades")
	assert.Equal(t, 1, l.Len())
	require.NotNil(t, l.Selected())
	assert.Equal(t, "Hades", l.Selected().Title)

	l.SetFilter("")
	assert.Equal(t, 3, l.Len())
}

func TestGameListFilterSurvivesSetItems(t *testing.T) {
	l := newList("Hollow Knight", "Hades")
	l.SetFilter("hades")

	l.SetItems([]*domain.Game{
		{ID: "1", Title: "Hades"},
		{ID: "2", Title: "Hades II"},
		{ID: "3", Title: "Celeste"},
	})
	assert.Equal(t, 2, l.Len(), "filter reapplies to the new rows")
}
