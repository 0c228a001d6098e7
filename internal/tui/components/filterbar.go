package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/completeditmate/mate/internal/browse"
	"github.com/completeditmate/mate/internal/domain"
	"github.com/completeditmate/mate/internal/tui/styles"
)

// FilterBar shows the active browse filters and owns the search input.
// The selectors (platform, genre, year preset, sort) cycle through their
// options; the app feeds changes to the browse service.
type FilterBar struct {
	input      textinput.Model
	searching  bool
	yearPreset browse.YearPreset
}

// NewFilterBar creates the bar with an unfocused search input.
func NewFilterBar() FilterBar {
	ti := textinput.New()
	ti.Placeholder = "Search titles..."
	ti.CharLimit = 80
	ti.Width = 32
	ti.PlaceholderStyle = styles.DimStyle
	return FilterBar{input: ti, yearPreset: browse.PresetAny}
}

// StartSearch focuses the text input.
func (f *FilterBar) StartSearch(current string) tea.Cmd {
	f.searching = true
	f.input.SetValue(current)
	return f.input.Focus()
}

// StopSearch blurs the input and returns its value.
func (f *FilterBar) StopSearch() string {
	f.searching = false
	f.input.Blur()
	return strings.TrimSpace(f.input.Value())
}

// Searching reports whether the input has focus.
func (f FilterBar) Searching() bool { return f.searching }

// Update forwards events to the focused input.
func (f *FilterBar) Update(msg tea.Msg) tea.Cmd {
	if !f.searching {
		return nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

// Value returns the current input text.
func (f FilterBar) Value() string { return strings.TrimSpace(f.input.Value()) }

// YearPreset returns the currently selected preset.
func (f FilterBar) YearPreset() browse.YearPreset { return f.yearPreset }

// CycleYearPreset advances to the next preset and returns it.
func (f *FilterBar) CycleYearPreset() browse.YearPreset {
	for i, p := range browse.YearPresets {
		if p == f.yearPreset {
			f.yearPreset = browse.YearPresets[(i+1)%len(browse.YearPresets)]
			return f.yearPreset
		}
	}
	f.yearPreset = browse.PresetAny
	return f.yearPreset
}

// ResetYearPreset restores the default preset (on clear-all).
func (f *FilterBar) ResetYearPreset() {
	f.yearPreset = browse.PresetAny
}

// CycleOption returns the value after current in options, wrapping
// through "" (any).
func CycleOption(current string, options []domain.FacetOption) string {
	if len(options) == 0 {
		return ""
	}
	if current == "" {
		return options[0].Value
	}
	for i, o := range options {
		if o.Value == current {
			if i == len(options)-1 {
				return ""
			}
			return options[i+1].Value
		}
	}
	return ""
}

// CycleSort returns the next sort key in the fixed rotation.
func CycleSort(current domain.SortKey) domain.SortKey {
	order := []domain.SortKey{
		domain.SortRatingDesc, domain.SortReleaseDesc,
		domain.SortTitleAsc, domain.SortTitleDesc,
	}
	for i, s := range order {
		if s == current {
			return order[(i+1)%len(order)]
		}
	}
	return domain.SortRatingDesc
}

func sortLabel(s domain.SortKey) string {
	switch s {
	case domain.SortReleaseDesc:
		return "Newest releases"
	case domain.SortTitleAsc:
		return "Title A–Z"
	case domain.SortTitleDesc:
		return "Title Z–A"
	default:
		return "Highest rated"
	}
}

// View renders the bar: search box plus the selector summary line.
func (f FilterBar) View(q domain.BrowseQuery, total int, dirty bool) string {
	var search string
	if f.searching {
		search = f.input.View()
	} else if q.Q != "" {
		search = styles.AccentStyle.Render("/" + q.Q)
	} else {
		search = styles.DimStyle.Render("/ search")
	}

	orAny := func(v string) string {
		if v == "" {
			return "any"
		}
		return v
	}

	parts := []string{
		search,
		fmt.Sprintf("[p]latform: %s", orAny(q.Platform)),
		fmt.Sprintf("[g]enre: %s", orAny(q.Genre)),
		fmt.Sprintf("[y]ears: %s", f.yearPreset.Label()),
		fmt.Sprintf("[s]ort: %s", sortLabel(q.Sort)),
	}
	line := strings.Join(parts, "   ")

	count := styles.DimStyle.Render(fmt.Sprintf("%d games found", total))
	if dirty {
		count += "   " + styles.ErrorStyle.Render("[c]lear filters")
	}

	return styles.SubtitleStyle.Render(line) + "\n" + count
}
