package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/completeditmate/mate/internal/domain"
	"github.com/completeditmate/mate/internal/tui/styles"
)

// Annotator reports a game's library membership for row decoration.
// The join against the library maps lives in the service; the list only
// asks.
type Annotator func(gameID string) (domain.Status, bool)

// GameList is a scrolling list of catalogue rows with a cursor. One row
// per game: status dot, title, year, platforms, rating, completions.
type GameList struct {
	items    []*domain.Game
	annotate Annotator

	// Local fuzzy filter over the loaded rows
	filterQuery string
	filteredIdx []int

	cursor int
	offset int // first visible row

	width  int
	height int
}

// NewGameList creates an empty list.
func NewGameList(annotate Annotator) GameList {
	if annotate == nil {
		annotate = func(string) (domain.Status, bool) { return "", false }
	}
	return GameList{annotate: annotate}
}

// SetSize updates the viewport dimensions.
func (l *GameList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.clamp()
}

// SetItems replaces the rows, keeping the cursor in range and the
// local filter applied.
func (l *GameList) SetItems(items []*domain.Game) {
	l.items = items
	l.SetFilter(l.filterQuery)
}

// SetFilter narrows the visible rows to fuzzy title matches, best
// match first. An empty query shows everything again.
func (l *GameList) SetFilter(query string) {
	l.filterQuery = query
	if query == "" {
		l.filteredIdx = nil
		l.clamp()
		return
	}

	titles := make([]string, len(l.items))
	for i, g := range l.items {
		titles[i] = strings.ToLower(g.Title)
	}
	matches := fuzzy.Find(strings.ToLower(query), titles)

	l.filteredIdx = make([]int, len(matches))
	for i, m := range matches {
		l.filteredIdx[i] = m.Index
	}
	l.cursor = 0
	l.offset = 0
}

// rows returns the visible rows after the local filter.
func (l *GameList) rows() []*domain.Game {
	if l.filterQuery == "" {
		return l.items
	}
	rows := make([]*domain.Game, len(l.filteredIdx))
	for i, idx := range l.filteredIdx {
		rows[i] = l.items[idx]
	}
	return rows
}

// Items returns the current rows after the local filter.
func (l *GameList) Items() []*domain.Game { return l.rows() }

// Len returns the visible row count.
func (l *GameList) Len() int { return len(l.rows()) }

// Selected returns the game under the cursor, or nil.
func (l *GameList) Selected() *domain.Game {
	rows := l.rows()
	if l.cursor < 0 || l.cursor >= len(rows) {
		return nil
	}
	return rows[l.cursor]
}

// SelectedRow returns the cursor's visible row index (0-based within
// the rendered viewport). Used to anchor the floating status menu.
func (l *GameList) SelectedRow() int {
	return l.cursor - l.offset
}

// MoveUp / MoveDown move the cursor one row, scrolling as needed.
func (l *GameList) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
	l.clamp()
}

func (l *GameList) MoveDown() {
	if l.cursor < len(l.rows())-1 {
		l.cursor++
	}
	l.clamp()
}

// Home moves the cursor to the first row.
func (l *GameList) Home() {
	l.cursor = 0
	l.offset = 0
}

func (l *GameList) clamp() {
	if l.cursor >= len(l.rows()) {
		l.cursor = len(l.rows()) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	visible := l.visibleRows()
	if visible <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+visible {
		l.offset = l.cursor - visible + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

func (l *GameList) visibleRows() int {
	return l.height
}

// View renders the visible window of rows.
func (l GameList) View() string {
	items := l.rows()
	if len(items) == 0 {
		return styles.DimStyle.Render("Nothing found.")
	}

	visible := l.visibleRows()
	if visible <= 0 {
		visible = len(items)
	}
	end := l.offset + visible
	if end > len(items) {
		end = len(items)
	}

	out := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		out = append(out, l.renderRow(items[i], i == l.cursor))
	}
	return strings.Join(out, "\n")
}

func (l GameList) renderRow(g *domain.Game, selected bool) string {
	dot := " "
	if status, ok := l.annotate(g.ID); ok {
		dot = styles.StatusDot(status)
	}

	year := "    "
	if y := g.ReleaseYear(); y > 0 {
		year = fmt.Sprintf("%4d", y)
	}

	rating := "  — "
	if g.Rating > 0 {
		rating = fmt.Sprintf("%4.0f", g.Rating)
	}

	completions := ""
	if g.CompletedCount > 0 {
		completions = fmt.Sprintf("🏆 %d", g.CompletedCount)
	}

	titleWidth := l.width - 30
	if titleWidth < 20 {
		titleWidth = 20
	}
	title := styles.Pad(g.Title, titleWidth)
	platforms := strings.Join(g.Platforms, ", ")

	line := fmt.Sprintf(" %s  %s %s  %s  %-12s %s", dot, title, year, rating,
		truncate(platforms, 12), completions)

	if selected {
		return styles.SelectedRowStyle.Width(l.width).Render(line)
	}
	return lipgloss.NewStyle().Width(l.width).Render(line)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
