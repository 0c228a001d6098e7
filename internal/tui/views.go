package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/completeditmate/mate/internal/domain"
	"github.com/completeditmate/mate/internal/tui/components"
	"github.com/completeditmate/mate/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	var body string
	switch m.State {
	case StateBrowse:
		body = m.renderBrowse()
	case StateLibrary:
		body = m.renderLibrary()
	case StateDetail:
		body = m.renderDetail()
	case StateProfile:
		body = m.renderProfile()
	case StateHelp:
		body = m.renderHelp()
	}

	view := m.renderTabs() + "\n\n" + body + "\n" + m.renderFooter()
	if m.Menu.IsOpen() {
		view = m.Menu.Overlay(view)
	}
	return view
}

func (m Model) renderTabs() string {
	tab := func(label string, active bool) string {
		if active {
			return styles.HighlightStyle.Render(label)
		}
		return styles.DimStyle.Render(" " + label + " ")
	}
	detailTag := ""
	if m.State == StateDetail {
		detailTag = "  " + styles.SubtitleStyle.Render("› game")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		styles.TitleStyle.Render(" Completed It Mate "),
		"  ",
		tab("[1] browse", m.State == StateBrowse),
		" ",
		tab("[2] library", m.State == StateLibrary),
		" ",
		tab("[3] profile", m.State == StateProfile),
		detailTag,
	)
}

func (m Model) renderBrowse() string {
	q := m.BrowseSvc.Query()
	result := m.BrowseSvc.Result()

	var b strings.Builder
	b.WriteString(m.FilterBar.View(q, result.Total, m.BrowseSvc.IsDirty()))
	b.WriteString("\n")
	if m.pageFiltering {
		b.WriteString(m.pageInput.View())
	} else if v := strings.TrimSpace(m.pageInput.Value()); v != "" {
		b.WriteString(styles.AccentStyle.Render("f/" + v))
	} else {
		b.WriteString(styles.DimStyle.Render("[f]ilter page"))
	}
	b.WriteString("\n")

	if m.Loading && len(m.List.Items()) == 0 {
		b.WriteString(styles.DimStyle.Render("  " + m.spinner() + " loading games..."))
	} else {
		b.WriteString(m.List.View())
	}

	b.WriteString("\n")
	b.WriteString(components.Pagination(q.Page, m.BrowseSvc.TotalPages()))
	return b.String()
}

func (m Model) renderLibrary() string {
	var b strings.Builder

	var filter string
	if m.libFiltering {
		filter = m.libInput.View()
	} else if v := strings.TrimSpace(m.libInput.Value()); v != "" {
		filter = styles.AccentStyle.Render("f/" + v)
	} else {
		filter = styles.DimStyle.Render("[f]ilter")
	}
	count := styles.DimStyle.Render(fmt.Sprintf("%d games", m.LibrarySvc.Len()))
	b.WriteString(filter + "   " + count + "\n\n")

	switch {
	case !m.IdentityReady:
		b.WriteString(styles.DimStyle.Render("  " + m.spinner() + " signing in..."))
	case !m.LibrarySvc.Loaded():
		b.WriteString(styles.DimStyle.Render("  " + m.spinner() + " loading library..."))
	case m.LibrarySvc.Len() == 0:
		b.WriteString(styles.DimStyle.Render("  Your library is empty. Browse the catalogue and press m on a game."))
	default:
		b.WriteString(m.LibList.View())
	}
	return b.String()
}

func (m Model) renderDetail() string {
	if m.NotFound {
		return styles.SubtitleStyle.Render("  Game not found.") + "\n" +
			styles.DimStyle.Render("  It may have been removed from the catalogue. Press h to go back.")
	}
	if m.Detail == nil {
		return styles.DimStyle.Render("  " + m.spinner() + " loading game...")
	}

	d := m.Detail
	var b strings.Builder

	title := styles.TitleStyle.Render(d.Title)
	if y := d.ReleaseYear(); y > 0 {
		title += styles.DimStyle.Render(fmt.Sprintf("  (%d)", y))
	}
	b.WriteString("  " + title + "\n")

	var facts []string
	if status, ok := m.LibrarySvc.StatusOf(d.ID); ok {
		facts = append(facts, styles.StatusDot(status)+" "+status.String())
	}
	if d.Rating > 0 {
		facts = append(facts, fmt.Sprintf("rating %.0f", d.Rating))
	}
	if d.CompletedCount > 0 {
		facts = append(facts, fmt.Sprintf("🏆 %d completions", d.CompletedCount))
	}
	if len(d.Platforms) > 0 {
		facts = append(facts, strings.Join(d.Platforms, ", "))
	}
	if len(facts) > 0 {
		b.WriteString("  " + styles.SubtitleStyle.Render(strings.Join(facts, "   ")) + "\n")
	}
	b.WriteString("\n")

	if d.Description != "" {
		b.WriteString("  " + wrap(d.Description, m.Width-4) + "\n\n")
	}
	if len(d.Genres) > 0 {
		b.WriteString("  " + styles.DimStyle.Render("Genres: ") + strings.Join(d.Genres, ", ") + "\n")
	}
	if len(d.Developers) > 0 {
		b.WriteString("  " + styles.DimStyle.Render("Developer: ") + strings.Join(d.Developers, ", ") + "\n")
	}
	if len(d.Publishers) > 0 {
		b.WriteString("  " + styles.DimStyle.Render("Publisher: ") + strings.Join(d.Publishers, ", ") + "\n")
	}
	if len(d.StoreLinks) > 0 {
		stores := make([]string, 0, len(d.StoreLinks))
		for _, s := range d.StoreLinks {
			stores = append(stores, s.Store)
		}
		b.WriteString("  " + styles.DimStyle.Render("Stores: ") + strings.Join(stores, ", ") + "\n")
	}

	b.WriteString("\n  " + styles.DimStyle.Render("m: status menu   h: back"))
	return b.String()
}

func (m Model) renderProfile() string {
	var b strings.Builder

	p := m.ProfileSvc.Me()
	b.WriteString("  " + styles.TitleStyle.Render("Profile") + "\n\n")

	if m.editingName {
		b.WriteString("  name: " + m.nameInput.View() + "\n")
		if m.nameErr != "" {
			b.WriteString("  " + styles.ErrorStyle.Render(m.nameErr) + "\n")
		} else {
			b.WriteString("  " + styles.DimStyle.Render("enter to save, esc to cancel") + "\n")
		}
	} else {
		name := "anonymous"
		if p != nil && p.Username != "" {
			name = p.Username
		}
		b.WriteString("  name: " + styles.AccentStyle.Render(name) +
			styles.DimStyle.Render("   [e]dit") + "\n")
	}

	if p != nil {
		b.WriteString(fmt.Sprintf("  games tracked: %d\n", p.GameCount))
		if p.CreatedAt != "" {
			b.WriteString("  member since: " + p.CreatedAt + "\n")
		}
	}

	if m.Community != nil {
		c := m.Community
		b.WriteString("\n  " + styles.TitleStyle.Render("Community") + "\n\n")
		b.WriteString(fmt.Sprintf("  players: %d   tracked games: %d   completed: %d\n",
			c.TotalUsers, c.TotalEntries, c.TotalCompleted))

		if len(c.ByStatus) > 0 {
			parts := make([]string, 0, len(domain.AllStatuses))
			for _, s := range domain.AllStatuses {
				if n, ok := c.ByStatus[s]; ok {
					parts = append(parts, fmt.Sprintf("%s %s %d", styles.StatusDot(s), s.String(), n))
				}
			}
			b.WriteString("  " + strings.Join(parts, "   ") + "\n")
		}
	}
	return b.String()
}

func (m Model) renderHelp() string {
	rows := [][2]string{
		{"j/k, ↑/↓", "move"},
		{"enter", "open game detail"},
		{"m, space", "status menu (add / change / remove)"},
		{"n/b", "next / previous page"},
		{"/", "search the catalogue"},
		{"p, g, y, s", "cycle platform, genre, years, sort"},
		{"z", "cycle page size"},
		{"c", "clear all filters"},
		{"f", "filter the library (local)"},
		{"r", "refresh"},
		{"1/2/3", "browse / library / profile"},
		{"h", "back"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString("  " + styles.TitleStyle.Render("Keys") + "\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			styles.AccentStyle.Render(styles.Pad(r[0], 12)), r[1]))
	}
	b.WriteString("\n  " + styles.DimStyle.Render("press any key to close"))
	return b.String()
}

func (m Model) renderFooter() string {
	left := styles.DimStyle.Render(" ?: help")
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(" " + m.StatusMsg)
		} else {
			left = styles.SuccessStyle.Render(" " + m.StatusMsg)
		}
	}

	right := styles.DimStyle.Render("signing in " + m.spinner() + " ")
	if m.IdentityReady {
		right = styles.SuccessStyle.Render("● ") + styles.DimStyle.Render("online ")
	}

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) spinner() string {
	return styles.SpinnerFrames[m.SpinnerFrame%len(styles.SpinnerFrames)]
}

// wrap breaks s into lines of at most width columns, indented to match
// the detail body.
func wrap(s string, width int) string {
	if width < 20 {
		width = 20
	}
	words := strings.Fields(s)
	var lines []string
	var cur string
	for _, w := range words {
		if cur == "" {
			cur = w
			continue
		}
		if len(cur)+1+len(w) > width {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur += " " + w
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return strings.Join(lines, "\n  ")
}
