package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/completeditmate/mate/internal/domain"
	"github.com/completeditmate/mate/internal/tui/styles"
)

// MenuAction is the user's choice from the status menu.
type MenuAction struct {
	GameID string
	Status domain.Status // Chosen status; ignored when Remove is set
	Remove bool
}

// StatusMenu is the floating add/update/remove menu for one game. It is
// rendered as an overlay in screen coordinates, anchored below its
// trigger row, so no scrolling container can clip it. There is exactly
// one instance app-wide: opening it for a second game implicitly closes
// the first (last writer wins).
type StatusMenu struct {
	visible bool
	gameID  string
	inLib   bool
	current domain.Status

	anchorX int
	anchorY int

	cursor int
}

// NewStatusMenu creates a hidden menu.
func NewStatusMenu() StatusMenu {
	return StatusMenu{}
}

// Open shows the menu for a game. current is "" when the game is not in
// the library yet.
func (m *StatusMenu) Open(gameID string, inLibrary bool, current domain.Status) {
	m.visible = true
	m.gameID = gameID
	m.inLib = inLibrary
	m.current = current
	m.cursor = 0
	for i, s := range domain.AllStatuses {
		if s == current {
			m.cursor = i
			break
		}
	}
}

// Close hides the menu.
func (m *StatusMenu) Close() {
	m.visible = false
	m.gameID = ""
}

// IsOpen reports whether the menu is showing.
func (m StatusMenu) IsOpen() bool { return m.visible }

// OpenFor returns the game id the menu is open for ("" when closed).
// This is the app-wide "open menu id".
func (m StatusMenu) OpenFor() string {
	if !m.visible {
		return ""
	}
	return m.gameID
}

// SetAnchor positions the menu below a trigger at screen coordinates
// (x, y), clamped so the box stays inside the viewport and flipped above
// the trigger when there is no room below. Called on every layout pass
// while open, so resizes and scrolls reposition it.
func (m *StatusMenu) SetAnchor(x, y, screenW, screenH int) {
	w, h := m.size()
	if x+w > screenW {
		x = screenW - w
	}
	if x < 0 {
		x = 0
	}
	// Prefer below the trigger; flip above when clipped by the bottom.
	below := y + 1
	if below+h > screenH && y-h >= 0 {
		below = y - h
	}
	if below < 0 {
		below = 0
	}
	m.anchorX = x
	m.anchorY = below
}

func (m StatusMenu) options() []string {
	opts := make([]string, 0, len(domain.AllStatuses)+1)
	for _, s := range domain.AllStatuses {
		opts = append(opts, s.String())
	}
	if m.inLib {
		opts = append(opts, "Remove")
	}
	return opts
}

func (m StatusMenu) size() (int, int) {
	const innerWidth = 16
	return innerWidth + 2, len(m.options()) + 2 // +2 for the border
}

// HandleKey processes a key press. Any key that is not part of the menu
// interaction closes it (the outside-click analogue) and is NOT consumed,
// so the underlying view still reacts to it.
func (m *StatusMenu) HandleKey(key string) (handled bool, action *MenuAction) {
	if !m.visible {
		return false, nil
	}

	opts := m.options()
	switch key {
	case "j", "down":
		if m.cursor < len(opts)-1 {
			m.cursor++
		}
		return true, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return true, nil
	case "enter", " ":
		act := &MenuAction{GameID: m.gameID}
		if m.inLib && m.cursor == len(opts)-1 {
			act.Remove = true
		} else {
			act.Status = domain.AllStatuses[m.cursor]
		}
		m.Close()
		return true, act
	case "esc", "q":
		m.Close()
		return true, nil
	default:
		m.Close()
		return false, nil
	}
}

// View renders the menu box.
func (m StatusMenu) View() string {
	if !m.visible {
		return ""
	}

	opts := m.options()
	lines := make([]string, 0, len(opts))
	for i, label := range opts {
		prefix := "  "
		if m.inLib && i < len(domain.AllStatuses) && domain.AllStatuses[i] == m.current {
			prefix = "✓ "
		}
		text := styles.Pad(prefix+label, 16)

		switch {
		case i == m.cursor && label == "Remove":
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.White).Background(styles.Red).Render(text))
		case i == m.cursor:
			lines = append(lines, styles.SelectedRowStyle.Render(text))
		case label == "Remove":
			lines = append(lines, styles.ErrorStyle.Render(text))
		default:
			lines = append(lines, styles.SubtitleStyle.Render(text))
		}
	}

	return styles.ActiveBorder.Render(strings.Join(lines, "\n"))
}

// Overlay draws the menu over base at its anchor. The base is the fully
// rendered screen; splicing happens in screen space, which is what lets
// the menu escape any clipped ancestor.
func (m StatusMenu) Overlay(base string) string {
	if !m.visible {
		return base
	}
	return composeOverlay(base, m.View(), m.anchorX, m.anchorY)
}

// composeOverlay splices overlay into base at column x, row y.
func composeOverlay(base, overlay string, x, y int) string {
	baseLines := strings.Split(base, "\n")
	overLines := strings.Split(overlay, "\n")

	for i, over := range overLines {
		row := y + i
		if row < 0 || row >= len(baseLines) {
			continue
		}
		line := baseLines[row]

		left := ansi.Truncate(line, x, "")
		if pad := x - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}

		overWidth := ansi.StringWidth(over)
		right := ansi.TruncateLeft(line, x+overWidth, "")

		baseLines[row] = left + over + right
	}

	return strings.Join(baseLines, "\n")
}
