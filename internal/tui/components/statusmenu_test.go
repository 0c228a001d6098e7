package components

import (
	"strings"
	"testing"

	"github.com/completeditmate/mate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenForTracksSingleMenu(t *testing.T) {
	m := NewStatusMenu()
	assert.False(t, m.IsOpen())
	assert.Empty(t, m.OpenFor())

	m.Open("g1", false, "")
	assert.True(t, m.IsOpen())
	assert.Equal(t, "g1", m.OpenFor())

	// Opening for another game replaces the first; there is never more
	// than one open menu.
	m.Open("g2", true, domain.StatusOwned)
	assert.Equal(t, "g2", m.OpenFor())

	m.Close()
	assert.False(t, m.IsOpen())
	assert.Empty(t, m.OpenFor())
}

func TestOpenCursorStartsOnCurrentStatus(t *testing.T) {
	m := NewStatusMenu()
	m.Open("g1", true, domain.StatusPlaying)
	assert.Equal(t, 2, m.cursor) // wishlist, owned, playing, completed

	m.Open("g1", false, "")
	assert.Equal(t, 0, m.cursor)
}

func TestRemoveOptionOnlyWhenInLibrary(t *testing.T) {
	m := NewStatusMenu()

	m.Open("g1", false, "")
	assert.Len(t, m.options(), len(domain.AllStatuses))

	m.Open("g1", true, domain.StatusOwned)
	opts := m.options()
	require.Len(t, opts, len(domain.AllStatuses)+1)
	assert.Equal(t, "Remove", opts[len(opts)-1])
}

func TestHandleKeySelectStatus(t *testing.T) {
	m := NewStatusMenu()
	m.Open("g1", false, "")

	handled, action := m.HandleKey("j")
	assert.True(t, handled)
	assert.Nil(t, action)

	handled, action = m.HandleKey("enter")
	require.True(t, handled)
	require.NotNil(t, action)
	assert.Equal(t, "g1", action.GameID)
	assert.Equal(t, domain.StatusOwned, action.Status)
	assert.False(t, action.Remove)
	assert.False(t, m.IsOpen(), "choosing closes the menu")
}

func TestHandleKeySelectRemove(t *testing.T) {
	m := NewStatusMenu()
	m.Open("g1", true, domain.StatusCompleted)

	// Walk past the last status onto Remove.
	m.HandleKey("j")
	m.HandleKey("j")
	handled, action := m.HandleKey("enter")
	require.True(t, handled)
	require.NotNil(t, action)
	assert.True(t, action.Remove)
}

func TestHandleKeyEscapeCloses(t *testing.T) {
	m := NewStatusMenu()
	m.Open("g1", false, "")

	handled, action := m.HandleKey("esc")
	assert.True(t, handled)
	assert.Nil(t, action)
	assert.False(t, m.IsOpen())
}

func TestHandleKeyUnrelatedKeyClosesWithoutConsuming(t *testing.T) {
	m := NewStatusMenu()
	m.Open("g1", false, "")

	// The outside-click analogue: the menu closes and the key falls
	// through to whatever is underneath.
	handled, action := m.HandleKey("n")
	assert.False(t, handled)
	assert.Nil(t, action)
	assert.False(t, m.IsOpen())
}

func TestHandleKeyClosedMenuIgnoresInput(t *testing.T) {
	m := NewStatusMenu()
	handled, action := m.HandleKey("enter")
	assert.False(t, handled)
	assert.Nil(t, action)
}

func TestSetAnchorPrefersBelowTrigger(t *testing.T) {
	m := NewStatusMenu()
	m.Open("g1", false, "")

	m.SetAnchor(10, 5, 80, 40)
	assert.Equal(t, 10, m.anchorX)
	assert.Equal(t, 6, m.anchorY, "menu opens on the row below the trigger")
}

func TestSetAnchorFlipsAboveWhenBottomClipped(t *testing.T) {
	m := NewStatusMenu()
	m.Open("g1", false, "")
	_, h := m.size()

	m.SetAnchor(10, 38, 80, 40)
	assert.Equal(t, 38-h, m.anchorY, "no room below, menu flips above the trigger")
}

func TestSetAnchorClampsHorizontally(t *testing.T) {
	m := NewStatusMenu()
	m.Open("g1", false, "")
	w, _ := m.size()

	m.SetAnchor(200, 5, 80, 40)
	assert.Equal(t, 80-w, m.anchorX)

	m.SetAnchor(-4, 5, 80, 40)
	assert.Equal(t, 0, m.anchorX)
}

func TestViewListsOptions(t *testing.T) {
	m := NewStatusMenu()
	m.Open("g1", true, domain.StatusOwned)

	view := m.View()
	for _, s := range domain.AllStatuses {
		assert.Contains(t, view, s.String())
	}
	assert.Contains(t, view, "Remove")
}

func TestOverlaySplicesMenuIntoBase(t *testing.T) {
	m := NewStatusMenu()
	m.Open("g1", false, "")
	m.SetAnchor(0, 0, 80, 40)

	base := strings.Repeat(strings.Repeat(".", 40)+"\n", 20)
	out := m.Overlay(base)
	assert.Contains(t, out, "Wishlist")
	assert.Equal(t, len(strings.Split(base, "\n")), len(strings.Split(out, "\n")),
		"overlay keeps the base line count")
}
