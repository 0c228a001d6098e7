package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/completeditmate/mate/internal/browse"
	"github.com/completeditmate/mate/internal/domain"
	"github.com/completeditmate/mate/internal/identity"
	"github.com/completeditmate/mate/internal/library"
	"github.com/completeditmate/mate/internal/log"
	"github.com/completeditmate/mate/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalogue struct{}

func (stubCatalogue) GetGames(ctx context.Context, q domain.BrowseQuery) (domain.BrowseResult, error) {
	return domain.BrowseResult{}, nil
}
func (stubCatalogue) GetGame(ctx context.Context, idOrSlug string) (*domain.GameDetail, error) {
	return nil, domain.ErrGameNotFound
}
func (stubCatalogue) GetFacets(ctx context.Context) (*domain.Facets, error) {
	return &domain.Facets{}, nil
}

type stubLibrary struct{}

func (stubLibrary) GetLibrary(ctx context.Context) ([]domain.LibraryEntry, error) { return nil, nil }
func (stubLibrary) CreateEntry(ctx context.Context, gameID string, status domain.Status) (*domain.LibraryEntry, error) {
	return &domain.LibraryEntry{EntryID: "e1", GameID: gameID, Status: status}, nil
}
func (stubLibrary) UpdateEntry(ctx context.Context, entryID string, status domain.Status) error {
	return nil
}
func (stubLibrary) DeleteEntry(ctx context.Context, entryID string) error { return nil }

type stubProfile struct{}

func (stubProfile) GetMe(ctx context.Context) (*domain.Profile, error) {
	return &domain.Profile{UserID: "u1"}, nil
}
func (stubProfile) UpdateMe(ctx context.Context, username string) (*domain.Profile, error) {
	return &domain.Profile{UserID: "u1", Username: username}, nil
}
func (stubProfile) GetCommunityStats(ctx context.Context) (*domain.CommunityStats, error) {
	return &domain.CommunityStats{}, nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	logger := log.NullLogger()
	boot := identity.New("device-1", nil, logger)
	m := NewModel(
		browse.NewService(stubCatalogue{}, nil, 24, logger),
		library.NewService(stubLibrary{}, boot, library.Retain, logger),
		profile.NewService(stubProfile{}, logger),
		boot,
	)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func sendKey(m Model, key string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return next.(Model)
}

func loadPage(m Model, games ...*domain.Game) Model {
	next, _ := m.Update(PageLoadedMsg{
		Result:  domain.BrowseResult{Items: games, Total: len(games)},
		Applied: true,
	})
	return next.(Model)
}

func TestStaleResponseDoesNotRepaint(t *testing.T) {
	m := newTestModel(t)
	m = loadPage(m, &domain.Game{ID: "g1", Title: "Current"})

	next, _ := m.Update(PageLoadedMsg{
		Result:  domain.BrowseResult{Items: []*domain.Game{{ID: "old", Title: "Stale"}}, Total: 1},
		Applied: false,
	})
	m = next.(Model)

	require.Equal(t, 1, m.List.Len())
	assert.Equal(t, "Current", m.List.Selected().Title)
}

func TestStatusMenuOpensForSelectedGame(t *testing.T) {
	m := newTestModel(t)
	m = loadPage(m,
		&domain.Game{ID: "g1", Title: "First"},
		&domain.Game{ID: "g2", Title: "Second"},
	)

	m = sendKey(m, "m")
	assert.Equal(t, "g1", m.Menu.OpenFor())

	// While the menu is open, j moves the menu cursor, not the list.
	m = sendKey(m, "j")
	assert.Equal(t, "First", m.List.Selected().Title)
	assert.Equal(t, "g1", m.Menu.OpenFor())
}

func TestUnownedKeyClosesMenuAndFallsThrough(t *testing.T) {
	m := newTestModel(t)
	m = loadPage(m,
		&domain.Game{ID: "g1", Title: "First"},
		&domain.Game{ID: "g2", Title: "Second"},
	)

	m = sendKey(m, "m")
	require.True(t, m.Menu.IsOpen())

	// "1"..."3" switch views; the menu doesn't own them, so the menu
	// closes and the key still acts.
	m = sendKey(m, "2")
	assert.False(t, m.Menu.IsOpen())
	assert.Equal(t, StateLibrary, m.State)
}

func TestMenuSelectionAddsToLibrary(t *testing.T) {
	m := newTestModel(t)
	m = loadPage(m, &domain.Game{ID: "g1", Title: "First"})

	m = sendKey(m, "m")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.False(t, m.Menu.IsOpen())

	msg := cmd()
	mutated, ok := msg.(LibraryMutatedMsg)
	require.True(t, ok)
	assert.Equal(t, "g1", mutated.GameID)
	assert.NoError(t, mutated.Err)

	assert.True(t, m.LibrarySvc.Has("g1"))
	status, _ := m.LibrarySvc.StatusOf("g1")
	assert.Equal(t, domain.StatusWishlist, status)
}

func TestErrMsgLandsOnStatusLine(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(ErrMsg{Err: domain.ErrServerOffline, Context: "loading games"})
	m = next.(Model)

	assert.True(t, m.StatusIsErr)
	assert.Contains(t, m.StatusMsg, "loading games")
}

func TestHelpReturnsToPreviousState(t *testing.T) {
	m := newTestModel(t)
	m = sendKey(m, "2")
	require.Equal(t, StateLibrary, m.State)

	m = sendKey(m, "?")
	assert.Equal(t, StateHelp, m.State)
	m = sendKey(m, "x")
	assert.Equal(t, StateLibrary, m.State)
}
