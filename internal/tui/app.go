package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/completeditmate/mate/internal/browse"
	"github.com/completeditmate/mate/internal/domain"
	"github.com/completeditmate/mate/internal/identity"
	"github.com/completeditmate/mate/internal/library"
	"github.com/completeditmate/mate/internal/profile"
	"github.com/completeditmate/mate/internal/search"
	"github.com/completeditmate/mate/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowse ApplicationState = iota
	StateLibrary
	StateDetail
	StateProfile
	StateHelp
)

// Vertical layout: tab line, filter bar (2 rows), pagination, footer
const (
	headerHeight     = 2
	filterBarHeight  = 3
	paginationHeight = 2
	footerHeight     = 1
)

// Model is the main Bubble Tea model for the application
type Model struct {
	State     ApplicationState
	prevState ApplicationState // where Detail and Help return to
	Ready     bool

	// Services
	BrowseSvc  *browse.Service
	LibrarySvc *library.Service
	ProfileSvc *profile.Service
	Boot       *identity.Bootstrapper

	Keys KeyMap

	// UI components
	List      components.GameList
	LibList   components.GameList
	FilterBar components.FilterBar
	Menu      components.StatusMenu

	// Library quick filter (local, fuzzy, no network)
	libInput     textinput.Model
	libFiltering bool

	// In-page filter over the loaded browse rows
	pageInput     textinput.Model
	pageFiltering bool

	// Profile editing
	nameInput   textinput.Model
	editingName bool
	nameErr     string

	// Data
	Facets    *domain.Facets
	Detail    *domain.GameDetail
	NotFound  bool
	Community *domain.CommunityStats

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg     string
	StatusIsErr   bool
	Loading       bool
	SpinnerFrame  int
	IdentityReady bool
}

// NewModel creates a new application model
func NewModel(
	browseSvc *browse.Service,
	librarySvc *library.Service,
	profileSvc *profile.Service,
	boot *identity.Bootstrapper,
) Model {
	libInput := textinput.New()
	libInput.Placeholder = "filter library"
	libInput.CharLimit = 60

	nameInput := textinput.New()
	nameInput.Placeholder = "display name"
	nameInput.CharLimit = 30

	pageInput := textinput.New()
	pageInput.Placeholder = "filter this page"
	pageInput.CharLimit = 60

	m := Model{
		State:      StateBrowse,
		BrowseSvc:  browseSvc,
		LibrarySvc: librarySvc,
		ProfileSvc: profileSvc,
		Boot:       boot,
		Keys:       DefaultKeyMap(),
		FilterBar:  components.NewFilterBar(),
		Menu:       components.NewStatusMenu(),
		libInput:   libInput,
		nameInput:  nameInput,
		pageInput:  pageInput,
		Loading:    true,
	}
	m.List = components.NewGameList(librarySvc.StatusOf)
	m.LibList = components.NewGameList(librarySvc.StatusOf)

	// A cached page makes the first paint non-empty while the network
	// round trip is still in flight.
	if browseSvc.LoadCached() {
		m.List.SetItems(browseSvc.Result().Items)
	}
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		WaitIdentityCmd(m.Boot),
		LoadFacetsCmd(m.BrowseSvc),
		FetchPageCmd(m.BrowseSvc),
		SpinnerTickCmd(),
		textinput.Blink,
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case SpinnerTickMsg:
		m.SpinnerFrame++
		return m, SpinnerTickCmd()

	case IdentityReadyMsg:
		m.IdentityReady = true
		return m, LoadLibraryCmd(m.LibrarySvc)

	case FacetsLoadedMsg:
		m.Facets = msg.Facets
		return m, nil

	case PageLoadedMsg:
		if !msg.Applied {
			// A newer query superseded this response while it was in
			// flight; the fresher fetch will repaint.
			return m, nil
		}
		m.Loading = false
		m.pageInput.SetValue("")
		m.List.SetFilter("")
		m.List.SetItems(msg.Result.Items)
		m.List.Home()
		m.syncMenuAnchor()
		return m, nil

	case LibraryLoadedMsg:
		m.refreshLibraryList()
		return m, nil

	case LibraryMutatedMsg:
		// The optimistic write already repainted; this only surfaces
		// failures (and under the retain policy the rows stay put).
		if msg.Err != nil {
			m.StatusMsg = "sync failed: " + msg.Err.Error()
			m.StatusIsErr = true
		}
		m.refreshLibraryList()
		return m, nil

	case DetailLoadedMsg:
		m.Loading = false
		m.Detail = msg.Detail
		m.NotFound = msg.NotFound
		return m, nil

	case ProfileLoadedMsg:
		m.nameInput.SetValue(msg.Profile.Username)
		return m, nil

	case CommunityLoadedMsg:
		m.Community = msg.Stats
		return m, nil

	case UsernameSavedMsg:
		if msg.Err != nil {
			m.nameErr = usernameError(msg.Err)
			return m, nil
		}
		m.editingName = false
		m.nameErr = ""
		m.nameInput.Blur()
		m.StatusMsg = "display name saved"
		m.StatusIsErr = false
		return m, nil

	case ErrMsg:
		m.Loading = false
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, nil
	}

	return m, nil
}

func usernameError(err error) string {
	switch {
	case err == nil:
		return ""
	case err == profile.ErrUsernameTooShort:
		return "name is too short"
	case err == domain.ErrUsernameTaken:
		return "that name is taken"
	default:
		return err.Error()
	}
}

func (m *Model) updateLayout() {
	listHeight := m.Height - headerHeight - filterBarHeight - paginationHeight - footerHeight
	if listHeight < 3 {
		listHeight = 3
	}
	m.List.SetSize(m.Width, listHeight)

	libHeight := m.Height - headerHeight - 2 - footerHeight
	if libHeight < 3 {
		libHeight = 3
	}
	m.LibList.SetSize(m.Width, libHeight)
	m.syncMenuAnchor()
}

// syncMenuAnchor repositions the open menu under its trigger row. Runs
// after every cursor move, resize, and repaint-worthy data change so the
// overlay tracks the row it belongs to.
func (m *Model) syncMenuAnchor() {
	if !m.Menu.IsOpen() {
		return
	}
	switch m.State {
	case StateBrowse:
		y := headerHeight + filterBarHeight + m.List.SelectedRow()
		m.Menu.SetAnchor(6, y, m.Width, m.Height)
	case StateLibrary:
		y := headerHeight + 2 + m.LibList.SelectedRow()
		m.Menu.SetAnchor(6, y, m.Width, m.Height)
	case StateDetail:
		m.Menu.SetAnchor(2, headerHeight+2, m.Width, m.Height)
	}
}

// refreshLibraryList rebuilds the library rows from the service
// projection, honoring the local quick filter.
func (m *Model) refreshLibraryList() {
	entries := m.LibrarySvc.Entries()
	games := make([]*domain.Game, 0, len(entries))
	for _, e := range entries {
		if e.Game != nil {
			games = append(games, e.Game)
			continue
		}
		// Added this session; Load hasn't attached catalogue data yet.
		games = append(games, &domain.Game{ID: e.GameID, Title: e.GameID})
	}
	if q := strings.TrimSpace(m.libInput.Value()); q != "" {
		games = search.Filter(q, games)
	}
	m.LibList.SetItems(games)
	m.syncMenuAnchor()
}

// openMenuFor opens the status menu for a game, replacing whichever
// game it was open for before.
func (m *Model) openMenuFor(gameID string) {
	status, inLib := m.LibrarySvc.StatusOf(gameID)
	m.Menu.Open(gameID, inLib, status)
	m.syncMenuAnchor()
}

// dispatchMenuAction turns a menu choice into the matching library
// mutation. The service applies the change locally before the command's
// network call runs, so the next paint already shows it.
func (m *Model) dispatchMenuAction(a *components.MenuAction) tea.Cmd {
	if a.Remove {
		cmd := RemoveFromLibraryCmd(m.LibrarySvc, a.GameID)
		m.refreshLibraryList()
		return cmd
	}
	var cmd tea.Cmd
	if m.LibrarySvc.Has(a.GameID) {
		cmd = UpdateStatusCmd(m.LibrarySvc, a.GameID, a.Status)
	} else {
		cmd = AddToLibraryCmd(m.LibrarySvc, a.GameID, a.Status)
	}
	m.refreshLibraryList()
	return cmd
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	if keyStr == "ctrl+c" {
		return m, tea.Quit
	}

	// The open menu sees keys first. A key it doesn't own closes it and
	// falls through to the view underneath.
	if m.Menu.IsOpen() {
		handled, action := m.Menu.HandleKey(keyStr)
		if action != nil {
			cmd := m.dispatchMenuAction(action)
			return m, cmd
		}
		if handled {
			return m, nil
		}
	}

	// Text inputs swallow everything except their commit/cancel keys.
	if m.FilterBar.Searching() && m.State == StateBrowse {
		return m.handleSearchInput(msg)
	}
	if m.libFiltering && m.State == StateLibrary {
		return m.handleLibFilterInput(msg)
	}
	if m.pageFiltering && m.State == StateBrowse {
		return m.handlePageFilterInput(msg)
	}
	if m.editingName && m.State == StateProfile {
		return m.handleNameInput(msg)
	}

	switch m.State {
	case StateBrowse:
		return m.handleBrowseKeys(msg)
	case StateLibrary:
		return m.handleLibraryKeys(msg)
	case StateDetail:
		return m.handleDetailKeys(msg)
	case StateProfile:
		return m.handleProfileKeys(msg)
	case StateHelp:
		m.State = m.prevState
		return m, nil
	}
	return m, nil
}

func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		q := m.FilterBar.StopSearch()
		m.BrowseSvc.SetQuery(browse.QueryPatch{Q: &q})
		m.Loading = true
		return m, FetchPageCmd(m.BrowseSvc)
	case "esc":
		m.FilterBar.StopSearch()
		return m, nil
	default:
		cmd := m.FilterBar.Update(msg)
		return m, cmd
	}
}

// handlePageFilterInput narrows the loaded page live as the user types.
func (m Model) handlePageFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		if msg.String() == "esc" {
			m.pageInput.SetValue("")
			m.List.SetFilter("")
		}
		m.pageFiltering = false
		m.pageInput.Blur()
		m.syncMenuAnchor()
		return m, nil
	default:
		var cmd tea.Cmd
		m.pageInput, cmd = m.pageInput.Update(msg)
		m.List.SetFilter(strings.TrimSpace(m.pageInput.Value()))
		m.syncMenuAnchor()
		return m, cmd
	}
}

func (m Model) handleLibFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		if msg.String() == "esc" {
			m.libInput.SetValue("")
		}
		m.libFiltering = false
		m.libInput.Blur()
		m.refreshLibraryList()
		return m, nil
	default:
		var cmd tea.Cmd
		m.libInput, cmd = m.libInput.Update(msg)
		m.refreshLibraryList()
		return m, cmd
	}
}

func (m Model) handleNameInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m, SaveUsernameCmd(m.ProfileSvc, m.nameInput.Value())
	case "esc":
		m.editingName = false
		m.nameErr = ""
		m.nameInput.Blur()
		if p := m.ProfileSvc.Me(); p != nil {
			m.nameInput.SetValue(p.Username)
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
}

func (m Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Up):
		m.List.MoveUp()
		m.syncMenuAnchor()
		return m, nil

	case key.Matches(msg, m.Keys.Down):
		m.List.MoveDown()
		m.syncMenuAnchor()
		return m, nil

	case key.Matches(msg, m.Keys.Home):
		m.List.Home()
		m.syncMenuAnchor()
		return m, nil

	case key.Matches(msg, m.Keys.NextPage):
		if m.BrowseSvc.Query().Page < m.BrowseSvc.TotalPages() {
			m.BrowseSvc.NextPage()
			m.Loading = true
			return m, FetchPageCmd(m.BrowseSvc)
		}
		return m, nil

	case key.Matches(msg, m.Keys.PrevPage):
		if m.BrowseSvc.Query().Page > 1 {
			m.BrowseSvc.PrevPage()
			m.Loading = true
			return m, FetchPageCmd(m.BrowseSvc)
		}
		return m, nil

	case key.Matches(msg, m.Keys.Search):
		return m, m.FilterBar.StartSearch(m.BrowseSvc.Query().Q)

	case key.Matches(msg, m.Keys.QuickFilter):
		m.pageFiltering = true
		return m, m.pageInput.Focus()

	case key.Matches(msg, m.Keys.Platform):
		if m.Facets == nil {
			return m, nil
		}
		next := components.CycleOption(m.BrowseSvc.Query().Platform, m.Facets.Platforms)
		m.BrowseSvc.SetQuery(browse.QueryPatch{Platform: &next})
		m.Loading = true
		return m, FetchPageCmd(m.BrowseSvc)

	case key.Matches(msg, m.Keys.Genre):
		if m.Facets == nil {
			return m, nil
		}
		next := components.CycleOption(m.BrowseSvc.Query().Genre, m.Facets.Genres)
		m.BrowseSvc.SetQuery(browse.QueryPatch{Genre: &next})
		m.Loading = true
		return m, FetchPageCmd(m.BrowseSvc)

	case key.Matches(msg, m.Keys.Years):
		preset := m.FilterBar.CycleYearPreset()
		m.BrowseSvc.ApplyYearPreset(preset)
		m.Loading = true
		return m, FetchPageCmd(m.BrowseSvc)

	case key.Matches(msg, m.Keys.Sort):
		next := components.CycleSort(m.BrowseSvc.Query().Sort)
		m.BrowseSvc.SetQuery(browse.QueryPatch{Sort: &next})
		m.Loading = true
		return m, FetchPageCmd(m.BrowseSvc)

	case key.Matches(msg, m.Keys.PageSize):
		next := nextPageSize(m.BrowseSvc.Query().PageSize)
		m.BrowseSvc.SetQuery(browse.QueryPatch{PageSize: &next})
		m.Loading = true
		return m, FetchPageCmd(m.BrowseSvc)

	case key.Matches(msg, m.Keys.ClearFilters):
		if !m.BrowseSvc.IsDirty() {
			return m, nil
		}
		m.BrowseSvc.ClearAll()
		m.FilterBar.ResetYearPreset()
		m.Loading = true
		return m, FetchPageCmd(m.BrowseSvc)

	case key.Matches(msg, m.Keys.StatusMenu):
		if g := m.List.Selected(); g != nil {
			m.openMenuFor(g.ID)
		}
		return m, nil

	case key.Matches(msg, m.Keys.Enter):
		if g := m.List.Selected(); g != nil {
			return m.openDetail(g.ID)
		}
		return m, nil

	case key.Matches(msg, m.Keys.Refresh):
		m.Loading = true
		return m, tea.Batch(FetchPageCmd(m.BrowseSvc), LoadFacetsCmd(m.BrowseSvc))

	case key.Matches(msg, m.Keys.Library):
		return m.switchToLibrary()
	case key.Matches(msg, m.Keys.Profile):
		return m.switchToProfile()
	case key.Matches(msg, m.Keys.Help):
		m.prevState = m.State
		m.State = StateHelp
		return m, nil
	}
	return m, nil
}

func (m Model) handleLibraryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Up):
		m.LibList.MoveUp()
		m.syncMenuAnchor()
		return m, nil

	case key.Matches(msg, m.Keys.Down):
		m.LibList.MoveDown()
		m.syncMenuAnchor()
		return m, nil

	case key.Matches(msg, m.Keys.QuickFilter):
		m.libFiltering = true
		return m, m.libInput.Focus()

	case key.Matches(msg, m.Keys.StatusMenu):
		if g := m.LibList.Selected(); g != nil {
			m.openMenuFor(g.ID)
		}
		return m, nil

	case key.Matches(msg, m.Keys.Enter):
		if g := m.LibList.Selected(); g != nil {
			return m.openDetail(g.ID)
		}
		return m, nil

	case key.Matches(msg, m.Keys.Refresh):
		return m, LoadLibraryCmd(m.LibrarySvc)

	case key.Matches(msg, m.Keys.Browse), key.Matches(msg, m.Keys.Back):
		m.State = StateBrowse
		return m, nil
	case key.Matches(msg, m.Keys.Profile):
		return m.switchToProfile()
	case key.Matches(msg, m.Keys.Help):
		m.prevState = m.State
		m.State = StateHelp
		return m, nil
	}
	return m, nil
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Back), key.Matches(msg, m.Keys.Escape):
		m.State = m.prevState
		m.Detail = nil
		m.NotFound = false
		return m, nil

	case key.Matches(msg, m.Keys.StatusMenu):
		if m.Detail != nil {
			m.openMenuFor(m.Detail.ID)
		}
		return m, nil

	case key.Matches(msg, m.Keys.Browse):
		m.State = StateBrowse
		return m, nil
	case key.Matches(msg, m.Keys.Library):
		return m.switchToLibrary()
	case key.Matches(msg, m.Keys.Help):
		m.prevState = m.State
		m.State = StateHelp
		return m, nil
	}
	return m, nil
}

func (m Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case msg.String() == "e":
		m.editingName = true
		m.nameErr = ""
		return m, m.nameInput.Focus()

	case key.Matches(msg, m.Keys.Refresh):
		return m, tea.Batch(LoadProfileCmd(m.ProfileSvc), LoadCommunityCmd(m.ProfileSvc))

	case key.Matches(msg, m.Keys.Browse), key.Matches(msg, m.Keys.Back):
		m.State = StateBrowse
		return m, nil
	case key.Matches(msg, m.Keys.Library):
		return m.switchToLibrary()
	case key.Matches(msg, m.Keys.Help):
		m.prevState = m.State
		m.State = StateHelp
		return m, nil
	}
	return m, nil
}

func (m Model) switchToLibrary() (tea.Model, tea.Cmd) {
	m.State = StateLibrary
	m.refreshLibraryList()
	if m.IdentityReady && !m.LibrarySvc.Loaded() {
		return m, LoadLibraryCmd(m.LibrarySvc)
	}
	return m, nil
}

func (m Model) switchToProfile() (tea.Model, tea.Cmd) {
	m.State = StateProfile
	return m, tea.Batch(LoadProfileCmd(m.ProfileSvc), LoadCommunityCmd(m.ProfileSvc))
}

func (m Model) openDetail(gameID string) (tea.Model, tea.Cmd) {
	m.prevState = m.State
	m.State = StateDetail
	m.Detail = nil
	m.NotFound = false
	m.Loading = true
	return m, LoadDetailCmd(m.BrowseSvc, gameID)
}

func nextPageSize(current int) int {
	for i, s := range browse.PageSizes {
		if s == current {
			return browse.PageSizes[(i+1)%len(browse.PageSizes)]
		}
	}
	return browse.DefaultPageSize
}
