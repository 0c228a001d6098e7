package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is a user's relationship to a game. The set is closed; the API
// rejects anything else.
type Status string

const (
	StatusWishlist  Status = "wishlist"
	StatusOwned     Status = "owned"
	StatusPlaying   Status = "playing"
	StatusCompleted Status = "completed"
)

// AllStatuses lists every valid status in menu display order.
var AllStatuses = []Status{StatusWishlist, StatusOwned, StatusPlaying, StatusCompleted}

// ParseStatus validates a wire value.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusWishlist:
		return StatusWishlist, nil
	case StatusOwned:
		return StatusOwned, nil
	case StatusPlaying:
		return StatusPlaying, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("unknown library status %q", s)
}

// Valid reports whether s is one of the four defined statuses.
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusWishlist:
		return "Wishlist"
	case StatusOwned:
		return "Owned"
	case StatusPlaying:
		return "Playing"
	case StatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Game is a catalogue entry. Immutable from the client's perspective
// within a session; the catalogue is owned by the remote API.
type Game struct {
	ID             string   `json:"id"`
	Slug           string   `json:"slug,omitempty"`
	Title          string   `json:"title"`
	CoverURL       string   `json:"coverUrl,omitempty"`
	Platforms      []string `json:"platforms,omitempty"`
	Genres         []string `json:"genres,omitempty"`
	ReleaseDate    string   `json:"releaseDate,omitempty"` // ISO date, "" when unknown
	CompletedCount int      `json:"completedCount"`
	Rating         float64  `json:"rating,omitempty"` // 0 when unrated
}

// ReleaseYear returns the release year, or 0 when the date is unknown.
func (g Game) ReleaseYear() int {
	if len(g.ReleaseDate) < 4 {
		return 0
	}
	if t, err := time.Parse("2006-01-02", g.ReleaseDate); err == nil {
		return t.Year()
	}
	// Some catalogue rows carry a bare year
	var y int
	if _, err := fmt.Sscanf(g.ReleaseDate, "%d", &y); err == nil {
		return y
	}
	return 0
}

// GetID returns the unique identifier for this game.
func (g *Game) GetID() string { return g.ID }

// GetTitle returns the display title.
func (g *Game) GetTitle() string { return g.Title }

// GetSortTitle returns the title used for alphabetical sorting
// (handles "The", "A", "An").
func (g *Game) GetSortTitle() string {
	for _, prefix := range []string{"The ", "A ", "An "} {
		if strings.HasPrefix(g.Title, prefix) {
			return g.Title[len(prefix):]
		}
	}
	return g.Title
}

// GameDetail extends Game with the fields only returned by the
// single-game endpoint, optionally annotated with the caller's library
// state.
type GameDetail struct {
	Game
	Description string
	Developers  []string
	Publishers  []string
	Screenshots []string
	StoreLinks  []StoreLink

	// Caller annotation, present only when the request carried a user id
	// and the game is in that user's library.
	UserStatus  Status // "" when not in library
	UserEntryID string // "" when not in library
}

// StoreLink points at a storefront listing for a game.
type StoreLink struct {
	Store string
	URL   string
}

// LibraryEntry is one user's relationship to one game. EntryID is
// assigned by the remote store on creation; at most one entry exists per
// (user, game) pair.
type LibraryEntry struct {
	EntryID   string
	GameID    string
	Status    Status
	Game      *Game // Populated on GET /library; nil on create responses
	CreatedAt string
	UpdatedAt string
}

// FacetOption is one selectable value for a filter control.
type FacetOption struct {
	Value string `json:"value"`
	Count int    `json:"count,omitempty"`
}

// Facets holds the filterable attribute values the catalogue exposes.
type Facets struct {
	Platforms []FacetOption `json:"platforms"`
	Genres    []FacetOption `json:"genres"`
	YearMin   int           `json:"yearMin,omitempty"`
	YearMax   int           `json:"yearMax,omitempty"`
}

// Profile is the anonymous user as the server sees them.
type Profile struct {
	UserID    string
	Username  string // "" until the user picks a display name
	GameCount int
	CreatedAt string
}

// CommunityStats is the aggregate dashboard the API publishes.
type CommunityStats struct {
	TotalUsers     int
	TotalEntries   int
	TotalCompleted int
	ByStatus       map[Status]int
	RecentUsers    []Profile
}
