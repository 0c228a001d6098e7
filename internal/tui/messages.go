package tui

import (
	"github.com/completeditmate/mate/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error surfaced on the status line
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// IdentityReadyMsg signals the anonymous bootstrap completed
type IdentityReadyMsg struct {
	UserID string
}

// FacetsLoadedMsg signals filter values are available
type FacetsLoadedMsg struct {
	Facets *domain.Facets
}

// PageLoadedMsg signals a browse page came back. Applied is false when
// the response was stale and discarded.
type PageLoadedMsg struct {
	Result  domain.BrowseResult
	Applied bool
}

// LibraryLoadedMsg signals the user's library was (re)loaded
type LibraryLoadedMsg struct{}

// LibraryMutatedMsg signals an add/update/remove finished (the
// optimistic state was already visible before this arrives)
type LibraryMutatedMsg struct {
	GameID string
	Err    error
}

// DetailLoadedMsg signals a game detail view is ready. Detail is nil
// when the game does not exist (rendered as an absence, not an error).
type DetailLoadedMsg struct {
	Detail   *domain.GameDetail
	NotFound bool
}

// ProfileLoadedMsg signals the profile view data is ready
type ProfileLoadedMsg struct {
	Profile *domain.Profile
}

// CommunityLoadedMsg signals community dashboard data is ready
type CommunityLoadedMsg struct {
	Stats *domain.CommunityStats
}

// UsernameSavedMsg signals the display-name save finished; Err carries
// validation/conflict failures for inline rendering
type UsernameSavedMsg struct {
	Profile *domain.Profile
	Err     error
}

// SpinnerTickMsg advances the loading spinner
type SpinnerTickMsg struct{}
