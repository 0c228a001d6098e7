package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/completeditmate/mate/internal/browse"
	"github.com/completeditmate/mate/internal/domain"
	"github.com/completeditmate/mate/internal/identity"
	"github.com/completeditmate/mate/internal/library"
	"github.com/completeditmate/mate/internal/profile"
)

// Command factories for async operations

// WaitIdentityCmd blocks until the anonymous bootstrap signals ready
func WaitIdentityCmd(boot *identity.Bootstrapper) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		if err := boot.WaitReady(ctx); err != nil {
			return ErrMsg{Err: err, Context: "signing in"}
		}
		return IdentityReadyMsg{UserID: boot.UserID()}
	}
}

// LoadFacetsCmd loads the platform/genre filter values
func LoadFacetsCmd(svc *browse.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		facets, err := svc.Facets(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading filters"}
		}
		return FacetsLoadedMsg{Facets: facets}
	}
}

// FetchPageCmd fetches the current catalogue page. Stale responses come
// back with Applied false and are ignored by the model.
func FetchPageCmd(svc *browse.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, applied, err := svc.FetchPage(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading games"}
		}
		return PageLoadedMsg{Result: result, Applied: applied}
	}
}

// LoadLibraryCmd loads the user's library projection
func LoadLibraryCmd(svc *library.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := svc.Load(ctx); err != nil {
			return ErrMsg{Err: err, Context: "loading library"}
		}
		return LibraryLoadedMsg{}
	}
}

// AddToLibraryCmd adds a game, or upgrades its status when present.
// The optimistic write already happened by the time the message lands.
func AddToLibraryCmd(svc *library.Service, gameID string, status domain.Status) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := svc.Add(ctx, gameID, status)
		return LibraryMutatedMsg{GameID: gameID, Err: err}
	}
}

// UpdateStatusCmd changes the status of a library game
func UpdateStatusCmd(svc *library.Service, gameID string, status domain.Status) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := svc.UpdateStatus(ctx, gameID, status)
		return LibraryMutatedMsg{GameID: gameID, Err: err}
	}
}

// RemoveFromLibraryCmd removes a game from the library
func RemoveFromLibraryCmd(svc *library.Service, gameID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := svc.Remove(ctx, gameID)
		return LibraryMutatedMsg{GameID: gameID, Err: err}
	}
}

// LoadDetailCmd loads one game's detail view
func LoadDetailCmd(svc *browse.Service, idOrSlug string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		detail, err := svc.GameDetail(ctx, idOrSlug)
		if err != nil {
			if errors.Is(err, domain.ErrGameNotFound) {
				return DetailLoadedMsg{NotFound: true}
			}
			return ErrMsg{Err: err, Context: "loading game"}
		}
		return DetailLoadedMsg{Detail: detail}
	}
}

// LoadProfileCmd loads the user's profile
func LoadProfileCmd(svc *profile.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		p, err := svc.Load(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading profile"}
		}
		return ProfileLoadedMsg{Profile: p}
	}
}

// LoadCommunityCmd loads the community dashboard numbers
func LoadCommunityCmd(svc *profile.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		stats, err := svc.Community(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading community stats"}
		}
		return CommunityLoadedMsg{Stats: stats}
	}
}

// SaveUsernameCmd saves a new display name. Validation and conflict
// errors ride in the message so the profile view can show them inline.
func SaveUsernameCmd(svc *profile.Service, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		p, err := svc.SetUsername(ctx, name)
		return UsernameSavedMsg{Profile: p, Err: err}
	}
}

// SpinnerTickCmd schedules the next spinner frame
func SpinnerTickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return SpinnerTickMsg{}
	})
}
