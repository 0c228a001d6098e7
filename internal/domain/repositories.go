package domain

import "context"

// CatalogueRepository provides read access to the remote game catalogue.
type CatalogueRepository interface {
	// GetGames returns one page of catalogue results for the query.
	GetGames(ctx context.Context, q BrowseQuery) (BrowseResult, error)

	// GetGame returns detail for a single game by id or slug, annotated
	// with the caller's library state when identity is available.
	// Returns ErrGameNotFound for unknown ids.
	GetGame(ctx context.Context, idOrSlug string) (*GameDetail, error)

	// GetFacets returns the filter values the catalogue exposes.
	GetFacets(ctx context.Context) (*Facets, error)
}

// LibraryRepository provides CRUD on the current user's library.
type LibraryRepository interface {
	// GetLibrary returns all of the current user's entries, games populated.
	GetLibrary(ctx context.Context) ([]LibraryEntry, error)

	// CreateEntry creates an entry and returns it with the server id.
	// Returns ErrDuplicateEntry when the (user, game) pair already exists.
	CreateEntry(ctx context.Context, gameID string, status Status) (*LibraryEntry, error)

	// UpdateEntry changes an existing entry's status.
	UpdateEntry(ctx context.Context, entryID string, status Status) error

	// DeleteEntry removes an entry.
	DeleteEntry(ctx context.Context, entryID string) error
}

// IdentityRepository exchanges a device id for a server-issued user id.
type IdentityRepository interface {
	CreateAnonymousUser(ctx context.Context, deviceID string) (string, error)
}

// ProfileRepository provides the current user's profile and the
// community dashboard.
type ProfileRepository interface {
	GetMe(ctx context.Context) (*Profile, error)

	// UpdateMe sets the display name. Returns ErrUsernameTaken on collision.
	UpdateMe(ctx context.Context, username string) (*Profile, error)

	GetCommunityStats(ctx context.Context) (*CommunityStats, error)
}
