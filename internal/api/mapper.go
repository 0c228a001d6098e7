package api

import (
	"github.com/completeditmate/mate/internal/domain"
)

func mapGame(d gameDTO) *domain.Game {
	g := &domain.Game{
		ID:             d.ID,
		Slug:           d.Slug,
		Title:          d.Title,
		Platforms:      d.ParentPlatforms,
		Genres:         d.Genres,
		CompletedCount: d.CompletedCount,
	}
	if d.ImageURL != nil {
		g.CoverURL = *d.ImageURL
	}
	if d.ReleaseDate != nil {
		g.ReleaseDate = *d.ReleaseDate
	}
	if d.Metacritic != nil {
		g.Rating = d.Metacritic.Score
	}
	return g
}

func mapGames(dtos []gameDTO) []*domain.Game {
	games := make([]*domain.Game, len(dtos))
	for i, d := range dtos {
		games[i] = mapGame(d)
	}
	return games
}

func mapGameDetail(d gameDetailDTO) *domain.GameDetail {
	detail := &domain.GameDetail{
		Game:        *mapGame(d.gameDTO),
		Description: d.Description,
		Developers:  d.Developers,
		Publishers:  d.Publishers,
		Screenshots: d.Screenshots,
		UserEntryID: d.UserGameID,
	}
	for _, l := range d.StoreLinks {
		detail.StoreLinks = append(detail.StoreLinks, domain.StoreLink{Store: l.Store, URL: l.URL})
	}
	if s, err := domain.ParseStatus(d.UserStatus); err == nil && d.UserStatus != "" {
		detail.UserStatus = s
	}
	return detail
}

func mapFacets(d facetsDTO) *domain.Facets {
	f := &domain.Facets{YearMin: d.YearMin, YearMax: d.YearMax}
	for _, p := range d.Platforms {
		f.Platforms = append(f.Platforms, domain.FacetOption{Value: p.Value, Count: p.Count})
	}
	for _, g := range d.Genres {
		f.Genres = append(f.Genres, domain.FacetOption{Value: g.Value, Count: g.Count})
	}
	return f
}

func mapLibraryItem(d libraryItemDTO) domain.LibraryEntry {
	entry := domain.LibraryEntry{
		EntryID:   d.ID,
		GameID:    d.Game.ID,
		Game:      mapGame(d.Game),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if s, err := domain.ParseStatus(d.Status); err == nil {
		entry.Status = s
	}
	return entry
}

func mapProfile(d profileDTO) *domain.Profile {
	return &domain.Profile{
		UserID:    d.UserID,
		Username:  d.Username,
		GameCount: d.GameCount,
		CreatedAt: d.CreatedAt,
	}
}
