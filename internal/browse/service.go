package browse

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/completeditmate/mate/internal/domain"
)

// Service owns paged, filtered, sorted retrieval of the game catalogue:
// the current BrowseQuery, the latest BrowseResult, and the derived
// pagination metadata.
//
// Every query change bumps a generation counter; a fetch only applies
// its response while its generation is still current, so a fast filter
// change followed by a slow network response can never overwrite newer
// results with stale ones.
type Service struct {
	repo   domain.CatalogueRepository
	store  domain.Store
	logger *slog.Logger

	mu     sync.RWMutex
	query  domain.BrowseQuery
	result domain.BrowseResult
	gen    uint64

	facets *domain.Facets
}

// NewService creates a browse service starting at the default query.
// store may be nil (no local cache).
func NewService(repo domain.CatalogueRepository, store domain.Store, pageSize int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		store:  store,
		logger: logger,
		query:  DefaultQuery(pageSize),
	}
}

// Query returns the current browse query.
func (s *Service) Query() domain.BrowseQuery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// Result returns the most recently applied page.
func (s *Service) Result() domain.BrowseResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// SetQuery merges a partial change into the current query. Returns the
// merged query. Superseded in-flight fetches are discarded when they
// land.
func (s *Service) SetQuery(p QueryPatch) domain.BrowseQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := Merge(s.query, p)
	if merged != s.query {
		s.query = merged
		s.gen++
	}
	return s.query
}

// ApplyYearPreset computes concrete year bounds from a named preset and
// feeds them through SetQuery.
func (s *Service) ApplyYearPreset(p YearPreset) domain.BrowseQuery {
	min, max := YearRange(p, time.Now().Year())
	return s.SetQuery(QueryPatch{YearMin: &min, YearMax: &max})
}

// IsDirty reports whether any filter field differs from the defaults.
func (s *Service) IsDirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def := DefaultQuery(s.query.PageSize)
	q := s.query
	return q.Q != def.Q ||
		q.Platform != def.Platform ||
		q.Genre != def.Genre ||
		q.YearMin != def.YearMin ||
		q.YearMax != def.YearMax ||
		q.Sort != def.Sort
}

// ClearAll resets every filter to its initial value and the page to 1.
// A no-op when the query is already at the defaults.
func (s *Service) ClearAll() domain.BrowseQuery {
	if !s.IsDirty() {
		return s.Query()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = DefaultQuery(s.query.PageSize)
	s.gen++
	return s.query
}

// NextPage and PrevPage move one page, clamped to [1, TotalPages].
func (s *Service) NextPage() domain.BrowseQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.query.Page < totalPages(s.result.Total, s.query.PageSize) {
		s.query.Page++
		s.gen++
	}
	return s.query
}

func (s *Service) PrevPage() domain.BrowseQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.query.Page > 1 {
		s.query.Page--
		s.gen++
	}
	return s.query
}

// JumpToPage moves directly to a page, clamped to [1, TotalPages].
func (s *Service) JumpToPage(page int) domain.BrowseQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := totalPages(s.result.Total, s.query.PageSize)
	if page < 1 {
		page = 1
	}
	if page > t {
		page = t
	}
	if page != s.query.Page {
		s.query.Page = page
		s.gen++
	}
	return s.query
}

// FetchPage issues a read for the current query and stores the returned
// items and total. The response is discarded silently if the query
// changed while the request was in flight. Returns whether the response
// was applied.
func (s *Service) FetchPage(ctx context.Context) (domain.BrowseResult, bool, error) {
	s.mu.RLock()
	q := s.query
	gen := s.gen
	s.mu.RUnlock()

	res, err := s.repo.GetGames(ctx, q)
	if err != nil {
		s.logger.Error("failed to fetch games", "error", err, "page", q.Page)
		return domain.BrowseResult{}, false, err
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		s.logger.Debug("discarding stale browse response", "page", q.Page)
		return domain.BrowseResult{}, false, nil
	}
	s.result = res
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.SavePage(queryKey(q), res); err != nil {
			s.logger.Error("failed to cache browse page", "error", err)
		}
	}

	s.logger.Debug("fetched games", "count", len(res.Items), "total", res.Total, "page", q.Page)
	return res, true, nil
}

// LoadCached applies the cached page for the current query, if any.
// Used to paint instantly on startup and when offline.
func (s *Service) LoadCached() bool {
	if s.store == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.store.GetPage(queryKey(s.query))
	if !ok {
		return false
	}
	s.result = res
	return true
}

// TotalPages derives the page count from the last result, minimum 1.
func (s *Service) TotalPages() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalPages(s.result.Total, s.query.PageSize)
}

func totalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	t := (total + pageSize - 1) / pageSize
	if t < 1 {
		return 1
	}
	return t
}

// Facets returns the catalogue's filter values, from cache when
// available.
func (s *Service) Facets(ctx context.Context) (*domain.Facets, error) {
	s.mu.RLock()
	cached := s.facets
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	if s.store != nil {
		if f, ok := s.store.GetFacets(); ok {
			s.mu.Lock()
			s.facets = f
			s.mu.Unlock()
			return f, nil
		}
	}

	f, err := s.repo.GetFacets(ctx)
	if err != nil {
		s.logger.Error("failed to fetch facets", "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.facets = f
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.SaveFacets(f); err != nil {
			s.logger.Error("failed to cache facets", "error", err)
		}
	}
	return f, nil
}

// GameDetail returns a single game's detail, caching successful reads.
// Not-found is returned as domain.ErrGameNotFound for the caller to
// render as an absence.
func (s *Service) GameDetail(ctx context.Context, idOrSlug string) (*domain.GameDetail, error) {
	d, err := s.repo.GetGame(ctx, idOrSlug)
	if err != nil {
		// Cache only papers over an unreachable server, never a true 404.
		if errors.Is(err, domain.ErrServerOffline) && s.store != nil {
			if cached, ok := s.store.GetGameDetail(idOrSlug); ok {
				return cached, nil
			}
		}
		return nil, err
	}

	if s.store != nil {
		if err := s.store.SaveGameDetail(idOrSlug, d); err != nil {
			s.logger.Error("failed to cache game detail", "error", err)
		}
	}
	return d, nil
}
