package browse

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/completeditmate/mate/internal/domain"
	"github.com/completeditmate/mate/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalogue serves canned pages and lets a test interpose on the
// request to simulate slow responses.
type fakeCatalogue struct {
	mu       sync.Mutex
	requests []domain.BrowseQuery
	onGet    func(q domain.BrowseQuery)
	total    int
}

func (f *fakeCatalogue) GetGames(ctx context.Context, q domain.BrowseQuery) (domain.BrowseResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, q)
	f.mu.Unlock()
	if f.onGet != nil {
		f.onGet(q)
	}

	items := []*domain.Game{
		{ID: fmt.Sprintf("game-p%d", q.Page), Title: fmt.Sprintf("Game page %d", q.Page)},
	}
	return domain.BrowseResult{Items: items, Total: f.total}, nil
}

func (f *fakeCatalogue) GetGame(ctx context.Context, idOrSlug string) (*domain.GameDetail, error) {
	return nil, domain.ErrGameNotFound
}

func (f *fakeCatalogue) GetFacets(ctx context.Context) (*domain.Facets, error) {
	return &domain.Facets{
		Platforms: []domain.FacetOption{{Value: "PC"}, {Value: "Switch"}},
		Genres:    []domain.FacetOption{{Value: "RPG"}},
	}, nil
}

func newTestService(repo domain.CatalogueRepository) *Service {
	return NewService(repo, nil, 24, log.NullLogger())
}

func TestFetchPageAppliesResult(t *testing.T) {
	repo := &fakeCatalogue{total: 100}
	svc := newTestService(repo)

	res, applied, err := svc.FetchPage(context.Background())
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 100, res.Total)
	assert.Equal(t, 100, svc.Result().Total)
	assert.Equal(t, 5, svc.TotalPages()) // 100 / 24, rounded up
}

func TestFetchPageDiscardsStaleResponse(t *testing.T) {
	repo := &fakeCatalogue{total: 100}
	svc := newTestService(repo)

	// The query changes while the request is "in flight": the response
	// that comes back belongs to a superseded generation.
	repo.onGet = func(q domain.BrowseQuery) {
		if q.Platform == "" {
			repo.onGet = nil
			svc.SetQuery(QueryPatch{Platform: strp("PC")})
		}
	}

	_, applied, err := svc.FetchPage(context.Background())
	require.NoError(t, err)
	assert.False(t, applied, "superseded response must be dropped")
	assert.Zero(t, svc.Result().Total, "stale result must not be stored")

	// The follow-up fetch for the new query applies normally.
	res, applied, err := svc.FetchPage(context.Background())
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 100, res.Total)
}

func TestPageNavigationClamped(t *testing.T) {
	repo := &fakeCatalogue{total: 50} // 3 pages of 24
	svc := newTestService(repo)
	_, _, err := svc.FetchPage(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, svc.PrevPage().Page, "cannot go below page 1")
	assert.Equal(t, 2, svc.NextPage().Page)
	assert.Equal(t, 3, svc.NextPage().Page)
	assert.Equal(t, 3, svc.NextPage().Page, "cannot go past the last page")

	assert.Equal(t, 1, svc.JumpToPage(-5).Page)
	assert.Equal(t, 3, svc.JumpToPage(99).Page)
	assert.Equal(t, 2, svc.JumpToPage(2).Page)
}

func TestIsDirtyAndClearAll(t *testing.T) {
	svc := newTestService(&fakeCatalogue{})
	assert.False(t, svc.IsDirty())

	// Page and page size alone don't make the query dirty.
	svc.SetQuery(QueryPatch{Page: intp(3)})
	assert.False(t, svc.IsDirty())
	svc.SetQuery(QueryPatch{PageSize: intp(48)})
	assert.False(t, svc.IsDirty())

	svc.SetQuery(QueryPatch{Genre: strp("RPG")})
	assert.True(t, svc.IsDirty())

	cleared := svc.ClearAll()
	assert.False(t, svc.IsDirty())
	assert.Equal(t, 1, cleared.Page)
	assert.Empty(t, cleared.Genre)
	assert.Equal(t, 48, cleared.PageSize, "clearing filters keeps the page size")

	// Clearing an already-clean query is a no-op.
	before := svc.Query()
	assert.Equal(t, before, svc.ClearAll())
}

func TestFacetsMemoized(t *testing.T) {
	repo := &fakeCatalogue{}
	svc := newTestService(repo)

	f1, err := svc.Facets(context.Background())
	require.NoError(t, err)
	f2, err := svc.Facets(context.Background())
	require.NoError(t, err)
	assert.Same(t, f1, f2)
}

func TestTotalPagesMinimumOne(t *testing.T) {
	assert.Equal(t, 1, totalPages(0, 24))
	assert.Equal(t, 1, totalPages(10, 24))
	assert.Equal(t, 2, totalPages(25, 24))
	assert.Equal(t, 1, totalPages(100, 0))
}
