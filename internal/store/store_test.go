package store

import (
	"testing"

	"github.com/completeditmate/mate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiskStore(t *testing.T) *CatalogueStore {
	t.Helper()
	s, err := NewCatalogueStore(t.TempDir(), "https://api.example.com/api")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func samplePage() domain.BrowseResult {
	return domain.BrowseResult{
		Items: []*domain.Game{
			{ID: "g1", Title: "Celeste", Platforms: []string{"PC"}, Rating: 94},
			{ID: "g2", Title: "Hades", Rating: 93},
		},
		Total: 120,
	}
}

func TestPageRoundTrip(t *testing.T) {
	s := newDiskStore(t)

	_, ok := s.GetPage("key-1")
	assert.False(t, ok)

	require.NoError(t, s.SavePage("key-1", samplePage()))

	got, ok := s.GetPage("key-1")
	require.True(t, ok)
	assert.Equal(t, 120, got.Total)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Celeste", got.Items[0].Title)
}

func TestPagesSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := NewCatalogueStore(dir, "https://api.example.com/api")
	require.NoError(t, err)
	require.NoError(t, s.SavePage("key-1", samplePage()))
	require.NoError(t, s.Close())

	reopened, err := NewCatalogueStore(dir, "https://api.example.com/api")
	require.NoError(t, err)
	defer reopened.Close()

	got, ok := reopened.GetPage("key-1")
	require.True(t, ok)
	assert.Equal(t, 120, got.Total)
}

func TestDifferentServersGetSeparateCaches(t *testing.T) {
	dir := t.TempDir()
	a, err := NewCatalogueStore(dir, "https://one.example.com/api")
	require.NoError(t, err)
	defer a.Close()
	b, err := NewCatalogueStore(dir, "https://two.example.com/api")
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.SavePage("key-1", samplePage()))
	_, ok := b.GetPage("key-1")
	assert.False(t, ok)
}

func TestFacetsRoundTrip(t *testing.T) {
	s := newDiskStore(t)

	_, ok := s.GetFacets()
	assert.False(t, ok)

	require.NoError(t, s.SaveFacets(&domain.Facets{
		Platforms: []domain.FacetOption{{Value: "PC", Count: 40}},
		Genres:    []domain.FacetOption{{Value: "RPG", Count: 12}},
	}))

	f, ok := s.GetFacets()
	require.True(t, ok)
	require.Len(t, f.Platforms, 1)
	assert.Equal(t, "PC", f.Platforms[0].Value)
}

func TestGameDetailRoundTrip(t *testing.T) {
	s := newDiskStore(t)

	require.NoError(t, s.SaveGameDetail("hades", &domain.GameDetail{
		Game:        domain.Game{ID: "g2", Title: "Hades"},
		Description: "Escape the underworld.",
	}))

	d, ok := s.GetGameDetail("hades")
	require.True(t, ok)
	assert.Equal(t, "Hades", d.Title)
	assert.Equal(t, "Escape the underworld.", d.Description)
}

func TestInvalidatePagesLeavesFacets(t *testing.T) {
	s := newDiskStore(t)
	require.NoError(t, s.SavePage("key-1", samplePage()))
	require.NoError(t, s.SaveFacets(&domain.Facets{}))

	s.InvalidatePages()

	_, ok := s.GetPage("key-1")
	assert.False(t, ok)
	_, ok = s.GetFacets()
	assert.True(t, ok)
}

func TestInvalidateAll(t *testing.T) {
	s := newDiskStore(t)
	require.NoError(t, s.SavePage("key-1", samplePage()))
	require.NoError(t, s.SaveFacets(&domain.Facets{}))
	require.NoError(t, s.SaveGameDetail("hades", &domain.GameDetail{}))

	s.InvalidateAll()

	_, ok := s.GetPage("key-1")
	assert.False(t, ok)
	_, ok = s.GetFacets()
	assert.False(t, ok)
	_, ok = s.GetGameDetail("hades")
	assert.False(t, ok)
}

func TestMemoryOnlyMode(t *testing.T) {
	s, err := NewCatalogueStore("", "")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SavePage("key-1", samplePage()))
	got, ok := s.GetPage("key-1")
	require.True(t, ok)
	assert.Equal(t, 120, got.Total)
}
