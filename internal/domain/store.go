package domain

// Store handles the local catalogue cache (BoltDB + memory). The library
// maps are never cached here; the server remains their source of truth.
type Store interface {
	// === Browse pages (keyed by canonical query key) ===
	GetPage(key string) (BrowseResult, bool)
	SavePage(key string, res BrowseResult) error

	// === Facets ===
	GetFacets() (*Facets, bool)
	SaveFacets(f *Facets) error

	// === Game detail ===
	GetGameDetail(idOrSlug string) (*GameDetail, bool)
	SaveGameDetail(idOrSlug string, d *GameDetail) error

	// === Invalidation ===
	InvalidatePages()
	InvalidateAll()

	Close() error
}
