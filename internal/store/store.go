package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/completeditmate/mate/internal/domain"
)

// Bucket names
var (
	bucketPages   = []byte("pages")
	bucketFacets  = []byte("facets")
	bucketDetails = []byte("details")
)

// CatalogueStore implements domain.Store using BoltDB. The catalogue is
// the only thing cached; library state always comes from the server.
type CatalogueStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewCatalogueStore opens (or creates) the cache under baseCacheDir,
// namespaced by API base URL so pointing at a different server never
// mixes catalogues. An empty baseCacheDir gives memory-only mode.
func NewCatalogueStore(baseCacheDir, apiURL string) (*CatalogueStore, error) {
	if baseCacheDir == "" {
		return &CatalogueStore{cache: make(map[string][]byte)}, nil
	}

	dir := baseCacheDir
	if apiURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(apiURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "mate.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketPages, bucketFacets, bucketDetails} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &CatalogueStore{db: db, cache: make(map[string][]byte)}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *CatalogueStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *CatalogueStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	// Read from BoltDB
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *CatalogueStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *CatalogueStore) clearBucket(bucket []byte) {
	s.mu.Lock()
	prefix := string(bucket) + ":"
	for k := range s.cache {
		if strings.HasPrefix(k, prefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Browse pages ===

func (s *CatalogueStore) GetPage(key string) (domain.BrowseResult, bool) {
	var res domain.BrowseResult
	ok := s.get(bucketPages, key, &res)
	return res, ok
}

func (s *CatalogueStore) SavePage(key string, res domain.BrowseResult) error {
	return s.set(bucketPages, key, res)
}

// === Facets ===

func (s *CatalogueStore) GetFacets() (*domain.Facets, bool) {
	var f domain.Facets
	if !s.get(bucketFacets, "all", &f) {
		return nil, false
	}
	return &f, true
}

func (s *CatalogueStore) SaveFacets(f *domain.Facets) error {
	return s.set(bucketFacets, "all", f)
}

// === Game detail ===

func (s *CatalogueStore) GetGameDetail(idOrSlug string) (*domain.GameDetail, bool) {
	var d domain.GameDetail
	if !s.get(bucketDetails, idOrSlug, &d) {
		return nil, false
	}
	return &d, true
}

func (s *CatalogueStore) SaveGameDetail(idOrSlug string, d *domain.GameDetail) error {
	return s.set(bucketDetails, idOrSlug, d)
}

// === Invalidation ===

// InvalidatePages drops cached browse pages; facets and details are
// cheap to keep.
func (s *CatalogueStore) InvalidatePages() {
	s.clearBucket(bucketPages)
}

func (s *CatalogueStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	for _, bucket := range [][]byte{bucketPages, bucketFacets, bucketDetails} {
		s.clearBucket(bucket)
	}
}
