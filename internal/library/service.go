package library

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/completeditmate/mate/internal/domain"
)

// PendingEntryID is the placeholder entry id held between an optimistic
// add and the server's confirmation. Remote update/delete calls are
// skipped while an entry still carries it; the next Load replaces it.
const PendingEntryID = "pending"

// IdentityProvider supplies the session user id. "" means the anonymous
// bootstrap has not completed yet.
type IdentityProvider interface {
	UserID() string
}

// Service owns the in-memory projection of "which games does this user
// have, and at what status", and applies mutations optimistically while
// reconciling with the remote store.
//
// All three maps are mutated only here. Optimistic writes happen
// synchronously before the network call inside each mutation, so a
// snapshot taken immediately after dispatch already reflects the change.
type Service struct {
	repo     domain.LibraryRepository
	identity IdentityProvider
	policy   FailurePolicy
	logger   *slog.Logger

	mu         sync.RWMutex
	added      map[string]struct{}      // game ids currently "in library"
	entryIDs   map[string]string        // game id -> remote entry id
	statuses   map[string]domain.Status // game id -> current status
	gamesByID  map[string]*domain.Game  // populated from Load, display only
	loadedOnce bool
}

// NewService creates a library service.
func NewService(repo domain.LibraryRepository, identity IdentityProvider, policy FailurePolicy, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		identity:  identity,
		policy:    policy,
		logger:    logger,
		added:     make(map[string]struct{}),
		entryIDs:  make(map[string]string),
		statuses:  make(map[string]domain.Status),
		gamesByID: make(map[string]*domain.Game),
	}
}

// Load fetches all entries for the current user and replaces the maps
// atomically. Safe to call before identity exists: it no-ops. On failure
// the maps are left as they were and the error is logged; the UI treats
// that as an empty library rather than crashing.
func (s *Service) Load(ctx context.Context) error {
	if s.identity != nil && s.identity.UserID() == "" {
		s.logger.Debug("library load skipped, no identity yet")
		return nil
	}

	entries, err := s.repo.GetLibrary(ctx)
	if err != nil {
		s.logger.Error("failed to load library", "error", err)
		return err
	}

	added := make(map[string]struct{}, len(entries))
	entryIDs := make(map[string]string, len(entries))
	statuses := make(map[string]domain.Status, len(entries))
	games := make(map[string]*domain.Game, len(entries))
	for _, e := range entries {
		added[e.GameID] = struct{}{}
		entryIDs[e.GameID] = e.EntryID
		statuses[e.GameID] = e.Status
		if e.Game != nil {
			games[e.GameID] = e.Game
		}
	}

	s.mu.Lock()
	s.added = added
	s.entryIDs = entryIDs
	s.statuses = statuses
	s.gamesByID = games
	s.loadedOnce = true
	s.mu.Unlock()

	s.logger.Debug("loaded library", "count", len(entries))
	return nil
}

// Add puts a game in the library at the given status (owned when "").
// A second add for an already-present game degrades to a status update
// instead of a duplicate create. The local write happens before the
// network call; a 409 from the server is merged silently as already-added.
func (s *Service) Add(ctx context.Context, gameID string, status domain.Status) error {
	if status == "" {
		status = domain.StatusOwned
	}
	if !status.Valid() {
		return errors.New("invalid library status")
	}

	s.mu.Lock()
	if _, ok := s.added[gameID]; ok {
		s.mu.Unlock()
		// Idempotence-by-upgrade: redirect to the update path.
		return s.UpdateStatus(ctx, gameID, status)
	}

	prior := s.snapshotLocked(gameID)
	s.added[gameID] = struct{}{}
	s.statuses[gameID] = status
	s.entryIDs[gameID] = PendingEntryID
	s.mu.Unlock()

	created, err := s.repo.CreateEntry(ctx, gameID, status)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			// Already on the server; keep the optimistic state and let the
			// next Load pick up the real entry id.
			s.logger.Info("duplicate add merged", "gameID", gameID)
			return nil
		}
		s.logger.Error("add failed", "gameID", gameID, "error", err)
		s.applyFailurePolicy(ctx, gameID, prior)
		return err
	}

	s.mu.Lock()
	// Replace the placeholder only if the entry wasn't removed meanwhile.
	if id, ok := s.entryIDs[gameID]; ok && id == PendingEntryID {
		s.entryIDs[gameID] = created.EntryID
	}
	s.mu.Unlock()

	s.logger.Debug("added to library", "gameID", gameID, "entryID", created.EntryID, "status", status)
	return nil
}

// UpdateStatus changes the status of a game already in the library.
// Not-present games are a logged no-op. The remote call is skipped while
// the entry id is still the pending placeholder.
func (s *Service) UpdateStatus(ctx context.Context, gameID string, status domain.Status) error {
	if !status.Valid() {
		return errors.New("invalid library status")
	}

	s.mu.Lock()
	entryID, ok := s.entryIDs[gameID]
	if !ok {
		s.mu.Unlock()
		s.logger.Warn("update for game not in library", "gameID", gameID)
		return nil
	}

	prior := s.snapshotLocked(gameID)
	s.statuses[gameID] = status
	s.mu.Unlock()

	if entryID == PendingEntryID {
		// Create still in flight; local state is enough until the next Load.
		s.logger.Debug("update deferred, entry id pending", "gameID", gameID)
		return nil
	}

	if err := s.repo.UpdateEntry(ctx, entryID, status); err != nil {
		s.logger.Error("status update failed", "gameID", gameID, "error", err)
		s.applyFailurePolicy(ctx, gameID, prior)
		return err
	}

	s.logger.Debug("updated status", "gameID", gameID, "status", status)
	return nil
}

// Remove deletes a game from the library. The entry id is captured
// before the optimistic removal clears the maps.
func (s *Service) Remove(ctx context.Context, gameID string) error {
	s.mu.Lock()
	entryID, ok := s.entryIDs[gameID]
	if !ok {
		s.mu.Unlock()
		s.logger.Warn("remove for game not in library", "gameID", gameID)
		return nil
	}

	prior := s.snapshotLocked(gameID)
	delete(s.added, gameID)
	delete(s.entryIDs, gameID)
	delete(s.statuses, gameID)
	s.mu.Unlock()

	if entryID == PendingEntryID {
		s.logger.Debug("remove of pending entry, no remote call", "gameID", gameID)
		return nil
	}

	if err := s.repo.DeleteEntry(ctx, entryID); err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			// Already gone server-side; local removal stands.
			return nil
		}
		s.logger.Error("remove failed", "gameID", gameID, "error", err)
		s.applyFailurePolicy(ctx, gameID, prior)
		return err
	}

	s.logger.Debug("removed from library", "gameID", gameID)
	return nil
}

// === Snapshot reads (used by the UI join; never block on network) ===

// Has reports whether the game is currently considered in the library.
func (s *Service) Has(gameID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.added[gameID]
	return ok
}

// StatusOf returns the game's current status.
func (s *Service) StatusOf(gameID string) (domain.Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.statuses[gameID]
	return status, ok
}

// EntryIDOf returns the remote entry id for a game, which may be
// PendingEntryID while a create is in flight.
func (s *Service) EntryIDOf(gameID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.entryIDs[gameID]
	return id, ok
}

// Len returns the number of games in the library.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.added)
}

// Loaded reports whether Load has succeeded at least once this session.
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedOnce
}

// Entries returns the library as a stable, title-sorted slice for
// rendering. Games added this session that Load hasn't seen yet have a
// nil Game.
func (s *Service) Entries() []domain.LibraryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.LibraryEntry, 0, len(s.added))
	for gameID := range s.added {
		entries = append(entries, domain.LibraryEntry{
			EntryID: s.entryIDs[gameID],
			GameID:  gameID,
			Status:  s.statuses[gameID],
			Game:    s.gamesByID[gameID],
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		ti, tj := entries[i].GameID, entries[j].GameID
		if entries[i].Game != nil {
			ti = entries[i].Game.GetSortTitle()
		}
		if entries[j].Game != nil {
			tj = entries[j].Game.GetSortTitle()
		}
		return ti < tj
	})
	return entries
}

// === Failure policy ===

// entrySnapshot captures one game's projection before a mutation.
type entrySnapshot struct {
	gameID  string
	added   bool
	entryID string
	status  domain.Status
}

func (s *Service) snapshotLocked(gameID string) entrySnapshot {
	snap := entrySnapshot{gameID: gameID}
	if _, ok := s.added[gameID]; ok {
		snap.added = true
		snap.entryID = s.entryIDs[gameID]
		snap.status = s.statuses[gameID]
	}
	return snap
}

func (s *Service) applyFailurePolicy(ctx context.Context, gameID string, prior entrySnapshot) {
	switch s.policy {
	case Rollback:
		s.mu.Lock()
		if prior.added {
			s.added[gameID] = struct{}{}
			s.entryIDs[gameID] = prior.entryID
			s.statuses[gameID] = prior.status
		} else {
			delete(s.added, gameID)
			delete(s.entryIDs, gameID)
			delete(s.statuses, gameID)
		}
		s.mu.Unlock()
		s.logger.Debug("rolled back optimistic state", "gameID", gameID)

	case Reload:
		if err := s.Load(ctx); err != nil {
			s.logger.Error("reload after failure failed", "error", err)
		}

	default:
		// Retain: trust the user's last action; next Load reconciles.
	}
}
