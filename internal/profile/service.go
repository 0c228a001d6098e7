package profile

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/completeditmate/mate/internal/domain"
)

// MinUsernameLength is the shortest display name the server accepts.
const MinUsernameLength = 2

// ErrUsernameTooShort is surfaced inline in the profile view; it never
// affects library or browse state.
var ErrUsernameTooShort = errors.New("display name is too short")

// Service manages the current user's profile and the community
// dashboard.
type Service struct {
	repo   domain.ProfileRepository
	logger *slog.Logger

	mu sync.RWMutex
	me *domain.Profile
}

// NewService creates a profile service.
func NewService(repo domain.ProfileRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Load fetches the current profile.
func (s *Service) Load(ctx context.Context) (*domain.Profile, error) {
	me, err := s.repo.GetMe(ctx)
	if err != nil {
		s.logger.Error("failed to load profile", "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.me = me
	s.mu.Unlock()
	return me, nil
}

// Me returns the last loaded profile, or nil.
func (s *Service) Me() *domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.me
}

// SetUsername validates and saves a display name. Too-short names and
// collisions come back as errors for inline rendering; an unchanged name
// is a no-op.
func (s *Service) SetUsername(ctx context.Context, name string) (*domain.Profile, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < MinUsernameLength {
		return nil, ErrUsernameTooShort
	}

	s.mu.RLock()
	current := s.me
	s.mu.RUnlock()
	if current != nil && current.Username == name {
		return current, nil
	}

	me, err := s.repo.UpdateMe(ctx, name)
	if err != nil {
		if !errors.Is(err, domain.ErrUsernameTaken) {
			s.logger.Error("failed to save username", "error", err)
		}
		return nil, err
	}

	s.mu.Lock()
	s.me = me
	s.mu.Unlock()

	s.logger.Info("username saved", "username", me.Username)
	return me, nil
}

// Community fetches the community dashboard totals.
func (s *Service) Community(ctx context.Context) (*domain.CommunityStats, error) {
	stats, err := s.repo.GetCommunityStats(ctx)
	if err != nil {
		s.logger.Error("failed to load community stats", "error", err)
		return nil, err
	}
	return stats, nil
}
