package profile

import (
	"context"
	"sync"
	"testing"

	"github.com/completeditmate/mate/internal/domain"
	"github.com/completeditmate/mate/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfileRepo struct {
	mu          sync.Mutex
	me          *domain.Profile
	updateCalls []string
	updateErr   error
}

func (f *fakeProfileRepo) GetMe(ctx context.Context) (*domain.Profile, error) {
	return f.me, nil
}

func (f *fakeProfileRepo) UpdateMe(ctx context.Context, username string) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls = append(f.updateCalls, username)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	updated := *f.me
	updated.Username = username
	f.me = &updated
	return &updated, nil
}

func (f *fakeProfileRepo) GetCommunityStats(ctx context.Context) (*domain.CommunityStats, error) {
	return &domain.CommunityStats{TotalUsers: 3}, nil
}

func newTestService(repo *fakeProfileRepo) *Service {
	return NewService(repo, log.NullLogger())
}

func TestSetUsernameTrimsAndSaves(t *testing.T) {
	repo := &fakeProfileRepo{me: &domain.Profile{UserID: "u1"}}
	svc := newTestService(repo)
	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	me, err := svc.SetUsername(context.Background(), "  sam  ")
	require.NoError(t, err)
	assert.Equal(t, "sam", me.Username)
	assert.Equal(t, []string{"sam"}, repo.updateCalls)
	assert.Equal(t, "sam", svc.Me().Username)
}

func TestSetUsernameTooShort(t *testing.T) {
	svc := newTestService(&fakeProfileRepo{me: &domain.Profile{}})

	_, err := svc.SetUsername(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUsernameTooShort)

	_, err = svc.SetUsername(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrUsernameTooShort)
}

func TestSetUsernameUnchangedIsNoOp(t *testing.T) {
	repo := &fakeProfileRepo{me: &domain.Profile{UserID: "u1", Username: "sam"}}
	svc := newTestService(repo)
	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	me, err := svc.SetUsername(context.Background(), "sam")
	require.NoError(t, err)
	assert.Equal(t, "sam", me.Username)
	assert.Empty(t, repo.updateCalls, "no network call for an unchanged name")
}

func TestSetUsernameTakenPassesThrough(t *testing.T) {
	repo := &fakeProfileRepo{
		me:        &domain.Profile{UserID: "u1", Username: "sam"},
		updateErr: domain.ErrUsernameTaken,
	}
	svc := newTestService(repo)
	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	_, err = svc.SetUsername(context.Background(), "taken")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	assert.Equal(t, "sam", svc.Me().Username, "failed save leaves the profile alone")
}

func TestCommunity(t *testing.T) {
	svc := newTestService(&fakeProfileRepo{me: &domain.Profile{}})
	stats, err := svc.Community(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalUsers)
}
