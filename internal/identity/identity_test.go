package identity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/completeditmate/mate/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentityRepo struct {
	mu        sync.Mutex
	deviceIDs []string
	userID    string
	err       error
}

func (f *fakeIdentityRepo) CreateAnonymousUser(ctx context.Context, deviceID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deviceIDs = append(f.deviceIDs, deviceID)
	if f.err != nil {
		return "", f.err
	}
	return f.userID, nil
}

func TestBootstrapGeneratesAndPersistsDeviceID(t *testing.T) {
	repo := &fakeIdentityRepo{userID: "user-1"}

	var persisted string
	boot := New("", func(id string) error {
		persisted = id
		return nil
	}, log.NullLogger())

	require.NoError(t, boot.Bootstrap(context.Background(), repo))

	assert.NotEmpty(t, boot.DeviceID())
	assert.Equal(t, boot.DeviceID(), persisted, "generated id saved for the next run")
	assert.Equal(t, []string{boot.DeviceID()}, repo.deviceIDs)
	assert.Equal(t, "user-1", boot.UserID())
}

func TestBootstrapReusesExistingDeviceID(t *testing.T) {
	repo := &fakeIdentityRepo{userID: "user-1"}

	persistCalled := false
	boot := New("device-abc", func(string) error {
		persistCalled = true
		return nil
	}, log.NullLogger())

	require.NoError(t, boot.Bootstrap(context.Background(), repo))

	assert.Equal(t, "device-abc", boot.DeviceID())
	assert.False(t, persistCalled, "an existing id is not re-persisted")
	assert.Equal(t, []string{"device-abc"}, repo.deviceIDs)
}

func TestReadySignalFiresOnce(t *testing.T) {
	repo := &fakeIdentityRepo{userID: "user-1"}
	boot := New("device-abc", nil, log.NullLogger())

	select {
	case <-boot.Ready():
		t.Fatal("ready before bootstrap")
	default:
	}

	require.NoError(t, boot.Bootstrap(context.Background(), repo))
	// A second call must not re-exchange or panic on the closed channel.
	require.NoError(t, boot.Bootstrap(context.Background(), repo))

	select {
	case <-boot.Ready():
	default:
		t.Fatal("ready channel not closed after bootstrap")
	}
	assert.Len(t, repo.deviceIDs, 1, "handshake runs once per session")
}

func TestWaitReadyBlocksUntilBootstrap(t *testing.T) {
	repo := &fakeIdentityRepo{userID: "user-1"}
	boot := New("device-abc", nil, log.NullLogger())

	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		done <- boot.WaitReady(ctx)
	}()

	require.NoError(t, boot.Bootstrap(context.Background(), repo))
	assert.NoError(t, <-done)
}

func TestWaitReadyHonorsContext(t *testing.T) {
	boot := New("device-abc", nil, log.NullLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := boot.WaitReady(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBootstrapFailureLeavesNoIdentity(t *testing.T) {
	repo := &fakeIdentityRepo{err: errors.New("boom")}
	boot := New("device-abc", nil, log.NullLogger())

	require.Error(t, boot.Bootstrap(context.Background(), repo))
	assert.Empty(t, boot.UserID())

	select {
	case <-boot.Ready():
		t.Fatal("ready must not fire on failure")
	default:
	}

	// A later retry can still succeed.
	repo.err = nil
	repo.userID = "user-2"
	require.NoError(t, boot.Bootstrap(context.Background(), repo))
	assert.Equal(t, "user-2", boot.UserID())
}
