package identity

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/completeditmate/mate/internal/domain"
)

// Bootstrapper performs the one-time anonymous identity handshake: a
// stable per-device id (persisted in the config file) is exchanged for a
// server-issued user id held in memory for the process lifetime.
//
// Consumers either block on WaitReady or call UserID, which returns ""
// until the handshake completes. The ready channel is closed exactly once.
type Bootstrapper struct {
	persistDeviceID func(string) error
	logger          *slog.Logger

	mu       sync.RWMutex
	deviceID string
	userID   string

	ready     chan struct{}
	readyOnce sync.Once
}

// New creates a Bootstrapper. deviceID may be "" on first run; persist is
// called with the generated id so later runs reuse it.
func New(deviceID string, persist func(string) error, logger *slog.Logger) *Bootstrapper {
	if logger == nil {
		logger = slog.Default()
	}
	if persist == nil {
		persist = func(string) error { return nil }
	}
	return &Bootstrapper{
		persistDeviceID: persist,
		logger:          logger,
		deviceID:        deviceID,
		ready:           make(chan struct{}),
	}
}

// Bootstrap runs the handshake. Safe to call from a goroutine at startup;
// failure is logged and the app continues without identity (library
// operations become no-ops until a later successful call).
func (b *Bootstrapper) Bootstrap(ctx context.Context, repo domain.IdentityRepository) error {
	b.mu.RLock()
	already := b.userID != ""
	b.mu.RUnlock()
	if already {
		b.signalReady()
		return nil
	}

	deviceID := b.ensureDeviceID()

	userID, err := repo.CreateAnonymousUser(ctx, deviceID)
	if err != nil {
		b.logger.Error("anonymous bootstrap failed", "error", err)
		return err
	}

	b.mu.Lock()
	b.userID = userID
	b.mu.Unlock()

	b.logger.Info("anonymous identity established", "userID", userID)
	b.signalReady()
	return nil
}

// ensureDeviceID returns the stable device id, generating and persisting
// one on first run.
func (b *Bootstrapper) ensureDeviceID() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.deviceID == "" {
		b.deviceID = uuid.NewString()
		if err := b.persistDeviceID(b.deviceID); err != nil {
			b.logger.Error("failed to persist device id", "error", err)
		}
	}
	return b.deviceID
}

// UserID returns the session user id, or "" before bootstrap completes.
func (b *Bootstrapper) UserID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.userID
}

// DeviceID returns the stable device id ("" before first use).
func (b *Bootstrapper) DeviceID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.deviceID
}

// Ready returns a channel closed once identity is established.
func (b *Bootstrapper) Ready() <-chan struct{} {
	return b.ready
}

// WaitReady blocks until identity exists or ctx is done.
func (b *Bootstrapper) WaitReady(ctx context.Context) error {
	select {
	case <-b.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bootstrapper) signalReady() {
	b.readyOnce.Do(func() { close(b.ready) })
}
