// Package pairing keeps the in-memory table of device pairings keyed by
// browser session.
package pairing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/atxwallet/atxserver/internal/common"
	"github.com/atxwallet/atxserver/internal/logging"
	"github.com/atxwallet/atxserver/internal/server/models"
	"github.com/go-co-op/gocron/v2"
)

// DefaultDevice is recorded when a submit does not name a device.
const DefaultDevice = "mobile"

// Registry is a synchronized session -> PairingEntry table. Submits replace
// the whole entry, so the last write wins.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]models.PairingEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewRegistry returns an empty registry. A ttl of zero keeps entries until
// the process exits.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		entries: make(map[string]models.PairingEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Submit records session as connected from device at address.
func (r *Registry) Submit(session, device, address string) error {
	if session == "" {
		return fmt.Errorf("%w: missing session", common.ErrorBadRequest)
	}
	if device == "" {
		device = DefaultDevice
	}

	entry := models.PairingEntry{
		Session:   session,
		Connected: true,
		Device:    device,
		Address:   address,
		When:      r.now(),
	}

	r.mu.Lock()
	r.entries[session] = entry
	r.mu.Unlock()

	return nil
}

// Query returns the entry for session. Entries older than the TTL are
// reported as absent even before the sweeper removes them.
func (r *Registry) Query(session string) (models.PairingEntry, bool) {
	r.mu.RLock()
	entry, ok := r.entries[session]
	r.mu.RUnlock()

	if !ok || r.expired(entry, r.now()) {
		return models.PairingEntry{}, false
	}
	return entry, true
}

// Len returns the number of stored entries, including stale ones not yet swept.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Sweep removes entries older than the TTL as of now and returns how many
// were removed.
func (r *Registry) Sweep(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for session, entry := range r.entries {
		if r.expired(entry, now) {
			delete(r.entries, session)
			removed++
		}
	}
	return removed
}

func (r *Registry) expired(entry models.PairingEntry, now time.Time) bool {
	return r.ttl > 0 && now.Sub(entry.When) > r.ttl
}

// StartSweeper schedules Sweep every interval on a gocron scheduler. It
// returns a nil scheduler when the registry has no TTL. The caller owns the
// returned scheduler and must shut it down.
func (r *Registry) StartSweeper(ctx context.Context, interval time.Duration, logger logging.Logger) (gocron.Scheduler, error) {
	if r.ttl <= 0 {
		return nil, nil
	}
	if interval <= 0 {
		interval = r.ttl
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if n := r.Sweep(r.now()); n > 0 {
				logger.Debug(ctx, "pairings swept", "removed", n)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule sweep: %w", err)
	}

	sched.Start()
	return sched, nil
}
