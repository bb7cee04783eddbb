package session

import (
	"context"
	"time"

	"github.com/andrebq/authbox/internal/logutil"
)

type (
	// Expiring rejects sessions older than its TTL. A TTL <= 0 disables
	// expiration.
	Expiring struct {
		next Store
		ttl  time.Duration
		now  func() time.Time
	}
)

func NewExpiring(next Store, ttl time.Duration) *Expiring {
	return &Expiring{
		next: next,
		ttl:  ttl,
		now:  time.Now,
	}
}

// TTL returns the configured time-to-live
func (e *Expiring) TTL() time.Duration {
	return e.ttl
}

// Expired reports if a session created at createdAt is no longer valid
func (e *Expiring) Expired(createdAt time.Time) bool {
	if e.ttl <= 0 {
		return false
	}
	if createdAt.IsZero() {
		return true
	}
	return e.now().Sub(createdAt) > e.ttl
}

// Create delegates to the wrapped store, which records the creation time
// used by Lookup.
func (e *Expiring) Create(ctx context.Context, userID string) (Entry, error) {
	return e.next.Create(ctx, userID)
}

func (e *Expiring) Lookup(ctx context.Context, sessionID string) (Entry, error) {
	entry, err := e.next.Lookup(ctx, sessionID)
	if err != nil {
		return Entry{}, err
	}
	if e.Expired(entry.CreatedAt) {
		// lazy eviction, the outcome of a second lookup is the same
		if err := e.next.Destroy(ctx, sessionID); err != nil {
			log := logutil.GetOrDefault(ctx)
			log.Debug().Err(err).Msg("Unable to evict expired session")
		}
		return Entry{}, ExpiredSession{SessionID: sessionID, CreatedAt: entry.CreatedAt, TTL: e.ttl}
	}
	return entry, nil
}

// Destroy removes a session, expired sessions cannot be destroyed (they
// are evicted and reported as ExpiredSession).
func (e *Expiring) Destroy(ctx context.Context, sessionID string) error {
	if _, err := e.Lookup(ctx, sessionID); err != nil {
		return err
	}
	return e.next.Destroy(ctx, sessionID)
}
