package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/andrebq/authbox/internal/logutil"
)

type (
	// Cached keeps recently used users in memory to avoid hitting the
	// wrapped Store on every authenticated request.
	//
	// Only lookups by id are served from memory, any other filter goes
	// to the wrapped store (and warms the cache with its results).
	Cached struct {
		next  Store
		cache *bigcache.BigCache
	}
)

// NewCached wraps next with a cache whose entries live at most lifeWindow
func NewCached(next Store, lifeWindow time.Duration) (*Cached, error) {
	cfg := bigcache.DefaultConfig(lifeWindow)
	cfg.Shards = 64
	cfg.MaxEntriesInWindow = 10 * 64
	cfg.Verbose = false
	cache, err := bigcache.NewBigCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create user cache, cause %w", err)
	}
	return &Cached{next: next, cache: cache}, nil
}

func (c *Cached) Add(ctx context.Context, u *User) error {
	return c.next.Add(ctx, u)
}

func (c *Cached) Search(ctx context.Context, f Filter) ([]User, error) {
	if f.IDOnly() {
		if u, ok := c.get(ctx, f.ID); ok {
			return []User{u}, nil
		}
	}
	found, err := c.next.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	for _, u := range found {
		c.set(ctx, u)
	}
	return found, nil
}

func (c *Cached) Update(ctx context.Context, u *User) error {
	err := c.next.Update(ctx, u)
	c.invalidate(ctx, u.ID)
	return err
}

func (c *Cached) Count(ctx context.Context) (int, error) {
	return c.next.Count(ctx)
}

// Close releases the memory held by the cache, the wrapped store is
// not closed.
func (c *Cached) Close() error {
	return c.cache.Close()
}

func (c *Cached) get(ctx context.Context, id string) (User, bool) {
	buf, err := c.cache.Get(cacheKey(id))
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return User{}, false
	} else if err != nil {
		log := logutil.GetOrDefault(ctx)
		log.Warn().Err(err).Msg("Unable to read user from cache")
		return User{}, false
	}
	var u User
	err = json.Unmarshal(buf, &u)
	if err != nil {
		log := logutil.GetOrDefault(ctx)
		log.Warn().Err(err).Msg("Discarding corrupted user cache entry")
		c.invalidate(ctx, id)
		return User{}, false
	}
	return u, true
}

func (c *Cached) set(ctx context.Context, u User) {
	buf, err := json.Marshal(u)
	if err != nil {
		return
	}
	err = c.cache.Set(cacheKey(u.ID), buf)
	if err != nil {
		log := logutil.GetOrDefault(ctx)
		log.Warn().Err(err).Msg("Unable to cache user")
	}
}

func (c *Cached) invalidate(ctx context.Context, id string) {
	err := c.cache.Delete(cacheKey(id))
	if err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		log := logutil.GetOrDefault(ctx)
		log.Warn().Err(err).Msg("Unable to remove user from cache")
	}
}

func cacheKey(id string) string {
	return "user:" + id
}
