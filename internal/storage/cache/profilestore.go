// Package cache adds an optional Redis read-aside layer over the profile
// store.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/tinywideclouds/go-marketplace-notifier/pkg/dispatch"
	"github.com/tinywideclouds/go-marketplace-notifier/pkg/marketplace"
)

// CacheClient defines the subset of Redis commands we need.
type CacheClient interface {
	// Get returns the value or a specific error if not found.
	Get(ctx context.Context, key string, dest interface{}) error
	// Set stores the value with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Del removes the key.
	Del(ctx context.Context, key string) error
}

// CachedProfileStore is a Decorator that adds read-aside caching to any
// ProfileStore. Only positive lookups are cached: a missing profile is never
// stored, so a just-created user becomes visible on the next event.
type CachedProfileStore struct {
	realStore dispatch.ProfileStore
	cache     CacheClient
	ttl       time.Duration
}

func NewCachedProfileStore(realStore dispatch.ProfileStore, cache CacheClient, ttl time.Duration) *CachedProfileStore {
	return &CachedProfileStore{
		realStore: realStore,
		cache:     cache,
		ttl:       ttl,
	}
}

// --- READ PATH (Read-Aside) ---

func (s *CachedProfileStore) GetProfile(ctx context.Context, userID string) (*marketplace.UserProfile, error) {
	key := s.cacheKey(userID)

	var cached marketplace.UserProfile
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	fresh, err := s.realStore.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Caching is an optimization, not a transaction. If Redis is down we
	// just keep serving from the record store.
	_ = s.cache.Set(ctx, key, fresh, s.ttl)

	return fresh, nil
}

// --- WRITE PATHS (Invalidate-on-Write) ---

func (s *CachedProfileStore) SetToken(ctx context.Context, userID, token string) error {
	if err := s.realStore.SetToken(ctx, userID, token); err != nil {
		return err
	}
	return s.invalidate(ctx, userID)
}

// ClearToken must invalidate even though the record-store write succeeded:
// a stale cached token would keep routing pushes to a dead device.
func (s *CachedProfileStore) ClearToken(ctx context.Context, userID string) error {
	if err := s.realStore.ClearToken(ctx, userID); err != nil {
		return err
	}
	return s.invalidate(ctx, userID)
}

// --- Helpers ---

func (s *CachedProfileStore) invalidate(ctx context.Context, userID string) error {
	return s.cache.Del(ctx, s.cacheKey(userID))
}

func (s *CachedProfileStore) cacheKey(userID string) string {
	return fmt.Sprintf("notify:profile:%s", userID)
}
