package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dagligdags/backend/internal/domain"
)

// cleanupInterval is how often expired profiles are swept
const cleanupInterval = 10 * time.Minute

// profileItem represents a single cached profile with expiration
type profileItem struct {
	Profile    domain.UserProfile
	Expiration time.Time
}

// MemoryCache is a thread-safe in-memory profile cache with TTL support
type MemoryCache struct {
	data  map[string]profileItem
	mutex sync.RWMutex
	done  chan struct{}
	once  sync.Once
}

// NewMemoryCache creates a new in-memory profile cache and starts its sweeper
func NewMemoryCache() *MemoryCache {
	cache := &MemoryCache{
		data: make(map[string]profileItem),
		done: make(chan struct{}),
	}

	go cache.cleanupExpired()

	return cache
}

// Get retrieves a cached profile
func (c *MemoryCache) Get(ctx context.Context, userID string) (domain.UserProfile, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[userID]
	if !exists || time.Now().After(item.Expiration) {
		return domain.UserProfile{}, domain.ErrCacheMiss
	}

	return cloneProfile(item.Profile), nil
}

// Set stores a profile with TTL
func (c *MemoryCache) Set(ctx context.Context, userID string, profile domain.UserProfile, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[userID] = profileItem{
		Profile:    cloneProfile(profile),
		Expiration: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a profile from the cache
func (c *MemoryCache) Delete(ctx context.Context, userID string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, userID)
	return nil
}

// Size returns the current number of cached profiles, expired ones included
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Close stops the background sweeper
func (c *MemoryCache) Close() {
	c.once.Do(func() { close(c.done) })
}

// cleanupExpired removes expired entries periodically until Close is called
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.removeExpired(time.Now())
		}
	}
}

func (c *MemoryCache) removeExpired(now time.Time) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for key, item := range c.data {
		if now.After(item.Expiration) {
			delete(c.data, key)
		}
	}
}

// cloneProfile copies the slices so cached entries cannot be modified through callers
func cloneProfile(p domain.UserProfile) domain.UserProfile {
	c := p
	c.Allergies = cloneStrings(p.Allergies)
	c.Diet = cloneStrings(p.Diet)
	c.CuisinePreferences = cloneStrings(p.CuisinePreferences)
	c.PreferredStores = cloneStrings(p.PreferredStores)
	c.LoyaltyMemberships = cloneStrings(p.LoyaltyMemberships)
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
