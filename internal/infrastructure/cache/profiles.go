package cache

import (
	"context"
	"time"

	"github.com/dagligdags/backend/internal/domain"
	"go.uber.org/zap"
)

// DefaultProfileTTL is used when no TTL is configured
const DefaultProfileTTL = 15 * time.Minute

// CachedProfiles serves profiles from a cache in front of a repository
type CachedProfiles struct {
	repo   domain.ProfileRepository
	cache  domain.ProfileCacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedProfiles wraps repo with cache
func NewCachedProfiles(
	repo domain.ProfileRepository,
	cache domain.ProfileCacheRepository,
	ttl time.Duration,
	logger *zap.Logger,
) *CachedProfiles {
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedProfiles{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// Load returns the cached profile or loads and caches it.
// Misses in the repository are not cached so a newly onboarded user is seen immediately.
func (c *CachedProfiles) Load(ctx context.Context, userID string) (domain.UserProfile, error) {
	if profile, err := c.cache.Get(ctx, userID); err == nil {
		return profile, nil
	}

	profile, err := c.repo.Load(ctx, userID)
	if err != nil {
		return domain.UserProfile{}, err
	}

	if err := c.cache.Set(ctx, userID, profile, c.ttl); err != nil {
		c.logger.Warn("failed to cache profile", zap.String("user_id", userID), zap.Error(err))
	}

	return profile, nil
}

// Save writes through to the repository and invalidates the cached copy
func (c *CachedProfiles) Save(ctx context.Context, userID string, profile domain.UserProfile) error {
	if err := c.repo.Save(ctx, userID, profile); err != nil {
		return err
	}
	if err := c.cache.Delete(ctx, userID); err != nil {
		c.logger.Warn("failed to invalidate cached profile", zap.String("user_id", userID), zap.Error(err))
	}
	return nil
}
