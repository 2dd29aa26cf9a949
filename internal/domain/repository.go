package domain

import (
	"context"
	"time"
)

// ProfileLoader resolves a user's profile.
// A user without a stored profile yields an error wrapping ErrProfileNotFound.
type ProfileLoader interface {
	Load(ctx context.Context, userID string) (UserProfile, error)
}

// ProfileRepository persists profiles written by onboarding producers
type ProfileRepository interface {
	ProfileLoader
	Save(ctx context.Context, userID string, profile UserProfile) error
}

// DealSource provides the current, already normalized deal set
type DealSource interface {
	ListDeals(ctx context.Context) ([]Deal, error)
}

// MatchLogger receives ranking summaries. Implementations must not block or fail the caller.
type MatchLogger interface {
	LogMatch(ctx context.Context, summary MatchSummary)
}

// ProfileCacheRepository defines the caching operations used in front of a ProfileLoader
type ProfileCacheRepository interface {
	Get(ctx context.Context, userID string) (UserProfile, error)
	Set(ctx context.Context, userID string, profile UserProfile, ttl time.Duration) error
	Delete(ctx context.Context, userID string) error
}
