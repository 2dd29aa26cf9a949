package usecase

import (
	"context"
	"errors"
	"sort"

	"github.com/dagligdags/backend/internal/domain"
	"go.uber.org/zap"
)

// DefaultMaxResults caps the number of personalized deals returned
const DefaultMaxResults = 50

// DealMatcherConfig holds configuration for the deal matcher
type DealMatcherConfig struct {
	Weights    ScoreWeights
	MaxResults int
}

// DealMatcher ranks deals for a single user
type DealMatcher struct {
	profiles   domain.ProfileLoader
	matchLog   domain.MatchLogger
	scorer     *Scorer
	maxResults int
	logger     *zap.Logger
}

// NewDealMatcher creates a deal matcher with injected profile loading and match logging
func NewDealMatcher(
	profiles domain.ProfileLoader,
	matchLog domain.MatchLogger,
	config DealMatcherConfig,
	logger *zap.Logger,
) *DealMatcher {
	maxResults := config.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DealMatcher{
		profiles:   profiles,
		matchLog:   matchLog,
		scorer:     NewScorer(config.Weights),
		maxResults: maxResults,
		logger:     logger,
	}
}

// Scorer exposes the scorer used for ranking
func (m *DealMatcher) Scorer() *Scorer {
	return m.scorer
}

// FindPersonalizedDeals scores every deal against the user's profile and returns
// the positive ones, best first. Unknown users get an empty result.
// The input deals are never modified.
func (m *DealMatcher) FindPersonalizedDeals(
	ctx context.Context,
	userID string,
	deals []domain.Deal,
	userLoc *domain.Location,
) []domain.ScoredDeal {
	profile, found := loadProfile(ctx, m.profiles, userID, m.logger)
	if !found {
		return []domain.ScoredDeal{}
	}

	scored := make([]domain.ScoredDeal, 0, len(deals))
	for _, deal := range deals {
		score := m.scorer.Score(deal, profile, userLoc)
		if score > 0 {
			scored = append(scored, domain.ScoredDeal{
				Deal:                 deal.Clone(),
				MatchScore:           score,
				RecommendationReason: m.scorer.Explain(deal, profile),
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})

	m.logSummary(ctx, userID, scored)

	if len(scored) > m.maxResults {
		scored = scored[:m.maxResults]
	}
	return scored
}

// logSummary reports the number of matches and their average score
func (m *DealMatcher) logSummary(ctx context.Context, userID string, scored []domain.ScoredDeal) {
	if m.matchLog == nil {
		return
	}

	avg := 0.0
	if len(scored) > 0 {
		total := 0.0
		for _, d := range scored {
			total += d.MatchScore
		}
		avg = total / float64(len(scored))
	}

	m.matchLog.LogMatch(ctx, domain.MatchSummary{
		UserID:       userID,
		DealsFound:   len(scored),
		AverageScore: avg,
	})
}

// loadProfile resolves a profile and reports whether one was stored.
// Lookup failures are logged and treated as "no profile".
func loadProfile(
	ctx context.Context,
	profiles domain.ProfileLoader,
	userID string,
	logger *zap.Logger,
) (domain.UserProfile, bool) {
	if profiles == nil {
		return domain.UserProfile{}, false
	}

	profile, err := profiles.Load(ctx, userID)
	switch {
	case err == nil:
		return profile, true
	case errors.Is(err, domain.ErrProfileNotFound):
		logger.Warn("no profile found", zap.String("user_id", userID))
	default:
		logger.Error("error loading profile", zap.String("user_id", userID), zap.Error(err))
	}
	return domain.UserProfile{}, false
}
