package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dagligdags/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProfiles is an in-memory ProfileLoader
type stubProfiles struct {
	profiles map[string]domain.UserProfile
	err      error
	calls    int
}

func (s *stubProfiles) Load(ctx context.Context, userID string) (domain.UserProfile, error) {
	s.calls++
	if s.err != nil {
		return domain.UserProfile{}, s.err
	}
	profile, ok := s.profiles[userID]
	if !ok {
		return domain.UserProfile{}, fmt.Errorf("%w: %s", domain.ErrProfileNotFound, userID)
	}
	return profile, nil
}

// recordingMatchLog captures match summaries
type recordingMatchLog struct {
	summaries []domain.MatchSummary
}

func (r *recordingMatchLog) LogMatch(ctx context.Context, summary domain.MatchSummary) {
	r.summaries = append(r.summaries, summary)
}

func newTestMatcher(profiles domain.ProfileLoader, log domain.MatchLogger) *DealMatcher {
	return NewDealMatcher(profiles, log, DealMatcherConfig{Weights: DefaultScoreWeights()}, nil)
}

func TestNewDealMatcher(t *testing.T) {
	t.Run("uses provided max results", func(t *testing.T) {
		m := NewDealMatcher(nil, nil, DealMatcherConfig{MaxResults: 10}, nil)
		assert.Equal(t, 10, m.maxResults)
	})

	t.Run("uses default max results when zero", func(t *testing.T) {
		m := NewDealMatcher(nil, nil, DealMatcherConfig{}, nil)
		assert.Equal(t, DefaultMaxResults, m.maxResults)
		assert.NotNil(t, m.logger)
	})
}

func TestFindPersonalizedDeals(t *testing.T) {
	ctx := context.Background()
	profiles := &stubProfiles{profiles: map[string]domain.UserProfile{
		"ola": {OrganicPreference: 5, PriceSensitivity: 5, Allergies: []string{"lactose"}},
	}}

	t.Run("returns empty result for unknown user", func(t *testing.T) {
		log := &recordingMatchLog{}
		m := newTestMatcher(profiles, log)

		got := m.FindPersonalizedDeals(ctx, "nobody", []domain.Deal{{Price: ptr(10)}}, nil)

		require.NotNil(t, got)
		assert.Empty(t, got)
		assert.Empty(t, log.summaries)
	})

	t.Run("scores with defaults for a stored profile without answers", func(t *testing.T) {
		log := &recordingMatchLog{}
		blank := &stubProfiles{profiles: map[string]domain.UserProfile{"kari": {Allergies: []string{}, Diet: []string{}}}}
		m := newTestMatcher(blank, log)

		got := m.FindPersonalizedDeals(ctx, "kari", []domain.Deal{{Product: "Melk", Price: ptr(20)}}, nil)

		// 0.8 price signal + 1.0 default package match
		require.Len(t, got, 1)
		assert.InDelta(t, 1.8, got[0].MatchScore, 1e-9)
		require.Len(t, log.summaries, 1)
		assert.Equal(t, 1, log.summaries[0].DealsFound)
	})

	t.Run("treats profile errors as missing profile", func(t *testing.T) {
		failing := &stubProfiles{err: errors.New("disk on fire")}
		m := newTestMatcher(failing, &recordingMatchLog{})

		got := m.FindPersonalizedDeals(ctx, "ola", []domain.Deal{{Price: ptr(10)}}, nil)

		assert.Empty(t, got)
		assert.Equal(t, 1, failing.calls)
	})

	t.Run("sorts by score and drops zero scores", func(t *testing.T) {
		log := &recordingMatchLog{}
		m := newTestMatcher(profiles, log)
		deals := []domain.Deal{
			{Product: "Melk", Price: ptr(20), Allergens: []string{"lactose"}, PackageSize: "large", SustainabilityScore: 5},
			{Product: "Økologiske egg", Price: ptr(40), Organic: true},
			{Product: "Brød", DiscountPercentage: ptr(50)},
		}

		got := m.FindPersonalizedDeals(ctx, "ola", deals, nil)

		require.Len(t, got, 2)
		assert.Equal(t, "Brød", got[0].Product)
		assert.InDelta(t, 8.0, got[0].MatchScore, 1e-9)
		assert.Equal(t, "50% discount", got[0].RecommendationReason)
		assert.Equal(t, "Økologiske egg", got[1].Product)
		assert.InDelta(t, 5.1, got[1].MatchScore, 1e-9)
		assert.Equal(t, "matches your organic preference", got[1].RecommendationReason)

		require.Len(t, log.summaries, 1)
		assert.Equal(t, "ola", log.summaries[0].UserID)
		assert.Equal(t, 2, log.summaries[0].DealsFound)
		assert.InDelta(t, 6.55, log.summaries[0].AverageScore, 1e-9)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		m := newTestMatcher(profiles, nil)
		deals := []domain.Deal{
			{Product: "a", Price: ptr(50)},
			{Product: "b", Price: ptr(10)},
			{Product: "c", Price: ptr(50)},
			{Product: "d", Price: ptr(50)},
		}

		got := m.FindPersonalizedDeals(ctx, "ola", deals, nil)

		require.Len(t, got, 4)
		assert.Equal(t, []string{"b", "a", "c", "d"}, products(got))
	})

	t.Run("truncates to max results and logs all matches", func(t *testing.T) {
		log := &recordingMatchLog{}
		m := newTestMatcher(profiles, log)
		deals := make([]domain.Deal, 0, 80)
		for i := 0; i < 80; i++ {
			deals = append(deals, domain.Deal{Product: fmt.Sprintf("deal-%d", i), Price: ptr(float64(i))})
		}

		got := m.FindPersonalizedDeals(ctx, "ola", deals, nil)

		assert.Len(t, got, DefaultMaxResults)
		assert.Equal(t, 80, log.summaries[0].DealsFound)
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].MatchScore, got[i].MatchScore)
			assert.Greater(t, got[i].MatchScore, 0.0)
		}
	})

	t.Run("logs zero average when nothing matches", func(t *testing.T) {
		log := &recordingMatchLog{}
		strict := &stubProfiles{profiles: map[string]domain.UserProfile{
			"kari": {Allergies: []string{"gluten"}, PackagePreference: "small"},
		}}
		m := newTestMatcher(strict, log)

		got := m.FindPersonalizedDeals(ctx, "kari", []domain.Deal{{Allergens: []string{"gluten"}}}, nil)

		assert.Empty(t, got)
		require.Len(t, log.summaries, 1)
		assert.Equal(t, 0, log.summaries[0].DealsFound)
		assert.Equal(t, 0.0, log.summaries[0].AverageScore)
	})

	t.Run("does not mutate input deals", func(t *testing.T) {
		m := newTestMatcher(profiles, nil)
		deals := []domain.Deal{{Product: "Ost", Price: ptr(30), Allergens: []string{"nuts"}}}

		got := m.FindPersonalizedDeals(ctx, "ola", []domain.Deal{deals[0], {Product: "Kaffe", Price: ptr(30)}}, nil)
		require.Len(t, got, 2)
		got[0].Allergens = append(got[0].Allergens[:0], "changed")
		*got[0].Price = 999

		assert.Equal(t, "Ost", got[0].Product)
		assert.Equal(t, []string{"nuts"}, deals[0].Allergens)
		assert.Equal(t, 30.0, *deals[0].Price)
	})

	t.Run("applies distance penalty with user location", func(t *testing.T) {
		m := newTestMatcher(profiles, nil)
		home := &domain.Location{Lat: 59.91, Lon: 10.75}
		deals := []domain.Deal{
			{Product: "far", Price: ptr(0), StoreLocation: &domain.Location{Lat: 59.95, Lon: 10.75}},
			{Product: "near", Price: ptr(0), StoreLocation: &domain.Location{Lat: 59.91, Lon: 10.75}},
		}

		got := m.FindPersonalizedDeals(ctx, "ola", deals, home)

		require.Len(t, got, 2)
		assert.Equal(t, "near", got[0].Product)
		assert.Less(t, got[1].MatchScore, got[0].MatchScore)
	})
}

func products(deals []domain.ScoredDeal) []string {
	names := make([]string, len(deals))
	for i, d := range deals {
		names[i] = d.Product
	}
	return names
}
