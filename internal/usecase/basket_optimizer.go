package usecase

import (
	"context"
	"math"
	"strings"

	"github.com/dagligdags/backend/internal/domain"
	"go.uber.org/zap"
)

// BasketWeights holds the coefficients of the combination score:
// coverage*Coverage - stores*StorePenalty - total_price*PricePenalty
type BasketWeights struct {
	Coverage     float64
	StorePenalty float64
	PricePenalty float64
}

// DefaultBasketWeights returns the default combination weights
func DefaultBasketWeights() BasketWeights {
	return BasketWeights{
		Coverage:     10,
		StorePenalty: 2,
		PricePenalty: 0.01,
	}
}

// StoreMatches groups matched basket entries per store, keeping first-seen store order
type StoreMatches struct {
	Stores  []string
	Entries map[string][]domain.BasketEntry
}

func newStoreMatches() *StoreMatches {
	return &StoreMatches{Entries: make(map[string][]domain.BasketEntry)}
}

func (m *StoreMatches) add(store string, entry domain.BasketEntry) {
	if _, ok := m.Entries[store]; !ok {
		m.Stores = append(m.Stores, store)
	}
	m.Entries[store] = append(m.Entries[store], entry)
}

// GroupDealsByStore matches shopping-list items to deals by case-insensitive substring
// of the product name and groups the matches per store.
// Deals without a store are skipped; they cannot be part of a store combination.
func GroupDealsByStore(shoppingList []string, deals []domain.Deal) *StoreMatches {
	matches := newStoreMatches()

	for _, deal := range deals {
		if deal.Store == "" {
			continue
		}
		product := strings.ToLower(deal.Product)
		for _, item := range shoppingList {
			if strings.Contains(product, strings.ToLower(item)) {
				matches.add(deal.Store, domain.BasketEntry{
					Item:  item,
					Deal:  deal.Clone(),
					Price: deal.PriceOrZero(),
				})
			}
		}
	}

	return matches
}

// GenerateStoreCombinations returns every single-store combination followed by every
// two-store combination. Combinations of three or more stores are not generated.
func GenerateStoreCombinations(matches *StoreMatches, shoppingList []string) []domain.StoreCombination {
	if matches == nil {
		return nil
	}

	var combinations []domain.StoreCombination

	for _, store := range matches.Stores {
		combinations = append(combinations, buildCombination(
			[]string{store},
			matches.Entries[store],
			shoppingList,
		))
	}

	for i, first := range matches.Stores {
		for _, second := range matches.Stores[i+1:] {
			entries := make([]domain.BasketEntry, 0, len(matches.Entries[first])+len(matches.Entries[second]))
			entries = append(entries, matches.Entries[first]...)
			entries = append(entries, matches.Entries[second]...)
			combinations = append(combinations, buildCombination(
				[]string{first, second},
				entries,
				shoppingList,
			))
		}
	}

	return combinations
}

func buildCombination(stores []string, entries []domain.BasketEntry, shoppingList []string) domain.StoreCombination {
	total := 0.0
	for _, e := range entries {
		total += e.Price
	}

	return domain.StoreCombination{
		Stores:     stores,
		Items:      entries,
		Coverage:   coverage(entries, shoppingList),
		TotalPrice: total,
	}
}

// coverage counts the distinct requested items present in entries over the list length
func coverage(entries []domain.BasketEntry, shoppingList []string) float64 {
	if len(shoppingList) == 0 {
		return 0
	}

	found := make(map[string]bool, len(entries))
	for _, e := range entries {
		found[e.Item] = true
	}

	covered := make(map[string]bool)
	for _, item := range shoppingList {
		if found[item] {
			covered[item] = true
		}
	}

	return float64(len(covered)) / float64(len(shoppingList))
}

// ScoreCombination computes the evaluator score of one combination
func ScoreCombination(c domain.StoreCombination, weights BasketWeights) float64 {
	return c.Coverage*weights.Coverage -
		float64(len(c.Stores))*weights.StorePenalty -
		c.TotalPrice*weights.PricePenalty
}

// EvaluateCombinations returns the highest scoring combination; the earliest wins ties.
// With no candidates it returns domain.EmptyCombination().
// Any candidate beats the empty result, including ones scoring -1 or lower; a
// starting score of -1 would instead return the empty result for very expensive baskets.
func EvaluateCombinations(combinations []domain.StoreCombination, weights BasketWeights) domain.StoreCombination {
	best := domain.EmptyCombination()
	bestScore := math.Inf(-1)

	for _, c := range combinations {
		score := ScoreCombination(c, weights)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}

	return best
}

// BasketOptimizer picks the store combination that best covers a shopping list
type BasketOptimizer struct {
	profiles domain.ProfileLoader
	weights  BasketWeights
	logger   *zap.Logger
}

// NewBasketOptimizer creates a basket optimizer
func NewBasketOptimizer(profiles domain.ProfileLoader, weights BasketWeights, logger *zap.Logger) *BasketOptimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BasketOptimizer{
		profiles: profiles,
		weights:  weights,
		logger:   logger,
	}
}

// OptimizeBasket selects the best single- or two-store combination for the shopping list.
// Missing profiles fall back to defaults; the result is never nil-valued.
func (o *BasketOptimizer) OptimizeBasket(
	ctx context.Context,
	userID string,
	shoppingList []string,
	deals []domain.Deal,
) domain.StoreCombination {
	profile, _ := loadProfile(ctx, o.profiles, userID, o.logger)

	// TODO: filter stores by max_distance once store locations are available per store
	maxDistance := profile.MaxDistanceKm()

	matches := GroupDealsByStore(shoppingList, deals)
	combinations := GenerateStoreCombinations(matches, shoppingList)
	best := EvaluateCombinations(combinations, o.weights)

	o.logger.Debug("basket optimized",
		zap.String("user_id", userID),
		zap.Int("items", len(shoppingList)),
		zap.Int("candidates", len(combinations)),
		zap.Strings("stores", best.Stores),
		zap.Float64("coverage", best.Coverage),
		zap.Float64("max_distance_km", maxDistance),
	)

	return best
}
