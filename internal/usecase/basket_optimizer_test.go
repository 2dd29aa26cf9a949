package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/dagligdags/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basketDeals() []domain.Deal {
	return []domain.Deal{
		{Product: "Tine Lettmelk 1L", Price: ptr(20), Store: "A"},
		{Product: "Frittgående EGG 12pk", Price: ptr(30), Store: "A"},
		{Product: "Q Melk", Price: ptr(18), Store: "B"},
		{Product: "Kaffe", Price: ptr(60), Store: "C"},
	}
}

func TestGroupDealsByStore(t *testing.T) {
	t.Run("matches case insensitive substrings in store order", func(t *testing.T) {
		matches := GroupDealsByStore([]string{"melk", "egg"}, basketDeals())

		assert.Equal(t, []string{"A", "B"}, matches.Stores)
		require.Len(t, matches.Entries["A"], 2)
		assert.Equal(t, "melk", matches.Entries["A"][0].Item)
		assert.Equal(t, 20.0, matches.Entries["A"][0].Price)
		assert.Equal(t, "egg", matches.Entries["A"][1].Item)
		require.Len(t, matches.Entries["B"], 1)
		assert.Equal(t, 18.0, matches.Entries["B"][0].Price)
	})

	t.Run("one deal can satisfy several items", func(t *testing.T) {
		deals := []domain.Deal{{Product: "Sjokolademelk", Price: ptr(25), Store: "A"}}

		matches := GroupDealsByStore([]string{"melk", "sjokolade"}, deals)

		assert.Len(t, matches.Entries["A"], 2)
	})

	t.Run("missing price counts as zero", func(t *testing.T) {
		deals := []domain.Deal{{Product: "melk", Store: "A"}}

		matches := GroupDealsByStore([]string{"melk"}, deals)

		assert.Equal(t, 0.0, matches.Entries["A"][0].Price)
	})

	t.Run("skips deals without a store", func(t *testing.T) {
		deals := []domain.Deal{{Product: "melk", Price: ptr(10)}}

		matches := GroupDealsByStore([]string{"melk"}, deals)

		assert.Empty(t, matches.Stores)
	})
}

func TestGenerateStoreCombinations(t *testing.T) {
	list := []string{"melk", "egg", "kaffe"}
	matches := GroupDealsByStore(list, basketDeals())

	combos := GenerateStoreCombinations(matches, list)

	require.Len(t, combos, 6)
	wantStores := [][]string{{"A"}, {"B"}, {"C"}, {"A", "B"}, {"A", "C"}, {"B", "C"}}
	for i, want := range wantStores {
		assert.Equal(t, want, combos[i].Stores)
	}

	t.Run("coverage counts distinct items", func(t *testing.T) {
		ab := combos[3]
		assert.Len(t, ab.Items, 3)
		assert.InDelta(t, 2.0/3.0, ab.Coverage, 1e-9)
		assert.InDelta(t, 68.0, ab.TotalPrice, 1e-9)
	})

	t.Run("pair covering everything", func(t *testing.T) {
		ac := combos[4]
		assert.InDelta(t, 1.0, ac.Coverage, 1e-9)
		assert.InDelta(t, 110.0, ac.TotalPrice, 1e-9)
	})

	t.Run("coverage stays within bounds", func(t *testing.T) {
		for _, c := range combos {
			assert.GreaterOrEqual(t, c.Coverage, 0.0)
			assert.LessOrEqual(t, c.Coverage, 1.0)
		}
	})

	t.Run("nil matches produce nothing", func(t *testing.T) {
		assert.Empty(t, GenerateStoreCombinations(nil, list))
	})
}

func TestEvaluateCombinations(t *testing.T) {
	weights := DefaultBasketWeights()

	t.Run("example basket picks the full single store", func(t *testing.T) {
		list := []string{"melk", "egg"}
		combos := GenerateStoreCombinations(GroupDealsByStore(list, basketDeals()), list)

		assert.InDelta(t, 7.5, ScoreCombination(combos[0], weights), 1e-9)
		assert.InDelta(t, 2.82, ScoreCombination(combos[1], weights), 1e-9)

		best := EvaluateCombinations(combos, weights)
		assert.Equal(t, []string{"A"}, best.Stores)
		assert.InDelta(t, 1.0, best.Coverage, 1e-9)
		assert.InDelta(t, 50.0, best.TotalPrice, 1e-9)
	})

	t.Run("first candidate wins ties", func(t *testing.T) {
		combos := []domain.StoreCombination{
			{Stores: []string{"X"}, Coverage: 1, TotalPrice: 10},
			{Stores: []string{"Y"}, Coverage: 1, TotalPrice: 10},
		}

		assert.Equal(t, []string{"X"}, EvaluateCombinations(combos, weights).Stores)
	})

	t.Run("negative scores are still selected", func(t *testing.T) {
		combos := []domain.StoreCombination{
			{Stores: []string{"X"}, Coverage: 0.5, TotalPrice: 2000},
		}

		assert.InDelta(t, -17.0, ScoreCombination(combos[0], weights), 1e-9)
		assert.Equal(t, []string{"X"}, EvaluateCombinations(combos, weights).Stores)
	})

	t.Run("a basket scoring exactly -1 is selected", func(t *testing.T) {
		combos := []domain.StoreCombination{
			{Stores: []string{"X"}, Coverage: 0.2, TotalPrice: 100},
		}

		assert.InDelta(t, -1.0, ScoreCombination(combos[0], weights), 1e-9)
		assert.Equal(t, []string{"X"}, EvaluateCombinations(combos, weights).Stores)
	})

	t.Run("empty candidates return the sentinel", func(t *testing.T) {
		best := EvaluateCombinations(nil, weights)

		assert.NotNil(t, best.Stores)
		assert.NotNil(t, best.Items)
		assert.Empty(t, best.Stores)
		assert.Empty(t, best.Items)
		assert.Equal(t, 0.0, best.Coverage)
		assert.Equal(t, 0.0, best.TotalPrice)
		assert.True(t, best.IsEmpty())
	})
}

func TestOptimizeBasket(t *testing.T) {
	ctx := context.Background()

	t.Run("empty deal list returns the sentinel", func(t *testing.T) {
		o := NewBasketOptimizer(&stubProfiles{}, DefaultBasketWeights(), nil)

		got := o.OptimizeBasket(ctx, "ola", []string{"melk"}, nil)

		assert.Equal(t, domain.EmptyCombination(), got)
	})

	t.Run("works without a profile", func(t *testing.T) {
		o := NewBasketOptimizer(&stubProfiles{err: errors.New("no such table")}, DefaultBasketWeights(), nil)

		got := o.OptimizeBasket(ctx, "ola", []string{"melk", "egg"}, basketDeals())

		assert.Equal(t, []string{"A"}, got.Stores)
	})

	t.Run("prefers a cheaper pair when coverage requires it", func(t *testing.T) {
		o := NewBasketOptimizer(nil, DefaultBasketWeights(), nil)

		got := o.OptimizeBasket(ctx, "ola", []string{"melk", "egg", "kaffe"}, basketDeals())

		assert.Equal(t, []string{"A", "C"}, got.Stores)
		assert.InDelta(t, 1.0, got.Coverage, 1e-9)
	})

	t.Run("no shopping list matches", func(t *testing.T) {
		o := NewBasketOptimizer(nil, DefaultBasketWeights(), nil)

		got := o.OptimizeBasket(ctx, "ola", []string{"laks"}, basketDeals())

		assert.True(t, got.IsEmpty())
	})
}
