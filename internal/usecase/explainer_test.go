package usecase

import (
	"testing"

	"github.com/dagligdags/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestExplain(t *testing.T) {
	scorer := NewScorer(DefaultScoreWeights())

	tests := []struct {
		name    string
		deal    domain.Deal
		profile domain.UserProfile
		want    string
	}{
		{
			name:    "fallback when nothing matches",
			deal:    domain.Deal{Price: ptr(20)},
			profile: domain.UserProfile{PriceSensitivity: 2},
			want:    "good value",
		},
		{
			name:    "organic",
			deal:    domain.Deal{Organic: true},
			profile: domain.UserProfile{OrganicPreference: 4},
			want:    "matches your organic preference",
		},
		{
			name:    "discount needs price sensitivity",
			deal:    domain.Deal{DiscountPercentage: ptr(35)},
			profile: domain.UserProfile{PriceSensitivity: 3},
			want:    "good value",
		},
		{
			name:    "discount must exceed twenty percent",
			deal:    domain.Deal{DiscountPercentage: ptr(20)},
			profile: domain.UserProfile{PriceSensitivity: 5},
			want:    "good value",
		},
		{
			name:    "discount is rounded",
			deal:    domain.Deal{DiscountPercentage: ptr(33.4)},
			profile: domain.UserProfile{PriceSensitivity: 5},
			want:    "33% discount",
		},
		{
			name:    "cuisine keeps the deal spelling",
			deal:    domain.Deal{CuisineType: "Thai"},
			profile: domain.UserProfile{CuisinePreferences: []string{"thai"}},
			want:    "perfect for Thai cooking",
		},
		{
			name: "all reasons in priority order",
			deal: domain.Deal{
				Organic:            true,
				Local:              true,
				DiscountPercentage: ptr(40),
				CuisineType:        "nordic",
				ProteinContent:     25,
			},
			profile: domain.UserProfile{
				OrganicPreference:  5,
				LocalPreference:    5,
				PriceSensitivity:   5,
				CuisinePreferences: []string{"Nordic"},
				PantryType:         domain.PantryHighProtein,
			},
			want: "matches your organic preference, is locally produced, 40% discount, perfect for nordic cooking, high in protein",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scorer.Explain(tt.deal, tt.profile))
		})
	}
}
