package usecase

import (
	"strings"

	"github.com/dagligdags/backend/internal/domain"
)

// Diet tags and product categories involved in diet conflicts
const (
	dietVegetarian = "vegetarian"
	dietVegan      = "vegan"
	categoryMeat   = "meat"
	categoryDairy  = "dairy"
)

// ScoreWeights holds every constant used by the score function.
// Zero values are not replaced; start from DefaultScoreWeights.
type ScoreWeights struct {
	// Price signal
	DiscountFactor float64 // multiplied with discount_percentage
	PriceCeiling   float64 // prices above this contribute nothing
	PriceFactor    float64 // multiplied with (PriceCeiling - price)

	// Scale gates (1-5)
	PreferenceThreshold int

	// Preference bonuses
	Organic        float64
	Local          float64
	PriceSensitive float64

	// Penalties
	AllergenPenalty     float64
	DietConflictPenalty float64

	// Profile matches
	CuisineMatch          float64
	HighProteinBonus      float64
	HighProteinThreshold  float64 // grams
	PackageMatch          float64
	PreferredStore        float64
	MembershipDiscount    float64
	SustainabilityFactor  float64
	SustainabilityNeutral float64

	// DistancePenalties maps transport mode to penalty per km
	DistancePenalties      map[string]float64
	DefaultDistancePenalty float64

	// Memberships maps a lowercase store id to the membership code that unlocks its discount
	Memberships map[string]string
}

// DefaultScoreWeights returns the Norwegian market weights
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		DiscountFactor:      0.1,
		PriceCeiling:        100,
		PriceFactor:         0.01,
		PreferenceThreshold: 4,

		Organic:        1.5,
		Local:          1.3,
		PriceSensitive: 2.0,

		AllergenPenalty:     5.0,
		DietConflictPenalty: 3.0,

		CuisineMatch:          1.5,
		HighProteinBonus:      2.0,
		HighProteinThreshold:  20,
		PackageMatch:          1.0,
		PreferredStore:        1.5,
		MembershipDiscount:    2.0,
		SustainabilityFactor:  0.3,
		SustainabilityNeutral: domain.DefaultSustainabilityScore,

		DistancePenalties: map[string]float64{
			domain.TransportWalking:         0.5,
			domain.TransportBiking:          0.3,
			domain.TransportDriving:         0.15,
			domain.TransportPublicTransport: 0.25,
		},
		DefaultDistancePenalty: 0.5,

		Memberships: map[string]string{
			"coop": "coop_medlem",
			"rema": "ae_rema",
			"ica":  "ica_kort",
		},
	}
}

// Scorer computes personalized match scores and their explanations
type Scorer struct {
	weights ScoreWeights
}

// NewScorer creates a scorer with the given weights
func NewScorer(weights ScoreWeights) *Scorer {
	return &Scorer{weights: weights}
}

// Weights returns the weights the scorer was built with
func (s *Scorer) Weights() ScoreWeights {
	return s.weights
}

// Score returns how well a deal suits the profile. The result is never negative.
// userLoc may be nil, in which case no distance penalty is applied.
func (s *Scorer) Score(deal domain.Deal, profile domain.UserProfile, userLoc *domain.Location) float64 {
	w := s.weights
	score := 0.0

	// Discount takes priority over the plain price signal
	if deal.DiscountPercentage != nil {
		score += *deal.DiscountPercentage * w.DiscountFactor
	} else if deal.Price != nil {
		score += max(0, w.PriceCeiling-*deal.Price) * w.PriceFactor
	}

	if s.organicMatch(deal, profile) {
		score += w.Organic
	}
	if s.localMatch(deal, profile) {
		score += w.Local
	}
	if s.priceSensitive(profile) {
		score += w.PriceSensitive
	}

	if hasAllergenOverlap(profile.Allergies, deal.Allergens) {
		score -= w.AllergenPenalty
	}
	if profile.HasDiet(dietVegetarian) && deal.ProductCategory == categoryMeat {
		score -= w.DietConflictPenalty
	}
	if profile.HasDiet(dietVegan) && (deal.ProductCategory == categoryMeat || deal.ProductCategory == categoryDairy) {
		score -= w.DietConflictPenalty
	}

	if cuisineMatch(deal, profile) {
		score += w.CuisineMatch
	}
	if s.highProteinMatch(deal, profile) {
		score += w.HighProteinBonus
	}
	if profile.Package() == deal.Package() {
		score += w.PackageMatch
	}
	if containsString(profile.PreferredStores, deal.Store) {
		score += w.PreferredStore
	}
	if s.hasMembershipDiscount(deal.Store, profile.LoyaltyMemberships) {
		score += w.MembershipDiscount
	}

	if userLoc != nil && deal.StoreLocation != nil {
		distance := HaversineDistance(*userLoc, *deal.StoreLocation)
		score -= distance * s.distancePenalty(profile.Transport())
	}

	if profile.Sustainability() >= w.PreferenceThreshold {
		score += (deal.Sustainability() - w.SustainabilityNeutral) * w.SustainabilityFactor
	}

	return max(0, score)
}

func (s *Scorer) organicMatch(deal domain.Deal, profile domain.UserProfile) bool {
	return deal.Organic && profile.Organic() >= s.weights.PreferenceThreshold
}

func (s *Scorer) localMatch(deal domain.Deal, profile domain.UserProfile) bool {
	return deal.Local && profile.Local() >= s.weights.PreferenceThreshold
}

func (s *Scorer) priceSensitive(profile domain.UserProfile) bool {
	return profile.PriceSensitive() >= s.weights.PreferenceThreshold
}

func (s *Scorer) highProteinMatch(deal domain.Deal, profile domain.UserProfile) bool {
	return profile.PantryType == domain.PantryHighProtein && deal.ProteinContent > s.weights.HighProteinThreshold
}

func (s *Scorer) distancePenalty(mode string) float64 {
	if penalty, ok := s.weights.DistancePenalties[mode]; ok {
		return penalty
	}
	return s.weights.DefaultDistancePenalty
}

// hasMembershipDiscount checks whether the user holds the membership code required by the store
func (s *Scorer) hasMembershipDiscount(store string, memberships []string) bool {
	required, ok := s.weights.Memberships[strings.ToLower(store)]
	if !ok {
		return false
	}
	for _, m := range memberships {
		if strings.ToLower(m) == strings.ToLower(required) {
			return true
		}
	}
	return false
}

func cuisineMatch(deal domain.Deal, profile domain.UserProfile) bool {
	if deal.CuisineType == "" {
		return false
	}
	for _, c := range profile.CuisinePreferences {
		if strings.EqualFold(c, deal.CuisineType) {
			return true
		}
	}
	return false
}

func hasAllergenOverlap(allergies, allergens []string) bool {
	for _, a := range allergies {
		if containsString(allergens, a) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
