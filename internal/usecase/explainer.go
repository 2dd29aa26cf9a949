package usecase

import (
	"fmt"
	"strings"

	"github.com/dagligdags/backend/internal/domain"
)

// fallbackReason is used when no preference explains the recommendation
const fallbackReason = "good value"

// explainDiscountThreshold is the discount (percent) a price-sensitive user must see to get a reason
const explainDiscountThreshold = 20.0

// Explain builds the human-readable recommendation reason for a deal.
// It re-tests the scoring gates, so every reason here corresponds to a score bonus.
func (s *Scorer) Explain(deal domain.Deal, profile domain.UserProfile) string {
	var reasons []string

	if s.organicMatch(deal, profile) {
		reasons = append(reasons, "matches your organic preference")
	}
	if s.localMatch(deal, profile) {
		reasons = append(reasons, "is locally produced")
	}
	if s.priceSensitive(profile) && deal.DiscountPercentage != nil && *deal.DiscountPercentage > explainDiscountThreshold {
		reasons = append(reasons, fmt.Sprintf("%.0f%% discount", *deal.DiscountPercentage))
	}
	if cuisineMatch(deal, profile) {
		reasons = append(reasons, fmt.Sprintf("perfect for %s cooking", deal.CuisineType))
	}
	if s.highProteinMatch(deal, profile) {
		reasons = append(reasons, "high in protein")
	}

	if len(reasons) == 0 {
		return fallbackReason
	}
	return strings.Join(reasons, ", ")
}
