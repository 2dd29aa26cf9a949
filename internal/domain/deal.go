package domain

import (
	"encoding/json"
	"fmt"
)

// DefaultSustainabilityScore is the neutral score assumed when a deal has none
const DefaultSustainabilityScore = 5.0

// DefaultPackageSize is used on both sides of the package-size comparison
const DefaultPackageSize = "regular"

// Location is a latitude/longitude pair in decimal degrees
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// UnmarshalJSON accepts either a [lat, lon] pair or a {"lat":..,"lon":..} object
func (l *Location) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("location pair must have 2 elements, got %d", len(pair))
		}
		l.Lat, l.Lon = pair[0], pair[1]
		return nil
	}

	type plain Location
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid location: %w", err)
	}
	*l = Location(obj)
	return nil
}

// Deal is a normalized grocery offer as produced by the scraping pipeline.
// Every field is optional; readers fall back to defaults.
type Deal struct {
	Product             string    `json:"product,omitempty"`
	Price               *float64  `json:"price,omitempty"`               // NOK
	DiscountPercentage  *float64  `json:"discount_percentage,omitempty"` // 0-100
	Store               string    `json:"store,omitempty"`
	Organic             bool      `json:"organic,omitempty"`
	Local               bool      `json:"local,omitempty"`
	Allergens           []string  `json:"allergens,omitempty"`
	ProductCategory     string    `json:"product_category,omitempty"`
	CuisineType         string    `json:"cuisine_type,omitempty"`
	ProteinContent      float64   `json:"protein_content,omitempty"` // grams per 100g
	PackageSize         string    `json:"package_size,omitempty"`
	StoreLocation       *Location `json:"store_location,omitempty"`
	SustainabilityScore float64   `json:"sustainability_score,omitempty"` // 1-10
	ValidUntil          string    `json:"valid_until,omitempty"`

	// Extra keeps fields scoring does not read (source, scraped_at, pdf_url, distance, ...)
	// so they survive a decode and encode round trip.
	Extra map[string]json.RawMessage `json:"-"`
}

// dealFields has the Deal layout without its JSON methods
type dealFields Deal

// dealKeys are the JSON keys decoded into Deal fields
var dealKeys = []string{
	"product", "price", "discount_percentage", "store", "organic", "local",
	"allergens", "product_category", "cuisine_type", "protein_content",
	"package_size", "store_location", "sustainability_score", "valid_until",
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra
func (d *Deal) UnmarshalJSON(data []byte) error {
	var fields dealFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range dealKeys {
		delete(raw, key)
	}

	fields.Extra = nil
	if len(raw) > 0 {
		fields.Extra = raw
	}
	*d = Deal(fields)
	return nil
}

// MarshalJSON encodes the known fields followed by Extra
func (d Deal) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(dealFields(d), d.Extra)
}

// marshalWithExtra adds extra keys to the encoding of v; keys already present win
func marshalWithExtra(v interface{}, extra map[string]json.RawMessage) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for key, value := range extra {
		if _, ok := merged[key]; !ok {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}

// PriceOrZero returns the deal price, or 0 when the deal carries none
func (d Deal) PriceOrZero() float64 {
	if d.Price == nil {
		return 0
	}
	return *d.Price
}

// Sustainability returns the sustainability score, defaulting to neutral
func (d Deal) Sustainability() float64 {
	if d.SustainabilityScore == 0 {
		return DefaultSustainabilityScore
	}
	return d.SustainabilityScore
}

// Package returns the package size, defaulting to "regular"
func (d Deal) Package() string {
	if d.PackageSize == "" {
		return DefaultPackageSize
	}
	return d.PackageSize
}

// Clone returns a copy that shares no mutable state with d
func (d Deal) Clone() Deal {
	c := d
	if d.Price != nil {
		p := *d.Price
		c.Price = &p
	}
	if d.DiscountPercentage != nil {
		p := *d.DiscountPercentage
		c.DiscountPercentage = &p
	}
	if d.Allergens != nil {
		c.Allergens = append([]string(nil), d.Allergens...)
	}
	if d.StoreLocation != nil {
		loc := *d.StoreLocation
		c.StoreLocation = &loc
	}
	if d.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(d.Extra))
		for key, value := range d.Extra {
			c.Extra[key] = append(json.RawMessage(nil), value...)
		}
	}
	return c
}

// ScoredDeal is a deal augmented with its personalized score
type ScoredDeal struct {
	Deal
	MatchScore           float64 `json:"match_score"`
	RecommendationReason string  `json:"recommendation_reason"`
}

type scoredDealFields struct {
	dealFields
	MatchScore           float64 `json:"match_score"`
	RecommendationReason string  `json:"recommendation_reason"`
}

// MarshalJSON encodes the deal, its Extra fields and the score as one flat object
func (s ScoredDeal) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(scoredDealFields{
		dealFields:           dealFields(s.Deal),
		MatchScore:           s.MatchScore,
		RecommendationReason: s.RecommendationReason,
	}, s.Extra)
}

// UnmarshalJSON decodes a flat scored deal object
func (s *ScoredDeal) UnmarshalJSON(data []byte) error {
	var score struct {
		MatchScore           float64 `json:"match_score"`
		RecommendationReason string  `json:"recommendation_reason"`
	}
	if err := json.Unmarshal(data, &score); err != nil {
		return err
	}

	var deal Deal
	if err := deal.UnmarshalJSON(data); err != nil {
		return err
	}
	delete(deal.Extra, "match_score")
	delete(deal.Extra, "recommendation_reason")
	if len(deal.Extra) == 0 {
		deal.Extra = nil
	}

	s.Deal = deal
	s.MatchScore = score.MatchScore
	s.RecommendationReason = score.RecommendationReason
	return nil
}

// MatchSummary is emitted once per ranking call
type MatchSummary struct {
	UserID       string  `json:"user_id"`
	DealsFound   int     `json:"deals_found"`
	AverageScore float64 `json:"avg_score"`
}
