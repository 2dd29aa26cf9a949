package domain

// Profile defaults applied when a field is absent
const (
	DefaultScale         = 3 // neutral on the 1-5 scales
	DefaultTransportMode = TransportWalking
	DefaultMaxDistanceKm = 5.0
)

// Transport modes understood by the distance penalty
const (
	TransportWalking         = "walking"
	TransportBiking          = "biking"
	TransportDriving         = "driving"
	TransportPublicTransport = "public_transport"
)

// PantryHighProtein is the pantry type that rewards protein-rich deals
const PantryHighProtein = "high_protein"

// UserProfile holds the onboarding answers used for personalization.
// Zero values mean "not answered"; use the accessor methods to read with defaults.
type UserProfile struct {
	OrganicPreference        int      `json:"organic_preference,omitempty" yaml:"organic_preference,omitempty"`
	LocalPreference          int      `json:"local_preference,omitempty" yaml:"local_preference,omitempty"`
	PriceSensitivity         int      `json:"price_sensitivity,omitempty" yaml:"price_sensitivity,omitempty"`
	SustainabilityImportance int      `json:"sustainability_importance,omitempty" yaml:"sustainability_importance,omitempty"`
	Allergies                []string `json:"allergies,omitempty" yaml:"allergies,omitempty"`
	Diet                     []string `json:"diet,omitempty" yaml:"diet,omitempty"`
	CuisinePreferences       []string `json:"cuisine_preferences,omitempty" yaml:"cuisine_preferences,omitempty"`
	PantryType               string   `json:"pantry_type,omitempty" yaml:"pantry_type,omitempty"`
	PackagePreference        string   `json:"package_preference,omitempty" yaml:"package_preference,omitempty"`
	PreferredStores          []string `json:"preferred_stores,omitempty" yaml:"preferred_stores,omitempty"`
	LoyaltyMemberships       []string `json:"loyalty_memberships,omitempty" yaml:"loyalty_memberships,omitempty"`
	TransportMode            string   `json:"transport_mode,omitempty" yaml:"transport_mode,omitempty"`
	MaxDistance              float64  `json:"max_distance,omitempty" yaml:"max_distance,omitempty"` // km
}

func scaleOrDefault(v int) int {
	if v == 0 {
		return DefaultScale
	}
	return v
}

// Organic returns the organic preference scale (1-5)
func (p UserProfile) Organic() int { return scaleOrDefault(p.OrganicPreference) }

// Local returns the local preference scale (1-5)
func (p UserProfile) Local() int { return scaleOrDefault(p.LocalPreference) }

// PriceSensitive returns the price sensitivity scale (1-5)
func (p UserProfile) PriceSensitive() int { return scaleOrDefault(p.PriceSensitivity) }

// Sustainability returns the sustainability importance scale (1-5)
func (p UserProfile) Sustainability() int { return scaleOrDefault(p.SustainabilityImportance) }

// Package returns the preferred package size
func (p UserProfile) Package() string {
	if p.PackagePreference == "" {
		return DefaultPackageSize
	}
	return p.PackagePreference
}

// Transport returns the transport mode
func (p UserProfile) Transport() string {
	if p.TransportMode == "" {
		return DefaultTransportMode
	}
	return p.TransportMode
}

// MaxDistanceKm returns the maximum travel distance in km
func (p UserProfile) MaxDistanceKm() float64 {
	if p.MaxDistance <= 0 {
		return DefaultMaxDistanceKm
	}
	return p.MaxDistance
}

// HasDiet reports whether the profile lists the given diet tag
func (p UserProfile) HasDiet(tag string) bool {
	for _, d := range p.Diet {
		if d == tag {
			return true
		}
	}
	return false
}
