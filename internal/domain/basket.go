package domain

// BasketEntry is one shopping-list item matched to a deal at a store
type BasketEntry struct {
	Item  string  `json:"item"`
	Deal  Deal    `json:"deal"`
	Price float64 `json:"price"`
}

// StoreCombination is a candidate set of stores for a shopping list
type StoreCombination struct {
	Stores     []string      `json:"stores"`
	Items      []BasketEntry `json:"items"`
	Coverage   float64       `json:"coverage"`    // distinct items covered / items requested
	TotalPrice float64       `json:"total_price"` // NOK
}

// EmptyCombination is returned when no candidate can be built
func EmptyCombination() StoreCombination {
	return StoreCombination{
		Stores: []string{},
		Items:  []BasketEntry{},
	}
}

// IsEmpty reports whether the combination selects no store
func (c StoreCombination) IsEmpty() bool {
	return len(c.Stores) == 0
}
