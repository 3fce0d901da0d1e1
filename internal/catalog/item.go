// Package catalog is the HTTP client for the QKart catalog service.
//
// The service exposes two read endpoints: the full product list and a
// free-text product search. Both return a JSON array of Item records.
package catalog

import "fmt"

// MaxRating is the upper bound of Item.Rating.
const MaxRating = 5

// Item is a product offered by the store. Items are immutable once decoded;
// callers share slices of them freely.
type Item struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Cost     float64 `json:"cost"`
	Rating   float64 `json:"rating"`
	ImageURL string  `json:"image"`
}

// validate reports whether the item satisfies the catalog invariants.
func (it Item) validate() error {
	if it.ID == "" {
		return fmt.Errorf("item %q: missing id", it.Name)
	}
	if it.Cost < 0 {
		return fmt.Errorf("item %s: negative cost %v", it.ID, it.Cost)
	}
	if it.Rating < 0 || it.Rating > MaxRating {
		return fmt.Errorf("item %s: rating %v outside [0,%d]", it.ID, it.Rating, MaxRating)
	}
	return nil
}

// Validate checks every item and rejects duplicate IDs.
func Validate(items []Item) error {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if err := it.validate(); err != nil {
			return err
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("duplicate item id %s", it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}
