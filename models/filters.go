package models

import (
	"fmt"
	"strings"
)

// ShiftFilters is the fixed filter record for the shift list. Fields are
// declared in the order they participate in the cache key; the canonical
// absent value for every dimension is the empty string.
type ShiftFilters struct {
	// Month selects the calendar month in "YYYY-MM" form.
	Month string `json:"month"`

	// LocationID restricts results to one workplace.
	LocationID string `json:"location_id"`

	// ContractorID restricts results to one contractor.
	ContractorID string `json:"contractor_id"`

	// Search is free-text input matched against workplace names and notes.
	Search string `json:"search"`
}

// Key returns the canonical serialization of the filter state. Two filter
// values that should trigger the same fetch produce identical keys; field
// order is fixed by declaration, not by construction order.
func (f ShiftFilters) Key() string {
	return fmt.Sprintf("month=%s|location=%s|contractor=%s|search=%s",
		f.Month, f.LocationID, f.ContractorID, strings.TrimSpace(f.Search))
}
