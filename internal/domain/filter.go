package domain

import (
	"fmt"
	"strings"
)

// SortOption defines the single sort key applied to a result set.
type SortOption string

// Available sort options.
const (
	// SortByPrice sorts by unit price ascending (cheapest first)
	SortByPrice SortOption = "price"

	// SortByDuration sorts by total itinerary duration ascending
	SortByDuration SortOption = "duration"

	// SortByDeparture sorts ascending by the "HH:MM" departure time of the
	// first segment
	SortByDeparture SortOption = "departureTime"

	// SortByArrival sorts ascending by the "HH:MM" arrival time of the
	// last segment
	SortByArrival SortOption = "arrivalTime"

	// SortByRating sorts descending by the category-dependent quality score
	SortByRating SortOption = "rating"
)

// IsValid checks if the sort option is a valid value.
func (s SortOption) IsValid() bool {
	switch s {
	case SortByPrice, SortByDuration, SortByDeparture, SortByArrival, SortByRating:
		return true
	default:
		return false
	}
}

// ParseSortOption converts a string to a SortOption.
// Returns SortByPrice if the string is empty or invalid.
func ParseSortOption(s string) SortOption {
	option := SortOption(s)
	if option.IsValid() {
		return option
	}
	return SortByPrice
}

// PriceRange is an inclusive [Min, Max] price band.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// IsValid checks that the band is non-negative and ordered.
func (pr *PriceRange) IsValid() bool {
	if pr == nil {
		return true
	}
	return pr.Min >= 0 && pr.Min <= pr.Max
}

// Contains checks if an amount falls within the band.
func (pr *PriceRange) Contains(amount float64) bool {
	if pr == nil {
		return true
	}
	return amount >= pr.Min && amount <= pr.Max
}

// HourRange is a departure time-of-day window [Start, End) in whole hours,
// with Start in [0, 24) and End in (0, 24].
type HourRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// IsValid checks that the window is ordered and within a day.
func (hr *HourRange) IsValid() bool {
	if hr == nil {
		return true
	}
	return hr.Start >= 0 && hr.Start < 24 && hr.End > hr.Start && hr.End <= 24
}

// ContainsHour checks if an hour of day falls within the window.
func (hr *HourRange) ContainsHour(hour int) bool {
	if hr == nil {
		return true
	}
	return hour >= hr.Start && hour < hr.End
}

// FilterCriteria defines the user-selected constraints and the sort key
// applied to a candidate offer set. Filtering is conjunctive: an offer
// survives only if it satisfies every active predicate.
//
// Two list semantics deliberately differ and must not be unified:
//   - Carriers: an EMPTY set means no restriction.
//   - Stops: a nil list means all stop counts are allowed (the default);
//     a non-nil list is an explicit membership constraint.
type FilterCriteria struct {
	// PriceBand restricts offers to an inclusive price range
	PriceBand *PriceRange `json:"priceBand,omitempty"`

	// Stops is the allowed stop-count set for flights. Nil = all values.
	Stops []int `json:"stops,omitempty"`

	// Carriers is the allowed carrier-code set for flights. Empty = all.
	Carriers []string `json:"carriers,omitempty"`

	// DepartureWindow restricts flights by first-segment departure hour
	DepartureWindow *HourRange `json:"departureWindow,omitempty"`

	// SortBy is the single sort key (default: price)
	SortBy SortOption `json:"sortBy,omitempty"`
}

// Validate checks the criteria ranges.
// Returns a wrapped ErrInvalidRequest error if validation fails.
func (f *FilterCriteria) Validate() error {
	if f == nil {
		return nil
	}
	if !f.PriceBand.IsValid() {
		return fmt.Errorf("%w: price band min must not exceed max", ErrInvalidRequest)
	}
	if !f.DepartureWindow.IsValid() {
		return fmt.Errorf("%w: departure window must satisfy 0 <= start < end <= 24", ErrInvalidRequest)
	}
	for _, s := range f.Stops {
		if s < 0 {
			return fmt.Errorf("%w: stop counts must be non-negative", ErrInvalidRequest)
		}
	}
	if f.SortBy != "" && !f.SortBy.IsValid() {
		return fmt.Errorf("%w: sortBy must be one of: price, duration, departureTime, arrivalTime, rating", ErrInvalidRequest)
	}
	return nil
}

// Matches checks if an offer satisfies all active predicates.
// Flight-only predicates (stops, carriers, departure window) are bypassed
// for non-flight categories.
func (f *FilterCriteria) Matches(offer Offer) bool {
	if f == nil {
		return true
	}

	if !f.PriceBand.Contains(offer.UnitPrice().Amount) {
		return false
	}

	flight, ok := offer.(FlightOffer)
	if !ok {
		// Hotels, cars, and activities bypass the flight-only predicates.
		return true
	}

	if f.Stops != nil && !containsInt(f.Stops, flight.Stops()) {
		return false
	}

	// Empty carrier set means unrestricted, not "exclude everything".
	if len(f.Carriers) > 0 && !containsCarrier(f.Carriers, flight.Segments[0].CarrierCode) {
		return false
	}

	if f.DepartureWindow != nil && !f.DepartureWindow.ContainsHour(flight.DepartureTime().Hour()) {
		return false
	}

	return true
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// containsCarrier matches carrier codes case-insensitively.
func containsCarrier(codes []string, code string) bool {
	for _, c := range codes {
		if strings.EqualFold(c, code) {
			return true
		}
	}
	return false
}
