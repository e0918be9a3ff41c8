package usecase

import (
	"sort"

	"github.com/tripstack/travel-booking-engine/internal/domain"
)

// SortOffers sorts offers according to the specified sort option.
// Uses stable sorting so offers comparing equal under the active key retain
// their relative order from the input.
//
// Sort options:
//   - SortByPrice (default): ascending by unit price
//   - SortByDuration: ascending by total itinerary duration (flights);
//     non-flights carry no duration and stay ahead in input order
//   - SortByDeparture / SortByArrival: ascending lexicographic on the
//     "HH:MM" of the first/last segment; non-flights sort as empty
//   - SortByRating: descending by category-dependent quality score
//
// Behavior:
//   - Returns empty slice for empty input
//   - Empty or invalid sortBy defaults to SortByPrice
//   - Does NOT mutate the original slice
func SortOffers(offers []domain.Offer, sortBy domain.SortOption) []domain.Offer {
	if len(offers) == 0 {
		return offers
	}

	result := make([]domain.Offer, len(offers))
	copy(result, offers)

	if len(result) == 1 {
		return result
	}

	if sortBy == "" || !sortBy.IsValid() {
		sortBy = domain.SortByPrice
	}

	switch sortBy {
	case domain.SortByPrice:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].UnitPrice().Amount < result[j].UnitPrice().Amount
		})
	case domain.SortByDuration:
		sort.SliceStable(result, func(i, j int) bool {
			return durationMinutes(result[i]) < durationMinutes(result[j])
		})
	case domain.SortByDeparture:
		sort.SliceStable(result, func(i, j int) bool {
			return departureClock(result[i]) < departureClock(result[j])
		})
	case domain.SortByArrival:
		sort.SliceStable(result, func(i, j int) bool {
			return arrivalClock(result[i]) < arrivalClock(result[j])
		})
	case domain.SortByRating:
		// Higher quality first
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].QualityScore() > result[j].QualityScore()
		})
	}

	return result
}

// durationMinutes is the duration sort key. Only flights carry an itinerary
// duration; other categories sort as zero.
func durationMinutes(o domain.Offer) int {
	if f, ok := o.(domain.FlightOffer); ok {
		return f.TotalDurationMinutes
	}
	return 0
}

// departureClock is the "HH:MM" of the first segment, empty for non-flights.
func departureClock(o domain.Offer) string {
	if f, ok := o.(domain.FlightOffer); ok && len(f.Segments) > 0 {
		return f.DepartureTime().Format("15:04")
	}
	return ""
}

// arrivalClock is the "HH:MM" of the last segment, empty for non-flights.
func arrivalClock(o domain.Offer) string {
	if f, ok := o.(domain.FlightOffer); ok && len(f.Segments) > 0 {
		return f.ArrivalTime().Format("15:04")
	}
	return ""
}
