package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func flightAt(hour int, carrier string, stops int, price float64) FlightOffer {
	dep := time.Date(2026, 9, 15, hour, 0, 0, 0, time.UTC)
	segments := make([]Segment, stops+1)
	cursor := dep
	for i := range segments {
		segments[i] = Segment{
			DepartureAirport: "CGK",
			ArrivalAirport:   "SIN",
			DepartureTime:    cursor,
			ArrivalTime:      cursor.Add(90 * time.Minute),
			CarrierCode:      carrier,
			DurationMinutes:  90,
		}
		cursor = cursor.Add(150 * time.Minute)
	}
	return FlightOffer{
		ID:                   "FL-TEST",
		Segments:             segments,
		SeatsRemaining:       4,
		TotalDurationMinutes: 90 * (stops + 1),
		Price:                Price{Amount: price, Currency: "USD"},
	}
}

// TestParseSortOption verifies that unknown keys fall back to price.
func TestParseSortOption(t *testing.T) {
	tests := []struct {
		input    string
		expected SortOption
	}{
		{"price", SortByPrice},
		{"duration", SortByDuration},
		{"departureTime", SortByDeparture},
		{"arrivalTime", SortByArrival},
		{"rating", SortByRating},
		{"", SortByPrice},
		{"popularity", SortByPrice},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseSortOption(tt.input))
		})
	}
}

// TestFilterCriteria_Validate covers the criteria range checks.
func TestFilterCriteria_Validate(t *testing.T) {
	tests := []struct {
		name     string
		criteria FilterCriteria
		wantErr  bool
	}{
		{
			name:     "empty criteria is valid",
			criteria: FilterCriteria{},
		},
		{
			name:     "ordered price band",
			criteria: FilterCriteria{PriceBand: &PriceRange{Min: 10, Max: 200}},
		},
		{
			name:     "inverted price band",
			criteria: FilterCriteria{PriceBand: &PriceRange{Min: 200, Max: 10}},
			wantErr:  true,
		},
		{
			name:     "negative price band",
			criteria: FilterCriteria{PriceBand: &PriceRange{Min: -5, Max: 10}},
			wantErr:  true,
		},
		{
			name:     "valid departure window",
			criteria: FilterCriteria{DepartureWindow: &HourRange{Start: 6, End: 12}},
		},
		{
			name:     "inverted departure window",
			criteria: FilterCriteria{DepartureWindow: &HourRange{Start: 12, End: 6}},
			wantErr:  true,
		},
		{
			name:     "window past midnight",
			criteria: FilterCriteria{DepartureWindow: &HourRange{Start: 20, End: 25}},
			wantErr:  true,
		},
		{
			name:     "negative stop count",
			criteria: FilterCriteria{Stops: []int{0, -1}},
			wantErr:  true,
		},
		{
			name:     "unknown sort key",
			criteria: FilterCriteria{SortBy: SortOption("popularity")},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.criteria.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRequest)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestFilterCriteria_Matches_PriceBand checks the inclusive price predicate.
func TestFilterCriteria_Matches_PriceBand(t *testing.T) {
	criteria := FilterCriteria{PriceBand: &PriceRange{Min: 100, Max: 200}}

	assert.True(t, criteria.Matches(flightAt(8, "GA", 0, 100)))
	assert.True(t, criteria.Matches(flightAt(8, "GA", 0, 200)))
	assert.False(t, criteria.Matches(flightAt(8, "GA", 0, 99.99)))
	assert.False(t, criteria.Matches(flightAt(8, "GA", 0, 200.01)))
}

// TestFilterCriteria_Matches_Stops checks the nil-versus-empty stop
// semantics: nil allows everything, an explicit list is a membership set.
func TestFilterCriteria_Matches_Stops(t *testing.T) {
	direct := flightAt(8, "GA", 0, 120)
	oneStop := flightAt(8, "GA", 1, 120)

	t.Run("nil stops allows all", func(t *testing.T) {
		criteria := FilterCriteria{}
		assert.True(t, criteria.Matches(direct))
		assert.True(t, criteria.Matches(oneStop))
	})

	t.Run("empty list excludes everything", func(t *testing.T) {
		criteria := FilterCriteria{Stops: []int{}}
		assert.False(t, criteria.Matches(direct))
		assert.False(t, criteria.Matches(oneStop))
	})

	t.Run("membership list", func(t *testing.T) {
		criteria := FilterCriteria{Stops: []int{0}}
		assert.True(t, criteria.Matches(direct))
		assert.False(t, criteria.Matches(oneStop))
	})
}

// TestFilterCriteria_Matches_Carriers checks that an empty carrier set
// means unrestricted and that matching ignores case.
func TestFilterCriteria_Matches_Carriers(t *testing.T) {
	garuda := flightAt(8, "GA", 0, 120)
	lion := flightAt(8, "JT", 0, 80)

	t.Run("empty set is unrestricted", func(t *testing.T) {
		criteria := FilterCriteria{Carriers: []string{}}
		assert.True(t, criteria.Matches(garuda))
		assert.True(t, criteria.Matches(lion))
	})

	t.Run("membership set", func(t *testing.T) {
		criteria := FilterCriteria{Carriers: []string{"GA", "SQ"}}
		assert.True(t, criteria.Matches(garuda))
		assert.False(t, criteria.Matches(lion))
	})

	t.Run("case insensitive", func(t *testing.T) {
		criteria := FilterCriteria{Carriers: []string{"ga"}}
		assert.True(t, criteria.Matches(garuda))
	})
}

// TestFilterCriteria_Matches_DepartureWindow checks the half-open hour window.
func TestFilterCriteria_Matches_DepartureWindow(t *testing.T) {
	criteria := FilterCriteria{DepartureWindow: &HourRange{Start: 6, End: 12}}

	assert.True(t, criteria.Matches(flightAt(6, "GA", 0, 120)))
	assert.True(t, criteria.Matches(flightAt(11, "GA", 0, 120)))
	assert.False(t, criteria.Matches(flightAt(12, "GA", 0, 120)))
	assert.False(t, criteria.Matches(flightAt(5, "GA", 0, 120)))
}

// TestFilterCriteria_Matches_NonFlight verifies that flight-only predicates
// are bypassed for other categories while the price band still applies.
func TestFilterCriteria_Matches_NonFlight(t *testing.T) {
	hotel := HotelOffer{
		ID:           "HT-001",
		Name:         "Harbor View Resort",
		NightlyPrice: Price{Amount: 150, Currency: "USD"},
		Nights:       2,
		StarRating:   4,
	}

	t.Run("flight predicates bypassed", func(t *testing.T) {
		criteria := FilterCriteria{
			Stops:           []int{0},
			Carriers:        []string{"GA"},
			DepartureWindow: &HourRange{Start: 6, End: 12},
		}
		assert.True(t, criteria.Matches(hotel))
	})

	t.Run("price band still applies", func(t *testing.T) {
		criteria := FilterCriteria{PriceBand: &PriceRange{Min: 0, Max: 100}}
		assert.False(t, criteria.Matches(hotel))
	})
}

// TestFilterCriteria_Matches_Conjunctive verifies all predicates must hold.
func TestFilterCriteria_Matches_Conjunctive(t *testing.T) {
	criteria := FilterCriteria{
		PriceBand: &PriceRange{Min: 0, Max: 500},
		Stops:     []int{0},
		Carriers:  []string{"GA"},
	}

	assert.True(t, criteria.Matches(flightAt(8, "GA", 0, 120)))
	assert.False(t, criteria.Matches(flightAt(8, "GA", 1, 120)))
	assert.False(t, criteria.Matches(flightAt(8, "SQ", 0, 120)))
}
