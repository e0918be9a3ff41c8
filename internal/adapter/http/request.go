// Package http provides the HTTP handler layer for the booking API.
// It handles request parsing, validation, and response formatting.
package http

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// SearchOffersRequest represents the request body for an offer search.
type SearchOffersRequest struct {
	// Origin is the IATA code of the departure airport (e.g., "CGK")
	Origin string `json:"origin"`

	// Destination is the IATA code of the arrival airport (e.g., "DPS")
	Destination string `json:"destination"`

	// DepartureDate is the desired departure date in YYYY-MM-DD format
	DepartureDate string `json:"departureDate"`

	// ReturnDate is required for round trips, YYYY-MM-DD format
	ReturnDate string `json:"returnDate,omitempty"`

	// TripType is "oneway" or "round" (defaults to oneway)
	TripType string `json:"tripType,omitempty"`

	// Adults is the number of adult travelers (at least 1)
	Adults int `json:"adults"`

	// Children is the number of child travelers
	Children int `json:"children,omitempty"`

	// Infants is the number of infant travelers (cannot exceed adults)
	Infants int `json:"infants,omitempty"`

	// CabinClass is the travel class: economy, business, or first (optional)
	CabinClass string `json:"cabinClass,omitempty"`

	// IncludeHotel requests hotel offers alongside flights
	IncludeHotel bool `json:"includeHotel,omitempty"`

	// IncludeCar requests car rental offers alongside flights
	IncludeCar bool `json:"includeCar,omitempty"`

	// IncludeActivity requests activity offers alongside flights
	IncludeActivity bool `json:"includeActivity,omitempty"`

	// Filters contains optional filtering criteria
	Filters *FilterDTO `json:"filters,omitempty"`

	// SortBy specifies result ordering: price, duration, departureTime,
	// arrivalTime, rating
	SortBy string `json:"sortBy,omitempty"`
}

// FilterDTO represents optional filters applied to offer results.
// Example: {"priceRange": {"min": 50, "max": 400}, "stops": [0, 1], "carriers": ["GA"], "departureWindow": {"startHour": 6, "endHour": 12}}
type FilterDTO struct {
	// PriceRange keeps offers whose unit price falls within the band
	PriceRange *PriceRangeDTO `json:"priceRange,omitempty"`

	// Stops keeps flights whose stop count is in the list. Omitted means
	// any number of stops; an empty list matches nothing.
	Stops []int `json:"stops,omitempty"`

	// Carriers keeps flights operated by these airline codes. Omitted or
	// empty means any carrier.
	Carriers []string `json:"carriers,omitempty"`

	// DepartureWindow keeps flights departing within the hour window
	DepartureWindow *HourRangeDTO `json:"departureWindow,omitempty"`
}

// PriceRangeDTO represents an inclusive price band.
type PriceRangeDTO struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// HourRangeDTO represents a clock-hour window, end exclusive.
// Example: {"startHour": 6, "endHour": 12} matches 06:00 through 11:59.
type HourRangeDTO struct {
	StartHour int `json:"startHour"`
	EndHour   int `json:"endHour"`
}

// RefineRequest re-applies filters and sorting to an existing session's
// result set.
type RefineRequest struct {
	Filters *FilterDTO `json:"filters,omitempty"`
	SortBy  string     `json:"sortBy,omitempty"`
}

// SelectOfferRequest records an offer choice in a session.
type SelectOfferRequest struct {
	// Category is the offer category: flight, hotel, car, activity
	Category string `json:"category"`

	// OfferID is the id of the offer within the session's result set
	OfferID string `json:"offerId"`
}

// ContactRequest is the contact step submission.
type ContactRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
}

// PassengerDTO is one traveler in the passengers step submission.
type PassengerDTO struct {
	// Type is adult, child, or infant
	Type string `json:"type"`

	Title     string `json:"title"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	// DateOfBirth is in YYYY-MM-DD format
	DateOfBirth string `json:"dateOfBirth,omitempty"`

	Nationality string `json:"nationality,omitempty"`

	DocumentNumber string `json:"documentNumber"`

	// DocumentExpiry is in YYYY-MM-DD format and must be in the future
	DocumentExpiry string `json:"documentExpiry"`
}

// PassengersRequest is the passengers step submission.
type PassengersRequest struct {
	Passengers []PassengerDTO `json:"passengers"`
}

// PaymentSubmitRequest is the payment step submission.
type PaymentSubmitRequest struct {
	// Method is the payment method identifier (defaults to "card")
	Method string `json:"method,omitempty"`
}

// Validation regex patterns.
var (
	airportCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)
	datePattern        = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Valid travel classes.
var validClasses = map[string]bool{
	"economy":  true,
	"business": true,
	"first":    true,
	"":         true, // Empty is valid (defaults to economy)
}

// Valid trip types.
var validTripTypes = map[string]bool{
	"oneway": true,
	"round":  true,
	"":       true, // Empty is valid (defaults to oneway)
}

// Valid sort options.
var validSortOptions = map[string]bool{
	"price":         true,
	"duration":      true,
	"departureTime": true,
	"arrivalTime":   true,
	"rating":        true,
	"":              true, // Empty is valid (defaults to price)
}

// ValidationError represents a field-level validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors holds multiple validation errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}
	return v.Errors[0].Message
}

// Add adds a validation error.
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// ToMap converts validation errors to a map for API response.
func (v *ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v.Errors))
	for _, e := range v.Errors {
		result[e.Field] = e.Message
	}
	return result
}

// Validate validates the search request and returns any validation errors.
func (r *SearchOffersRequest) Validate() error {
	errs := &ValidationErrors{}

	r.validateAirports(errs)
	r.validateDates(errs)
	r.validateTravelers(errs)

	if !validClasses[strings.ToLower(r.CabinClass)] {
		errs.Add("cabinClass", "cabinClass must be one of: economy, business, first")
	}
	if !validTripTypes[strings.ToLower(r.TripType)] {
		errs.Add("tripType", "tripType must be one of: oneway, round")
	}
	if !validSortOptions[r.SortBy] {
		errs.Add("sortBy", "sortBy must be one of: price, duration, departureTime, arrivalTime, rating")
	}

	validateFilters(r.Filters, errs)

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func (r *SearchOffersRequest) validateAirports(errs *ValidationErrors) {
	if r.Origin == "" {
		errs.Add("origin", "origin is required")
	} else {
		origin := strings.ToUpper(r.Origin)
		if !airportCodePattern.MatchString(origin) {
			errs.Add("origin", "origin must be a valid 3-letter IATA airport code")
		} else {
			r.Origin = origin
		}
	}

	if r.Destination == "" {
		errs.Add("destination", "destination is required")
	} else {
		dest := strings.ToUpper(r.Destination)
		if !airportCodePattern.MatchString(dest) {
			errs.Add("destination", "destination must be a valid 3-letter IATA airport code")
		} else {
			r.Destination = dest
		}
	}

	if r.Origin != "" && strings.EqualFold(r.Origin, r.Destination) {
		errs.Add("destination", "origin and destination must be different")
	}
}

func (r *SearchOffersRequest) validateDates(errs *ValidationErrors) {
	if r.DepartureDate == "" {
		errs.Add("departureDate", "departureDate is required")
	} else if !isValidDate(r.DepartureDate) {
		errs.Add("departureDate", "departureDate must be a valid date in YYYY-MM-DD format")
	}

	if strings.ToLower(r.TripType) == "round" {
		if r.ReturnDate == "" {
			errs.Add("returnDate", "returnDate is required for round trips")
		} else if !isValidDate(r.ReturnDate) {
			errs.Add("returnDate", "returnDate must be a valid date in YYYY-MM-DD format")
		} else if isValidDate(r.DepartureDate) && r.ReturnDate < r.DepartureDate {
			errs.Add("returnDate", "returnDate must not be before departureDate")
		}
	}
}

func (r *SearchOffersRequest) validateTravelers(errs *ValidationErrors) {
	if r.Adults < 1 {
		errs.Add("adults", "at least one adult traveler is required")
	}
	if r.Children < 0 {
		errs.Add("children", "children cannot be negative")
	}
	if r.Infants < 0 {
		errs.Add("infants", "infants cannot be negative")
	}
	if r.Infants > r.Adults {
		errs.Add("infants", "infants cannot outnumber adults")
	}
	if total := r.Adults + r.Children + r.Infants; total > 9 {
		errs.Add("adults", fmt.Sprintf("total travelers cannot exceed 9, got %d", total))
	}
}

// Validate validates the refine request.
func (r *RefineRequest) Validate() error {
	errs := &ValidationErrors{}

	if !validSortOptions[r.SortBy] {
		errs.Add("sortBy", "sortBy must be one of: price, duration, departureTime, arrivalTime, rating")
	}
	validateFilters(r.Filters, errs)

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validateFilters(f *FilterDTO, errs *ValidationErrors) {
	if f == nil {
		return
	}

	if f.PriceRange != nil {
		if f.PriceRange.Min < 0 {
			errs.Add("filters.priceRange.min", "min must be non-negative")
		}
		if f.PriceRange.Max < f.PriceRange.Min {
			errs.Add("filters.priceRange", "max must be greater than or equal to min")
		}
	}

	for i, s := range f.Stops {
		if s < 0 {
			errs.Add(fmt.Sprintf("filters.stops[%d]", i), "stop count cannot be negative")
		}
	}

	for i, carrier := range f.Carriers {
		normalized := strings.ToUpper(strings.TrimSpace(carrier))
		if len(normalized) < 2 || len(normalized) > 3 {
			errs.Add(fmt.Sprintf("filters.carriers[%d]", i), "carrier code must be 2 or 3 characters")
		}
		f.Carriers[i] = normalized
	}

	if f.DepartureWindow != nil {
		w := f.DepartureWindow
		if w.StartHour < 0 || w.StartHour > 23 {
			errs.Add("filters.departureWindow.startHour", "startHour must be between 0 and 23")
		}
		if w.EndHour < 1 || w.EndHour > 24 {
			errs.Add("filters.departureWindow.endHour", "endHour must be between 1 and 24")
		}
		if w.StartHour >= w.EndHour {
			errs.Add("filters.departureWindow", "startHour must be before endHour")
		}
	}
}

func isValidDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
