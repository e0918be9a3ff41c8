package domain

import (
	"fmt"
	"regexp"
	"time"
)

// TripType distinguishes one-way and round trips.
type TripType string

// Trip types.
const (
	TripOneWay TripType = "oneway"
	TripRound  TripType = "round"
)

// SearchRequest defines the parameters for an offer search. The add-on flags
// control which non-flight categories the catalog synthesizes; flights are
// always included.
type SearchRequest struct {
	// Origin is the IATA code of the departure airport (e.g., "CGK")
	Origin string `json:"origin"`

	// Destination is the IATA code of the arrival airport (e.g., "DPS")
	Destination string `json:"destination"`

	// DepartureDate is the desired departure date in YYYY-MM-DD format
	DepartureDate string `json:"departureDate"`

	// ReturnDate is the return date for round trips (YYYY-MM-DD)
	ReturnDate string `json:"returnDate,omitempty"`

	// TripType is oneway or round (default: oneway)
	TripType TripType `json:"tripType,omitempty"`

	// Adults is the number of adult passengers (at least 1)
	Adults int `json:"adults"`

	// Children is the number of child passengers
	Children int `json:"children"`

	// Infants is the number of infant passengers
	Infants int `json:"infants"`

	// CabinClass is the travel class: economy, business, or first
	CabinClass string `json:"cabinClass,omitempty"`

	// IncludeHotel requests hotel offers alongside flights
	IncludeHotel bool `json:"includeHotel,omitempty"`

	// IncludeCar requests car rental offers alongside flights
	IncludeCar bool `json:"includeCar,omitempty"`

	// IncludeActivity requests activity offers alongside flights
	IncludeActivity bool `json:"includeActivity,omitempty"`
}

// airportCodeRegex matches valid IATA airport codes (3 uppercase letters).
var airportCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// dateRegex matches dates in YYYY-MM-DD format.
var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// validCabinClasses defines the allowed travel classes.
var validCabinClasses = map[string]bool{
	"economy":  true,
	"business": true,
	"first":    true,
}

// Validate checks if the search request is valid.
// Returns a wrapped ErrInvalidRequest error if validation fails.
func (s *SearchRequest) Validate() error {
	if s.Origin == "" {
		return fmt.Errorf("%w: origin is required", ErrInvalidRequest)
	}
	if !airportCodeRegex.MatchString(s.Origin) {
		return fmt.Errorf("%w: origin must be a valid 3-letter IATA code, got %q", ErrInvalidRequest, s.Origin)
	}

	if s.Destination == "" {
		return fmt.Errorf("%w: destination is required", ErrInvalidRequest)
	}
	if !airportCodeRegex.MatchString(s.Destination) {
		return fmt.Errorf("%w: destination must be a valid 3-letter IATA code, got %q", ErrInvalidRequest, s.Destination)
	}

	if s.Origin == s.Destination {
		return fmt.Errorf("%w: origin and destination must be different", ErrInvalidRequest)
	}

	if err := validateDate("departureDate", s.DepartureDate); err != nil {
		return err
	}

	if s.TripType != "" && s.TripType != TripOneWay && s.TripType != TripRound {
		return fmt.Errorf("%w: tripType must be oneway or round", ErrInvalidRequest)
	}
	if s.TripType == TripRound {
		if err := validateDate("returnDate", s.ReturnDate); err != nil {
			return err
		}
	}

	if s.Adults < 1 {
		return fmt.Errorf("%w: at least one adult passenger is required", ErrInvalidRequest)
	}
	if s.Children < 0 || s.Infants < 0 {
		return fmt.Errorf("%w: passenger counts must be non-negative", ErrInvalidRequest)
	}
	if s.Adults+s.Children+s.Infants > 9 {
		return fmt.Errorf("%w: total passengers cannot exceed 9", ErrInvalidRequest)
	}
	// Each infant travels on an adult's lap; more infants than adults
	// cannot be seated.
	if s.Infants > s.Adults {
		return fmt.Errorf("%w: infants cannot outnumber adults", ErrInvalidRequest)
	}

	if s.CabinClass != "" && !validCabinClasses[s.CabinClass] {
		return fmt.Errorf("%w: cabinClass must be one of: economy, business, first; got %q", ErrInvalidRequest, s.CabinClass)
	}

	return nil
}

func validateDate(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidRequest, field)
	}
	if !dateRegex.MatchString(value) {
		return fmt.Errorf("%w: %s must be in YYYY-MM-DD format, got %q", ErrInvalidRequest, field, value)
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return fmt.Errorf("%w: %s is not a valid date: %s", ErrInvalidRequest, field, value)
	}
	return nil
}

// SetDefaults applies default values to empty optional fields.
func (s *SearchRequest) SetDefaults() {
	if s.Adults == 0 {
		s.Adults = 1
	}
	if s.CabinClass == "" {
		s.CabinClass = "economy"
	}
	if s.TripType == "" {
		s.TripType = TripOneWay
	}
}

// Travelers returns the number of seated travelers (adults + children).
// Infants travel on an adult's lap and do not occupy a seat.
func (s *SearchRequest) Travelers() int {
	return s.Adults + s.Children
}
