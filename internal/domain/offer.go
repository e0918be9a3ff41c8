// Package domain contains the core business entities and rules for the travel
// booking engine. These entities are supplier-agnostic and form the foundation
// upon which the search, selection, and checkout components are built.
package domain

import (
	"fmt"
	"time"
)

// Category identifies the kind of bookable inventory an offer represents.
type Category string

// Offer categories. The set is closed: filtering, pricing, and snapshotting
// switch exhaustively over these values.
const (
	CategoryFlight   Category = "flight"
	CategoryHotel    Category = "hotel"
	CategoryCar      Category = "car"
	CategoryActivity Category = "activity"
)

// IsValid checks if the category is a known value.
func (c Category) IsValid() bool {
	switch c {
	case CategoryFlight, CategoryHotel, CategoryCar, CategoryActivity:
		return true
	default:
		return false
	}
}

// Price is a positive monetary amount with its ISO 4217 currency code.
type Price struct {
	// Amount is the numeric price value (always > 0 for a valid offer)
	Amount float64 `json:"amount"`

	// Currency is the ISO 4217 currency code (e.g., "USD")
	Currency string `json:"currency"`
}

// Offer is the closed sum type over the four bookable categories.
// Concrete implementations are FlightOffer, HotelOffer, CarOffer, and
// ActivityOffer; no other implementations exist.
type Offer interface {
	// OfferID returns the identifier, unique within a search session.
	OfferID() string

	// OfferCategory returns the category tag for this offer.
	OfferCategory() Category

	// UnitPrice returns the per-unit price (per itinerary, per night,
	// per day, or per person depending on category).
	UnitPrice() Price

	// QualityScore returns the category-dependent quality measure used by
	// the rating sort key (on-time performance for flights, star rating
	// for hotels). Higher is better.
	QualityScore() float64

	// Validate checks the offer's internal consistency invariants.
	Validate() error
}

// Segment is one flown leg of a multi-leg flight itinerary.
type Segment struct {
	// DepartureAirport is the IATA code of the departure airport
	DepartureAirport string `json:"departureAirport"`

	// ArrivalAirport is the IATA code of the arrival airport
	ArrivalAirport string `json:"arrivalAirport"`

	// DepartureTime is the scheduled local departure date and time
	DepartureTime time.Time `json:"departureTime"`

	// ArrivalTime is the scheduled local arrival date and time
	ArrivalTime time.Time `json:"arrivalTime"`

	// CarrierCode is the IATA airline code (e.g., "GA")
	CarrierCode string `json:"carrierCode"`

	// FlightNumber is the carrier's flight number (e.g., "GA-417")
	FlightNumber string `json:"flightNumber"`

	// DurationMinutes is the flown duration of this leg
	DurationMinutes int `json:"durationMinutes"`
}

// FlightOffer is a priced, bookable flight itinerary.
type FlightOffer struct {
	// ID is the offer identifier, unique within a search session
	ID string `json:"id"`

	// Segments is the ordered list of flown legs. Stop count is always
	// derived from this list (len-1) and never stored independently.
	Segments []Segment `json:"segments"`

	// CabinClass is the travel class (economy, business, first)
	CabinClass string `json:"cabinClass"`

	// Refundable indicates whether the fare is refundable
	Refundable bool `json:"refundable"`

	// SeatsRemaining is the number of seats left at this fare (>= 0)
	SeatsRemaining int `json:"seatsRemaining"`

	// TotalDurationMinutes is the full itinerary duration including
	// layovers. Always >= the sum of segment durations.
	TotalDurationMinutes int `json:"totalDurationMinutes"`

	// Price is the per-passenger itinerary price
	Price Price `json:"price"`

	// OnTimeScore is the carrier's on-time performance in [0, 1]
	OnTimeScore float64 `json:"onTimeScore"`
}

// OfferID implements Offer.
func (f FlightOffer) OfferID() string { return f.ID }

// OfferCategory implements Offer.
func (f FlightOffer) OfferCategory() Category { return CategoryFlight }

// UnitPrice implements Offer.
func (f FlightOffer) UnitPrice() Price { return f.Price }

// QualityScore implements Offer.
func (f FlightOffer) QualityScore() float64 { return f.OnTimeScore }

// Stops returns the number of stops, derived from the segment list.
// A direct flight has 0 stops.
func (f FlightOffer) Stops() int {
	if len(f.Segments) == 0 {
		return 0
	}
	return len(f.Segments) - 1
}

// DepartureTime returns the departure time of the first segment.
func (f FlightOffer) DepartureTime() time.Time {
	if len(f.Segments) == 0 {
		return time.Time{}
	}
	return f.Segments[0].DepartureTime
}

// ArrivalTime returns the arrival time of the last segment.
func (f FlightOffer) ArrivalTime() time.Time {
	if len(f.Segments) == 0 {
		return time.Time{}
	}
	return f.Segments[len(f.Segments)-1].ArrivalTime
}

// Validate checks the flight offer's consistency invariants:
// positive price, at least one segment, non-negative seats, connected
// segments, and total duration covering all segment durations.
func (f FlightOffer) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("%w: flight offer id is required", ErrInvalidOffer)
	}
	if f.Price.Amount <= 0 {
		return fmt.Errorf("%w: flight %s price must be positive", ErrInvalidOffer, f.ID)
	}
	if len(f.Segments) == 0 {
		return fmt.Errorf("%w: flight %s has no segments", ErrInvalidOffer, f.ID)
	}
	if f.SeatsRemaining < 0 {
		return fmt.Errorf("%w: flight %s seats remaining is negative", ErrInvalidOffer, f.ID)
	}

	segmentMinutes := 0
	for i, seg := range f.Segments {
		if seg.DurationMinutes < 0 {
			return fmt.Errorf("%w: flight %s segment %d has negative duration", ErrInvalidOffer, f.ID, i)
		}
		segmentMinutes += seg.DurationMinutes

		// Connected itinerary: each leg departs where the previous arrived
		if i > 0 && seg.DepartureAirport != f.Segments[i-1].ArrivalAirport {
			return fmt.Errorf("%w: flight %s segment %d departs from %s but previous leg arrived at %s",
				ErrInvalidOffer, f.ID, i, seg.DepartureAirport, f.Segments[i-1].ArrivalAirport)
		}
	}

	// Itinerary duration accounts for layovers, so it can never be shorter
	// than the flown time.
	if f.TotalDurationMinutes < segmentMinutes {
		return fmt.Errorf("%w: flight %s total duration %dm is less than segment sum %dm",
			ErrInvalidOffer, f.ID, f.TotalDurationMinutes, segmentMinutes)
	}

	return nil
}

// HotelOffer is a priced, bookable hotel stay.
type HotelOffer struct {
	// ID is the offer identifier, unique within a search session
	ID string `json:"id"`

	// Name is the property name
	Name string `json:"name"`

	// NightlyPrice is the price per room-night
	NightlyPrice Price `json:"nightlyPrice"`

	// Nights is the length of the stay in nights
	Nights int `json:"nights"`

	// StarRating is the property rating in [0, 5]
	StarRating float64 `json:"starRating"`

	// Amenities is the set of amenity tags (e.g., "wifi", "pool")
	Amenities []string `json:"amenities,omitempty"`

	// CheckIn is the stay start date
	CheckIn time.Time `json:"checkIn"`

	// CheckOut is the stay end date
	CheckOut time.Time `json:"checkOut"`
}

// OfferID implements Offer.
func (h HotelOffer) OfferID() string { return h.ID }

// OfferCategory implements Offer.
func (h HotelOffer) OfferCategory() Category { return CategoryHotel }

// UnitPrice implements Offer.
func (h HotelOffer) UnitPrice() Price { return h.NightlyPrice }

// QualityScore implements Offer.
func (h HotelOffer) QualityScore() float64 { return h.StarRating }

// Validate checks the hotel offer's consistency invariants.
func (h HotelOffer) Validate() error {
	if h.ID == "" {
		return fmt.Errorf("%w: hotel offer id is required", ErrInvalidOffer)
	}
	if h.NightlyPrice.Amount <= 0 {
		return fmt.Errorf("%w: hotel %s nightly price must be positive", ErrInvalidOffer, h.ID)
	}
	if h.Nights < 1 {
		return fmt.Errorf("%w: hotel %s must cover at least one night", ErrInvalidOffer, h.ID)
	}
	if h.StarRating < 0 || h.StarRating > 5 {
		return fmt.Errorf("%w: hotel %s star rating %.1f is outside [0,5]", ErrInvalidOffer, h.ID, h.StarRating)
	}
	return nil
}

// CarOffer is a priced, bookable car rental.
type CarOffer struct {
	// ID is the offer identifier, unique within a search session
	ID string `json:"id"`

	// Vendor is the rental company name
	Vendor string `json:"vendor"`

	// DailyPrice is the price per rental day
	DailyPrice Price `json:"dailyPrice"`

	// Days is the rental length in days
	Days int `json:"days"`

	// CategoryTag describes the vehicle class (e.g., "compact", "suv")
	CategoryTag string `json:"categoryTag"`

	// Capacity is the passenger capacity
	Capacity int `json:"capacity"`
}

// OfferID implements Offer.
func (c CarOffer) OfferID() string { return c.ID }

// OfferCategory implements Offer.
func (c CarOffer) OfferCategory() Category { return CategoryCar }

// UnitPrice implements Offer.
func (c CarOffer) UnitPrice() Price { return c.DailyPrice }

// QualityScore implements Offer.
func (c CarOffer) QualityScore() float64 { return float64(c.Capacity) }

// Validate checks the car offer's consistency invariants.
func (c CarOffer) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: car offer id is required", ErrInvalidOffer)
	}
	if c.DailyPrice.Amount <= 0 {
		return fmt.Errorf("%w: car %s daily price must be positive", ErrInvalidOffer, c.ID)
	}
	if c.Days < 1 {
		return fmt.Errorf("%w: car %s must cover at least one rental day", ErrInvalidOffer, c.ID)
	}
	if c.Capacity < 1 {
		return fmt.Errorf("%w: car %s capacity must be at least 1", ErrInvalidOffer, c.ID)
	}
	return nil
}

// ActivityOffer is a priced, bookable activity slot.
type ActivityOffer struct {
	// ID is the offer identifier, unique within a search session
	ID string `json:"id"`

	// Name is the activity name
	Name string `json:"name"`

	// PerPersonPrice is the price per participant
	PerPersonPrice Price `json:"perPersonPrice"`

	// Participants is the number of booked participants
	Participants int `json:"participants"`

	// MinParticipants is the minimum group size for the slot
	MinParticipants int `json:"minParticipants"`

	// MaxParticipants is the maximum group size for the slot
	MaxParticipants int `json:"maxParticipants"`

	// Rating is the activity rating in [0, 5]
	Rating float64 `json:"rating"`

	// Date is the activity date
	Date time.Time `json:"date"`
}

// OfferID implements Offer.
func (a ActivityOffer) OfferID() string { return a.ID }

// OfferCategory implements Offer.
func (a ActivityOffer) OfferCategory() Category { return CategoryActivity }

// UnitPrice implements Offer.
func (a ActivityOffer) UnitPrice() Price { return a.PerPersonPrice }

// QualityScore implements Offer.
func (a ActivityOffer) QualityScore() float64 { return a.Rating }

// Validate checks the activity offer's consistency invariants.
func (a ActivityOffer) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: activity offer id is required", ErrInvalidOffer)
	}
	if a.PerPersonPrice.Amount <= 0 {
		return fmt.Errorf("%w: activity %s per-person price must be positive", ErrInvalidOffer, a.ID)
	}
	if a.MinParticipants < 1 || a.MaxParticipants < a.MinParticipants {
		return fmt.Errorf("%w: activity %s participant bounds [%d,%d] are invalid",
			ErrInvalidOffer, a.ID, a.MinParticipants, a.MaxParticipants)
	}
	if a.Participants < a.MinParticipants || a.Participants > a.MaxParticipants {
		return fmt.Errorf("%w: activity %s participants %d outside bounds [%d,%d]",
			ErrInvalidOffer, a.ID, a.Participants, a.MinParticipants, a.MaxParticipants)
	}
	return nil
}

// Compile-time checks that all categories implement the Offer sum type.
var (
	_ Offer = FlightOffer{}
	_ Offer = HotelOffer{}
	_ Offer = CarOffer{}
	_ Offer = ActivityOffer{}
)
