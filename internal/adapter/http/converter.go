package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/tripstack/travel-booking-engine/internal/domain"
)

// ToDomainSearchRequest converts the HTTP search request to its domain form.
func ToDomainSearchRequest(req *SearchOffersRequest) domain.SearchRequest {
	return domain.SearchRequest{
		Origin:          req.Origin,
		Destination:     req.Destination,
		DepartureDate:   req.DepartureDate,
		ReturnDate:      req.ReturnDate,
		TripType:        domain.TripType(strings.ToLower(req.TripType)),
		Adults:          req.Adults,
		Children:        req.Children,
		Infants:         req.Infants,
		CabinClass:      strings.ToLower(req.CabinClass),
		IncludeHotel:    req.IncludeHotel,
		IncludeCar:      req.IncludeCar,
		IncludeActivity: req.IncludeActivity,
	}
}

// ToDomainCriteria converts filter and sort DTOs to domain criteria.
// A nil filter DTO yields criteria that match everything.
func ToDomainCriteria(filters *FilterDTO, sortBy string) *domain.FilterCriteria {
	criteria := &domain.FilterCriteria{
		SortBy: domain.ParseSortOption(sortBy),
	}

	if filters == nil {
		return criteria
	}

	if filters.PriceRange != nil {
		criteria.PriceBand = &domain.PriceRange{
			Min: filters.PriceRange.Min,
			Max: filters.PriceRange.Max,
		}
	}
	if filters.Stops != nil {
		criteria.Stops = append([]int(nil), filters.Stops...)
	}
	if len(filters.Carriers) > 0 {
		criteria.Carriers = append([]string(nil), filters.Carriers...)
	}
	if filters.DepartureWindow != nil {
		criteria.DepartureWindow = &domain.HourRange{
			Start: filters.DepartureWindow.StartHour,
			End:   filters.DepartureWindow.EndHour,
		}
	}

	return criteria
}

// ToDomainContact converts the contact step submission to its domain form.
func ToDomainContact(req *ContactRequest) domain.ContactInfo {
	return domain.ContactInfo{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Country:   strings.TrimSpace(req.Country),
	}
}

// ToDomainPassengers converts the passengers step submission, reporting date
// parse failures as field errors. Deeper semantic validation (counts, lead
// passenger, expiry in the future) belongs to the checkout.
func ToDomainPassengers(dtos []PassengerDTO) ([]domain.Passenger, *ValidationErrors) {
	errs := &ValidationErrors{}
	passengers := make([]domain.Passenger, 0, len(dtos))

	for i, dto := range dtos {
		field := func(name string) string { return fmt.Sprintf("passengers[%d].%s", i, name) }

		p := domain.Passenger{
			Type:           domain.PassengerType(strings.ToLower(dto.Type)),
			Title:          strings.TrimSpace(dto.Title),
			FirstName:      strings.TrimSpace(dto.FirstName),
			LastName:       strings.TrimSpace(dto.LastName),
			Nationality:    strings.ToUpper(strings.TrimSpace(dto.Nationality)),
			DocumentNumber: strings.TrimSpace(dto.DocumentNumber),
		}

		if dto.DateOfBirth != "" {
			dob, err := time.Parse("2006-01-02", dto.DateOfBirth)
			if err != nil {
				errs.Add(field("dateOfBirth"), "dateOfBirth must be a valid date in YYYY-MM-DD format")
			} else {
				p.DateOfBirth = dob
			}
		}

		if dto.DocumentExpiry != "" {
			expiry, err := time.Parse("2006-01-02", dto.DocumentExpiry)
			if err != nil {
				errs.Add(field("documentExpiry"), "documentExpiry must be a valid date in YYYY-MM-DD format")
			} else {
				p.DocumentExpiry = expiry
			}
		}

		passengers = append(passengers, p)
	}

	if errs.HasErrors() {
		return nil, errs
	}
	return passengers, nil
}
