// Package usecase provides the business logic for offer search, selection,
// pricing, and the checkout pipeline.
package usecase

import (
	"github.com/tripstack/travel-booking-engine/internal/domain"
)

// ApplyFilters applies the given criteria to a candidate offer set.
// It returns a new slice containing only offers that satisfy every active
// predicate; the result is always a subset of the input.
//
// Behavior:
//   - Returns the original slice if criteria is nil (no filtering)
//   - Predicates are conjunctive (price band AND stops AND carriers AND
//     departure window)
//   - Flight-only predicates are bypassed for non-flight categories
//   - An empty carrier set means no restriction; a non-nil stops list is an
//     explicit membership constraint
//   - Does NOT mutate the original slice
//   - Relative input order is preserved
func ApplyFilters(offers []domain.Offer, criteria *domain.FilterCriteria) []domain.Offer {
	if criteria == nil {
		return offers
	}

	result := make([]domain.Offer, 0, len(offers))
	for _, o := range offers {
		if criteria.Matches(o) {
			result = append(result, o)
		}
	}
	return result
}

// FilterByCategory returns only the offers of the given category,
// preserving order.
func FilterByCategory(offers []domain.Offer, category domain.Category) []domain.Offer {
	result := make([]domain.Offer, 0, len(offers))
	for _, o := range offers {
		if o.OfferCategory() == category {
			result = append(result, o)
		}
	}
	return result
}

// FindOffer returns the offer with the given id, if present.
func FindOffer(offers []domain.Offer, offerID string) (domain.Offer, bool) {
	for _, o := range offers {
		if o.OfferID() == offerID {
			return o, true
		}
	}
	return nil, false
}
