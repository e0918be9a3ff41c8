package usecase

import (
	"math"

	"github.com/tripstack/travel-booking-engine/internal/domain"
)

// TaxRate is the fixed tax rate applied to every booking subtotal.
const TaxRate = 0.075

// Quote is the derived pricing breakdown for a set of summary items.
// It is recomputed from the items on every call and never cached; payment
// amount verification depends on this determinism.
type Quote struct {
	Subtotal float64 `json:"subtotal"`
	Taxes    float64 `json:"taxes"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

// ComputeQuote derives subtotal, taxes, and total from the given items.
//
//	subtotal = sum(unitPrice * quantity)
//	taxes    = round(subtotal * TaxRate, 2)   (half-up)
//	total    = subtotal + taxes
//
// The same inputs always yield the same outputs.
func ComputeQuote(items []domain.BookingSummaryItem) Quote {
	var subtotal float64
	var currency string

	for _, item := range items {
		subtotal += item.UnitPrice * float64(item.Quantity)
		if currency == "" {
			currency = item.Currency
		}
	}

	subtotal = roundHalfUp(subtotal)
	taxes := roundHalfUp(subtotal * TaxRate)
	total := roundHalfUp(subtotal + taxes)

	return Quote{
		Subtotal: subtotal,
		Taxes:    taxes,
		Total:    total,
		Currency: currency,
	}
}

// roundHalfUp rounds to 2 decimal places, half-up.
func roundHalfUp(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
