package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripstack/travel-booking-engine/internal/domain"
)

// TestComputeQuote verifies the subtotal, tax, and total derivation.
func TestComputeQuote(t *testing.T) {
	items := []domain.BookingSummaryItem{
		{Category: domain.CategoryFlight, UnitPrice: 120.50, Quantity: 2, Currency: "USD"},
		{Category: domain.CategoryHotel, UnitPrice: 89.99, Quantity: 3, Currency: "USD"},
	}

	quote := ComputeQuote(items)

	// 241.00 + 269.97 = 510.97; tax = 38.32 (half-up from 38.32275)
	assert.Equal(t, 510.97, quote.Subtotal)
	assert.Equal(t, 38.32, quote.Taxes)
	assert.Equal(t, 549.29, quote.Total)
	assert.Equal(t, "USD", quote.Currency)
}

// TestComputeQuote_SingleItem covers the quantity-one path.
func TestComputeQuote_SingleItem(t *testing.T) {
	items := []domain.BookingSummaryItem{
		{Category: domain.CategoryFlight, UnitPrice: 200, Quantity: 1, Currency: "USD"},
	}

	quote := ComputeQuote(items)

	assert.Equal(t, 200.00, quote.Subtotal)
	assert.Equal(t, 15.00, quote.Taxes)
	assert.Equal(t, 215.00, quote.Total)
}

// TestComputeQuote_FlightPlusHotel covers a bundled flight and multi-night
// hotel stay.
func TestComputeQuote_FlightPlusHotel(t *testing.T) {
	items := []domain.BookingSummaryItem{
		{Category: domain.CategoryFlight, UnitPrice: 450, Quantity: 1, Currency: "USD"},
		{Category: domain.CategoryHotel, UnitPrice: 120, Quantity: 3, Currency: "USD"},
	}

	quote := ComputeQuote(items)

	assert.Equal(t, 810.00, quote.Subtotal)
	assert.Equal(t, 60.75, quote.Taxes)
	assert.Equal(t, 870.75, quote.Total)
}

// TestComputeQuote_Deterministic verifies the same inputs always produce the
// same quote; payment amount verification depends on this.
func TestComputeQuote_Deterministic(t *testing.T) {
	items := []domain.BookingSummaryItem{
		{Category: domain.CategoryFlight, UnitPrice: 137.41, Quantity: 3, Currency: "USD"},
		{Category: domain.CategoryCar, UnitPrice: 45.10, Quantity: 4, Currency: "USD"},
	}

	first := ComputeQuote(items)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ComputeQuote(items))
	}
}

// TestComputeQuote_Empty yields an all-zero quote.
func TestComputeQuote_Empty(t *testing.T) {
	quote := ComputeQuote(nil)

	assert.Zero(t, quote.Subtotal)
	assert.Zero(t, quote.Taxes)
	assert.Zero(t, quote.Total)
	assert.Empty(t, quote.Currency)
}

// TestRoundHalfUp pins the rounding helper on boundary values.
func TestRoundHalfUp(t *testing.T) {
	// Tie inputs use exact binary fractions so the half-up branch is what
	// is actually exercised.
	tests := []struct {
		input    float64
		expected float64
	}{
		{1.004, 1.00},
		{0.125, 0.13},
		{1.125, 1.13},
		{1.006, 1.01},
		{0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, roundHalfUp(tt.input))
	}
}
