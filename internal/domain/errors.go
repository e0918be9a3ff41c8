package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the booking engine. Callers match with errors.Is and
// map them to user-facing responses at the handler boundary.
var (
	// ErrInvalidRequest indicates a search request failed domain validation.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidOffer indicates an offer violated a consistency invariant
	// and was rejected by normalization.
	ErrInvalidOffer = errors.New("invalid offer")

	// ErrUnknownOffer indicates a selection referenced an offer id outside
	// the active result set (e.g., stale reference after a refresh).
	ErrUnknownOffer = errors.New("unknown offer")

	// ErrNoSelection indicates checkout was entered with an empty selection.
	ErrNoSelection = errors.New("no selection")

	// ErrInvalidTransition indicates a checkout step was submitted out of
	// order, or a terminal state was re-entered.
	ErrInvalidTransition = errors.New("invalid checkout transition")

	// ErrSessionNotFound indicates the booking session does not exist or
	// has expired.
	ErrSessionNotFound = errors.New("session not found")

	// ErrPaymentTransport indicates a network or timeout failure talking
	// to the payment gateway. Retryable with the same idempotency key.
	ErrPaymentTransport = errors.New("payment transport failure")

	// ErrPaymentDeclined indicates the gateway explicitly reported failure.
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrPaymentPending indicates the gateway reported a non-final status;
	// the transition is treated as failed, never as success.
	ErrPaymentPending = errors.New("payment pending")

	// ErrPaymentInFlight indicates a payment submission is already
	// outstanding for this draft.
	ErrPaymentInFlight = errors.New("payment submission already in flight")

	// ErrPricingMismatch indicates the amount confirmed by the gateway does
	// not equal the currently computed total. Fatal to the transition.
	ErrPricingMismatch = errors.New("pricing mismatch")
)

// NewUnknownOfferError wraps ErrUnknownOffer with the offending id.
func NewUnknownOfferError(offerID string) error {
	return fmt.Errorf("%w: offer %q is not in the active result set", ErrUnknownOffer, offerID)
}

// NewPricingMismatchError wraps ErrPricingMismatch with both amounts.
func NewPricingMismatchError(expected, got float64) error {
	return fmt.Errorf("%w: expected %.2f, gateway confirmed %.2f", ErrPricingMismatch, expected, got)
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors accumulates field-level validation failures for one step.
// A step submission either passes with no field errors or leaves the
// checkout state untouched.
type FieldErrors struct {
	Errors []FieldError `json:"errors"`
}

// Error implements the error interface.
func (v *FieldErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}
	return v.Errors[0].Field + ": " + v.Errors[0].Message
}

// Add appends a field-level failure.
func (v *FieldErrors) Add(field, message string) {
	v.Errors = append(v.Errors, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any failures were recorded.
func (v *FieldErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// ToMap converts the failures to a field -> message map for API responses.
func (v *FieldErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v.Errors))
	for _, e := range v.Errors {
		result[e.Field] = e.Message
	}
	return result
}
