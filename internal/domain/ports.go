package domain

import "context"

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=domain

// OfferCatalog produces candidate offers for a search request. In production
// this fronts a real inventory backend; the in-repo implementation is a
// deterministic stand-in that still honors the normalization contract.
type OfferCatalog interface {
	// Search returns internally consistent offers for the request.
	// Every returned offer passes Validate().
	Search(ctx context.Context, req SearchRequest) ([]Offer, error)
}

// PaymentGateway is the external payment processor boundary. Calls are
// fallible and non-transactional; idempotency is carried by the request's
// IdempotencyKey, never minted per attempt.
type PaymentGateway interface {
	// Authorize submits one payment initiation and returns the normalized
	// outcome. Transport failures are wrapped as ErrPaymentTransport and
	// are safe to retry with the same key.
	Authorize(ctx context.Context, req PaymentRequest) (PaymentResult, error)
}

// BookingStore is the persistence collaborator. Writes are fire-and-forget
// from checkout's correctness standpoint: a store failure is logged and must
// not block a user-visible confirmation when payment itself succeeded.
type BookingStore interface {
	// SaveDraft upserts the draft keyed by its booking reference.
	SaveDraft(ctx context.Context, draft BookingDraft) error

	// SavePayment records payment details keyed by transaction id.
	SavePayment(ctx context.Context, payment PaymentDetails) error
}
