package domain

import (
	"strings"
	"time"
)

// PaymentRequest is the outbound payload for a payment initiation. The
// idempotency key is always the booking reference so a retried submission is
// recognized by the gateway as the same charge.
type PaymentRequest struct {
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	IdempotencyKey string  `json:"idempotencyKey"`
	CustomerName   string  `json:"customerName"`
	CustomerEmail  string  `json:"customerEmail"`
	Phone          string  `json:"phone"`
	Description    string  `json:"description"`
	Method         string  `json:"method"`
}

// PaymentResult is the normalized gateway response.
type PaymentResult struct {
	TransactionID string        `json:"transactionId"`
	Status        PaymentStatus `json:"status"`

	// Amount is the amount the gateway confirms it settled. The checkout
	// rejects the transition if this diverges from the computed total.
	Amount float64 `json:"amount"`

	Currency    string    `json:"currency"`
	PaymentDate time.Time `json:"paymentDate"`

	// Instrument is masked display info for the charged instrument
	Instrument string `json:"instrument,omitempty"`
}

// NormalizePaymentStatus maps gateway-specific status vocabularies onto the
// normalized {success, failed, pending} set. Unrecognized values are treated
// as failed, never as success.
func NormalizePaymentStatus(raw string) PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "success", "succeeded", "approved", "paid", "captured", "completed":
		return PaymentSuccess
	case "pending", "processing", "in_review", "awaiting":
		return PaymentPending
	default:
		return PaymentFailed
	}
}
