package domain

import "time"

// ContactInfo is the lead contact for a booking.
type ContactInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
}

// PassengerType classifies a traveler for fare and validation purposes.
type PassengerType string

// Passenger types.
const (
	PassengerAdult  PassengerType = "adult"
	PassengerChild  PassengerType = "child"
	PassengerInfant PassengerType = "infant"
)

// IsValid checks if the passenger type is a known value.
func (p PassengerType) IsValid() bool {
	switch p {
	case PassengerAdult, PassengerChild, PassengerInfant:
		return true
	default:
		return false
	}
}

// Passenger is one traveler on the booking. The first passenger is always
// the lead passenger and its type is fixed to adult.
type Passenger struct {
	Type           PassengerType `json:"type"`
	Title          string        `json:"title"`
	FirstName      string        `json:"firstName"`
	LastName       string        `json:"lastName"`
	DateOfBirth    time.Time     `json:"dateOfBirth"`
	Nationality    string        `json:"nationality"`
	DocumentNumber string        `json:"documentNumber"`
	DocumentExpiry time.Time     `json:"documentExpiry"`
}

// BookingSummaryItem is a selected offer snapshotted into the draft at
// checkout start. Prices are frozen per unit; totals are always recomputed
// from these items, never cached.
type BookingSummaryItem struct {
	// OfferID is the id of the snapshotted offer
	OfferID string `json:"offerId"`

	// Category is the offer category
	Category Category `json:"category"`

	// Title is a short display name (e.g., "CGK -> DPS" or a hotel name)
	Title string `json:"title"`

	// Description is a longer display line
	Description string `json:"description,omitempty"`

	// UnitPrice is the frozen per-unit price
	UnitPrice float64 `json:"unitPrice"`

	// Currency is the ISO 4217 currency code
	Currency string `json:"currency"`

	// Quantity is the unit count (travelers, nights, days, participants)
	Quantity int `json:"quantity"`

	// StartDate and EndDate bound the service period where applicable
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// PaymentStatus is the normalized outcome of a payment attempt.
type PaymentStatus string

// Normalized payment statuses. Gateway-specific vocabularies are mapped onto
// these three values at the adapter boundary.
const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// PaymentDetails records the outcome of the payment step. Amount always
// equals the computed total at the moment payment was initiated; the
// checkout verifies this before accepting the transition.
type PaymentDetails struct {
	TransactionID string        `json:"transactionId"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Status        PaymentStatus `json:"status"`
	Method        string        `json:"method"`
	Timestamp     time.Time     `json:"timestamp"`

	// MaskedInstrument is optional display info (e.g., "**** 1234")
	MaskedInstrument string `json:"maskedInstrument,omitempty"`
}

// BookingDraft is the accumulating, not-yet-finalized record of a checkout
// session. Reference is assigned exactly once at draft creation and never
// regenerated; it doubles as the payment idempotency key.
type BookingDraft struct {
	// Reference is the immutable booking reference
	Reference string `json:"reference"`

	// CreatedAt is the draft creation time
	CreatedAt time.Time `json:"createdAt"`

	// Contact is set when the contact step completes
	Contact *ContactInfo `json:"contact,omitempty"`

	// Passengers is set when the passengers step completes
	Passengers []Passenger `json:"passengers,omitempty"`

	// Items are the selected offers snapshotted at checkout start
	Items []BookingSummaryItem `json:"items"`

	// Payment is set when the payment step completes
	Payment *PaymentDetails `json:"payment,omitempty"`
}

// Currency returns the draft's currency, taken from the first item.
func (d *BookingDraft) Currency() string {
	if len(d.Items) == 0 {
		return ""
	}
	return d.Items[0].Currency
}
