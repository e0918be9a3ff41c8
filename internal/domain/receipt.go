package domain

import "time"

// ReceiptLine is one itemized line on a receipt.
type ReceiptLine struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    Category `json:"category"`
	UnitPrice   float64  `json:"unitPrice"`
	Quantity    int      `json:"quantity"`
	LineTotal   float64  `json:"lineTotal"`
}

// ReceiptCustomer is the customer block on a receipt.
type ReceiptCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Receipt is an immutable, re-derivable summary of a completed, paid
// booking. It is a view over the draft and payment, not a second source of
// truth: subtotal, taxes, and total are always recomputed from the itemized
// lines at build time.
type Receipt struct {
	// ReceiptNumber lives in its own identifier namespace ("RCP-..."),
	// distinct from the booking reference.
	ReceiptNumber string `json:"receiptNumber"`

	// BookingReference links the receipt back to the booking
	BookingReference string `json:"bookingReference"`

	// IssueDate is when the receipt was generated
	IssueDate time.Time `json:"issueDate"`

	Customer ReceiptCustomer `json:"customer"`
	Lines    []ReceiptLine   `json:"lines"`

	Subtotal float64 `json:"subtotal"`
	Taxes    float64 `json:"taxes"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`

	// TransactionID is the settled payment transaction
	TransactionID string `json:"transactionId"`

	// PaymentMethod and Instrument describe how the booking was paid
	PaymentMethod string `json:"paymentMethod"`
	Instrument    string `json:"instrument,omitempty"`
}
