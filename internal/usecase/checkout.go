package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tripstack/travel-booking-engine/internal/domain"
	"github.com/tripstack/travel-booking-engine/internal/infrastructure/logger"
	"github.com/tripstack/travel-booking-engine/internal/infrastructure/timeutil"
)

// Step identifies the current stage of the checkout pipeline.
type Step string

// Checkout steps, strictly linear. Confirmation is terminal: a new booking
// requires a new Checkout with a freshly generated booking reference.
const (
	StepContact      Step = "contact"
	StepPassengers   Step = "passengers"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

// PassengerCounts is the traveler mix declared at search time. The
// passengers step must match it exactly.
type PassengerCounts struct {
	Adults   int
	Children int
	Infants  int
}

// Total returns the total declared passenger count.
func (p PassengerCounts) Total() int {
	return p.Adults + p.Children + p.Infants
}

// Checkout drives the four-stage booking flow
// (contact -> passengers -> payment -> confirmation), holding the
// accumulating draft and enforcing one-way forward progress gated by
// per-step validation. Backward navigation is allowed between completed
// steps and does not discard downstream data until it is resubmitted.
//
// A Checkout belongs to exactly one booking session and is driven by that
// session's user actions; the only asynchronous boundary is the payment
// gateway call, during which the machine suspends in the Payment step with
// an outstanding-submission guard.
type Checkout struct {
	mu sync.Mutex

	step    Step
	draft   domain.BookingDraft
	counts  PassengerCounts
	gateway domain.PaymentGateway
	store   domain.BookingStore
	clock   timeutil.Clock
	log     *logger.Logger

	// paymentInFlight guards against duplicate concurrent submissions:
	// a submit is rejected while one is outstanding.
	paymentInFlight bool
}

// NewCheckout creates a checkout for the given snapshotted items.
// Returns ErrNoSelection when the item set is empty: the flow must not start
// without at least one selected offer. The booking reference is generated
// here, exactly once, and never regenerated.
func NewCheckout(
	items []domain.BookingSummaryItem,
	counts PassengerCounts,
	gateway domain.PaymentGateway,
	store domain.BookingStore,
	clock timeutil.Clock,
	log *logger.Logger,
) (*Checkout, error) {
	if len(items) == 0 {
		return nil, domain.ErrNoSelection
	}
	if log == nil {
		log = logger.Nop()
	}

	snapshot := make([]domain.BookingSummaryItem, len(items))
	copy(snapshot, items)

	return &Checkout{
		step: StepContact,
		draft: domain.BookingDraft{
			Reference: newBookingReference(),
			CreatedAt: clock.Now(),
			Items:     snapshot,
		},
		counts:  counts,
		gateway: gateway,
		store:   store,
		clock:   clock,
		log:     log,
	}, nil
}

// newBookingReference generates a booking reference ("BKG-XXXXXXXX").
// It doubles as the payment idempotency key for the draft's lifetime.
func newBookingReference() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "BKG-" + raw[:8]
}

// Step returns the current checkout step.
func (c *Checkout) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Draft returns a copy of the accumulated booking draft.
func (c *Checkout) Draft() domain.BookingDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draftCopy()
}

func (c *Checkout) draftCopy() domain.BookingDraft {
	d := c.draft
	d.Items = append([]domain.BookingSummaryItem(nil), c.draft.Items...)
	d.Passengers = append([]domain.Passenger(nil), c.draft.Passengers...)
	if c.draft.Contact != nil {
		contact := *c.draft.Contact
		d.Contact = &contact
	}
	if c.draft.Payment != nil {
		payment := *c.draft.Payment
		d.Payment = &payment
	}
	return d
}

// Quote recomputes the pricing breakdown from the snapshotted items.
func (c *Checkout) Quote() Quote {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ComputeQuote(c.draft.Items)
}

// SubmitContact validates and freezes the contact info, advancing
// Contact -> Passengers. On a validation failure the machine stays in place
// and the draft is not touched.
func (c *Checkout) SubmitContact(ctx context.Context, info domain.ContactInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepContact {
		return fmt.Errorf("%w: contact step is not active (current: %s)", domain.ErrInvalidTransition, c.step)
	}

	if errs := validateContact(info); errs.HasErrors() {
		return errs
	}

	c.draft.Contact = &info
	c.step = StepPassengers
	c.persistDraft(ctx)
	return nil
}

// SubmitPassengers validates and freezes the passenger list, advancing
// Passengers -> Contact's successor. All-or-nothing: any field failure
// leaves the previously frozen list (if any) in place.
func (c *Checkout) SubmitPassengers(ctx context.Context, passengers []domain.Passenger) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepPassengers {
		return fmt.Errorf("%w: passengers step is not active (current: %s)", domain.ErrInvalidTransition, c.step)
	}

	if errs := c.validatePassengers(passengers); errs.HasErrors() {
		return errs
	}

	c.draft.Passengers = append([]domain.Passenger(nil), passengers...)
	c.step = StepPayment
	c.persistDraft(ctx)
	return nil
}

// SubmitPayment initiates exactly one payment for the current total and, on
// an explicit success from the gateway, advances Payment -> Confirmation.
//
// Guarantees:
//   - The idempotency key is always the booking reference; a retry after a
//     transport failure reuses it and the same amount, never a fresh key.
//   - Only one submission may be outstanding at a time (ErrPaymentInFlight).
//   - A non-success gateway status fails the transition (declined/pending),
//     never "pending forever" and never a client-side assumed success.
//   - The gateway-confirmed amount must equal the recomputed current total
//     exactly, otherwise the transition is rejected with ErrPricingMismatch.
func (c *Checkout) SubmitPayment(ctx context.Context, method string) (domain.PaymentDetails, error) {
	c.mu.Lock()

	if c.step != StepPayment {
		c.mu.Unlock()
		return domain.PaymentDetails{}, fmt.Errorf("%w: payment step is not active (current: %s)", domain.ErrInvalidTransition, c.step)
	}
	if c.paymentInFlight {
		c.mu.Unlock()
		return domain.PaymentDetails{}, domain.ErrPaymentInFlight
	}
	if method == "" {
		method = "card"
	}

	quote := ComputeQuote(c.draft.Items)
	req := domain.PaymentRequest{
		Amount:         quote.Total,
		Currency:       quote.Currency,
		IdempotencyKey: c.draft.Reference,
		CustomerName:   c.draft.Contact.FirstName + " " + c.draft.Contact.LastName,
		CustomerEmail:  c.draft.Contact.Email,
		Phone:          c.draft.Contact.Phone,
		Description:    fmt.Sprintf("Booking %s (%d items)", c.draft.Reference, len(c.draft.Items)),
		Method:         method,
	}

	c.paymentInFlight = true
	c.mu.Unlock()

	// The gateway call happens without the lock so the machine can report
	// its awaiting state; the in-flight flag blocks duplicate submissions.
	result, err := c.gateway.Authorize(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.paymentInFlight = false

	if err != nil {
		if errors.Is(err, domain.ErrPaymentTransport) {
			// Stay in Payment; the retry reuses the same reference/key.
			c.log.Warn().
				Str("booking_ref", c.draft.Reference).
				Err(err).
				Msg("Payment transport failure, submission retryable")
			return domain.PaymentDetails{}, err
		}
		return domain.PaymentDetails{}, err
	}

	switch result.Status {
	case domain.PaymentSuccess:
		// fall through to amount verification
	case domain.PaymentPending:
		return domain.PaymentDetails{}, fmt.Errorf("%w: gateway reported status pending for %s", domain.ErrPaymentPending, c.draft.Reference)
	default:
		return domain.PaymentDetails{}, fmt.Errorf("%w: gateway reported status %s for %s", domain.ErrPaymentDeclined, result.Status, c.draft.Reference)
	}

	// Recompute at response time: if pricing changed between initiation and
	// confirmation the payment is rejected, not silently accepted.
	current := ComputeQuote(c.draft.Items)
	if result.Amount != current.Total {
		c.log.Error().
			Str("booking_ref", c.draft.Reference).
			Float64("confirmed", result.Amount).
			Float64("computed", current.Total).
			Msg("Pricing mismatch between payment confirmation and computed total")
		return domain.PaymentDetails{}, domain.NewPricingMismatchError(current.Total, result.Amount)
	}

	details := domain.PaymentDetails{
		TransactionID:    result.TransactionID,
		Amount:           result.Amount,
		Currency:         result.Currency,
		Status:           domain.PaymentSuccess,
		Method:           method,
		Timestamp:        c.clock.Now(),
		MaskedInstrument: result.Instrument,
	}

	c.draft.Payment = &details
	c.step = StepConfirmation
	c.persistDraft(ctx)
	c.persistPayment(ctx, details)

	c.log.Info().
		Str("booking_ref", c.draft.Reference).
		Str("transaction_id", details.TransactionID).
		Float64("amount", details.Amount).
		Msg("Booking confirmed")

	return details, nil
}

// Back navigates to the previous completed step
// (Passengers -> Contact, Payment -> Passengers). Previously entered values
// stay on the draft and remain editable; already-validated downstream data
// is kept until resubmitted. Backing out of Contact or Confirmation is not
// permitted.
func (c *Checkout) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.step {
	case StepPassengers:
		c.step = StepContact
	case StepPayment:
		if c.paymentInFlight {
			return domain.ErrPaymentInFlight
		}
		c.step = StepPassengers
	default:
		return fmt.Errorf("%w: cannot navigate back from %s", domain.ErrInvalidTransition, c.step)
	}
	return nil
}

// Confirmed reports whether the checkout reached its terminal state.
func (c *Checkout) Confirmed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step == StepConfirmation
}

// persistDraft upserts the draft with the store collaborator.
// Fire-and-forget: a store failure is logged and never blocks the flow.
func (c *Checkout) persistDraft(ctx context.Context) {
	if c.store == nil {
		return
	}
	if err := c.store.SaveDraft(ctx, c.draftCopy()); err != nil {
		c.log.Warn().
			Str("booking_ref", c.draft.Reference).
			Err(err).
			Msg("Failed to persist booking draft")
	}
}

// persistPayment records the payment with the store collaborator.
// Fire-and-forget, same as persistDraft.
func (c *Checkout) persistPayment(ctx context.Context, details domain.PaymentDetails) {
	if c.store == nil {
		return
	}
	if err := c.store.SavePayment(ctx, details); err != nil {
		c.log.Warn().
			Str("booking_ref", c.draft.Reference).
			Str("transaction_id", details.TransactionID).
			Err(err).
			Msg("Failed to persist payment details")
	}
}

// Contact and passenger validation. Failures are reported per-field; the
// step stays active and the user corrects and resubmits.

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9\s\-]{6,19}$`)
)

func validateContact(info domain.ContactInfo) *domain.FieldErrors {
	errs := &domain.FieldErrors{}

	if strings.TrimSpace(info.FirstName) == "" {
		errs.Add("firstName", "first name is required")
	}
	if strings.TrimSpace(info.LastName) == "" {
		errs.Add("lastName", "last name is required")
	}
	if info.Email == "" {
		errs.Add("email", "email is required")
	} else if !emailRegex.MatchString(info.Email) {
		errs.Add("email", "email is not a valid address")
	}
	if info.Phone == "" {
		errs.Add("phone", "phone is required")
	} else if !phoneRegex.MatchString(info.Phone) {
		errs.Add("phone", "phone is not a valid number")
	}
	if strings.TrimSpace(info.Country) == "" {
		errs.Add("country", "country is required")
	}

	return errs
}

func (c *Checkout) validatePassengers(passengers []domain.Passenger) *domain.FieldErrors {
	errs := &domain.FieldErrors{}

	if len(passengers) == 0 {
		errs.Add("passengers", "at least one passenger is required")
		return errs
	}

	if expected := c.counts.Total(); expected > 0 && len(passengers) != expected {
		errs.Add("passengers", fmt.Sprintf("expected %d passengers as declared at search time, got %d", expected, len(passengers)))
	}

	var adults, infants int
	for i, p := range passengers {
		field := func(name string) string { return fmt.Sprintf("passengers[%d].%s", i, name) }

		if !p.Type.IsValid() {
			errs.Add(field("type"), "type must be one of: adult, child, infant")
		}
		// The lead passenger is always an adult; the field is not
		// user-editable.
		if i == 0 && p.Type != domain.PassengerAdult {
			errs.Add(field("type"), "lead passenger must be an adult")
		}
		switch p.Type {
		case domain.PassengerAdult:
			adults++
		case domain.PassengerInfant:
			infants++
		}

		if strings.TrimSpace(p.Title) == "" {
			errs.Add(field("title"), "title is required")
		}
		if strings.TrimSpace(p.FirstName) == "" {
			errs.Add(field("firstName"), "first name is required")
		}
		if strings.TrimSpace(p.LastName) == "" {
			errs.Add(field("lastName"), "last name is required")
		}
		if strings.TrimSpace(p.DocumentNumber) == "" {
			errs.Add(field("documentNumber"), "travel document number is required")
		}
		if p.DocumentExpiry.IsZero() {
			errs.Add(field("documentExpiry"), "document expiry is required")
		} else if !p.DocumentExpiry.After(c.clock.Now()) {
			errs.Add(field("documentExpiry"), "travel document must not be expired")
		}
	}

	if infants > adults {
		errs.Add("passengers", "infants cannot outnumber adults")
	}

	return errs
}

// ReceiptIssuer builds receipts for confirmed checkouts.
// Split from Checkout so receipt generation failures stay isolated from the
// already-confirmed booking state.
type ReceiptIssuer struct {
	clock timeutil.Clock
}

// NewReceiptIssuer creates a receipt issuer with the given clock.
func NewReceiptIssuer(clock timeutil.Clock) *ReceiptIssuer {
	return &ReceiptIssuer{clock: clock}
}

// Build derives a receipt from a completed draft and its settled payment.
// Subtotal, taxes, and total are recomputed from the draft items rather than
// trusting any cached total; a mismatch with the settled amount means the
// receipt would not reconcile with the priced items and is reported as
// ErrPricingMismatch.
func (r *ReceiptIssuer) Build(draft domain.BookingDraft, payment domain.PaymentDetails) (domain.Receipt, error) {
	if payment.Status != domain.PaymentSuccess {
		return domain.Receipt{}, fmt.Errorf("%w: receipt requires a successful payment, got %s", domain.ErrInvalidTransition, payment.Status)
	}

	quote := ComputeQuote(draft.Items)
	if quote.Total != payment.Amount {
		return domain.Receipt{}, domain.NewPricingMismatchError(quote.Total, payment.Amount)
	}

	lines := make([]domain.ReceiptLine, 0, len(draft.Items))
	for _, item := range draft.Items {
		lines = append(lines, domain.ReceiptLine{
			Title:       item.Title,
			Description: item.Description,
			Category:    item.Category,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   roundHalfUp(item.UnitPrice * float64(item.Quantity)),
		})
	}

	var customer domain.ReceiptCustomer
	if draft.Contact != nil {
		customer = domain.ReceiptCustomer{
			Name:  draft.Contact.FirstName + " " + draft.Contact.LastName,
			Email: draft.Contact.Email,
			Phone: draft.Contact.Phone,
		}
	}

	return domain.Receipt{
		ReceiptNumber:    newReceiptNumber(payment.TransactionID),
		BookingReference: draft.Reference,
		IssueDate:        r.clock.Now(),
		Customer:         customer,
		Lines:            lines,
		Subtotal:         quote.Subtotal,
		Taxes:            quote.Taxes,
		Total:            quote.Total,
		Currency:         quote.Currency,
		TransactionID:    payment.TransactionID,
		PaymentMethod:    payment.Method,
		Instrument:       payment.MaskedInstrument,
	}, nil
}

// newReceiptNumber derives a receipt number ("RCP-XXXXXXXXXX") from the
// settled transaction id, so re-issuing a receipt for the same payment
// yields the same number. Receipts live in their own identifier namespace,
// independent of booking references.
func newReceiptNumber(transactionID string) string {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("receipt:"+transactionID))
	raw := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	return "RCP-" + raw[:10]
}
