package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripstack/travel-booking-engine/internal/adapter/catalog"
	"github.com/tripstack/travel-booking-engine/internal/domain"
	"github.com/tripstack/travel-booking-engine/internal/infrastructure/timeutil"
	"github.com/tripstack/travel-booking-engine/internal/usecase"
	"github.com/tripstack/travel-booking-engine/test/mock"
)

// env bundles the real search/session/checkout pipeline with mock
// external boundaries (payment processor, booking store).
type env struct {
	search  usecase.OfferSearchUseCase
	manager *usecase.SessionManager
	gateway *mock.Gateway
	store   *mock.Store
	clock   *timeutil.MockClock
}

func newEnv() *env {
	clock := timeutil.NewMockClock(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	return &env{
		search:  usecase.NewOfferSearchUseCase(catalog.New(nil)),
		manager: usecase.NewSessionManager(30*time.Minute, clock),
		gateway: mock.NewGateway(),
		store:   mock.NewStore(),
		clock:   clock,
	}
}

func bookingRequest() domain.SearchRequest {
	return domain.SearchRequest{
		Origin:        "CGK",
		Destination:   "DPS",
		DepartureDate: "2026-09-15",
		TripType:      domain.TripOneWay,
		Adults:        1,
		CabinClass:    "economy",
		IncludeHotel:  true,
	}
}

// openSession runs a search and caches the result in a new session.
func (e *env) openSession(t *testing.T, req domain.SearchRequest) *usecase.Session {
	t.Helper()

	result, err := e.search.Search(context.Background(), req, nil)
	require.NoError(t, err)
	require.NotEmpty(t, result.Offers)

	return e.manager.Create(req, nil, result)
}

func firstFlightID(offers []domain.Offer) string {
	for _, o := range offers {
		if o.OfferCategory() == domain.CategoryFlight {
			return o.OfferID()
		}
	}
	return ""
}

func leadPassenger(now time.Time) []domain.Passenger {
	return []domain.Passenger{
		{
			Type:           domain.PassengerAdult,
			Title:          "Ms",
			FirstName:      "Ayu",
			LastName:       "Lestari",
			DateOfBirth:    time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
			Nationality:    "ID",
			DocumentNumber: "A1234567",
			DocumentExpiry: now.AddDate(3, 0, 0),
		},
	}
}

// TestBookingFlow drives a complete booking end to end: search, refine,
// select, quote, checkout, and receipt.
func TestBookingFlow(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	session := e.openSession(t, bookingRequest())

	// Refine down to cheap flights, sorted by price.
	visible, err := session.Refine(&domain.FilterCriteria{
		Stops:  []int{0, 1},
		SortBy: domain.SortByPrice,
	})
	require.NoError(t, err)
	require.NotEmpty(t, visible)

	flightID := firstFlightID(visible)
	require.NotEmpty(t, flightID)
	require.NoError(t, session.Select(domain.CategoryFlight, flightID))

	quote, err := session.Quote()
	require.NoError(t, err)
	assert.Greater(t, quote.Subtotal, 0.0)
	assert.InDelta(t, quote.Subtotal+quote.Taxes, quote.Total, 0.005)

	co, err := session.StartCheckout(e.gateway, e.store, e.clock, nil)
	require.NoError(t, err)
	assert.Equal(t, usecase.StepContact, co.Step())

	contact := domain.ContactInfo{
		FirstName: "Ayu",
		LastName:  "Lestari",
		Email:     "ayu.lestari@example.com",
		Phone:     "+62 812 3456 789",
		Country:   "ID",
	}
	require.NoError(t, co.SubmitContact(ctx, contact))
	require.NoError(t, co.SubmitPassengers(ctx, leadPassenger(e.clock.Now())))

	payment, err := co.SubmitPayment(ctx, "card")
	require.NoError(t, err)
	assert.Equal(t, usecase.StepConfirmation, co.Step())
	assert.True(t, co.Confirmed())
	assert.Equal(t, quote.Total, payment.Amount, "charged amount matches the quoted total")

	// The confirmed draft and payment record were persisted.
	draft := co.Draft()
	stored, ok := e.store.Draft(draft.Reference)
	require.True(t, ok)
	assert.Equal(t, domain.PaymentSuccess, stored.Payment.Status)
	_, ok = e.store.Payment(payment.TransactionID)
	assert.True(t, ok)

	receipt, err := usecase.NewReceiptIssuer(e.clock).Build(draft, payment)
	require.NoError(t, err)
	assert.Equal(t, draft.Reference, receipt.BookingReference)
	assert.Equal(t, payment.Amount, receipt.Total)
	assert.Equal(t, "Ayu Lestari", receipt.Customer.Name)
	require.NotEmpty(t, receipt.Lines)

	// Receipt lines reconcile with the totals.
	var lineSum float64
	for _, line := range receipt.Lines {
		lineSum += line.LineTotal
	}
	assert.Equal(t, receipt.Subtotal, lineSum)
}

// TestBookingFlow_PaymentRetryReusesReference: a transport failure during
// payment leaves the checkout in the payment step, and the retry reaches
// the processor with the same idempotency key.
func TestBookingFlow_PaymentRetryReusesReference(t *testing.T) {
	e := newEnv()
	e.gateway.WithErrors(fmt.Errorf("%w: connection reset", domain.ErrPaymentTransport))
	ctx := context.Background()

	session := e.openSession(t, bookingRequest())
	flightID := firstFlightID(session.Visible())
	require.NoError(t, session.Select(domain.CategoryFlight, flightID))

	co, err := session.StartCheckout(e.gateway, e.store, e.clock, nil)
	require.NoError(t, err)
	require.NoError(t, co.SubmitContact(ctx, domain.ContactInfo{
		FirstName: "Ayu",
		LastName:  "Lestari",
		Email:     "ayu.lestari@example.com",
		Phone:     "+62 812 3456 789",
		Country:   "ID",
	}))
	require.NoError(t, co.SubmitPassengers(ctx, leadPassenger(e.clock.Now())))

	_, err = co.SubmitPayment(ctx, "card")
	require.ErrorIs(t, err, domain.ErrPaymentTransport)
	assert.Equal(t, usecase.StepPayment, co.Step(), "a failed charge leaves the flow in the payment step")

	_, err = co.SubmitPayment(ctx, "card")
	require.NoError(t, err)
	assert.True(t, co.Confirmed())

	requests := e.gateway.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, requests[0].IdempotencyKey, requests[1].IdempotencyKey)
	assert.Equal(t, co.Draft().Reference, requests[1].IdempotencyKey)
}

// TestBookingFlow_RefinementKeepsSelection: hiding a selected offer through
// a later refinement does not invalidate the selection, and checkout still
// snapshots it.
func TestBookingFlow_RefinementKeepsSelection(t *testing.T) {
	e := newEnv()

	session := e.openSession(t, bookingRequest())
	flightID := firstFlightID(session.Visible())
	require.NoError(t, session.Select(domain.CategoryFlight, flightID))

	// Refine to hotels only; the selected flight disappears from view.
	visible, err := session.Refine(&domain.FilterCriteria{Stops: []int{}})
	require.NoError(t, err)
	for _, o := range visible {
		assert.NotEqual(t, domain.CategoryFlight, o.OfferCategory())
	}
	assert.Equal(t, flightID, session.Selection()[domain.CategoryFlight])

	co, err := session.StartCheckout(e.gateway, e.store, e.clock, nil)
	require.NoError(t, err)

	items := co.Draft().Items
	require.Len(t, items, 1)
	assert.Equal(t, flightID, items[0].OfferID)
}

// TestBookingFlow_SessionExpiry: an idle session is gone after the TTL and
// the sweep reclaims it.
func TestBookingFlow_SessionExpiry(t *testing.T) {
	e := newEnv()

	session := e.openSession(t, bookingRequest())

	_, err := e.manager.Get(session.ID)
	require.NoError(t, err)

	e.clock.Advance(31 * time.Minute)

	_, err = e.manager.Get(session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Equal(t, 0, e.manager.Sweep())
}

// TestBookingFlow_ConfirmedSessionRejectsRestart: once a booking is
// confirmed the session cannot start another checkout.
func TestBookingFlow_ConfirmedSessionRejectsRestart(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	session := e.openSession(t, bookingRequest())
	require.NoError(t, session.Select(domain.CategoryFlight, firstFlightID(session.Visible())))

	co, err := session.StartCheckout(e.gateway, e.store, e.clock, nil)
	require.NoError(t, err)
	require.NoError(t, co.SubmitContact(ctx, domain.ContactInfo{
		FirstName: "Ayu",
		LastName:  "Lestari",
		Email:     "ayu.lestari@example.com",
		Phone:     "+62 812 3456 789",
		Country:   "ID",
	}))
	require.NoError(t, co.SubmitPassengers(ctx, leadPassenger(e.clock.Now())))
	_, err = co.SubmitPayment(ctx, "card")
	require.NoError(t, err)

	_, err = session.StartCheckout(e.gateway, e.store, e.clock, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
