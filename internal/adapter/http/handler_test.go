package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripstack/travel-booking-engine/internal/adapter/catalog"
	"github.com/tripstack/travel-booking-engine/internal/adapter/http/response"
	"github.com/tripstack/travel-booking-engine/internal/domain"
	"github.com/tripstack/travel-booking-engine/internal/infrastructure/timeutil"
	"github.com/tripstack/travel-booking-engine/internal/usecase"
	"github.com/tripstack/travel-booking-engine/test/mock"
)

var handlerNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

type testServer struct {
	echo    *echo.Echo
	gateway *mock.Gateway
	store   *mock.Store
	clock   *timeutil.MockClock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	clock := timeutil.NewMockClock(handlerNow)
	gateway := mock.NewGateway()
	store := mock.NewStore()

	handler := NewBookingHandler(
		usecase.NewOfferSearchUseCase(catalog.New(nil)),
		usecase.NewSessionManager(30*time.Minute, clock),
		gateway,
		store,
		clock,
		nil,
	)

	e := echo.New()
	RegisterRoutes(e, handler)

	return &testServer{echo: e, gateway: gateway, store: store, clock: clock}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func searchBody() map[string]interface{} {
	return map[string]interface{}{
		"origin":        "CGK",
		"destination":   "DPS",
		"departureDate": "2026-09-15",
		"adults":        1,
		"includeHotel":  true,
	}
}

// openSession runs a search and returns the session id.
func (s *testServer) openSession(t *testing.T) (string, *SessionResponseDTO) {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/v1/offers/search", searchBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	dto := decodeBody[*SessionResponseDTO](t, rec)
	require.NotEmpty(t, dto.SessionID)
	require.NotEmpty(t, dto.Offers)
	return dto.SessionID, dto
}

// firstOfferID finds the first offer of a category in the session response.
func firstOfferID(t *testing.T, dto *SessionResponseDTO, category string) string {
	t.Helper()
	for _, offer := range dto.Offers {
		if offer.Category == category {
			return offer.ID
		}
	}
	t.Fatalf("no offer of category %s in response", category)
	return ""
}

// startedCheckout drives a session to an open checkout and returns its state.
func (s *testServer) startedCheckout(t *testing.T) (string, *CheckoutStateDTO) {
	t.Helper()

	sessionID, dto := s.openSession(t)
	flightID := firstOfferID(t, dto, "flight")

	rec := s.do(t, http.MethodPut, "/api/v1/sessions/"+sessionID+"/selection", map[string]string{
		"category": "flight",
		"offerId":  flightID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	return sessionID, decodeBody[*CheckoutStateDTO](t, rec)
}

func contactBody() map[string]string {
	return map[string]string{
		"firstName": "Ayu",
		"lastName":  "Lestari",
		"email":     "ayu.lestari@example.com",
		"phone":     "+62 812 3456 789",
		"country":   "ID",
	}
}

func passengersBody() map[string]interface{} {
	return map[string]interface{}{
		"passengers": []map[string]string{
			{
				"type":           "adult",
				"title":          "Ms",
				"firstName":      "Ayu",
				"lastName":       "Lestari",
				"dateOfBirth":    "1990-04-12",
				"nationality":    "ID",
				"documentNumber": "A1234567",
				"documentExpiry": "2030-01-01",
			},
		},
	}
}

// TestSearchOffers_OpensSession returns 201 with a session and offers.
func TestSearchOffers_OpensSession(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/offers/search", searchBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	dto := decodeBody[*SessionResponseDTO](t, rec)
	assert.NotEmpty(t, dto.SessionID)
	require.NotNil(t, dto.Metadata)
	assert.Equal(t, len(dto.Offers), dto.Metadata.TotalResults)

	categories := map[string]bool{}
	for _, offer := range dto.Offers {
		categories[offer.Category] = true
	}
	assert.True(t, categories["flight"])
	assert.True(t, categories["hotel"])
}

// TestSearchOffers_ValidationError returns 400 with field details.
func TestSearchOffers_ValidationError(t *testing.T) {
	s := newTestServer(t)

	body := searchBody()
	body["origin"] = ""
	body["adults"] = 0

	rec := s.do(t, http.MethodPost, "/api/v1/offers/search", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	detail := decodeBody[*response.ErrorDetail](t, rec)
	assert.Equal(t, response.CodeValidationError, detail.Code)
	assert.Contains(t, detail.Details, "origin")
	assert.Contains(t, detail.Details, "adults")
}

// TestSearchOffers_MalformedBody returns 400 for unparseable JSON.
func TestSearchOffers_MalformedBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/offers/search", strings.NewReader("{not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	detail := decodeBody[*response.ErrorDetail](t, rec)
	assert.Equal(t, response.CodeInvalidRequest, detail.Code)
}

// TestRefineOffers re-filters the session's results.
func TestRefineOffers(t *testing.T) {
	s := newTestServer(t)
	sessionID, _ := s.openSession(t)

	rec := s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/refine", map[string]interface{}{
		"filters": map[string]interface{}{
			"stops": []int{0},
		},
		"sortBy": "price",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	dto := decodeBody[*SessionResponseDTO](t, rec)
	var lastPrice float64
	for _, offer := range dto.Offers {
		if offer.Flight != nil {
			assert.Equal(t, 0, offer.Flight.Stops)
		}
		assert.GreaterOrEqual(t, offer.Price.Amount, lastPrice)
		lastPrice = offer.Price.Amount
	}
}

// TestRefineOffers_UnknownSession returns 404.
func TestRefineOffers_UnknownSession(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/sessions/nope/refine", map[string]interface{}{})
	require.Equal(t, http.StatusNotFound, rec.Code)

	detail := decodeBody[*response.ErrorDetail](t, rec)
	assert.Equal(t, response.CodeNotFound, detail.Code)
}

// TestSelectOffer_AndQuote records a choice and prices it.
func TestSelectOffer_AndQuote(t *testing.T) {
	s := newTestServer(t)
	sessionID, dto := s.openSession(t)
	flightID := firstOfferID(t, dto, "flight")

	rec := s.do(t, http.MethodPut, "/api/v1/sessions/"+sessionID+"/selection", map[string]string{
		"category": "flight",
		"offerId":  flightID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	sel := decodeBody[*SelectionResponseDTO](t, rec)
	assert.Equal(t, flightID, sel.Selection["flight"])
	require.NotNil(t, sel.Quote)
	assert.Greater(t, sel.Quote.Total, sel.Quote.Subtotal)

	rec = s.do(t, http.MethodGet, "/api/v1/sessions/"+sessionID+"/quote", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	quote := decodeBody[*QuoteDTO](t, rec)
	assert.Equal(t, sel.Quote.Total, quote.Total)
}

// TestSelectOffer_UnknownOffer returns 409: the reference is stale, not
// malformed.
func TestSelectOffer_UnknownOffer(t *testing.T) {
	s := newTestServer(t)
	sessionID, _ := s.openSession(t)

	rec := s.do(t, http.MethodPut, "/api/v1/sessions/"+sessionID+"/selection", map[string]string{
		"category": "flight",
		"offerId":  "FL-999",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	detail := decodeBody[*response.ErrorDetail](t, rec)
	assert.Equal(t, response.CodeConflict, detail.Code)
}

// TestClearSelection removes the category's pick.
func TestClearSelection(t *testing.T) {
	s := newTestServer(t)
	sessionID, dto := s.openSession(t)
	flightID := firstOfferID(t, dto, "flight")

	rec := s.do(t, http.MethodPut, "/api/v1/sessions/"+sessionID+"/selection", map[string]string{
		"category": "flight",
		"offerId":  flightID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/v1/sessions/"+sessionID+"/selection/flight", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	sel := decodeBody[*SelectionResponseDTO](t, rec)
	assert.Empty(t, sel.Selection)
}

// TestStartCheckout_RequiresSelection returns 409 on an empty selection.
func TestStartCheckout_RequiresSelection(t *testing.T) {
	s := newTestServer(t)
	sessionID, _ := s.openSession(t)

	rec := s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/checkout", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

// TestCheckoutFlow drives contact, passengers, payment, and receipt over
// HTTP.
func TestCheckoutFlow(t *testing.T) {
	s := newTestServer(t)
	sessionID, state := s.startedCheckout(t)

	assert.Equal(t, "contact", state.Step)
	assert.True(t, strings.HasPrefix(state.BookingReference, "BKG-"))
	require.NotEmpty(t, state.Items)

	// Contact step
	rec := s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/checkout/contact", contactBody())
	require.Equal(t, http.StatusOK, rec.Code)
	state = decodeBody[*CheckoutStateDTO](t, rec)
	assert.Equal(t, "passengers", state.Step)

	// Passengers step
	rec = s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/checkout/passengers", passengersBody())
	require.Equal(t, http.StatusOK, rec.Code)
	state = decodeBody[*CheckoutStateDTO](t, rec)
	assert.Equal(t, "payment", state.Step)

	// Payment step confirms the booking
	rec = s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/checkout/payment", map[string]string{"method": "card"})
	require.Equal(t, http.StatusOK, rec.Code)
	confirmation := decodeBody[*ConfirmationDTO](t, rec)
	assert.Equal(t, "confirmation", confirmation.Step)
	assert.Equal(t, state.BookingReference, confirmation.BookingReference)
	assert.Equal(t, "success", confirmation.Payment.Status)
	assert.Equal(t, state.Quote.Total, confirmation.Payment.Amount)

	// Receipt reconciles with the paid amount
	rec = s.do(t, http.MethodGet, "/api/v1/sessions/"+sessionID+"/receipt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	receipt := decodeBody[*ReceiptDTO](t, rec)
	assert.True(t, strings.HasPrefix(receipt.ReceiptNumber, "RCP-"))
	assert.Equal(t, confirmation.BookingReference, receipt.BookingReference)
	assert.Equal(t, confirmation.Payment.Amount, receipt.Total)
	assert.Equal(t, "Ayu Lestari", receipt.Customer.Name)
}

// TestSubmitContact_ValidationError returns 400 and keeps the step.
func TestSubmitContact_ValidationError(t *testing.T) {
	s := newTestServer(t)
	sessionID, _ := s.startedCheckout(t)

	body := contactBody()
	body["email"] = "not-an-email"

	rec := s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/checkout/contact", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	detail := decodeBody[*response.ErrorDetail](t, rec)
	assert.Contains(t, detail.Details, "email")

	rec = s.do(t, http.MethodGet, "/api/v1/sessions/"+sessionID+"/checkout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeBody[*CheckoutStateDTO](t, rec)
	assert.Equal(t, "contact", state.Step)
}

// TestSubmitPassengers_BadDate reports unparseable dates as field errors.
func TestSubmitPassengers_BadDate(t *testing.T) {
	s := newTestServer(t)
	sessionID, _ := s.startedCheckout(t)

	rec := s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/checkout/contact", contactBody())
	require.Equal(t, http.StatusOK, rec.Code)

	body := passengersBody()
	body["passengers"].([]map[string]string)[0]["documentExpiry"] = "soon"

	rec = s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/checkout/passengers", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	detail := decodeBody[*response.ErrorDetail](t, rec)
	assert.Contains(t, detail.Details, "passengers[0].documentExpiry")
}

// TestSubmitPayment_OutOfOrder returns 409 before the payment step opens.
func TestSubmitPayment_OutOfOrder(t *testing.T) {
	s := newTestServer(t)
	sessionID, _ := s.startedCheckout(t)

	rec := s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/checkout/payment", map[string]string{"method": "card"})
	require.Equal(t, http.StatusConflict, rec.Code)
}

// TestSubmitPayment_Declined returns 402.
func TestSubmitPayment_Declined(t *testing.T) {
	s := newTestServer(t)
	s.gateway.WithErrors(fmt.Errorf("%w: insufficient funds", domain.ErrPaymentDeclined))

	sessionID, _ := s.startedCheckout(t)
	s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/checkout/contact", contactBody())
	s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/checkout/passengers", passengersBody())

	rec := s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/checkout/payment", map[string]string{"method": "card"})
	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	detail := decodeBody[*response.ErrorDetail](t, rec)
	assert.Equal(t, response.CodePaymentDeclined, detail.Code)
}

// TestSubmitPayment_TransportFailure returns 502 and stays retryable.
func TestSubmitPayment_TransportFailure(t *testing.T) {
	s := newTestServer(t)
	s.gateway.WithErrors(fmt.Errorf("%w: connection reset", domain.ErrPaymentTransport))

	sessionID, _ := s.startedCheckout(t)
	s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/checkout/contact", contactBody())
	s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/checkout/passengers", passengersBody())

	rec := s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/checkout/payment", map[string]string{"method": "card"})
	require.Equal(t, http.StatusBadGateway, rec.Code)

	// The retry on the same draft succeeds.
	rec = s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/checkout/payment", map[string]string{"method": "card"})
	require.Equal(t, http.StatusOK, rec.Code)

	requests := s.gateway.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, requests[0].IdempotencyKey, requests[1].IdempotencyKey)
}

// TestCheckoutBack navigates to the previous step over HTTP.
func TestCheckoutBack(t *testing.T) {
	s := newTestServer(t)
	sessionID, _ := s.startedCheckout(t)

	rec := s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/checkout/contact", contactBody())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/checkout/back", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeBody[*CheckoutStateDTO](t, rec)
	assert.Equal(t, "contact", state.Step)

	// Backing out of the first step is a conflict.
	rec = s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/checkout/back", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

// TestGetReceipt_BeforeConfirmation returns 409.
func TestGetReceipt_BeforeConfirmation(t *testing.T) {
	s := newTestServer(t)
	sessionID, _ := s.startedCheckout(t)

	rec := s.do(t, http.MethodGet, "/api/v1/sessions/"+sessionID+"/receipt", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

// TestGetCheckout_NotStarted returns 409 when no checkout is open.
func TestGetCheckout_NotStarted(t *testing.T) {
	s := newTestServer(t)
	sessionID, _ := s.openSession(t)

	rec := s.do(t, http.MethodGet, "/api/v1/sessions/"+sessionID+"/checkout", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

// TestSessionExpiry returns 404 once the idle TTL elapses.
func TestSessionExpiry(t *testing.T) {
	s := newTestServer(t)
	sessionID, _ := s.openSession(t)

	s.clock.Advance(31 * time.Minute)

	rec := s.do(t, http.MethodGet, "/api/v1/sessions/"+sessionID+"/quote", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

// TestHealth reports the store probe outcome.
func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	health := decodeBody[*response.HealthResponse](t, rec)
	assert.Equal(t, "ok", health.Status)
	assert.Empty(t, health.Store)
}
