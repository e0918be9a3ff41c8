// Package http provides the HTTP handler layer for the booking API.
// It handles request parsing, validation, response formatting, and error mapping.
package http

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tripstack/travel-booking-engine/internal/adapter/http/response"
	"github.com/tripstack/travel-booking-engine/internal/domain"
	"github.com/tripstack/travel-booking-engine/internal/infrastructure/logger"
	"github.com/tripstack/travel-booking-engine/internal/infrastructure/timeutil"
	"github.com/tripstack/travel-booking-engine/internal/usecase"
)

// StorePinger reports booking store connectivity for the health endpoint.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// BookingHandler handles HTTP requests for the booking flow: offer search,
// refinement, selection, and the checkout pipeline.
type BookingHandler struct {
	search   usecase.OfferSearchUseCase
	sessions *usecase.SessionManager
	gateway  domain.PaymentGateway
	store    domain.BookingStore
	issuer   *usecase.ReceiptIssuer
	clock    timeutil.Clock
	log      *logger.Logger

	// pinger is optional; when nil the health endpoint skips the store probe.
	pinger StorePinger
}

// NewBookingHandler creates a BookingHandler with its collaborators.
func NewBookingHandler(
	search usecase.OfferSearchUseCase,
	sessions *usecase.SessionManager,
	gateway domain.PaymentGateway,
	store domain.BookingStore,
	clock timeutil.Clock,
	log *logger.Logger,
) *BookingHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &BookingHandler{
		search:   search,
		sessions: sessions,
		gateway:  gateway,
		store:    store,
		issuer:   usecase.NewReceiptIssuer(clock),
		clock:    clock,
		log:      log,
	}
}

// WithStorePinger attaches a store connectivity probe for the health endpoint.
func (h *BookingHandler) WithStorePinger(p StorePinger) *BookingHandler {
	h.pinger = p
	return h
}

// SearchOffers handles POST /api/v1/offers/search
//
// @Summary Search for travel offers
// @Description Search flights and optional hotel, car, and activity offers, opening a booking session
// @Tags offers
// @Accept json
// @Produce json
// @Param request body SearchOffersRequest true "Search criteria"
// @Success 201 {object} SessionResponseDTO
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 504 {object} response.ErrorDetail "Search timeout"
// @Router /api/v1/offers/search [post]
func (h *BookingHandler) SearchOffers(c echo.Context) error {
	var req SearchOffersRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}
	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	domainReq := ToDomainSearchRequest(&req)
	criteria := ToDomainCriteria(req.Filters, req.SortBy)

	result, err := h.search.Search(c.Request().Context(), domainReq, criteria)
	if err != nil {
		return h.handleError(c, err)
	}

	session := h.sessions.Create(domainReq, criteria, result)
	h.log.Info().
		Str("session_id", session.ID).
		Int("results", result.Metadata.TotalResults).
		Int("candidates", result.Metadata.CandidateCount).
		Msg("Booking session opened")

	return response.Created(c, ToSessionResponseDTO(session.ID, result.Offers, &result.Metadata))
}

// RefineOffers handles POST /api/v1/sessions/:id/refine
//
// @Summary Refine a session's offer results
// @Description Re-apply filters and sorting to the session's cached candidates
// @Tags offers
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body RefineRequest true "Filter and sort criteria"
// @Success 200 {object} SessionResponseDTO
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 404 {object} response.ErrorDetail "Session not found"
// @Router /api/v1/sessions/{id}/refine [post]
func (h *BookingHandler) RefineOffers(c echo.Context) error {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	var req RefineRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}
	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	offers, err := session.Refine(ToDomainCriteria(req.Filters, req.SortBy))
	if err != nil {
		return h.handleError(c, err)
	}

	return response.OK(c, ToSessionResponseDTO(session.ID, offers, nil))
}

// SelectOffer handles PUT /api/v1/sessions/:id/selection
//
// @Summary Select an offer
// @Description Record an offer choice; a second choice in the same category replaces the first
// @Tags selection
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body SelectOfferRequest true "Offer choice"
// @Success 200 {object} SelectionResponseDTO
// @Failure 404 {object} response.ErrorDetail "Session not found"
// @Failure 409 {object} response.ErrorDetail "Unknown or stale offer reference"
// @Router /api/v1/sessions/{id}/selection [put]
func (h *BookingHandler) SelectOffer(c echo.Context) error {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	var req SelectOfferRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}

	if err := session.Select(domain.Category(req.Category), req.OfferID); err != nil {
		return h.handleError(c, err)
	}

	return h.selectionResponse(c, session)
}

// ClearSelection handles DELETE /api/v1/sessions/:id/selection/:category
//
// @Summary Clear a selected offer
// @Tags selection
// @Produce json
// @Param id path string true "Session ID"
// @Param category path string true "Offer category"
// @Success 200 {object} SelectionResponseDTO
// @Failure 404 {object} response.ErrorDetail "Session not found"
// @Router /api/v1/sessions/{id}/selection/{category} [delete]
func (h *BookingHandler) ClearSelection(c echo.Context) error {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	if err := session.ClearSelection(domain.Category(c.Param("category"))); err != nil {
		return h.handleError(c, err)
	}

	return h.selectionResponse(c, session)
}

// GetQuote handles GET /api/v1/sessions/:id/quote
//
// @Summary Get the pricing quote for the current selection
// @Tags selection
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} QuoteDTO
// @Failure 404 {object} response.ErrorDetail "Session not found"
// @Router /api/v1/sessions/{id}/quote [get]
func (h *BookingHandler) GetQuote(c echo.Context) error {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	quote, err := session.Quote()
	if err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToQuoteDTO(quote))
}

// StartCheckout handles POST /api/v1/sessions/:id/checkout
//
// @Summary Start the checkout pipeline
// @Description Freeze the selected offers into a booking draft and open the contact step
// @Tags checkout
// @Produce json
// @Param id path string true "Session ID"
// @Success 201 {object} CheckoutStateDTO
// @Failure 404 {object} response.ErrorDetail "Session not found"
// @Failure 409 {object} response.ErrorDetail "No selection or booking already confirmed"
// @Router /api/v1/sessions/{id}/checkout [post]
func (h *BookingHandler) StartCheckout(c echo.Context) error {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	checkout, err := session.StartCheckout(h.gateway, h.store, h.clock, h.log)
	if err != nil {
		return h.handleError(c, err)
	}

	return response.Created(c, ToCheckoutStateDTO(checkout))
}

// GetCheckout handles GET /api/v1/sessions/:id/checkout
//
// @Summary Get the current checkout state
// @Tags checkout
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} CheckoutStateDTO
// @Failure 404 {object} response.ErrorDetail "Session or checkout not found"
// @Router /api/v1/sessions/{id}/checkout [get]
func (h *BookingHandler) GetCheckout(c echo.Context) error {
	checkout, err := h.activeCheckout(c)
	if err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToCheckoutStateDTO(checkout))
}

// SubmitContact handles POST /api/v1/sessions/:id/checkout/contact
//
// @Summary Submit the contact step
// @Tags checkout
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body ContactRequest true "Contact details"
// @Success 200 {object} CheckoutStateDTO
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 409 {object} response.ErrorDetail "Step not active"
// @Router /api/v1/sessions/{id}/checkout/contact [post]
func (h *BookingHandler) SubmitContact(c echo.Context) error {
	checkout, err := h.activeCheckout(c)
	if err != nil {
		return h.handleError(c, err)
	}

	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}

	if err := checkout.SubmitContact(c.Request().Context(), ToDomainContact(&req)); err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToCheckoutStateDTO(checkout))
}

// SubmitPassengers handles POST /api/v1/sessions/:id/checkout/passengers
//
// @Summary Submit the passengers step
// @Tags checkout
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body PassengersRequest true "Passenger list"
// @Success 200 {object} CheckoutStateDTO
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 409 {object} response.ErrorDetail "Step not active"
// @Router /api/v1/sessions/{id}/checkout/passengers [post]
func (h *BookingHandler) SubmitPassengers(c echo.Context) error {
	checkout, err := h.activeCheckout(c)
	if err != nil {
		return h.handleError(c, err)
	}

	var req PassengersRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}

	passengers, verrs := ToDomainPassengers(req.Passengers)
	if verrs != nil {
		return response.ValidationError(c, verrs.ToMap())
	}

	if err := checkout.SubmitPassengers(c.Request().Context(), passengers); err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToCheckoutStateDTO(checkout))
}

// SubmitPayment handles POST /api/v1/sessions/:id/checkout/payment
//
// @Summary Submit the payment step
// @Description Authorize payment for the current total; an explicit success confirms the booking
// @Tags checkout
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body PaymentSubmitRequest true "Payment method"
// @Success 200 {object} ConfirmationDTO
// @Failure 402 {object} response.ErrorDetail "Payment declined"
// @Failure 409 {object} response.ErrorDetail "Step not active, duplicate submission, or pricing mismatch"
// @Failure 502 {object} response.ErrorDetail "Payment processor unreachable"
// @Router /api/v1/sessions/{id}/checkout/payment [post]
func (h *BookingHandler) SubmitPayment(c echo.Context) error {
	checkout, err := h.activeCheckout(c)
	if err != nil {
		return h.handleError(c, err)
	}

	var req PaymentSubmitRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}

	details, err := checkout.SubmitPayment(c.Request().Context(), req.Method)
	if err != nil {
		return h.handleError(c, err)
	}

	return response.OK(c, ToConfirmationDTO(checkout.Draft().Reference, details))
}

// CheckoutBack handles POST /api/v1/sessions/:id/checkout/back
//
// @Summary Navigate to the previous checkout step
// @Tags checkout
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} CheckoutStateDTO
// @Failure 409 {object} response.ErrorDetail "Backward navigation not permitted"
// @Router /api/v1/sessions/{id}/checkout/back [post]
func (h *BookingHandler) CheckoutBack(c echo.Context) error {
	checkout, err := h.activeCheckout(c)
	if err != nil {
		return h.handleError(c, err)
	}

	if err := checkout.Back(); err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToCheckoutStateDTO(checkout))
}

// GetReceipt handles GET /api/v1/sessions/:id/receipt
//
// @Summary Get the receipt for a confirmed booking
// @Tags checkout
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} ReceiptDTO
// @Failure 404 {object} response.ErrorDetail "Session not found"
// @Failure 409 {object} response.ErrorDetail "Booking not confirmed"
// @Router /api/v1/sessions/{id}/receipt [get]
func (h *BookingHandler) GetReceipt(c echo.Context) error {
	checkout, err := h.activeCheckout(c)
	if err != nil {
		return h.handleError(c, err)
	}

	draft := checkout.Draft()
	if draft.Payment == nil {
		return response.Conflict(c, "booking is not confirmed yet")
	}

	receipt, err := h.issuer.Build(draft, *draft.Payment)
	if err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToReceiptDTO(receipt))
}

// Health handles GET /health
//
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} response.HealthResponse
// @Router /health [get]
func (h *BookingHandler) Health(c echo.Context) error {
	store := ""
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			store = "degraded"
		} else {
			store = "ok"
		}
	}
	return response.Health(c, store)
}

// activeCheckout resolves the session and its started checkout.
func (h *BookingHandler) activeCheckout(c echo.Context) (*usecase.Checkout, error) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return nil, err
	}
	checkout, ok := session.Checkout()
	if !ok {
		return nil, fmt.Errorf("%w: checkout has not been started", domain.ErrInvalidTransition)
	}
	return checkout, nil
}

// selectionResponse renders the current selection with a fresh quote.
func (h *BookingHandler) selectionResponse(c echo.Context, session *usecase.Session) error {
	quote, err := session.Quote()
	if err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToSelectionResponseDTO(session.Selection(), &quote))
}

// handleValidationError handles validation errors and returns a 400 response.
func (h *BookingHandler) handleValidationError(c echo.Context, err error) error {
	var validationErrs *ValidationErrors
	if errors.As(err, &validationErrs) {
		return response.ValidationError(c, validationErrs.ToMap())
	}

	// Fallback for non-structured validation errors
	return response.ValidationErrorWithMessage(c, err.Error())
}

// handleError maps domain errors to appropriate HTTP responses.
func (h *BookingHandler) handleError(c echo.Context, err error) error {
	var fieldErrs *domain.FieldErrors
	if errors.As(err, &fieldErrs) {
		return response.ValidationError(c, fieldErrs.ToMap())
	}

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return response.SessionNotFound(c)

	case errors.Is(err, domain.ErrInvalidRequest):
		return response.ValidationErrorWithMessage(c, err.Error())

	// Flow violations surface as conflicts: the client's view of the
	// session is stale, not malformed.
	case errors.Is(err, domain.ErrUnknownOffer),
		errors.Is(err, domain.ErrNoSelection),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrPricingMismatch),
		errors.Is(err, domain.ErrPaymentInFlight),
		errors.Is(err, domain.ErrPaymentPending):
		return response.Conflict(c, err.Error())

	case errors.Is(err, domain.ErrPaymentDeclined):
		return response.PaymentDeclined(c, err.Error())

	case errors.Is(err, domain.ErrPaymentTransport):
		return response.PaymentUpstreamError(c, err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		return response.GatewayTimeout(c)

	case errors.Is(err, context.Canceled):
		return response.RequestCancelled(c)
	}

	h.log.Error().Err(err).Str("path", c.Path()).Msg("Unhandled error")
	return response.InternalServerError(c)
}
