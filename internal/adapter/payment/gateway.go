// Package payment implements the payment gateway port over HTTP.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tripstack/travel-booking-engine/internal/domain"
	"github.com/tripstack/travel-booking-engine/internal/infrastructure/logger"
	"github.com/tripstack/travel-booking-engine/internal/infrastructure/retry"
)

// Config holds the gateway client configuration.
type Config struct {
	// BaseURL is the processor's API root, without a trailing slash.
	BaseURL string

	// APIKey is sent as a bearer token on every request.
	APIKey string

	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration
}

// Gateway is an HTTP client for an external payment processor. Transport
// failures are retried with backoff; declines are not.
type Gateway struct {
	cfg    Config
	client *http.Client
	log    *logger.Logger
}

// New creates a gateway client.
func New(cfg Config, log *logger.Logger) *Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Gateway{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

// chargeRequest is the processor's wire format for an authorization.
type chargeRequest struct {
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	IdempotencyKey string  `json:"idempotency_key"`
	CustomerName   string  `json:"customer_name"`
	CustomerEmail  string  `json:"customer_email"`
	CustomerPhone  string  `json:"customer_phone,omitempty"`
	Description    string  `json:"description,omitempty"`
	Method         string  `json:"method"`
}

// chargeResponse is the processor's wire format for the outcome.
type chargeResponse struct {
	TransactionID string  `json:"transaction_id"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	PaymentDate   string  `json:"payment_date"`
	Instrument    string  `json:"instrument,omitempty"`
	Message       string  `json:"message,omitempty"`
}

// Authorize implements domain.PaymentGateway. The idempotency key travels
// with every attempt, so processor-side retries collapse into one charge.
func (g *Gateway) Authorize(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error) {
	result, err := retry.DoWithResult(ctx, func() (domain.PaymentResult, error) {
		return g.authorizeOnce(ctx, req)
	}, retry.GatewayConfig)
	if err != nil {
		return domain.PaymentResult{}, err
	}
	return result, nil
}

func (g *Gateway) authorizeOnce(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error) {
	body, err := json.Marshal(chargeRequest{
		Amount:         req.Amount,
		Currency:       req.Currency,
		IdempotencyKey: req.IdempotencyKey,
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		CustomerPhone:  req.Phone,
		Description:    req.Description,
		Method:         req.Method,
	})
	if err != nil {
		return domain.PaymentResult{}, retry.NewPermanent(fmt.Errorf("%w: encode charge: %v", domain.ErrPaymentTransport, err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return domain.PaymentResult{}, retry.NewPermanent(fmt.Errorf("%w: build request: %v", domain.ErrPaymentTransport, err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	if g.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		g.log.Warn().Err(err).Str("idempotency_key", req.IdempotencyKey).Msg("Payment gateway unreachable")
		return domain.PaymentResult{}, fmt.Errorf("%w: %v", domain.ErrPaymentTransport, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("%w: read response: %v", domain.ErrPaymentTransport, err)
	}

	// 5xx is a processor fault worth retrying; anything else carries a
	// definitive outcome in the body.
	if resp.StatusCode >= http.StatusInternalServerError {
		return domain.PaymentResult{}, fmt.Errorf("%w: gateway returned %d", domain.ErrPaymentTransport, resp.StatusCode)
	}

	var wire chargeResponse
	if err := json.Unmarshal(payload, &wire); err != nil {
		return domain.PaymentResult{}, retry.NewPermanent(fmt.Errorf("%w: decode response: %v", domain.ErrPaymentTransport, err))
	}

	status := domain.NormalizePaymentStatus(wire.Status)
	result := domain.PaymentResult{
		TransactionID: wire.TransactionID,
		Status:        status,
		Amount:        wire.Amount,
		Currency:      wire.Currency,
		PaymentDate:   parsePaymentDate(wire.PaymentDate),
		Instrument:    wire.Instrument,
	}

	if status == domain.PaymentFailed {
		// Declines are final. Surface them without the retry loop.
		return result, retry.NewPermanent(fmt.Errorf("%w: %s", domain.ErrPaymentDeclined, declineReason(wire)))
	}

	return result, nil
}

func declineReason(wire chargeResponse) string {
	if wire.Message != "" {
		return wire.Message
	}
	return "declined by processor"
}

func parsePaymentDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// Ensure Gateway implements the port at compile time.
var _ domain.PaymentGateway = (*Gateway)(nil)
