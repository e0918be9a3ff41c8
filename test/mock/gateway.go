// Package mock provides test doubles for the booking engine.
// These mocks are designed for integration testing where we need
// configurable behavior (delays, errors, specific responses).
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/tripstack/travel-booking-engine/internal/domain"
)

// Gateway is a configurable mock implementation of domain.PaymentGateway.
// It records every request it receives so tests can assert on idempotency
// keys and amounts across retries.
type Gateway struct {
	mu       sync.Mutex
	result   domain.PaymentResult
	errs     []error
	delay    time.Duration
	requests []domain.PaymentRequest
}

// NewGateway creates a mock gateway that approves everything by default.
func NewGateway() *Gateway {
	return &Gateway{
		result: domain.PaymentResult{
			TransactionID: "TXN-TEST-0001",
			Status:        domain.PaymentSuccess,
			Currency:      "USD",
			Instrument:    "card ****4242",
		},
	}
}

// WithResult configures the outcome returned on success.
func (g *Gateway) WithResult(result domain.PaymentResult) *Gateway {
	g.result = result
	return g
}

// WithErrors configures errors returned in order, one per call; once
// exhausted, calls succeed. Useful for transport-failure-then-success runs.
func (g *Gateway) WithErrors(errs ...error) *Gateway {
	g.errs = errs
	return g
}

// WithDelay configures the gateway to wait before responding.
func (g *Gateway) WithDelay(d time.Duration) *Gateway {
	g.delay = d
	return g
}

// Authorize implements domain.PaymentGateway.
// The confirmed amount echoes the request unless a result amount was set.
func (g *Gateway) Authorize(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	var err error
	if len(g.errs) > 0 {
		err = g.errs[0]
		g.errs = g.errs[1:]
	}
	result := g.result
	delay := g.delay
	g.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return domain.PaymentResult{}, ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return domain.PaymentResult{}, err
	}

	if result.Amount == 0 {
		result.Amount = req.Amount
	}
	if result.Currency == "" {
		result.Currency = req.Currency
	}
	return result, nil
}

// Requests returns a copy of every request received.
func (g *Gateway) Requests() []domain.PaymentRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]domain.PaymentRequest(nil), g.requests...)
}

// CallCount returns the number of Authorize calls.
func (g *Gateway) CallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

// Ensure Gateway implements domain.PaymentGateway at compile time.
var _ domain.PaymentGateway = (*Gateway)(nil)
