// Package store implements booking persistence on Redis. Drafts and payment
// records are written as JSON values keyed by booking reference and
// transaction id; callers treat writes as best-effort.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tripstack/travel-booking-engine/internal/domain"
)

const (
	draftKeyPrefix   = "booking:draft:"
	paymentKeyPrefix = "booking:payment:"
)

// Config holds the Redis store configuration.
type Config struct {
	Addr     string
	Password string
	DB       int

	// DraftTTL bounds how long an unconfirmed draft survives. Zero keeps
	// drafts indefinitely.
	DraftTTL time.Duration
}

// RedisStore persists booking drafts and payment records in Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a Redis-backed booking store.
func New(cfg Config) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		ttl: cfg.DraftTTL,
	}
}

// NewWithClient wraps an existing client, used by tests.
func NewWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// SaveDraft upserts the draft under its booking reference.
func (s *RedisStore) SaveDraft(ctx context.Context, draft domain.BookingDraft) error {
	if draft.Reference == "" {
		return errors.New("draft has no booking reference")
	}

	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft %s: %w", draft.Reference, err)
	}

	ttl := s.ttl
	if draft.Payment != nil && draft.Payment.Status == domain.PaymentSuccess {
		// Confirmed bookings never expire.
		ttl = 0
	}

	if err := s.client.Set(ctx, draftKeyPrefix+draft.Reference, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store draft %s: %w", draft.Reference, err)
	}
	return nil
}

// SavePayment records a settled payment under its transaction id.
// Payment records never expire.
func (s *RedisStore) SavePayment(ctx context.Context, details domain.PaymentDetails) error {
	if details.TransactionID == "" {
		return errors.New("payment has no transaction id")
	}

	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal payment %s: %w", details.TransactionID, err)
	}

	if err := s.client.Set(ctx, paymentKeyPrefix+details.TransactionID, payload, 0).Err(); err != nil {
		return fmt.Errorf("store payment %s: %w", details.TransactionID, err)
	}
	return nil
}

// LoadDraft fetches a draft by booking reference. The second return reports
// whether the draft exists.
func (s *RedisStore) LoadDraft(ctx context.Context, reference string) (domain.BookingDraft, bool, error) {
	raw, err := s.client.Get(ctx, draftKeyPrefix+reference).Bytes()
	if err == redis.Nil {
		return domain.BookingDraft{}, false, nil
	}
	if err != nil {
		return domain.BookingDraft{}, false, fmt.Errorf("load draft %s: %w", reference, err)
	}

	var draft domain.BookingDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return domain.BookingDraft{}, false, fmt.Errorf("decode draft %s: %w", reference, err)
	}
	return draft, true, nil
}

// LoadPayment fetches a payment record by transaction id.
func (s *RedisStore) LoadPayment(ctx context.Context, transactionID string) (domain.PaymentDetails, bool, error) {
	raw, err := s.client.Get(ctx, paymentKeyPrefix+transactionID).Bytes()
	if err == redis.Nil {
		return domain.PaymentDetails{}, false, nil
	}
	if err != nil {
		return domain.PaymentDetails{}, false, fmt.Errorf("load payment %s: %w", transactionID, err)
	}

	var details domain.PaymentDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		return domain.PaymentDetails{}, false, fmt.Errorf("decode payment %s: %w", transactionID, err)
	}
	return details, true, nil
}

// Ping verifies connectivity, used by the health endpoint.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ensure RedisStore implements the port at compile time.
var _ domain.BookingStore = (*RedisStore)(nil)
