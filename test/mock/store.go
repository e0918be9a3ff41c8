package mock

import (
	"context"
	"sync"

	"github.com/tripstack/travel-booking-engine/internal/domain"
)

// Store is an in-memory mock implementation of domain.BookingStore.
type Store struct {
	mu       sync.Mutex
	drafts   map[string]domain.BookingDraft
	payments map[string]domain.PaymentDetails
	err      error
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		drafts:   make(map[string]domain.BookingDraft),
		payments: make(map[string]domain.PaymentDetails),
	}
}

// WithError configures every write to fail with the given error.
func (s *Store) WithError(err error) *Store {
	s.err = err
	return s
}

// SaveDraft implements domain.BookingStore.
func (s *Store) SaveDraft(_ context.Context, draft domain.BookingDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.drafts[draft.Reference] = draft
	return nil
}

// SavePayment implements domain.BookingStore.
func (s *Store) SavePayment(_ context.Context, details domain.PaymentDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.payments[details.TransactionID] = details
	return nil
}

// Draft returns the stored draft for a booking reference.
func (s *Store) Draft(reference string) (domain.BookingDraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[reference]
	return draft, ok
}

// Payment returns the stored payment for a transaction id.
func (s *Store) Payment(transactionID string) (domain.PaymentDetails, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	details, ok := s.payments[transactionID]
	return details, ok
}

// DraftCount returns how many drafts are stored.
func (s *Store) DraftCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

// Ensure Store implements domain.BookingStore at compile time.
var _ domain.BookingStore = (*Store)(nil)
