package usecase

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tripstack/travel-booking-engine/internal/domain"
	"github.com/tripstack/travel-booking-engine/internal/infrastructure/logger"
	"github.com/tripstack/travel-booking-engine/internal/infrastructure/timeutil"
)

// Session owns one booking flow: the search context, the cached candidate
// set, the display-ordered subset, the user's selection, and (once started)
// the checkout. No state is shared across sessions.
type Session struct {
	mu sync.Mutex

	// ID is the session identifier handed to the client
	ID string

	// Request is the search context; changing it resets the selection
	Request domain.SearchRequest

	// Criteria is the last applied filter/sort criteria
	Criteria *domain.FilterCriteria

	candidates []domain.Offer
	visible    []domain.Offer
	selection  *domain.Selection
	checkout   *Checkout

	createdAt time.Time
	lastSeen  time.Time
}

// Visible returns the current display-ordered subset.
func (s *Session) Visible() []domain.Offer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Offer(nil), s.visible...)
}

// Refine re-applies new criteria to the session's cached candidate set.
// The candidate page is filtered in place rather than re-queried upstream;
// the search context (and therefore the selection) is unchanged.
func (s *Session) Refine(criteria *domain.FilterCriteria) ([]domain.Offer, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.Criteria = criteria
	filtered := ApplyFilters(s.candidates, criteria)

	sortBy := domain.SortByPrice
	if criteria != nil && criteria.SortBy != "" {
		sortBy = criteria.SortBy
	}
	s.visible = SortOffers(filtered, sortBy)

	return append([]domain.Offer(nil), s.visible...), nil
}

// Select records an offer choice after validating the id against the
// session's active result set. A second selection in the same category
// replaces the first.
func (s *Session) Select(category domain.Category, offerID string) error {
	if !category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", domain.ErrInvalidRequest, category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	offer, ok := FindOffer(s.visible, offerID)
	if !ok || offer.OfferCategory() != category {
		return domain.NewUnknownOfferError(offerID)
	}

	s.selection.Select(category, offerID)
	return nil
}

// ClearSelection removes the choice for the given category.
func (s *Session) ClearSelection(category domain.Category) error {
	if !category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", domain.ErrInvalidRequest, category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Clear(category)
	return nil
}

// Selection returns the immutable selection snapshot.
func (s *Session) Selection() map[domain.Category]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Current()
}

// Quote recomputes pricing for the current selection. Called on every
// selection change; results are never cached.
func (s *Session) Quote() (Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.summaryItems()
	if err != nil {
		return Quote{}, err
	}
	return ComputeQuote(items), nil
}

// StartCheckout snapshots the selected offers into summary items and creates
// the checkout. Fails with ErrNoSelection when nothing is selected; the
// caller routes back to search.
func (s *Session) StartCheckout(
	gateway domain.PaymentGateway,
	store domain.BookingStore,
	clock timeutil.Clock,
	log *logger.Logger,
) (*Checkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checkout != nil && s.checkout.Confirmed() {
		return nil, fmt.Errorf("%w: booking already confirmed, start a new session", domain.ErrInvalidTransition)
	}

	items, err := s.summaryItems()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrNoSelection
	}

	counts := PassengerCounts{
		Adults:   s.Request.Adults,
		Children: s.Request.Children,
		Infants:  s.Request.Infants,
	}

	checkout, err := NewCheckout(items, counts, gateway, store, clock, log)
	if err != nil {
		return nil, err
	}

	s.checkout = checkout
	return checkout, nil
}

// Checkout returns the active checkout, if one was started.
func (s *Session) Checkout() (*Checkout, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.checkout == nil {
		return nil, false
	}
	return s.checkout, true
}

// summaryItems snapshots the selected offers into booking summary items.
// Selections are validated against the cached candidate set: a refinement
// may hide a selected offer from view without invalidating the choice, but
// an id that left the result set entirely is a stale reference.
func (s *Session) summaryItems() ([]domain.BookingSummaryItem, error) {
	current := s.selection.Current()
	items := make([]domain.BookingSummaryItem, 0, len(current))

	// Fixed iteration order keeps quotes and drafts deterministic.
	for _, category := range []domain.Category{
		domain.CategoryFlight, domain.CategoryHotel, domain.CategoryCar, domain.CategoryActivity,
	} {
		offerID, ok := current[category]
		if !ok {
			continue
		}
		offer, found := FindOffer(s.candidates, offerID)
		if !found {
			return nil, domain.NewUnknownOfferError(offerID)
		}
		items = append(items, s.summaryItem(offer))
	}

	return items, nil
}

// summaryItem converts one offer into its frozen summary line. The switch is
// exhaustive over the closed offer sum type.
func (s *Session) summaryItem(offer domain.Offer) domain.BookingSummaryItem {
	price := offer.UnitPrice()
	item := domain.BookingSummaryItem{
		OfferID:   offer.OfferID(),
		Category:  offer.OfferCategory(),
		UnitPrice: price.Amount,
		Currency:  price.Currency,
		Quantity:  1,
	}

	switch o := offer.(type) {
	case domain.FlightOffer:
		dep, arr := o.DepartureTime(), o.ArrivalTime()
		item.Title = fmt.Sprintf("%s to %s", o.Segments[0].DepartureAirport, o.Segments[len(o.Segments)-1].ArrivalAirport)
		item.Description = fmt.Sprintf("%s, %s, %s", o.Segments[0].FlightNumber, o.CabinClass, stopsLabel(o.Stops()))
		item.Quantity = s.Request.Travelers()
		item.StartDate = &dep
		item.EndDate = &arr
	case domain.HotelOffer:
		in, out := o.CheckIn, o.CheckOut
		item.Title = o.Name
		item.Description = fmt.Sprintf("%.1f-star, %d nights", o.StarRating, o.Nights)
		item.Quantity = o.Nights
		item.StartDate = &in
		item.EndDate = &out
	case domain.CarOffer:
		item.Title = fmt.Sprintf("%s %s", o.Vendor, o.CategoryTag)
		item.Description = fmt.Sprintf("%d-day rental, seats %d", o.Days, o.Capacity)
		item.Quantity = o.Days
	case domain.ActivityOffer:
		date := o.Date
		item.Title = o.Name
		item.Description = fmt.Sprintf("%d participants", o.Participants)
		item.Quantity = o.Participants
		item.StartDate = &date
	}

	return item
}

func stopsLabel(stops int) string {
	if stops == 0 {
		return "direct"
	}
	if stops == 1 {
		return "1 stop"
	}
	return strconv.Itoa(stops) + " stops"
}

// SessionManager tracks active booking sessions with idle expiry.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	clock    timeutil.Clock
}

// NewSessionManager creates a session manager. Sessions idle longer than ttl
// are treated as expired on access.
func NewSessionManager(ttl time.Duration, clock timeutil.Clock) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		clock:    clock,
	}
}

// Create registers a new session for a search result.
func (m *SessionManager) Create(req domain.SearchRequest, criteria *domain.FilterCriteria, result *SearchResult) *Session {
	now := m.clock.Now()
	session := &Session{
		ID:         uuid.New().String(),
		Request:    req,
		Criteria:   criteria,
		candidates: result.Candidates,
		visible:    result.Offers,
		selection:  domain.NewSelection(),
		createdAt:  now,
		lastSeen:   now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return session
}

// Get returns the session with the given id, refreshing its idle timer.
// Returns ErrSessionNotFound for unknown or expired ids.
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	now := m.clock.Now()
	if m.ttl > 0 && now.Sub(session.lastSeen) > m.ttl {
		delete(m.sessions, id)
		return nil, fmt.Errorf("%w: session expired", domain.ErrSessionNotFound)
	}

	session.lastSeen = now
	return session, nil
}

// Sweep removes expired sessions and returns how many were dropped.
func (m *SessionManager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ttl <= 0 {
		return 0
	}

	now := m.clock.Now()
	dropped := 0
	for id, session := range m.sessions {
		if now.Sub(session.lastSeen) > m.ttl {
			delete(m.sessions, id)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of tracked sessions.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
