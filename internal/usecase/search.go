package usecase

import (
	"context"
	"time"

	"github.com/tripstack/travel-booking-engine/internal/domain"
)

// SearchResult is the outcome of an offer search: the display-ordered subset
// plus the full candidate set the session keeps for later refinement.
type SearchResult struct {
	// Offers is the filtered, sorted subset for display
	Offers []domain.Offer

	// Candidates is the full normalized candidate set before filtering
	Candidates []domain.Offer

	// Metadata describes the search execution
	Metadata SearchMetadata
}

// SearchMetadata contains metadata about the search execution.
type SearchMetadata struct {
	// TotalResults is the number of offers after filtering and sorting
	TotalResults int `json:"total_results"`

	// CandidateCount is the number of normalized candidates before filtering
	CandidateCount int `json:"candidate_count"`

	// SearchTimeMs is the total search duration in milliseconds
	SearchTimeMs int64 `json:"search_time_ms"`
}

// OfferSearchUseCase defines the interface for offer search operations.
type OfferSearchUseCase interface {
	// Search produces candidates via the catalog and applies the given
	// criteria and sort key.
	Search(ctx context.Context, req domain.SearchRequest, criteria *domain.FilterCriteria) (*SearchResult, error)
}

type offerSearchUseCase struct {
	catalog domain.OfferCatalog
}

// NewOfferSearchUseCase creates an OfferSearchUseCase backed by the given
// catalog.
func NewOfferSearchUseCase(catalog domain.OfferCatalog) OfferSearchUseCase {
	return &offerSearchUseCase{catalog: catalog}
}

// Search implements OfferSearchUseCase.
func (uc *offerSearchUseCase) Search(ctx context.Context, req domain.SearchRequest, criteria *domain.FilterCriteria) (*SearchResult, error) {
	start := time.Now()

	req.SetDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	candidates, err := uc.catalog.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	filtered := ApplyFilters(candidates, criteria)

	sortBy := domain.SortByPrice
	if criteria != nil && criteria.SortBy != "" {
		sortBy = criteria.SortBy
	}
	sorted := SortOffers(filtered, sortBy)

	return &SearchResult{
		Offers:     sorted,
		Candidates: candidates,
		Metadata: SearchMetadata{
			TotalResults:   len(sorted),
			CandidateCount: len(candidates),
			SearchTimeMs:   time.Since(start).Milliseconds(),
		},
	}, nil
}

// Ensure offerSearchUseCase implements OfferSearchUseCase at compile time.
var _ OfferSearchUseCase = (*offerSearchUseCase)(nil)
