package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tripstack/travel-booking-engine/internal/domain"
)

// TestOfferSearchUseCase_Search runs the catalog-filter-sort pipeline.
func TestOfferSearchUseCase_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := domain.NewMockOfferCatalog(ctrl)

	candidates := []domain.Offer{
		testFlight("FL-001", "GA", 8, 0, 150),
		testFlight("FL-002", "JT", 9, 0, 80),
		testHotel("HT-001", 120),
	}
	catalog.EXPECT().
		Search(gomock.Any(), gomock.Any()).
		Return(candidates, nil)

	uc := NewOfferSearchUseCase(catalog)

	req := domain.SearchRequest{
		Origin:        "CGK",
		Destination:   "DPS",
		DepartureDate: "2026-09-15",
	}
	criteria := &domain.FilterCriteria{
		Carriers: []string{"GA"},
		SortBy:   domain.SortByPrice,
	}

	result, err := uc.Search(context.Background(), req, criteria)
	require.NoError(t, err)

	// JT flight filtered out; hotel bypasses the carrier predicate.
	require.Len(t, result.Offers, 2)
	assert.Equal(t, "HT-001", result.Offers[0].OfferID())
	assert.Equal(t, "FL-001", result.Offers[1].OfferID())

	// Candidates keep the full normalized set for later refinement.
	assert.Len(t, result.Candidates, 3)
	assert.Equal(t, 2, result.Metadata.TotalResults)
	assert.Equal(t, 3, result.Metadata.CandidateCount)
	assert.GreaterOrEqual(t, result.Metadata.SearchTimeMs, int64(0))
}

// TestOfferSearchUseCase_Search_AppliesDefaults verifies defaults are applied
// before the catalog is queried.
func TestOfferSearchUseCase_Search_AppliesDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := domain.NewMockOfferCatalog(ctrl)

	var seen domain.SearchRequest
	catalog.EXPECT().
		Search(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req domain.SearchRequest) ([]domain.Offer, error) {
			seen = req
			return nil, nil
		})

	uc := NewOfferSearchUseCase(catalog)

	_, err := uc.Search(context.Background(), domain.SearchRequest{
		Origin:        "CGK",
		Destination:   "DPS",
		DepartureDate: "2026-09-15",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, seen.Adults)
	assert.Equal(t, "economy", seen.CabinClass)
	assert.Equal(t, domain.TripOneWay, seen.TripType)
}

// TestOfferSearchUseCase_Search_InvalidRequest rejects before hitting the
// catalog.
func TestOfferSearchUseCase_Search_InvalidRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := domain.NewMockOfferCatalog(ctrl)
	// No Search expectation: the catalog must not be called.

	uc := NewOfferSearchUseCase(catalog)

	_, err := uc.Search(context.Background(), domain.SearchRequest{
		Origin:        "CGK",
		Destination:   "CGK",
		DepartureDate: "2026-09-15",
	}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

// TestOfferSearchUseCase_Search_InvalidCriteria rejects malformed criteria.
func TestOfferSearchUseCase_Search_InvalidCriteria(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := NewOfferSearchUseCase(domain.NewMockOfferCatalog(ctrl))

	_, err := uc.Search(context.Background(), domain.SearchRequest{
		Origin:        "CGK",
		Destination:   "DPS",
		DepartureDate: "2026-09-15",
	}, &domain.FilterCriteria{PriceBand: &domain.PriceRange{Min: 10, Max: 1}})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

// TestOfferSearchUseCase_Search_CatalogError propagates catalog failures.
func TestOfferSearchUseCase_Search_CatalogError(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := domain.NewMockOfferCatalog(ctrl)
	catalog.EXPECT().
		Search(gomock.Any(), gomock.Any()).
		Return(nil, context.DeadlineExceeded)

	uc := NewOfferSearchUseCase(catalog)

	_, err := uc.Search(context.Background(), domain.SearchRequest{
		Origin:        "CGK",
		Destination:   "DPS",
		DepartureDate: "2026-09-15",
	}, nil)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
