// Package catalog provides the in-process offer catalog. It is a stand-in
// for a real inventory backend: offers are synthesized deterministically
// from the search request, then pushed through the same normalization
// contract a real supplier feed would be.
package catalog

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tripstack/travel-booking-engine/internal/domain"
	"github.com/tripstack/travel-booking-engine/internal/infrastructure/logger"
)

// Name identifies this catalog implementation.
const Name = "synthetic"

// DefaultCurrency is the currency all synthesized offers are priced in.
const DefaultCurrency = "USD"

// carriers is the pool of airline codes used for synthesized itineraries.
var carriers = []struct {
	Code    string
	OnTime  float64
	FareMul float64
}{
	{"GA", 0.91, 1.20},
	{"SQ", 0.94, 1.45},
	{"JT", 0.78, 0.85},
	{"ID", 0.83, 0.95},
	{"QZ", 0.80, 0.90},
}

// hubs is the pool of connecting airports for multi-leg itineraries.
var hubs = []string{"SIN", "KUL", "BKK", "HKG", "SUB"}

// cabinMultiplier scales fares by travel class.
var cabinMultiplier = map[string]float64{
	"economy":  1.0,
	"business": 2.8,
	"first":    4.5,
}

// Catalog synthesizes candidate offers for a search request.
// Identical requests always produce identical offers.
type Catalog struct {
	log *logger.Logger
}

// New creates a synthetic catalog.
func New(log *logger.Logger) *Catalog {
	if log == nil {
		log = logger.Nop()
	}
	return &Catalog{log: log}
}

// Search implements domain.OfferCatalog. Categories are synthesized
// concurrently and every produced offer is validated before it leaves the
// catalog; offers failing the normalization contract are dropped.
func (c *Catalog) Search(ctx context.Context, req domain.SearchRequest) ([]domain.Offer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		buckets = make(map[domain.Category][]domain.Offer, 4)
	)

	collect := func(category domain.Category, offers []domain.Offer) {
		mu.Lock()
		defer mu.Unlock()
		buckets[category] = offers
	}

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		collect(domain.CategoryFlight, c.normalize(synthesizeFlights(req)))
		return nil
	})
	if req.IncludeHotel {
		g.Go(func() error {
			collect(domain.CategoryHotel, c.normalize(synthesizeHotels(req)))
			return nil
		})
	}
	if req.IncludeCar {
		g.Go(func() error {
			collect(domain.CategoryCar, c.normalize(synthesizeCars(req)))
			return nil
		})
	}
	if req.IncludeActivity {
		g.Go(func() error {
			collect(domain.CategoryActivity, c.normalize(synthesizeActivities(req)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Deterministic category order regardless of goroutine completion.
	var result []domain.Offer
	for _, category := range []domain.Category{
		domain.CategoryFlight, domain.CategoryHotel, domain.CategoryCar, domain.CategoryActivity,
	} {
		result = append(result, buckets[category]...)
	}
	return result, nil
}

// normalize enforces the catalog's consistency contract: every offer that
// leaves the catalog passes Validate(). Invalid offers are dropped, not
// repaired.
func (c *Catalog) normalize(offers []domain.Offer) []domain.Offer {
	result := make([]domain.Offer, 0, len(offers))
	for _, o := range offers {
		if err := o.Validate(); err != nil {
			c.log.Debug().
				Str("offer_id", o.OfferID()).
				Err(err).
				Msg("Dropping offer failing normalization")
			continue
		}
		result = append(result, o)
	}
	return result
}

// seededRand builds a deterministic source from the request's search
// context. Identical searches see identical inventory.
func seededRand(req domain.SearchRequest, salt string) *rand.Rand {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%s|%s", req.Origin, req.Destination, req.DepartureDate, req.CabinClass, salt)
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

func departureDay(req domain.SearchRequest) time.Time {
	day, err := time.Parse("2006-01-02", req.DepartureDate)
	if err != nil {
		day = time.Now().AddDate(0, 0, 14).Truncate(24 * time.Hour)
	}
	return day
}

func synthesizeFlights(req domain.SearchRequest) []domain.Offer {
	rng := seededRand(req, "flights")
	day := departureDay(req)

	mul := cabinMultiplier[req.CabinClass]
	if mul == 0 {
		mul = 1.0
	}

	count := 8 + rng.Intn(6)
	offers := make([]domain.Offer, 0, count)

	for i := 0; i < count; i++ {
		carrier := carriers[rng.Intn(len(carriers))]
		stops := rng.Intn(3) // 0..2

		depHour := 5 + rng.Intn(18)
		depMinute := 5 * rng.Intn(12)
		dep := day.Add(time.Duration(depHour)*time.Hour + time.Duration(depMinute)*time.Minute)

		segments := make([]domain.Segment, 0, stops+1)
		from := req.Origin
		cursor := dep
		flown := 0

		for leg := 0; leg <= stops; leg++ {
			to := req.Destination
			if leg < stops {
				to = hubs[rng.Intn(len(hubs))]
			}

			durationMin := 60 + rng.Intn(180)
			arr := cursor.Add(time.Duration(durationMin) * time.Minute)
			flown += durationMin

			segments = append(segments, domain.Segment{
				DepartureAirport: from,
				ArrivalAirport:   to,
				DepartureTime:    cursor,
				ArrivalTime:      arr,
				CarrierCode:      carrier.Code,
				FlightNumber:     fmt.Sprintf("%s-%d", carrier.Code, 100+rng.Intn(900)),
				DurationMinutes:  durationMin,
			})

			from = to
			if leg < stops {
				// Layover before the next leg.
				cursor = arr.Add(time.Duration(45+rng.Intn(90)) * time.Minute)
			} else {
				cursor = arr
			}
		}

		total := int(cursor.Sub(dep).Minutes())
		base := 90.0 + rng.Float64()*320.0
		price := roundCents(base * carrier.FareMul * mul * (1.0 - 0.08*float64(stops)))

		offers = append(offers, domain.FlightOffer{
			ID:                   fmt.Sprintf("FL-%03d", i+1),
			Segments:             segments,
			CabinClass:           req.CabinClass,
			Refundable:           rng.Intn(3) == 0,
			SeatsRemaining:       1 + rng.Intn(9),
			TotalDurationMinutes: total,
			Price:                domain.Price{Amount: price, Currency: DefaultCurrency},
			OnTimeScore:          carrier.OnTime,
		})
	}

	return offers
}

var hotelNames = []string{
	"Harbor View Resort", "Grand Meridian", "Palm Garden Suites",
	"The Lanai", "City Central Inn", "Sunset Bay Hotel",
}

var amenityPool = []string{"wifi", "pool", "breakfast", "spa", "gym", "parking"}

func synthesizeHotels(req domain.SearchRequest) []domain.Offer {
	rng := seededRand(req, "hotels")
	checkIn := departureDay(req)

	nights := 3
	if req.TripType == domain.TripRound && req.ReturnDate != "" {
		if ret, err := time.Parse("2006-01-02", req.ReturnDate); err == nil {
			if n := int(ret.Sub(checkIn).Hours() / 24); n > 0 {
				nights = n
			}
		}
	}

	offers := make([]domain.Offer, 0, len(hotelNames))
	for i, name := range hotelNames {
		stars := 2.5 + float64(rng.Intn(6))*0.5
		offers = append(offers, domain.HotelOffer{
			ID:           fmt.Sprintf("HT-%03d", i+1),
			Name:         name,
			NightlyPrice: domain.Price{Amount: roundCents(45 + rng.Float64()*260*stars/5), Currency: DefaultCurrency},
			Nights:       nights,
			StarRating:   stars,
			Amenities:    pickAmenities(rng),
			CheckIn:      checkIn,
			CheckOut:     checkIn.AddDate(0, 0, nights),
		})
	}
	return offers
}

func pickAmenities(rng *rand.Rand) []string {
	count := 2 + rng.Intn(4)
	picked := make([]string, 0, count)
	for _, idx := range rng.Perm(len(amenityPool))[:count] {
		picked = append(picked, amenityPool[idx])
	}
	return picked
}

var carClasses = []struct {
	Tag      string
	Capacity int
	Base     float64
}{
	{"compact", 4, 28},
	{"sedan", 5, 42},
	{"suv", 7, 65},
	{"van", 9, 78},
}

var carVendors = []string{"Swift Rentals", "BlueLine Cars", "Archipelago Wheels"}

func synthesizeCars(req domain.SearchRequest) []domain.Offer {
	rng := seededRand(req, "cars")

	days := 3
	if req.TripType == domain.TripRound && req.ReturnDate != "" {
		if ret, err := time.Parse("2006-01-02", req.ReturnDate); err == nil {
			if d := int(ret.Sub(departureDay(req)).Hours() / 24); d > 0 {
				days = d
			}
		}
	}

	count := 4 + rng.Intn(3)
	offers := make([]domain.Offer, 0, count)
	for i := 0; i < count; i++ {
		class := carClasses[rng.Intn(len(carClasses))]
		offers = append(offers, domain.CarOffer{
			ID:          fmt.Sprintf("CR-%03d", i+1),
			Vendor:      carVendors[rng.Intn(len(carVendors))],
			DailyPrice:  domain.Price{Amount: roundCents(class.Base * (0.85 + rng.Float64()*0.5)), Currency: DefaultCurrency},
			Days:        days,
			CategoryTag: class.Tag,
			Capacity:    class.Capacity,
		})
	}
	return offers
}

var activityNames = []string{
	"Volcano Sunrise Trek", "Reef Snorkeling Tour", "Old Town Food Walk",
	"Waterfall Canyoning", "Temple Cycling Loop",
}

func synthesizeActivities(req domain.SearchRequest) []domain.Offer {
	rng := seededRand(req, "activities")
	day := departureDay(req).AddDate(0, 0, 1)

	participants := req.Adults + req.Children
	if participants == 0 {
		participants = 1
	}

	offers := make([]domain.Offer, 0, len(activityNames))
	for i, name := range activityNames {
		maxP := 8 + rng.Intn(8)
		if participants > maxP {
			// Group too large for this slot; a real backend would page in
			// alternatives, the stand-in simply skips it.
			continue
		}
		offers = append(offers, domain.ActivityOffer{
			ID:              fmt.Sprintf("AC-%03d", i+1),
			Name:            name,
			PerPersonPrice:  domain.Price{Amount: roundCents(18 + rng.Float64()*90), Currency: DefaultCurrency},
			Participants:    participants,
			MinParticipants: 1,
			MaxParticipants: maxP,
			Rating:          3.0 + float64(rng.Intn(5))*0.5,
			Date:            day.Add(time.Duration(7+rng.Intn(10)) * time.Hour),
		})
	}
	return offers
}

func roundCents(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// Ensure Catalog implements the port at compile time.
var _ domain.OfferCatalog = (*Catalog)(nil)
