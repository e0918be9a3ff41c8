package http

import (
	"time"

	"github.com/tripstack/travel-booking-engine/internal/domain"
	"github.com/tripstack/travel-booking-engine/internal/usecase"
)

// SessionResponseDTO is the response for search and refine calls: the
// session handle plus the display-ordered offers.
type SessionResponseDTO struct {
	SessionID string                  `json:"session_id"`
	Metadata  *usecase.SearchMetadata `json:"metadata,omitempty"`
	Offers    []OfferDTO              `json:"offers"`
}

// OfferDTO is the wire form of the offer union. Category discriminates
// which of the detail blocks is present.
type OfferDTO struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Price    PriceDTO `json:"price"`
	Rating   float64  `json:"rating"`

	Flight   *FlightDetailDTO   `json:"flight,omitempty"`
	Hotel    *HotelDetailDTO    `json:"hotel,omitempty"`
	Car      *CarDetailDTO      `json:"car,omitempty"`
	Activity *ActivityDetailDTO `json:"activity,omitempty"`
}

// PriceDTO represents price information.
type PriceDTO struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// FlightDetailDTO carries flight-specific offer fields.
type FlightDetailDTO struct {
	Segments             []SegmentDTO `json:"segments"`
	Stops                int          `json:"stops"`
	CabinClass           string       `json:"cabin_class"`
	Refundable           bool         `json:"refundable"`
	SeatsRemaining       int          `json:"seats_remaining"`
	TotalDurationMinutes int          `json:"total_duration_minutes"`
	DepartureTime        string       `json:"departure_time"`
	ArrivalTime          string       `json:"arrival_time"`
}

// SegmentDTO represents one flight leg.
type SegmentDTO struct {
	DepartureAirport string `json:"departure_airport"`
	ArrivalAirport   string `json:"arrival_airport"`
	DepartureTime    string `json:"departure_time"`
	ArrivalTime      string `json:"arrival_time"`
	CarrierCode      string `json:"carrier_code"`
	FlightNumber     string `json:"flight_number"`
	DurationMinutes  int    `json:"duration_minutes"`
}

// HotelDetailDTO carries hotel-specific offer fields.
type HotelDetailDTO struct {
	Name       string   `json:"name"`
	Nights     int      `json:"nights"`
	StarRating float64  `json:"star_rating"`
	Amenities  []string `json:"amenities"`
	CheckIn    string   `json:"check_in"`
	CheckOut   string   `json:"check_out"`
}

// CarDetailDTO carries car-rental-specific offer fields.
type CarDetailDTO struct {
	Vendor   string `json:"vendor"`
	Days     int    `json:"days"`
	Class    string `json:"class"`
	Capacity int    `json:"capacity"`
}

// ActivityDetailDTO carries activity-specific offer fields.
type ActivityDetailDTO struct {
	Name            string  `json:"name"`
	Participants    int     `json:"participants"`
	MinParticipants int     `json:"min_participants"`
	MaxParticipants int     `json:"max_participants"`
	Rating          float64 `json:"rating"`
	Date            string  `json:"date"`
}

// SelectionResponseDTO is the response for selection changes: the current
// picks plus the recomputed quote.
type SelectionResponseDTO struct {
	Selection map[string]string `json:"selection"`
	Quote     *QuoteDTO         `json:"quote,omitempty"`
}

// QuoteDTO is the pricing breakdown for the current selection.
type QuoteDTO struct {
	Subtotal float64 `json:"subtotal"`
	Taxes    float64 `json:"taxes"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

// CheckoutStateDTO describes where the checkout stands after an operation.
type CheckoutStateDTO struct {
	BookingReference string    `json:"booking_reference"`
	Step             string    `json:"step"`
	Quote            QuoteDTO  `json:"quote"`
	Items            []ItemDTO `json:"items"`
}

// ItemDTO is one frozen booking line.
type ItemDTO struct {
	OfferID     string  `json:"offer_id"`
	Category    string  `json:"category"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
	Currency    string  `json:"currency"`
	Quantity    int     `json:"quantity"`
	StartDate   string  `json:"start_date,omitempty"`
	EndDate     string  `json:"end_date,omitempty"`
}

// ConfirmationDTO is the response for a successful payment.
type ConfirmationDTO struct {
	BookingReference string     `json:"booking_reference"`
	Step             string     `json:"step"`
	Payment          PaymentDTO `json:"payment"`
}

// PaymentDTO is the settled payment summary.
type PaymentDTO struct {
	TransactionID    string  `json:"transaction_id"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	Status           string  `json:"status"`
	Method           string  `json:"method"`
	Timestamp        string  `json:"timestamp"`
	MaskedInstrument string  `json:"masked_instrument,omitempty"`
}

// ReceiptDTO is the wire form of a booking receipt.
type ReceiptDTO struct {
	ReceiptNumber    string           `json:"receipt_number"`
	BookingReference string           `json:"booking_reference"`
	IssueDate        string           `json:"issue_date"`
	Customer         CustomerDTO      `json:"customer"`
	Lines            []ReceiptLineDTO `json:"lines"`
	Subtotal         float64          `json:"subtotal"`
	Taxes            float64          `json:"taxes"`
	Total            float64          `json:"total"`
	Currency         string           `json:"currency"`
	TransactionID    string           `json:"transaction_id"`
	PaymentMethod    string           `json:"payment_method"`
	Instrument       string           `json:"instrument,omitempty"`
}

// CustomerDTO identifies the booking contact on a receipt.
type CustomerDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// ReceiptLineDTO is one priced line on a receipt.
type ReceiptLineDTO struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"line_total"`
}

const wireTimeFormat = time.RFC3339

// ToSessionResponseDTO builds the session response for search/refine calls.
func ToSessionResponseDTO(sessionID string, offers []domain.Offer, meta *usecase.SearchMetadata) *SessionResponseDTO {
	dto := &SessionResponseDTO{
		SessionID: sessionID,
		Metadata:  meta,
		Offers:    make([]OfferDTO, 0, len(offers)),
	}
	for _, offer := range offers {
		dto.Offers = append(dto.Offers, ToOfferDTO(offer))
	}
	return dto
}

// ToOfferDTO converts one domain offer to its wire form.
func ToOfferDTO(offer domain.Offer) OfferDTO {
	price := offer.UnitPrice()
	dto := OfferDTO{
		ID:       offer.OfferID(),
		Category: string(offer.OfferCategory()),
		Price:    PriceDTO{Amount: price.Amount, Currency: price.Currency},
		Rating:   offer.QualityScore(),
	}

	switch o := offer.(type) {
	case domain.FlightOffer:
		segments := make([]SegmentDTO, 0, len(o.Segments))
		for _, seg := range o.Segments {
			segments = append(segments, SegmentDTO{
				DepartureAirport: seg.DepartureAirport,
				ArrivalAirport:   seg.ArrivalAirport,
				DepartureTime:    seg.DepartureTime.Format(wireTimeFormat),
				ArrivalTime:      seg.ArrivalTime.Format(wireTimeFormat),
				CarrierCode:      seg.CarrierCode,
				FlightNumber:     seg.FlightNumber,
				DurationMinutes:  seg.DurationMinutes,
			})
		}
		dto.Flight = &FlightDetailDTO{
			Segments:             segments,
			Stops:                o.Stops(),
			CabinClass:           o.CabinClass,
			Refundable:           o.Refundable,
			SeatsRemaining:       o.SeatsRemaining,
			TotalDurationMinutes: o.TotalDurationMinutes,
			DepartureTime:        o.DepartureTime().Format(wireTimeFormat),
			ArrivalTime:          o.ArrivalTime().Format(wireTimeFormat),
		}
	case domain.HotelOffer:
		dto.Hotel = &HotelDetailDTO{
			Name:       o.Name,
			Nights:     o.Nights,
			StarRating: o.StarRating,
			Amenities:  o.Amenities,
			CheckIn:    o.CheckIn.Format("2006-01-02"),
			CheckOut:   o.CheckOut.Format("2006-01-02"),
		}
	case domain.CarOffer:
		dto.Car = &CarDetailDTO{
			Vendor:   o.Vendor,
			Days:     o.Days,
			Class:    o.CategoryTag,
			Capacity: o.Capacity,
		}
	case domain.ActivityOffer:
		dto.Activity = &ActivityDetailDTO{
			Name:            o.Name,
			Participants:    o.Participants,
			MinParticipants: o.MinParticipants,
			MaxParticipants: o.MaxParticipants,
			Rating:          o.Rating,
			Date:            o.Date.Format(wireTimeFormat),
		}
	}

	return dto
}

// ToSelectionResponseDTO builds the selection response with a fresh quote.
func ToSelectionResponseDTO(selection map[domain.Category]string, quote *usecase.Quote) *SelectionResponseDTO {
	picks := make(map[string]string, len(selection))
	for category, offerID := range selection {
		picks[string(category)] = offerID
	}

	dto := &SelectionResponseDTO{Selection: picks}
	if quote != nil {
		dto.Quote = ToQuoteDTO(*quote)
	}
	return dto
}

// ToQuoteDTO converts a pricing quote to its wire form.
func ToQuoteDTO(q usecase.Quote) *QuoteDTO {
	return &QuoteDTO{
		Subtotal: q.Subtotal,
		Taxes:    q.Taxes,
		Total:    q.Total,
		Currency: q.Currency,
	}
}

// ToCheckoutStateDTO describes the checkout after a step submission.
func ToCheckoutStateDTO(checkout *usecase.Checkout) *CheckoutStateDTO {
	draft := checkout.Draft()
	quote := checkout.Quote()

	items := make([]ItemDTO, 0, len(draft.Items))
	for _, item := range draft.Items {
		dto := ItemDTO{
			OfferID:     item.OfferID,
			Category:    string(item.Category),
			Title:       item.Title,
			Description: item.Description,
			UnitPrice:   item.UnitPrice,
			Currency:    item.Currency,
			Quantity:    item.Quantity,
		}
		if item.StartDate != nil {
			dto.StartDate = item.StartDate.Format(wireTimeFormat)
		}
		if item.EndDate != nil {
			dto.EndDate = item.EndDate.Format(wireTimeFormat)
		}
		items = append(items, dto)
	}

	return &CheckoutStateDTO{
		BookingReference: draft.Reference,
		Step:             string(checkout.Step()),
		Quote:            *ToQuoteDTO(quote),
		Items:            items,
	}
}

// ToConfirmationDTO builds the response for a confirmed payment.
func ToConfirmationDTO(reference string, details domain.PaymentDetails) *ConfirmationDTO {
	return &ConfirmationDTO{
		BookingReference: reference,
		Step:             string(usecase.StepConfirmation),
		Payment: PaymentDTO{
			TransactionID:    details.TransactionID,
			Amount:           details.Amount,
			Currency:         details.Currency,
			Status:           string(details.Status),
			Method:           details.Method,
			Timestamp:        details.Timestamp.Format(wireTimeFormat),
			MaskedInstrument: details.MaskedInstrument,
		},
	}
}

// ToReceiptDTO converts a receipt to its wire form.
func ToReceiptDTO(receipt domain.Receipt) *ReceiptDTO {
	lines := make([]ReceiptLineDTO, 0, len(receipt.Lines))
	for _, line := range receipt.Lines {
		lines = append(lines, ReceiptLineDTO{
			Title:       line.Title,
			Description: line.Description,
			Category:    string(line.Category),
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			LineTotal:   line.LineTotal,
		})
	}

	return &ReceiptDTO{
		ReceiptNumber:    receipt.ReceiptNumber,
		BookingReference: receipt.BookingReference,
		IssueDate:        receipt.IssueDate.Format(wireTimeFormat),
		Customer: CustomerDTO{
			Name:  receipt.Customer.Name,
			Email: receipt.Customer.Email,
			Phone: receipt.Customer.Phone,
		},
		Lines:         lines,
		Subtotal:      receipt.Subtotal,
		Taxes:         receipt.Taxes,
		Total:         receipt.Total,
		Currency:      receipt.Currency,
		TransactionID: receipt.TransactionID,
		PaymentMethod: receipt.PaymentMethod,
		Instrument:    receipt.Instrument,
	}
}
