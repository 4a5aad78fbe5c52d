package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/safespace/backend/internal/domain/booking"
)

// SubmitBookingRequest is the public booking form
type SubmitBookingRequest struct {
	Name              string `json:"name" binding:"required,min=1,max=200"`
	Email             string `json:"email" binding:"required,email,max=254"`
	Phone             string `json:"phone" binding:"max=50"`
	Sessions          string `json:"sessions" binding:"required,oneof=200 550 900"`
	PreferredDate     string `json:"preferredDate" binding:"required,datetime=2006-01-02"`
	PreferredTime     string `json:"preferredTime" binding:"required,datetime=15:04"`
	Notes             string `json:"notes" binding:"max=2000"`
	PromoCode         string `json:"promoCode" binding:"max=50"`
	PreferredCurrency string `json:"preferredCurrency" binding:"max=35"`
}

// PriceInfo is the quote shown to the client
type PriceInfo struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Symbol    string  `json:"symbol"`
	GHSAmount float64 `json:"ghsAmount"`
}

// SubmitResult is returned after a booking is stored
type SubmitResult struct {
	BookingID        uuid.UUID `json:"bookingId"`
	Reference        string    `json:"reference"`
	AuthorizationURL string    `json:"authorizationUrl,omitempty"`
	Status           string    `json:"status"`
	PriceInfo        PriceInfo `json:"priceInfo"`
	PromoApplied     bool      `json:"promoApplied"`
	// EmailSent is set only for bookings confirmed without payment
	EmailSent *bool `json:"emailSent,omitempty"`
	// Replayed marks a response served for a repeated Idempotency-Key
	Replayed bool `json:"-"`
}

// VerifyResult is the outcome of a payment verification
type VerifyResult struct {
	BookingID uuid.UUID  `json:"bookingId"`
	Reference string     `json:"reference"`
	Status    string     `json:"status"`
	Paid      bool       `json:"paid"`
	PaidAt    *time.Time `json:"paidAt,omitempty"`
	EmailSent bool       `json:"emailSent"`
}

// ListBookingsInput contains admin list filters
type ListBookingsInput struct {
	Status   string
	Email    string
	Page     int
	PageSize int
}

// BookingResponse is a booking in admin responses
type BookingResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	Sessions         string     `json:"sessions"`
	PreferredDate    string     `json:"preferredDate"`
	PreferredTime    string     `json:"preferredTime"`
	Notes            string     `json:"notes"`
	PromoCode        string     `json:"promoCode"`
	PriceInfo        PriceInfo  `json:"priceInfo"`
	PromoApplied     bool       `json:"promoApplied"`
	Status           string     `json:"status"`
	PaymentReference string     `json:"paymentReference"`
	PaidAt           *time.Time `json:"paidAt"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func priceInfoOf(q booking.Quote) PriceInfo {
	return PriceInfo{
		Amount:    q.Amount.Round(2).InexactFloat64(),
		Currency:  string(q.Currency),
		Symbol:    q.Symbol,
		GHSAmount: q.GHSAmount.Round(2).InexactFloat64(),
	}
}

func toSubmitResult(b *booking.Booking) *SubmitResult {
	return &SubmitResult{
		BookingID:        b.ID,
		Reference:        b.PaymentReference,
		AuthorizationURL: b.AuthorizationURL,
		Status:           string(b.Status),
		PriceInfo:        priceInfoOf(b.Quote),
		PromoApplied:     b.Quote.PromoApplied,
	}
}

func toVerifyResult(b *booking.Booking, emailSent bool) *VerifyResult {
	return &VerifyResult{
		BookingID: b.ID,
		Reference: b.PaymentReference,
		Status:    string(b.Status),
		Paid:      b.Status == booking.StatusPaid,
		PaidAt:    b.PaidAt,
		EmailSent: emailSent,
	}
}

func toBookingResponse(b *booking.Booking) *BookingResponse {
	return &BookingResponse{
		ID:               b.ID,
		Name:             b.Client.Name,
		Email:            b.Client.Email,
		Phone:            b.Client.Phone,
		Sessions:         string(b.PackageID),
		PreferredDate:    b.PreferredDate,
		PreferredTime:    b.PreferredTime,
		Notes:            b.Notes,
		PromoCode:        b.PromoCode,
		PriceInfo:        priceInfoOf(b.Quote),
		PromoApplied:     b.Quote.PromoApplied,
		Status:           string(b.Status),
		PaymentReference: b.PaymentReference,
		PaidAt:           b.PaidAt,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}
