package models

import (
	"time"

	"github.com/safespace/backend/internal/domain/booking"
	"github.com/safespace/backend/internal/domain/pricing"
	"github.com/safespace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BookingModel is the persistence model for the Booking aggregate
type BookingModel struct {
	AggregateModel
	ClientName       string          `gorm:"type:varchar(200);not null"`
	ClientEmail      string          `gorm:"type:varchar(200);not null;index"`
	ClientPhone      string          `gorm:"type:varchar(50)"`
	PackageID        string          `gorm:"type:varchar(10);not null"`
	PreferredDate    string          `gorm:"type:varchar(10);not null"`
	PreferredTime    string          `gorm:"type:varchar(5);not null"`
	Notes            string          `gorm:"type:text"`
	PromoCode        string          `gorm:"type:varchar(50)"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency         string          `gorm:"type:varchar(3);not null"`
	Symbol           string          `gorm:"type:varchar(8);not null"`
	GHSAmount        decimal.Decimal `gorm:"column:ghs_amount;type:decimal(18,2);not null"`
	PromoApplied     bool            `gorm:"not null;default:false"`
	Status           booking.Status  `gorm:"type:varchar(20);not null;index"`
	PaymentReference string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	AuthorizationURL string          `gorm:"type:varchar(500)"`
	IdempotencyKey   *string         `gorm:"type:varchar(128);uniqueIndex"`
	PaidAt           *time.Time
}

// TableName returns the table name for GORM
func (BookingModel) TableName() string {
	return "bookings"
}

// ToDomain converts the persistence model to a domain Booking
func (m *BookingModel) ToDomain() *booking.Booking {
	b := &booking.Booking{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Client: booking.Client{
			Name:  m.ClientName,
			Email: m.ClientEmail,
			Phone: m.ClientPhone,
		},
		PackageID:     pricing.PackageID(m.PackageID),
		PreferredDate: m.PreferredDate,
		PreferredTime: m.PreferredTime,
		Notes:         m.Notes,
		PromoCode:     m.PromoCode,
		Quote: booking.Quote{
			Amount:       m.Amount,
			Currency:     valueobject.Currency(m.Currency),
			Symbol:       m.Symbol,
			GHSAmount:    m.GHSAmount,
			PromoApplied: m.PromoApplied,
		},
		Status:           m.Status,
		PaymentReference: m.PaymentReference,
		AuthorizationURL: m.AuthorizationURL,
		PaidAt:           m.PaidAt,
	}
	if m.IdempotencyKey != nil {
		b.IdempotencyKey = *m.IdempotencyKey
	}
	return b
}

// FromDomain populates the persistence model from a domain Booking.
// An empty idempotency key is stored as NULL so the unique index ignores it.
func (m *BookingModel) FromDomain(b *booking.Booking) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.ClientName = b.Client.Name
	m.ClientEmail = b.Client.Email
	m.ClientPhone = b.Client.Phone
	m.PackageID = string(b.PackageID)
	m.PreferredDate = b.PreferredDate
	m.PreferredTime = b.PreferredTime
	m.Notes = b.Notes
	m.PromoCode = b.PromoCode
	m.Amount = b.Quote.Amount
	m.Currency = string(b.Quote.Currency)
	m.Symbol = b.Quote.Symbol
	m.GHSAmount = b.Quote.GHSAmount
	m.PromoApplied = b.Quote.PromoApplied
	m.Status = b.Status
	m.PaymentReference = b.PaymentReference
	m.AuthorizationURL = b.AuthorizationURL
	m.IdempotencyKey = nil
	if b.IdempotencyKey != "" {
		key := b.IdempotencyKey
		m.IdempotencyKey = &key
	}
	m.PaidAt = b.PaidAt
}

// BookingModelFromDomain creates a new persistence model from a domain Booking
func BookingModelFromDomain(b *booking.Booking) *BookingModel {
	m := &BookingModel{}
	m.FromDomain(b)
	return m
}
