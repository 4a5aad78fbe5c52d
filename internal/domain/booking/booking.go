package booking

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/safespace/backend/internal/domain/pricing"
	"github.com/safespace/backend/internal/domain/shared"
	"github.com/safespace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status is the payment lifecycle state of a booking
type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusPaid           Status = "paid"
	StatusPaymentFailed  Status = "payment_failed"
	StatusConfirmed      Status = "confirmed" // no payment due
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPendingPayment, StatusPaid, StatusPaymentFailed, StatusConfirmed:
		return true
	}
	return false
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Quote is the price snapshot stored with a booking
type Quote struct {
	Amount       decimal.Decimal
	Currency     valueobject.Currency
	Symbol       string
	GHSAmount    decimal.Decimal
	PromoApplied bool
}

// QuoteFromPrice snapshots a computed price
func QuoteFromPrice(q pricing.PriceQuote) Quote {
	return Quote{
		Amount:       q.Amount.Amount(),
		Currency:     q.Currency(),
		Symbol:       q.Symbol,
		GHSAmount:    q.GHSAmount.Amount(),
		PromoApplied: q.PromoApplied,
	}
}

// Settlement returns the amount to charge in the settlement currency
func (q Quote) Settlement() valueobject.Money {
	m, _ := valueobject.NewMoney(q.GHSAmount, valueobject.SettlementCurrency)
	return m
}

// Client holds the contact details of the person booking
type Client struct {
	Name  string
	Email string
	Phone string
}

// Booking is a session booking and its payment state
type Booking struct {
	shared.BaseAggregateRoot
	Client           Client
	PackageID        pricing.PackageID
	PreferredDate    string // YYYY-MM-DD
	PreferredTime    string // HH:MM
	Notes            string
	PromoCode        string
	Quote            Quote
	Status           Status
	PaymentReference string
	AuthorizationURL string
	IdempotencyKey   string
	PaidAt           *time.Time
}

// NewBooking validates the client details and schedule and creates a booking
// awaiting payment. The quote must come from the server-side calculator.
func NewBooking(client Client, pkg pricing.PackageID, date, at, notes string, quote pricing.PriceQuote) (*Booking, error) {
	client.Name = strings.TrimSpace(client.Name)
	client.Email = strings.ToLower(strings.TrimSpace(client.Email))
	client.Phone = strings.TrimSpace(client.Phone)

	if client.Name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(client.Name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(client.Email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if len(client.Phone) > 50 {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Preferred date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", at); err != nil {
		return nil, shared.NewDomainError("INVALID_TIME", "Preferred time must be HH:MM")
	}
	if quote.Package.ID != pkg {
		return nil, shared.NewDomainError("QUOTE_MISMATCH", "Quote does not match the selected package")
	}

	b := &Booking{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Client:            client,
		PackageID:         pkg,
		PreferredDate:     date,
		PreferredTime:     at,
		Notes:             strings.TrimSpace(notes),
		PromoCode:         quote.PromoCode,
		Quote:             QuoteFromPrice(quote),
		Status:            StatusPendingPayment,
		PaymentReference:  NewPaymentReference(),
	}
	return b, nil
}

// NewPaymentReference generates a gateway transaction reference
func NewPaymentReference() string {
	return "SS-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:20])
}

// RequiresPayment reports whether anything is due at the gateway
func (b *Booking) RequiresPayment() bool {
	return b.Quote.GHSAmount.IsPositive()
}

// SetIdempotencyKey attaches the client retry key
func (b *Booking) SetIdempotencyKey(key string) {
	b.IdempotencyKey = strings.TrimSpace(key)
}

// AttachAuthorization records the checkout URL returned by the gateway
func (b *Booking) AttachAuthorization(reference, authorizationURL string) {
	if reference != "" {
		b.PaymentReference = reference
	}
	b.AuthorizationURL = authorizationURL
	b.touch()
}

// Confirm marks a booking with nothing to pay as confirmed
func (b *Booking) Confirm() error {
	if b.RequiresPayment() {
		return shared.NewDomainError("PAYMENT_REQUIRED", "Booking has an outstanding amount")
	}
	if b.Status != StatusPendingPayment {
		return shared.NewDomainError("INVALID_STATE", "Booking is not awaiting confirmation")
	}
	b.Status = StatusConfirmed
	b.touch()
	return nil
}

// MarkPaymentFailed records a failed gateway initialisation or charge
func (b *Booking) MarkPaymentFailed() error {
	if b.Status == StatusPaid || b.Status == StatusConfirmed {
		return shared.NewDomainError("INVALID_STATE", "Booking is already settled")
	}
	b.Status = StatusPaymentFailed
	b.touch()
	return nil
}

// MarkPaid records a verified payment. amountMinor is what the gateway
// collected, in settlement minor units, and must equal the quoted settlement
// amount exactly. Underpaid and overpaid charges are both rejected.
func (b *Booking) MarkPaid(amountMinor int64, paidAt time.Time) error {
	if b.Status == StatusPaid {
		return shared.NewDomainError("ALREADY_PAID", "Booking is already paid")
	}
	if b.Status == StatusConfirmed {
		return shared.NewDomainError("INVALID_STATE", "Booking required no payment")
	}
	if due := b.Quote.Settlement().MinorUnits(); amountMinor != due {
		return shared.NewDomainError("AMOUNT_MISMATCH", "Paid amount does not match the booking")
	}
	b.Status = StatusPaid
	b.PaidAt = &paidAt
	b.touch()
	return nil
}

// IsSettled reports whether the booking needs no further payment action
func (b *Booking) IsSettled() bool {
	return b.Status == StatusPaid || b.Status == StatusConfirmed
}

func (b *Booking) touch() {
	b.MarkModified(time.Now())
}
