package valueobject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	GHS Currency = "GHS" // Ghanaian Cedi (settlement)
	USD Currency = "USD" // US Dollar
	GBP Currency = "GBP" // British Pound
	EUR Currency = "EUR" // Euro
	CAD Currency = "CAD" // Canadian Dollar
)

// SettlementCurrency is the currency payments are actually charged in
const SettlementCurrency = GHS

// minorUnitsPerMajor is the number of minor units (pesewas, cents) per unit
var minorUnitsPerMajor = decimal.NewFromInt(100)

var hundred = decimal.NewFromInt(100)

// ParseCurrency normalises a currency code. It does not check support.
func ParseCurrency(code string) Currency {
	return Currency(strings.ToUpper(strings.TrimSpace(code)))
}

// Money is a value object representing monetary amounts
// It is immutable - all operations return new Money instances
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{
		amount:   amount,
		currency: currency,
	}, nil
}

// NewMoneyFromInt creates Money from a whole number of major units
func NewMoneyFromInt(amount int64, currency Currency) Money {
	return Money{amount: decimal.NewFromInt(amount), currency: currency}
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// PercentOff returns m reduced by pct percent: amount - amount*pct/100.
// No clamping is applied.
func (m Money) PercentOff(pct decimal.Decimal) Money {
	discount := m.amount.Mul(pct).Div(hundred)
	return Money{amount: m.amount.Sub(discount), currency: m.currency}
}

// Round rounds to the given decimal places, half away from zero
func (m Money) Round(places int32) Money {
	return Money{amount: m.amount.Round(places), currency: m.currency}
}

// MinorUnits returns the amount in minor units (x100), rounded half away from zero
func (m Money) MinorUnits() int64 {
	return m.amount.Mul(minorUnitsPerMajor).Round(0).IntPart()
}

// FromMinorUnits builds Money from an integer amount of minor units
func FromMinorUnits(units int64, currency Currency) Money {
	return Money{amount: decimal.NewFromInt(units).Div(minorUnitsPerMajor), currency: currency}
}

// Equals returns true if both amount and currency are equal
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// Float64 returns the amount as float64 (may lose precision)
func (m Money) Float64() float64 {
	return m.amount.InexactFloat64()
}

// String returns a string representation of the money
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.currency, m.amount.StringFixed(2))
}
