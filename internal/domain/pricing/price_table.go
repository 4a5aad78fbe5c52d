package pricing

import (
	"github.com/safespace/backend/internal/domain/shared/valueobject"
)

// PriceTable holds the curated display price of each package per currency.
// Entries are maintained by hand and are not derived from exchange rates.
type PriceTable map[PackageID]map[valueobject.Currency]int64

// DefaultPriceTable returns the published price list
func DefaultPriceTable() PriceTable {
	return PriceTable{
		PackageSingle: {
			valueobject.GHS: 200,
			valueobject.USD: 20,
			valueobject.GBP: 16,
			valueobject.EUR: 19,
			valueobject.CAD: 28,
		},
		PackageThree: {
			valueobject.GHS: 550,
			valueobject.USD: 58,
			valueobject.GBP: 44,
			valueobject.EUR: 52,
			valueobject.CAD: 79,
		},
		PackageFive: {
			valueobject.GHS: 900,
			valueobject.USD: 92,
			valueobject.GBP: 72,
			valueobject.EUR: 84,
			valueobject.CAD: 126,
		},
	}
}

// Price returns the display price of pkg in currency. A missing entry falls
// back to the package's settlement price, and the returned money then carries
// the settlement currency.
func (t PriceTable) Price(pkg SessionPackage, currency valueobject.Currency) valueobject.Money {
	if row, ok := t[pkg.ID]; ok {
		if amount, ok := row[currency]; ok {
			return valueobject.NewMoneyFromInt(amount, currency)
		}
	}
	return t.SettlementPrice(pkg)
}

// SettlementPrice returns the price of pkg in the settlement currency
func (t PriceTable) SettlementPrice(pkg SessionPackage) valueobject.Money {
	if row, ok := t[pkg.ID]; ok {
		if amount, ok := row[valueobject.SettlementCurrency]; ok {
			return valueobject.NewMoneyFromInt(amount, valueobject.SettlementCurrency)
		}
	}
	return pkg.Price
}
