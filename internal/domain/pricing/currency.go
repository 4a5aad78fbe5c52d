package pricing

import (
	"strings"

	"github.com/safespace/backend/internal/domain/shared/valueobject"
)

// CurrencyInfo describes a supported display currency
type CurrencyInfo struct {
	Code        valueobject.Currency
	Symbol      string
	HomeCountry string // used when a client hint names the currency directly
}

var currencies = map[valueobject.Currency]CurrencyInfo{
	valueobject.GHS: {Code: valueobject.GHS, Symbol: "GHS ", HomeCountry: "GH"},
	valueobject.USD: {Code: valueobject.USD, Symbol: "$", HomeCountry: "US"},
	valueobject.GBP: {Code: valueobject.GBP, Symbol: "£", HomeCountry: "GB"},
	valueobject.EUR: {Code: valueobject.EUR, Symbol: "€", HomeCountry: "DE"},
	valueobject.CAD: {Code: valueobject.CAD, Symbol: "CA$", HomeCountry: "CA"},
}

// euroArea lists the members of the euro area
var euroArea = []string{
	"AT", "BE", "CY", "DE", "EE", "ES", "FI", "FR", "GR", "HR",
	"IE", "IT", "LT", "LU", "LV", "MT", "NL", "PT", "SI", "SK",
}

var countryCurrency = func() map[string]valueobject.Currency {
	m := map[string]valueobject.Currency{
		"GH": valueobject.GHS,
		"US": valueobject.USD,
		"GB": valueobject.GBP,
		"CA": valueobject.CAD,
	}
	for _, c := range euroArea {
		m[c] = valueobject.EUR
	}
	return m
}()

// LookupCurrency returns the info for a supported currency code
func LookupCurrency(code valueobject.Currency) (CurrencyInfo, bool) {
	info, ok := currencies[code]
	return info, ok
}

// Symbol returns the display symbol for a currency, or the code itself
func Symbol(code valueobject.Currency) string {
	if info, ok := currencies[code]; ok {
		return info.Symbol
	}
	return string(code)
}

// CurrencyForCountry maps a country code to its display currency.
// Countries outside the map, and the empty country, map to the settlement currency.
func CurrencyForCountry(country string) valueobject.Currency {
	if cur, ok := countryCurrency[strings.ToUpper(strings.TrimSpace(country))]; ok {
		return cur
	}
	return valueobject.SettlementCurrency
}
