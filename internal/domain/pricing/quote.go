package pricing

import (
	"context"

	"github.com/safespace/backend/internal/domain/shared/valueobject"
)

// amountPlaces is the precision of quoted amounts
const amountPlaces = 2

// PriceQuote is the computed price for one request
type PriceQuote struct {
	Package      SessionPackage
	Amount       valueobject.Money // display amount
	Symbol       string
	GHSAmount    valueobject.Money // settlement amount
	PromoApplied bool
	PromoCode    string // normalised, set only when applied
	Location     LocationSignal
}

// Currency returns the display currency
func (q PriceQuote) Currency() valueobject.Currency {
	return q.Amount.Currency()
}

// QuoteRequest is the input to a price computation
type QuoteRequest struct {
	PackageID string
	PromoCode string
	Location  LocationInput
}

// Calculator chains location resolution, currency mapping, table lookup,
// promo adjustment and rounding. It holds no mutable state.
type Calculator struct {
	table    PriceTable
	promos   *PromoList
	resolver *LocationResolver
}

// NewCalculator creates a calculator. A nil table uses DefaultPriceTable and
// a nil resolver resolves nothing.
func NewCalculator(table PriceTable, promos *PromoList, resolver *LocationResolver) *Calculator {
	if table == nil {
		table = DefaultPriceTable()
	}
	if resolver == nil {
		resolver = NewLocationResolver()
	}
	return &Calculator{table: table, promos: promos, resolver: resolver}
}

// Promos returns the configured promo list
func (c *Calculator) Promos() *PromoList {
	return c.promos
}

// Quote computes the price for req. The only error is ErrUnsupportedPackage,
// returned before any signal is consulted.
func (c *Calculator) Quote(ctx context.Context, req QuoteRequest) (PriceQuote, error) {
	pkg, err := LookupPackage(req.PackageID)
	if err != nil {
		return PriceQuote{}, err
	}

	signal, _ := c.resolver.Resolve(ctx, req.Location)
	currency := CurrencyForCountry(signal.Country)

	display := c.table.Price(pkg, currency)
	settlement := c.table.SettlementPrice(pkg)
	adj := c.promos.Adjust(display, settlement, req.PromoCode)

	return assemble(pkg, adj, signal), nil
}

func assemble(pkg SessionPackage, adj Adjustment, signal LocationSignal) PriceQuote {
	amount := adj.Display.Round(amountPlaces)
	return PriceQuote{
		Package:      pkg,
		Amount:       amount,
		Symbol:       Symbol(amount.Currency()),
		GHSAmount:    adj.Settlement.Round(amountPlaces),
		PromoApplied: adj.Applied,
		PromoCode:    adj.Code,
		Location:     signal,
	}
}
