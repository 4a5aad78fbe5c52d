package pricing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/safespace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var maxPercent = decimal.NewFromInt(100)

// PromoCode is a discount code and its percentage
type PromoCode struct {
	Code    string
	Percent decimal.Decimal
}

// PromoList is an immutable set of promo codes keyed by normalised code.
// A nil *PromoList is valid and contains no codes.
type PromoList struct {
	codes map[string]PromoCode
}

// NormalizePromoCode upper-cases and trims a code
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewPromoList builds a list from already-parsed codes. Percentages must lie
// in (0, 100]; duplicate codes are rejected.
func NewPromoList(codes ...PromoCode) (*PromoList, error) {
	l := &PromoList{codes: make(map[string]PromoCode, len(codes))}
	for _, pc := range codes {
		code := NormalizePromoCode(pc.Code)
		if code == "" {
			return nil, fmt.Errorf("promo code cannot be empty")
		}
		if !pc.Percent.IsPositive() || pc.Percent.GreaterThan(maxPercent) {
			return nil, fmt.Errorf("promo code %s: percentage must be greater than 0 and at most 100, got %s", code, pc.Percent)
		}
		if _, dup := l.codes[code]; dup {
			return nil, fmt.Errorf("promo code %s is defined more than once", code)
		}
		l.codes[code] = PromoCode{Code: code, Percent: pc.Percent}
	}
	return l, nil
}

// ParsePromoList parses "CODE:PERCENT[,CODE:PERCENT...]". Blank input yields
// an empty list.
func ParsePromoList(raw string) (*PromoList, error) {
	var codes []PromoCode
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		code, pct, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("promo entry %q: expected CODE:PERCENT", entry)
		}
		percent, err := decimal.NewFromString(strings.TrimSpace(pct))
		if err != nil {
			return nil, fmt.Errorf("promo entry %q: invalid percentage: %w", entry, err)
		}
		codes = append(codes, PromoCode{Code: code, Percent: percent})
	}
	return NewPromoList(codes...)
}

// Lookup finds a code, ignoring case and surrounding whitespace
func (l *PromoList) Lookup(code string) (PromoCode, bool) {
	if l == nil {
		return PromoCode{}, false
	}
	code = NormalizePromoCode(code)
	if code == "" {
		return PromoCode{}, false
	}
	pc, ok := l.codes[code]
	return pc, ok
}

// Len returns the number of codes
func (l *PromoList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.codes)
}

// Codes returns the codes sorted by name
func (l *PromoList) Codes() []PromoCode {
	if l == nil {
		return nil
	}
	out := make([]PromoCode, 0, len(l.codes))
	for _, pc := range l.codes {
		out = append(out, pc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Adjustment is the outcome of applying a promo code
type Adjustment struct {
	Display    valueobject.Money
	Settlement valueobject.Money
	Applied    bool
	Code       string
}

// Adjust discounts the display and settlement amounts independently when
// code is in the list. Unknown or empty codes pass the amounts through.
func (l *PromoList) Adjust(display, settlement valueobject.Money, code string) Adjustment {
	pc, ok := l.Lookup(code)
	if !ok {
		return Adjustment{Display: display, Settlement: settlement}
	}
	return Adjustment{
		Display:    display.PercentOff(pc.Percent),
		Settlement: settlement.PercentOff(pc.Percent),
		Applied:    true,
		Code:       pc.Code,
	}
}
