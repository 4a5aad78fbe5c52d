package pricing

import (
	"context"

	"github.com/safespace/backend/internal/domain/pricing"
	"github.com/safespace/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CheckInput is a price check request
type CheckInput struct {
	PackageID         string
	PromoCode         string
	PreferredCurrency string
	Headers           pricing.Headers
}

// PackageInfo describes a purchasable package
type PackageInfo struct {
	ID        string
	Label     string
	Sessions  int
	GHSAmount float64
}

// Service quotes session prices for the caller's location
type Service struct {
	calculator *pricing.Calculator
	metrics    *telemetry.BookingMetrics
	logger     *zap.Logger
}

// NewService creates a pricing service. metrics may be nil.
func NewService(calculator *pricing.Calculator, metrics *telemetry.BookingMetrics, logger *zap.Logger) *Service {
	return &Service{
		calculator: calculator,
		metrics:    metrics,
		logger:     logger,
	}
}

// Check computes the price of a package for the requesting client
func (s *Service) Check(ctx context.Context, input CheckInput) (*pricing.PriceQuote, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "pricing", "check",
		telemetry.WithAttribute(telemetry.SpanAttrPackageID, input.PackageID))
	defer span.End()

	quote, err := s.calculator.Quote(ctx, pricing.QuoteRequest{
		PackageID: input.PackageID,
		PromoCode: input.PromoCode,
		Location: pricing.LocationInput{
			Headers: input.Headers,
			Hint:    input.PreferredCurrency,
		},
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrCurrency, string(quote.Currency()),
		telemetry.SpanAttrLocationSource, string(quote.Location.Source),
		telemetry.SpanAttrPromoApplied, quote.PromoApplied,
	)
	s.metrics.RecordQuote(ctx, string(quote.Currency()), string(quote.Location.Source), quote.PromoApplied)

	s.logger.Debug("Price quoted",
		zap.String("package", string(quote.Package.ID)),
		zap.String("country", quote.Location.Country),
		zap.String("source", string(quote.Location.Source)),
		zap.String("currency", string(quote.Currency())),
		zap.String("amount", quote.Amount.Amount().StringFixed(2)),
		zap.Bool("promo_applied", quote.PromoApplied),
	)
	return &quote, nil
}

// Packages lists the packages with their settlement price
func (s *Service) Packages() []PackageInfo {
	pkgs := pricing.Packages()
	out := make([]PackageInfo, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, PackageInfo{
			ID:        string(p.ID),
			Label:     p.Label,
			Sessions:  p.Sessions,
			GHSAmount: p.Price.Float64(),
		})
	}
	return out
}
