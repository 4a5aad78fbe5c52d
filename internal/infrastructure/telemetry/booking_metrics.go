package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope for business metrics
const MeterName = "safespace-backend"

// Attribute keys shared by the business metrics
var (
	AttrCurrency       = attribute.Key("currency")
	AttrLocationSource = attribute.Key("location_source")
	AttrPromo          = attribute.Key("promo_applied")
	AttrStatus         = attribute.Key("status")
	AttrResult         = attribute.Key("result")
	AttrKind           = attribute.Key("kind")
	AttrOperation      = attribute.Key("operation")
)

// BookingMetrics records quotes issued, bookings submitted, payment
// verification outcomes and transactional email results.
type BookingMetrics struct {
	quotes        *Counter
	bookings      *Counter
	verifications *Counter
	emails        *Counter
	gatewayTime   *Histogram
}

// NewBookingMetrics registers the instruments on meter.
func NewBookingMetrics(meter metric.Meter) (*BookingMetrics, error) {
	quotes, err := NewCounter(meter, "pricing.quotes", "Price quotes issued", "{quote}")
	if err != nil {
		return nil, err
	}
	bookings, err := NewCounter(meter, "booking.submitted", "Bookings persisted by resulting status", "{booking}")
	if err != nil {
		return nil, err
	}
	verifications, err := NewCounter(meter, "booking.payment_verifications", "Payment verification outcomes", "{verification}")
	if err != nil {
		return nil, err
	}
	emails, err := NewCounter(meter, "email.sent", "Transactional emails by kind and result", "{email}")
	if err != nil {
		return nil, err
	}
	gatewayTime, err := NewHistogram(meter, "payment.gateway.duration", "Payment gateway call duration", "s", GatewayDurationBuckets...)
	if err != nil {
		return nil, err
	}
	return &BookingMetrics{
		quotes:        quotes,
		bookings:      bookings,
		verifications: verifications,
		emails:        emails,
		gatewayTime:   gatewayTime,
	}, nil
}

// Nil receivers are no-ops so services can run without metrics.

func (m *BookingMetrics) RecordQuote(ctx context.Context, currency, source string, promoApplied bool) {
	if m == nil {
		return
	}
	if source == "" {
		source = "none"
	}
	m.quotes.Inc(ctx, AttrCurrency.String(currency), AttrLocationSource.String(source), AttrPromo.Bool(promoApplied))
}

func (m *BookingMetrics) RecordBooking(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.bookings.Inc(ctx, AttrStatus.String(status))
}

func (m *BookingMetrics) RecordVerification(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.verifications.Inc(ctx, AttrResult.String(result))
}

func (m *BookingMetrics) RecordEmail(ctx context.Context, kind string, sent bool) {
	if m == nil {
		return
	}
	result := "sent"
	if !sent {
		result = "failed"
	}
	m.emails.Inc(ctx, AttrKind.String(kind), AttrResult.String(result))
}

func (m *BookingMetrics) RecordGatewayCall(ctx context.Context, operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.gatewayTime.RecordDuration(ctx, d, AttrOperation.String(operation))
}
