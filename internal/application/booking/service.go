package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	pricingapp "github.com/safespace/backend/internal/application/pricing"
	"github.com/safespace/backend/internal/domain/booking"
	"github.com/safespace/backend/internal/domain/pricing"
	"github.com/safespace/backend/internal/domain/shared"
	"github.com/safespace/backend/internal/domain/shared/valueobject"
	"github.com/safespace/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// EventChargeSuccess is the gateway webhook event for a completed charge
const EventChargeSuccess = "charge.success"

var (
	ErrBookingNotFound   = shared.NewDomainError("BOOKING_NOT_FOUND", "Booking not found")
	ErrRequestInProgress = shared.NewDomainError("REQUEST_IN_PROGRESS", "A booking with this Idempotency-Key is still being processed")
	ErrPaymentGateway    = shared.NewDomainError("PAYMENT_GATEWAY", "Payment provider is unavailable, please try again")
	ErrInvalidSignature  = shared.NewDomainError("INVALID_SIGNATURE", "Invalid webhook signature")
)

// PriceChecker quotes a package for the caller
type PriceChecker interface {
	Check(ctx context.Context, input pricingapp.CheckInput) (*pricing.PriceQuote, error)
}

// Notifier sends the booking emails
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, b *booking.Booking) error
	SendBookingNotice(ctx context.Context, b *booking.Booking) error
}

// Config holds booking service settings
type Config struct {
	CallbackURL    string
	IdempotencyTTL time.Duration
}

// SubmitInput is a booking submission with its request context
type SubmitInput struct {
	Request        SubmitBookingRequest
	Headers        pricing.Headers
	IdempotencyKey string
}

// Service takes bookings and settles their payments
type Service struct {
	bookings    booking.BookingRepository
	prices      PriceChecker
	gateway     booking.PaymentGateway
	notifier    Notifier
	idempotency shared.IdempotencyStore
	metrics     *telemetry.BookingMetrics
	cfg         Config
	logger      *zap.Logger
}

// NewService creates a booking service. metrics may be nil.
func NewService(
	bookings booking.BookingRepository,
	prices PriceChecker,
	gateway booking.PaymentGateway,
	notifier Notifier,
	idempotency shared.IdempotencyStore,
	metrics *telemetry.BookingMetrics,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = shared.DefaultIdempotencyConfig().TTL
	}
	return &Service{
		bookings:    bookings,
		prices:      prices,
		gateway:     gateway,
		notifier:    notifier,
		idempotency: idempotency,
		metrics:     metrics,
		cfg:         cfg,
		logger:      logger,
	}
}

// Submit prices the booking on the server, stores it and opens a checkout.
// A zero quote is confirmed without contacting the gateway. A gateway failure
// leaves the booking stored as payment_failed and returns ErrPaymentGateway.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "booking", "submit",
		telemetry.WithAttribute(telemetry.SpanAttrPackageID, input.Request.Sessions))
	defer span.End()

	key := strings.TrimSpace(input.IdempotencyKey)
	if key != "" {
		existing, err := s.bookings.FindByIdempotencyKey(ctx, key)
		switch {
		case err == nil:
			s.logger.Info("Replaying booking for idempotency key",
				zap.String("booking_id", existing.ID.String()))
			result := toSubmitResult(existing)
			result.Replayed = true
			return result, nil
		case !errors.Is(err, shared.ErrNotFound):
			telemetry.RecordError(span, err)
			return nil, err
		}

		reserved, err := s.idempotency.Reserve(ctx, key, s.cfg.IdempotencyTTL)
		if err != nil {
			// The unique index on the key still rejects a concurrent duplicate
			s.logger.Warn("Idempotency store unavailable", zap.Error(err))
		} else if !reserved {
			return nil, ErrRequestInProgress
		}
	}

	b, err := s.create(ctx, input, key)
	if err != nil {
		if key != "" {
			if relErr := s.idempotency.Release(ctx, key); relErr != nil {
				s.logger.Warn("Failed to release idempotency key", zap.Error(relErr))
			}
		}
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrBookingID, b.ID.String(),
		telemetry.SpanAttrPaymentReference, b.PaymentReference,
		telemetry.SpanAttrAmountMinor, b.Quote.Settlement().MinorUnits(),
	)

	if b.Status == booking.StatusConfirmed {
		s.metrics.RecordBooking(ctx, string(b.Status))
		sent := s.sendEmails(ctx, b)
		result := toSubmitResult(b)
		result.EmailSent = &sent
		s.logger.Info("Booking confirmed without payment",
			zap.String("booking_id", b.ID.String()),
			zap.String("promo_code", b.PromoCode))
		return result, nil
	}

	if err := s.openCheckout(ctx, b); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrBookingStatus, string(b.Status))
	telemetry.SetOK(span)
	s.metrics.RecordBooking(ctx, string(b.Status))
	return toSubmitResult(b), nil
}

func (s *Service) create(ctx context.Context, input SubmitInput, key string) (*booking.Booking, error) {
	req := input.Request
	quote, err := s.prices.Check(ctx, pricingapp.CheckInput{
		PackageID:         req.Sessions,
		PromoCode:         req.PromoCode,
		PreferredCurrency: req.PreferredCurrency,
		Headers:           input.Headers,
	})
	if err != nil {
		return nil, err
	}

	b, err := booking.NewBooking(
		booking.Client{Name: req.Name, Email: req.Email, Phone: req.Phone},
		pricing.PackageID(req.Sessions),
		req.PreferredDate,
		req.PreferredTime,
		req.Notes,
		*quote,
	)
	if err != nil {
		return nil, err
	}
	b.SetIdempotencyKey(key)
	if !b.RequiresPayment() {
		if err := b.Confirm(); err != nil {
			return nil, err
		}
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info("Booking created",
		zap.String("booking_id", b.ID.String()),
		zap.String("package", string(b.PackageID)),
		zap.String("currency", string(b.Quote.Currency)),
		zap.String("ghs_amount", b.Quote.GHSAmount.StringFixed(2)),
		zap.Bool("promo_applied", b.Quote.PromoApplied))
	return b, nil
}

func (s *Service) openCheckout(ctx context.Context, b *booking.Booking) error {
	start := time.Now()
	resp, err := s.gateway.Initialize(ctx, booking.InitializeRequest{
		AmountMinor: b.Quote.Settlement().MinorUnits(),
		Currency:    string(valueobject.SettlementCurrency),
		Email:       b.Client.Email,
		Reference:   b.PaymentReference,
		CallbackURL: s.cfg.CallbackURL,
		Metadata: map[string]string{
			"booking_id":     b.ID.String(),
			"package":        string(b.PackageID),
			"client_name":    b.Client.Name,
			"preferred_date": b.PreferredDate,
			"preferred_time": b.PreferredTime,
		},
	})
	s.metrics.RecordGatewayCall(ctx, "initialize", time.Since(start))
	if err != nil {
		s.logger.Error("Payment initialization failed",
			zap.String("booking_id", b.ID.String()),
			zap.String("reference", b.PaymentReference),
			zap.Error(err))
		if markErr := b.MarkPaymentFailed(); markErr == nil {
			if upErr := s.bookings.Update(ctx, b); upErr != nil {
				s.logger.Error("Failed to record payment failure",
					zap.String("booking_id", b.ID.String()), zap.Error(upErr))
			}
		}
		s.metrics.RecordBooking(ctx, string(b.Status))
		return ErrPaymentGateway
	}

	b.AttachAuthorization(resp.Reference, resp.AuthorizationURL)
	if err := s.bookings.Update(ctx, b); err != nil {
		return err
	}
	return nil
}

// Verify asks the gateway for the outcome of a checkout and settles the booking
func (s *Service) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "booking", "verify",
		telemetry.WithAttribute(telemetry.SpanAttrPaymentReference, reference))
	defer span.End()

	b, err := s.findByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if b.IsSettled() {
		s.metrics.RecordVerification(ctx, "already_settled")
		return toVerifyResult(b, false), nil
	}

	start := time.Now()
	v, err := s.gateway.Verify(ctx, b.PaymentReference)
	s.metrics.RecordGatewayCall(ctx, "verify", time.Since(start))
	if err != nil {
		s.logger.Error("Payment verification failed",
			zap.String("reference", b.PaymentReference), zap.Error(err))
		s.metrics.RecordVerification(ctx, "error")
		telemetry.RecordError(span, err)
		return nil, ErrPaymentGateway
	}

	result, err := s.settle(ctx, b, v)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrBookingStatus, result.Status)
	return result, nil
}

// HandleWebhook applies a signed gateway notification. Events other than a
// successful charge, and unknown references, are acknowledged and ignored.
func (s *Service) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "booking", "webhook")
	defer span.End()

	event, err := s.gateway.ParseWebhook(body, signature)
	if err != nil {
		if errors.Is(err, booking.ErrInvalidSignature) {
			s.logger.Warn("Rejected webhook with invalid signature")
			return ErrInvalidSignature
		}
		return shared.NewDomainError("INVALID_WEBHOOK", "Webhook payload could not be decoded")
	}
	telemetry.AddEvent(span, "webhook_received", "event", event.Event)

	if event.Event != EventChargeSuccess {
		s.logger.Debug("Ignoring webhook event", zap.String("event", event.Event))
		return nil
	}

	b, err := s.bookings.FindByReference(ctx, event.Transaction.Reference)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Webhook for unknown reference", zap.String("reference", event.Transaction.Reference))
			return nil
		}
		return err
	}
	if b.IsSettled() {
		return nil
	}

	_, err = s.settle(ctx, b, &event.Transaction)
	if errors.Is(err, shared.ErrConflict) {
		// A concurrent verify already settled it
		return nil
	}
	return err
}

// settle applies a gateway verification to b. Emails are best effort.
func (s *Service) settle(ctx context.Context, b *booking.Booking, v *booking.Verification) (*VerifyResult, error) {
	if !v.Succeeded() {
		if v.Status == booking.ChargeFailed || v.Status == booking.ChargeAbandoned {
			if err := b.MarkPaymentFailed(); err == nil {
				if err := s.bookings.Update(ctx, b); err != nil {
					return nil, err
				}
			}
		}
		s.metrics.RecordVerification(ctx, string(v.Status))
		s.logger.Info("Payment not successful",
			zap.String("reference", b.PaymentReference),
			zap.String("gateway_status", string(v.Status)),
			zap.String("gateway_response", v.GatewayResponse))
		return toVerifyResult(b, false), nil
	}

	if !strings.EqualFold(v.Currency, string(valueobject.SettlementCurrency)) {
		s.metrics.RecordVerification(ctx, "amount_mismatch")
		s.logger.Error("Payment settled in unexpected currency",
			zap.String("reference", b.PaymentReference),
			zap.String("currency", v.Currency))
		return nil, shared.NewDomainError("AMOUNT_MISMATCH", "Paid currency does not match the booking")
	}

	paidAt := v.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	if err := b.MarkPaid(v.AmountMinor, paidAt); err != nil {
		s.metrics.RecordVerification(ctx, "amount_mismatch")
		s.logger.Error("Payment amount does not match booking",
			zap.String("reference", b.PaymentReference),
			zap.Int64("paid_minor", v.AmountMinor),
			zap.Int64("due_minor", b.Quote.Settlement().MinorUnits()),
			zap.Error(err))
		return nil, err
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	s.metrics.RecordVerification(ctx, "paid")
	s.metrics.RecordBooking(ctx, string(b.Status))
	s.logger.Info("Booking paid",
		zap.String("booking_id", b.ID.String()),
		zap.String("reference", b.PaymentReference))

	sent := s.sendEmails(ctx, b)
	return toVerifyResult(b, sent), nil
}

// sendEmails reports true only when both the client and practice emails went out
func (s *Service) sendEmails(ctx context.Context, b *booking.Booking) bool {
	sent := true
	if err := s.notifier.SendBookingConfirmation(ctx, b); err != nil {
		sent = false
		s.logger.Error("Failed to send booking confirmation",
			zap.String("booking_id", b.ID.String()), zap.Error(err))
		s.metrics.RecordEmail(ctx, "booking_confirmation", false)
	} else {
		s.metrics.RecordEmail(ctx, "booking_confirmation", true)
	}
	if err := s.notifier.SendBookingNotice(ctx, b); err != nil {
		sent = false
		s.logger.Error("Failed to send booking notice",
			zap.String("booking_id", b.ID.String()), zap.Error(err))
		s.metrics.RecordEmail(ctx, "booking_notice", false)
	} else {
		s.metrics.RecordEmail(ctx, "booking_notice", true)
	}
	return sent
}

// List lists bookings for the admin panel
func (s *Service) List(ctx context.Context, input ListBookingsInput) ([]*BookingResponse, int64, error) {
	filter := booking.Filter{
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Page:     input.Page,
		PageSize: input.PageSize,
	}
	if input.Status != "" {
		status := booking.Status(strings.ToLower(input.Status))
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown booking status")
		}
		filter.Status = &status
	}

	bookings, total, err := s.bookings.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	return out, total, nil
}

// Get returns a booking by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return toBookingResponse(b), nil
}

func (s *Service) findByReference(ctx context.Context, reference string) (*booking.Booking, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, ErrBookingNotFound
	}
	b, err := s.bookings.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}
