// Package contact forwards contact form messages to the practice inbox.
package contact

import (
	"context"
	"strings"

	"github.com/safespace/backend/internal/domain/shared"
	"github.com/safespace/backend/internal/infrastructure/email"
	"github.com/safespace/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrEmailDelivery is returned when the message could not be handed to the provider
var ErrEmailDelivery = shared.NewDomainError("EMAIL_DELIVERY", "Your message could not be sent, please try again later")

// MessageRequest is the public contact form
type MessageRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Email   string `json:"email" binding:"required,email,max=254"`
	Subject string `json:"subject" binding:"max=200"`
	Message string `json:"message" binding:"required,min=1,max=5000"`
}

// Sender delivers a contact message
type Sender interface {
	SendContact(ctx context.Context, c email.ContactDetails) error
}

// Service handles contact form submissions
type Service struct {
	sender  Sender
	metrics *telemetry.BookingMetrics
	logger  *zap.Logger
}

// NewService creates a contact service. metrics may be nil.
func NewService(sender Sender, metrics *telemetry.BookingMetrics, logger *zap.Logger) *Service {
	return &Service{sender: sender, metrics: metrics, logger: logger}
}

// Send forwards the message with reply-to set to the visitor
func (s *Service) Send(ctx context.Context, req MessageRequest) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "contact", "send")
	defer span.End()

	details := email.ContactDetails{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}
	if err := s.sender.SendContact(ctx, details); err != nil {
		s.metrics.RecordEmail(ctx, "contact", false)
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to deliver contact message", zap.Error(err))
		return ErrEmailDelivery
	}
	s.metrics.RecordEmail(ctx, "contact", true)
	s.logger.Info("Contact message sent", zap.Int("length", len(details.Message)))
	return nil
}
