package email

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/safespace/backend/internal/domain/notification"
	"go.uber.org/zap"
)

// LogSender writes messages to the log instead of delivering them.
// Used in development and when no provider is configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a log-only sender
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// Send logs the envelope of msg
func (s *LogSender) Send(_ context.Context, msg notification.Message) (*notification.Receipt, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	to := make([]string, 0, len(msg.To))
	for _, a := range msg.To {
		to = append(to, a.String())
	}
	id := "log-" + uuid.NewString()
	fields := []zap.Field{
		zap.String("message_id", id),
		zap.String("to", strings.Join(to, ", ")),
		zap.String("subject", msg.Subject),
		zap.Int("html_bytes", len(msg.HTMLBody)),
	}
	if msg.ReplyTo != nil {
		fields = append(fields, zap.String("reply_to", msg.ReplyTo.String()))
	}
	s.logger.Info("Email not delivered (log provider)", fields...)
	return &notification.Receipt{MessageID: id}, nil
}

var _ notification.Sender = (*LogSender)(nil)
