package email

import (
	"context"
	"errors"
	"testing"

	"github.com/safespace/backend/internal/domain/booking"
	"github.com/safespace/backend/internal/domain/notification"
	"github.com/safespace/backend/internal/domain/pricing"
	"github.com/safespace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingSender struct {
	sent []notification.Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg notification.Message) (*notification.Receipt, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.sent = append(r.sent, msg)
	return &notification.Receipt{MessageID: "id"}, nil
}

func testBooking(t *testing.T) *booking.Booking {
	t.Helper()
	pkg, err := pricing.LookupPackage("550")
	require.NoError(t, err)
	quote := pricing.PriceQuote{
		Package:   pkg,
		Amount:    valueobject.NewMoneyFromInt(58, valueobject.USD),
		Symbol:    "$",
		GHSAmount: valueobject.NewMoneyFromInt(550, valueobject.GHS),
	}
	b, err := booking.NewBooking(booking.Client{Name: "Ama <b>Mensah</b>", Email: "ama@example.com", Phone: "+233200000000"},
		pkg.ID, "2026-03-02", "10:30", "First time\nevening preferred", quote)
	require.NoError(t, err)
	return b
}

func newTestMailer(t *testing.T, sender notification.Sender, inbox string) *Mailer {
	t.Helper()
	m, err := NewMailer(sender, MailerConfig{SiteName: "SafeSpace", SiteURL: "https://safespace.test", AdminInbox: inbox})
	require.NoError(t, err)
	return m
}

func TestMailer_BookingConfirmation(t *testing.T) {
	sender := &recordingSender{}
	m := newTestMailer(t, sender, "inbox@safespace.test")

	require.NoError(t, m.SendBookingConfirmation(context.Background(), testBooking(t)))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "ama@example.com", msg.To[0].Email)
	assert.Equal(t, "inbox@safespace.test", msg.ReplyTo.Email)
	assert.Contains(t, msg.HTMLBody, "Three-Session Pack (3 sessions)")
	assert.Contains(t, msg.HTMLBody, "$58.00")
	assert.Contains(t, msg.HTMLBody, "Monday, 2 March 2026")
	assert.Contains(t, msg.HTMLBody, "Ama &lt;b&gt;Mensah&lt;/b&gt;", "client input must be escaped")
}

func TestMailer_BookingNotice(t *testing.T) {
	sender := &recordingSender{}
	m := newTestMailer(t, sender, "inbox@safespace.test")
	b := testBooking(t)
	require.NoError(t, b.MarkPaid(55000, b.CreatedAt))

	require.NoError(t, m.SendBookingNotice(context.Background(), b))

	msg := sender.sent[0]
	assert.Equal(t, "inbox@safespace.test", msg.To[0].Email)
	assert.Equal(t, "ama@example.com", msg.ReplyTo.Email)
	assert.Contains(t, msg.HTMLBody, "A new booking is paid.")
	assert.Contains(t, msg.HTMLBody, "GHS 550.00")
	assert.Contains(t, msg.HTMLBody, "First time<br>evening preferred")
}

func TestMailer_NoInbox(t *testing.T) {
	m := newTestMailer(t, &recordingSender{}, "")

	err := m.SendBookingNotice(context.Background(), testBooking(t))
	assert.ErrorIs(t, err, notification.ErrDeliveryFailed)

	err = m.SendContact(context.Background(), ContactDetails{Name: "A", Email: "a@b.co", Message: "hi"})
	assert.ErrorIs(t, err, notification.ErrDeliveryFailed)
}

func TestMailer_Contact(t *testing.T) {
	sender := &recordingSender{}
	m := newTestMailer(t, sender, "inbox@safespace.test")

	err := m.SendContact(context.Background(), ContactDetails{
		Name: "Kofi", Email: "kofi@example.com", Subject: "Question", Message: "Do you offer\nonline sessions?",
	})
	require.NoError(t, err)

	msg := sender.sent[0]
	assert.Equal(t, "Contact: Question", msg.Subject)
	assert.Equal(t, "kofi@example.com", msg.ReplyTo.Email)
	assert.Contains(t, msg.HTMLBody, "Do you offer<br>online sessions?")
}

func TestMailer_SenderError(t *testing.T) {
	boom := errors.New("boom")
	m := newTestMailer(t, &recordingSender{err: boom}, "inbox@safespace.test")

	err := m.SendBookingConfirmation(context.Background(), testBooking(t))
	assert.ErrorIs(t, err, boom)
}

func TestDetailsFromBooking_StatusLabel(t *testing.T) {
	d := BookingDetails{Status: booking.StatusConfirmed}
	assert.Equal(t, "confirmed (no payment due)", d.StatusLabel())
	d.Status = booking.StatusPaymentFailed
	assert.Equal(t, "payment failed", d.StatusLabel())
	assert.True(t, decimal.Zero.Equal(d.Amount))
}

func TestLogSender(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewLogSender(zap.New(core))

	receipt, err := s.Send(context.Background(), testMessage())
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.MessageID)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "Ama <ama@example.com>", fields["to"])
	assert.Equal(t, "Hello", fields["subject"])

	_, err = s.Send(context.Background(), notification.Message{})
	assert.Error(t, err)
}
