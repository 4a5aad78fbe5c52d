package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/safespace/backend/internal/domain/booking"
	"github.com/safespace/backend/internal/domain/notification"
	"github.com/safespace/backend/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// BookingDetails is the booking view rendered into emails
type BookingDetails struct {
	ClientName    string
	ClientEmail   string
	Phone         string
	PackageLabel  string
	Sessions      int
	PreferredDate string
	PreferredTime string
	Notes         string
	Symbol        string
	Amount        decimal.Decimal
	GHSAmount     decimal.Decimal
	PromoCode     string
	Reference     string
	Status        booking.Status
}

// StatusLabel phrases the status for the practice notice
func (d BookingDetails) StatusLabel() string {
	switch d.Status {
	case booking.StatusPaid:
		return "paid"
	case booking.StatusConfirmed:
		return "confirmed (no payment due)"
	default:
		return strings.ReplaceAll(string(d.Status), "_", " ")
	}
}

// DetailsFromBooking builds the email view of b
func DetailsFromBooking(b *booking.Booking) BookingDetails {
	d := BookingDetails{
		ClientName:    b.Client.Name,
		ClientEmail:   b.Client.Email,
		Phone:         b.Client.Phone,
		PackageLabel:  string(b.PackageID),
		PreferredDate: b.PreferredDate,
		PreferredTime: b.PreferredTime,
		Notes:         b.Notes,
		Symbol:        b.Quote.Symbol,
		Amount:        b.Quote.Amount,
		GHSAmount:     b.Quote.GHSAmount,
		PromoCode:     b.PromoCode,
		Reference:     b.PaymentReference,
		Status:        b.Status,
	}
	if pkg, err := pricing.LookupPackage(string(b.PackageID)); err == nil {
		d.PackageLabel = pkg.Label
		d.Sessions = pkg.Sessions
	}
	return d
}

// ContactDetails is a visitor message from the contact form
type ContactDetails struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// MailerConfig identifies the practice in outgoing mail
type MailerConfig struct {
	SiteName   string
	SiteURL    string
	AdminInbox string
}

// Mailer composes practice emails and hands them to a Sender
type Mailer struct {
	sender    notification.Sender
	cfg       MailerConfig
	templates *templates
}

// NewMailer parses the templates and creates a mailer
func NewMailer(sender notification.Sender, cfg MailerConfig) (*Mailer, error) {
	t, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Mailer{sender: sender, cfg: cfg, templates: t}, nil
}

type pageData struct {
	SiteName string
	SiteURL  string
	Booking  BookingDetails
	Contact  ContactDetails
}

func (m *Mailer) page() pageData {
	return pageData{SiteName: m.cfg.SiteName, SiteURL: m.cfg.SiteURL}
}

// SendBookingConfirmation emails the client their booking receipt
func (m *Mailer) SendBookingConfirmation(ctx context.Context, b *booking.Booking) error {
	data := m.page()
	data.Booking = DetailsFromBooking(b)

	html, err := m.templates.render("booking_confirmation", data)
	if err != nil {
		return err
	}
	_, err = m.sender.Send(ctx, notification.Message{
		To:       []notification.Address{{Name: b.Client.Name, Email: b.Client.Email}},
		ReplyTo:  m.adminAddress(),
		Subject:  fmt.Sprintf("Your %s booking is confirmed", m.cfg.SiteName),
		HTMLBody: html,
		Tags:     []string{"booking-confirmation"},
	})
	return err
}

// SendBookingNotice tells the practice inbox about a settled booking
func (m *Mailer) SendBookingNotice(ctx context.Context, b *booking.Booking) error {
	inbox := m.adminAddress()
	if inbox == nil {
		return fmt.Errorf("%w: no practice inbox configured", notification.ErrDeliveryFailed)
	}
	data := m.page()
	data.Booking = DetailsFromBooking(b)

	html, err := m.templates.render("booking_notice", data)
	if err != nil {
		return err
	}
	_, err = m.sender.Send(ctx, notification.Message{
		To:       []notification.Address{*inbox},
		ReplyTo:  &notification.Address{Name: b.Client.Name, Email: b.Client.Email},
		Subject:  fmt.Sprintf("New booking: %s (%s)", b.Client.Name, data.Booking.PackageLabel),
		HTMLBody: html,
		Tags:     []string{"booking-notice"},
	})
	return err
}

// SendContact forwards a contact form message with reply-to set to the visitor
func (m *Mailer) SendContact(ctx context.Context, c ContactDetails) error {
	inbox := m.adminAddress()
	if inbox == nil {
		return fmt.Errorf("%w: no practice inbox configured", notification.ErrDeliveryFailed)
	}
	data := m.page()
	data.Contact = c

	html, err := m.templates.render("contact", data)
	if err != nil {
		return err
	}
	subject := "New contact message from " + c.Name
	if c.Subject != "" {
		subject = "Contact: " + c.Subject
	}
	_, err = m.sender.Send(ctx, notification.Message{
		To:       []notification.Address{*inbox},
		ReplyTo:  &notification.Address{Name: c.Name, Email: c.Email},
		Subject:  subject,
		HTMLBody: html,
		Tags:     []string{"contact"},
	})
	return err
}

func (m *Mailer) adminAddress() *notification.Address {
	if m.cfg.AdminInbox == "" {
		return nil
	}
	return &notification.Address{Name: m.cfg.SiteName, Email: m.cfg.AdminInbox}
}
