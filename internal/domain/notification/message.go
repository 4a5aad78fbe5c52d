// Package notification defines outbound email messages and the sender port.
package notification

import (
	"context"
	"errors"
	"strings"
)

// ErrDeliveryFailed is wrapped by senders when the provider refuses or
// cannot be reached
var ErrDeliveryFailed = errors.New("email delivery failed")

// Address is a mailbox with an optional display name
type Address struct {
	Name  string
	Email string
}

// String formats the address as "Name <email>"
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return a.Name + " <" + a.Email + ">"
}

// Message is a single HTML email
type Message struct {
	To       []Address
	ReplyTo  *Address
	Subject  string
	HTMLBody string
	TextBody string
	Tags     []string
}

// Validate checks the fields every provider requires
func (m Message) Validate() error {
	if len(m.To) == 0 {
		return errors.New("email: at least one recipient is required")
	}
	for _, to := range m.To {
		if strings.TrimSpace(to.Email) == "" {
			return errors.New("email: recipient address is empty")
		}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return errors.New("email: subject is required")
	}
	if m.HTMLBody == "" && m.TextBody == "" {
		return errors.New("email: body is required")
	}
	return nil
}

// Receipt acknowledges a message accepted by the provider
type Receipt struct {
	MessageID string
}

// Sender delivers messages through a transactional email provider
type Sender interface {
	Send(ctx context.Context, msg Message) (*Receipt, error)
}
