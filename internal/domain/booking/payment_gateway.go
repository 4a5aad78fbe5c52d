package booking

import (
	"context"
	"errors"
	"time"
)

// Gateway errors. Adapters wrap these with the transport detail.
var (
	ErrGatewayUnavailable   = errors.New("payment gateway unavailable")
	ErrGatewayRequestFailed = errors.New("payment gateway request failed")
	ErrGatewayRejected      = errors.New("payment gateway rejected the request")
	ErrInvalidSignature     = errors.New("invalid payment webhook signature")
)

// ChargeStatus is the gateway-reported state of a transaction
type ChargeStatus string

const (
	ChargeSuccess   ChargeStatus = "success"
	ChargeFailed    ChargeStatus = "failed"
	ChargeAbandoned ChargeStatus = "abandoned"
	ChargePending   ChargeStatus = "pending"
)

// InitializeRequest opens a checkout for the settlement amount
type InitializeRequest struct {
	// AmountMinor is the amount in settlement minor units (pesewas)
	AmountMinor int64
	Currency    string
	Email       string
	Reference   string
	CallbackURL string
	Metadata    map[string]string
}

// InitializeResponse is the hosted checkout created by the gateway
type InitializeResponse struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// Verification is the gateway's view of a transaction
type Verification struct {
	Reference       string
	Status          ChargeStatus
	AmountMinor     int64
	Currency        string
	PaidAt          time.Time
	GatewayResponse string
}

// Succeeded reports whether the charge went through
func (v *Verification) Succeeded() bool {
	return v.Status == ChargeSuccess
}

// WebhookEvent is a verified gateway notification
type WebhookEvent struct {
	Event       string
	Transaction Verification
}

// PaymentGateway is the hosted payment provider used for bookings
type PaymentGateway interface {
	// Initialize creates a checkout and returns the URL to redirect the payer to
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error)

	// Verify queries the final state of a transaction
	Verify(ctx context.Context, reference string) (*Verification, error)

	// ParseWebhook checks the signature of a notification body and decodes it
	ParseWebhook(body []byte, signature string) (*WebhookEvent, error)
}
