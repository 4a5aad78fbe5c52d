package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/safespace/backend/internal/domain/booking"
)

// maxResponseSize bounds how much of a gateway reply is read
const maxResponseSize = 1 << 20

// PaystackAdapter implements booking.PaymentGateway for Paystack
type PaystackAdapter struct {
	config     *PaystackConfig
	httpClient *http.Client
}

// NewPaystackAdapter creates a new Paystack adapter
func NewPaystackAdapter(config *PaystackConfig) (*PaystackAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &PaystackAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// WithHTTPClient replaces the HTTP client, e.g. with an instrumented transport
func (a *PaystackAdapter) WithHTTPClient(client *http.Client) *PaystackAdapter {
	a.httpClient = client
	return a
}

// Initialize creates a hosted checkout for the amount in pesewas
func (a *PaystackAdapter) Initialize(ctx context.Context, req booking.InitializeRequest) (*booking.InitializeResponse, error) {
	if req.AmountMinor <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", booking.ErrGatewayRejected)
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("%w: payer email is required", booking.ErrGatewayRejected)
	}

	callback := req.CallbackURL
	if callback == "" {
		callback = a.config.CallbackURL
	}

	body, err := json.Marshal(paystackInitializeRequest{
		Email:       req.Email,
		Amount:      req.AmountMinor,
		Currency:    req.Currency,
		Reference:   req.Reference,
		CallbackURL: callback,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("paystack: failed to marshal request: %w", err)
	}

	var data paystackInitializeData
	if err := a.do(ctx, http.MethodPost, "/transaction/initialize", body, &data); err != nil {
		return nil, err
	}
	if data.AuthorizationURL == "" {
		return nil, fmt.Errorf("%w: no authorization URL returned", booking.ErrGatewayRequestFailed)
	}

	return &booking.InitializeResponse{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

// Verify fetches the state of the transaction with the given reference
func (a *PaystackAdapter) Verify(ctx context.Context, reference string) (*booking.Verification, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, fmt.Errorf("%w: reference is required", booking.ErrGatewayRejected)
	}

	var tx paystackTransaction
	if err := a.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &tx); err != nil {
		return nil, err
	}
	v := toVerification(tx)
	return &v, nil
}

// ParseWebhook checks the x-paystack-signature header, an HMAC-SHA512 of the
// raw body keyed with the secret key, and decodes the event
func (a *PaystackAdapter) ParseWebhook(body []byte, signature string) (*booking.WebhookEvent, error) {
	expected := a.sign(body)
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || !hmac.Equal(expected, got) {
		return nil, booking.ErrInvalidSignature
	}

	var hook paystackWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		return nil, fmt.Errorf("paystack: failed to decode webhook: %w", err)
	}
	return &booking.WebhookEvent{
		Event:       hook.Event,
		Transaction: toVerification(hook.Data),
	}, nil
}

func (a *PaystackAdapter) sign(body []byte) []byte {
	mac := hmac.New(sha512.New, []byte(a.config.SecretKey))
	mac.Write(body)
	return mac.Sum(nil)
}

// do sends one API call and decodes the envelope's data into out
func (a *PaystackAdapter) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.config.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("paystack: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.config.SecretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", booking.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("paystack: failed to read response: %w", err)
	}

	var env paystackEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		if resp.StatusCode >= 400 {
			return fmt.Errorf("%w: HTTP %d", booking.ErrGatewayRequestFailed, resp.StatusCode)
		}
		return fmt.Errorf("paystack: failed to decode response: %w", err)
	}

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: HTTP %d: %s", booking.ErrGatewayUnavailable, resp.StatusCode, env.Message)
	case resp.StatusCode >= 400, !env.Status:
		return fmt.Errorf("%w: %s", booking.ErrGatewayRejected, env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("paystack: failed to decode data: %w", err)
		}
	}
	return nil
}

func toVerification(tx paystackTransaction) booking.Verification {
	v := booking.Verification{
		Reference:       tx.Reference,
		Status:          mapPaystackStatus(tx.Status),
		AmountMinor:     tx.Amount,
		Currency:        tx.Currency,
		GatewayResponse: tx.GatewayResponse,
	}
	if tx.PaidAt != "" {
		if t, err := time.Parse(time.RFC3339, tx.PaidAt); err == nil {
			v.PaidAt = t
		}
	}
	return v
}

// mapPaystackStatus maps Paystack transaction states to charge states
func mapPaystackStatus(status string) booking.ChargeStatus {
	switch strings.ToLower(status) {
	case "success":
		return booking.ChargeSuccess
	case "failed", "reversed":
		return booking.ChargeFailed
	case "abandoned":
		return booking.ChargeAbandoned
	default:
		return booking.ChargePending
	}
}

var _ booking.PaymentGateway = (*PaystackAdapter)(nil)
