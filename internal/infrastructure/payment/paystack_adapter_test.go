package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/safespace/backend/internal/domain/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "sk_test_secret"

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *PaystackAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	adapter, err := NewPaystackAdapter(&PaystackConfig{
		SecretKey:   testSecret,
		BaseURL:     server.URL + "/",
		CallbackURL: "https://example.com/booking/complete",
	})
	require.NoError(t, err)
	return adapter
}

func TestPaystackConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  PaystackConfig
		wantErr error
	}{
		{"missing secret", PaystackConfig{}, ErrPaystackMissingSecretKey},
		{"bad base url", PaystackConfig{SecretKey: "sk", BaseURL: "ftp://x"}, ErrPaystackInvalidBaseURL},
		{"defaults", PaystackConfig{SecretKey: "sk"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config
			err := cfg.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, paystackBaseURL, cfg.BaseURL)
			assert.Equal(t, paystackDefaultTimeout, cfg.Timeout)
		})
	}
}

func TestPaystackAdapter_Initialize(t *testing.T) {
	var got paystackInitializeRequest
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer "+testSecret, r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/abc","access_code":"abc","reference":"SS-REF"}}`))
	})

	resp, err := adapter.Initialize(context.Background(), booking.InitializeRequest{
		AmountMinor: 55000,
		Currency:    "GHS",
		Email:       "client@example.com",
		Reference:   "SS-REF",
		Metadata:    map[string]string{"booking_id": "b-1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.paystack.com/abc", resp.AuthorizationURL)
	assert.Equal(t, "SS-REF", resp.Reference)
	assert.Equal(t, int64(55000), got.Amount)
	assert.Equal(t, "GHS", got.Currency)
	assert.Equal(t, "https://example.com/booking/complete", got.CallbackURL)
	assert.Equal(t, "b-1", got.Metadata["booking_id"])
}

func TestPaystackAdapter_Initialize_Validation(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("gateway must not be called")
	})

	_, err := adapter.Initialize(context.Background(), booking.InitializeRequest{Email: "a@b.co"})
	assert.ErrorIs(t, err, booking.ErrGatewayRejected)

	_, err = adapter.Initialize(context.Background(), booking.InitializeRequest{AmountMinor: 100})
	assert.ErrorIs(t, err, booking.ErrGatewayRejected)
}

func TestPaystackAdapter_Initialize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"rejected", http.StatusBadRequest, `{"status":false,"message":"Invalid key"}`, booking.ErrGatewayRejected},
		{"status false", http.StatusOK, `{"status":false,"message":"Duplicate reference"}`, booking.ErrGatewayRejected},
		{"server error", http.StatusBadGateway, `{"status":false,"message":"upstream"}`, booking.ErrGatewayUnavailable},
		{"non json error", http.StatusServiceUnavailable, `<html>down</html>`, booking.ErrGatewayRequestFailed},
		{"no url", http.StatusOK, `{"status":true,"message":"ok","data":{}}`, booking.ErrGatewayRequestFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := adapter.Initialize(context.Background(), booking.InitializeRequest{AmountMinor: 100, Email: "a@b.co"})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPaystackAdapter_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	adapter, err := NewPaystackAdapter(&PaystackConfig{SecretKey: testSecret, BaseURL: url})
	require.NoError(t, err)

	_, err = adapter.Initialize(context.Background(), booking.InitializeRequest{AmountMinor: 100, Email: "a@b.co"})
	assert.ErrorIs(t, err, booking.ErrGatewayUnavailable)
}

func TestPaystackAdapter_Verify(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transaction/verify/SS-REF", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"id":1,"status":"success","reference":"SS-REF","amount":20000,"currency":"GHS","paid_at":"2026-03-01T10:00:00Z","gateway_response":"Approved"}}`))
	})

	v, err := adapter.Verify(context.Background(), "SS-REF")
	require.NoError(t, err)

	assert.True(t, v.Succeeded())
	assert.Equal(t, int64(20000), v.AmountMinor)
	assert.Equal(t, "GHS", v.Currency)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), v.PaidAt.UTC())
}

func TestPaystackAdapter_Verify_EmptyReference(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("gateway must not be called")
	})
	_, err := adapter.Verify(context.Background(), "  ")
	assert.ErrorIs(t, err, booking.ErrGatewayRejected)
}

func TestPaystackAdapter_ParseWebhook(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {})
	body := []byte(`{"event":"charge.success","data":{"status":"success","reference":"SS-REF","amount":55000,"currency":"GHS"}}`)

	mac := hmac.New(sha512.New, []byte(testSecret))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	event, err := adapter.ParseWebhook(body, signature)
	require.NoError(t, err)
	assert.Equal(t, "charge.success", event.Event)
	assert.Equal(t, "SS-REF", event.Transaction.Reference)
	assert.Equal(t, int64(55000), event.Transaction.AmountMinor)

	_, err = adapter.ParseWebhook(body, "deadbeef")
	assert.ErrorIs(t, err, booking.ErrInvalidSignature)

	_, err = adapter.ParseWebhook(body, "not-hex")
	assert.ErrorIs(t, err, booking.ErrInvalidSignature)
}

func TestMapPaystackStatus(t *testing.T) {
	tests := map[string]booking.ChargeStatus{
		"success":   booking.ChargeSuccess,
		"SUCCESS":   booking.ChargeSuccess,
		"failed":    booking.ChargeFailed,
		"reversed":  booking.ChargeFailed,
		"abandoned": booking.ChargeAbandoned,
		"ongoing":   booking.ChargePending,
		"":          booking.ChargePending,
	}
	for in, want := range tests {
		assert.Equal(t, want, mapPaystackStatus(in), in)
	}
}
