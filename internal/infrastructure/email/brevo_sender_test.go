package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/safespace/backend/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBrevo(t *testing.T, handler http.HandlerFunc) *BrevoSender {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sender, err := NewBrevoSender(&BrevoConfig{
		APIKey:      "xkeysib-test",
		BaseURL:     server.URL,
		SenderName:  "SafeSpace",
		SenderEmail: "hello@safespace.test",
	})
	require.NoError(t, err)
	return sender
}

func testMessage() notification.Message {
	return notification.Message{
		To:       []notification.Address{{Name: "Ama", Email: "ama@example.com"}},
		ReplyTo:  &notification.Address{Email: "inbox@safespace.test"},
		Subject:  "Hello",
		HTMLBody: "<p>Hi</p>",
		Tags:     []string{"test"},
	}
}

func TestBrevoConfig_Validate(t *testing.T) {
	assert.ErrorIs(t, (&BrevoConfig{}).Validate(), ErrBrevoMissingAPIKey)
	assert.ErrorIs(t, (&BrevoConfig{APIKey: "k"}).Validate(), ErrBrevoMissingSender)

	cfg := &BrevoConfig{APIKey: "k", SenderEmail: "a@b.co"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, brevoDefaultBaseURL, cfg.BaseURL)
	assert.Positive(t, cfg.Timeout)
}

func TestBrevoSender_Send(t *testing.T) {
	var got brevoSendRequest
	sender := newTestBrevo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/smtp/email", r.URL.Path)
		assert.Equal(t, "xkeysib-test", r.Header.Get("api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"<abc@smtp-relay>"}`))
	})

	receipt, err := sender.Send(context.Background(), testMessage())
	require.NoError(t, err)

	assert.Equal(t, "<abc@smtp-relay>", receipt.MessageID)
	assert.Equal(t, "hello@safespace.test", got.Sender.Email)
	require.Len(t, got.To, 1)
	assert.Equal(t, "ama@example.com", got.To[0].Email)
	require.NotNil(t, got.ReplyTo)
	assert.Equal(t, "inbox@safespace.test", got.ReplyTo.Email)
	assert.Equal(t, "<p>Hi</p>", got.HTMLContent)
}

func TestBrevoSender_ProviderError(t *testing.T) {
	sender := newTestBrevo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"invalid_parameter","message":"sender not verified"}`))
	})

	_, err := sender.Send(context.Background(), testMessage())
	require.ErrorIs(t, err, notification.ErrDeliveryFailed)
	assert.Contains(t, err.Error(), "sender not verified")
}

func TestBrevoSender_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	sender, err := NewBrevoSender(&BrevoConfig{APIKey: "k", SenderEmail: "a@b.co", BaseURL: base})
	require.NoError(t, err)

	_, err = sender.Send(context.Background(), testMessage())
	assert.ErrorIs(t, err, notification.ErrDeliveryFailed)
}

func TestBrevoSender_InvalidMessage(t *testing.T) {
	sender := newTestBrevo(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("provider must not be called")
	})

	_, err := sender.Send(context.Background(), notification.Message{Subject: "x", HTMLBody: "y"})
	assert.Error(t, err)
}
