// Package email delivers transactional messages through Brevo or, in
// development, the application log.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/safespace/backend/internal/domain/notification"
	"github.com/safespace/backend/internal/infrastructure/config"
)

const brevoDefaultBaseURL = "https://api.brevo.com/v3"

// Errors for configuration validation
var (
	ErrBrevoMissingAPIKey = errors.New("brevo: missing API key")
	ErrBrevoMissingSender = errors.New("brevo: missing sender email")
)

// BrevoConfig contains configuration for the Brevo transactional email API
type BrevoConfig struct {
	APIKey      string
	BaseURL     string
	SenderName  string
	SenderEmail string
	Timeout     time.Duration
}

// BrevoConfigFromApp maps application configuration
func BrevoConfigFromApp(cfg config.EmailConfig) *BrevoConfig {
	return &BrevoConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		SenderName:  cfg.SenderName,
		SenderEmail: cfg.SenderEmail,
		Timeout:     cfg.Timeout,
	}
}

// Validate validates the configuration and fills defaults
func (c *BrevoConfig) Validate() error {
	if c.APIKey == "" {
		return ErrBrevoMissingAPIKey
	}
	if c.SenderEmail == "" {
		return ErrBrevoMissingSender
	}
	if c.BaseURL == "" {
		c.BaseURL = brevoDefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	return nil
}

type brevoContact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoSendRequest struct {
	Sender      brevoContact   `json:"sender"`
	To          []brevoContact `json:"to"`
	ReplyTo     *brevoContact  `json:"replyTo,omitempty"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent,omitempty"`
	TextContent string         `json:"textContent,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
}

type brevoSendResponse struct {
	MessageID string `json:"messageId"`
}

type brevoError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BrevoSender implements notification.Sender over the Brevo SMTP API
type BrevoSender struct {
	config     *BrevoConfig
	httpClient *http.Client
}

// NewBrevoSender creates a new Brevo sender
func NewBrevoSender(config *BrevoConfig) (*BrevoSender, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &BrevoSender{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

// WithHTTPClient replaces the HTTP client
func (s *BrevoSender) WithHTTPClient(client *http.Client) *BrevoSender {
	s.httpClient = client
	return s
}

// Send posts msg to /smtp/email
func (s *BrevoSender) Send(ctx context.Context, msg notification.Message) (*notification.Receipt, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	payload := brevoSendRequest{
		Sender:      brevoContact{Name: s.config.SenderName, Email: s.config.SenderEmail},
		Subject:     msg.Subject,
		HTMLContent: msg.HTMLBody,
		TextContent: msg.TextBody,
		Tags:        msg.Tags,
	}
	for _, to := range msg.To {
		payload.To = append(payload.To, brevoContact{Name: to.Name, Email: to.Email})
	}
	if msg.ReplyTo != nil {
		payload.ReplyTo = &brevoContact{Name: msg.ReplyTo.Name, Email: msg.ReplyTo.Email}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("brevo: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/smtp/email", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("brevo: failed to create request: %w", err)
	}
	req.Header.Set("api-key", s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", notification.ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("brevo: failed to read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var apiErr brevoError
		_ = json.Unmarshal(respBody, &apiErr)
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: HTTP %d: %s", notification.ErrDeliveryFailed, resp.StatusCode, apiErr.Message)
	}

	var out brevoSendResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &out); err != nil {
			return nil, fmt.Errorf("brevo: failed to decode response: %w", err)
		}
	}
	return &notification.Receipt{MessageID: out.MessageID}, nil
}

var _ notification.Sender = (*BrevoSender)(nil)
