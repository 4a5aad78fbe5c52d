package payment

import (
	"errors"
	"strings"
	"time"

	"github.com/safespace/backend/internal/infrastructure/config"
)

const (
	paystackBaseURL        = "https://api.paystack.co"
	paystackDefaultTimeout = 30 * time.Second
)

// Errors for configuration validation
var (
	ErrPaystackMissingSecretKey = errors.New("paystack: missing secret key")
	ErrPaystackInvalidBaseURL   = errors.New("paystack: base URL must be http or https")
)

// PaystackConfig contains configuration for the Paystack API
type PaystackConfig struct {
	// SecretKey authenticates API calls and signs webhooks
	SecretKey string
	// BaseURL overrides the API host (tests, proxies)
	BaseURL string
	// CallbackURL is where Paystack redirects the payer after checkout
	CallbackURL string
	Timeout     time.Duration
}

// PaystackConfigFromApp maps application configuration
func PaystackConfigFromApp(cfg config.PaystackConfig) *PaystackConfig {
	return &PaystackConfig{
		SecretKey:   cfg.SecretKey,
		BaseURL:     cfg.BaseURL,
		CallbackURL: cfg.CallbackURL,
		Timeout:     cfg.Timeout,
	}
}

// Validate validates the configuration and fills defaults
func (c *PaystackConfig) Validate() error {
	if strings.TrimSpace(c.SecretKey) == "" {
		return ErrPaystackMissingSecretKey
	}
	if c.BaseURL == "" {
		c.BaseURL = paystackBaseURL
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return ErrPaystackInvalidBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = paystackDefaultTimeout
	}
	return nil
}
