package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCheckPromos(t *testing.T) {
	t.Run("lists codes with discounted settlement prices", func(t *testing.T) {
		t.Setenv("SAFESPACE_PRICING_PROMO_CODES", "welcome10:10, FRIENDS:15.5")

		out, err := execute(t, "check-promos")
		require.NoError(t, err)
		assert.Contains(t, out, "CODE")
		assert.Regexp(t, `FRIENDS\s+15.5%\s+169.00\s+464.75\s+760.50`, out)
		assert.Regexp(t, `WELCOME10\s+10%\s+180.00\s+495.00\s+810.00`, out)
	})

	t.Run("empty configuration", func(t *testing.T) {
		t.Setenv("SAFESPACE_PRICING_PROMO_CODES", "")

		out, err := execute(t, "check-promos")
		require.NoError(t, err)
		assert.Contains(t, out, "No promo codes configured")
	})

	t.Run("malformed configuration is rejected", func(t *testing.T) {
		t.Setenv("SAFESPACE_PRICING_PROMO_CODES", "BROKEN")

		_, err := execute(t, "check-promos")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "promo")
	})
}

func TestQuote(t *testing.T) {
	t.Setenv("SAFESPACE_PRICING_PROMO_CODES", "WELCOME10:10")

	out, err := execute(t, "quote", "--package", "550", "--country", "gb", "--promo", "welcome10", "--hint", "")
	require.NoError(t, err)
	assert.Contains(t, out, "location:  GB via edge_header")
	assert.Contains(t, out, "amount:    £39.60 GBP")
	assert.Contains(t, out, "ghsAmount: 495.00")
	assert.Contains(t, out, "promo:     true WELCOME10")

	_, err = execute(t, "quote", "--package", "300", "--country", "", "--promo", "")
	require.Error(t, err)
}
