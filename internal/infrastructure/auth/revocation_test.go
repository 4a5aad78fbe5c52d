package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenRevoker_RevokeToken(t *testing.T) {
	r := NewInMemoryTokenRevoker()
	ctx := context.Background()

	require.NoError(t, r.RevokeToken(ctx, "jti-1", time.Hour))

	revoked, err := r.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = r.IsTokenRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenRevoker_Expiry(t *testing.T) {
	r := NewInMemoryTokenRevoker()
	now := time.Now()
	r.nowFunc = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, r.RevokeToken(ctx, "jti", time.Minute))
	now = now.Add(2 * time.Minute)

	revoked, err := r.IsTokenRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Empty(t, r.tokens)
}

func TestInMemoryTokenRevoker_ZeroTTLIsNoop(t *testing.T) {
	r := NewInMemoryTokenRevoker()
	require.NoError(t, r.RevokeToken(context.Background(), "jti", 0))
	assert.Empty(t, r.tokens)
}

func TestInMemoryTokenRevoker_RevokeAdmin(t *testing.T) {
	r := NewInMemoryTokenRevoker()
	now := time.Date(2026, 10, 1, 12, 0, 0, int(500*time.Millisecond), time.UTC)
	r.nowFunc = func() time.Time { return now }
	ctx := context.Background()

	issuedBefore := now.Add(-time.Hour)
	revoked, err := r.IsAdminRevoked(ctx, "admin-1", issuedBefore)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.RevokeAdmin(ctx, "admin-1", time.Hour))

	revoked, err = r.IsAdminRevoked(ctx, "admin-1", issuedBefore)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = r.IsAdminRevoked(ctx, "admin-1", now.Add(-time.Millisecond))
	require.NoError(t, err)
	assert.True(t, revoked)

	// tokens issued at or after revocation stay valid within the same second
	revoked, err = r.IsAdminRevoked(ctx, "admin-1", now)
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = r.IsAdminRevoked(ctx, "admin-1", now.Add(10*time.Millisecond))
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = r.IsAdminRevoked(ctx, "admin-2", issuedBefore)
	require.NoError(t, err)
	assert.False(t, revoked)
}
