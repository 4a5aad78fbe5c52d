package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRevoker invalidates admin tokens before they expire: a single token on
// logout, or every token of an admin after a password or role change.
type TokenRevoker interface {
	// RevokeToken revokes one token by its JTI. ttl should cover the token's remaining lifetime.
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error

	// IsTokenRevoked reports whether the JTI has been revoked
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)

	// RevokeAdmin revokes every token issued to the admin up to now
	RevokeAdmin(ctx context.Context, adminID string, ttl time.Duration) error

	// IsAdminRevoked reports whether a token issued at issuedAt predates the admin's revocation
	IsAdminRevoked(ctx context.Context, adminID string, issuedAt time.Time) (bool, error)
}

const revocationKeyPrefix = "auth:revoked:"

// RedisTokenRevoker implements TokenRevoker using Redis keys with TTL
type RedisTokenRevoker struct {
	client redis.UniversalClient
}

// NewRedisTokenRevoker creates a revoker on an existing Redis client
func NewRedisTokenRevoker(client redis.UniversalClient) *RedisTokenRevoker {
	return &RedisTokenRevoker{client: client}
}

func jtiKey(jti string) string { return revocationKeyPrefix + "jti:" + jti }

func adminKey(adminID string) string { return revocationKeyPrefix + "admin:" + adminID }

// RevokeToken stores the JTI until the token would have expired anyway
func (r *RedisTokenRevoker) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsTokenRevoked checks for the JTI key
func (r *RedisTokenRevoker) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

// RevokeAdmin stores the revocation time in Unix milliseconds
func (r *RedisTokenRevoker) RevokeAdmin(ctx context.Context, adminID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, adminKey(adminID), time.Now().UnixMilli(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke admin tokens: %w", err)
	}
	return nil
}

// IsAdminRevoked reports whether the token was issued strictly before the
// stored revocation time. Both sides are compared in milliseconds.
func (r *RedisTokenRevoker) IsAdminRevoked(ctx context.Context, adminID string, issuedAt time.Time) (bool, error) {
	val, err := r.client.Get(ctx, adminKey(adminID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check admin revocation: %w", err)
	}
	revokedAt, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse revocation timestamp: %w", err)
	}
	return issuedAt.UnixMilli() < revokedAt, nil
}

var _ TokenRevoker = (*RedisTokenRevoker)(nil)

// InMemoryTokenRevoker is a single-process TokenRevoker used when Redis is
// unavailable and in tests
type InMemoryTokenRevoker struct {
	mu      sync.Mutex
	tokens  map[string]time.Time // jti -> expiry
	admins  map[string]time.Time // adminID -> revoked at
	nowFunc func() time.Time
}

// NewInMemoryTokenRevoker creates an empty in-memory revoker
func NewInMemoryTokenRevoker() *InMemoryTokenRevoker {
	return &InMemoryTokenRevoker{
		tokens:  make(map[string]time.Time),
		admins:  make(map[string]time.Time),
		nowFunc: time.Now,
	}
}

// RevokeToken records the JTI until ttl elapses
func (r *InMemoryTokenRevoker) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[jti] = r.nowFunc().Add(ttl)
	return nil
}

// IsTokenRevoked reports unexpired revocations and drops expired ones
func (r *InMemoryTokenRevoker) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expiry, ok := r.tokens[jti]
	if !ok {
		return false, nil
	}
	if r.nowFunc().After(expiry) {
		delete(r.tokens, jti)
		return false, nil
	}
	return true, nil
}

// RevokeAdmin records the revocation time at millisecond precision
func (r *InMemoryTokenRevoker) RevokeAdmin(_ context.Context, adminID string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admins[adminID] = r.nowFunc().Truncate(time.Millisecond)
	return nil
}

// IsAdminRevoked compares issue time with the revocation time
func (r *InMemoryTokenRevoker) IsAdminRevoked(_ context.Context, adminID string, issuedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	revokedAt, ok := r.admins[adminID]
	if !ok {
		return false, nil
	}
	return issuedAt.Truncate(time.Millisecond).Before(revokedAt), nil
}

var _ TokenRevoker = (*InMemoryTokenRevoker)(nil)
