//go:build integration

package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/safespace/backend/internal/domain/booking"
	"github.com/safespace/backend/internal/domain/content"
	"github.com/safespace/backend/internal/domain/identity"
	"github.com/safespace/backend/internal/infrastructure/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresDB starts a disposable postgres container and applies the SQL migrations
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("safespace_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	m, err := migration.New(sqlDB, filepath.Join("..", "..", "..", "migrations"), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	return db
}

func TestPostgres_Repositories(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()

	t.Run("admins", func(t *testing.T) {
		repo := NewGormAdminRepository(db)
		admin := newTestAdmin(t, "pg@example.com", identity.RoleSuperAdmin)
		require.NoError(t, repo.Create(ctx, admin))

		err := repo.Create(ctx, newTestAdmin(t, "pg@example.com", identity.RoleAdmin))
		require.Error(t, err)

		n, err := repo.CountByRole(ctx, identity.RoleSuperAdmin)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("bookings", func(t *testing.T) {
		repo := NewGormBookingRepository(db)
		b := newTestBooking(t, "pg-client@example.com")
		b.SetIdempotencyKey("pg-key")
		require.NoError(t, repo.Create(ctx, b))

		dup := newTestBooking(t, "pg-client@example.com")
		dup.SetIdempotencyKey("pg-key")
		assert.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicateIdempotencyKey)

		require.NoError(t, b.MarkPaymentFailed())
		require.NoError(t, repo.Update(ctx, b))
		got, err := repo.FindByReference(ctx, b.PaymentReference)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusPaymentFailed, got.Status)
		assert.True(t, got.Quote.Amount.Equal(b.Quote.Amount))
	})

	t.Run("posts", func(t *testing.T) {
		repo := NewGormPostRepository(db)
		post := newTestPost(t, "Postgres Post", "pg")
		require.NoError(t, post.Publish())
		require.NoError(t, repo.Create(ctx, post))
		assert.ErrorIs(t, repo.Create(ctx, newTestPost(t, "Postgres Post")), ErrSlugTaken)

		status := content.PostStatusPublished
		posts, total, err := repo.FindAll(ctx, content.PostFilter{Status: &status, Tag: "pg"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, []string{"pg"}, posts[0].Tags)
	})
}
