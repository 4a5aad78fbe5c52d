package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	bookingapp "github.com/safespace/backend/internal/application/booking"
	contactapp "github.com/safespace/backend/internal/application/contact"
	contentapp "github.com/safespace/backend/internal/application/content"
	identityapp "github.com/safespace/backend/internal/application/identity"
	pricingapp "github.com/safespace/backend/internal/application/pricing"
	"github.com/safespace/backend/internal/domain/content"
	"github.com/safespace/backend/internal/domain/notification"
	"github.com/safespace/backend/internal/domain/pricing"
	"github.com/safespace/backend/internal/infrastructure/auth"
	"github.com/safespace/backend/internal/infrastructure/cache"
	"github.com/safespace/backend/internal/infrastructure/config"
	"github.com/safespace/backend/internal/infrastructure/email"
	"github.com/safespace/backend/internal/infrastructure/geoip"
	"github.com/safespace/backend/internal/infrastructure/logger"
	"github.com/safespace/backend/internal/infrastructure/payment"
	"github.com/safespace/backend/internal/infrastructure/persistence"
	"github.com/safespace/backend/internal/infrastructure/storage"
	"github.com/safespace/backend/internal/infrastructure/telemetry"
	"github.com/safespace/backend/internal/interfaces/http/handler"
	"github.com/safespace/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		TimeFormat:  "2006-01-02T15:04:05.000Z07:00",
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	telCfg := telemetry.ConfigFromApp(cfg.App, cfg.Telemetry)

	// Telemetry first so the OTLP log bridge can join the logger
	logProvider, err := telemetry.NewLoggerProvider(ctx, telCfg, cfg.Telemetry.LogsEnabled, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize OTEL logs", zap.Error(err))
	}
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	log := logger.Tee(baseLog, telemetry.NewZapOTELCore(logProvider, telCfg.ServiceName, level))
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting SafeSpace backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", telemetry.ServiceVersion),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telCfg, cfg.Telemetry.MetricsEnabled, cfg.Telemetry.MetricsInterval, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(cfg.Profiling, cfg.App.Env, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && cfg.Profiling.SpanProfiles && tracerProvider.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Span profiles unavailable", zap.Error(err))
		}
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfigFromApp(cfg.Telemetry, cfg.Database), log)
	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(gormLog),
		persistence.WithPlugins(dbTracing),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))
	if db.Driver() == "sqlite" {
		// postgres schemas come from cmd/migrate
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to create sqlite schema", zap.Error(err))
		}
	}

	// One Redis client backs both idempotency keys and token revocation
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, using in-memory stores", zap.Error(err))
			redisClient = nil
		}
	}

	storeOpts := []cache.IdempotencyStoreFactoryOption{
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	}
	var revoker auth.TokenRevoker = auth.NewInMemoryTokenRevoker()
	if redisClient != nil {
		storeOpts = append(storeOpts, cache.WithClient(redisClient))
		revoker = auth.NewRedisTokenRevoker(redisClient)
	}
	idempotency, err := cache.NewIdempotencyStoreFactory(cfg.Redis, storeOpts...).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	bookingMetrics, err := telemetry.NewBookingMetrics(meterProvider.Meter("safespace/booking"))
	if err != nil {
		log.Fatal("Failed to create booking metrics", zap.Error(err))
	}

	// Pricing
	promos, err := pricing.ParsePromoList(cfg.Pricing.PromoCodes)
	if err != nil {
		log.Fatal("Invalid promo codes", zap.Error(err))
	}
	var countryLookup pricing.CountryLookup
	if cfg.Pricing.GeoIPDatabase != "" {
		reader, err := geoip.Open(cfg.Pricing.GeoIPDatabase)
		if err != nil {
			log.Warn("GeoIP database unavailable, IP lookup disabled", zap.Error(err))
		} else {
			defer reader.Close()
			countryLookup = reader
		}
	}
	calculator := pricing.NewCalculator(pricing.DefaultPriceTable(), promos, pricing.DefaultLocationResolver(countryLookup))
	pricingService := pricingapp.NewService(calculator, bookingMetrics, log)
	log.Info("Pricing ready",
		zap.Int("promo_codes", promos.Len()),
		zap.Bool("geoip", countryLookup != nil),
	)

	// Outbound adapters
	gateway, err := payment.NewPaystackAdapter(payment.PaystackConfigFromApp(cfg.Paystack))
	if err != nil {
		log.Fatal("Failed to create Paystack adapter", zap.Error(err))
	}

	sender, err := newEmailSender(cfg.Email, log)
	if err != nil {
		log.Fatal("Failed to create email sender", zap.Error(err))
	}
	mailer, err := email.NewMailer(sender, email.MailerConfig{
		SiteName:   cfg.App.Name,
		SiteURL:    cfg.App.PublicURL,
		AdminInbox: cfg.Email.AdminInbox,
	})
	if err != nil {
		log.Fatal("Failed to parse email templates", zap.Error(err))
	}

	images, err := newImageStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to create image storage", zap.Error(err))
	}

	// Repositories and services
	adminRepo := persistence.NewGormAdminRepository(db.DB)
	bookingRepo := persistence.NewGormBookingRepository(db.DB)
	postRepo := persistence.NewGormPostRepository(db.DB)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(adminRepo, jwtService, revoker, log)
	adminService := identityapp.NewAdminService(adminRepo, revoker, cfg.JWT.AccessTokenExpiration, log)

	bookingService := bookingapp.NewService(
		bookingRepo,
		pricingService,
		gateway,
		mailer,
		idempotency,
		bookingMetrics,
		bookingapp.Config{CallbackURL: cfg.Paystack.CallbackURL},
		log,
	)
	postService := contentapp.NewPostService(postRepo, images, contentapp.UploadConfig{
		MaxSize:   cfg.HTTP.MaxUploadSize,
		KeyPrefix: cfg.Storage.KeyPrefix,
	}, log)
	contactService := contactapp.NewService(mailer, bookingMetrics, log)

	checks := map[string]handler.Pinger{"database": db}
	if redisClient != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine, err := router.New(router.Config{
		ServiceName:      telCfg.ServiceName,
		Production:       cfg.App.IsProduction(),
		HTTP:             cfg.HTTP,
		TracingEnabled:   tracerProvider.IsEnabled(),
		ProfilingEnabled: profiler.IsEnabled(),
		Meter:            meterProvider.Meter("safespace/http"),
		Authenticator:    authService,
		Logger:           log,
	}, router.Handlers{
		Pricing: handler.NewPricingHandler(pricingService),
		Booking: handler.NewBookingHandler(bookingService),
		Blog:    handler.NewBlogHandler(postService, cfg.HTTP.MaxUploadSize),
		Auth:    handler.NewAuthHandler(authService),
		Admin:   handler.NewAdminHandler(adminService),
		Contact: handler.NewContactHandler(contactService),
		Health:  handler.NewHealthHandler(telemetry.ServiceVersion, checks),
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	engine.Close()

	if err := idempotency.Close(); err != nil {
		log.Error("Error closing idempotency store", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	log.Info("Server exited gracefully")

	// last, so the lines above still reach the collector
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		baseLog.Error("Error shutting down logger provider", zap.Error(err))
	}
}

func newEmailSender(cfg config.EmailConfig, log *zap.Logger) (notification.Sender, error) {
	switch cfg.Provider {
	case "brevo":
		sender, err := email.NewBrevoSender(email.BrevoConfigFromApp(cfg))
		if err != nil {
			return nil, err
		}
		return sender, nil
	case "", "log":
		log.Warn("Email provider is 'log'; messages are written to the log only")
		return email.NewLogSender(log), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

func newImageStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (content.ImageStore, error) {
	switch cfg.Storage.Provider {
	case "s3":
		s3, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			return nil, err
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s3, nil
	case "", "stub":
		log.Warn("Image storage is 'stub'; uploads are kept in memory")
		return storage.NewStubObjectStorage(cfg.Storage.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
}
