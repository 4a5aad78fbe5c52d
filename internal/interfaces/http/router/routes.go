package router

import (
	"github.com/gin-gonic/gin"
	"github.com/safespace/backend/internal/domain/identity"
	"github.com/safespace/backend/internal/infrastructure/config"
	"github.com/safespace/backend/internal/infrastructure/logger"
	"github.com/safespace/backend/internal/interfaces/http/handler"
	"github.com/safespace/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// uploadRoute is the only route accepting bodies up to MaxUploadSize
const uploadRoute = "/api/v1/admin/blogs/images"

// Config holds what the engine needs besides the handlers
type Config struct {
	ServiceName      string
	Production       bool
	HTTP             config.HTTPConfig
	TracingEnabled   bool
	ProfilingEnabled bool
	// Meter is optional; nil disables HTTP metrics
	Meter         metric.Meter
	Authenticator middleware.Authenticator
	Logger        *zap.Logger
}

// Handlers are the HTTP handlers mounted by New
type Handlers struct {
	Pricing *handler.PricingHandler
	Booking *handler.BookingHandler
	Blog    *handler.BlogHandler
	Auth    *handler.AuthHandler
	Admin   *handler.AdminHandler
	Contact *handler.ContactHandler
	Health  *handler.HealthHandler
}

// Engine is the configured gin engine. Close stops the rate limiter janitors.
type Engine struct {
	*gin.Engine
	limiters []*middleware.RateLimiter
}

// Close releases background resources
func (e *Engine) Close() {
	for _, l := range e.limiters {
		l.Stop()
	}
}

// New builds the engine with global middleware and all API routes
func New(cfg Config, h Handlers) (*Engine, error) {
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}
	e := &Engine{Engine: engine}

	middleware.SetupValidator()

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(cfg.Logger),
		middleware.Tracing(cfg.ServiceName, cfg.TracingEnabled),
		middleware.SpanEnricher(),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(cfg.Meter, cfg.Logger),
		middleware.Profiling(cfg.ProfilingEnabled, "/health", "/ready"),
		logger.GinMiddleware(cfg.Logger, "/health", "/ready"),
		middleware.Secure(middleware.DefaultSecurityConfig(cfg.Production)),
		middleware.CORS(middleware.CORSConfigFromApp(cfg.HTTP)),
		bodyLimit(cfg.HTTP),
	)
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		e.limiters = append(e.limiters, limiter)
		engine.Use(middleware.RateLimit(limiter))
	}

	engine.GET("/health", h.Health.Health)
	engine.GET("/ready", h.Health.Ready)

	loginGuard := []gin.HandlerFunc{}
	if cfg.HTTP.AuthRateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		e.limiters = append(e.limiters, limiter)
		loginGuard = append(loginGuard, middleware.RateLimit(limiter))
	}

	requireAuth := []gin.HandlerFunc{
		middleware.JWTAuth(cfg.Authenticator, cfg.Logger),
		middleware.SpanEnricher(),
	}

	NewRouter(engine).Register(
		pricingRoutes(h.Pricing),
		bookingRoutes(h.Booking),
		blogRoutes(h.Blog),
		contactRoutes(h.Contact),
		authRoutes(h.Auth, loginGuard, requireAuth),
		adminRoutes(h, requireAuth),
	).Setup()

	return e, nil
}

// bodyLimit applies MaxUploadSize to the image upload and MaxBodySize elsewhere
func bodyLimit(cfg config.HTTPConfig) gin.HandlerFunc {
	regular := middleware.BodyLimit(cfg.MaxBodySize)
	upload := middleware.BodyLimit(cfg.MaxUploadSize)
	return func(c *gin.Context) {
		if c.FullPath() == uploadRoute {
			upload(c)
			return
		}
		regular(c)
	}
}

func pricingRoutes(h *handler.PricingHandler) *DomainGroup {
	return NewDomainGroup("pricing", "/pricing").
		POST("/check", h.Check).
		GET("/packages", h.Packages)
}

func bookingRoutes(h *handler.BookingHandler) *DomainGroup {
	return NewDomainGroup("bookings", "/bookings").
		POST("", h.Submit).
		GET("/verify/:reference", h.Verify).
		POST("/webhook", h.Webhook)
}

func blogRoutes(h *handler.BlogHandler) *DomainGroup {
	return NewDomainGroup("blogs", "/blogs").
		GET("", h.ListPublished).
		GET("/:slug", h.GetPublished)
}

func contactRoutes(h *handler.ContactHandler) *DomainGroup {
	return NewDomainGroup("contact", "/contact").
		POST("", h.Send)
}

func authRoutes(h *handler.AuthHandler, loginGuard, requireAuth []gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	g.POST("/login", append(loginGuard, h.Login)...)

	session := g.Group("session", "").Use(requireAuth...)
	session.POST("/logout", h.Logout).
		GET("/me", h.Me).
		PUT("/password", h.ChangePassword)
	return g
}

func adminRoutes(h Handlers, requireAuth []gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("admin", "/admin").
		Use(requireAuth...).
		Use(middleware.RequireRole(identity.RoleAdmin, identity.RoleSuperAdmin))

	g.Group("admin-bookings", "/bookings").
		GET("", h.Booking.List).
		GET("/:id", h.Booking.Get)

	g.Group("admin-blogs", "/blogs").
		GET("", h.Blog.List).
		POST("", h.Blog.Create).
		POST("/images", h.Blog.UploadImage).
		GET("/:id", h.Blog.Get).
		PUT("/:id", h.Blog.Update).
		DELETE("/:id", h.Blog.Delete).
		POST("/:id/publish", h.Blog.Publish).
		POST("/:id/unpublish", h.Blog.Unpublish)

	g.Group("admin-accounts", "/admins").
		Use(middleware.RequireSuperAdmin()).
		GET("", h.Admin.List).
		POST("", h.Admin.Create).
		GET("/:id", h.Admin.Get).
		PUT("/:id/role", h.Admin.ChangeRole).
		PUT("/:id/password", h.Admin.ResetPassword).
		DELETE("/:id", h.Admin.Delete)
	return g
}
