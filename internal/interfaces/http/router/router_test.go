package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/safespace/backend/internal/infrastructure/auth"
	"github.com/safespace/backend/internal/infrastructure/config"
	"github.com/safespace/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/test/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup_MiddlewareAndSubgroups(t *testing.T) {
	engine := gin.New()
	var order []string
	mark := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			order = append(order, name)
			c.Next()
		}
	}

	g := NewDomainGroup("admin", "/admin").Use(mark("outer"))
	g.Group("posts", "/posts").Use(mark("inner")).
		DELETE("/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) })
	g.RegisterRoutes(engine.Group("/api/v1"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/admin/posts/42", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", w.Body.String())
	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.Equal(t, "admin", g.Name())
	assert.Equal(t, "/admin", g.Prefix())
}

type rejectAll struct{}

func (rejectAll) Authenticate(context.Context, string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}

func newTestEngine(t *testing.T, httpCfg config.HTTPConfig) *Engine {
	t.Helper()
	e, err := New(Config{
		ServiceName:   "safespace-test",
		HTTP:          httpCfg,
		Authenticator: rejectAll{},
		Logger:        zap.NewNop(),
	}, Handlers{
		Pricing: handler.NewPricingHandler(nil),
		Booking: handler.NewBookingHandler(nil),
		Blog:    handler.NewBlogHandler(nil, 1<<20),
		Auth:    handler.NewAuthHandler(nil),
		Admin:   handler.NewAdminHandler(nil),
		Contact: handler.NewContactHandler(nil),
		Health:  handler.NewHealthHandler("test", nil),
	})
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestNew_HealthAndSecurityHeaders(t *testing.T) {
	e := newTestEngine(t, config.HTTPConfig{MaxBodySize: 1024})

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestNew_AdminRoutesRequireAuth(t *testing.T) {
	e := newTestEngine(t, config.HTTPConfig{MaxBodySize: 1024})

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/admin/bookings"},
		{http.MethodGet, "/api/v1/admin/bookings/" + uuid.NewString()},
		{http.MethodPost, "/api/v1/admin/blogs"},
		{http.MethodPost, "/api/v1/admin/blogs/images"},
		{http.MethodDelete, "/api/v1/admin/admins/" + uuid.NewString()},
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodPost, "/api/v1/auth/logout"},
	}
	for _, p := range paths {
		w := httptest.NewRecorder()
		e.ServeHTTP(w, httptest.NewRequest(p.method, p.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", p.method, p.path)
	}
}

func TestNew_BodyLimit(t *testing.T) {
	e := newTestEngine(t, config.HTTPConfig{MaxBodySize: 16, MaxUploadSize: 1 << 20})

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(strings.Repeat("x", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	// the upload route has its own, larger limit and fails on auth instead
	w = httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/blogs/images", strings.NewReader(strings.Repeat("x", 64))))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNew_LoginRateLimit(t *testing.T) {
	e := newTestEngine(t, config.HTTPConfig{
		MaxBodySize:           1024,
		AuthRateLimitEnabled:  true,
		AuthRateLimitRequests: 2,
		AuthRateLimitWindow:   time.Minute,
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		e.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests}, codes)
}
