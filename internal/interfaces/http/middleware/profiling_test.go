package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfiling_AttachesLabels(t *testing.T) {
	router := gin.New()
	router.Use(Profiling(true, "/health"))

	var area, route string
	router.GET("/api/v1/admin/bookings/:id", func(c *gin.Context) {
		area, _ = pprof.Label(c.Request.Context(), "area")
		route, _ = pprof.Label(c.Request.Context(), "route")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings/123", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin/bookings", area)
	assert.Equal(t, "/api/v1/admin/bookings/:id", route)
}

func TestProfiling_SkipAndDisabled(t *testing.T) {
	for name, mw := range map[string]gin.HandlerFunc{
		"skipped path": Profiling(true, "/health"),
		"disabled":     Profiling(false),
	} {
		t.Run(name, func(t *testing.T) {
			router := gin.New()
			router.Use(mw)
			var labelled bool
			router.GET("/health", func(c *gin.Context) {
				_, labelled = pprof.Label(c.Request.Context(), "route")
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.False(t, labelled)
		})
	}
}

func TestRouteArea(t *testing.T) {
	tests := map[string]string{
		"/api/v1/blogs/:slug":           "blogs",
		"/api/v1/pricing/check":         "pricing",
		"/api/v1/admin/bookings/:id":    "admin/bookings",
		"/api/v2/admin/admins/:id/role": "admin/admins",
		"/health":                       "health",
		"":                              "",
	}
	for route, want := range tests {
		assert.Equal(t, want, routeArea(route), route)
	}
}

func TestIsVersionSegment(t *testing.T) {
	assert.True(t, isVersionSegment("v1"))
	assert.True(t, isVersionSegment("V12"))
	assert.False(t, isVersionSegment("v"))
	assert.False(t, isVersionSegment("vx"))
	assert.False(t, isVersionSegment("blogs"))
}
