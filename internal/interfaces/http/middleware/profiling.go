package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/safespace/backend/internal/infrastructure/telemetry"
)

// Profiling attaches Pyroscope labels (route pattern, method and API area) to
// the request goroutine. Paths in skip are left unlabelled.
func Profiling(enabled bool, skip ...string) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skipped[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		route := c.FullPath()
		labels := map[string]string{
			telemetry.ProfilingLabelMethod: c.Request.Method,
			telemetry.ProfilingLabelRoute:  route,
			telemetry.ProfilingLabelArea:   routeArea(route),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// routeArea is the first resource segment after /api/vN, with admin routes
// reported as "admin/<resource>".
// "/api/v1/blogs/:slug" -> "blogs", "/api/v1/admin/bookings/:id" -> "admin/bookings"
func routeArea(route string) string {
	parts := strings.Split(strings.Trim(route, "/"), "/")
	var area []string
	for _, p := range parts {
		if p == "" || p == "api" || isVersionSegment(p) || strings.HasPrefix(p, ":") {
			continue
		}
		area = append(area, p)
		if p != "admin" {
			break
		}
	}
	return strings.Join(area, "/")
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || (s[0] != 'v' && s[0] != 'V') {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
