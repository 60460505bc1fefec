package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/directory/handler"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/source"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/middleware"
)

func newTestRouter(t *testing.T) (http.Handler, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	checker := health.NewChecker()
	checker.Register("source", func(ctx context.Context) health.ComponentHealth {
		return health.ComponentHealth{Status: health.StatusUp}
	})
	h := handler.New(source.NewFixture(), nil, m)
	return New(h, Options{
		Analytics:      analytics.NewHandler(nil),
		Health:         checker,
		Metrics:        m,
		AllowedOrigins: []string{"http://localhost:3000"},
		Timeout:        5 * time.Second,
	}), m
}

func TestRoutes(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		method string
		target string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/?q=md", http.StatusOK},
		{http.MethodGet, "/api/advocates", http.StatusOK},
		{http.MethodGet, "/api/advocates/search?q=john", http.StatusOK},
		{http.MethodPost, "/api/seed", http.StatusConflict},
		{http.MethodPost, "/api/cache/invalidate", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/analytics", http.StatusOK},
		{http.MethodGet, "/health/live", http.StatusOK},
		{http.MethodGet, "/health/ready", http.StatusOK},
		{http.MethodGet, "/nope", http.StatusNotFound},
		{http.MethodDelete, "/api/advocates", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	r, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/advocates", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc123", rec.Header().Get(middleware.RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/advocates", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsUseRoutePattern(t *testing.T) {
	r, m := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/advocates/search?q=x", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "GET /api/advocates/search", "200"))
	assert.Equal(t, 1.0, got)
}

func TestAdminRoutesAreRateLimited(t *testing.T) {
	limiter := middleware.NewLimiter(1, time.Minute)
	defer limiter.Close()
	h := handler.New(source.NewFixture(), nil, nil)
	r := New(h, Options{AdminLimiter: limiter})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/seed", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/seed", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/advocates", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
