// Package router wires the directory routes and applies the middleware chain
// (RequestID → CORS → Timeout → Metrics).
package router

import (
	"net/http"
	"time"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/directory/handler"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/middleware"
)

// Options carries everything the router serves besides the directory handler.
// Metrics and AdminLimiter may be nil; a zero Timeout disables the timeout
// middleware.
type Options struct {
	Analytics      *analytics.Handler
	Health         *health.Checker
	Metrics        *metrics.Metrics
	AllowedOrigins []string
	Timeout        time.Duration
	AdminLimiter   *middleware.Limiter
}

// New builds the full HTTP handler.
//
// Route table:
//
//	GET    /                        → rendered directory page (?q=)
//	GET    /api/advocates           → full record set
//	GET    /api/advocates/search    → filtered rows (?q=)
//	POST   /api/seed                → seed the store (?replace=), rate limited
//	POST   /api/cache/invalidate    → drop the cached record set, rate limited
//	GET    /api/analytics           → aggregated search stats
//	GET    /health/live             → liveness
//	GET    /health/ready            → readiness
//
// Middleware chain (outermost first):
//
//	RequestID → CORS → Timeout → Metrics → mux
func New(h *handler.Handler, opts Options) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Page)

	// Directory API
	mux.HandleFunc("GET /api/advocates", h.ListAll)
	mux.HandleFunc("GET /api/advocates/search", h.Search)

	// Store management
	admin := func(fn http.HandlerFunc) http.Handler {
		if opts.AdminLimiter == nil {
			return fn
		}
		return middleware.RateLimit(opts.AdminLimiter)(fn)
	}
	mux.Handle("POST /api/seed", admin(h.Seed))
	mux.Handle("POST /api/cache/invalidate", admin(h.CacheInvalidate))

	if opts.Analytics != nil {
		mux.HandleFunc("GET /api/analytics", opts.Analytics.Stats)
	}
	if opts.Health != nil {
		mux.HandleFunc("GET /health/live", opts.Health.LiveHandler())
		mux.HandleFunc("GET /health/ready", opts.Health.ReadyHandler())
	}

	// Metrics sits next to the mux so it sees the matched pattern.
	var chain http.Handler = mux
	if opts.Metrics != nil {
		chain = middleware.Metrics(opts.Metrics)(chain)
	}
	if opts.Timeout > 0 {
		chain = middleware.Timeout(opts.Timeout)(chain)
	}
	chain = middleware.CORS(middleware.NewCORSConfig(opts.AllowedOrigins))(chain)
	chain = middleware.RequestID(chain)

	return chain
}
