package middleware

import (
	"context"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/logger"
)

// Timeout cancels the request context after d and answers 504 if the handler
// has not started its response by then. Anything the handler writes later is
// discarded. When the response has already started, Timeout waits for the
// handler to return so nothing touches w after ServeHTTP. A non-positive d
// disables the middleware.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			tw := &timeoutWriter{w: w, header: make(http.Header)}
			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(tw, r.WithContext(ctx))
			}()

			select {
			case <-done:
				tw.finish()
			case <-ctx.Done():
				log := logger.FromContext(r.Context()).With("method", r.Method, "path", r.URL.Path, "timeout", d)
				if !tw.expire() {
					// The handler owns a partial response; it may still be
					// writing to w, so ServeHTTP cannot return before it does.
					log.Warn("request timed out mid-response")
					<-done
					return
				}
				log.Warn("request timed out")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusGatewayTimeout)
				w.Write([]byte(`{"error":"request timeout"}`))
			}
		})
	}
}

// timeoutWriter keeps the handler's headers in its own map until the first
// write, so the timeout path never shares a header map with the handler
// goroutine.
type timeoutWriter struct {
	w      http.ResponseWriter
	header http.Header

	mu       sync.Mutex
	started  bool
	timedOut bool
}

func (tw *timeoutWriter) Header() http.Header { return tw.header }

// expire marks the writer timed out and reports whether the caller still
// owns the response.
func (tw *timeoutWriter) expire() bool {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.timedOut = true
	return !tw.started
}

// finish flushes headers for handlers that returned without writing.
func (tw *timeoutWriter) finish() {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if !tw.started && !tw.timedOut {
		tw.start(http.StatusOK)
	}
}

func (tw *timeoutWriter) start(code int) {
	tw.started = true
	maps.Copy(tw.w.Header(), tw.header)
	tw.w.WriteHeader(code)
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut || tw.started {
		return
	}
	tw.start(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !tw.started {
		tw.start(http.StatusOK)
	}
	return tw.w.Write(b)
}

func (tw *timeoutWriter) Unwrap() http.ResponseWriter {
	return tw.w
}
