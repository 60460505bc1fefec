// Package handler serves the directory over HTTP: the JSON API, the rendered
// page, and the seeding and cache endpoints. Every request opens its own
// Session over the configured source.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/advocate"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/directory"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/render"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/source"
	apperrors "github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/middleware"
)

// Tracker receives one event per search. *analytics.Collector implements it.
type Tracker interface {
	Track(event analytics.SearchEvent)
}

type Handler struct {
	source  source.Source
	tracker Tracker
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New builds a Handler. tracker and m may be nil.
func New(src source.Source, tracker Tracker, m *metrics.Metrics) *Handler {
	return &Handler{
		source:  src,
		tracker: tracker,
		metrics: m,
		logger:  logger.WithComponent("directory-handler"),
	}
}

type listResponse struct {
	Data []advocate.Advocate `json:"data"`
}

type searchResponse struct {
	Query   string         `json:"query"`
	Total   int            `json:"total"`
	Matched int            `json:"matched"`
	Data    []advocate.Row `json:"data"`
}

// ListAll serves the full set, unfiltered.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	session, ok := h.open(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, listResponse{Data: session.View()})
}

// Search filters the set by ?q=. An empty or missing q returns everything.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	session, ok := h.open(w, r)
	if !ok {
		h.observe(metrics.ResultError, 0)
		return
	}
	session.Search(r.URL.Query().Get("q"))
	h.record(r.Context(), session, analytics.SurfaceAPI, start)

	h.writeJSON(w, http.StatusOK, searchResponse{
		Query:   session.Query(),
		Total:   session.Total(),
		Matched: session.Matched(),
		Data:    session.Rows(),
	})
}

// Page renders the directory table as HTML, filtered by ?q=.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	session, ok := h.open(w, r)
	if !ok {
		h.observe(metrics.ResultError, 0)
		return
	}
	session.Search(r.URL.Query().Get("q"))
	h.record(r.Context(), session, analytics.SurfacePage, start)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := render.HTML(w, render.Page{
		Query:   session.Query(),
		Total:   session.Total(),
		Matched: session.Matched(),
		Rows:    session.Rows(),
	})
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to render page", "error", err)
	}
}

type seedResponse struct {
	Inserted int `json:"inserted"`
}

// Seed writes the embedded seed data into the backing store. ?replace=true
// empties the table first.
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	seeder, ok := h.source.(source.Seeder)
	if !ok {
		h.writeError(w, http.StatusConflict, "configured source does not support seeding")
		return
	}

	replace := false
	if v := r.URL.Query().Get("replace"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "replace must be a boolean")
			return
		}
		replace = parsed
	}

	records, err := source.SeedData()
	if err != nil {
		log.Error("seed data unreadable", "error", err)
		h.writeError(w, http.StatusInternalServerError, "seed data unreadable")
		return
	}
	n, err := seeder.Seed(r.Context(), records, replace)
	if err != nil {
		log.Error("seeding failed", "error", err)
		h.writeError(w, apperrors.HTTPStatusCode(err), "seeding failed: "+apperrors.PublicMessage(err))
		return
	}

	log.Info("advocates seeded", "inserted", n, "replace", replace)
	h.writeJSON(w, http.StatusOK, seedResponse{Inserted: n})
}

// CacheInvalidate drops the cached record set so the next load hits the store.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.source.(source.Invalidator)
	if !ok {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}
	if err := inv.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) (*directory.Session, bool) {
	session, err := directory.Open(r.Context(), h.source)
	if err != nil {
		logger.FromContext(r.Context()).Error("advocate load failed", "error", err)
		h.writeError(w, http.StatusServiceUnavailable, apperrors.ErrSourceUnavailable.Error())
		return nil, false
	}
	return session, true
}

func (h *Handler) record(ctx context.Context, s *directory.Session, surface string, start time.Time) {
	latencyMs := time.Since(start).Milliseconds()
	result := metrics.ResultMatched
	switch {
	case s.Query() == "":
		result = metrics.ResultAll
	case s.Matched() == 0:
		result = metrics.ResultZero
	}
	h.observe(result, s.Matched())

	logger.FromContext(ctx).Info("search completed",
		"query", s.Query(),
		"total", s.Total(),
		"matched", s.Matched(),
		"surface", surface,
		"latency_ms", latencyMs,
	)
	if h.tracker != nil {
		h.tracker.Track(analytics.SearchEvent{
			Query:     s.Query(),
			Total:     s.Total(),
			Matched:   s.Matched(),
			LatencyMs: latencyMs,
			Surface:   surface,
			Timestamp: time.Now().UTC(),
			RequestID: middleware.GetRequestID(ctx),
		})
	}
}

func (h *Handler) observe(result string, matched int) {
	if h.metrics == nil {
		return
	}
	h.metrics.SearchesTotal.WithLabelValues(result).Inc()
	if result != metrics.ResultError {
		h.metrics.SearchResultsCount.Observe(float64(matched))
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
