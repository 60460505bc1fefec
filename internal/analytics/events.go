package analytics

import "time"

// SearchEvent describes one directory search as seen by the server.
type SearchEvent struct {
	Query     string    `json:"query"`
	Total     int       `json:"total"`
	Matched   int       `json:"matched"`
	LatencyMs int64     `json:"latency_ms"`
	Surface   string    `json:"surface"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// Surfaces a search can come from.
const (
	SurfaceAPI  = "api"
	SurfacePage = "page"
)

// ZeroResult reports whether a non-empty query matched nothing.
func (e SearchEvent) ZeroResult() bool {
	return e.Query != "" && e.Matched == 0
}
