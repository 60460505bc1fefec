package source

import (
	"context"
	"time"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/advocate"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/metrics"
)

// Instrumented records load latency, failures and set size for a source.
type Instrumented struct {
	next    Source
	name    string
	metrics *metrics.Metrics
}

func NewInstrumented(next Source, name string, m *metrics.Metrics) *Instrumented {
	return &Instrumented{next: next, name: name, metrics: m}
}

func (s *Instrumented) ListAll(ctx context.Context) ([]advocate.Advocate, error) {
	start := time.Now()
	records, err := s.next.ListAll(ctx)
	s.metrics.SourceLoadDuration.WithLabelValues(s.name).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.SourceLoadErrors.WithLabelValues(s.name).Inc()
		return nil, err
	}
	s.metrics.RecordsLoaded.Set(float64(len(records)))
	return records, nil
}
