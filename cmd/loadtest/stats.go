package main

import (
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/analytics"
)

// Stats accumulates request outcomes from all workers.
type Stats struct {
	mu          sync.Mutex
	total       int64
	errors      int64
	latencies   []time.Duration
	statusCodes map[int]int64
}

func NewStats() *Stats {
	return &Stats{
		latencies:   make([]time.Duration, 0, 100000),
		statusCodes: make(map[int]int64),
	}
}

// Record counts one request. Transport errors have status 0 and no latency
// sample.
func (s *Stats) Record(latency time.Duration, status int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	if err != nil {
		s.errors++
		return
	}
	if status < 200 || status >= 300 {
		s.errors++
	}
	s.latencies = append(s.latencies, latency)
	s.statusCodes[status]++
}

// Report is a summary of Stats over a run.
type Report struct {
	Total       int64
	Errors      int64
	RPS         float64
	Min, Max    time.Duration
	Avg, StdDev time.Duration
	P50, P90    time.Duration
	P95, P99    time.Duration
	StatusCodes map[int]int64
}

func (s *Stats) Report(elapsed time.Duration) Report {
	s.mu.Lock()
	latencies := slices.Clone(s.latencies)
	r := Report{
		Total:       s.total,
		Errors:      s.errors,
		StatusCodes: maps.Clone(s.statusCodes),
	}
	s.mu.Unlock()

	if elapsed > 0 {
		r.RPS = float64(r.Total) / elapsed.Seconds()
	}
	if len(latencies) == 0 {
		return r
	}
	slices.Sort(latencies)

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	r.Avg = sum / time.Duration(len(latencies))
	var sq float64
	for _, l := range latencies {
		d := float64(l - r.Avg)
		sq += d * d
	}
	r.StdDev = time.Duration(math.Sqrt(sq / float64(len(latencies))))
	r.Min = latencies[0]
	r.Max = latencies[len(latencies)-1]
	r.P50 = analytics.Percentile(latencies, 50)
	r.P90 = analytics.Percentile(latencies, 90)
	r.P95 = analytics.Percentile(latencies, 95)
	r.P99 = analytics.Percentile(latencies, 99)
	return r
}

func (r Report) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Results ===")
	fmt.Fprintf(w, "Total Requests:  %d\n", r.Total)
	fmt.Fprintf(w, "Errors:          %d\n", r.Errors)
	if r.Total > 0 {
		fmt.Fprintf(w, "Error Rate:      %.2f%%\n", float64(r.Errors)/float64(r.Total)*100)
		fmt.Fprintf(w, "Requests/sec:    %.2f\n", r.RPS)
	}
	if r.Max > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "=== Latency ===")
		fmt.Fprintf(w, "Min:    %s\n", r.Min)
		fmt.Fprintf(w, "Avg:    %s\n", r.Avg)
		fmt.Fprintf(w, "P50:    %s\n", r.P50)
		fmt.Fprintf(w, "P90:    %s\n", r.P90)
		fmt.Fprintf(w, "P95:    %s\n", r.P95)
		fmt.Fprintf(w, "P99:    %s\n", r.P99)
		fmt.Fprintf(w, "Max:    %s\n", r.Max)
		fmt.Fprintf(w, "StdDev: %s\n", r.StdDev)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Status Codes ===")
	for _, code := range slices.Sorted(maps.Keys(r.StatusCodes)) {
		fmt.Fprintf(w, "  %d: %d\n", code, r.StatusCodes[code])
	}
}
