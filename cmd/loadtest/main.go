// Command loadtest drives concurrent searches against a running directory
// server and reports throughput, latency percentiles and status codes.
//
// Usage:
//
//	go run ./cmd/loadtest -url http://localhost:3000 -concurrency 20 -duration 30s
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

// defaultQueries mix hits on every searchable field with misses.
var defaultQueries = []string{
	"john",
	"smith",
	"san",
	"new york",
	"md",
	"phd",
	"bipolar",
	"lgbtq",
	"sleep issues",
	"eating disorders",
	"10",
	"555123",
	"(555)",
	"xyz",
	"",
}

type options struct {
	baseURL     string
	path        string
	concurrency int
	duration    time.Duration
	queries     []string
}

func main() {
	baseURL := flag.String("url", "http://localhost:3000", "base URL of the directory server")
	path := flag.String("path", "/api/advocates/search", "search endpoint (use / for the rendered page)")
	concurrency := flag.Int("concurrency", 10, "number of concurrent workers")
	duration := flag.Duration("duration", 30*time.Second, "test duration")
	queries := flag.String("queries", "", "comma-separated queries (default: built-in mix)")
	flag.Parse()

	opts := options{
		baseURL:     strings.TrimRight(*baseURL, "/"),
		path:        *path,
		concurrency: *concurrency,
		duration:    *duration,
		queries:     defaultQueries,
	}
	if *queries != "" {
		opts.queries = strings.Split(*queries, ",")
	}

	fmt.Println("=== Advocate Directory Load Test ===")
	fmt.Printf("Target:      %s%s\n", opts.baseURL, opts.path)
	fmt.Printf("Concurrency: %d\n", opts.concurrency)
	fmt.Printf("Duration:    %s\n", opts.duration)
	fmt.Printf("Queries:     %d\n", len(opts.queries))
	fmt.Println()

	stats := run(opts)
	report := stats.Report(opts.duration)
	report.Print(os.Stdout)
	if report.Total == 0 {
		fmt.Println("\nWARNING: no requests completed. Is the server running?")
		os.Exit(1)
	}
}

func searchURL(opts options, query string) string {
	return fmt.Sprintf("%s%s?q=%s", opts.baseURL, opts.path, url.QueryEscape(query))
}

func run(opts options) *Stats {
	stats := NewStats()
	client := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        opts.concurrency * 2,
			MaxIdleConnsPerHost: opts.concurrency * 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.duration)
	defer cancel()

	var wg sync.WaitGroup
	for w := range opts.concurrency {
		wg.Go(func() {
			for i := w; ctx.Err() == nil; i++ {
				target := searchURL(opts, opts.queries[i%len(opts.queries)])
				req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
				if err != nil {
					stats.Record(0, 0, err)
					return
				}
				start := time.Now()
				resp, err := client.Do(req)
				elapsed := time.Since(start)
				if err != nil {
					if ctx.Err() == nil {
						stats.Record(elapsed, 0, err)
					}
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				stats.Record(elapsed, resp.StatusCode, nil)
			}
		})
	}

	fmt.Print("Running")
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fmt.Print(".")
			}
		}
	}()

	wg.Wait()
	fmt.Println(" done")
	fmt.Println()
	return stats
}
