// Command analytics runs the search analytics aggregator on its own: it
// consumes directory search events from Kafka and serves the aggregate at
// GET /api/analytics, so several directory servers can share one view.
//
// Usage:
//
//	go run ./cmd/analytics [-config configs/development.yaml] [-port 3001]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/middleware"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	port := flag.Int("port", 3001, "HTTP port for the analytics API")
	flag.Parse()

	// The aggregator never reads advocate records.
	os.Setenv("ADV_SOURCE_KIND", config.SourceFixture)
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting analytics service", "port", *port, "topic", cfg.Kafka.Topics.SearchEvents)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	aggregator := analytics.NewAggregator()
	kafkaCfg := cfg.Kafka
	kafkaCfg.ConsumerGroup += "-analytics"
	consumer := kafka.NewConsumer(kafkaCfg, cfg.Kafka.Topics.SearchEvents, aggregator.HandleMessage())

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := consumer.Run(ctx); err != nil {
			slog.Error("analytics consumer error", "error", err)
		}
	}()

	checker := health.NewChecker()
	checker.Register("kafka", func(ctx context.Context) health.ComponentHealth {
		select {
		case <-consumerDone:
			return health.ComponentHealth{Status: health.StatusDown, Message: "consumer stopped"}
		default:
			return health.ComponentHealth{Status: health.StatusUp, Message: "consumer active"}
		}
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/analytics", analytics.NewHandler(aggregator).Stats)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      middleware.RequestID(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("analytics service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	<-consumerDone
	slog.Info("analytics service stopped")
}
