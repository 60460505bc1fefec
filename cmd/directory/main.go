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
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/directory/handler"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/router"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/source"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/postgres"
	pkgredis "github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting advocate directory",
		"port", cfg.Server.Port,
		"source", cfg.Source.Kind,
		"cache", cfg.Source.Cache,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.DefaultRegisterer)
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Port, prometheus.DefaultGatherer); err != nil {
				slog.Error("metrics server error", "error", err)
			}
		}()
	}

	var db *postgres.Client
	if cfg.Source.Kind == config.SourcePostgres {
		db, err = postgres.New(ctx, cfg.Postgres)
		if err != nil {
			slog.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	var redisClient *pkgredis.Client
	if cfg.Source.Cache {
		redisClient, err = pkgredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, record caching disabled", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			slog.Info("record cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	src, err := source.New(cfg, source.Deps{DB: db, Redis: redisClient, Metrics: m})
	if err != nil {
		slog.Error("failed to build advocate source", "error", err)
		os.Exit(1)
	}

	records, err := src.ListAll(ctx)
	if err != nil {
		slog.Error("initial advocate load failed", "error", err)
		os.Exit(1)
	}
	slog.Info("advocate source ready", "records", len(records))

	var tracker handler.Tracker
	var aggregator *analytics.Aggregator
	if cfg.Analytics.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.SearchEvents)
		defer producer.Close()

		collector := analytics.NewCollector(producer, cfg.Analytics.BufferSize)
		collector.Start(ctx)
		defer collector.Close()
		tracker = collector

		aggregator = analytics.NewAggregator()
		consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.SearchEvents, aggregator.HandleMessage())
		go func() {
			if err := consumer.Run(ctx); err != nil {
				slog.Error("analytics consumer error", "error", err)
			}
		}()
		slog.Info("search analytics enabled", "topic", cfg.Kafka.Topics.SearchEvents)
	}

	checker := health.NewChecker()
	if db != nil {
		checker.Register("source", health.PingCheck(db, health.StatusDown))
	} else {
		checker.Register("source", func(ctx context.Context) health.ComponentHealth {
			return health.ComponentHealth{Status: health.StatusUp, Message: cfg.Source.Kind}
		})
	}
	var redisPinger health.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}
	checker.Register("redis", health.PingCheck(redisPinger, health.StatusDegraded))

	var adminLimiter *middleware.Limiter
	if cfg.Server.AdminRateLimit > 0 {
		adminLimiter = middleware.NewLimiter(cfg.Server.AdminRateLimit, time.Minute)
		defer adminLimiter.Close()
	}

	h := handler.New(src, tracker, m)
	chain := router.New(h, router.Options{
		Analytics:      analytics.NewHandler(aggregator),
		Health:         checker,
		Metrics:        m,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Timeout:        cfg.Server.WriteTimeout,
		AdminLimiter:   adminLimiter,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// In-flight requests may still Track searches; the deferred collector
	// Close must not run until Shutdown has drained them.
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("advocate directory listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	<-shutdownDone

	slog.Info("advocate directory stopped")
}
