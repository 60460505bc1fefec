package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/source"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/postgres"
	pkgredis "github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	replace := flag.Bool("replace", false, "delete existing advocates before inserting")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if cfg.Source.Kind != config.SourcePostgres {
		slog.Error("seeding needs the postgres source", "source", cfg.Source.Kind)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(ctx, cfg.Postgres)
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Redis is only needed to drop a stale cached set after seeding.
	var redisClient *pkgredis.Client
	if cfg.Source.Cache {
		redisClient, err = pkgredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, cached set not invalidated", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	src, err := source.New(cfg, source.Deps{DB: db, Redis: redisClient})
	if err != nil {
		slog.Error("failed to build advocate source", "error", err)
		os.Exit(1)
	}
	seeder, ok := src.(source.Seeder)
	if !ok {
		slog.Error("configured source does not support seeding")
		os.Exit(1)
	}

	records, err := source.SeedData()
	if err != nil {
		slog.Error("seed data unreadable", "error", err)
		os.Exit(1)
	}

	n, err := seeder.Seed(ctx, records, *replace)
	if err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	slog.Info("advocates seeded", "inserted", n, "replace", *replace)
}
