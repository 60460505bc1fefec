// Command advocates browses the advocate directory from a terminal.
//
// Usage:
//
//	advocates list
//	advocates search <query>
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/directory"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/source"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/postgres"
)

var (
	configPath string
	sourceKind string
	logLevel   string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "advocates",
	Short:         "Browse and search the advocate directory",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetupWriter(cmd.ErrOrStderr(), logLevel, "text")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&sourceKind, "source", "", "record source override (postgres or fixture)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level for stderr output")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "load timeout")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openSession loads the configured source into a fresh Session. The returned
// cleanup closes any database connection.
func openSession(ctx context.Context) (*directory.Session, func(), error) {
	cfg, err := config.Load(configPath, config.WithSourceKind(sourceKind))
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cleanup := func() {}
	var deps source.Deps
	if cfg.Source.Kind == config.SourcePostgres {
		db, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		deps.DB = db
		cleanup = func() { db.Close() }
	}

	src, err := source.New(cfg, deps)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	session, err := directory.Open(ctx, src)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return session, cleanup, nil
}
