// Package main implements the entry point for the workforce API server,
// which manages tasks attached to orders and customer entities.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/workforce-api/internal/config"
	"github.com/phrazzld/workforce-api/internal/platform/logger"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running the binary without a
// subcommand is the same as "serve".
func newRootCmd() *cobra.Command {
	var configFile string

	run := func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(
			config.WithConfigFile(configFile),
			config.WithFlags(cmd.Flags()),
		)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServer(ctx, cfg)
	}

	root := &cobra.Command{
		Use:          "workforce-api",
		Short:        "Task management API for workforce operations",
		SilenceUsage: true,
		RunE:         run,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "path to a YAML config file (default ./config.yaml if present)")
	flags.Int("port", 8080, "HTTP port to listen on")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.Bool("seed", true, "load seed tasks at startup")
	flags.String("seed-file", "", "YAML seed fixture (default: built-in fixture)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  run,
	})

	return root
}

// runServer sets up logging, builds the application and serves until ctx
// is cancelled.
func runServer(ctx context.Context, cfg *config.Config) error {
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("seed", cfg.Store.Seed),
		slog.Bool("cache_enabled", cfg.Cache.Enabled))

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize application", "error", err)
		return err
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}
