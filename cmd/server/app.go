package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/workforce-api/internal/config"
	"github.com/phrazzld/workforce-api/internal/events"
	"github.com/phrazzld/workforce-api/internal/platform/cache"
	"github.com/phrazzld/workforce-api/internal/platform/memory"
	"github.com/phrazzld/workforce-api/internal/service"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	taskStore    *memory.TaskStore
	taskCache    *cache.TaskCache
	eventEmitter *events.InMemoryEventEmitter
	taskService  service.TaskService
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	app.taskStore = memory.NewTaskStore(logger)

	if cfg.Store.Seed {
		data, err := memory.ReadSeedFile(cfg.Store.SeedFile)
		if err != nil {
			return nil, err
		}
		n, err := memory.Seed(ctx, app.taskStore, data, time.Now().UTC())
		if err != nil {
			return nil, fmt.Errorf("failed to seed task store: %w", err)
		}
		logger.Info("Task store seeded", "tasks", n, "custom_fixture", cfg.Store.SeedFile != "")
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewAuditLogHandler(logger))

	var opts []service.Option
	if cfg.Cache.Enabled {
		app.taskCache = cache.NewTaskCache(cfg.Cache.TTL(), cfg.Cache.CleanupInterval(), logger)
		app.eventEmitter.RegisterHandler(app.taskCache)
		opts = append(opts, service.WithCache(app.taskCache))
		logger.Info("Task cache enabled", "ttl", cfg.Cache.TTL())
	}

	var err error
	app.taskService, err = service.NewTaskService(app.taskStore, app.eventEmitter, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	return app, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskCache != nil {
		app.taskCache.Flush()
	}
	app.logger.Info("Application shutdown completed")
}
