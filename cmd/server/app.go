package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/hivetech/kanban-api/internal/authz"
	"github.com/hivetech/kanban-api/internal/config"
	"github.com/hivetech/kanban-api/internal/events"
	"github.com/hivetech/kanban-api/internal/platform/postgres"
	"github.com/hivetech/kanban-api/internal/service"
	"github.com/hivetech/kanban-api/internal/service/auth"
	"github.com/hivetech/kanban-api/internal/store"
)

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	taskStore store.TaskStore

	jwtService auth.JWTService
	policy     *authz.Policy
	hub        *events.Hub

	userService *service.UserService
	taskService *service.TaskService
}

// newApplication connects to the database, runs migrations, and builds
// the dependency graph bottom-up: stores, then services, then the
// shared policy and event hub consulted by the transport layer.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	userStore := postgres.NewUserStore(db)
	taskStore := postgres.NewTaskStore(db)

	hub := events.NewHub(logger)
	passwords := auth.NewBcryptVerifier()

	return &application{
		config:      cfg,
		logger:      logger,
		db:          db,
		userStore:   userStore,
		taskStore:   taskStore,
		jwtService:  jwtService,
		policy:      authz.NewPolicy(),
		hub:         hub,
		userService: service.NewUserService(userStore, jwtService, passwords, passwords),
		taskService: service.NewTaskService(taskStore, hub),
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
