// Package main implements the entry point for the kanban API server:
// a task-tracking backend with token-authenticated CRUD endpoints and
// live task event streaming over WebSocket.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/hivetech/kanban-api/internal/config"
	"github.com/hivetech/kanban-api/internal/platform/logger"
)

func main() {
	app, err := initializeApp(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		app.logger.Error("server exited with error", "error", err)
	}
}

// initializeApp loads configuration, sets up logging, connects to the
// database, runs migrations, and wires the application dependencies.
func initializeApp(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server)

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return app, nil
}
