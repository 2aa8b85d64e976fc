// Package main implements the entry point for the TaskHub API server,
// a multi-tenant task list service with JWT authentication backed by
// PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/dstreet/taskhub/internal/config"
	"github.com/dstreet/taskhub/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String(
		"migrate",
		"",
		"run database migrations (up|down|status) and exit",
	)
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("taskhub: %v", err)
	}
}

// run loads configuration, executes a migration command when requested, and
// otherwise wires the application and serves HTTP until shutdown.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	if migrateCmd != "" {
		return runMigrations(cfg, appLogger, migrateCmd)
	}

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return app.startHTTPServer(context.Background(), app.setupRouter())
}
