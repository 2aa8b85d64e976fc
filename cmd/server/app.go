package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/dstreet/taskhub/internal/config"
	"github.com/dstreet/taskhub/internal/platform/postgres"
	"github.com/dstreet/taskhub/internal/service"
	"github.com/dstreet/taskhub/internal/service/auth"
	"github.com/dstreet/taskhub/internal/store"
)

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	taskStore store.TaskStore

	userService      service.UserService
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
}

// newApplication connects to the database and constructs every service and
// store the HTTP layer depends on.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	queryTimeout := cfg.Database.QueryTimeout()
	userStore := postgres.NewPostgresUserStore(db, logger, queryTimeout)
	taskStore := postgres.NewPostgresTaskStore(db, logger, queryTimeout)

	return &application{
		config:           cfg,
		logger:           logger,
		db:               db,
		userStore:        userStore,
		taskStore:        taskStore,
		userService:      service.NewUserService(userStore, db, logger),
		jwtService:       jwtService,
		passwordHasher:   auth.NewBcryptHasher(),
		passwordVerifier: auth.NewBcryptVerifier(),
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
