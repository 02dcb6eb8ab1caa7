package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"

	_ "github.com/markvault/markvault/docs" // Swagger docs (generated)
	"github.com/markvault/markvault/internal/auth"
	"github.com/markvault/markvault/internal/bookmark"
	"github.com/markvault/markvault/internal/config"
	"github.com/markvault/markvault/internal/database"
	httpServer "github.com/markvault/markvault/internal/http"
	"github.com/markvault/markvault/internal/logging"
	"github.com/markvault/markvault/internal/user"
)

// @title           MarkVault API
// @version         1.0
// @description     A bookmarks backend with token-based authentication and per-user ownership.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration; a missing JWT secret aborts here, before anything
	// can serve
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Repositories
	userRepo := user.NewRepository(db)
	bookmarkRepo := bookmark.NewRepository(db)

	// Token service
	jwtService, err := auth.NewJWTService(cfg.Auth.JWTSecret)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	// Services
	authService := auth.NewService(userRepo, jwtService, logger, cfg.Auth.AccessTokenDuration)
	bookmarkService := bookmark.NewService(bookmarkRepo)

	// HTTP handlers and guard
	authHandler := auth.NewHandler(authService)
	authMiddleware := auth.NewMiddleware(jwtService, userRepo)
	userHandler := user.NewHandler(userRepo, auth.GetUserFromContext)
	bookmarkHandler := bookmark.NewHandler(bookmarkService)

	router := httpServer.NewRouter(cfg, authHandler, authMiddleware, userHandler, bookmarkHandler, logger)

	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		logger,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Printf("Received signal: %v", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initDB opens the Postgres connection. An unreachable store is
// startup-fatal.
func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return database.NewBunDB(sqlDB), nil
}
