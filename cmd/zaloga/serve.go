package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/zaloga/internal/api"
	"github.com/erazemk/zaloga/internal/config"
	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/imaging"
	"github.com/erazemk/zaloga/internal/store"
	"github.com/erazemk/zaloga/internal/web"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, closeLog, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	s, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	images := imaging.NewMaterializer(cfg.UploadsDir)
	if err := images.Init(); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.PublicDir, 0o755); err != nil {
		return fmt.Errorf("creating public directory: %w", err)
	}

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		// Generated on first run and kept in the settings collection.
		if jwtSecret, err = s.JWTSecret(cmd.Context()); err != nil {
			return fmt.Errorf("loading JWT secret: %w", err)
		}
	}

	if cfg.AdminKey == "" {
		slog.Warn("admin routes are unprotected; set admin-key to require X-Admin-Key")
	}
	if cfg.LegacyTokens {
		slog.Info("legacy tokens enabled; user IDs are accepted as bearer tokens")
	}

	handler, err := newHandler(cfg, s, images, jwtSecret)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr, "backend", cfg.Backend)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// newHandler combines the API and the static site behind the shared
// middleware.
func newHandler(cfg *config.Config, s *store.Store, images *imaging.Materializer, jwtSecret string) (http.Handler, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	apiRouter := api.NewRouter(api.Options{
		Store:        s,
		Images:       images,
		JWTSecret:    jwtSecret,
		LegacyTokens: cfg.LegacyTokens,
		AdminKey:     cfg.AdminKey,
		Location:     loc,
	})
	webRouter := web.NewRouter(cfg.PublicDir, cfg.UploadsDir)

	// API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/healthz", apiRouter)
	mux.Handle("/", webRouter)

	var handler http.Handler = mux
	handler = api.BodyLimitMiddleware(cfg.MaxBodyBytes)(handler)
	handler = api.CORSMiddleware(handler)
	handler = api.RecoverMiddleware(handler)
	handler = api.LoggingMiddleware(handler)
	return handler, nil
}

// openStore opens the configured backend. The returned function releases it.
func openStore(cfg *config.Config) (*store.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		database, err := db.Open(cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		if err := db.EnsureSchema(database); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("ensuring database schema: %w", err)
		}
		slog.Info("database ready", "path", cfg.DB)
		return store.New(store.NewSQLiteBackend(database)), func() { database.Close() }, nil

	default:
		backend := store.NewFileBackend(cfg.DataDir)
		if err := backend.Init(); err != nil {
			return nil, nil, err
		}
		slog.Info("data directory ready", "path", cfg.DataDir)
		return store.New(backend), func() {}, nil
	}
}
