// Package main is the entry point for the admin console server.
//
// main stays minimal: load configuration, build the logger, hand both to
// the server package. All wiring lives in internal/server; all behavior
// lives below that.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/hamkuu/fasthtml-admin/internal/config"
	"github.com/hamkuu/fasthtml-admin/internal/server"
)

func main() {
	// .env is a development convenience; in production the variables come
	// from the environment and the file simply doesn't exist.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.Level(cfg.LogLevel),
	}))

	if cfg.Session.Secret == "" {
		logger.Error("SESSION_SECRET is required; generate one with: openssl rand -hex 32")
		os.Exit(1)
	}
	if cfg.Google.ClientID == "" || cfg.Google.ClientSecret == "" {
		logger.Warn("Google OAuth client not configured — logins will fail at the provider")
	}

	// make sure the database directory exists for file-backed stores
	if cfg.Database.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Database.Path)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down via SIGINT/SIGTERM
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
