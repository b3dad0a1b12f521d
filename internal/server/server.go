// Package server wires the application together: it is the composition
// root that builds the store, session layer, services, and handlers, maps
// them onto routes, and owns startup and graceful shutdown.
//
// The route groups are the authentication design made visible:
//
//	/                            public — login entry
//	/auth/google/callback        public — identity resolution
//	/logout                      public — session teardown (bypass set)
//	/home                        session gate
//	/admin, /admin/users/...     session gate + admin policy
//
// Everything authenticated hangs off one chi group with RequireSession;
// the admin surface nests a second group with RequireAdmin. Nothing else
// in the codebase decides who may reach what.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hamkuu/fasthtml-admin/internal/auth"
	"github.com/hamkuu/fasthtml-admin/internal/config"
	"github.com/hamkuu/fasthtml-admin/internal/handler"
	"github.com/hamkuu/fasthtml-admin/internal/middleware"
	sqliteRepo "github.com/hamkuu/fasthtml-admin/internal/repository/sqlite"
	"github.com/hamkuu/fasthtml-admin/internal/service"
)

// Server owns the router and the resources that need closing on shutdown:
// the database and the session sweeper.
type Server struct {
	router   *chi.Mux
	config   *config.Config
	logger   *slog.Logger
	db       *sqliteRepo.DB
	sessions *auth.SessionStore
}

// New assembles the full dependency graph. Each layer receives only what
// it needs: services get the repository interface, handlers get services,
// and nothing reads the environment past this point.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	state, err := auth.NewStateService(cfg.Session.Secret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state service: %w", err)
	}

	sessions := auth.NewSessionStore(cfg.Session.TTL)
	sessions.StartSweeper(cfg.Session.SweepInterval)

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		db:       db,
		sessions: sessions,
	}

	s.setupRoutes(state)

	return s, nil
}

func (s *Server) setupRoutes(state *auth.StateService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	google := auth.NewGoogleProvider(
		s.config.Google.ClientID,
		s.config.Google.ClientSecret,
		s.config.Google.CallbackURL,
	)
	policy := auth.AdminPolicy{
		EmailPrefix: s.config.Admin.Prefix,
		EmailDomain: s.config.Admin.Domain,
	}

	identity := service.NewIdentityService(s.db, s.logger)
	credits := service.NewCreditService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(google, state, s.sessions, identity, s.config.Session.TTL, s.logger)
	profileHandler := handler.NewProfileHandler(identity, s.logger)
	adminHandler := handler.NewAdminHandler(s.db, credits, s.logger)

	// bypass set: reachable without a session
	s.router.Get("/", authHandler.HandleLoginEntry)
	s.router.Get("/auth/google/callback", authHandler.HandleCallback)
	s.router.Get("/logout", authHandler.HandleLogout)

	// everything else sits behind the session gate
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireSession(s.sessions, "/"))

		r.Get("/home", profileHandler.HandleHome)

		// admin surface: authenticated AND authorized
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin(s.db, policy, s.logger))

			r.Get("/admin", adminHandler.HandleListUsers)
			r.Get("/admin/users/{id}/credits", adminHandler.HandleEditCredits)
			r.Post("/admin/users/{id}/credits", adminHandler.HandleUpdateCredits)
		})
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests, stops the session sweeper, and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()
	defer s.sessions.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.Database.Path),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// Router exposes the assembled handler chain for HTTP-level tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the server's resources without serving. Tests use it when
// they exercise Router directly instead of Start.
func (s *Server) Close() error {
	s.sessions.Stop()
	return s.db.Close()
}
