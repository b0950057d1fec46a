package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/assignment"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/criteria"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/evaluation"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/period"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/progress"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/target"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/config"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/metrics"
	"github.com/GTD-web/ems-backend-sub025/internal/transport/http/api"
	assignmenthandler "github.com/GTD-web/ems-backend-sub025/internal/transport/http/handlers/assignment"
	criteriahandler "github.com/GTD-web/ems-backend-sub025/internal/transport/http/handlers/criteria"
	evaluationhandler "github.com/GTD-web/ems-backend-sub025/internal/transport/http/handlers/evaluation"
	periodhandler "github.com/GTD-web/ems-backend-sub025/internal/transport/http/handlers/period"
	progresshandler "github.com/GTD-web/ems-backend-sub025/internal/transport/http/handlers/progress"
	"github.com/GTD-web/ems-backend-sub025/internal/transport/http/middleware"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	Config  config.Config
	DB      *db.DB
	Metrics *metrics.Collector
	Router  http.Handler
}

// New connects to the configured database, applies migrations when enabled
// and assembles the router.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL, db.Options{MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, database.DB); err != nil {
			database.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
	}
	return NewWithDB(cfg, database, logger), nil
}

// NewWithDB builds the application around an open database.
func NewWithDB(cfg config.Config, database *db.DB, logger *slog.Logger) *App {
	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}
	return &App{
		Config:  cfg,
		DB:      database,
		Metrics: collector,
		Router:  NewRouter(cfg, database, collector, logger),
	}
}

func NewRouter(cfg config.Config, database *db.DB, collector *metrics.Collector, logger *slog.Logger) http.Handler {
	conn := database.DB
	uow := db.NewUnitOfWork(database.DB)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, r, http.StatusNotFound, "route_not_found", "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx); err != nil {
			slog.Warn("readiness check failed", "err", err)
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if collector != nil {
		router.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Actor(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimit, time.Minute))

		periodhandler.NewHandler(period.NewService(conn, uow), target.NewService(conn, uow)).RegisterRoutes(r)
		assignmenthandler.NewHandler(assignment.NewService(conn, uow)).RegisterRoutes(r)
		criteriahandler.NewHandler(criteria.NewService(conn, uow)).RegisterRoutes(r)
		evaluationhandler.NewHandler(evaluation.NewService(conn, uow)).RegisterRoutes(r)
		progresshandler.NewHandler(progress.NewService(conn)).RegisterRoutes(r)
	})

	return router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadTimeout:       a.Config.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      a.Config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", a.Config.Addr, "environment", a.Config.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
