// Package server provides the HTTP daemon for the digital being runtime.
//
// The daemon exposes a REST API to monitor and control pass execution and
// runs passes automatically on a cron schedule.
//
// # Endpoints
//
//   - GET /health - Simple health check, returns "ok"
//   - GET /api/status - Consolidated status (pass state, last results, next scheduled run)
//   - POST /run - Triggers a pass (202 accepted, 409 when one is running)
//   - GET /history - Returns history of completed passes
//   - GET /memory - Returns the shared memory snapshot
//   - GET /metrics - Prometheus metrics
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/digitalbeing/being/activities"
	appconfig "github.com/digitalbeing/being/config"
	"github.com/digitalbeing/being/logging"
	"github.com/digitalbeing/being/memory"
	"github.com/digitalbeing/being/metrics"
	"github.com/digitalbeing/being/registry"
	"github.com/digitalbeing/being/runner"
	"github.com/digitalbeing/being/server/config"
	"github.com/digitalbeing/being/server/cron"
	"github.com/digitalbeing/being/server/handlers"
	"github.com/digitalbeing/being/server/runs"
)

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

// Server is the HTTP daemon for the being runtime.
type Server struct {
	addr       string
	logger     *slog.Logger
	manager    *runs.Manager
	trigger    *cron.Trigger // nil when no schedule configured
	scrapeReg  *metrics.ScrapeRegistry
	httpServer *http.Server
}

// New creates a Server from the daemon config: it loads the application
// config, registers the built-in activities, loads the constraints file and
// any persisted memory snapshot, and wires the runner behind the manager.
func New(srvCfg *config.ServerConfig) (*Server, error) {
	appCfg, err := appconfig.LoadConfig(srvCfg.BeingConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to load being config: %w", err)
	}

	logger, err := logging.New(appCfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	reg := registry.New(logger.Logger)
	if err := activities.RegisterAll(reg); err != nil {
		return nil, fmt.Errorf("failed to register activities: %w", err)
	}
	if err := reg.LoadConstraints(appCfg.Constraints.Path); err != nil {
		return nil, fmt.Errorf("failed to load constraints: %w", err)
	}

	shared := memory.NewStore()
	if appCfg.Memory.StateFile != "" {
		if err := shared.LoadFile(appCfg.Memory.StateFile, logger.Logger); err != nil {
			return nil, err
		}
	}

	scrapeReg, err := metrics.NewScrapeRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics registry: %w", err)
	}

	// Per-activity logs are captured so the API can expose them.
	collector := logging.NewCollector()
	loggerFactory := func(name string) *slog.Logger {
		handler := logging.NewCapturingHandler(logger.Handler(), collector, name)
		return slog.New(handler).With("activity", name)
	}

	r, err := runner.New(logger.Logger, reg, shared, scrapeReg,
		runner.WithTimeout(appCfg.Runner.ActivityTimeout),
		runner.WithLoggerFactory(loggerFactory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	managerOpts := []runs.Option{}
	if srvCfg.HistoryDir != "" {
		store, err := runs.NewDiskStore(srvCfg.HistoryDir, srvCfg.HistoryLimit, logger.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create history store: %w", err)
		}
		managerOpts = append(managerOpts, runs.WithStore(store))
	}
	if appCfg.Memory.StateFile != "" {
		managerOpts = append(managerOpts, runs.WithMemoryStateFile(appCfg.Memory.StateFile))
	}

	manager := runs.NewManager(logger.Logger, r, collector, shared, managerOpts...)

	s := &Server{
		addr:      srvCfg.Listener.Addr,
		logger:    logger.Logger,
		manager:   manager,
		scrapeReg: scrapeReg,
	}

	if srvCfg.Schedule != "" {
		trigger, err := cron.NewTrigger(srvCfg.Schedule, manager, logger.Logger)
		if err != nil {
			return nil, fmt.Errorf("creating cron trigger: %w", err)
		}
		s.trigger = trigger
	}

	return s, nil
}

// Logger returns the server's logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// Run starts the cron trigger and the HTTP server, blocking until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s.trigger != nil {
		s.trigger.Start(ctx)
		s.logger.Info("scheduled passes enabled", "next_run", s.trigger.NextRun())
	}

	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.routes(),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down http server")
	return s.httpServer.Shutdown(shutdownCtx)
}

// routes builds the HTTP mux.
func (s *Server) routes() http.Handler {
	var schedule handlers.SchedulePeeker
	if s.trigger != nil {
		schedule = s.trigger
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handlers.HandleHealth)
	mux.Handle("GET /api/status", handlers.NewStatusHandler(s.manager, schedule))
	mux.Handle("POST /run", handlers.NewRunHandler(s.manager))
	mux.Handle("GET /history", handlers.NewHistoryHandler(s.manager))
	mux.Handle("GET /memory", handlers.NewMemoryHandler(s.manager))
	mux.Handle("GET /metrics", s.scrapeReg.Handler())
	return mux
}
