// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/api"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/docservice"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/docstate"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/history"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/mcpserver"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/sse"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/storage"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/watch"
)

// newLogger returns a text handler for terminals and a JSON handler otherwise.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func (a *application) apply(opts []Option, defaultLog io.Writer) error {
	for _, opt := range opts {
		opt(a)
	}
	if a.config == nil {
		return fmt.Errorf("config is required")
	}
	if a.logOutput == nil {
		a.logOutput = defaultLog
	}
	return nil
}

// components are the collaborators shared by the HTTP and MCP front ends.
type components struct {
	store *storage.FS
	db    *history.DB
	svc   *docservice.Service
}

func (a *application) bootstrap(ctx context.Context, logger *slog.Logger, events docservice.Publisher) (*components, error) {
	cfg := a.config

	// Ensure workspace directory exists.
	if err := os.MkdirAll(cfg.Workspace.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Workspace.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := history.Open(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("init history: %w", err)
	}

	svc := docservice.NewService(docstate.New(cfg.Document.LockTimeout), store, db, events, logger)

	if a.document != "" {
		if _, err := svc.LoadPath(ctx, a.document); err != nil {
			db.Close()
			return nil, fmt.Errorf("open %s: %w", a.document, err)
		}
	}

	return &components{store: store, db: db, svc: svc}, nil
}

func (c *components) watch(ctx context.Context, logger *slog.Logger) error {
	if err := watch.Watch(ctx, c.store, c.store.Root(), logger, c.svc.HandleFileChange); err != nil {
		// The editor stays usable without change detection.
		logger.Warn("watcher stopped", slog.String("error", err.Error()))
	}
	return nil
}

// Run starts the HTTP application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}
	if err := app.apply(opts, os.Stdout); err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(app.logOutput, cfg.App.LogLevel)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("workspace_path", cfg.Workspace.Path),
		slog.String("history_path", cfg.History.Path),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.Duration("lock_timeout", cfg.Document.LockTimeout),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker.
	broker := sse.NewBroker(cfg.SSE.Throttle)
	defer broker.Close()

	c, err := app.bootstrap(ctx, logger, broker)
	if err != nil {
		return err
	}
	defer c.db.Close()

	apiRouter := api.NewRouter(c.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the workspace so external edits of the open document are flagged.
	if cfg.Document.Watch {
		g.Go(func() error { return c.watch(gCtx, logger) })
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		// Unblock the watcher when shutdown came from a signal.
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools over stdin/stdout. Logs go to stderr by
// default since stdout carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}
	if err := app.apply(opts, os.Stderr); err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(app.logOutput, cfg.App.LogLevel)
	slog.SetDefault(logger)

	c, err := app.bootstrap(ctx, logger, nil)
	if err != nil {
		return err
	}
	defer c.db.Close()

	var mcpOpts []mcpserver.Option
	if cfg.MCP.AllowPrivateHosts {
		logger.Warn("MCP URL loader may reach private hosts")
		mcpOpts = append(mcpOpts, mcpserver.AllowPrivateHosts())
	}
	srv := mcpserver.New(c.svc, mcpOpts...)

	g, gCtx := errgroup.WithContext(ctx)
	watchCtx, stopWatch := context.WithCancel(gCtx)
	defer stopWatch()

	if cfg.Document.Watch {
		g.Go(func() error { return c.watch(watchCtx, logger) })
	}
	g.Go(func() error {
		defer stopWatch()
		logger.Info("MCP server listening on stdio", slog.String("workspace_path", cfg.Workspace.Path))
		return srv.ServeStdio()
	})

	return g.Wait()
}
