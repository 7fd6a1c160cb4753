package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/l10n-tracker/internal/filestore"
	"github.com/rpggio/l10n-tracker/internal/mcp"
	"github.com/rpggio/l10n-tracker/internal/metrics"
	"github.com/rpggio/l10n-tracker/internal/transport"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the tracker over HTTP or stdio MCP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, cleanup, err := loadConfig(false)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				logger.Error("startup failed", "error", err)
				return err
			}
			defer a.Close()

			logger.Info("tracker ready",
				"document", cfg.DocumentPath(),
				"projects", a.projects.Snapshot(ctx).Len(),
				"completion", a.projects.CompletionMode())

			m := metrics.New()
			a.handler.SetObserver(m)

			if cfg.Watch.Enabled {
				stopWatch := startWatcher(ctx, a.store, cfg.Watch.Debounce, logger)
				defer stopWatch()
			}

			mcpServer := mcp.NewServer(mcp.Config{
				Handler: a.handler,
				Version: Version,
				Logger:  logger,
			})

			if cfg.Transport.Mode == "stdio" {
				return runStdioMode(ctx, logger, mcpServer)
			}
			return runHTTPMode(logger, a, mcpServer, m)
		},
	}
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	go func() {
		select {
		case <-stop:
			logger.Info("shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Run blocks until stdin closes or ctx is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", "error", err)
		return err
	}
	return nil
}

func runHTTPMode(logger *slog.Logger, a *app, mcpServer *sdkmcp.Server, m *metrics.Metrics) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := transport.NewServer(transport.Options{
		Handler:     a.handler,
		Projects:    a.projects,
		Attachments: a.attachments,
		Docs:        a.docs,
		MCP:         mcpHandler,
		Metrics:     m.Handler(),
		Observer:    m,
		Logger:      logger,
	})

	httpServer := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			errCh <- err
		}
	}()

	return waitForShutdown(logger, httpServer, errCh)
}

func startWatcher(ctx context.Context, store *filestore.ProjectStore, debounce time.Duration, logger *slog.Logger) func() {
	watcher, err := filestore.NewDocumentWatcher(store, debounce, logger)
	if err != nil {
		logger.Warn("document watcher disabled", "error", err)
		return func() {}
	}
	if err := watcher.Start(ctx); err != nil {
		logger.Warn("document watcher disabled", "error", err)
		_ = watcher.Stop()
		return func() {}
	}
	go func() {
		for change := range watcher.Changes() {
			logger.Info("call reset_session to reload the project document",
				"path", change.Path, "removed", change.Removed)
		}
	}()
	return func() { _ = watcher.Stop() }
}

func waitForShutdown(logger *slog.Logger, server *http.Server, errCh <-chan error) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
	case err := <-errCh:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}
	return nil
}
