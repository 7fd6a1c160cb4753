package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpggio/l10n-tracker/internal/config"
	"github.com/rpggio/l10n-tracker/internal/domain/activity"
	"github.com/rpggio/l10n-tracker/internal/domain/docs"
	"github.com/rpggio/l10n-tracker/internal/domain/project"
	"github.com/rpggio/l10n-tracker/internal/filestore"
	"github.com/rpggio/l10n-tracker/internal/mcp"
	"github.com/rpggio/l10n-tracker/internal/sqlite"
)

// app holds the wired services of one process.
type app struct {
	cfg         config.Config
	logger      *slog.Logger
	db          *sqlite.DB
	store       *filestore.ProjectStore
	attachments *filestore.AttachmentStore
	projects    *project.Service
	docs        *docs.Service
	activity    *activity.Service
	handler     *mcp.Handler
	closers     []io.Closer
}

// loadConfig reads configuration and builds the process logger. Logs go to
// stderr when stdout carries protocol traffic or command output.
func loadConfig(stdoutIsOutput bool) (config.Config, *slog.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("config error: %w", err)
	}

	logWriter := io.Writer(os.Stderr)
	if !stdoutIsOutput && cfg.Transport.Mode != "stdio" {
		logWriter = os.Stdout
	}
	cleanup := func() {}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			logWriter = fileWriter
			cleanup = func() { _ = file.Close() }
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	return cfg, logger, cleanup, nil
}

// newApp opens the activity database and loads both documents. A document
// that cannot be parsed is an error.
func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	if err := ensureDir(cfg.ActivityDBPath()); err != nil {
		return nil, fmt.Errorf("preparing activity database path: %w", err)
	}
	db, err := sqlite.New(cfg.ActivityDBPath())
	if err != nil {
		return nil, fmt.Errorf("opening activity database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	a := &app{
		cfg:         cfg,
		logger:      logger,
		db:          db,
		store:       filestore.NewProjectStore(cfg.DocumentPath()),
		attachments: filestore.NewAttachmentStore(cfg.AttachmentsDir()),
		closers:     []io.Closer{db},
	}
	a.activity = activity.NewService(sqlite.NewActivityRepository(db), logger)
	a.projects = project.NewService(a.store, a.attachments, a.activity, logger,
		project.WithCatalog(cfg.StepCatalog()),
		project.WithCompletionMode(project.ParseCompletionMode(cfg.Completion.Mode)),
	)
	a.docs = docs.NewService(
		filestore.NewLedgerStore(cfg.LedgerPath()),
		filestore.NewScreenshotStore(cfg.DocsDir()),
		a.activity, logger)
	a.handler = mcp.NewHandler(a.projects, a.docs, a.activity)

	if err := a.projects.Load(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	if err := a.docs.Load(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func ensureDir(path string) error {
	if path == "" || path == ":memory:" || filepath.Dir(path) == "." {
		return nil
	}
	if strings.HasPrefix(path, "file:") {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
