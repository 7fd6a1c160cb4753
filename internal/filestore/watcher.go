package filestore

import (
	"context"
	"crypto/sha256"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for more changes before
// checking the document.
const DefaultDebounce = 250 * time.Millisecond

// ExternalChange describes a document write that did not come from the
// watched store.
type ExternalChange struct {
	Path    string
	Removed bool
}

// DocumentWatcher reports changes to a project document made by someone
// other than its ProjectStore. It only reports; the store's next save still
// overwrites the file.
type DocumentWatcher struct {
	store    *ProjectStore
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration

	pendingMu sync.Mutex
	pending   bool

	lastSeen [sha256.Size]byte
	changes  chan ExternalChange
}

// NewDocumentWatcher creates a watcher for the store's document.
func NewDocumentWatcher(store *ProjectStore, debounce time.Duration, logger *slog.Logger) (*DocumentWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &DocumentWatcher{
		store:    store,
		watcher:  fsw,
		logger:   logger,
		debounce: debounce,
		changes:  make(chan ExternalChange, 16),
	}, nil
}

// Changes returns the channel of external changes. It is closed when the
// watcher stops.
func (w *DocumentWatcher) Changes() <-chan ExternalChange {
	return w.changes
}

// Start watches the document's directory until ctx is done or Stop is called.
// The directory is watched rather than the file because saves replace the
// file by rename.
func (w *DocumentWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.store.Path())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if data, err := os.ReadFile(w.store.Path()); err == nil {
		w.lastSeen = sha256.Sum256(data)
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("document watcher started", "path", w.store.Path(), "debounce", w.debounce)
	return nil
}

// Stop stops the watcher.
func (w *DocumentWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *DocumentWatcher) processEvents(ctx context.Context) {
	defer close(w.changes)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.store.Path() {
				continue
			}
			w.pendingMu.Lock()
			w.pending = true
			w.pendingMu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("document watcher error", "error", err)

		case <-ticker.C:
			w.flushPending()
		}
	}
}

func (w *DocumentWatcher) flushPending() {
	w.pendingMu.Lock()
	pending := w.pending
	w.pending = false
	w.pendingMu.Unlock()
	if !pending {
		return
	}

	path := w.store.Path()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		w.lastSeen = [sha256.Size]byte{}
		w.logger.Warn("project document removed outside this process", "path", path)
		w.send(ExternalChange{Path: path, Removed: true})
		return
	}
	if err != nil {
		w.logger.Warn("project document unreadable", "path", path, "error", err)
		return
	}

	sum := sha256.Sum256(data)
	if sum == w.lastSeen {
		return
	}
	w.lastSeen = sum
	if w.store.wroteLast(data) {
		return
	}

	w.logger.Warn("project document modified outside this process; the next save overwrites it", "path", path)
	w.send(ExternalChange{Path: path})
}

func (w *DocumentWatcher) send(change ExternalChange) {
	select {
	case w.changes <- change:
	default:
		w.logger.Debug("external change dropped, channel full", "path", change.Path)
	}
}
