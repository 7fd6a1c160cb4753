package docs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/l10n-tracker/internal/domain/activity"
	"github.com/rpggio/l10n-tracker/internal/repository"
)

const (
	// TimeLayout is the layout of Entry.Time.
	TimeLayout = "2006-01-02 15:04:05"
	// FilePrefix starts every stored screenshot name.
	FilePrefix = "screenshot_"

	fileStampLayout = "20060102150405"
)

// Service manages the documentation ledger and its screenshot files.
type Service struct {
	ledger     LedgerStore
	files      FileStore
	activities ActivityLogger
	logger     *slog.Logger
	now        func() time.Time

	mu      sync.Mutex
	entries []Entry
}

// NewService creates a documentation service with an empty ledger. Call Load
// to read the stored ledger.
func NewService(ledger LedgerStore, files FileStore, activities ActivityLogger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		ledger:     ledger,
		files:      files,
		activities: activities,
		logger:     logger,
		now:        time.Now,
	}
}

// SetClock overrides the time source used for file names and entry times.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Load reads the stored ledger.
func (s *Service) Load(ctx context.Context) error {
	entries, err := s.ledger.LoadLedger(ctx)
	if err != nil {
		return fmt.Errorf("loading documentation ledger: %w", err)
	}
	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// SaveEntry stores a screenshot under a generated name and appends it to the
// ledger.
func (s *Service) SaveEntry(ctx context.Context, req SaveRequest) (*Entry, error) {
	if len(req.Data) == 0 {
		return nil, ErrMissingFile
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	name, err := s.uniqueName(now, filepath.Ext(req.FileName))
	if err != nil {
		return nil, err
	}
	if err := s.files.Write(name, req.Data); err != nil {
		return nil, fmt.Errorf("writing screenshot: %w", err)
	}

	entry := Entry{File: name, Desc: req.Description, Time: now.Format(TimeLayout)}
	s.entries = append(s.entries, entry)
	if err := s.ledger.SaveLedger(ctx, s.entries); err != nil {
		s.logger.Error("documentation ledger not saved", "file", name, "error", err)
		return &entry, fmt.Errorf("saving documentation ledger: %w", err)
	}

	if s.activities != nil {
		if err := s.activities.LogActivity(ctx, &activity.ActivityEntry{
			ProjectID:    req.ProjectID,
			ActivityType: activity.TypeDocumentationAdded,
			Summary:      fmt.Sprintf("added screenshot %s", name),
		}); err != nil {
			s.logger.Warn("activity not logged", "file", name, "error", err)
		}
	}
	return &entry, nil
}

// List returns the ledger newest first.
func (s *Service) List(_ context.Context) []Entry {
	s.mu.Lock()
	out := append([]Entry{}, s.entries...)
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time > out[j].Time
	})
	return out
}

// Open returns the contents of a screenshot listed in the ledger.
func (s *Service) Open(_ context.Context, file string) ([]byte, error) {
	s.mu.Lock()
	found := false
	for _, e := range s.entries {
		if e.File == file {
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return nil, ErrEntryNotFound
	}

	data, err := s.files.Read(file)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEntryNotFound
	}
	return data, err
}

func (s *Service) uniqueName(now time.Time, ext string) (string, error) {
	name := FilePrefix + now.Format(fileStampLayout) + ext
	exists, err := s.files.Exists(name)
	if err != nil {
		return "", fmt.Errorf("checking screenshot name: %w", err)
	}
	if !exists {
		return name, nil
	}
	return FilePrefix + now.Format(fileStampLayout) + "_" + uuid.NewString()[:8] + ext, nil
}
