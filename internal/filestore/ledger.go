package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rpggio/l10n-tracker/internal/domain/docs"
	"github.com/rpggio/l10n-tracker/internal/repository"
)

// LedgerStore keeps the documentation ledger as a JSON array.
type LedgerStore struct {
	path string
}

// NewLedgerStore returns a ledger store for the file at path.
func NewLedgerStore(path string) *LedgerStore {
	return &LedgerStore{path: filepath.Clean(path)}
}

// LoadLedger reads the ledger. A missing ledger is empty.
func (s *LedgerStore) LoadLedger(_ context.Context) ([]docs.Entry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []docs.Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrIO, s.path, err)
	}

	var entries []docs.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, s.path, err)
	}
	if entries == nil {
		entries = []docs.Entry{}
	}
	return entries, nil
}

// SaveLedger replaces the ledger with entries.
func (s *LedgerStore) SaveLedger(_ context.Context, entries []docs.Entry) error {
	if entries == nil {
		entries = []docs.Entry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}
	return writeFileAtomic(s.path, buf.Bytes())
}

// ScreenshotStore keeps documentation screenshots in one flat directory.
type ScreenshotStore struct {
	dir string
}

// NewScreenshotStore returns a screenshot store rooted at dir.
func NewScreenshotStore(dir string) *ScreenshotStore {
	return &ScreenshotStore{dir: filepath.Clean(dir)}
}

// Exists reports whether a screenshot named name is stored.
func (s *ScreenshotStore) Exists(name string) (bool, error) {
	if err := checkSegment(name); err != nil {
		return false, err
	}
	_, err := os.Stat(filepath.Join(s.dir, name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrIO, err)
	}
}

// Write stores data under name, replacing any existing file.
func (s *ScreenshotStore) Write(name string, data []byte) error {
	if err := checkSegment(name); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(s.dir, name), data)
}

// Read returns the contents of the screenshot named name.
func (s *ScreenshotStore) Read(name string) ([]byte, error) {
	if err := checkSegment(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: screenshot %s", repository.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return data, nil
}
