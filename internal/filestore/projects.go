package filestore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rpggio/l10n-tracker/internal/domain/project"
)

// ProjectStore keeps the project collection in a single JSON document.
type ProjectStore struct {
	path string

	mu          sync.Mutex
	lastWritten [sha256.Size]byte
}

// NewProjectStore returns a store for the document at path. The file does not
// need to exist yet.
func NewProjectStore(path string) *ProjectStore {
	return &ProjectStore{path: filepath.Clean(path)}
}

// Path returns the document location.
func (s *ProjectStore) Path() string {
	return s.path
}

// Load reads the document. A missing document is an empty collection.
func (s *ProjectStore) Load(_ context.Context) (*project.Collection, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return project.NewCollection(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrIO, s.path, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", ErrParse, s.path)
	}

	coll := project.NewCollection()
	if err := json.Unmarshal(data, coll); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, s.path, err)
	}
	return coll, nil
}

// Save replaces the document with coll.
func (s *ProjectStore) Save(_ context.Context, coll *project.Collection) error {
	data, err := EncodeCollection(coll)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeFileAtomic(s.path, data); err != nil {
		return err
	}
	s.lastWritten = sha256.Sum256(data)
	return nil
}

// wroteLast reports whether data is exactly what this store last wrote.
func (s *ProjectStore) wroteLast(data []byte) bool {
	sum := sha256.Sum256(data)
	s.mu.Lock()
	defer s.mu.Unlock()
	return sum == s.lastWritten
}

// EncodeCollection renders coll as the stored document: two-space indented
// JSON in collection order with HTML characters left as-is.
func EncodeCollection(coll *project.Collection) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(coll); err != nil {
		return nil, fmt.Errorf("encoding projects: %w", err)
	}
	return buf.Bytes(), nil
}
