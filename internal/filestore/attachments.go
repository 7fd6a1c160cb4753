package filestore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rpggio/l10n-tracker/internal/repository"
)

// AttachmentStore keeps one directory of uploaded files per project.
type AttachmentStore struct {
	root string
}

// NewAttachmentStore returns an attachment store rooted at root.
func NewAttachmentStore(root string) *AttachmentStore {
	return &AttachmentStore{root: filepath.Clean(root)}
}

// Dir returns the attachment directory of a project.
func (s *AttachmentStore) Dir(projectID string) (string, error) {
	if err := checkSegment(projectID); err != nil {
		return "", err
	}
	return filepath.Join(s.root, projectID), nil
}

// Ensure creates the project's attachment directory if it is missing.
func (s *AttachmentStore) Ensure(projectID string) error {
	dir, err := s.Dir(projectID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrIO, dir, err)
	}
	return nil
}

// Save writes r into the project's directory under the base of name,
// overwriting a file of the same name.
func (s *AttachmentStore) Save(projectID, name string, r io.Reader) error {
	if err := s.Ensure(projectID); err != nil {
		return err
	}
	base, err := cleanName(name)
	if err != nil {
		return err
	}

	dir, _ := s.Dir(projectID)
	path := filepath.Join(dir, base)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrIO, path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: writing %s: %v", ErrIO, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", ErrIO, path, err)
	}
	return nil
}

// List returns the names in the project's directory in directory order. A
// missing directory lists as empty.
func (s *AttachmentStore) List(projectID string) ([]string, error) {
	dir, err := s.Dir(projectID)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %v", ErrIO, dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// Open opens a stored attachment for reading.
func (s *AttachmentStore) Open(projectID, name string) (*os.File, error) {
	dir, err := s.Dir(projectID)
	if err != nil {
		return nil, err
	}
	if err := checkSegment(name); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: attachment %s/%s", repository.ErrNotFound, projectID, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return f, nil
}
