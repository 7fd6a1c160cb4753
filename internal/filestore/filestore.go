// Package filestore keeps the tracker's documents and files on local disk:
// the project document, the documentation ledger, project attachments and
// documentation screenshots.
package filestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpggio/l10n-tracker/internal/repository"
)

var (
	// ErrParse indicates a document that is not valid JSON or not of the
	// expected top-level shape.
	ErrParse = errors.New("document parse error")
	// ErrInvalidStructure indicates well-formed JSON with the wrong shape for
	// an import.
	ErrInvalidStructure = errors.New("invalid document structure")
	// ErrIO indicates a failed disk read or write.
	ErrIO = errors.New("file i/o failure")
)

// writeFileAtomic replaces path with data through a temp file in the same
// directory, so readers see either the old or the new document.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrIO, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", ErrIO, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("%w: writing %s: %v", ErrIO, tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("%w: syncing %s: %v", ErrIO, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: closing %s: %v", ErrIO, tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: chmod %s: %v", ErrIO, tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: replacing %s: %v", ErrIO, path, err)
	}
	return nil
}

// cleanName reduces an uploaded file name to its last path element and
// rejects names that cannot be stored as a single directory entry.
func cleanName(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if err := checkSegment(base); err != nil {
		return "", err
	}
	return base, nil
}

// checkSegment rejects values that would escape their parent directory.
func checkSegment(segment string) error {
	switch {
	case strings.TrimSpace(segment) == "", segment == ".", segment == "..":
		return fmt.Errorf("%w: file name %q", repository.ErrInvalidInput, segment)
	case strings.ContainsAny(segment, `/\`), strings.ContainsRune(segment, 0):
		return fmt.Errorf("%w: file name %q", repository.ErrInvalidInput, segment)
	}
	return nil
}
