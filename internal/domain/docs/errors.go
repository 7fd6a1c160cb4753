package docs

import "errors"

var (
	// ErrMissingFile indicates a save without an uploaded file.
	ErrMissingFile = errors.New("no screenshot file supplied")
	// ErrEntryNotFound indicates the screenshot is not in the ledger.
	ErrEntryNotFound = errors.New("documentation entry not found")
)
