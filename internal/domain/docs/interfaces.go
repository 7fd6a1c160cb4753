package docs

import (
	"context"

	"github.com/rpggio/l10n-tracker/internal/domain/activity"
)

// LedgerStore persists the documentation ledger as one document.
type LedgerStore interface {
	LoadLedger(ctx context.Context) ([]Entry, error)
	SaveLedger(ctx context.Context, entries []Entry) error
}

// FileStore keeps screenshot files in the documentation directory.
type FileStore interface {
	Exists(name string) (bool, error)
	Write(name string, data []byte) error
	Read(name string) ([]byte, error)
}

// ActivityLogger records documentation events.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
}
