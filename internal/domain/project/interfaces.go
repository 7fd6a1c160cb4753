package project

import (
	"context"
	"io"

	"github.com/rpggio/l10n-tracker/internal/domain/activity"
)

// Store persists the whole project collection as one document.
type Store interface {
	Load(ctx context.Context) (*Collection, error)
	Save(ctx context.Context, coll *Collection) error
}

// AttachmentStore keeps the files attached to each project.
type AttachmentStore interface {
	Ensure(projectID string) error
	Save(projectID, name string, r io.Reader) error
	List(projectID string) ([]string, error)
}

// ActivityLogger records project events.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
}
