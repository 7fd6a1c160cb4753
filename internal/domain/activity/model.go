package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeProjectCreated      ActivityType = "project_created"
	TypeTypesChanged        ActivityType = "types_changed"
	TypeStepToggled         ActivityType = "step_toggled"
	TypeDetailsUpdated      ActivityType = "details_updated"
	TypeAttachmentsRecorded ActivityType = "attachments_recorded"
	TypeProjectsImported    ActivityType = "projects_imported"
	TypeDocumentationAdded  ActivityType = "documentation_added"
	TypeProgressSaved       ActivityType = "progress_saved"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	ProjectID    string       `json:"project_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
