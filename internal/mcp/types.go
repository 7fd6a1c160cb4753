package mcp

import (
	"time"

	"github.com/rpggio/l10n-tracker/internal/domain/activity"
	"github.com/rpggio/l10n-tracker/internal/domain/catalog"
	"github.com/rpggio/l10n-tracker/internal/domain/project"
)

// Request params

type EmptyParams struct{}

type AddProjectParams struct {
	ID string `json:"id" jsonschema:"request ID of the new project; GTS is reserved"`
}

type ProjectIDParams struct {
	ID string `json:"id" jsonschema:"project ID"`
}

type ListProjectsParams struct {
	Search string `json:"search,omitempty" jsonschema:"case-insensitive substring of the project ID"`
}

type SetTypesParams struct {
	ID    string   `json:"id" jsonschema:"project ID"`
	Types []string `json:"types" jsonschema:"active request types: Product and/or Marketing"`
}

type ToggleStepParams struct {
	ID    string `json:"id" jsonschema:"project ID"`
	Step  string `json:"step" jsonschema:"step name from get_catalog"`
	Value bool   `json:"value" jsonschema:"true when the step is done"`
}

type UpdateDetailsParams struct {
	ID    string  `json:"id" jsonschema:"project ID"`
	URL   *string `json:"url,omitempty" jsonschema:"request URL; omit to keep"`
	Notes *string `json:"notes,omitempty" jsonschema:"free text notes; omit to keep"`
}

type GetOverviewParams struct {
	All bool `json:"all,omitempty" jsonschema:"return every row instead of the first ten"`
}

type ImportProjectsParams struct {
	Content string `json:"content" jsonschema:"JSON text of a project document"`
}

type GetRecentActivityParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"only activity of this project"`
	Type      string `json:"type,omitempty" jsonschema:"only activity of this type"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum entries, default 50"`
	Offset    int    `json:"offset,omitempty" jsonschema:"entries to skip"`
}

// Responses

type ProjectResponse struct {
	ID          string          `json:"id"`
	CreatedAt   string          `json:"created_at"`
	Types       []catalog.Type  `json:"types"`
	URL         string          `json:"url"`
	Notes       string          `json:"notes"`
	Steps       map[string]bool `json:"steps"`
	Attachments []string        `json:"attachments"`
	Percent     int             `json:"percent"`
	Groups      []catalog.Group `json:"groups"`
}

// ProjectListResponse lists matching IDs newest first. Options is the same
// list behind an empty "no selection" entry.
type ProjectListResponse struct {
	IDs     []string `json:"ids"`
	Options []string `json:"options"`
}

type OverviewResponse struct {
	Rows  []project.OverviewRow `json:"rows"`
	Total int                   `json:"total"`
}

type StatusResponse struct {
	Status   string `json:"status"`
	Projects int    `json:"projects"`
}

type ExportResponse struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}

type ActivityEntryResponse struct {
	Timestamp time.Time             `json:"timestamp"`
	Type      activity.ActivityType `json:"type"`
	ProjectID string                `json:"project_id,omitempty"`
	Summary   string                `json:"summary"`
	Details   string                `json:"details,omitempty"`
}

type CatalogResponse struct {
	Types  []catalog.Type  `json:"types"`
	Groups []catalog.Group `json:"groups"`
	Steps  []string        `json:"steps"`
}
