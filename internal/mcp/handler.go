package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rpggio/l10n-tracker/internal/domain/activity"
	"github.com/rpggio/l10n-tracker/internal/domain/catalog"
	"github.com/rpggio/l10n-tracker/internal/domain/docs"
	"github.com/rpggio/l10n-tracker/internal/domain/project"
	"github.com/rpggio/l10n-tracker/internal/export"
	"github.com/rpggio/l10n-tracker/internal/filestore"
)

const (
	// ExportJSONName is the suggested file name of a JSON export.
	ExportJSONName = "project_status.json"
	// ExportCSVName is the suggested file name of a CSV export.
	ExportCSVName = "project_summary.csv"
)

// ProjectService defines project operations needed by the handler.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Record, error)
	Get(ctx context.Context, id string) (*project.Record, error)
	SetTypes(ctx context.Context, id string, types []catalog.Type) (*project.Record, error)
	ToggleStep(ctx context.Context, id, step string, value bool) (*project.Record, error)
	UpdateDetails(ctx context.Context, req project.UpdateDetailsRequest) (*project.Record, error)
	Import(ctx context.Context, incoming *project.Collection) (*project.ImportResult, error)
	Save(ctx context.Context) error
	Load(ctx context.Context) error
	Snapshot(ctx context.Context) *project.Collection
	Overview(ctx context.Context) []project.OverviewRow
	Percent(rec *project.Record) int
	Catalog() catalog.Catalog
}

// DocsService defines documentation ledger operations needed by the handler.
type DocsService interface {
	List(ctx context.Context) []docs.Entry
}

// ActivityService defines activity operations needed by the handler.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// CommandObserver is told the outcome of every command.
type CommandObserver interface {
	ObserveCommand(method, code string)
}

// Handler dispatches tracker commands, one per user action.
type Handler struct {
	projects ProjectService
	docs     DocsService
	activity ActivityService
	observer CommandObserver
}

// NewHandler creates a new command handler. docsSvc and activitySvc may be
// nil; their commands then return empty listings.
func NewHandler(projects ProjectService, docsSvc DocsService, activitySvc ActivityService) *Handler {
	return &Handler{
		projects: projects,
		docs:     docsSvc,
		activity: activitySvc,
	}
}

// SetObserver registers an observer for command outcomes.
func (h *Handler) SetObserver(observer CommandObserver) {
	h.observer = observer
}

// Handle runs one command. Domain errors are returned as *APIError.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	result, err := h.dispatch(ctx, method, params)
	if h.observer != nil {
		h.observer.ObserveCommand(method, resultCode(err))
	}
	return result, err
}

func (h *Handler) dispatch(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "add_project":
		var req AddProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projectResult(h.projects.Create(ctx, project.CreateRequest{ID: req.ID}))
	case "list_projects":
		var req ListProjectsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		options := project.SelectionOptions(h.projects.Snapshot(ctx), req.Search)
		return ProjectListResponse{IDs: options[1:], Options: options}, nil
	case "get_project":
		var req ProjectIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projectResult(h.projects.Get(ctx, req.ID))
	case "set_types":
		var req SetTypesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		types := make([]catalog.Type, 0, len(req.Types))
		for _, t := range req.Types {
			types = append(types, catalog.Type(t))
		}
		return h.projectResult(h.projects.SetTypes(ctx, req.ID, types))
	case "toggle_step":
		var req ToggleStepParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projectResult(h.projects.ToggleStep(ctx, req.ID, req.Step, req.Value))
	case "update_details":
		var req UpdateDetailsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projectResult(h.projects.UpdateDetails(ctx, project.UpdateDetailsRequest{
			ID:    req.ID,
			URL:   req.URL,
			Notes: req.Notes,
		}))
	case "get_overview":
		var req GetOverviewParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		rows := h.projects.Overview(ctx)
		total := len(rows)
		if !req.All {
			rows = project.TopRows(rows, project.OverviewLimit)
		}
		return OverviewResponse{Rows: rows, Total: total}, nil
	case "save_progress":
		if err := h.projects.Save(ctx); err != nil {
			return nil, mapError(err)
		}
		return h.status(ctx, "saved"), nil
	case "reset_session":
		if err := h.projects.Load(ctx); err != nil {
			return nil, mapError(err)
		}
		return h.status(ctx, "reloaded"), nil
	case "import_projects":
		var req ImportProjectsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		result, err := h.ImportDocument(ctx, []byte(req.Content))
		if err != nil {
			return nil, err
		}
		return result, nil
	case "export_json":
		data, err := export.JSON(h.projects.Snapshot(ctx))
		if err != nil {
			return nil, err
		}
		return ExportResponse{FileName: ExportJSONName, ContentType: "application/json", Content: string(data)}, nil
	case "export_csv":
		data, err := export.CSV(h.projects.Overview(ctx))
		if err != nil {
			return nil, err
		}
		return ExportResponse{FileName: ExportCSVName, ContentType: "text/csv", Content: string(data)}, nil
	case "list_documentation":
		if h.docs == nil {
			return []docs.Entry{}, nil
		}
		return h.docs.List(ctx), nil
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		entries, err := h.recentActivity(ctx, req)
		if err != nil {
			return nil, err
		}
		return entries, nil
	case "get_catalog":
		cat := h.projects.Catalog()
		return CatalogResponse{
			Types:  catalog.KnownTypes,
			Groups: cat.Groups(catalog.KnownTypes),
			Steps:  cat.All(),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

// ImportDocument decodes raw as a project document and merges it into the
// collection.
func (h *Handler) ImportDocument(ctx context.Context, raw []byte) (*project.ImportResult, error) {
	incoming, err := filestore.DecodeImport(raw)
	if err != nil {
		return nil, mapError(err)
	}
	result, err := h.projects.Import(ctx, incoming)
	if err != nil {
		apiErr := MapError(err)
		if apiErr == nil {
			return nil, err
		}
		if result != nil {
			apiErr.Details = result
		}
		return nil, apiErr
	}
	return result, nil
}

// ProjectResponse renders a record with its completion and display groups.
func (h *Handler) ProjectResponse(rec *project.Record) ProjectResponse {
	return ProjectResponse{
		ID:          rec.ID,
		CreatedAt:   rec.CreatedAt,
		Types:       rec.Types,
		URL:         rec.URL,
		Notes:       rec.Notes,
		Steps:       rec.Steps,
		Attachments: rec.Attachments,
		Percent:     h.projects.Percent(rec),
		Groups:      h.projects.Catalog().Groups(rec.Types),
	}
}

// projectResult converts a service result. A record returned together with
// an unsaved-change error travels in the error details.
func (h *Handler) projectResult(rec *project.Record, err error) (any, error) {
	if err != nil {
		apiErr := MapError(err)
		if apiErr == nil {
			return nil, err
		}
		if rec != nil && errors.Is(err, project.ErrNotPersisted) {
			apiErr.Details = h.ProjectResponse(rec)
		}
		return nil, apiErr
	}
	return h.ProjectResponse(rec), nil
}

func (h *Handler) status(ctx context.Context, status string) StatusResponse {
	return StatusResponse{Status: status, Projects: h.projects.Snapshot(ctx).Len()}
}

func (h *Handler) recentActivity(ctx context.Context, req GetRecentActivityParams) ([]ActivityEntryResponse, error) {
	resp := []ActivityEntryResponse{}
	if h.activity == nil {
		return resp, nil
	}
	opts := activity.ListActivityOptions{
		ProjectID: req.ProjectID,
		Limit:     req.Limit,
		Offset:    req.Offset,
	}
	if req.Type != "" {
		typ := activity.ActivityType(req.Type)
		opts.ActivityType = &typ
	}
	entries, err := h.activity.GetRecentActivity(ctx, opts)
	if err != nil {
		return nil, mapError(err)
	}
	for _, entry := range entries {
		resp = append(resp, ActivityEntryResponse{
			Timestamp: entry.CreatedAt,
			Type:      entry.ActivityType,
			ProjectID: entry.ProjectID,
			Summary:   entry.Summary,
			Details:   entry.Details,
		})
	}
	return resp, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: "INVALID_PARAMS", Message: err.Error()}
	}
	return nil
}
