package mcp

import (
	"context"
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools exposes every handler command as an MCP tool.
func registerTools(server *sdkmcp.Server, h *Handler) {
	// Projects
	addTool[AddProjectParams](server, h, "add_project",
		"Start tracking a localization request. Every catalog step starts unchecked.")
	addTool[ListProjectsParams](server, h, "list_projects",
		"List project IDs newest first, optionally filtered by a case-insensitive substring")
	addTool[ProjectIDParams](server, h, "get_project",
		"Get a project's details, checklist, display groups and completion percentage")
	addTool[SetTypesParams](server, h, "set_types",
		"Replace the active request types (Product, Marketing). Checklist flags are kept.")
	addTool[ToggleStepParams](server, h, "toggle_step",
		"Mark one checklist step done or not done")
	addTool[UpdateDetailsParams](server, h, "update_details",
		"Set the request URL and/or notes of a project")

	// Views
	addTool[GetOverviewParams](server, h, "get_overview",
		"Completion overview of projects in collection order (first ten unless all is set)")
	addTool[EmptyParams](server, h, "get_catalog",
		"List the checklist steps by group")
	addTool[EmptyParams](server, h, "list_documentation",
		"List documentation screenshots newest first")
	addTool[GetRecentActivityParams](server, h, "get_recent_activity",
		"List recent changes, newest first")

	// Persistence
	addTool[EmptyParams](server, h, "save_progress",
		"Write the current projects to disk")
	addTool[EmptyParams](server, h, "reset_session",
		"Discard in-memory state and reload projects from disk")
	addTool[ImportProjectsParams](server, h, "import_projects",
		"Merge a JSON project document: matching IDs are replaced, new IDs appended")
	addTool[EmptyParams](server, h, "export_json",
		"Export the full project document as JSON")
	addTool[EmptyParams](server, h, "export_csv",
		"Export a one-row-per-project CSV summary")
}

func addTool[In any](server *sdkmcp.Server, h *Handler, name, description string) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
			params, err := json.Marshal(in)
			if err != nil {
				return nil, nil, err
			}
			result, err := h.Handle(ctx, name, params)
			if err != nil {
				return errorResult(err), nil, nil
			}
			data, err := json.Marshal(result)
			if err != nil {
				return nil, nil, err
			}
			return &sdkmcp.CallToolResult{
				Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
			}, nil, nil
		})
}

func errorResult(err error) *sdkmcp.CallToolResult {
	var payload any = &APIError{Code: "INTERNAL", Message: err.Error()}
	if apiErr := MapError(err); apiErr != nil {
		payload = apiErr
	}
	data, _ := json.Marshal(payload)
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}
}
