package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpggio/l10n-tracker/internal/domain/catalog"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `l10n-tracker keeps a step checklist for each localization request.

Core concepts:
- Project: one request, keyed by its request ID. It has a URL, notes, active types (Product, Marketing), a checklist and attachments.
- Checklist: common steps, then Product and/or Marketing steps when those types are active, then one final step.
- Completion: percentage of active steps that are done.

Workflow:
1) Orient: get_overview, list_projects or get_catalog.
2) Track: add_project, set_types, toggle_step, update_details.
3) Every change is saved immediately. A NOT_PERSISTED error means the change is only in memory; call save_progress once the disk problem is fixed.
4) Move data: export_json / import_projects (merge by ID) and export_csv.

Docs:
- tracker://docs/workflow
- tracker://catalog
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     func() string
}

func docResources(cat catalog.Catalog) []docResource {
	return []docResource{
		{
			URI:         "tracker://docs/workflow",
			Name:        "workflow",
			Title:       "Localization request workflow",
			Description: "How requests move through the checklist and how completion is counted.",
			Content:     func() string { return workflowDoc },
		},
		{
			URI:         "tracker://catalog",
			Name:        "catalog",
			Title:       "Step catalog",
			Description: "Every checklist step, grouped by request type.",
			Content:     func() string { return catalogMarkdown(cat) },
		},
	}
}

const workflowDoc = `# Localization request workflow

1. Add the request by its ID (for example FR-100). IDs are case-sensitive; GTS is reserved.
2. Set the request types. Product adds the product steps, Marketing adds the marketing steps. Steps shared by both lists are one checkbox.
3. Tick steps as they are done. Flags of a type you later deactivate are kept but no longer counted.
4. Attach source files and screenshots over HTTP.

## Completion

percent = done * 100 / total, rounded down, where total is the number of
distinct steps in the common group, each active type group and the final step.

## Import and export

- export_json returns the stored document unchanged.
- import_projects merges a document: a matching ID is replaced as a whole, new IDs are appended. Missing steps are added unchecked.
- export_csv returns one row per project with its completion.
`

func catalogMarkdown(cat catalog.Catalog) string {
	var b strings.Builder
	b.WriteString("# Step catalog\n")
	for _, g := range cat.Groups(catalog.KnownTypes) {
		fmt.Fprintf(&b, "\n## %s\n\n", g.Name)
		for _, step := range g.Steps {
			fmt.Fprintf(&b, "- %s\n", step)
		}
	}
	return b.String()
}

func registerDocResources(server *sdkmcp.Server, cat catalog.Catalog) {
	for _, doc := range docResources(cat) {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content(),
				}},
			}, nil
		})
	}
}
