package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/l10n-tracker/internal/domain/catalog"
	"github.com/rpggio/l10n-tracker/internal/mcp"
	"github.com/stretchr/testify/require"
)

func TestEndToEnd_ProductRequest(t *testing.T) {
	ts := New(t)
	cat := catalog.Default()

	ts.MustCall(t, "add_project", map[string]string{"id": "FR-100"}, nil)
	ts.MustCall(t, "set_types", map[string]any{"id": "FR-100", "types": []string{"Product"}}, nil)
	for _, step := range []string{cat.CommonSteps[0], cat.CommonSteps[1], cat.CommonSteps[2], cat.ProductSteps[0]} {
		ts.MustCall(t, "toggle_step", map[string]any{"id": "FR-100", "step": step, "value": true}, nil)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "spec.pdf")
	require.NoError(t, err)
	_, err = io.WriteString(fw, "%PDF-1.4")
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	resp, err := http.Post(ts.Server.URL+"/projects/FR-100/attachments", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var proj mcp.ProjectResponse
	ts.MustCall(t, "get_project", map[string]string{"id": "FR-100"}, &proj)
	require.Equal(t, 26, proj.Percent)
	require.Equal(t, []string{"spec.pdf"}, proj.Attachments)
	require.FileExists(t, filepath.Join(ts.Dir, "attachments", "FR-100", "spec.pdf"))

	var overview mcp.OverviewResponse
	ts.MustCall(t, "get_overview", nil, &overview)
	require.Equal(t, 1, overview.Total)
	require.Equal(t, 26, overview.Rows[0].Percent)

	var activities []mcp.ActivityEntryResponse
	ts.MustCall(t, "get_recent_activity", map[string]any{"project_id": "FR-100"}, &activities)
	require.NotEmpty(t, activities)
}

func TestEndToEnd_ReloadFromDisk(t *testing.T) {
	dir := t.TempDir()
	first := NewInDir(t, dir)
	first.MustCall(t, "add_project", map[string]string{"id": "B"}, nil)
	first.MustCall(t, "add_project", map[string]string{"id": "A"}, nil)
	first.MustCall(t, "toggle_step", map[string]any{"id": "A", "step": catalog.Default().FinalStep, "value": true}, nil)

	second := NewInDir(t, dir)
	require.Equal(t, []string{"B", "A"}, second.Projects.Snapshot(context.Background()).IDs())

	var proj mcp.ProjectResponse
	second.MustCall(t, "get_project", map[string]string{"id": "A"}, &proj)
	require.True(t, proj.Steps[catalog.Default().FinalStep])
}

func TestEndToEnd_ResetSessionPicksUpExternalEdits(t *testing.T) {
	ts := New(t)
	ts.MustCall(t, "add_project", map[string]string{"id": "A"}, nil)

	external := []byte(`{"Z": {"created_at": "2020-01-01T00:00:00.000000", "types": [], "url": "", "notes": "", "steps": {}, "attachments": []}}`)
	require.NoError(t, os.WriteFile(filepath.Join(ts.Dir, "project_status.json"), external, 0o644))

	var ids mcp.ProjectListResponse
	ts.MustCall(t, "list_projects", nil, &ids)
	require.Equal(t, []string{"A"}, ids.IDs)

	ts.MustCall(t, "reset_session", nil, nil)
	ts.MustCall(t, "list_projects", nil, &ids)
	require.Equal(t, []string{"Z"}, ids.IDs)
}

func TestEndToEnd_MCPTools(t *testing.T) {
	ts := New(t)
	session := ts.ConnectMCP(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "add_project",
		Arguments: map[string]any{"id": "MK-7"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	var proj mcp.ProjectResponse
	require.NoError(t, json.Unmarshal([]byte(text.Text), &proj))
	require.Equal(t, "MK-7", proj.ID)

	_, err = ts.Projects.Get(ctx, "MK-7")
	require.NoError(t, err)
}
