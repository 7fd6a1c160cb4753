package functional_test

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// stdioSession wraps an MCP client session talking to the built binary.
type stdioSession struct {
	session *sdkmcp.ClientSession
	dataDir string
}

func newStdioSession(t *testing.T, dataDir string) *stdioSession {
	t.Helper()

	binaryPath := "./bin/l10n-tracker"
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		binaryPath = "../../bin/l10n-tracker"
		if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
			t.Skip("binary not found; build it with: go build -o bin/l10n-tracker ./cmd/tracker")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	cmd := exec.CommandContext(ctx, binaryPath, "serve")
	cmd.Env = append(os.Environ(),
		"TRACKER_TRANSPORT_MODE=stdio",
		"TRACKER_DATA_DIR="+dataDir,
		"TRACKER_ACTIVITY_DB=:memory:",
	)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		cancel()
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		_ = session.Close()
		cancel()
	})
	return &stdioSession{session: session, dataDir: dataDir}
}

func (s *stdioSession) callTool(t *testing.T, name string, args map[string]any) (json.RawMessage, bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := s.session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "CallTool %s failed", name)
	require.NotEmpty(t, result.Content, "tool %s returned no content", name)

	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "tool %s returned no text content", name)
	return json.RawMessage(text.Text), result.IsError
}

func TestStdioFunctional_ProjectWorkflow(t *testing.T) {
	s := newStdioSession(t, t.TempDir())

	_, isErr := s.callTool(t, "add_project", map[string]any{"id": "FR-100"})
	require.False(t, isErr)

	_, isErr = s.callTool(t, "set_types", map[string]any{"id": "FR-100", "types": []string{"Marketing"}})
	require.False(t, isErr)

	raw, isErr := s.callTool(t, "get_overview", map[string]any{})
	require.False(t, isErr)
	var overview struct {
		Total int `json:"total"`
		Rows  []struct {
			ID string `json:"id"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(raw, &overview))
	require.Equal(t, 1, overview.Total)
	require.Equal(t, "FR-100", overview.Rows[0].ID)

	require.FileExists(t, filepath.Join(s.dataDir, "project_status.json"))
	require.DirExists(t, filepath.Join(s.dataDir, "attachments", "FR-100"))
}

func TestStdioFunctional_ToolErrors(t *testing.T) {
	s := newStdioSession(t, t.TempDir())

	raw, isErr := s.callTool(t, "toggle_step", map[string]any{"id": "missing", "step": "Generate names", "value": true})
	require.True(t, isErr)

	var apiErr struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(raw, &apiErr))
	require.Equal(t, "PROJECT_NOT_FOUND", apiErr.Code)
}

func TestStdioFunctional_CatalogResource(t *testing.T) {
	s := newStdioSession(t, t.TempDir())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := s.session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "tracker://catalog"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Contents)
	require.Contains(t, res.Contents[0].Text, "# Step catalog")
}
