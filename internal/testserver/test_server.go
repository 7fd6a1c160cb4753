// Package testserver runs the full tracker stack over httptest for
// end-to-end tests.
package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/l10n-tracker/internal/domain/activity"
	"github.com/rpggio/l10n-tracker/internal/domain/docs"
	"github.com/rpggio/l10n-tracker/internal/domain/project"
	"github.com/rpggio/l10n-tracker/internal/filestore"
	"github.com/rpggio/l10n-tracker/internal/mcp"
	"github.com/rpggio/l10n-tracker/internal/metrics"
	"github.com/rpggio/l10n-tracker/internal/sqlite"
	"github.com/rpggio/l10n-tracker/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Dir      string
	Projects *project.Service
	Docs     *docs.Service
	Store    *filestore.ProjectStore
}

// New starts a server whose data directory is a fresh temp dir.
func New(t *testing.T) *TestServer {
	t.Helper()
	return NewInDir(t, t.TempDir())
}

// NewInDir starts a server over an existing data directory, loading any
// documents already there.
func NewInDir(t *testing.T, dir string) *TestServer {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	store := filestore.NewProjectStore(filepath.Join(dir, "project_status.json"))
	attachments := filestore.NewAttachmentStore(filepath.Join(dir, "attachments"))
	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)

	projectSvc := project.NewService(store, attachments, activitySvc, nil)
	require.NoError(t, projectSvc.Load(ctx))

	docsSvc := docs.NewService(
		filestore.NewLedgerStore(filepath.Join(dir, "project_docs.json")),
		filestore.NewScreenshotStore(filepath.Join(dir, "docs")),
		activitySvc, nil)
	require.NoError(t, docsSvc.Load(ctx))

	handler := mcp.NewHandler(projectSvc, docsSvc, activitySvc)
	m := metrics.New()
	handler.SetObserver(m)

	mcpServer := mcp.NewServer(mcp.Config{Handler: handler, Version: "test"})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)

	server := httptest.NewServer(transport.NewServer(transport.Options{
		Handler:     handler,
		Projects:    projectSvc,
		Attachments: attachments,
		Docs:        docsSvc,
		MCP:         mcpHandler,
		Metrics:     m.Handler(),
		Observer:    m,
	}))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:   server,
		DB:       db,
		Dir:      dir,
		Projects: projectSvc,
		Docs:     docsSvc,
		Store:    store,
	}
}

// Call posts a JSON-RPC command and returns the decoded response.
func (ts *TestServer) Call(t *testing.T, method string, params any) transport.Response {
	t.Helper()
	payload := map[string]any{"jsonrpc": "2.0", "method": method, "id": 1}
	if params != nil {
		payload["params"] = params
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(ts.Server.URL+"/rpc", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out transport.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// MustCall is Call that fails the test on a JSON-RPC error and decodes the
// result into out.
func (ts *TestServer) MustCall(t *testing.T, method string, params any, out any) {
	t.Helper()
	resp := ts.Call(t, method, params)
	require.Nil(t, resp.Error, "%s failed: %+v", method, resp.Error)
	if out == nil {
		return
	}
	data, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

// ConnectMCP opens an MCP client session against the streamable endpoint.
func (ts *TestServer) ConnectMCP(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{Endpoint: ts.Server.URL + "/mcp"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}
