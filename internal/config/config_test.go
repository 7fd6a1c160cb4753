package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpggio/l10n-tracker/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TRACKER_CONFIG_PATH", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
	require.Equal(t, "project_status.json", cfg.DocumentPath())
	require.Equal(t, "attachments", cfg.AttachmentsDir())
	require.Equal(t, "127.0.0.1:8501", cfg.Addr())
	require.Len(t, cfg.StepCatalog().All(), 27)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tracker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
data:
  dir: /srv/tracker
  document: status.json
completion:
  mode: legacy
watch:
  enabled: false
  debounce: 1s
catalog:
  common_steps: [Intake]
  product_steps: [Translate UI]
  marketing_steps: [Translate copy]
  final_step: Close
`), 0o644))

	t.Setenv("TRACKER_CONFIG_PATH", path)
	t.Setenv("TRACKER_SERVER_PORT", "9100")
	t.Setenv("TRACKER_LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "legacy", cfg.Completion.Mode)
	require.False(t, cfg.Watch.Enabled)
	require.Equal(t, time.Second, cfg.Watch.Debounce)
	require.Equal(t, filepath.Join("/srv/tracker", "status.json"), cfg.DocumentPath())
	require.Equal(t, filepath.Join("/srv/tracker", "project_docs.json"), cfg.LedgerPath())
	require.Equal(t, []string{"Intake", "Translate UI", "Translate copy", "Close"}, cfg.StepCatalog().All())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "port not a number", env: map[string]string{"TRACKER_SERVER_PORT": "http"}},
		{name: "port out of range", env: map[string]string{"TRACKER_SERVER_PORT": "70000"}},
		{name: "unknown transport", env: map[string]string{"TRACKER_TRANSPORT_MODE": "grpc"}},
		{name: "unknown completion mode", env: map[string]string{"TRACKER_COMPLETION_MODE": "strict"}},
		{name: "unknown log level", env: map[string]string{"TRACKER_LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TRACKER_CONFIG_PATH", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_InvalidCatalogOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
catalog:
  common_steps: [Intake, Intake]
  final_step: Close
`), 0o644))
	t.Setenv("TRACKER_CONFIG_PATH", path)

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("TRACKER_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := config.Load()
	require.Error(t, err)
}

func TestActivityDBPath(t *testing.T) {
	cfg := config.Default()
	cfg.Data.Dir = "/data"
	require.Equal(t, filepath.Join("/data", "activity.db"), cfg.ActivityDBPath())

	cfg.Activity.DBPath = ":memory:"
	require.Equal(t, ":memory:", cfg.ActivityDBPath())
}
