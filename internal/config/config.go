package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rpggio/l10n-tracker/internal/domain/catalog"
	"gopkg.in/yaml.v3"
)

// Config defines tracker configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Transport  TransportConfig  `yaml:"transport"`
	Data       DataConfig       `yaml:"data"`
	Activity   ActivityConfig   `yaml:"activity"`
	Completion CompletionConfig `yaml:"completion"`
	Watch      WatchConfig      `yaml:"watch"`
	Log        LogConfig        `yaml:"log"`
	Catalog    *catalog.Catalog `yaml:"catalog"`
}

type ServerConfig struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`
}

type TransportConfig struct {
	Mode string `yaml:"mode" validate:"oneof=http stdio"`
}

// DataConfig locates the tracker's files. Relative paths resolve against Dir.
type DataConfig struct {
	Dir            string `yaml:"dir" validate:"required"`
	Document       string `yaml:"document" validate:"required"`
	Ledger         string `yaml:"ledger" validate:"required"`
	AttachmentsDir string `yaml:"attachments_dir" validate:"required"`
	DocsDir        string `yaml:"docs_dir" validate:"required"`
}

type ActivityConfig struct {
	DBPath string `yaml:"db_path" validate:"required"`
}

type CompletionConfig struct {
	Mode string `yaml:"mode" validate:"oneof=active legacy"`
}

type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce" validate:"min=0"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Path  string `yaml:"path"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8501,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Data: DataConfig{
			Dir:            ".",
			Document:       "project_status.json",
			Ledger:         "project_docs.json",
			AttachmentsDir: "attachments",
			DocsDir:        "docs",
		},
		Activity: ActivityConfig{
			DBPath: "activity.db",
		},
		Completion: CompletionConfig{
			Mode: "active",
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 250 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("TRACKER_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("TRACKER_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("TRACKER_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid TRACKER_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("TRACKER_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if dir := os.Getenv("TRACKER_DATA_DIR"); dir != "" {
		cfg.Data.Dir = dir
	}
	if dbPath := os.Getenv("TRACKER_ACTIVITY_DB"); dbPath != "" {
		cfg.Activity.DBPath = dbPath
	}
	if mode := os.Getenv("TRACKER_COMPLETION_MODE"); mode != "" {
		cfg.Completion.Mode = mode
	}
	if level := os.Getenv("TRACKER_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if path := os.Getenv("TRACKER_LOG_PATH"); path != "" {
		cfg.Log.Path = path
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Validate checks field constraints and any catalog override.
func (c Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Catalog != nil {
		if err := c.Catalog.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	return nil
}

// StepCatalog returns the configured catalog override or the default catalog.
func (c Config) StepCatalog() catalog.Catalog {
	if c.Catalog != nil {
		return *c.Catalog
	}
	return catalog.Default()
}

// DocumentPath returns the project document location.
func (c Config) DocumentPath() string { return c.resolve(c.Data.Document) }

// LedgerPath returns the documentation ledger location.
func (c Config) LedgerPath() string { return c.resolve(c.Data.Ledger) }

// AttachmentsDir returns the root of the per-project attachment directories.
func (c Config) AttachmentsDir() string { return c.resolve(c.Data.AttachmentsDir) }

// DocsDir returns the documentation screenshot directory.
func (c Config) DocsDir() string { return c.resolve(c.Data.DocsDir) }

// ActivityDBPath returns the activity database location. ":memory:" and
// other SQLite DSNs that are not plain files are passed through.
func (c Config) ActivityDBPath() string {
	if c.Activity.DBPath == ":memory:" || strings.HasPrefix(c.Activity.DBPath, "file:") {
		return c.Activity.DBPath
	}
	return c.resolve(c.Activity.DBPath)
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Data.Dir, path)
}
