// ABOUTME: fitcoach configuration management with backend selection.
// ABOUTME: JSON file at XDG config path, overridden by environment and .env.

package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/charmbracelet/log"
	"github.com/harperreed/fitcoach/internal/charm"
	"github.com/harperreed/fitcoach/internal/coach"
	"github.com/harperreed/fitcoach/internal/storage"
	"github.com/joho/godotenv"
)

// Backend names.
const (
	BackendCharm  = "charm"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Backends lists every supported storage backend.
var Backends = []string{BackendCharm, BackendBadger, BackendSQLite}

// Config stores fitcoach configuration.
type Config struct {
	// Backend selects the storage backend: "charm" (default), "badger", or "sqlite".
	Backend string `json:"backend,omitempty" env:"FITCOACH_BACKEND"`

	// DataDir is the root directory for local backends.
	// SQLite puts fitcoach.db here; badger uses a badger/ subdirectory.
	// Supports ~ expansion. Defaults to ~/.local/share/fitcoach.
	DataDir string `json:"data_dir,omitempty" env:"FITCOACH_DATA_DIR"`

	// Model is the chat model name sent to the AI endpoint.
	Model string `json:"model,omitempty" env:"FITCOACH_MODEL"`

	// BaseURL points at any OpenAI-compatible endpoint.
	BaseURL string `json:"base_url,omitempty" env:"OPENAI_BASE_URL"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `json:"log_level,omitempty" env:"FITCOACH_LOG_LEVEL"`

	// APIKey is never written to disk.
	APIKey string `json:"-" env:"OPENAI_API_KEY"`
}

// GetBackend returns the configured backend, defaulting to "charm".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendCharm
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetModel returns the configured model, defaulting to coach.DefaultModel.
func (c *Config) GetModel() string {
	if c.Model == "" {
		return coach.DefaultModel
	}
	return c.Model
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenBackend opens the named backend.
func (c *Config) OpenBackend(name string) (storage.Backend, error) {
	dataDir := c.GetDataDir()

	switch name {
	case BackendCharm:
		return charm.Open("")
	case BackendBadger:
		return storage.OpenBadger(filepath.Join(dataDir, "badger"))
	case BackendSQLite:
		return storage.OpenSQLite(filepath.Join(dataDir, "fitcoach.db"))
	default:
		return nil, fmt.Errorf("unknown backend: %q (want one of %s)", name, strings.Join(Backends, ", "))
	}
}

// OpenStore opens the configured backend wrapped in a typed Store.
func (c *Config) OpenStore(opts ...storage.Option) (*storage.Store, error) {
	b, err := c.OpenBackend(c.GetBackend())
	if err != nil {
		return nil, err
	}
	return storage.New(b, opts...), nil
}

// CoachConfig returns the AI client settings.
func (c *Config) CoachConfig() coach.Config {
	return coach.Config{
		APIKey:  c.APIKey,
		BaseURL: c.BaseURL,
		Model:   c.GetModel(),
	}
}

// NewLogger builds a stderr logger at the configured level.
func (c *Config) NewLogger(w io.Writer) *log.Logger {
	logger := log.New(w)
	logger.SetPrefix("fitcoach")
	logger.SetReportTimestamp(false)
	logger.SetLevel(ParseLogLevel(c.LogLevel))
	return logger
}

// ParseLogLevel maps a level name to a log level, defaulting to warn.
func ParseLogLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "fitcoach", "config.json")
}

// LoadDotEnv loads a .env file from the working directory if one exists.
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return godotenv.Load()
}

// Load reads config from disk and applies environment overrides.
func Load() (*Config, error) {
	cfg, err := loadFile(GetConfigPath())
	if err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
