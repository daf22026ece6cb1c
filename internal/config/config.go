// Package config handles XDG directories, the optional config file, and
// backend selection.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "tasker"

	// ConfigFile is the optional config file name inside the config dir.
	ConfigFile = "config.yaml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// EnvPrefix prefixes environment overrides (TASKER_BACKEND, ...).
	EnvPrefix = "TASKER"
)

// Backend names.
const (
	BackendFile        = "file"
	BackendSQLite      = "sqlite"
	BackendGoogleTasks = "googletasks"
)

// Backends lists the supported backend names.
var Backends = []string{BackendFile, BackendSQLite, BackendGoogleTasks}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Backend selects the persistence backend.
	Backend string `mapstructure:"backend"`

	// DataDir holds the file backend's snapshot and the default database.
	DataDir string `mapstructure:"data_dir"`

	// Database is the sqlite backend's database path.
	Database string `mapstructure:"database"`

	// RemoteList is the Google Tasks list used by the googletasks backend.
	RemoteList string `mapstructure:"remote_list"`

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tasker or $HOME/.config/tasker.
// Settings are read from config.yaml in that directory when present and
// can be overridden with TASKER_* environment variables.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetDefault("backend", BackendFile)
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("database", "")
	v.SetDefault("remote_list", AppName)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(filepath.Join(dir, ConfigFile))
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	}

	cfg := &Config{Dir: dir}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	if cfg.Database == "" {
		cfg.Database = filepath.Join(cfg.DataDir, AppName+".db")
	}
	if err := cfg.SetBackend(cfg.Backend); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetBackend validates and sets the backend name.
func (c *Config) SetBackend(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, b := range Backends {
		if name == b {
			c.Backend = name
			return nil
		}
	}
	return fmt.Errorf("unknown backend: %s (want %s)", name, strings.Join(Backends, ", "))
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultDataDir returns the default data directory.
// Uses XDG_DATA_HOME if set, otherwise $HOME/.local/share.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".local", "share", AppName)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
