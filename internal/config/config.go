// Package config loads runtime settings from the config directory,
// the environment and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "forgiveness"

	// ConfigFile is the optional settings file inside the config directory.
	ConfigFile = "config.yaml"

	// OAuthClientFile is the OAuth client credentials filename (google backend).
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename (google backend).
	TokenFile = "token.json"

	// DefaultAPIRoot is the REST backend base URL.
	DefaultAPIRoot = "https://a.wunderlist.com/api/v1/"
)

// Backend names.
const (
	BackendREST   = "rest"
	BackendGoogle = "google"
)

// Settings keys. Each key is also read from the upper-cased environment variable.
const (
	keyAPIRoot       = "api_root"
	keyClientID      = "client_id"
	keyAccessToken   = "access_token"
	keyListTitle     = "list_title"
	keyBackend       = "backend"
	keyDebug         = "debug"
	keyDryRun        = "dry_run"
	keySkipMalformed = "skip_malformed"
)

// Config holds configuration paths and settings.
// It is built once at startup and not modified afterwards.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Backend selects the task service implementation ("rest" or "google").
	Backend string

	// APIRoot is the REST backend base URL.
	APIRoot string

	// ClientID and AccessToken are the REST backend credentials.
	ClientID    string
	AccessToken string

	// ListTitle is the exact title of the list to scan.
	ListTitle string

	// Debug enables debug logging, including raw payload dumps.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// DryRun classifies and logs without writing anything.
	DryRun bool

	// SkipMalformed treats tasks with unparseable due dates as unaffected
	// instead of aborting the run.
	SkipMalformed bool
}

// New creates a Config with defaults and the given or default config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/forgiveness or $HOME/.config/forgiveness.
func New(configDir string) *Config {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:     dir,
		Backend: BackendREST,
		APIRoot: DefaultAPIRoot,
	}
}

// Load creates a Config from <dir>/config.yaml (if present) and the environment.
// Environment variables take precedence over the file.
func Load(configDir string) (*Config, error) {
	cfg := New(configDir)

	v := viper.New()
	v.SetDefault(keyAPIRoot, cfg.APIRoot)
	v.SetDefault(keyBackend, cfg.Backend)
	for _, key := range []string{
		keyAPIRoot, keyClientID, keyAccessToken, keyListTitle,
		keyBackend, keyDebug, keyDryRun, keySkipMalformed,
	} {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, err
		}
	}

	path := filepath.Join(cfg.Dir, ConfigFile)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	}

	cfg.APIRoot = v.GetString(keyAPIRoot)
	cfg.ClientID = v.GetString(keyClientID)
	cfg.AccessToken = v.GetString(keyAccessToken)
	cfg.ListTitle = v.GetString(keyListTitle)
	cfg.Backend = strings.ToLower(strings.TrimSpace(v.GetString(keyBackend)))
	cfg.Debug = parseFlag(v.GetString(keyDebug))
	cfg.DryRun = parseFlag(v.GetString(keyDryRun))
	cfg.SkipMalformed = parseFlag(v.GetString(keySkipMalformed))

	return cfg, nil
}

// parseFlag interprets an on/off setting. Values strconv.ParseBool understands
// are honored; any other non-empty value switches the setting on.
func parseFlag(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return true
}

// Validate checks that the selected backend has what it needs to connect.
func (c *Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendREST:
		if c.APIRoot == "" {
			errs = append(errs, errors.New("API_ROOT is empty"))
		}
		if c.ClientID == "" {
			errs = append(errs, errors.New("CLIENT_ID not set"))
		}
		if c.AccessToken == "" {
			errs = append(errs, errors.New("ACCESS_TOKEN not set"))
		}
	case BackendGoogle:
	default:
		errs = append(errs, fmt.Errorf("unknown backend: %s", c.Backend))
	}
	return errors.Join(errs...)
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory with mode 0700 if it doesn't exist.
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
