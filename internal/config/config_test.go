package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forgiveness/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"API_ROOT", "CLIENT_ID", "ACCESS_TOKEN", "LIST_TITLE", "BACKEND", "DEBUG", "DRY_RUN", "SKIP_MALFORMED"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, config.DefaultAPIRoot, cfg.APIRoot)
	assert.Equal(t, config.BackendREST, cfg.Backend)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.DryRun)
	assert.Empty(t, cfg.ListTitle)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_ROOT", "http://localhost:9999/")
	t.Setenv("CLIENT_ID", "cid")
	t.Setenv("ACCESS_TOKEN", "tok")
	t.Setenv("LIST_TITLE", "Home")
	t.Setenv("DEBUG", "1")
	t.Setenv("DRY_RUN", "yes")

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/", cfg.APIRoot)
	assert.Equal(t, "cid", cfg.ClientID)
	assert.Equal(t, "tok", cfg.AccessToken)
	assert.Equal(t, "Home", cfg.ListTitle)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.DryRun, "any non-empty value other than a false literal enables the flag")
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FalseLiteral(t *testing.T) {
	clearEnv(t)
	t.Setenv("DRY_RUN", "false")

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	assert.False(t, cfg.DryRun)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	data := "list_title: Chores\nclient_id: from-file\naccess_token: file-token\ndry_run: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(data), 0600))
	t.Setenv("CLIENT_ID", "from-env")

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "Chores", cfg.ListTitle)
	assert.Equal(t, "from-env", cfg.ClientID)
	assert.Equal(t, "file-token", cfg.AccessToken)
	assert.True(t, cfg.DryRun)
}

func TestValidate(t *testing.T) {
	cfg := config.New(t.TempDir())
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLIENT_ID not set")
	assert.Contains(t, err.Error(), "ACCESS_TOKEN not set")

	cfg.ClientID, cfg.AccessToken = "cid", "tok"
	assert.NoError(t, cfg.Validate())

	cfg.Backend = config.BackendGoogle
	cfg.ClientID = ""
	assert.NoError(t, cfg.Validate())

	cfg.Backend = "carrier-pigeon"
	assert.ErrorContains(t, cfg.Validate(), "unknown backend")
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", config.AppName), config.DefaultConfigDir())
}
