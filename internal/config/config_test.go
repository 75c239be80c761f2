package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "file", cfg.Data.Backend)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout.Std())
}

func TestLoadConfigWithInfo_MissingFile(t *testing.T) {
	cfg, info, err := LoadConfigWithInfo(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.False(t, info.FileLoaded)
	assert.False(t, info.PortSpecified)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigWithInfo_File(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
[server]
port = 9000
max_upload_mb = 5

[data]
backend = "sqlite"
autosave_delay = "500ms"

[remote]
enabled = true
url = "https://script.google.com/macros/s/abc/exec"
refresh_interval = "5m"
year = "2025"
`)

	cfg, info, err := LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.True(t, info.FileLoaded)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Server.MaxUploadMB)
	assert.Equal(t, "sqlite", cfg.Data.Backend)
	assert.Equal(t, 500*time.Millisecond, cfg.Data.AutosaveDelay.Std())
	assert.Equal(t, 5*time.Minute, cfg.Remote.RefreshInterval.Std())
	assert.Equal(t, "2025", cfg.Remote.Year)
	// 未出现在文件中的键保持默认值
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout.Std())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigWithInfo_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", "[server]\nport = 9000\n")
	t.Setenv("OCEANLAND_SERVER_PORT", "9100")
	t.Setenv("OCEANLAND_DATA_BACKEND", "postgres")
	t.Setenv("OCEANLAND_DATA_DSN", "postgres://u:p@localhost/oceanland?sslmode=disable")
	t.Setenv("OCEANLAND_REMOTE_TIMEOUT", "3s")

	cfg, _, err := LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Data.Backend)
	assert.Equal(t, 3*time.Second, cfg.Remote.Timeout.Std())
}

func TestLoadConfigWithInfo_DotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, dir, ".env", "OCEANLAND_LOGGING_LEVEL=debug\n")
	t.Cleanup(func() { _ = os.Unsetenv("OCEANLAND_LOGGING_LEVEL") })

	cfg, _, err := LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigWithInfo_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad backend", "[data]\nbackend = \"mongo\"\n"},
		{"postgres without dsn", "[data]\nbackend = \"postgres\"\n"},
		{"remote without url", "[remote]\nenabled = true\n"},
		{"bad year", "[dashboard]\ndefault_year = \"24\"\n"},
		{"bad duration", "[remote]\ntimeout = \"soon\"\n"},
		{"bad log level", "[logging]\nlevel = \"trace\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.toml", tt.content)
			_, _, err := LoadConfigWithInfo(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Server.Port = 8088
	cfg.Data.AutosaveDelay = Duration(time.Second)
	require.NoError(t, SaveConfig(cfg, path))

	loaded, _, err := LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEnsureDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Data.DataDir = filepath.Join(t.TempDir(), "nested", "data")

	dir, err := EnsureDataDir(cfg)
	require.NoError(t, err)
	assert.DirExists(t, dir)
}
