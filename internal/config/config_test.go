package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(t *testing.T) {
	t.Helper()
	File, APIBaseURL, SessionPath, DownloadDir, LogPath, MockAddr = "", "", "", "", "", ""
	Dev, Mock, Ephemeral = false, false, false
	explicit = map[string]bool{}
	for _, key := range []string{"VITE_API_BASE_URL", "LOANCHAT_API_BASE_URL", "LOANCHAT_SESSION_PATH",
		"LOANCHAT_DOWNLOAD_DIR", "LOANCHAT_LOG_PATH", "LOANCHAT_MOCK_ADDR", "LOANCHAT_DEV", "LOANCHAT_MOCK", "LOANCHAT_TIMEOUT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	resetFlags(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, "downloads", cfg.DownloadDir)
	assert.NotEmpty(t, cfg.SessionPath)
	assert.Zero(t, cfg.Timeout)
}

func TestLoadPrecedence(t *testing.T) {
	resetFlags(t)

	path := filepath.Join(t.TempDir(), "loanchat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_base_url: http://file.example:9000
download_dir: /tmp/letters
timeout: 45s
dev: true
`), 0o600))
	File = path

	t.Setenv("VITE_API_BASE_URL", "http://vite.example:8000")
	t.Setenv("LOANCHAT_DOWNLOAD_DIR", "/env/letters")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://vite.example:8000", cfg.APIBaseURL, "environment beats the file")
	assert.Equal(t, "/env/letters", cfg.DownloadDir)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.True(t, cfg.Dev)

	t.Setenv("LOANCHAT_API_BASE_URL", "http://loanchat.example")
	APIBaseURL = "https://flag.example"
	explicit["api"] = true

	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example", cfg.APIBaseURL, "flags beat everything")
}

func TestLoadMockPointsClientAtDevBackend(t *testing.T) {
	resetFlags(t)
	Mock, MockAddr = true, "127.0.0.1:18000"
	explicit["mock"], explicit["mockAddr"] = true, true

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:18000", cfg.APIBaseURL)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.APIBaseURL = "localhost:8000"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.APIBaseURL = "http://"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.SessionPath = ""
	assert.Error(t, cfg.Validate())
	cfg.Ephemeral = true
	assert.NoError(t, cfg.Validate())

	cfg = Default()
	cfg.Timeout = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("LOANCHAT_TIMEOUT", "12")
	assert.Equal(t, 12*time.Second, getEnvDuration("LOANCHAT_TIMEOUT", 0))
	t.Setenv("LOANCHAT_TIMEOUT", "1m")
	assert.Equal(t, time.Minute, getEnvDuration("LOANCHAT_TIMEOUT", 0))
	t.Setenv("LOANCHAT_TIMEOUT", "soon")
	assert.Equal(t, time.Second, getEnvDuration("LOANCHAT_TIMEOUT", time.Second))
}
