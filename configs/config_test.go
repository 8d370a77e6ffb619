package configs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tycmcp/tianyancha-mcp/configs"
)

// unsetenv clears key for the duration of the test. t.Setenv registers the
// restore; the explicit Unsetenv makes the variable absent rather than empty.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileValuesSurvive(t *testing.T) {
	unsetenv(t, "TYC_API_TOKEN")
	unsetenv(t, "TYC_BASE_URL")
	path := writeConfigFile(t, "api_token: file-token\nbase_url: http://proxy.example.com\n")
	t.Setenv("TYC_CONFIG_FILE", path)

	cfg, err := configs.Load()
	require.NoError(t, err)
	assert.Equal(t, "file-token", cfg.APIToken)
	assert.Equal(t, "http://proxy.example.com", cfg.BaseURL)
	// Fields the file does not mention keep their defaults.
	assert.Equal(t, ":8080", cfg.ListenAddr)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "api_token: file-token\nbase_url: http://proxy.example.com\n")
	t.Setenv("TYC_CONFIG_FILE", path)
	t.Setenv("TYC_API_TOKEN", "env-token")
	t.Setenv("TYC_BASE_URL", "http://env.example.com")

	cfg, err := configs.Load()
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.APIToken)
	assert.Equal(t, "http://env.example.com", cfg.BaseURL)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	unsetenv(t, "TYC_CONFIG_FILE")
	unsetenv(t, "TYC_API_TOKEN")
	unsetenv(t, "TYC_BASE_URL")

	cfg, err := configs.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.APIToken)
	assert.Equal(t, "http://open.api.tianyancha.com", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPClientTimeout)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryBackoff)
}

func TestLoad_MissingFileIsAnError(t *testing.T) {
	t.Setenv("TYC_CONFIG_FILE", filepath.Join(t.TempDir(), "no-such-file.yaml"))

	_, err := configs.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_MalformedFileIsAnError(t *testing.T) {
	path := writeConfigFile(t, "api_token: [unclosed\n")
	t.Setenv("TYC_CONFIG_FILE", path)

	_, err := configs.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal config file")
}
