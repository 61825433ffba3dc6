package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.APIURL)
	assert.True(t, cfg.AnonFallback)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.NotEmpty(t, cfg.TokenDBPath)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv(EnvAPIURL, "https://play.example.com")
	t.Setenv(EnvAnonFallback, "false")
	t.Setenv(EnvTimeout, "5s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://play.example.com", cfg.APIURL)
	assert.False(t, cfg.AnonFallback)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoadFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := EnvAPIURL + "=https://file.example.com\n" + EnvTimeout + "=10s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	// godotenv never overrides variables already present, so make sure
	// they are genuinely unset (t.Setenv registers the restore).
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvTimeout, "")
	os.Unsetenv(EnvAPIURL)
	os.Unsetenv(EnvTimeout)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.com", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestLoadMissingEnvFileIsFine(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.NoError(t, err)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv(EnvAnonFallback, "perhaps")
	_, err := Load("")
	assert.Error(t, err)
}
