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
	t.Setenv("STARROUTE_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.True(t, cfg.Routing.CacheEnabled)
	assert.Equal(t, 50, cfg.Routing.CacheCapacity)
	assert.Equal(t, 1500, cfg.Routing.MaxStars)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STARROUTE_CONFIG", "")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("ROUTE_CACHE_ENABLED", "false")
	t.Setenv("ROUTE_CACHE_CAPACITY", "7")
	t.Setenv("ROUTE_LINE_WIDTH", "1.5")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.False(t, cfg.Routing.CacheEnabled)
	assert.Equal(t, 7, cfg.Routing.CacheCapacity)
	assert.Equal(t, 1.5, cfg.Routing.LineWidth)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("STARROUTE_CONFIG", "")

	t.Setenv("SERVER_PORT", "99999")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("SERVER_IDLE_TIMEOUT", "soon")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "starroute.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = 7000
write_timeout = "45s"
metrics_enabled = true

[graph]
uri = "neo4j://localhost:7687"

[routing]
cache_capacity = 120
max_stars = 0
stars_file = "stars.json"
`), 0o644))
	t.Setenv("ROUTE_MAX_STARS", "900")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.HTTP.Port)
	assert.Equal(t, 45*time.Second, cfg.HTTP.WriteTimeout)
	assert.True(t, cfg.HTTP.MetricsEnabled)
	assert.Equal(t, "neo4j://localhost:7687", cfg.Graph.URI)
	assert.Equal(t, 120, cfg.Routing.CacheCapacity)
	assert.Equal(t, 900, cfg.Routing.MaxStars)
	assert.Equal(t, "stars.json", cfg.Routing.StarsFile)
	assert.Equal(t, defaultHost, cfg.HTTP.Host)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nread_timeout = \"later\"\n"), 0o644))
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestLoadUsesConfigEnvVar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "starroute.toml")
	require.NoError(t, os.WriteFile(path, []byte("[routing]\ndataset = \"core\"\n"), 0o644))
	t.Setenv("STARROUTE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "core", cfg.Routing.Dataset)
}
