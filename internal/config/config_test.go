package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rail/internal/config"
)

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 3, cfg.Search.MaxLegs)
	assert.True(t, cfg.Search.CacheEnabled)
	assert.Equal(t, 5*time.Minute, cfg.Search.CacheTTL)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=rail sslmode=disable", cfg.Database.DSN())
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	t.Setenv("SEARCH_MAX_LEGS", "2")
	t.Setenv("SEARCH_CACHE_TTL", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("NEW_RELIC_ENABLED", "true")

	cfg, err := config.LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Search.MaxLegs)
	assert.Equal(t, 30*time.Second, cfg.Search.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.NewRelic.Enabled)
}

func TestLoadFile_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT=9090\nCATALOG_CSV_PATH=/srv/rail.csv\nLOG_LEVEL=debug\n"), 0o600))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/srv/rail.csv", cfg.Catalog.CSVPath)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFile_RejectsInvalidLegBound(t *testing.T) {
	t.Setenv("SEARCH_MAX_LEGS", "5")
	_, err := config.LoadFile("")
	assert.Error(t, err)
}
