package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutEnvFile(t *testing.T) {
	cfg, err := Load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, StoreDir, cfg.Store.Driver)
	assert.Equal(t, "recipes", cfg.Store.Dir)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 4, cfg.Queue.Workers)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.True(t, cfg.Fetch.Enabled)
	assert.False(t, cfg.Fetch.AllowPrivateHosts)
	assert.Equal(t, time.Second, cfg.DedupWindow)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("APP_STORE_SQLITE_PATH", "/tmp/book.db")
	t.Setenv("RATE_LIMIT_REQUESTS", "7")

	cfg, err := Load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, StoreSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/book.db", cfg.Store.SQLitePath)
	assert.Equal(t, 7, cfg.RateLimit.Requests)
}

func TestLoadFetchDisabled(t *testing.T) {
	t.Setenv("APP_FETCH_ENABLED", "false")
	t.Setenv("APP_FETCH_TIMEOUT", "0s")

	cfg, err := Load(viper.New(), t.TempDir())
	require.NoError(t, err)
	assert.False(t, cfg.Fetch.Enabled)
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("APP_FETCH_RETRIES=5\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("APP_FETCH_RETRIES") })

	cfg, err := Load(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Fetch.Retries)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "mongo"}},
		{"zero workers", map[string]string{"APP_QUEUE_WORKERS": "0"}},
		{"bad port", map[string]string{"APP_SERVER_PORT": "70000"}},
		{"zero cache size", map[string]string{"APP_CACHE_MAX_SIZE": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(viper.New(), t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "****", MaskSecret("short"))
	assert.Equal(t, "se...et", MaskSecret("supersecret"))
}
