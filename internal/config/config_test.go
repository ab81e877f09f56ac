package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("DISPATCH_REQUIRE_OPEN_STATION", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store.Backend)
	assert.False(t, cfg.Dispatch.RequireOpenStation)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
}

func TestLoadFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("STORE_BACKEND=SQLite\nSQLITE_PATH=/tmp/sc.db\nDISPATCH_REQUIRE_OPEN_STATION=true\n"), 0o600))
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("DISPATCH_REQUIRE_OPEN_STATION", "")
	os.Unsetenv("STORE_BACKEND")
	os.Unsetenv("SQLITE_PATH")
	os.Unsetenv("DISPATCH_REQUIRE_OPEN_STATION")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, cfg.Store.Backend)
	assert.Equal(t, "/tmp/sc.db", cfg.SQLite.Path)
	assert.True(t, cfg.Dispatch.RequireOpenStation)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "cassandra")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
