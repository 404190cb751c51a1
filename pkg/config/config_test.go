package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PG_HOST", "PG_PORT", "SERVER_PORT", "TODOLISTS_STORE", "TODOLISTS_DEBUG"} {
		t.Setenv(k, "")
	}
	cfg, err := LoadFrom("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "localhost:8080", cfg.Server.Addr())
	assert.Contains(t, cfg.Database.DSN(), "dbname=todolists")
}

func TestLoadEnvAndFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "server:\n  port: 9090\ndatabase:\n  name: fromfile\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))
	t.Setenv("PG_HOST", "db.internal")
	t.Setenv("TODOLISTS_STORE", StoreMemory)

	cfg, err := LoadFrom("", dir)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "fromfile", cfg.Database.Name)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, StoreMemory, cfg.Store)
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	t.Setenv("TODOLISTS_STORE", "sqlite")
	_, err := LoadFrom("", t.TempDir())
	assert.Error(t, err)
}
