package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kutbudev/todolists/pkg/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", "", "--config-dir", t.TempDir()}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigShow(t *testing.T) {
	t.Setenv("TODOLISTS_STORE", "memory")
	t.Setenv("PG_PASSWORD", "hunter2")

	out, err := run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "store:    memory")
	assert.NotContains(t, out, "hunter2")
}

func TestMigrateNeedsPostgres(t *testing.T) {
	t.Setenv("TODOLISTS_STORE", "memory")

	_, err := run(t, "migrate")
	assert.Error(t, err)
}

func TestOpenMemoryStore(t *testing.T) {
	t.Setenv("TODOLISTS_STORE", "memory")
	cfg, err := loadForTest(t)
	require.NoError(t, err)

	s, closeStore, err := openStore(cfg, false)
	require.NoError(t, err)
	defer closeStore()
	assert.NoError(t, s.Health(t.Context()))
}

func loadForTest(t *testing.T) (*config.Config, error) {
	t.Helper()
	return config.LoadFrom("", t.TempDir())
}
