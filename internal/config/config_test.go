package config

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/kutbudev/todolists/internal/deletion"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.True(t, cfg.TagOptions().IncludeDeleted)
	assert.Equal(t, deletion.Hard, cfg.Deletion())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	t.Setenv("TODOLISTS_CONFIG", path)

	cfg := &Config{}
	require.NoError(t, cfg.Set("api_base_url", "http://example.test/api/"))
	require.NoError(t, cfg.Set("include_deleted_tags", "false"))
	require.NoError(t, cfg.Set("delete_mode", "soft"))
	require.NoError(t, cfg.Set("timeout_seconds", "5"))
	require.NoError(t, SaveConfig(cfg))

	got, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/api", got.BaseURL())
	assert.False(t, got.TagOptions().IncludeDeleted)
	assert.Equal(t, deletion.Soft, got.Deletion())
	assert.Equal(t, 5*time.Second, got.Timeout())
}

func TestEnvOverridesBaseURL(t *testing.T) {
	t.Setenv("TODOLISTS_API_URL", "http://override/api")
	cfg := &Config{APIBaseURL: "http://file/api"}
	assert.Equal(t, "http://override/api", cfg.BaseURL())
}

func TestSetRejectsBadValues(t *testing.T) {
	tests := []struct{ key, value string }{
		{"delete_mode", "maybe"},
		{"timeout_seconds", "-1"},
		{"timeout_seconds", "abc"},
		{"colour", "red"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			assert.Error(t, (&Config{}).Set(tt.key, tt.value))
		})
	}
}

func TestAPIKeyInKeyring(t *testing.T) {
	keyring.MockInit()
	resetKeyringProbe()
	t.Cleanup(resetKeyringProbe)

	cfg := &Config{}
	assert.Empty(t, cfg.Key())
	assert.Empty(t, cfg.KeySource())

	require.NoError(t, StoreAPIKey("tl-secret"))
	assert.Equal(t, "tl-secret", cfg.Key())
	assert.Equal(t, "system keyring", cfg.KeySource())

	cfg.APIKey = "from-file"
	assert.Equal(t, "from-file", cfg.Key(), "the config file wins")
	assert.Equal(t, "config file", cfg.KeySource())

	require.NoError(t, DeleteAPIKey())
	require.NoError(t, DeleteAPIKey(), "deleting twice is fine")
	assert.Empty(t, (&Config{}).Key())
}

func TestAPIKeyKeyringUnavailable(t *testing.T) {
	keyring.MockInitWithError(errors.New("no secret service"))
	resetKeyringProbe()
	t.Cleanup(func() {
		keyring.MockInit()
		resetKeyringProbe()
	})

	assert.ErrorIs(t, StoreAPIKey("tl-secret"), ErrKeyringUnavailable)
	assert.Empty(t, (&Config{}).Key())
}
