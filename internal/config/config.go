package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/kutbudev/todolists/internal/deletion"
	"github.com/kutbudev/todolists/internal/tags"
)

const (
	configDir      = ".todolists"
	configFileName = "config.json"

	// DefaultBaseURL is where a locally started todolists-server listens.
	DefaultBaseURL = "http://localhost:8080/api"
	DefaultTimeout = 30
)

// Config is the client configuration stored in ~/.todolists/config.json.
type Config struct {
	APIBaseURL         string `json:"api_base_url,omitempty"`
	APIKey             string `json:"api_key,omitempty"`
	IncludeDeletedTags *bool  `json:"include_deleted_tags,omitempty"`
	DeleteMode         string `json:"delete_mode,omitempty"`
	TimeoutSeconds     int    `json:"timeout_seconds,omitempty"`
}

// GetConfigPath returns the path to the config file (~/.todolists/config.json).
// TODOLISTS_CONFIG overrides it.
func GetConfigPath() (string, error) {
	if p := os.Getenv("TODOLISTS_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir, configFileName), nil
}

// LoadConfig reads the config file. A missing file yields an empty Config.
func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes cfg to path, replacing the file atomically.
func SaveFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

// BaseURL returns the API base URL. TODOLISTS_API_URL wins over the file.
func (c *Config) BaseURL() string {
	if u := os.Getenv("TODOLISTS_API_URL"); u != "" {
		return strings.TrimRight(u, "/")
	}
	if c.APIBaseURL != "" {
		return strings.TrimRight(c.APIBaseURL, "/")
	}
	return DefaultBaseURL
}

func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeout * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *Config) TagOptions() tags.Options {
	opts := tags.DefaultOptions()
	if c.IncludeDeletedTags != nil {
		opts.IncludeDeleted = *c.IncludeDeletedTags
	}
	return opts
}

func (c *Config) Deletion() deletion.Mode {
	return deletion.ParseMode(strings.ToLower(strings.TrimSpace(c.DeleteMode)))
}

// Set assigns a config key by its file name, for `todolists config set`.
func (c *Config) Set(key, value string) error {
	switch key {
	case "api_base_url":
		c.APIBaseURL = value
	case "api_key":
		c.APIKey = value
	case "include_deleted_tags":
		b := value == "true" || value == "1" || value == "yes"
		c.IncludeDeletedTags = &b
	case "delete_mode":
		if value != "soft" && value != "hard" {
			return fmt.Errorf("delete_mode must be soft or hard, got %q", value)
		}
		c.DeleteMode = value
	case "timeout_seconds":
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil || n <= 0 {
			return fmt.Errorf("timeout_seconds must be a positive integer, got %q", value)
		}
		c.TimeoutSeconds = n
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
