package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SuggestConfig points at the generative text API used for campaign
// copy suggestions. The API key is never stored here; it comes from the
// GEMINI_API_KEY environment variable.
type SuggestConfig struct {
	// BaseURL is the API root, e.g. "https://generativelanguage.googleapis.com".
	BaseURL string `yaml:"base_url" json:"base_url"`
	// Model is the generative model name used for suggestions.
	Model string `yaml:"model" json:"model"`
	// TimeoutSeconds bounds a single suggestion request.
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the planner API.
	Listen string `yaml:"listen" json:"listen"`

	// RedisURL is the connection URL of the document store backing the
	// sync gateway, e.g. "redis://localhost:6379/0".
	RedisURL string `yaml:"redis_url" json:"redis_url"`

	// KeyPrefix namespaces the store's collections so several planners
	// can share one Redis instance.
	KeyPrefix string `yaml:"key_prefix" json:"key_prefix"`

	// LogLevel is DEBUG, INFO or ERROR.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// NotifyCron is a cron-style schedule for the upcoming-campaign
	// reminder pass (e.g. "0 9 * * *").
	NotifyCron string `yaml:"notify_cron" json:"notify_cron"`

	// NotifyWindowDays is how far ahead the reminder pass looks.
	NotifyWindowDays int `yaml:"notify_window_days" json:"notify_window_days"`

	Suggest SuggestConfig `yaml:"suggest" json:"suggest"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:           "127.0.0.1:8080",
		RedisURL:         "redis://127.0.0.1:6379/0",
		KeyPrefix:        "omniplan",
		LogLevel:         "INFO",
		NotifyCron:       "0 9 * * *",
		NotifyWindowDays: 2,
		Suggest: SuggestConfig{
			BaseURL:        "https://generativelanguage.googleapis.com",
			Model:          "gemini-2.5-flash",
			TimeoutSeconds: 20,
		},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.RedisURL == "" {
		c.RedisURL = def.RedisURL
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = def.KeyPrefix
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.NotifyCron == "" {
		c.NotifyCron = def.NotifyCron
	}
	if c.NotifyWindowDays <= 0 {
		c.NotifyWindowDays = def.NotifyWindowDays
	}
	if c.Suggest.BaseURL == "" {
		c.Suggest.BaseURL = def.Suggest.BaseURL
	}
	if c.Suggest.Model == "" {
		c.Suggest.Model = def.Suggest.Model
	}
	if c.Suggest.TimeoutSeconds <= 0 {
		c.Suggest.TimeoutSeconds = def.Suggest.TimeoutSeconds
	}
}

// Load loads configuration from the given YAML path. A missing file is
// a first run: the default config is written there (0600) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename, 0600).
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".omniplan-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
