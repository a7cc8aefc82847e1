package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wesleywu/routetable/internal/logger"
	"github.com/wesleywu/routetable/internal/snapshot"
)

const DefaultNetstatPath = snapshot.DefaultNetstatPath

// Config represents the configuration for the routing table tools
type Config struct {
	LogLevel string `json:"log_level"`

	// Snapshot source. SnapshotFile, when set, is read instead of running netstat.
	NetstatPath  string   `json:"netstat_path"`
	NetstatArgs  []string `json:"netstat_args"`
	SnapshotFile string   `json:"snapshot_file,omitempty"`

	CommandTimeout Duration `json:"command_timeout"`
	CacheTTL       Duration `json:"cache_ttl"`

	ConcurrencyLimit int `json:"concurrency_limit"`
}

// NewDefaultConfig creates a new config with default values
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:         "info",
		NetstatPath:      DefaultNetstatPath,
		NetstatArgs:      []string{"-rn"},
		CommandTimeout:   Duration(10 * time.Second),
		CacheTTL:         Duration(2 * time.Second),
		ConcurrencyLimit: 50,
	}
}

// LoadConfig reads a JSON config file over the defaults. An empty path or a
// missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config as indented JSON
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log level: %q", c.LogLevel)
	}
	if c.SnapshotFile == "" && c.NetstatPath == "" {
		return errors.New("either netstat_path or snapshot_file must be set")
	}
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("command timeout must be positive, got %v", c.CommandTimeout)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache ttl must not be negative, got %v", c.CacheTTL)
	}
	if c.ConcurrencyLimit <= 0 {
		return fmt.Errorf("concurrency limit must be positive, got %d", c.ConcurrencyLimit)
	}
	return nil
}

// Duration is a time.Duration that reads and writes as a string like "10s"
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"10s\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
