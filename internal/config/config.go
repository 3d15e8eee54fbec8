// Package config loads the command line tool's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/simonhull/audiotag"
)

// Config holds the command line tool's settings.
type Config struct {
	LogLevel        string `toml:"log_level"`
	LogFormat       string `toml:"log_format"`
	ID3Version      int    `toml:"id3_version"`
	Padding         int    `toml:"padding"`
	Vendor          string `toml:"vendor"`
	MaxPictureSize  int    `toml:"max_picture_size"`
	BackupSuffix    string `toml:"backup_suffix"`
	PreserveModTime bool   `toml:"preserve_mod_time"`
	Validate        bool   `toml:"validate"`
	StrictParsing   bool   `toml:"strict_parsing"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogLevel:   "info",
		LogFormat:  "auto",
		ID3Version: 3,
		Padding:    1024,
		Vendor:     "audiotag",
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/audiotag/config.toml, falling
// back to ~/.config.
func DefaultConfigPath() (string, error) {
	if base, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "audiotag", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "audiotag", "config.toml"), nil
}

// Load reads the file at path, or the default location when path is empty.
// A missing file yields the defaults. It returns the resolved path and
// whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return nil, "", false, err
		}
	}

	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &cfg, path, false, nil
	case err != nil:
		return nil, "", false, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, "", false, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, path, true, nil
}

func (c *Config) normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.Vendor = strings.TrimSpace(c.Vendor)
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unsupported value %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "", "auto", "console", "json":
	default:
		return fmt.Errorf("log_format: unsupported value %q", c.LogFormat)
	}
	if c.ID3Version != 3 && c.ID3Version != 4 {
		return fmt.Errorf("id3_version must be 3 or 4, got %d", c.ID3Version)
	}
	if c.Padding < 0 {
		return fmt.Errorf("padding must be non-negative, got %d", c.Padding)
	}
	if c.MaxPictureSize < 0 {
		return fmt.Errorf("max_picture_size must be non-negative, got %d", c.MaxPictureSize)
	}
	if strings.ContainsAny(c.BackupSuffix, `/\`) {
		return fmt.Errorf("backup_suffix must not contain path separators: %q", c.BackupSuffix)
	}
	return nil
}

// OpenOptions converts the settings into library options.
func (c *Config) OpenOptions() []audiotag.Option {
	opts := []audiotag.Option{
		audiotag.WithID3Version(c.ID3Version),
		audiotag.WithPadding(c.Padding),
		audiotag.WithVendor(c.Vendor),
		audiotag.WithMaxPictureSize(c.MaxPictureSize),
	}
	if c.StrictParsing {
		opts = append(opts, audiotag.WithStrictParsing())
	}
	return opts
}

// SaveOptions converts the settings into SaveFile options.
func (c *Config) SaveOptions() []audiotag.SaveOption {
	var opts []audiotag.SaveOption
	if c.BackupSuffix != "" {
		opts = append(opts, audiotag.WithBackup(c.BackupSuffix))
	}
	if c.PreserveModTime {
		opts = append(opts, audiotag.WithPreserveModTime())
	}
	if c.Validate {
		opts = append(opts, audiotag.WithValidation())
	}
	return opts
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// CreateSample writes the default configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	cfg := Default()
	data, err := cfg.Encode()
	if err != nil {
		return fmt.Errorf("encode sample config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
