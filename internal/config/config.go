// Package config manages provider selection and credential storage for the
// CLI. Configuration lives in a TOML file under the user config directory;
// credentials may also come from environment variables, which always take a
// back seat to an explicit config entry.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the on-disk configuration file.
type Config struct {
	// Provider is the selected backend name ("anthropic", "openai", "google").
	Provider string `toml:"provider"`
	// Credentials maps a backend name to a stored API key. Optional; the
	// environment is consulted when a backend has no entry here.
	Credentials map[string]string `toml:"credentials"`
	// EmojiEnabled controls decorative glyphs in console output.
	EmojiEnabled bool `toml:"emoji_enabled"`
}

// DefaultConfig returns a Config with default values and no provider selected.
func DefaultConfig() *Config {
	return &Config{
		Credentials:  map[string]string{},
		EmojiEnabled: true,
	}
}

// DefaultPath returns the default config file location,
// e.g. ~/.config/codesensei/config.toml.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(base, "codesensei", "config.toml"), nil
}

// Load reads the config file at path. A missing file is not an error; it
// yields the defaults so first-run commands can prompt for configuration.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Credentials == nil {
		cfg.Credentials = map[string]string{}
	}
	return cfg, nil
}

// Save writes cfg to path with owner-only permissions, creating parent
// directories as needed. The restrictive mode matters because the file may
// hold API keys.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config dir %s: %w", dir, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("opening config %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
