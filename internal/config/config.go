// Package config handles global folio configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the global folio configuration.
type Config struct {
	// DefaultLibrary is the name of the default library (from Libraries).
	DefaultLibrary string `toml:"default_library"`

	// Libraries maps library names to their root directories.
	Libraries map[string]string `toml:"libraries"`

	// ScriptsFolder is an extra directory scanned for folio-* scripts,
	// ahead of $PATH.
	ScriptsFolder string `toml:"scripts_folder"`

	// Editor is the editor used for opening info files (defaults to $EDITOR).
	Editor string `toml:"editor"`

	// Opener is the command used to preview candidate files during
	// interactive merges (defaults to xdg-open).
	Opener string `toml:"opener"`

	// External controls how external folio-* commands are spawned.
	External ExternalConfig `toml:"external"`
}

// ExternalConfig holds settings for spawned external commands.
type ExternalConfig struct {
	// TimeoutSeconds bounds how long an external command may run.
	// Zero means no timeout.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Timeout returns the external command timeout as a duration (0 = none).
func (e ExternalConfig) Timeout() time.Duration {
	if e.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// GetLibraryPath returns the root directory for a named library.
// An empty name selects the default library.
func (c *Config) GetLibraryPath(name string) (string, error) {
	if name == "" {
		name = c.DefaultLibrary
	}
	if name == "" {
		return "", fmt.Errorf("no default library configured")
	}
	if path, ok := c.Libraries[name]; ok {
		return path, nil
	}
	return "", fmt.Errorf("library %q not found in config", name)
}

// GetScriptsFolder returns the configured scripts folder, falling back to
// ~/.config/folio/scripts.
func (c *Config) GetScriptsFolder() string {
	if c.ScriptsFolder != "" {
		return c.ScriptsFolder
	}
	return filepath.Join(configDir(), "scripts")
}

// GetOpener returns the file preview command.
func (c *Config) GetOpener() string {
	if c.Opener != "" {
		return c.Opener
	}
	return "xdg-open"
}

// GetEditor returns the editor command.
func (c *Config) GetEditor() string {
	if c.Editor != "" {
		return c.Editor
	}
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	return "vi"
}

// Load loads the configuration from the default location.
// A missing file yields a zero config, not an error.
func Load() (*Config, error) {
	path := DefaultPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(configDir(), "config.toml")
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "folio")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".folio")
	}
	return filepath.Join(home, ".config", "folio")
}
