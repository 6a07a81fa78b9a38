// Package config persists the single VaultClip setting: the SVG to PNG
// rasterization scale factor. The config lives as JSON under ~/.vaultclip
// and is loaded once at startup, merged over defaults.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rfenwick/vaultclip/internal/errors"
)

const (
	// DefaultScale is the rasterization scale applied when no config exists.
	DefaultScale = 4
	// MinScale and MaxScale bound the user-settable scale factor.
	MinScale = 1
	MaxScale = 10
)

// Config holds the application configuration
type Config struct {
	// SVGToPNGScale multiplies an SVG's intrinsic dimensions when
	// rasterizing for the clipboard. Valid range is [MinScale, MaxScale].
	SVGToPNGScale int `json:"svg_to_png_scale"`

	mu       sync.RWMutex
	filePath string
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".vaultclip"), nil
}

// configPath returns the path to the config file
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if it doesn't exist
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from an explicit path. Missing file yields
// defaults; a present file is merged over defaults and validated.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{
		SVGToPNGScale: DefaultScale,
		filePath:      path,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.ConfigLoadFailed(path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.ConfigLoadFailed(path, err)
	}

	// A zero value means the field was absent from the file; fall back
	// to the default rather than failing validation.
	if cfg.SVGToPNGScale == 0 {
		cfg.SVGToPNGScale = DefaultScale
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the loaded configuration is usable
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.SVGToPNGScale < MinScale || c.SVGToPNGScale > MaxScale {
		return errors.ConfigInvalid("svg_to_png_scale must be between 1 and 10")
	}
	return nil
}

// Save writes the config to disk, creating the directory if needed
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	dir := filepath.Dir(c.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}

	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}
	return nil
}

// Scale returns the current rasterization scale factor
func (c *Config) Scale() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.SVGToPNGScale
}

// SetScale updates the scale factor, clamping it to the valid range.
// The clamp makes out-of-range values unreachable regardless of caller.
func (c *Config) SetScale(scale int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if scale < MinScale {
		scale = MinScale
	}
	if scale > MaxScale {
		scale = MaxScale
	}
	c.SVGToPNGScale = scale
}
