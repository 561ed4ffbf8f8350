// Package config loads the optional actionlog configuration file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the config file name under the user config directory.
const FileName = "config.toml"

// AppDir is the per-application directory under the user config dir.
const AppDir = "actionlog"

// Config holds the user defaults. Command-line flags override every field.
type Config struct {
	Repo            string `toml:"repo"`
	Workflow        string `toml:"workflow"`
	Limit           int    `toml:"limit"`
	CacheTTLMinutes int    `toml:"cache_ttl_minutes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Limit:           10,
		CacheTTLMinutes: 15,
	}
}

// Path returns the location of the config file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppDir, FileName), nil
}

// Load reads the config file if present. A missing file is not an error
// and yields the defaults.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from an explicit path, filling unset fields
// with defaults.
func LoadFrom(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), err
	}
	if cfg.Limit <= 0 {
		cfg.Limit = Default().Limit
	}
	if cfg.CacheTTLMinutes <= 0 {
		cfg.CacheTTLMinutes = Default().CacheTTLMinutes
	}
	return cfg, nil
}
