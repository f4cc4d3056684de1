// Package config loads citewise settings from a TOML file in the
// user's XDG config directory.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/citewise/citewise/core/errors"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	appName        = "citewise"
	configFileName = "config.toml"
)

type Config struct {
	UI   UIConfig   `koanf:"ui"`
	LTWA LTWAConfig `koanf:"ltwa"`
}

// UIConfig controls the colorized change report.
type UIConfig struct {
	Color  *bool             `koanf:"color"`  // colorize output when stdout is a terminal (default: true)
	Colors map[string]string `koanf:"colors"` // per-role overrides, e.g. text_success = "blue"
}

// LTWAConfig holds abbreviation table settings.
type LTWAConfig struct {
	Table string `koanf:"table"` // path to a custom abbreviation table (plain, gzip, or xz)
}

// Load reads the configuration from the XDG config search path
// (typically ~/.config/citewise/config.toml). A missing file is not an
// error; defaults apply.
func Load() (*Config, error) {
	path, err := xdg.SearchConfigFile(filepath.Join(appName, configFileName))
	if err != nil {
		return &Config{}, nil
	}
	return LoadFile(path)
}

// LoadFile reads configuration from an explicit TOML file.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.NewIO("open", path, err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, errors.NewParse("TOML", path, err.Error())
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.NewParse("TOML", path, err.Error())
	}

	if cfg.LTWA.Table != "" {
		cfg.LTWA.Table = expandPath(cfg.LTWA.Table)
	}

	return cfg, nil
}

// ColorEnabled reports whether colorized output is configured. Unset
// means enabled.
func (c *Config) ColorEnabled() bool {
	return c.UI.Color == nil || *c.UI.Color
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
