// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Keypad     KeypadConfig     `toml:"keypad"`
	Dictionary DictionaryConfig `toml:"dictionary"`
	Practice   PracticeConfig   `toml:"practice"`
	Log        LogConfig        `toml:"log"`
}

// KeypadConfig maps timing, candidate and layout settings. Layout maps digit
// keys to their letters and replaces the default layout when set.
type KeypadConfig struct {
	DuplicateMs   *int              `toml:"duplicate-ms"`
	HoldMs        *int              `toml:"hold-ms"`
	ReleaseMs     *int              `toml:"release-ms"`
	MaxCandidates *int              `toml:"max-candidates"`
	Layout        map[string]string `toml:"layout"`
}

// DictionaryConfig maps the dictionary source.
type DictionaryConfig struct {
	Path *string `toml:"path"`
}

// PracticeConfig maps practice prompt settings.
type PracticeConfig struct {
	Enabled *bool `toml:"enabled"`
	Words   *int  `toml:"words"`
	Top     *int  `toml:"top"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
