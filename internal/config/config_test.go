package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Keypad.HoldMs != nil {
		t.Fatalf("expected unset hold-ms")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[keypad]
hold-ms = 650
duplicate-ms = 150

[dictionary]
path = "/tmp/words.json"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Keypad.HoldMs == nil || *cfg.Keypad.HoldMs != 650 {
		t.Fatalf("unexpected hold-ms: %v", cfg.Keypad.HoldMs)
	}
	if cfg.Keypad.DuplicateMs == nil || *cfg.Keypad.DuplicateMs != 150 {
		t.Fatalf("unexpected duplicate-ms: %v", cfg.Keypad.DuplicateMs)
	}
	if cfg.Keypad.ReleaseMs != nil {
		t.Fatalf("expected release-ms unset")
	}
	if cfg.Dictionary.Path == nil || *cfg.Dictionary.Path != "/tmp/words.json" {
		t.Fatalf("unexpected dictionary path: %v", cfg.Dictionary.Path)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %v", cfg.Log.Level)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[keypad]\nhold = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "tenkey", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "tenkey", "tenkey.db") {
		t.Fatalf("unexpected db path %s", got)
	}
}

func TestLoadConfigLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[keypad.layout]
1 = "def"
2 = "abc"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(cfg.Keypad.Layout) != 2 || cfg.Keypad.Layout["1"] != "def" || cfg.Keypad.Layout["2"] != "abc" {
		t.Fatalf("unexpected layout: %v", cfg.Keypad.Layout)
	}
}
