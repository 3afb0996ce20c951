package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
)

func TestSetupFileWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tenkey.log")
	closer, err := SetupFile(path, "debug")
	if err != nil {
		t.Fatalf("SetupFile failed: %v", err)
	}
	log.Debug().Str("gesture", "select").Msg("gesture fired")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"gesture":"select"`) {
		t.Fatalf("expected structured field in log: %s", data)
	}
}

func TestParseLevel(t *testing.T) {
	if _, err := parseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	lvl, err := parseLevel("")
	if err != nil || lvl.String() != "info" {
		t.Fatalf("expected info default, got %v (%v)", lvl, err)
	}
}
