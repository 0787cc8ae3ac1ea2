package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetup_InvalidLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "loud"

	if err := Setup(cfg); err == nil {
		t.Error("Setup should fail for an unknown level")
	}
}

func TestSetup_FileOutputJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imagetext.log")

	cfg := DefaultConfig()
	cfg.Format = "json"
	cfg.Output = path
	cfg.Level = "debug"
	if err := Setup(cfg); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	l := WithComponent("test")
	l.Info().Str("stage", "segment").Msg("hello")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"component":"test"`) {
		t.Errorf("log line missing component field: %s", out)
	}
	if !strings.Contains(out, `"stage":"segment"`) {
		t.Errorf("log line missing stage field: %s", out)
	}
}
