package obslog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{" WARN ", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_TO_FILE", "false")
	t.Setenv("LOG_FILE", "")

	opts := FromEnv(Options{Level: "info", Format: "legacy", File: "game.log", ToFile: true})
	if opts.Level != "debug" || opts.Format != "json" {
		t.Errorf("level/format = %q/%q, want debug/json", opts.Level, opts.Format)
	}
	if opts.ToFile {
		t.Error("LOG_TO_FILE=false should disable file output")
	}
	if opts.File != "game.log" {
		t.Errorf("empty LOG_FILE should keep the configured file, got %q", opts.File)
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "termchess.log")
	logger, c, err := New(Options{Level: "debug", Format: "json", File: path, ToFile: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("move", zap.String("notation", "♘b1-c3"))
	_ = logger.Sync()
	c.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"notation":"♘b1-c3"`) {
		t.Errorf("log file missing field, got %s", data)
	}
}

func TestNewWithoutOutputsIsNop(t *testing.T) {
	logger, c, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c != nil {
		t.Error("no file should be opened")
	}
	if logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("expected a no-op logger")
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"legacy", "JSON", "console", ""} {
		if !ValidFormat(f) {
			t.Errorf("ValidFormat(%q) = false", f)
		}
	}
	if ValidFormat("xml") {
		t.Error("ValidFormat(xml) = true")
	}
}
