package util

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}

	for input, expected := range cases {
		input, expected := input, expected
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			if got := parseLogLevel(input); got != expected {
				t.Fatalf("parseLogLevel(%q) = %v, expected %v", input, got, expected)
			}
		})
	}
}

func TestNewLoggerRejectsInvalidRotation(t *testing.T) {
	if _, err := NewLogger(LogConfig{Dir: t.TempDir()}, "bot.log"); err == nil {
		t.Fatalf("expected error for zero rotation settings")
	}
}

func TestNewLoggerCreatesLogDir(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := filepath.Join(t.TempDir(), "logs")
	logger, err := NewLogger(LogConfig{
		Level:      "debug",
		Dir:        dir,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	}, "bot.log")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	if logger == nil {
		t.Fatalf("expected logger")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected log dir to exist: %v", err)
	}
}
