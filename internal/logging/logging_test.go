package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBotHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelDebug)

	logger.Info("Something happened", "userId", 42, "guild", "test")

	out := buf.String()
	if !strings.Contains(out, "[info] Something happened") {
		t.Errorf("Unexpected log line: %q", out)
	}
	if !strings.Contains(out, "| userId=42 guild=test") {
		t.Errorf("Attributes missing from log line: %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("Log line must end with a newline")
	}
}

func TestBotHandlerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("visible")
	logger.Error("also visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Records below the level leaked through: %q", out)
	}
	if !strings.Contains(out, "[warn] visible") || !strings.Contains(out, "[error] also visible") {
		t.Errorf("Expected warn and error records: %q", out)
	}
}

func TestBotHandlerWithAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelDebug).
		With("component", "storage").
		WithGroup("db")

	logger.Info("Query done", "rows", 3)

	out := buf.String()
	if !strings.Contains(out, "component=storage") {
		t.Errorf("Pre-bound attribute missing: %q", out)
	}
	if !strings.Contains(out, "db.rows=3") {
		t.Errorf("Group prefix missing: %q", out)
	}
}

func TestLevelFromString(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		if got := LevelFromString(in); got != want {
			t.Errorf("LevelFromString(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewFileLoggerCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bot.log")

	logger, closer, err := NewFileLogger(path, slog.LevelInfo)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer closer.Close()

	logger.Info("File logging works")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "File logging works") {
		t.Errorf("Log file missing record: %q", string(data))
	}
}

func TestSetupWithFileTees(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")

	logger, closer, err := Setup("debug", path)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if closer == nil {
		t.Fatal("Setup with a file must return a closer")
	}
	defer closer.Close()

	logger.Info("Tee check")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "Tee check") {
		t.Errorf("Log file missing teed record: %q", string(data))
	}
}

func TestSetupWithoutFile(t *testing.T) {
	logger, closer, err := Setup("info", "")
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if closer != nil {
		t.Error("Setup without a file must not return a closer")
	}
	if logger == nil {
		t.Fatal("Setup returned nil logger")
	}
}
