package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"retitle/internal/config"
	"retitle/internal/logging"
	"retitle/internal/services"
)

func newFileLogger(t *testing.T) (string, func() string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "retitle.log")
	return logPath, func() string {
		content, err := os.ReadFile(logPath)
		if err != nil {
			t.Fatalf("read log file: %v", err)
		}
		return string(content)
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from config")

	content, err := os.ReadFile(filepath.Join(cfg.LogDir(), "retitle.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "hello from config") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerPrefixesComponentAndProcess(t *testing.T) {
	logPath, read := newFileLogger(t)
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Outputs: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithProcessID(context.Background(), 12)
	logging.WithContext(ctx, logging.NewComponentLogger(logger, "rename")).Info(
		"directory renamed",
		logging.String("from", "old title"),
		logging.String("to", "new"),
	)

	line := read()
	if !strings.Contains(line, "INFO rename #12: directory renamed") {
		t.Fatalf("unexpected prefix in %q", line)
	}
	if !strings.Contains(line, `from="old title"`) || !strings.Contains(line, "to=new") {
		t.Fatalf("expected quoted attributes in %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", line)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath, read := newFileLogger(t)
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Outputs: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("message with caller")

	if !strings.Contains(read(), "logger_test.go:") {
		t.Fatal("expected caller information in debug logs")
	}
}

func TestJSONLoggerIncludesContextFields(t *testing.T) {
	logPath, read := newFileLogger(t)
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Outputs: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithProcessID(context.Background(), 7)
	ctx = services.WithStep(ctx, "Update title")
	ctx = services.WithRequestID(ctx, "req-1")
	logging.WithContext(ctx, logger).Info("step started")

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(read())), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry["level"] != "info" || entry["msg"] != "step started" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry[logging.FieldProcessID] != float64(7) {
		t.Fatalf("expected process_id 7, got %v", entry[logging.FieldProcessID])
	}
	if entry[logging.FieldStep] != "Update title" || entry[logging.FieldCorrelationID] != "req-1" {
		t.Fatalf("missing context fields: %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", entry)
	}
}

func TestLevelFiltering(t *testing.T) {
	logPath, read := newFileLogger(t)
	logger, err := logging.New(logging.Options{Format: "console", Level: "warn", Outputs: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("suppressed")
	logging.ErrorWithContext(logger, "kept", "step_failure")

	content := read()
	if strings.Contains(content, "suppressed") {
		t.Fatalf("expected info to be filtered, got %q", content)
	}
	if !strings.Contains(content, "event_type=step_failure") || !strings.Contains(content, "error_hint=") {
		t.Fatalf("expected injected error fields, got %q", content)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLogger(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("expected nop logger to be disabled")
	}
	logging.WithContext(context.Background(), nil).Info("discarded")
}

func TestDuplicateOutputsWrittenOnce(t *testing.T) {
	logPath, read := newFileLogger(t)
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Outputs: []string{logPath, " " + logPath, ""}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("once")

	if got := strings.Count(read(), `"msg":"once"`); got != 1 {
		t.Fatalf("expected a single entry, got %d", got)
	}
}
