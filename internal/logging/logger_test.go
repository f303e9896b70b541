package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trainyard/internal/logging"
	"trainyard/internal/services"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "nested", "trainyard.log")

	logger, err := logging.New(logging.Options{
		Level:            "info",
		Format:           "console",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("training job submitted", logging.String("job", "run-7"))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "training job submitted") {
		t.Fatalf("expected message in log output, got %q", line)
	}
	if !strings.Contains(line, "job=run-7") {
		t.Fatalf("expected attr in log output, got %q", line)
	}
}

func TestWithContextStampsRunAndStage(t *testing.T) {
	ctx := services.WithRunID(t.Context(), 9)
	ctx = services.WithStage(ctx, "training")

	fields := logging.ContextFields(ctx)
	keys := make(map[string]bool, len(fields))
	for _, f := range fields {
		keys[f.Key] = true
	}
	if !keys[logging.FieldRunID] || !keys[logging.FieldStage] {
		t.Fatalf("expected run and stage fields, got %v", keys)
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("should not panic", logging.Error(nil))
}
