package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestSimpleFormatter(t *testing.T) {
	f := &SimpleFormatter{TimestampFormat: "2006/01/02"}
	entry := &logrus.Entry{
		Time:    time.Date(2025, 4, 6, 17, 30, 0, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "map service not available",
		Data:    logrus.Fields{"topic": "/hdmap_server/global_map", "attempt": 3},
	}

	out, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	expected := "2025/04/06 [WAR] map service not available attempt=3 topic=/hdmap_server/global_map\n"
	if string(out) != expected {
		t.Errorf("Expected %q, got %q", expected, string(out))
	}
}

func TestWriterLoggerLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger("info", &buf)

	logger.Debugf("hidden %d", 1)
	logger.WithField("kind", "MouseCursor").Infof("published")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Debug entry should be filtered at info level, got: %s", out)
	}
	if !strings.Contains(out, "[INF] published kind=MouseCursor") {
		t.Errorf("Expected info entry with field, got: %s", out)
	}
}

func TestNewLogrusLoggerWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	logger, err := NewLogrusLogger("debug", dir)
	if err != nil {
		t.Fatalf("NewLogrusLogger failed: %v", err)
	}
	logger.Infof("viewer started")

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "viewer started") {
		t.Errorf("Expected log file to contain message, got: %s", string(data))
	}
}
