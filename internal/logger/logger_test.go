package logger

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStandardLogger_Prefixes(t *testing.T) {
	var buf bytes.Buffer
	l := NewStandardLogger(log.New(&buf, "", 0))

	l.Info("synced %d", 3)
	l.Warning("slow %s", "source")
	l.Error("failed")

	out := buf.String()
	for _, want := range []string{"[INFO] synced 3", "[WARNING] slow source", "[ERROR] failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
}

func TestFileLogger_WritesAndCloses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "rozadaar.log")

	l, err := NewFileLogger(path, "tui")
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	l.Info("hello")
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(content), "tui: ") || !strings.Contains(string(content), "[INFO] hello") {
		t.Errorf("unexpected log content: %q", content)
	}
}

func TestMockLogger_Records(t *testing.T) {
	m := NewMockLogger()
	m.Warning("offset %d", 5)

	if got := m.Warnings(); len(got) != 1 || got[0] != "offset 5" {
		t.Errorf("unexpected warnings: %v", got)
	}
}
