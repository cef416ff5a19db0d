package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"error", LogLevelError},
		{"", LogLevelInfo},
		{"verbose", LogLevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LoggerConfig{Level: LogLevelWarn, Output: &buf})

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown warn")
	log.Error("shown error")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("low levels leaked: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown warn") {
		t.Errorf("missing warn line: %q", out)
	}
	if !strings.Contains(out, "[ERROR] shown error") {
		t.Errorf("missing error line: %q", out)
	}
}

func TestLoggerFormatting(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LoggerConfig{Level: LogLevelDebug, Output: &buf, Prefix: "vellum"})

	log.Info("opened %s", "file.txt")
	line := buf.String()
	if !strings.Contains(line, "vellum: opened file.txt") {
		t.Errorf("line = %q", line)
	}
	if !strings.HasSuffix(line, "\n") {
		t.Error("line must end in a newline")
	}
}

func TestLoggerFieldsAreSorted(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LoggerConfig{Level: LogLevelDebug, Output: &buf})

	log.WithField("zeta", 1).WithField("alpha", 2).Info("msg")
	line := buf.String()
	if !strings.Contains(line, "{alpha=2, zeta=1}") {
		t.Errorf("fields not sorted: %q", line)
	}
}

func TestLoggerWithComponentDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(LoggerConfig{Level: LogLevelDebug, Output: &buf})
	_ = parent.WithComponent("session")

	parent.Info("plain")
	if strings.Contains(buf.String(), "component") {
		t.Errorf("parent gained fields: %q", buf.String())
	}
}

func TestNullLogger(t *testing.T) {
	// Must not panic with a nil output.
	NullLogger.Error("dropped")
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vellum.log")
	sink, err := FileSink(path)
	if err != nil {
		t.Fatalf("FileSink: %v", err)
	}
	log := NewLogger(LoggerConfig{Level: LogLevelInfo, Output: sink})
	log.Info("to file")
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file = %q", data)
	}
}
