package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

// Note: tests in this package share the global logging state and must not
// run in parallel with each other.

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
		ok    bool
	}{
		{"debug", log.DebugLevel, true},
		{"info", log.InfoLevel, true},
		{"WARN", log.WarnLevel, true},
		{"warning", log.WarnLevel, true},
		{"error", log.ErrorLevel, true},
		{"bogus", log.InfoLevel, false},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if tt.ok && err != nil {
			t.Errorf("ParseLevel(%q) error = %v", tt.input, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("ParseLevel(%q) error = %v, want ErrInvalidLevel", tt.input, err)
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestInit_RejectsInvalidLevels(t *testing.T) {
	if err := Init(Config{Level: "nope"}); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("Init() error = %v, want ErrInvalidLevel", err)
	}

	err := Init(Config{Level: "info", Components: map[string]string{"builder": "nope"}})
	if !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("Init() error = %v, want ErrInvalidLevel", err)
	}
}

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attest.log")

	if err := Init(Config{Level: "debug", Path: path}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = Close() })

	Get("testcomp").Info("hello from test", "key", "value")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file missing message, got %q", string(data))
	}
}

func TestGet_ReturnsSameLoggerPerComponent(t *testing.T) {
	a := Get("same")
	b := Get("same")
	if a != b {
		t.Error("Get() returned distinct loggers for one component")
	}
}

func TestComponentLevelOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attest.log")

	err := Init(Config{
		Level:      "error",
		Path:       path,
		Components: map[string]string{"chatty": "debug"},
	})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = Close() })

	Get("chatty").Debug("component debug line")
	Get("other").Debug("suppressed line")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "component debug line") {
		t.Error("override component's debug output missing")
	}
	if strings.Contains(string(data), "suppressed line") {
		t.Error("default-level component logged below its level")
	}
}
