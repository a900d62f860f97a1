package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type sample struct {
	Name    string         `json:"name" yaml:"name"`
	Count   int            `json:"count" yaml:"count"`
	Latency MillisDuration `json:"latency_ms" yaml:"latency_ms"`
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"out.json", FormatJSON},
		{"out.yaml", FormatYAML},
		{"out.YML", FormatYAML},
		{"out", FormatJSON},
		{"dir.yaml/out.txt", FormatJSON},
	}
	for _, tt := range tests {
		if got := FormatFor(tt.path); got != tt.want {
			t.Errorf("FormatFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestWriteCreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "out.json")

	in := sample{Name: "a", Count: 2, Latency: MillisDuration(1500 * time.Millisecond)}
	if err := Write(path, in); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  \"name\": \"a\"") {
		t.Errorf("expected two-space indented JSON, got:\n%s", data)
	}
	if !strings.Contains(string(data), `"latency_ms": 1500`) {
		t.Errorf("expected integer milliseconds, got:\n%s", data)
	}

	var out sample
	if err := Read(path, &out); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestWriteYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := Write(path, sample{Name: "a", Count: 2}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "name: a") || !strings.Contains(string(data), "count: 2") {
		t.Errorf("unexpected YAML:\n%s", data)
	}
}

func TestWriteUnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := Write(filepath.Join(blocker, "out.json"), sample{}); err == nil {
		t.Error("Write() under a regular file succeeded, want error")
	}
}

func TestWriteTimestamped(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteTimestamped(dir, "status", map[string]int{"n": 1})
	if err != nil {
		t.Fatalf("WriteTimestamped() error = %v", err)
	}
	name := filepath.Base(path)
	if !strings.HasPrefix(name, "status-") || !strings.HasSuffix(name, ".json") {
		t.Errorf("filename = %q, want status-YYYYMMDD-HHMMSS.json", name)
	}
	if len(name) != len("status-20060102-150405.json") {
		t.Errorf("filename = %q has unexpected length", name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]int
	if err := json.Unmarshal(data, &got); err != nil || got["n"] != 1 {
		t.Errorf("content = %s, err %v", data, err)
	}
}
