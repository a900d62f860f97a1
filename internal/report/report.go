// Package report writes structured documents to disk.
//
// Documents are encoded by file extension: ".yaml" and ".yml" produce YAML,
// anything else produces two-space indented JSON. Command reports saved with
// WriteTimestamped go to a directory with timestamped filenames so results
// can be tracked over time.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultDir is where WriteTimestamped puts reports when no directory is given.
const DefaultDir = "reports"

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding for path from its extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// MillisDuration marshals a time.Duration as an integer millisecond count.
type MillisDuration time.Duration

func (d MillisDuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).Milliseconds())
}

func (d *MillisDuration) UnmarshalJSON(data []byte) error {
	var ms int64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("latency must be integer milliseconds: %w", err)
	}
	*d = MillisDuration(time.Duration(ms) * time.Millisecond)
	return nil
}

func (d MillisDuration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).Milliseconds(), nil
}

func (d *MillisDuration) UnmarshalYAML(value *yaml.Node) error {
	var ms int64
	if err := value.Decode(&ms); err != nil {
		return fmt.Errorf("latency must be integer milliseconds: %w", err)
	}
	*d = MillisDuration(time.Duration(ms) * time.Millisecond)
	return nil
}

// Encode serializes v in the given format. JSON output is indented with two
// spaces and ends with a newline.
func Encode(v interface{}, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
	default:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("failed to encode JSON: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// Write encodes v according to the extension of path and writes it there,
// creating parent directories as needed. The document is fully encoded
// before the file is touched, so an encoding error leaves no partial file.
func Write(path string, v interface{}) error {
	data, err := Encode(v, FormatFor(path))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// WriteTimestamped writes v as JSON to dir (DefaultDir when empty) under a
// timestamped filename and returns the path.
//
// Filename format:
//
//	{prefix}-{YYYYMMDD-HHMMSS}.json
//	Example: "status-20260120-124236.json"
func WriteTimestamped(dir, prefix string, v interface{}) (string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	timestamp := time.Now().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.json", prefix, timestamp))

	if err := Write(path, v); err != nil {
		return "", err
	}
	return path, nil
}

// Read decodes the document at path into v, choosing the decoder by extension.
func Read(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read report file: %w", err)
	}
	if FormatFor(path) == FormatYAML {
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
	return nil
}
