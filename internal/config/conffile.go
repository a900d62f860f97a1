package config

import (
	"bufio"
	"bytes"
	"strings"

	"go.uber.org/zap"
)

// ParseConfFile parses bitcoin.conf-style content: one key=value per line.
//
// Blank lines and lines starting with # are ignored. Keys and values are
// trimmed. Lines without "=" or with an empty key are skipped rather than
// treated as errors. When a key repeats, the first occurrence wins.
func ParseConfFile(data []byte) map[string]string {
	values := make(map[string]string)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			zap.L().Debug("Skipping malformed conf line", zap.Int("line", lineNo))
			continue
		}
		if _, seen := values[key]; seen {
			continue
		}
		values[key] = strings.TrimSpace(value)
	}

	return values
}
