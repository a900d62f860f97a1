// Package output renders command results for the terminal and as JSON.
//
// Every renderer takes the io.Writer to print to; commands pass os.Stdout
// for results and os.Stderr for progress so piped output stays clean.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rodaine/table"
)

// Colors for status indicators
var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()

	headerFmt = color.New(color.FgCyan, color.Underline).SprintfFunc()
)

const (
	heavyRule = "═══════════════════════════════════════════════════════"
	lightRule = "───────────────────────────────────────────────────────"
)

// Format selects how a command prints its result.
type Format string

const (
	FormatTerminal Format = "terminal"
	FormatJSON     Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatTerminal, "":
		return FormatTerminal, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (want terminal or json)", s)
	}
}

// WriteJSON encodes v to w with two-space indentation.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, columns ...interface{}) table.Table {
	return table.New(columns...).WithWriter(w).WithHeaderFormatter(headerFmt)
}

func title(w io.Writer, s string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, bold(s))
	fmt.Fprintln(w, heavyRule)
}

// field prints one aligned "Label: value" line.
func field(w io.Writer, label string, value interface{}) {
	fmt.Fprintf(w, "  %s %v\n", cyan(fmt.Sprintf("%-16s", label+":")), value)
}

func check(ok bool) string {
	if ok {
		return green("✓")
	}
	return red("✗")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// shortHash abbreviates long hex strings for tables.
func shortHash(h string) string {
	if len(h) <= 20 {
		return h
	}
	return h[:10] + "…" + h[len(h)-8:]
}
