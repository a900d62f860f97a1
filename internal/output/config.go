package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmagro/btc-rpc-toolkit/internal/config"
)

// MaskSecret replaces every character of s with '*'.
func MaskSecret(s string) string {
	return strings.Repeat("*", len(s))
}

// RenderConfig prints the effective connection settings and where each one
// came from. The password is masked.
func RenderConfig(w io.Writer, cfg config.EffectiveConfig) {
	title(w, "Effective Configuration")

	tbl := newTable(w, "Setting", "Value", "Source")
	tbl.AddRow("host", cfg.Host, cfg.Sources.Host)
	tbl.AddRow("port", cfg.Port, cfg.Sources.Port)
	tbl.AddRow("user", cfg.User, cfg.Sources.User)
	tbl.AddRow("password", MaskSecret(cfg.Password), cfg.Sources.Password)
	tbl.AddRow("timeout", cfg.Timeout, cfg.Sources.Timeout)
	tbl.Print()

	fmt.Fprintln(w)
	field(w, "RPC endpoint", cfg.URL())
	fmt.Fprintln(w)
}
