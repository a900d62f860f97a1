// Package rpc (format.go) provides helpers for parsing user input and
// formatting node values for display: heights, counts, byte sizes, BTC
// amounts, and fee rates.
package rpc

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
)

// ParseHeight converts a block height argument to int64.
//
// Parameters:
//   - arg: Decimal height as typed by the user (e.g., "840000" or "840,000")
//
// Returns:
//   - int64: Parsed height
//   - error: Non-numeric input or a negative height
//
// Examples:
//   - "840000" -> 840000
//   - "840,000" -> 840000
//   - "-1" -> error
func ParseHeight(arg string) (int64, error) {
	arg = strings.ReplaceAll(strings.TrimSpace(arg), ",", "")
	h, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid block height %q", arg)
	}
	if h < 0 {
		return 0, fmt.Errorf("block height must not be negative, got %d", h)
	}
	return h, nil
}

// FormatTimestamp converts a Unix timestamp to a human-readable string with relative time.
// The output includes both absolute UTC time and a relative "ago" suffix for quick reference.
//
// Parameters:
//   - ts: Unix timestamp (seconds since epoch)
//
// Returns:
//   - string: Formatted time string (e.g., "2026-01-20 17:02:23 UTC (14m ago)")
//
// The relative time uses appropriate units:
//   - < 1 minute: "Xs ago" (seconds)
//   - < 1 hour: "Xm ago" (minutes)
//   - < 24 hours: "Xh ago" (hours)
//   - >= 24 hours: "Xd ago" (days)
func FormatTimestamp(ts int64) string {
	t := time.Unix(ts, 0)
	ago := time.Since(t)

	var agoStr string
	switch {
	case ago < time.Minute:
		agoStr = fmt.Sprintf("%ds ago", int(ago.Seconds()))
	case ago < time.Hour:
		agoStr = fmt.Sprintf("%dm ago", int(ago.Minutes()))
	case ago < 24*time.Hour:
		agoStr = fmt.Sprintf("%dh ago", int(ago.Hours()))
	default:
		agoStr = fmt.Sprintf("%dd ago", int(ago.Hours()/24))
	}

	return fmt.Sprintf("%s (%s)", t.UTC().Format("2006-01-02 15:04:05 UTC"), agoStr)
}

// FormatNumber adds thousand separators (commas) to a number for readability.
// This makes large numbers like block heights easier to read (e.g., "840,000").
//
// Examples:
//   - 840000 -> "840,000"
//   - 123 -> "123" (no separator needed)
//   - -1000 -> "-1,000"
func FormatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}

	if len(s) <= 3 {
		return sign + s
	}

	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return sign + string(result)
}

// FormatBytes renders a byte count using binary units (e.g., "1.5 GiB").
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// FormatBTC renders a BTC amount with eight decimal places and the unit.
//
// Examples:
//   - 0.5 -> "0.50000000 BTC"
//   - 21 -> "21.00000000 BTC"
func FormatBTC(amount decimal.Decimal) string {
	return amount.StringFixed(8) + " BTC"
}

// ToSatoshis converts a BTC amount to satoshis, rounding to the nearest unit.
// Values outside the btcutil range yield an error.
func ToSatoshis(amount decimal.Decimal) (btcutil.Amount, error) {
	f, _ := amount.Float64()
	return btcutil.NewAmount(f)
}

// FormatFeeRate converts a fee rate in BTC/kvB (as returned by
// estimatesmartfee) to sat/vB.
//
// Parameters:
//   - btcPerKvB: Fee rate from the node, nil when no estimate is available
//
// Returns:
//   - string: e.g. "12.3 sat/vB", or "—" if nil
func FormatFeeRate(btcPerKvB *float64) string {
	if btcPerKvB == nil {
		return "—"
	}
	satPerVB := decimal.NewFromFloat(*btcPerKvB).Mul(decimal.NewFromInt(btcutil.SatoshiPerBitcoin)).Div(decimal.NewFromInt(1000))
	return satPerVB.StringFixed(1) + " sat/vB"
}
