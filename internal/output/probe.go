package output

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dmagro/btc-rpc-toolkit/internal/metrics"
	"github.com/dmagro/btc-rpc-toolkit/internal/report"
	"github.com/dmagro/btc-rpc-toolkit/internal/rpc"
)

// RenderProbe prints a latency probe summary.
func RenderProbe(w io.Writer, endpoint string, m metrics.Summary) {
	title(w, "Node Latency Probe")
	field(w, "Endpoint", endpoint)
	field(w, "Method", m.Method)
	field(w, "Status", statusColor(m.Status))
	field(w, "Success", fmt.Sprintf("%.1f%% (%d/%d)", m.SuccessRate, m.TotalCalls-m.Failures, m.TotalCalls))
	if m.LatestHeight > 0 {
		field(w, "Block height", rpc.FormatNumber(m.LatestHeight))
	}

	if m.TotalCalls > m.Failures {
		fmt.Fprintln(w)
		tbl := newTable(w, "Avg", "P50", "P95", "P99", "Max")
		tbl.AddRow(ms(m.LatencyAvg), ms(m.LatencyP50), ms(m.LatencyP95), ms(m.LatencyP99), ms(m.LatencyMax))
		tbl.Print()
	}

	if len(m.Errors) > 0 {
		fmt.Fprintln(w)
		kinds := make([]string, 0, len(m.Errors))
		for k := range m.Errors {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			field(w, k, red(m.Errors[k]))
		}
		field(w, "Last error", red(m.LastError))
	}
	fmt.Fprintln(w)
}

func statusColor(s metrics.NodeStatus) string {
	switch s {
	case metrics.StatusUp:
		return green(string(s))
	case metrics.StatusSlow, metrics.StatusDegraded:
		return yellow(string(s))
	default:
		return red(string(s))
	}
}

func ms(d report.MillisDuration) string {
	return fmt.Sprintf("%dms", time.Duration(d).Milliseconds())
}
