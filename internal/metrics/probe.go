// Package metrics measures how a node responds to repeated lightweight calls.
//
// A Probe issues the same call a fixed number of times, records every
// outcome, and summarizes them into a success rate, tail latencies and a
// coarse health status.
package metrics

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/dmagro/btc-rpc-toolkit/internal/report"
	"github.com/dmagro/btc-rpc-toolkit/internal/rpc"
)

// NodeStatus represents the health state of a node.
type NodeStatus string

const (
	StatusUp       NodeStatus = "UP"
	StatusSlow     NodeStatus = "SLOW"
	StatusDegraded NodeStatus = "DEGRADED"
	StatusDown     NodeStatus = "DOWN"
)

// probeMethod is the RPC a Probe issues.
const probeMethod = "getblockcount"

// Health thresholds.
const (
	downThreshold     = 50.0 // <50% success = DOWN
	degradedThreshold = 90.0 // <90% success = DEGRADED
	slowLatency       = 500 * time.Millisecond
)

// Sample is the outcome of one probe call.
type Sample struct {
	Latency time.Duration
	Height  int64
	Err     error
}

// Summary aggregates a probe run.
type Summary struct {
	Method      string                `json:"method"`
	Status      NodeStatus            `json:"status"`
	TotalCalls  int                   `json:"total_calls"`
	Failures    int                   `json:"failures"`
	SuccessRate float64               `json:"success_rate"`
	LatencyAvg  report.MillisDuration `json:"latency_avg_ms"`
	LatencyP50  report.MillisDuration `json:"latency_p50_ms"`
	LatencyP95  report.MillisDuration `json:"latency_p95_ms"`
	LatencyP99  report.MillisDuration `json:"latency_p99_ms"`
	LatencyMax  report.MillisDuration `json:"latency_max_ms"`

	// Failures by kind, keyed by rpc.Kind.String().
	Errors map[string]int `json:"errors,omitempty"`

	// Highest block count seen across successful samples.
	LatestHeight int64 `json:"latest_height"`
	// LastError is the most recent failure, rendered for display.
	LastError string `json:"last_error,omitempty"`
}

// BlockCounter is the call a Probe measures.
type BlockCounter interface {
	GetBlockCount(ctx context.Context) (int64, error)
}

// Probe samples a node's getblockcount latency.
type Probe struct {
	node     BlockCounter
	samples  int
	interval time.Duration
	logger   *zap.Logger
}

// NewProbe returns a Probe taking samples calls spaced interval apart.
// samples < 1 is treated as 1.
func NewProbe(node BlockCounter, samples int, interval time.Duration, logger *zap.Logger) *Probe {
	if samples < 1 {
		samples = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Probe{node: node, samples: samples, interval: interval, logger: logger}
}

// Run takes every sample in sequence and summarizes them. Failed calls are
// recorded, not returned. Cancelling ctx stops sampling early; the summary
// covers whatever was collected.
func (p *Probe) Run(ctx context.Context) Summary {
	samples := make([]Sample, 0, p.samples)

	for i := 0; i < p.samples; i++ {
		if i > 0 && p.interval > 0 {
			select {
			case <-ctx.Done():
				return Summarize(samples)
			case <-time.After(p.interval):
			}
		}
		if ctx.Err() != nil {
			break
		}

		start := time.Now()
		height, err := p.node.GetBlockCount(ctx)
		s := Sample{Latency: time.Since(start), Height: height, Err: err}
		samples = append(samples, s)

		p.logger.Debug("Probe sample",
			zap.Int("sample", i+1),
			zap.Duration("latency", s.Latency),
			zap.Error(err))
	}

	return Summarize(samples)
}

// Summarize computes the metrics for a set of samples. Latencies only count
// successful calls.
func Summarize(samples []Sample) Summary {
	m := Summary{Method: probeMethod, TotalCalls: len(samples)}
	if len(samples) == 0 {
		m.Status = StatusDown
		return m
	}

	var latencies []time.Duration
	for _, s := range samples {
		if s.Err == nil {
			latencies = append(latencies, s.Latency)
			if s.Height > m.LatestHeight {
				m.LatestHeight = s.Height
			}
			continue
		}

		m.Failures++
		if m.Errors == nil {
			m.Errors = make(map[string]int)
		}
		m.Errors[errorKind(s.Err)]++
		m.LastError = rpc.Describe(s.Err)
	}

	m.SuccessRate = float64(len(latencies)) / float64(m.TotalCalls) * 100

	lat := summarizeLatency(latencies)
	m.LatencyAvg = report.MillisDuration(lat.avg)
	m.LatencyP50 = report.MillisDuration(lat.p50)
	m.LatencyP95 = report.MillisDuration(lat.p95)
	m.LatencyP99 = report.MillisDuration(lat.p99)
	m.LatencyMax = report.MillisDuration(lat.max)

	m.Status = determineStatus(m.SuccessRate, lat.p95)
	return m
}

type latencyStats struct {
	avg, p50, p95, p99, max time.Duration
}

// summarizeLatency leaves its input in caller order. With few samples the
// upper ranks collapse onto the slowest call.
func summarizeLatency(latencies []time.Duration) latencyStats {
	if len(latencies) == 0 {
		return latencyStats{}
	}

	sorted := slices.Clone(latencies)
	slices.Sort(sorted)

	var total time.Duration
	for _, d := range sorted {
		total += d
	}

	return latencyStats{
		avg: total / time.Duration(len(sorted)),
		p50: nearestRank(sorted, 50),
		p95: nearestRank(sorted, 95),
		p99: nearestRank(sorted, 99),
		max: sorted[len(sorted)-1],
	}
}

// nearestRank returns the smallest sample with at least pct percent of
// sorted at or below it.
func nearestRank(sorted []time.Duration, pct int) time.Duration {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	rank := (n*pct + 99) / 100
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return sorted[rank-1]
}

func errorKind(err error) string {
	var f *rpc.Failure
	if errors.As(err, &f) {
		return f.Kind.String()
	}
	return "other"
}

// determineStatus categorizes node health based on metrics
func determineStatus(successRate float64, p95Latency time.Duration) NodeStatus {
	if successRate < downThreshold {
		return StatusDown
	}
	if successRate < degradedThreshold {
		return StatusDegraded
	}
	if p95Latency > slowLatency {
		return StatusSlow
	}
	return StatusUp
}
