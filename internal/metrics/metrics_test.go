package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmagro/btc-rpc-toolkit/internal/rpc"
)

func TestNearestRank(t *testing.T) {
	sorted := []time.Duration{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	tests := []struct {
		pct  int
		want time.Duration
	}{
		{50, 50},
		{95, 100},
		{99, 100},
		{10, 10},
		{0, 10},
	}
	for _, tt := range tests {
		if got := nearestRank(sorted, tt.pct); got != tt.want {
			t.Errorf("nearestRank(%d) = %v, want %v", tt.pct, got, tt.want)
		}
	}
	if got := nearestRank(nil, 50); got != 0 {
		t.Errorf("nearestRank(nil) = %v, want 0", got)
	}
}

func TestSummarizeLatencyKeepsInputOrder(t *testing.T) {
	in := []time.Duration{30, 10, 20}
	lat := summarizeLatency(in)
	if lat.p50 != 20 || lat.max != 30 || lat.avg != 20 {
		t.Errorf("summarizeLatency() = %+v", lat)
	}
	if in[0] != 30 || in[1] != 10 || in[2] != 20 {
		t.Errorf("input reordered: %v", in)
	}
}

func TestSummarize(t *testing.T) {
	timeout := &rpc.Failure{Kind: rpc.KindTimeout, Method: "getblockcount", Message: "no response within 1s"}

	tests := []struct {
		name       string
		samples    []Sample
		wantStatus NodeStatus
		wantRate   float64
		wantHeight int64
	}{
		{
			name:       "no_samples",
			wantStatus: StatusDown,
		},
		{
			name: "all_fast",
			samples: []Sample{
				{Latency: 10 * time.Millisecond, Height: 100},
				{Latency: 20 * time.Millisecond, Height: 101},
			},
			wantStatus: StatusUp,
			wantRate:   100,
			wantHeight: 101,
		},
		{
			name: "slow_tail",
			samples: []Sample{
				{Latency: 10 * time.Millisecond, Height: 100},
				{Latency: 900 * time.Millisecond, Height: 100},
			},
			wantStatus: StatusSlow,
			wantRate:   100,
			wantHeight: 100,
		},
		{
			name: "some_failures",
			samples: []Sample{
				{Latency: 10 * time.Millisecond, Height: 100},
				{Latency: 10 * time.Millisecond, Height: 100},
				{Latency: 10 * time.Millisecond, Height: 100},
				{Err: timeout},
			},
			wantStatus: StatusDegraded,
			wantRate:   75,
			wantHeight: 100,
		},
		{
			name:       "mostly_failing",
			samples:    []Sample{{Err: timeout}, {Err: timeout}, {Err: errors.New("boom")}, {Latency: time.Millisecond, Height: 7}},
			wantStatus: StatusDown,
			wantRate:   25,
			wantHeight: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Summarize(tt.samples)
			if m.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", m.Status, tt.wantStatus)
			}
			if m.SuccessRate != tt.wantRate {
				t.Errorf("SuccessRate = %v, want %v", m.SuccessRate, tt.wantRate)
			}
			if m.LatestHeight != tt.wantHeight {
				t.Errorf("LatestHeight = %d, want %d", m.LatestHeight, tt.wantHeight)
			}
			if m.TotalCalls != len(tt.samples) {
				t.Errorf("TotalCalls = %d, want %d", m.TotalCalls, len(tt.samples))
			}
		})
	}
}

func TestSummarizeGroupsErrorsByKind(t *testing.T) {
	m := Summarize([]Sample{
		{Err: &rpc.Failure{Kind: rpc.KindTimeout, Message: "slow"}},
		{Err: &rpc.Failure{Kind: rpc.KindTimeout, Message: "slow"}},
		{Err: &rpc.Failure{Kind: rpc.KindAuthentication, Message: "HTTP 401"}},
		{Err: errors.New("boom")},
	})

	want := map[string]int{"timeout": 2, "authentication error": 1, "other": 1}
	for k, v := range want {
		if m.Errors[k] != v {
			t.Errorf("Errors[%q] = %d, want %d", k, m.Errors[k], v)
		}
	}
	if m.LastError != "boom" {
		t.Errorf("LastError = %q, want boom", m.LastError)
	}
}

type countingNode struct {
	calls int
	err   error
}

func (n *countingNode) GetBlockCount(context.Context) (int64, error) {
	n.calls++
	if n.err != nil {
		return 0, n.err
	}
	return 850000, nil
}

func TestProbeRun(t *testing.T) {
	node := &countingNode{}
	m := NewProbe(node, 5, 0, nil).Run(context.Background())

	if node.calls != 5 {
		t.Errorf("calls = %d, want 5", node.calls)
	}
	if m.TotalCalls != 5 || m.Failures != 0 || m.LatestHeight != 850000 {
		t.Errorf("summary = %+v", m)
	}
}

func TestProbeRunMinimumOneSample(t *testing.T) {
	node := &countingNode{err: &rpc.Failure{Kind: rpc.KindConnection, Message: "refused"}}
	m := NewProbe(node, 0, 0, nil).Run(context.Background())

	if node.calls != 1 {
		t.Errorf("calls = %d, want 1", node.calls)
	}
	if m.Status != StatusDown || m.Errors["connection error"] != 1 {
		t.Errorf("summary = %+v", m)
	}
}

func TestProbeRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	node := &countingNode{}
	m := NewProbe(node, 10, time.Hour, nil).Run(ctx)
	if node.calls != 0 || m.TotalCalls != 0 {
		t.Errorf("calls = %d, TotalCalls = %d, want 0", node.calls, m.TotalCalls)
	}
}
