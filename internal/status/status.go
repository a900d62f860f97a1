// Package status gathers a snapshot of a node's health.
//
// A snapshot has four sections: chain state, network, mempool, and the latest
// block. Each section is queried independently and records its own error and
// latency, so one failing query never hides the others.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"golang.org/x/sync/errgroup"
	"go.uber.org/zap"

	"github.com/dmagro/btc-rpc-toolkit/internal/report"
	"github.com/dmagro/btc-rpc-toolkit/internal/rpc"
)

// Node is the subset of *rpc.Client a Collector uses.
type Node interface {
	GetBlockchainInfo(ctx context.Context) (*rpc.BlockchainInfo, error)
	GetNetworkInfo(ctx context.Context) (*rpc.NetworkInfo, error)
	GetMempoolInfo(ctx context.Context) (*rpc.MempoolInfo, error)
	GetBestBlockHash(ctx context.Context) (string, error)
	GetBlock(ctx context.Context, hash string) (*btcjson.GetBlockVerboseResult, error)
}

// Section is the outcome of one status query.
type Section[T any] struct {
	Value   T
	Err     error
	Latency time.Duration
}

func (s Section[T]) OK() bool { return s.Err == nil }

// Status is one snapshot.
type Status struct {
	Timestamp   time.Time
	Endpoint    string
	Blockchain  Section[*rpc.BlockchainInfo]
	Network     Section[*rpc.NetworkInfo]
	Mempool     Section[*rpc.MempoolInfo]
	LatestBlock Section[*btcjson.GetBlockVerboseResult]
}

// Err returns an error only when every section failed.
func (s *Status) Err() error {
	errs := []error{s.Blockchain.Err, s.Network.Err, s.Mempool.Err, s.LatestBlock.Err}
	for _, err := range errs {
		if err == nil {
			return nil
		}
	}
	return fmt.Errorf("node unreachable: %w", errors.Join(errs...))
}

// Collector runs the status queries against one node.
type Collector struct {
	node     Node
	endpoint string
	parallel int
	logger   *zap.Logger
}

// NewCollector returns a Collector. parallel caps how many queries run at
// once; values below 1 mean one at a time.
func NewCollector(node Node, endpoint string, parallel int, logger *zap.Logger) *Collector {
	if parallel < 1 {
		parallel = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{node: node, endpoint: endpoint, parallel: parallel, logger: logger}
}

// Collect runs all sections and always returns a Status. It does not fail
// fast: every section is attempted regardless of earlier failures.
func (c *Collector) Collect(ctx context.Context) *Status {
	st := &Status{Timestamp: time.Now().UTC(), Endpoint: c.endpoint}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallel)

	g.Go(func() error {
		st.Blockchain = measure(gctx, c.node.GetBlockchainInfo)
		return nil
	})
	g.Go(func() error {
		st.Network = measure(gctx, c.node.GetNetworkInfo)
		return nil
	})
	g.Go(func() error {
		st.Mempool = measure(gctx, c.node.GetMempoolInfo)
		return nil
	})
	g.Go(func() error {
		st.LatestBlock = measure(gctx, c.latestBlock)
		return nil
	})
	_ = g.Wait()

	c.logger.Debug("Collected node status",
		zap.String("endpoint", c.endpoint),
		zap.Bool("blockchain", st.Blockchain.OK()),
		zap.Bool("network", st.Network.OK()),
		zap.Bool("mempool", st.Mempool.OK()),
		zap.Bool("latest_block", st.LatestBlock.OK()))
	return st
}

func (c *Collector) latestBlock(ctx context.Context) (*btcjson.GetBlockVerboseResult, error) {
	hash, err := c.node.GetBestBlockHash(ctx)
	if err != nil {
		return nil, err
	}
	return c.node.GetBlock(ctx, hash)
}

func measure[T any](ctx context.Context, fn func(context.Context) (T, error)) Section[T] {
	start := time.Now()
	v, err := fn(ctx)
	return Section[T]{Value: v, Err: err, Latency: time.Since(start)}
}

type sectionDoc struct {
	Name      string                `json:"name"`
	OK        bool                  `json:"ok"`
	LatencyMS report.MillisDuration `json:"latency_ms"`
	Error     *string               `json:"error,omitempty"`
}

type statusDoc struct {
	Timestamp   time.Time                      `json:"timestamp"`
	Endpoint    string                         `json:"endpoint"`
	Sections    []sectionDoc                   `json:"sections"`
	Blockchain  *rpc.BlockchainInfo            `json:"blockchain,omitempty"`
	Network     *rpc.NetworkInfo               `json:"network,omitempty"`
	Mempool     *rpc.MempoolInfo               `json:"mempool,omitempty"`
	LatestBlock *btcjson.GetBlockVerboseResult `json:"latest_block,omitempty"`
}

func newSectionDoc(name string, err error, latency time.Duration) sectionDoc {
	d := sectionDoc{Name: name, OK: err == nil, LatencyMS: report.MillisDuration(latency)}
	if err != nil {
		msg := rpc.Describe(err)
		d.Error = &msg
	}
	return d
}

// MarshalJSON renders the snapshot for --format json and saved reports.
func (s *Status) MarshalJSON() ([]byte, error) {
	doc := statusDoc{
		Timestamp: s.Timestamp,
		Endpoint:  s.Endpoint,
		Sections: []sectionDoc{
			newSectionDoc("blockchain", s.Blockchain.Err, s.Blockchain.Latency),
			newSectionDoc("network", s.Network.Err, s.Network.Latency),
			newSectionDoc("mempool", s.Mempool.Err, s.Mempool.Latency),
			newSectionDoc("latest_block", s.LatestBlock.Err, s.LatestBlock.Latency),
		},
		Blockchain:  s.Blockchain.Value,
		Network:     s.Network.Value,
		Mempool:     s.Mempool.Value,
		LatestBlock: s.LatestBlock.Value,
	}
	return json.Marshal(doc)
}
