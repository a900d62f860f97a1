package status

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcjson"

	"github.com/dmagro/btc-rpc-toolkit/internal/rpc"
)

type fakeNode struct {
	failChain, failNetwork, failMempool, failBest bool

	inFlight, maxInFlight atomic.Int32
	blockHashAsked        string
}

var errDown = &rpc.Failure{Kind: rpc.KindConnection, Message: "cannot reach node"}

func (f *fakeNode) enter() func() {
	n := f.inFlight.Add(1)
	for {
		m := f.maxInFlight.Load()
		if n <= m || f.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	return func() { f.inFlight.Add(-1) }
}

func (f *fakeNode) GetBlockchainInfo(context.Context) (*rpc.BlockchainInfo, error) {
	defer f.enter()()
	if f.failChain {
		return nil, errDown
	}
	return &rpc.BlockchainInfo{Chain: "main", Blocks: 850000}, nil
}

func (f *fakeNode) GetNetworkInfo(context.Context) (*rpc.NetworkInfo, error) {
	defer f.enter()()
	if f.failNetwork {
		return nil, errDown
	}
	return &rpc.NetworkInfo{Connections: 8}, nil
}

func (f *fakeNode) GetMempoolInfo(context.Context) (*rpc.MempoolInfo, error) {
	defer f.enter()()
	if f.failMempool {
		return nil, errDown
	}
	return &rpc.MempoolInfo{Size: 42}, nil
}

func (f *fakeNode) GetBestBlockHash(context.Context) (string, error) {
	defer f.enter()()
	if f.failBest {
		return "", errDown
	}
	return "00beef", nil
}

func (f *fakeNode) GetBlock(_ context.Context, hash string) (*btcjson.GetBlockVerboseResult, error) {
	defer f.enter()()
	f.blockHashAsked = hash
	return &btcjson.GetBlockVerboseResult{Hash: hash, Height: 850000, Tx: []string{"a", "b"}}, nil
}

func TestCollectAllSections(t *testing.T) {
	node := &fakeNode{}
	st := NewCollector(node, "http://localhost:8332/", 0, nil).Collect(context.Background())

	if err := st.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	if st.Blockchain.Value.Chain != "main" || st.Network.Value.Connections != 8 || st.Mempool.Value.Size != 42 {
		t.Errorf("unexpected sections: %+v %+v %+v", st.Blockchain, st.Network, st.Mempool)
	}
	if node.blockHashAsked != "00beef" {
		t.Errorf("GetBlock asked for %q, want best block hash", node.blockHashAsked)
	}
	if st.LatestBlock.Value.Height != 850000 {
		t.Errorf("LatestBlock = %+v", st.LatestBlock.Value)
	}
	if node.maxInFlight.Load() != 1 {
		t.Errorf("default collection ran %d queries at once, want 1", node.maxInFlight.Load())
	}
}

func TestCollectPartialFailure(t *testing.T) {
	st := NewCollector(&fakeNode{failNetwork: true, failBest: true}, "", 1, nil).Collect(context.Background())

	if err := st.Err(); err != nil {
		t.Errorf("Err() = %v, want nil while some sections succeed", err)
	}
	if st.Network.OK() || st.LatestBlock.OK() {
		t.Error("failed sections reported OK")
	}
	if !st.Blockchain.OK() || !st.Mempool.OK() {
		t.Error("healthy sections reported failure")
	}
}

func TestCollectAllFailed(t *testing.T) {
	node := &fakeNode{failChain: true, failNetwork: true, failMempool: true, failBest: true}
	st := NewCollector(node, "", 4, nil).Collect(context.Background())

	err := st.Err()
	if err == nil {
		t.Fatal("Err() = nil, want error when every section failed")
	}
	if !rpc.IsKind(err, rpc.KindConnection) {
		t.Errorf("Err() = %v, want it to wrap the connection failure", err)
	}
}

func TestCollectParallel(t *testing.T) {
	node := &fakeNode{}
	NewCollector(node, "", 4, nil).Collect(context.Background())
	if got := node.maxInFlight.Load(); got < 1 || got > 4 {
		t.Errorf("max in flight = %d, want between 1 and 4", got)
	}
}

func TestStatusJSON(t *testing.T) {
	st := NewCollector(&fakeNode{failMempool: true}, "http://localhost:8332/", 1, nil).Collect(context.Background())

	data, err := json.Marshal(st)
	if err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Endpoint string `json:"endpoint"`
		Sections []struct {
			Name  string  `json:"name"`
			OK    bool    `json:"ok"`
			Error *string `json:"error"`
		} `json:"sections"`
		Mempool    json.RawMessage `json:"mempool"`
		Blockchain json.RawMessage `json:"blockchain"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Endpoint != "http://localhost:8332/" || len(doc.Sections) != 4 {
		t.Fatalf("doc = %+v", doc)
	}
	mempool := doc.Sections[2]
	if mempool.Name != "mempool" || mempool.OK || mempool.Error == nil {
		t.Errorf("mempool section = %+v", mempool)
	}
	if doc.Mempool != nil {
		t.Errorf("failed mempool section should be omitted, got %s", doc.Mempool)
	}
	if doc.Blockchain == nil {
		t.Error("blockchain section missing")
	}
}
