// Package rpc is a minimal Bitcoin Core JSON-RPC client.
//
// Every call is one HTTP POST bounded by the configured timeout. Failures are
// returned as *Failure values classified by Kind so callers can decide what
// to do; the client itself never retries.
package rpc

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Request is the JSON-RPC envelope sent to the node.
//
//	{"jsonrpc": "1.0", "id": "5f0c...", "method": "getblockcount", "params": []}
//
// Bitcoin Core accepts any JSON value as id and echoes it back; a fresh UUID
// per call makes mismatched responses detectable.
type Request struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// Response is the envelope returned by the node. Result stays raw so each
// typed method can decode its own shape.
type Response struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
	ID     json.RawMessage `json:"id"`
}

// RPCError is the error object returned by the node, e.g.
// {"code": -5, "message": "Invalid address"}.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// BlockchainInfo is the subset of getblockchaininfo used for status output.
type BlockchainInfo struct {
	Chain                string  `json:"chain"`
	Blocks               int64   `json:"blocks"`
	Headers              int64   `json:"headers"`
	BestBlockHash        string  `json:"bestblockhash"`
	Difficulty           float64 `json:"difficulty"`
	VerificationProgress float64 `json:"verificationprogress"`
	InitialBlockDownload bool    `json:"initialblockdownload"`
	SizeOnDisk           int64   `json:"size_on_disk"`
	Pruned               bool    `json:"pruned"`
}

// NetworkInfo is the subset of getnetworkinfo shown to users.
// btcjson.GetNetworkInfoResult types warnings as a string, which newer nodes
// send as an array, so the field is kept raw.
type NetworkInfo struct {
	Version         int64           `json:"version"`
	SubVersion      string          `json:"subversion"`
	ProtocolVersion int64           `json:"protocolversion"`
	Connections     int64           `json:"connections"`
	ConnectionsIn   int64           `json:"connections_in"`
	ConnectionsOut  int64           `json:"connections_out"`
	NetworkActive   bool            `json:"networkactive"`
	RelayFee        float64         `json:"relayfee"`
	Warnings        json.RawMessage `json:"warnings"`
}

// WarningText flattens Warnings to one line whether the node sent a string
// or a list.
func (n *NetworkInfo) WarningText() string {
	var s string
	if json.Unmarshal(n.Warnings, &s) == nil {
		return s
	}
	var list []string
	if json.Unmarshal(n.Warnings, &list) == nil {
		return strings.Join(list, "; ")
	}
	return ""
}

// MempoolInfo models getmempoolinfo.
type MempoolInfo struct {
	Loaded        bool    `json:"loaded"`
	Size          int64   `json:"size"`
	Bytes         int64   `json:"bytes"`
	Usage         int64   `json:"usage"`
	MaxMempool    int64   `json:"maxmempool"`
	MempoolMinFee float64 `json:"mempoolminfee"`
}

// PeerInfo is one entry of getpeerinfo. btcjson.GetPeerInfoResult predates
// the connection_type field, so the shape is declared here.
type PeerInfo struct {
	ID             int64  `json:"id"`
	Addr           string `json:"addr"`
	SubVer         string `json:"subver"`
	Version        int64  `json:"version"`
	Inbound        bool   `json:"inbound"`
	ConnectionType string `json:"connection_type"`
	ConnTime       int64  `json:"conntime"`
	SyncedBlocks   int64  `json:"synced_blocks"`
}

// ScanUnspent is one output found by scantxoutset.
type ScanUnspent struct {
	TxID         string          `json:"txid"`
	Vout         uint32          `json:"vout"`
	ScriptPubKey string          `json:"scriptPubKey"`
	Desc         string          `json:"desc"`
	Amount       decimal.Decimal `json:"amount"`
	Coinbase     bool            `json:"coinbase"`
	Height       int64           `json:"height"`
}

// ScanResult models the reply to "scantxoutset start [...]".
type ScanResult struct {
	Success     bool            `json:"success"`
	TxOuts      int64           `json:"txouts"`
	Height      int64           `json:"height"`
	BestBlock   string          `json:"bestblock"`
	Unspents    []ScanUnspent   `json:"unspents"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
