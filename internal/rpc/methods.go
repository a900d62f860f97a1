package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
)

const (
	methodGetBlockchainInfo = "getblockchaininfo"
	methodGetNetworkInfo    = "getnetworkinfo"
	methodGetMempoolInfo    = "getmempoolinfo"
	methodGetPeerInfo       = "getpeerinfo"
	methodEstimateSmartFee  = "estimatesmartfee"
	methodGetBlockCount     = "getblockcount"
	methodGetBlockHash      = "getblockhash"
	methodGetBestBlockHash  = "getbestblockhash"
	methodGetBlock          = "getblock"
	methodGetRawTransaction = "getrawtransaction"
	methodScanTxOutSet      = "scantxoutset"
)

// call runs method and decodes its result into out. Decode failures are
// reported as KindMalformedResponse.
func (c *Client) call(ctx context.Context, out interface{}, method string, params ...interface{}) error {
	raw, err := c.Call(ctx, method, params...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Failure{
			Kind:    KindMalformedResponse,
			Method:  method,
			Message: fmt.Sprintf("decoding %s result", method),
			Err:     err,
		}
	}
	return nil
}

// GetBlockchainInfo returns chain state.
func (c *Client) GetBlockchainInfo(ctx context.Context) (*BlockchainInfo, error) {
	var info BlockchainInfo
	if err := c.call(ctx, &info, methodGetBlockchainInfo); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetNetworkInfo returns the node's P2P state.
func (c *Client) GetNetworkInfo(ctx context.Context) (*NetworkInfo, error) {
	var info NetworkInfo
	if err := c.call(ctx, &info, methodGetNetworkInfo); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) GetMempoolInfo(ctx context.Context) (*MempoolInfo, error) {
	var info MempoolInfo
	if err := c.call(ctx, &info, methodGetMempoolInfo); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) GetPeerInfo(ctx context.Context) ([]PeerInfo, error) {
	var peers []PeerInfo
	if err := c.call(ctx, &peers, methodGetPeerInfo); err != nil {
		return nil, err
	}
	return peers, nil
}

// EstimateSmartFee asks for a fee rate (BTC/kvB) that should confirm within
// confTarget blocks. FeeRate is nil when the node has too little data.
func (c *Client) EstimateSmartFee(ctx context.Context, confTarget int64) (*btcjson.EstimateSmartFeeResult, error) {
	var fee btcjson.EstimateSmartFeeResult
	if err := c.call(ctx, &fee, methodEstimateSmartFee, confTarget); err != nil {
		return nil, err
	}
	return &fee, nil
}

func (c *Client) GetBlockCount(ctx context.Context) (int64, error) {
	var n int64
	if err := c.call(ctx, &n, methodGetBlockCount); err != nil {
		return 0, err
	}
	return n, nil
}

func (c *Client) GetBlockHash(ctx context.Context, height int64) (string, error) {
	var hash string
	if err := c.call(ctx, &hash, methodGetBlockHash, height); err != nil {
		return "", err
	}
	return hash, nil
}

func (c *Client) GetBestBlockHash(ctx context.Context) (string, error) {
	var hash string
	if err := c.call(ctx, &hash, methodGetBestBlockHash); err != nil {
		return "", err
	}
	return hash, nil
}

// GetBlock fetches a block header plus txids (verbosity 1).
func (c *Client) GetBlock(ctx context.Context, hash string) (*btcjson.GetBlockVerboseResult, error) {
	var block btcjson.GetBlockVerboseResult
	if err := c.call(ctx, &block, methodGetBlock, hash, 1); err != nil {
		return nil, err
	}
	return &block, nil
}

// GetRawTransaction fetches a decoded transaction. Outside the mempool this
// requires txindex=1 on the node.
func (c *Client) GetRawTransaction(ctx context.Context, txid string) (*btcjson.TxRawResult, error) {
	var tx btcjson.TxRawResult
	if err := c.call(ctx, &tx, methodGetRawTransaction, txid, true); err != nil {
		return nil, err
	}
	return &tx, nil
}

// ScanTxOutSet runs "scantxoutset start" over the given output descriptors.
// The scan walks the whole UTXO set and can take minutes.
func (c *Client) ScanTxOutSet(ctx context.Context, descriptors []string) (*ScanResult, error) {
	var res ScanResult
	if err := c.call(ctx, &res, methodScanTxOutSet, "start", descriptors); err != nil {
		return nil, err
	}
	return &res, nil
}

// AddressDescriptor wraps an address as an addr() output descriptor.
func AddressDescriptor(address string) string {
	return "addr(" + address + ")"
}
