package output

import (
	"fmt"
	"io"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/rodaine/table"
	"github.com/shopspring/decimal"

	"github.com/dmagro/btc-rpc-toolkit/internal/rpc"
	"github.com/dmagro/btc-rpc-toolkit/internal/status"
)

// RenderStatus prints a node snapshot. Failed sections show their error in
// place of data.
func RenderStatus(w io.Writer, st *status.Status) {
	title(w, "Bitcoin Node Status")
	field(w, "Endpoint", st.Endpoint)
	field(w, "Checked", st.Timestamp.Format("2006-01-02 15:04:05 UTC"))

	fmt.Fprintln(w)
	tbl := newTable(w, "Section", "OK", "Latency", "Error")
	addSection(tbl, "blockchain", st.Blockchain.Err, st.Blockchain.Latency)
	addSection(tbl, "network", st.Network.Err, st.Network.Latency)
	addSection(tbl, "mempool", st.Mempool.Err, st.Mempool.Latency)
	addSection(tbl, "latest block", st.LatestBlock.Err, st.LatestBlock.Latency)
	tbl.Print()

	if st.Blockchain.OK() {
		renderChain(w, st.Blockchain.Value)
	}
	if st.Network.OK() {
		renderNetwork(w, st.Network.Value)
	}
	if st.Mempool.OK() {
		renderMempool(w, st.Mempool.Value)
	}
	if st.LatestBlock.OK() {
		renderBlock(w, st.LatestBlock.Value)
	}
	fmt.Fprintln(w)
}

func addSection(tbl table.Table, name string, err error, latency time.Duration) {
	msg := ""
	if err != nil {
		msg = red(rpc.Describe(err))
	}
	tbl.AddRow(name, check(err == nil), fmt.Sprintf("%dms", latency.Milliseconds()), msg)
}

// RenderBlockchainInfo prints the result of getblockchaininfo.
func RenderBlockchainInfo(w io.Writer, info *rpc.BlockchainInfo) {
	title(w, "Blockchain")
	renderChain(w, info)
	fmt.Fprintln(w)
}

func renderChain(w io.Writer, info *rpc.BlockchainInfo) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, bold("Chain"))
	field(w, "Network", info.Chain)
	field(w, "Blocks", rpc.FormatNumber(info.Blocks))
	field(w, "Headers", rpc.FormatNumber(info.Headers))
	field(w, "Best block", info.BestBlockHash)
	progress := fmt.Sprintf("%.4f%%", info.VerificationProgress*100)
	if info.InitialBlockDownload {
		progress = yellow(progress + " (initial block download)")
	}
	field(w, "Sync progress", progress)
	field(w, "Size on disk", rpc.FormatBytes(info.SizeOnDisk))
	field(w, "Pruned", yesNo(info.Pruned))
}

// RenderNetworkInfo prints the result of getnetworkinfo.
func RenderNetworkInfo(w io.Writer, info *rpc.NetworkInfo) {
	title(w, "Network")
	renderNetwork(w, info)
	fmt.Fprintln(w)
}

func renderNetwork(w io.Writer, info *rpc.NetworkInfo) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, bold("Network"))
	field(w, "Version", fmt.Sprintf("%d %s", info.Version, info.SubVersion))
	field(w, "Protocol", info.ProtocolVersion)
	field(w, "Connections", fmt.Sprintf("%d (in %d / out %d)", info.Connections, info.ConnectionsIn, info.ConnectionsOut))
	active := green("active")
	if !info.NetworkActive {
		active = red("disabled")
	}
	field(w, "P2P", active)
	field(w, "Relay fee", fmt.Sprintf("%s BTC/kvB", decimal.NewFromFloat(info.RelayFee).StringFixed(8)))
	if warn := info.WarningText(); warn != "" {
		field(w, "Warnings", yellow(warn))
	}
}

// RenderMempoolInfo prints the result of getmempoolinfo.
func RenderMempoolInfo(w io.Writer, info *rpc.MempoolInfo) {
	title(w, "Mempool")
	renderMempool(w, info)
	fmt.Fprintln(w)
}

func renderMempool(w io.Writer, info *rpc.MempoolInfo) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, bold("Mempool"))
	field(w, "Transactions", rpc.FormatNumber(info.Size))
	field(w, "Size", rpc.FormatBytes(info.Bytes))
	field(w, "Memory", fmt.Sprintf("%s / %s", rpc.FormatBytes(info.Usage), rpc.FormatBytes(info.MaxMempool)))
	field(w, "Min fee", rpc.FormatFeeRate(&info.MempoolMinFee))
}

// RenderPeers prints one row per connected peer.
func RenderPeers(w io.Writer, peers []rpc.PeerInfo) {
	title(w, fmt.Sprintf("Peers (%d)", len(peers)))
	if len(peers) == 0 {
		fmt.Fprintln(w, yellow("  No peers connected."))
		fmt.Fprintln(w)
		return
	}

	tbl := newTable(w, "Address", "Client", "Direction", "Type", "Connected")
	for _, p := range peers {
		dir := "outbound"
		if p.Inbound {
			dir = "inbound"
		}
		since := "—"
		if p.ConnTime > 0 {
			since = time.Since(time.Unix(p.ConnTime, 0)).Truncate(time.Second).String()
		}
		tbl.AddRow(p.Addr, p.SubVer, dir, p.ConnectionType, since)
	}
	tbl.Print()
	fmt.Fprintln(w)
}

// RenderFeeEstimate prints an estimatesmartfee result.
func RenderFeeEstimate(w io.Writer, confTarget int64, fee *btcjson.EstimateSmartFeeResult) {
	title(w, "Fee Estimate")
	field(w, "Target", fmt.Sprintf("%d blocks", confTarget))
	if fee.FeeRate == nil {
		field(w, "Fee rate", yellow("unavailable"))
	} else {
		field(w, "Fee rate", fmt.Sprintf("%s BTC/kvB (%s)",
			decimal.NewFromFloat(*fee.FeeRate).StringFixed(8), rpc.FormatFeeRate(fee.FeeRate)))
	}
	if fee.Blocks > 0 {
		field(w, "Estimated for", fmt.Sprintf("%d blocks", fee.Blocks))
	}
	for _, e := range fee.Errors {
		field(w, "Note", yellow(e))
	}
	fmt.Fprintln(w)
}

// RenderBlock prints a verbosity-1 block.
func RenderBlock(w io.Writer, block *btcjson.GetBlockVerboseResult) {
	title(w, fmt.Sprintf("Block #%s", rpc.FormatNumber(block.Height)))
	renderBlock(w, block)
	fmt.Fprintln(w)
}

func renderBlock(w io.Writer, block *btcjson.GetBlockVerboseResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, bold("Block"))
	field(w, "Height", rpc.FormatNumber(block.Height))
	field(w, "Hash", block.Hash)
	if block.PreviousHash != "" {
		field(w, "Previous", block.PreviousHash)
	}
	field(w, "Time", rpc.FormatTimestamp(block.Time))
	field(w, "Transactions", rpc.FormatNumber(int64(len(block.Tx))))
	field(w, "Size", fmt.Sprintf("%s (weight %s)", rpc.FormatBytes(int64(block.Size)), rpc.FormatNumber(int64(block.Weight))))
	field(w, "Difficulty", fmt.Sprintf("%.2f", block.Difficulty))
	field(w, "Confirmations", rpc.FormatNumber(block.Confirmations))
}

// RenderTransaction prints a decoded transaction with its outputs.
func RenderTransaction(w io.Writer, tx *btcjson.TxRawResult) {
	title(w, "Transaction")
	field(w, "Txid", tx.Txid)
	field(w, "Size", fmt.Sprintf("%d bytes (vsize %d, weight %d)", tx.Size, tx.Vsize, tx.Weight))
	if tx.BlockHash != "" {
		field(w, "Block", tx.BlockHash)
		field(w, "Confirmations", rpc.FormatNumber(int64(tx.Confirmations)))
		field(w, "Block time", rpc.FormatTimestamp(tx.Blocktime))
	} else {
		field(w, "Status", yellow("unconfirmed"))
	}

	coinbase := len(tx.Vin) == 1 && tx.Vin[0].Coinbase != ""
	inputs := fmt.Sprintf("%d", len(tx.Vin))
	if coinbase {
		inputs += " (coinbase)"
	}
	field(w, "Inputs", inputs)

	fmt.Fprintln(w)
	total := decimal.Zero
	tbl := newTable(w, "#", "Value (BTC)", "Type", "Script")
	for _, out := range tx.Vout {
		v := decimal.NewFromFloat(out.Value)
		total = total.Add(v)
		script := shortHash(out.ScriptPubKey.Hex)
		if script == "" {
			script = dim("—")
		}
		tbl.AddRow(out.N, v.StringFixed(8), out.ScriptPubKey.Type, script)
	}
	tbl.Print()
	fmt.Fprintln(w)
	field(w, "Total out", rpc.FormatBTC(total))
	fmt.Fprintln(w)
}
