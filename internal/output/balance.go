package output

import (
	"fmt"
	"io"

	"github.com/dmagro/btc-rpc-toolkit/internal/balance"
	"github.com/dmagro/btc-rpc-toolkit/internal/history"
	"github.com/dmagro/btc-rpc-toolkit/internal/rpc"
)

// RenderBalance prints a single address lookup. UTXOs are listed only when
// showUTXOs is set.
func RenderBalance(w io.Writer, r balance.BalanceResult, showUTXOs bool) {
	title(w, "Address Balance")
	field(w, "Address", r.Address)

	if !r.OK() {
		field(w, "Error", red(r.Error))
		fmt.Fprintln(w)
		return
	}

	field(w, "Balance", green(rpc.FormatBTC(r.Balance)))
	if sats, err := rpc.ToSatoshis(r.Balance); err == nil {
		field(w, "Satoshis", rpc.FormatNumber(int64(sats)))
	}
	field(w, "UTXOs", r.UTXOCount)

	if showUTXOs && len(r.UTXOs) > 0 {
		fmt.Fprintln(w)
		tbl := newTable(w, "Txid", "Vout", "Amount (BTC)", "Height", "Confirmations")
		for _, u := range r.UTXOs {
			tbl.AddRow(shortHash(u.TxID), u.Vout, u.Amount.StringFixed(8), u.Height, rpc.FormatNumber(u.Confirmations))
		}
		tbl.Print()
	}
	fmt.Fprintln(w)
}

// RenderBatch prints the summary and per-address rows of a batch report.
func RenderBatch(w io.Writer, rep balance.BatchReport) {
	title(w, "Batch Balance Report")

	tbl := newTable(w, "#", "Address", "Balance (BTC)", "UTXOs", "Status")
	for i, r := range rep.Addresses {
		if r.OK() {
			tbl.AddRow(i+1, r.Address, r.Balance.StringFixed(8), r.UTXOCount, green("✓"))
		} else {
			tbl.AddRow(i+1, r.Address, dim("—"), dim("—"), red("✗ "+r.Error))
		}
	}
	tbl.Print()

	fmt.Fprintln(w, lightRule)
	field(w, "Addresses", rep.AddressesChecked)
	successful := fmt.Sprintf("%d", rep.Successful)
	switch {
	case rep.AddressesChecked > 0 && rep.Successful == rep.AddressesChecked:
		successful = green(successful)
	case rep.Successful == 0 && rep.AddressesChecked > 0:
		successful = red(successful)
	default:
		successful = yellow(successful)
	}
	field(w, "Successful", successful)
	if failed := rep.Failed(); failed > 0 {
		field(w, "Failed", red(failed))
	}
	field(w, "Total balance", bold(rpc.FormatBTC(rep.TotalBalance)))
	fmt.Fprintln(w)
}

// ProgressPrinter is a balance.Observer that writes one line per scanned
// address.
type ProgressPrinter struct {
	W io.Writer
}

func (p ProgressPrinter) AddressScanned(index, total int, r balance.BalanceResult) {
	status := green(rpc.FormatBTC(r.Balance))
	if !r.OK() {
		status = red("error: " + r.Error)
	}
	fmt.Fprintf(p.W, "%s %s %s\n", dim(fmt.Sprintf("[%d/%d]", index, total)), r.Address, status)
}

// RenderRuns lists archived batch runs.
func RenderRuns(w io.Writer, runs []history.Run) {
	title(w, "Archived Batch Runs")
	if len(runs) == 0 {
		fmt.Fprintln(w, yellow("  No runs archived yet."))
		fmt.Fprintln(w)
		return
	}

	tbl := newTable(w, "Run ID", "Created", "Source", "Checked", "Successful", "Total (BTC)")
	for _, r := range runs {
		source := r.Source
		if source == "" {
			source = dim("—")
		}
		tbl.AddRow(r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), source,
			r.AddressesChecked, r.Successful, r.TotalBalance.StringFixed(8))
	}
	tbl.Print()
	fmt.Fprintln(w)
}
