// Package balance computes address balances from the node's UTXO set.
//
// A Scanner looks up one address with a single scantxoutset call. A Processor
// runs a Scanner over a list of addresses one at a time and folds the results
// into a BatchReport. Per-address failures are recorded in the report and
// never stop the batch.
package balance

import (
	"github.com/shopspring/decimal"

	"github.com/dmagro/btc-rpc-toolkit/internal/rpc"
)

// UTXO is one unspent output paying to a scanned address.
type UTXO struct {
	TxID          string
	Vout          uint32
	Amount        decimal.Decimal
	Confirmations int64
	Height        int64
	ScriptPubKey  string
}

// BalanceResult is the outcome of scanning one address. Exactly one of
// Balance/UTXOs or Error is meaningful. A failed result always has a
// non-empty Error.
type BalanceResult struct {
	Address   string
	Balance   decimal.Decimal
	UTXOs     []UTXO
	UTXOCount int
	Error     string

	// Err is the failure behind Error, when there was one. It is not
	// serialized and is nil after decoding a stored report.
	Err error
}

// OK reports whether the scan succeeded.
func (r BalanceResult) OK() bool { return r.Error == "" }

func failed(address string, err error) BalanceResult {
	return BalanceResult{Address: address, Balance: decimal.Zero, Error: rpc.Describe(err), Err: err}
}

// BatchReport aggregates the results of a batch in input order.
//
// Successful counts entries without an error; TotalBalance sums only those
// entries; AddressesChecked is the number of input addresses.
type BatchReport struct {
	TotalBalance     decimal.Decimal
	AddressesChecked int
	Successful       int
	Addresses        []BalanceResult
}

// Failed returns the number of addresses that could not be scanned.
func (r BatchReport) Failed() int { return r.AddressesChecked - r.Successful }

// Summarize builds a BatchReport from per-address results.
func Summarize(results []BalanceResult) BatchReport {
	rep := BatchReport{
		TotalBalance:     decimal.Zero,
		AddressesChecked: len(results),
		Addresses:        results,
	}
	if rep.Addresses == nil {
		rep.Addresses = []BalanceResult{}
	}
	for _, r := range results {
		if !r.OK() {
			continue
		}
		rep.Successful++
		rep.TotalBalance = rep.TotalBalance.Add(r.Balance)
	}
	return rep
}
