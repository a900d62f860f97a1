package balance

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// The document types below define the on-disk schema:
//
//	{"total_balance": 0.5, "addresses_checked": 2, "successful": 1,
//	 "addresses": [
//	   {"address": "...", "balance": 0.5, "utxos": [...], "utxo_count": 2},
//	   {"address": "...", "error": "invalid address"}]}
//
// Pointer fields let a failed entry carry only address and error while a
// successful one always carries utxos, even when empty.

// amount encodes a decimal as a bare JSON/YAML number rather than a string.
type amount decimal.Decimal

func (a amount) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(a).String()), nil
}

func (a *amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*a = amount(d)
	return nil
}

func (a amount) MarshalYAML() (interface{}, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: decimal.Decimal(a).String()}, nil
}

func (a *amount) UnmarshalYAML(value *yaml.Node) error {
	d, err := decimal.NewFromString(value.Value)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", value.Value, err)
	}
	*a = amount(d)
	return nil
}

type utxoDoc struct {
	TxID          string `json:"txid" yaml:"txid"`
	Vout          uint32 `json:"vout" yaml:"vout"`
	Amount        amount `json:"amount" yaml:"amount"`
	Confirmations int64  `json:"confirmations" yaml:"confirmations"`
	Height        int64  `json:"height" yaml:"height"`
	ScriptPubKey  string `json:"scriptPubKey" yaml:"scriptPubKey"`
}

type resultDoc struct {
	Address   string     `json:"address" yaml:"address"`
	Balance   *amount    `json:"balance,omitempty" yaml:"balance,omitempty"`
	UTXOs     *[]utxoDoc `json:"utxos,omitempty" yaml:"utxos,omitempty"`
	UTXOCount *int       `json:"utxo_count,omitempty" yaml:"utxo_count,omitempty"`
	Error     *string    `json:"error,omitempty" yaml:"error,omitempty"`
}

type reportDoc struct {
	TotalBalance     amount      `json:"total_balance" yaml:"total_balance"`
	AddressesChecked int         `json:"addresses_checked" yaml:"addresses_checked"`
	Successful       int         `json:"successful" yaml:"successful"`
	Addresses        []resultDoc `json:"addresses" yaml:"addresses"`
}

func toResultDoc(r BalanceResult) resultDoc {
	if !r.OK() {
		msg := r.Error
		return resultDoc{Address: r.Address, Error: &msg}
	}
	bal := amount(r.Balance)
	utxos := make([]utxoDoc, 0, len(r.UTXOs))
	for _, u := range r.UTXOs {
		utxos = append(utxos, utxoDoc{
			TxID:          u.TxID,
			Vout:          u.Vout,
			Amount:        amount(u.Amount),
			Confirmations: u.Confirmations,
			Height:        u.Height,
			ScriptPubKey:  u.ScriptPubKey,
		})
	}
	count := r.UTXOCount
	return resultDoc{Address: r.Address, Balance: &bal, UTXOs: &utxos, UTXOCount: &count}
}

func (d resultDoc) toResult() BalanceResult {
	if d.Error != nil {
		msg := *d.Error
		if msg == "" {
			msg = "unknown error"
		}
		return BalanceResult{Address: d.Address, Balance: decimal.Zero, Error: msg}
	}
	r := BalanceResult{Address: d.Address, Balance: decimal.Zero, UTXOs: []UTXO{}}
	if d.Balance != nil {
		r.Balance = decimal.Decimal(*d.Balance)
	}
	if d.UTXOs != nil {
		for _, u := range *d.UTXOs {
			r.UTXOs = append(r.UTXOs, UTXO{
				TxID:          u.TxID,
				Vout:          u.Vout,
				Amount:        decimal.Decimal(u.Amount),
				Confirmations: u.Confirmations,
				Height:        u.Height,
				ScriptPubKey:  u.ScriptPubKey,
			})
		}
	}
	r.UTXOCount = len(r.UTXOs)
	if d.UTXOCount != nil {
		r.UTXOCount = *d.UTXOCount
	}
	return r
}

func (r BatchReport) toDoc() reportDoc {
	doc := reportDoc{
		TotalBalance:     amount(r.TotalBalance),
		AddressesChecked: r.AddressesChecked,
		Successful:       r.Successful,
		Addresses:        make([]resultDoc, 0, len(r.Addresses)),
	}
	for _, a := range r.Addresses {
		doc.Addresses = append(doc.Addresses, toResultDoc(a))
	}
	return doc
}

func (d reportDoc) toReport() BatchReport {
	r := BatchReport{
		TotalBalance:     decimal.Decimal(d.TotalBalance),
		AddressesChecked: d.AddressesChecked,
		Successful:       d.Successful,
		Addresses:        make([]BalanceResult, 0, len(d.Addresses)),
	}
	for _, a := range d.Addresses {
		r.Addresses = append(r.Addresses, a.toResult())
	}
	return r
}

func (r BalanceResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(toResultDoc(r))
}

func (r *BalanceResult) UnmarshalJSON(data []byte) error {
	var doc resultDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*r = doc.toResult()
	return nil
}

func (r BalanceResult) MarshalYAML() (interface{}, error) {
	return toResultDoc(r), nil
}

func (r *BalanceResult) UnmarshalYAML(value *yaml.Node) error {
	var doc resultDoc
	if err := value.Decode(&doc); err != nil {
		return err
	}
	*r = doc.toResult()
	return nil
}

func (r BatchReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.toDoc())
}

func (r *BatchReport) UnmarshalJSON(data []byte) error {
	var doc reportDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*r = doc.toReport()
	return nil
}

func (r BatchReport) MarshalYAML() (interface{}, error) {
	return r.toDoc(), nil
}

func (r *BatchReport) UnmarshalYAML(value *yaml.Node) error {
	var doc reportDoc
	if err := value.Decode(&doc); err != nil {
		return err
	}
	*r = doc.toReport()
	return nil
}
