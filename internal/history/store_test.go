package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmagro/btc-rpc-toolkit/internal/balance"
	"github.com/shopspring/decimal"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "archive", "history.db"), nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleReport(total string) balance.BatchReport {
	return balance.Summarize([]balance.BalanceResult{
		{
			Address:   "addrA",
			Balance:   decimal.RequireFromString(total),
			UTXOs:     []balance.UTXO{{TxID: "aa", Vout: 1, Amount: decimal.RequireFromString(total), Confirmations: 3, Height: 10}},
			UTXOCount: 1,
		},
		{Address: "addrB", Balance: decimal.Zero, Error: "invalid address"},
	})
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	rep := sampleReport("0.5")
	id, err := store.Save(ctx, rep, "addresses.txt")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if id == "" {
		t.Fatal("Save() returned empty id")
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.TotalBalance.Equal(rep.TotalBalance) || got.Successful != 1 || got.AddressesChecked != 2 {
		t.Errorf("Get() = %+v, want %+v", got, rep)
	}
	if len(got.Addresses) != 2 || got.Addresses[1].Error != "invalid address" {
		t.Errorf("Addresses = %+v", got.Addresses)
	}
	if len(got.Addresses[0].UTXOs) != 1 || got.Addresses[0].UTXOs[0].TxID != "aa" {
		t.Errorf("UTXOs = %+v", got.Addresses[0].UTXOs)
	}
}

func TestGetUnknownRun(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Get() error = %v, want ErrRunNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	var ids []string
	for _, total := range []string{"0.1", "0.2", "0.3"} {
		id, err := store.Save(ctx, sampleReport(total), "")
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	runs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("List(2) returned %d runs", len(runs))
	}
	if runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Errorf("List() order = [%s %s], want [%s %s]", runs[0].ID, runs[1].ID, ids[2], ids[1])
	}
	if !runs[0].TotalBalance.Equal(decimal.RequireFromString("0.3")) {
		t.Errorf("TotalBalance = %s, want 0.3", runs[0].TotalBalance)
	}

	all, err := store.List(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Errorf("List(0) = %d runs, %v", len(all), err)
	}
}

func TestListEmpty(t *testing.T) {
	runs, err := openTestStore(t).List(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if runs == nil || len(runs) != 0 {
		t.Errorf("List() = %v, want empty slice", runs)
	}
}
