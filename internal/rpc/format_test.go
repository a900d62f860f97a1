package rpc

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{123, "123"},
		{1000, "1,000"},
		{840000, "840,000"},
		{1234567890, "1,234,567,890"},
		{-1000, "-1,000"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestParseHeight(t *testing.T) {
	tests := []struct {
		arg     string
		want    int64
		wantErr bool
	}{
		{"840000", 840000, false},
		{" 840,000 ", 840000, false},
		{"0", 0, false},
		{"-1", 0, true},
		{"latest", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := ParseHeight(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHeight(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseHeight(%q) = %d, want %d", tt.arg, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{1536, "1.5 KiB"},
		{300 * 1024 * 1024, "300.0 MiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.n); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatFeeRate(t *testing.T) {
	rate := 0.00012
	if got := FormatFeeRate(&rate); got != "12.0 sat/vB" {
		t.Errorf("FormatFeeRate(0.00012) = %q", got)
	}
	if got := FormatFeeRate(nil); got != "—" {
		t.Errorf("FormatFeeRate(nil) = %q", got)
	}
}

func TestToSatoshis(t *testing.T) {
	got, err := ToSatoshis(decimal.RequireFromString("0.5"))
	if err != nil {
		t.Fatal(err)
	}
	if got != btcutil.Amount(50_000_000) {
		t.Errorf("ToSatoshis(0.5) = %d", got)
	}
	if s := FormatBTC(decimal.RequireFromString("0.5")); s != "0.50000000 BTC" {
		t.Errorf("FormatBTC(0.5) = %q", s)
	}
}
