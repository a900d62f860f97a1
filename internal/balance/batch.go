package balance

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmagro/btc-rpc-toolkit/internal/report"
	"go.uber.org/zap"
)

// AddressScanner scans a single address. *Scanner satisfies it.
type AddressScanner interface {
	Scan(ctx context.Context, address string) BalanceResult
}

// Observer is told about progress after each address completes. index is
// 1-based. Observers cannot influence the batch.
type Observer interface {
	AddressScanned(index, total int, result BalanceResult)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(index, total int, result BalanceResult)

func (f ObserverFunc) AddressScanned(index, total int, result BalanceResult) {
	f(index, total, result)
}

// Processor runs a scanner across many addresses.
type Processor struct {
	scanner  AddressScanner
	observer Observer
	logger   *zap.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithObserver registers a progress observer.
func WithObserver(o Observer) ProcessorOption {
	return func(p *Processor) { p.observer = o }
}

// WithLogger sets the processor's logger.
func WithLogger(l *zap.Logger) ProcessorOption {
	return func(p *Processor) { p.logger = l }
}

func NewProcessor(scanner AddressScanner, opts ...ProcessorOption) *Processor {
	p := &Processor{scanner: scanner, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessBatch scans addresses strictly in order, one at a time. Every
// address is attempted and a report is always returned, even if every scan
// failed. Duplicate addresses are scanned independently.
//
// Scans are never run concurrently: each one walks the node's whole UTXO set.
func (p *Processor) ProcessBatch(ctx context.Context, addresses []string) BatchReport {
	total := len(addresses)
	results := make([]BalanceResult, 0, total)

	p.logger.Info("Starting batch balance scan", zap.Int("addresses", total))

	for i, addr := range addresses {
		res := p.scanner.Scan(ctx, addr)
		results = append(results, res)

		if p.observer != nil {
			p.observer.AddressScanned(i+1, total, res)
		}
	}

	rep := Summarize(results)
	p.logger.Info("Batch balance scan complete",
		zap.Int("addresses_checked", rep.AddressesChecked),
		zap.Int("successful", rep.Successful),
		zap.String("total_balance", rep.TotalBalance.String()))
	return rep
}

// ProcessBatchTo runs ProcessBatch and writes the report to dest (JSON, or
// YAML for .yaml/.yml). An empty dest skips persistence. The computed report
// is returned even when writing fails.
func (p *Processor) ProcessBatchTo(ctx context.Context, addresses []string, dest string) (BatchReport, error) {
	rep := p.ProcessBatch(ctx, addresses)
	if dest == "" {
		return rep, nil
	}

	if err := report.Write(dest, rep); err != nil {
		p.logger.Error("Failed to save batch report", zap.String("path", dest), zap.Error(err))
		return rep, fmt.Errorf("save batch report to %s: %w", dest, err)
	}

	p.logger.Info("Batch report saved", zap.String("path", dest))
	return rep, nil
}

// ReadAddresses reads one address per line. Lines are trimmed and blank lines
// skipped; order and duplicates are kept.
func ReadAddresses(r io.Reader) ([]string, error) {
	var addresses []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		addresses = append(addresses, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read addresses: %w", err)
	}
	return addresses, nil
}

// ReadAddressFile opens path and reads addresses from it.
func ReadAddressFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open address file: %w", err)
	}
	defer f.Close()
	return ReadAddresses(f)
}
