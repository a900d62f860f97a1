package balance

import (
	"context"
	"errors"
	"strings"

	"github.com/dmagro/btc-rpc-toolkit/internal/rpc"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// UTXOSetScanner is the node call a Scanner depends on. *rpc.Client
// satisfies it.
type UTXOSetScanner interface {
	ScanTxOutSet(ctx context.Context, descriptors []string) (*rpc.ScanResult, error)
}

// Scanner looks up the confirmed balance of a single address.
type Scanner struct {
	node   UTXOSetScanner
	logger *zap.Logger
}

// NewScanner returns a Scanner backed by node. A nil logger disables logging.
func NewScanner(node UTXOSetScanner, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{node: node, logger: logger}
}

// Local and node-side outcomes that are not RPC failures.
var (
	ErrEmptyAddress = errors.New("address is empty")
	ErrScanAborted  = errors.New("scan aborted")
)

// Scan issues one scantxoutset call for address. It never returns an error;
// failures are recorded in BalanceResult.Error. The call can run for minutes
// and is bounded only by the client's timeout.
func (s *Scanner) Scan(ctx context.Context, address string) BalanceResult {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return failed(address, ErrEmptyAddress)
	}

	res, err := s.node.ScanTxOutSet(ctx, []string{rpc.AddressDescriptor(trimmed)})
	if err != nil {
		s.logger.Warn("Address scan failed",
			zap.String("address", trimmed),
			zap.Error(err))
		return failed(address, err)
	}
	if !res.Success {
		s.logger.Warn("Address scan aborted by node", zap.String("address", trimmed))
		return failed(address, ErrScanAborted)
	}

	result := BalanceResult{
		Address: address,
		Balance: decimal.Zero,
		UTXOs:   make([]UTXO, 0, len(res.Unspents)),
	}
	for _, u := range res.Unspents {
		result.Balance = result.Balance.Add(u.Amount)
		result.UTXOs = append(result.UTXOs, UTXO{
			TxID:          u.TxID,
			Vout:          u.Vout,
			Amount:        u.Amount,
			Confirmations: confirmations(res.Height, u.Height),
			Height:        u.Height,
			ScriptPubKey:  u.ScriptPubKey,
		})
	}
	result.UTXOCount = len(result.UTXOs)

	s.logger.Debug("Address scanned",
		zap.String("address", trimmed),
		zap.String("balance", result.Balance.String()),
		zap.Int("utxos", result.UTXOCount),
		zap.Int64("scan_height", res.Height))
	return result
}

// confirmations counts the block containing the output as the first.
func confirmations(tipHeight, outputHeight int64) int64 {
	if outputHeight <= 0 || outputHeight > tipHeight {
		return 0
	}
	return tipHeight - outputHeight + 1
}
