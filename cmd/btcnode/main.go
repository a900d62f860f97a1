package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmagro/btc-rpc-toolkit/internal/logging"
	"github.com/dmagro/btc-rpc-toolkit/internal/rpc"
)

// Persistent connection flags. They only become overrides when set on the
// command line, so env and bitcoin.conf values are not shadowed by defaults.
type connFlags struct {
	host     string
	port     int
	user     string
	password string
	timeout  int
	conf     string
	logLevel string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd().ExecuteContext(ctx)
	flushLogs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", rpc.Explain(err))
		stop()
		os.Exit(1)
	}
}

// flushLogs is replaced once the logger is built.
var flushLogs = func() {}

func (f *connFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.host, "host", "", "RPC host (default localhost)")
	pf.IntVar(&f.port, "port", 0, "RPC port (default 8332)")
	pf.StringVar(&f.user, "user", "", "RPC username")
	pf.StringVar(&f.password, "password", "", "RPC password")
	pf.IntVar(&f.timeout, "timeout", 0, "Request timeout in seconds (default 300)")
	pf.StringVar(&f.conf, "conf", "", "Path to a bitcoin.conf-style file")
	pf.StringVar(&f.logLevel, "log-level", "warn", "Log level: debug|info|warn|error")
}

func rootCmd() *cobra.Command {
	flags := &connFlags{}

	root := &cobra.Command{
		Use:   "btcnode",
		Short: "Query a Bitcoin Core node over JSON-RPC",
		Long: `btcnode talks to a Bitcoin Core node over its JSON-RPC interface.

Connection settings are resolved per field from, in order:
  1. command-line flags
  2. BITCOIN_RPC_* environment variables (or a .env file)
  3. the file given with --conf
  4. ./bitcoin.conf
  5. built-in defaults (localhost:8332, 300s timeout)

Example:
  btcnode status
  btcnode balance bc1q...
  btcnode batch-balance addresses.txt -o reports/batch.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, done, err := logging.New(flags.logLevel)
			if err != nil {
				return err
			}
			flushLogs = done
			return nil
		},
	}

	flags.register(root)

	root.AddCommand(
		statusCmd(flags),
		infoCmd(flags),
		networkCmd(flags),
		mempoolCmd(flags),
		peersCmd(flags),
		feeCmd(flags),
		blockCmd(flags),
		latestCmd(flags),
		txCmd(flags),
		balanceCmd(flags),
		batchBalanceCmd(flags),
		configCmd(flags),
		pingCmd(flags),
		historyCmd(),
	)

	return root
}
