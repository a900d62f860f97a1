package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmagro/btc-rpc-toolkit/internal/balance"
	"github.com/dmagro/btc-rpc-toolkit/internal/history"
	"github.com/dmagro/btc-rpc-toolkit/internal/output"
)

func balanceCmd(flags *connFlags) *cobra.Command {
	var (
		showUTXOs bool
		format    string
	)

	cmd := &cobra.Command{
		Use:   "balance <address>",
		Short: "Look up an address balance by scanning the UTXO set",
		Long: `Scan the node's UTXO set (scantxoutset) for one address and report its
confirmed balance and unspent outputs.

A scan walks the whole UTXO set and can take minutes on mainnet; raise
--timeout if the node is slow.

Example:
  btcnode balance bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq --utxos`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cmd, flags)
			if err != nil {
				return err
			}

			res := balance.NewScanner(client, zap.L()).Scan(cmd.Context(), args[0])
			if err := render(cmd.OutOrStdout(), format, res, func(w io.Writer) { output.RenderBalance(w, res, showUTXOs) }); err != nil {
				return err
			}
			if !res.OK() {
				if res.Err != nil {
					return res.Err
				}
				return errors.New(res.Error)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showUTXOs, "utxos", false, "List individual unspent outputs")
	cmd.Flags().StringVar(&format, "format", "terminal", "Output format: terminal|json")

	return cmd
}

func batchBalanceCmd(flags *connFlags) *cobra.Command {
	var (
		outPath string
		archive string
		format  string
		quiet   bool
	)

	cmd := &cobra.Command{
		Use:   "batch-balance <address-file>",
		Short: "Scan balances for every address in a file",
		Long: `Read one address per line (blank lines skipped) and scan each in order.

Failed addresses are recorded in the report and never stop the batch.
The report is written as JSON, or YAML when --output ends in .yaml/.yml,
and can also be archived into a SQLite database for later review with
"btcnode history".

Example:
  btcnode batch-balance addresses.txt -o reports/batch.json
  btcnode batch-balance addresses.txt --archive btcnode.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, flags, args[0], outPath, archive, format, quiet)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the report to this file")
	cmd.Flags().StringVar(&archive, "archive", "", "Also archive the run into this SQLite database")
	cmd.Flags().StringVar(&format, "format", "terminal", "Output format: terminal|json")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress per-address progress")

	return cmd
}

func runBatch(cmd *cobra.Command, flags *connFlags, addrFile, outPath, archive, format string, quiet bool) error {
	if _, err := output.ParseFormat(format); err != nil {
		return err
	}

	addresses, err := balance.ReadAddressFile(addrFile)
	if err != nil {
		return err
	}

	client, err := buildClient(cmd, flags)
	if err != nil {
		return err
	}

	opts := []balance.ProcessorOption{balance.WithLogger(zap.L())}
	if !quiet {
		opts = append(opts, balance.WithObserver(output.ProgressPrinter{W: cmd.ErrOrStderr()}))
	}
	processor := balance.NewProcessor(balance.NewScanner(client, zap.L()), opts...)

	rep, saveErr := processor.ProcessBatchTo(cmd.Context(), addresses, outPath)

	// The scan is the expensive part; persistence failures are reported
	// only after the report has been printed.
	var archiveErr error
	if archive != "" {
		archiveErr = archiveRun(cmd, archive, addrFile, rep)
	}

	if err := render(cmd.OutOrStdout(), format, rep, func(w io.Writer) { output.RenderBatch(w, rep) }); err != nil {
		return err
	}
	if saveErr == nil && outPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to %s\n", outPath)
	}
	return errors.Join(saveErr, archiveErr)
}

func archiveRun(cmd *cobra.Command, path, source string, rep balance.BatchReport) error {
	store, err := history.Open(cmd.Context(), path, zap.L())
	if err != nil {
		return fmt.Errorf("archive batch run: %w", err)
	}
	defer store.Close()

	id, err := store.Save(cmd.Context(), rep, source)
	if err != nil {
		return fmt.Errorf("archive batch run: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Run archived as %s\n", id)
	return nil
}
