package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmagro/btc-rpc-toolkit/internal/output"
	"github.com/dmagro/btc-rpc-toolkit/internal/report"
	"github.com/dmagro/btc-rpc-toolkit/internal/status"
)

func statusCmd(flags *connFlags) *cobra.Command {
	var (
		parallel int
		format   string
		save     bool
		dir      string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Snapshot of chain, network, mempool and latest block",
		Long: `Query the node's chain state, network, mempool and latest block.

Each section is fetched independently; a failing section is reported in
place and does not hide the others. The command fails only when every
section fails.

Example:
  btcnode status
  btcnode status --parallel 4 --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cmd, flags)
			if err != nil {
				return err
			}

			st := status.NewCollector(client, client.URL(), parallel, zap.L()).Collect(cmd.Context())

			if save {
				path, err := report.WriteTimestamped(dir, "status", st)
				if err != nil {
					return fmt.Errorf("save status report: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to %s\n", path)
			}

			if err := render(cmd.OutOrStdout(), format, st, func(w io.Writer) { output.RenderStatus(w, st) }); err != nil {
				return err
			}
			return st.Err()
		},
	}

	cmd.Flags().IntVar(&parallel, "parallel", 1, "Number of sections to query concurrently")
	cmd.Flags().StringVar(&format, "format", "terminal", "Output format: terminal|json")
	cmd.Flags().BoolVar(&save, "save", false, "Also write the snapshot as a timestamped JSON report")
	cmd.Flags().StringVar(&dir, "dir", report.DefaultDir, "Directory for saved reports")

	return cmd
}
