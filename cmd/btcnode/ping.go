package main

import (
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmagro/btc-rpc-toolkit/internal/metrics"
	"github.com/dmagro/btc-rpc-toolkit/internal/output"
)

func pingCmd(flags *connFlags) *cobra.Command {
	var (
		samples    int
		intervalMs int
		format     string
	)

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Measure RPC latency with repeated getblockcount calls",
		Long: `Call getblockcount repeatedly and report success rate, tail latency and a
health status (UP, SLOW, DEGRADED, DOWN).

Example:
  btcnode ping --samples 20 --interval 250`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cmd, flags)
			if err != nil {
				return err
			}

			interval := time.Duration(intervalMs) * time.Millisecond
			summary := metrics.NewProbe(client, samples, interval, zap.L()).Run(cmd.Context())
			return render(cmd.OutOrStdout(), format, summary, func(w io.Writer) { output.RenderProbe(w, client.URL(), summary) })
		},
	}

	cmd.Flags().IntVar(&samples, "samples", 10, "Number of calls to make")
	cmd.Flags().IntVar(&intervalMs, "interval", 100, "Interval between calls in milliseconds")
	cmd.Flags().StringVar(&format, "format", "terminal", "Output format: terminal|json")

	return cmd
}
