package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmagro/btc-rpc-toolkit/internal/output"
	"github.com/dmagro/btc-rpc-toolkit/internal/rpc"
)

// queryCmd builds a single-call command. run performs the query and returns
// the value to print plus its terminal renderer.
func queryCmd(
	flags *connFlags,
	use, short string,
	args cobra.PositionalArgs,
	run func(cmd *cobra.Command, client *rpc.Client, args []string) (interface{}, func(io.Writer), error),
) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cmd, flags)
			if err != nil {
				return err
			}
			v, terminal, err := run(cmd, client, args)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), format, v, terminal)
		},
	}

	cmd.Flags().StringVar(&format, "format", "terminal", "Output format: terminal|json")
	return cmd
}

func infoCmd(flags *connFlags) *cobra.Command {
	return queryCmd(flags, "info", "Show blockchain state (getblockchaininfo)", cobra.NoArgs,
		func(cmd *cobra.Command, client *rpc.Client, _ []string) (interface{}, func(io.Writer), error) {
			info, err := client.GetBlockchainInfo(cmd.Context())
			if err != nil {
				return nil, nil, err
			}
			return info, func(w io.Writer) { output.RenderBlockchainInfo(w, info) }, nil
		})
}

func networkCmd(flags *connFlags) *cobra.Command {
	return queryCmd(flags, "network", "Show network state (getnetworkinfo)", cobra.NoArgs,
		func(cmd *cobra.Command, client *rpc.Client, _ []string) (interface{}, func(io.Writer), error) {
			info, err := client.GetNetworkInfo(cmd.Context())
			if err != nil {
				return nil, nil, err
			}
			return info, func(w io.Writer) { output.RenderNetworkInfo(w, info) }, nil
		})
}

func mempoolCmd(flags *connFlags) *cobra.Command {
	return queryCmd(flags, "mempool", "Show mempool statistics (getmempoolinfo)", cobra.NoArgs,
		func(cmd *cobra.Command, client *rpc.Client, _ []string) (interface{}, func(io.Writer), error) {
			info, err := client.GetMempoolInfo(cmd.Context())
			if err != nil {
				return nil, nil, err
			}
			return info, func(w io.Writer) { output.RenderMempoolInfo(w, info) }, nil
		})
}

func peersCmd(flags *connFlags) *cobra.Command {
	return queryCmd(flags, "peers", "List connected peers (getpeerinfo)", cobra.NoArgs,
		func(cmd *cobra.Command, client *rpc.Client, _ []string) (interface{}, func(io.Writer), error) {
			peers, err := client.GetPeerInfo(cmd.Context())
			if err != nil {
				return nil, nil, err
			}
			return peers, func(w io.Writer) { output.RenderPeers(w, peers) }, nil
		})
}

func feeCmd(flags *connFlags) *cobra.Command {
	var confTarget int64

	cmd := queryCmd(flags, "fee", "Estimate a fee rate (estimatesmartfee)", cobra.NoArgs,
		func(cmd *cobra.Command, client *rpc.Client, _ []string) (interface{}, func(io.Writer), error) {
			if confTarget < 1 {
				return nil, nil, fmt.Errorf("--conf-target must be at least 1")
			}
			fee, err := client.EstimateSmartFee(cmd.Context(), confTarget)
			if err != nil {
				return nil, nil, err
			}
			return fee, func(w io.Writer) { output.RenderFeeEstimate(w, confTarget, fee) }, nil
		})

	cmd.Flags().Int64Var(&confTarget, "conf-target", 6, "Confirmation target in blocks")
	return cmd
}

func blockCmd(flags *connFlags) *cobra.Command {
	cmd := queryCmd(flags, "block <height>", "Show the block at a height", cobra.ExactArgs(1),
		func(cmd *cobra.Command, client *rpc.Client, args []string) (interface{}, func(io.Writer), error) {
			height, err := rpc.ParseHeight(args[0])
			if err != nil {
				return nil, nil, err
			}
			hash, err := client.GetBlockHash(cmd.Context(), height)
			if err != nil {
				return nil, nil, err
			}
			block, err := client.GetBlock(cmd.Context(), hash)
			if err != nil {
				return nil, nil, err
			}
			return block, func(w io.Writer) { output.RenderBlock(w, block) }, nil
		})
	cmd.Example = "  btcnode block 840000\n  btcnode block 840,000"
	return cmd
}

func latestCmd(flags *connFlags) *cobra.Command {
	return queryCmd(flags, "latest", "Show the chain tip block", cobra.NoArgs,
		func(cmd *cobra.Command, client *rpc.Client, _ []string) (interface{}, func(io.Writer), error) {
			hash, err := client.GetBestBlockHash(cmd.Context())
			if err != nil {
				return nil, nil, err
			}
			block, err := client.GetBlock(cmd.Context(), hash)
			if err != nil {
				return nil, nil, err
			}
			return block, func(w io.Writer) { output.RenderBlock(w, block) }, nil
		})
}

func txCmd(flags *connFlags) *cobra.Command {
	return queryCmd(flags, "tx <txid>", "Show a decoded transaction (getrawtransaction)", cobra.ExactArgs(1),
		func(cmd *cobra.Command, client *rpc.Client, args []string) (interface{}, func(io.Writer), error) {
			tx, err := client.GetRawTransaction(cmd.Context(), args[0])
			if err != nil {
				return nil, nil, err
			}
			return tx, func(w io.Writer) { output.RenderTransaction(w, tx) }, nil
		})
}
