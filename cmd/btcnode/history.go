package main

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmagro/btc-rpc-toolkit/internal/history"
	"github.com/dmagro/btc-rpc-toolkit/internal/output"
)

const defaultArchive = "btcnode.db"

func historyCmd() *cobra.Command {
	var db string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse batch runs archived with --archive",
	}
	cmd.PersistentFlags().StringVar(&db, "db", defaultArchive, "SQLite archive path")

	var (
		limit      int
		listFormat string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List archived runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(cmd.Context(), db, zap.L())
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), listFormat, runs, func(w io.Writer) { output.RenderRuns(w, runs) })
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	list.Flags().StringVar(&listFormat, "format", "terminal", "Output format: terminal|json")

	var showFormat string
	show := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the full report of an archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(cmd.Context(), db, zap.L())
			if err != nil {
				return err
			}
			defer store.Close()

			rep, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), showFormat, rep, func(w io.Writer) { output.RenderBatch(w, rep) })
		},
	}
	show.Flags().StringVar(&showFormat, "format", "terminal", "Output format: terminal|json")

	cmd.AddCommand(list, show)
	return cmd
}
