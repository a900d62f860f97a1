package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dmagro/btc-rpc-toolkit/internal/output"
)

// configDoc is the JSON view of the effective config. The password is masked.
type configDoc struct {
	Host     string            `json:"host"`
	Port     int               `json:"port"`
	User     string            `json:"user"`
	Password string            `json:"password"`
	Timeout  int64             `json:"timeout_seconds"`
	URL      string            `json:"url"`
	Sources  map[string]string `json:"sources"`
}

func configCmd(flags *connFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved connection settings and their sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			doc := configDoc{
				Host:     cfg.Host,
				Port:     cfg.Port,
				User:     cfg.User,
				Password: output.MaskSecret(cfg.Password),
				Timeout:  int64(cfg.Timeout.Seconds()),
				URL:      cfg.URL(),
				Sources: map[string]string{
					"host":     cfg.Sources.Host.String(),
					"port":     cfg.Sources.Port.String(),
					"user":     cfg.Sources.User.String(),
					"password": cfg.Sources.Password.String(),
					"timeout":  cfg.Sources.Timeout.String(),
				},
			}
			return render(cmd.OutOrStdout(), format, doc, func(w io.Writer) { output.RenderConfig(w, cfg) })
		},
	}

	cmd.Flags().StringVar(&format, "format", "terminal", "Output format: terminal|json")
	return cmd
}
