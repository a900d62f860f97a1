package main

import (
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmagro/btc-rpc-toolkit/internal/config"
	"github.com/dmagro/btc-rpc-toolkit/internal/output"
	"github.com/dmagro/btc-rpc-toolkit/internal/rpc"
)

// overrides turns the flags the user actually set into config overrides.
func (f *connFlags) overrides(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	changed := cmd.Flags().Changed

	if changed("host") {
		o.Host = &f.host
	}
	if changed("port") {
		o.Port = &f.port
	}
	if changed("user") {
		o.User = &f.user
	}
	if changed("password") {
		o.Password = &f.password
	}
	if changed("timeout") {
		d := time.Duration(f.timeout) * time.Second
		o.Timeout = &d
	}
	return o
}

func loadConfig(cmd *cobra.Command, f *connFlags) (config.EffectiveConfig, error) {
	return config.Load(f.overrides(cmd), f.conf)
}

func buildClient(cmd *cobra.Command, f *connFlags) (*rpc.Client, error) {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return nil, err
	}
	return rpc.NewClient(cfg, rpc.WithLogger(zap.L().Named("rpc"))), nil
}

// render writes v as JSON or hands it to the terminal renderer.
func render(w io.Writer, format string, v interface{}, terminal func(io.Writer)) error {
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	if f == output.FormatJSON {
		return output.WriteJSON(w, v)
	}
	terminal(w)
	return nil
}
