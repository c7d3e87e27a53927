package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// app is the state shared by the subcommands once flags are parsed.
type app struct {
	configPath string

	cfg    *Config
	logger *slog.Logger
	closer io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	defaults := DefaultConfig()

	cmd := &cobra.Command{
		Use:           "quicecho",
		Short:         "Echo streams and datagrams over QUIC or WebTransport",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(a.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger, a.closer = NewLogger(cfg.Log, cmd.ErrOrStderr())
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (env "+envPrefix+"_CONFIG)")
	flags.String("addr", defaults.Addr, "address to serve or dial")
	flags.String("transport", defaults.Transport, "transport: quic|webtransport")
	flags.String("path", defaults.Path, "WebTransport endpoint path")
	flags.Duration("timeout", defaults.Timeout, "dial timeout")
	flags.String("log-level", defaults.Log.Level, "log level: debug|info|warn|error")
	flags.String("log-format", defaults.Log.Format, "log format: text|json")
	flags.String("log-file", "", "write logs to a rotated file instead of stderr")

	cmd.AddCommand(newServeCmd(a), newDialCmd(a))

	return cmd
}
