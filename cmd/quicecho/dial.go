package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"

	"github.com/okdaichi/h3quic/internal/echo"
	"github.com/okdaichi/h3quic/quic"
	"github.com/okdaichi/h3quic/quic/quicgo"
	"github.com/okdaichi/h3quic/webtransport/webtransportgo"
	"github.com/spf13/cobra"
)

func newDialCmd(a *app) *cobra.Command {
	defaults := DefaultConfig()

	cmd := &cobra.Command{
		Use:   "dial",
		Short: "Send a message and print its echo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDial(cmd.Context(), a.cfg, a.logger, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.String("message", defaults.Message, "message to echo")
	flags.Bool("datagram", false, "also echo the message as a datagram")
	flags.Bool("insecure", false, "skip server certificate verification")

	return cmd
}

func runDial(ctx context.Context, cfg *Config, logger *slog.Logger, out io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	conn, err := dial(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer conn.Close(0, nil)

	reply, err := echo.Ping(ctx, conn, []byte(cfg.Message))
	if err != nil {
		return fmt.Errorf("stream echo: %w", err)
	}
	fmt.Fprintf(out, "stream: %s\n", reply)

	if !cfg.Datagram {
		return nil
	}

	reply, err = echo.PingDatagram(ctx, conn, []byte(cfg.Message))
	if err != nil {
		return fmt.Errorf("datagram echo: %w", err)
	}
	fmt.Fprintf(out, "datagram: %s\n", reply)

	return nil
}

func dial(ctx context.Context, cfg *Config, logger *slog.Logger) (quic.Connection, error) {
	tlsConfig := &tls.Config{InsecureSkipVerify: cfg.Insecure}

	if cfg.Transport == transportWebTransport {
		d := &webtransportgo.Dialer{Logger: logger}
		rsp, conn, err := d.Dial(ctx, "https://"+cfg.Addr+cfg.Path, nil, tlsConfig)
		if err != nil {
			return nil, err
		}
		logger.Debug("established webtransport session",
			"status", rsp.StatusCode,
		)
		return conn, nil
	}

	tlsConfig.NextProtos = []string{echoALPN}
	engine := &quicgo.Engine{
		Config: &quicgo.Config{EnableDatagrams: cfg.Datagram},
		Logger: logger,
	}
	return engine.DialAddr(ctx, cfg.Addr, tlsConfig)
}
