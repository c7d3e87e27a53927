package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/okdaichi/h3quic/internal/certs"
	"github.com/okdaichi/h3quic/internal/echo"
	"github.com/okdaichi/h3quic/quic"
	"github.com/okdaichi/h3quic/quic/quicgo"
	"github.com/okdaichi/h3quic/quic/quicmetrics"
	"github.com/okdaichi/h3quic/webtransport"
	"github.com/okdaichi/h3quic/webtransport/webtransportgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// echoALPN is negotiated on raw QUIC connections.
const echoALPN = "h3quic-echo"

func newServeCmd(a *app) *cobra.Command {
	defaults := DefaultConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Echo every stream and datagram received",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a.cfg, a.logger)
		},
	}

	flags := cmd.Flags()
	flags.String("cert", "", "certificate file (self-signed if empty)")
	flags.String("key", "", "private key file")
	flags.Bool("datagram", defaults.Datagram, "echo datagrams")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address")

	return cmd
}

func runServe(ctx context.Context, cfg *Config, logger *slog.Logger) error {
	cert, err := certs.Load(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return err
	}

	var metrics *quicmetrics.Metrics
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		metrics = quicmetrics.NewMetrics(reg)

		go serveMetrics(ctx, cfg.MetricsAddr, reg, logger)
	}

	instrument := func(conn quic.Connection) quic.Connection {
		if metrics == nil {
			return conn
		}
		return quicmetrics.Instrument(conn, metrics)
	}

	tlsConfig := &tls.Config{Certificates: []tls.Certificate{cert}}

	switch cfg.Transport {
	case transportWebTransport:
		return serveWebTransport(ctx, cfg, tlsConfig, instrument, logger)
	default:
		return serveQUIC(ctx, cfg, tlsConfig, instrument, logger)
	}
}

func serveQUIC(ctx context.Context, cfg *Config, tlsConfig *tls.Config,
	instrument func(quic.Connection) quic.Connection, logger *slog.Logger) error {
	tlsConfig.NextProtos = []string{echoALPN}

	engine := &quicgo.Engine{
		Config: &quicgo.Config{EnableDatagrams: cfg.Datagram},
		Logger: logger,
	}
	ln, err := engine.ListenAddr(cfg.Addr, tlsConfig)
	if err != nil {
		return err
	}
	defer ln.Close()

	logger.Info("listening",
		"address", ln.Addr(),
		"transport", transportQUIC,
	)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		conn = instrument(conn)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer conn.Close(0, nil)
			serveConn(ctx, conn, logger)
		}()
	}
}

func serveWebTransport(ctx context.Context, cfg *Config, tlsConfig *tls.Config,
	instrument func(quic.Connection) quic.Connection, logger *slog.Logger) error {
	server := webtransportgo.NewServer(cfg.Addr, tlsConfig, nil, func(r *http.Request) bool {
		return true
	})
	server.Logger = logger
	server.Handle(cfg.Path, webtransport.HandlerFunc(func(r *http.Request, conn quic.Connection) {
		serveConn(r.Context(), instrument(conn), logger)
	}))

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down server", "error", err)
		}
	}()

	logger.Info("listening",
		"address", cfg.Addr,
		"transport", transportWebTransport,
		"path", cfg.Path,
	)

	err := server.ListenAndServe()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func serveConn(ctx context.Context, conn quic.Connection, logger *slog.Logger) {
	err := echo.Serve(ctx, conn, logger)
	if err == nil || ctx.Err() != nil {
		return
	}

	if code, ok := quic.ErrCode(err); ok && code == 0 {
		logger.Debug("connection closed by peer")
		return
	}
	logger.Warn("connection ended", "error", err)
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		server.Close()
	}()

	logger.Info("serving metrics", "address", addr)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", "error", err)
	}
}
