package quicgo

import (
	"context"
	"crypto/tls"
	"log/slog"

	"github.com/okdaichi/h3quic/quic"
	"github.com/okdaichi/h3quic/quic/bridge"
	quicgo_quicgo "github.com/quic-go/quic-go"
)

// Engine binds quic-go settings to the quic.DialAddrFunc and
// quic.ListenAddrFunc shapes. The zero value is usable.
type Engine struct {
	// Config is passed to quic-go. Datagram support follows Config.EnableDatagrams.
	Config *Config

	// ReadChunkSize and WriteChunkSize bound the data moved per poll.
	// See bridge.Config.
	ReadChunkSize  int
	WriteChunkSize int

	// Logger receives connection and stream events.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

var (
	_ quic.DialAddrFunc   = (*Engine)(nil).DialAddr
	_ quic.ListenAddrFunc = (*Engine)(nil).ListenAddr
)

// DialAddr establishes a connection to addr.
func (e *Engine) DialAddr(ctx context.Context, addr string, tlsConfig *tls.Config) (quic.Connection, error) {
	conn, err := quicgo_quicgo.DialAddr(ctx, addr, tlsConfig, e.config())
	if err != nil {
		return nil, WrapError(err)
	}

	return e.Wrap(conn), nil
}

// ListenAddr creates a listener accepting connections on addr.
func (e *Engine) ListenAddr(addr string, tlsConfig *tls.Config) (quic.Listener, error) {
	ln, err := quicgo_quicgo.ListenAddr(addr, tlsConfig, e.config())
	if err != nil {
		return nil, WrapError(err)
	}

	return &listenerWrapper{listener: ln, engine: e}, nil
}

// Wrap returns conn as a poll-based quic.Connection.
func (e *Engine) Wrap(conn *quicgo_quicgo.Conn) quic.Connection {
	if conn == nil {
		return nil
	}

	logger := e.logger().With(
		"local_address", conn.LocalAddr(),
		"remote_address", conn.RemoteAddr(),
	)

	return bridge.NewConnection(&connWrapper{conn: conn}, &bridge.Config{
		EnableDatagrams: e.config() != nil && e.config().EnableDatagrams,
		ReadChunkSize:   e.readChunkSize(),
		WriteChunkSize:  e.writeChunkSize(),
		Logger:          logger,
	})
}

func (e *Engine) config() *Config {
	if e == nil {
		return nil
	}
	return e.Config
}

func (e *Engine) readChunkSize() int {
	if e == nil {
		return 0
	}
	return e.ReadChunkSize
}

func (e *Engine) writeChunkSize() int {
	if e == nil {
		return 0
	}
	return e.WriteChunkSize
}

func (e *Engine) logger() *slog.Logger {
	if e != nil && e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// DialAddr establishes a connection to addr with the given quic-go config.
func DialAddr(ctx context.Context, addr string, tlsConfig *tls.Config, config *Config) (quic.Connection, error) {
	return (&Engine{Config: config}).DialAddr(ctx, addr, tlsConfig)
}

// ListenAddr creates a listener on addr with the given quic-go config.
func ListenAddr(addr string, tlsConfig *tls.Config, config *Config) (quic.Listener, error) {
	return (&Engine{Config: config}).ListenAddr(addr, tlsConfig)
}

// WrapConnection returns conn as a poll-based quic.Connection.
// config must be the quic-go config conn was created with.
func WrapConnection(conn *quicgo_quicgo.Conn, config *Config) quic.Connection {
	return (&Engine{Config: config}).Wrap(conn)
}
