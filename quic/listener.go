package quic

import (
	"context"
	"crypto/tls"
	"net"
)

// ListenAddrFunc creates a Listener on addr. Engine specific settings are
// bound by the engine package that provides the function.
type ListenAddrFunc func(addr string, tlsConfig *tls.Config) (Listener, error)

// Listener accepts incoming connections.
type Listener interface {
	// Accept waits for and returns the next incoming connection.
	Accept(ctx context.Context) (Connection, error)

	// Addr returns the listener's network address.
	Addr() net.Addr

	// Close closes the listener and stops accepting new connections.
	Close() error
}
