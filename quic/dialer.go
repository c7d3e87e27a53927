package quic

import (
	"context"
	"crypto/tls"
)

// DialAddrFunc establishes a connection to a remote address. Engine specific
// settings are bound by the engine package that provides the function.
type DialAddrFunc func(ctx context.Context, addr string, tlsConfig *tls.Config) (Connection, error)
