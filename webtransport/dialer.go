package webtransport

import (
	"context"
	"crypto/tls"
	"net/http"

	"github.com/okdaichi/h3quic/quic"
)

// DialAddrFunc establishes a WebTransport session with the server at addr.
// It returns the HTTP response to the CONNECT request, the session as a
// poll-based connection, and any error. The response may be non-nil even
// when err is not.
type DialAddrFunc func(ctx context.Context, addr string, header http.Header, tlsConfig *tls.Config) (*http.Response, quic.Connection, error)
