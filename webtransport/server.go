package webtransport

import (
	"context"
	"net"
	"net/http"

	"github.com/okdaichi/h3quic/quic"
)

// Server accepts WebTransport sessions over HTTP/3.
type Server interface {
	// Handle registers handler for sessions requested on path.
	Handle(path string, handler Handler)

	// Upgrade turns an extended CONNECT request into a session.
	Upgrade(w http.ResponseWriter, r *http.Request) (quic.Connection, error)

	Serve(conn net.PacketConn) error
	ListenAndServe() error
	Close() error
	Shutdown(context.Context) error
}

// Handler serves an upgraded session.
// The session is closed by the server after ServeWebTransport returns,
// unless the handler closed it first.
type Handler interface {
	ServeWebTransport(r *http.Request, conn quic.Connection)
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(r *http.Request, conn quic.Connection)

func (f HandlerFunc) ServeWebTransport(r *http.Request, conn quic.Connection) {
	f(r, conn)
}
