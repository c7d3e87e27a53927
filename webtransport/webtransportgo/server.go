package webtransportgo

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net"
	"net/http"

	"github.com/okdaichi/h3quic/quic"
	"github.com/okdaichi/h3quic/quic/bridge"
	"github.com/okdaichi/h3quic/quic/quicgo"
	"github.com/okdaichi/h3quic/webtransport"
	"github.com/quic-go/quic-go/http3"
	quicgo_webtransportgo "github.com/quic-go/webtransport-go"
)

// NewServer returns a WebTransport server listening on addr.
// checkOrigin may be nil, in which case same-origin requests are accepted.
func NewServer(addr string, tlsConfig *tls.Config, quicConfig *quicgo.Config, checkOrigin func(r *http.Request) bool) *Server {
	mux := http.NewServeMux()
	wtserver := &quicgo_webtransportgo.Server{
		H3: http3.Server{
			Addr:       addr,
			TLSConfig:  tlsConfig,
			QUICConfig: quicConfig,
			Handler:    mux,
		},
		CheckOrigin: checkOrigin,
	}

	return &Server{
		server: wtserver,
		mux:    mux,
	}
}

// WrapServer wraps an existing webtransport-go server.
// Handle only works if server.H3.Handler is nil or an *http.ServeMux.
func WrapServer(server *quicgo_webtransportgo.Server) *Server {
	mux, ok := server.H3.Handler.(*http.ServeMux)
	if !ok && server.H3.Handler == nil {
		mux = http.NewServeMux()
		server.H3.Handler = mux
	}
	return &Server{
		server: server,
		mux:    mux,
	}
}

var _ webtransport.Server = (*Server)(nil)

// Server serves WebTransport sessions as poll-based connections.
type Server struct {
	// ReadChunkSize and WriteChunkSize are passed to the bridge.
	ReadChunkSize  int
	WriteChunkSize int

	// Logger receives session events.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	server *quicgo_webtransportgo.Server
	mux    *http.ServeMux
}

func (s *Server) Handle(path string, handler webtransport.Handler) {
	if s.mux == nil {
		s.logger().Error("cannot register handler on a foreign http handler",
			"path", path,
		)
		return
	}

	s.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.Upgrade(w, r)
		if err != nil {
			s.logger().Error("failed to upgrade http to webtransport",
				"remote_address", r.RemoteAddr,
				"error", err,
			)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		handler.ServeWebTransport(r, conn)

		conn.Close(0, nil)
	})
}

func (s *Server) Upgrade(w http.ResponseWriter, r *http.Request) (quic.Connection, error) {
	wtsess, err := s.server.Upgrade(w, r)
	if err != nil {
		return nil, err
	}

	s.logger().Debug("accepted webtransport session",
		"remote_address", r.RemoteAddr,
		"path", r.URL.Path,
	)

	return wrapSession(wtsess, &bridge.Config{
		ReadChunkSize:  s.ReadChunkSize,
		WriteChunkSize: s.WriteChunkSize,
		Logger:         s.logger(),
	}), nil
}

func (s *Server) Serve(conn net.PacketConn) error {
	return s.server.Serve(conn)
}

func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

func (s *Server) Close() error {
	return s.server.Close()
}

// Shutdown closes the server, returning early with ctx.Err() if ctx ends first.
func (s *Server) Shutdown(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
