// Package webtransport defines the WebTransport entry points of h3quic.
//
// A WebTransport session multiplexes streams and datagrams over a single
// HTTP/3 connection. Sessions are exposed through the same poll-based
// quic.Connection contract as native QUIC connections, so protocol code
// runs unchanged on either transport.
//
// The webtransportgo subpackage implements the contracts on top of
// github.com/quic-go/webtransport-go:
//
//	server := webtransportgo.NewServer(":4433", tlsConfig, nil, nil)
//	server.Handle("/echo", webtransport.HandlerFunc(func(r *http.Request, conn quic.Connection) {
//		// drive conn
//	}))
//	if err := server.ListenAndServe(); err != nil {
//		log.Fatal(err)
//	}
//
// Dialing a session:
//
//	_, conn, err := webtransportgo.Dial(ctx, "https://example.com:4433/echo", nil, tlsConfig)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer conn.Close(0, nil)
//
// WebTransport error codes are 32 bits wide. Larger codes passed to Close,
// Reset or StopSending are clamped to math.MaxUint32.
package webtransport
