package bridge

import (
	"context"
	"io"

	"github.com/okdaichi/h3quic/quic"
)

// EngineConn is the blocking connection API of a goroutine-based engine.
//
// Errors returned by an engine should already be mapped to the quic error
// types; anything else is classified with quic.AsError.
type EngineConn interface {
	// AcceptStream waits for and accepts the next incoming bidirectional stream.
	AcceptStream(ctx context.Context) (EngineStream, error)

	// AcceptUniStream waits for and accepts the next incoming unidirectional stream.
	AcceptUniStream(ctx context.Context) (EngineReceiveStream, error)

	// OpenStreamSync opens a new bidirectional stream, blocking until stream limits allow it.
	OpenStreamSync(ctx context.Context) (EngineStream, error)

	// OpenUniStreamSync opens a new unidirectional stream, blocking until stream limits allow it.
	OpenUniStreamSync(ctx context.Context) (EngineSendStream, error)

	// CloseWithError closes the connection with an error code and reason.
	CloseWithError(code quic.Code, reason string) error

	// Context is canceled when the connection is closed.
	Context() context.Context

	// SupportsDatagrams reports whether the peer negotiated datagram support.
	SupportsDatagrams() bool

	// SendDatagram queues an unreliable datagram.
	SendDatagram(b []byte) error

	// ReceiveDatagram waits for the next datagram.
	ReceiveDatagram(ctx context.Context) ([]byte, error)
}

// EngineSendStream is the blocking write half of an engine stream.
type EngineSendStream interface {
	io.Writer

	// Close finishes the stream.
	io.Closer

	StreamID() quic.StreamID

	// CancelWrite resets the stream with code. Pending writes return.
	CancelWrite(code quic.Code)
}

// EngineReceiveStream is the blocking read half of an engine stream.
// Read returns io.EOF once the peer finished the stream.
type EngineReceiveStream interface {
	io.Reader

	StreamID() quic.StreamID

	// CancelRead sends STOP_SENDING with code. Pending reads return.
	CancelRead(code quic.Code)
}

// EngineStream is a bidirectional engine stream.
type EngineStream interface {
	EngineSendStream
	EngineReceiveStream
}
