package quic

// Connection is a transport session multiplexing streams and datagrams.
//
// Every Poll method is non-blocking: it either completes or registers w and
// returns Pending. Access to one Connection is expected to be serialized;
// implementations may document stronger guarantees.
type Connection interface {
	// PollAcceptRecv accepts the next incoming unidirectional stream.
	// Done means no more streams will arrive because the connection is closing.
	PollAcceptRecv(w Waker) Poll[RecvStream]

	// PollAcceptBidi accepts the next incoming bidirectional stream.
	// Done means no more streams will arrive because the connection is closing.
	PollAcceptBidi(w Waker) Poll[BidiStream]

	// PollOpenBidi opens an outgoing bidirectional stream. It stays Pending
	// while stream limits block creation.
	PollOpenBidi(w Waker) Poll[BidiStream]

	// PollOpenSend opens an outgoing unidirectional stream. It stays Pending
	// while stream limits block creation.
	PollOpenSend(w Waker) Poll[SendStream]

	// Opener returns a handle that opens streams on this connection and can be
	// handed to another task.
	Opener() OpenStreams

	// Close terminates the connection immediately, sending code and reason to
	// the peer. It is idempotent. Pending and future polls on the connection
	// and its streams complete instead of hanging.
	Close(code Code, reason []byte)

	// PollAcceptDatagram receives the next datagram.
	// Done means no more datagrams will arrive.
	PollAcceptDatagram(w Waker) Poll[[]byte]

	// SendDatagram queues data as an unreliable datagram. It never blocks.
	// A non-nil error is a *SendDatagramError.
	SendDatagram(data []byte) error
}

// OpenStreams opens outgoing streams sharing the state of the connection it
// was obtained from.
type OpenStreams interface {
	// PollOpenBidi opens an outgoing bidirectional stream.
	PollOpenBidi(w Waker) Poll[BidiStream]

	// PollOpenUni opens an outgoing unidirectional stream.
	PollOpenUni(w Waker) Poll[SendStream]

	// Close terminates the underlying connection like Connection.Close.
	Close(code Code, reason []byte)
}
