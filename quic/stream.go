package quic

// SendStream is the write half of a stream.
type SendStream interface {
	// PollSend writes as much of buf as flow control and engine buffering allow,
	// advances buf by exactly the number of bytes accepted and returns that number.
	// When no byte can be accepted it returns Pending instead of zero.
	// While a send is pending, the same buf must be passed to the next poll.
	PollSend(w Waker, buf Buf) Poll[int]

	// PollFinish signals that no more data will be written and completes once
	// the engine has queued the end of the stream. Finishing is terminal.
	PollFinish(w Waker) Poll[struct{}]

	// Reset abruptly cancels the send half with code. It never blocks, is
	// terminal and may be called while a send or finish is pending.
	Reset(code Code)

	// SendID returns the ID of the stream.
	SendID() StreamID
}

// RecvStream is the read half of a stream.
type RecvStream interface {
	// PollData returns the next chunk of received data. The chunk is owned by
	// the caller. Once the peer finished the stream and every byte was
	// delivered, PollData returns Done, and keeps returning Done thereafter.
	PollData(w Waker) Poll[[]byte]

	// StopSending asks the peer to stop sending with code and stops local
	// delivery. It never blocks.
	StopSending(code Code)

	// RecvID returns the ID of the stream.
	RecvID() StreamID
}

// BidiStream is a bidirectional stream.
type BidiStream interface {
	SendStream
	RecvStream

	// Split separates the stream into halves that can be driven independently.
	// The BidiStream must not be used after Split.
	Split() (SendStream, RecvStream)
}
