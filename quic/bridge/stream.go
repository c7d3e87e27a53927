package bridge

import (
	"errors"
	"io"
	"sync/atomic"

	"github.com/okdaichi/h3quic/quic"
)

// ErrUncollectedWrite is reported by PollFinish while a write has completed
// but PollSend has not yet reported it. Poll PollSend with the same buffer,
// then finish again.
var ErrUncollectedWrite = errors.New("bridge: write completed but not yet reported by PollSend")

var _ quic.SendStream = (*sendStream)(nil)

type sendStream struct {
	sess      *session
	str       EngineSendStream
	chunkSize int

	write op[int]

	// err is a failure observed after a partial write, reported by the next poll.
	err      error
	finished bool
	reset    atomic.Bool
}

func newSendStream(sess *session, str EngineSendStream) *sendStream {
	return &sendStream{
		sess:      sess,
		str:       str,
		chunkSize: sess.config.writeChunkSize(),
	}
}

func (s *sendStream) PollSend(w quic.Waker, buf quic.Buf) quic.Poll[int] {
	if s.reset.Load() {
		return quic.Fail[int](quic.ErrStreamReset)
	}
	if s.finished {
		return quic.Fail[int](quic.ErrStreamFinished)
	}
	if s.err != nil {
		return quic.Fail[int](s.err)
	}
	if s.sess.isClosed() {
		s.sess.unpark(&s.write)
		return quic.Fail[int](quic.ErrConnectionClosed)
	}

	var write func() (int, error)
	if s.write.idle() {
		if buf.Remaining() == 0 {
			return quic.Ready(0)
		}

		chunk := buf.Chunk()
		if len(chunk) > s.chunkSize {
			chunk = chunk[:s.chunkSize]
		}
		// The engine may still hold the data after the caller abandoned the poll.
		data := append([]byte(nil), chunk...)
		write = func() (int, error) {
			return s.str.Write(data)
		}
	}

	n, ready, err := s.write.poll(w, write)
	if !ready {
		s.sess.park(w, &s.write)
		return quic.Pending[int]()
	}
	s.sess.unpark(&s.write)
	if s.reset.Load() {
		return quic.Fail[int](quic.ErrStreamReset)
	}

	if n > 0 {
		buf.Advance(n)
		if err != nil {
			s.err = s.sess.mapErr(err)
		}
		return quic.Ready(n)
	}
	if err != nil {
		s.err = s.sess.mapErr(err)
		return quic.Fail[int](s.err)
	}

	// The engine accepted nothing without failing. Try again rather than
	// report a zero-length write.
	return s.PollSend(w, buf)
}

func (s *sendStream) PollFinish(w quic.Waker) quic.Poll[struct{}] {
	if s.reset.Load() {
		return quic.Fail[struct{}](quic.ErrStreamReset)
	}
	if s.finished {
		return quic.Ready(struct{}{})
	}
	if s.err != nil {
		return quic.Fail[struct{}](s.err)
	}
	if s.sess.isClosed() {
		s.sess.unpark(&s.write)
		return quic.Fail[struct{}](quic.ErrConnectionClosed)
	}

	// The end of the stream must follow any data still being written.
	if s.write.busy(w) {
		s.sess.park(w, &s.write)
		return quic.Pending[struct{}]()
	}

	// A completed write belongs to PollSend, which advances the caller's buffer.
	// A failed write that accepted nothing has no count to report.
	if n, done, err := s.write.completed(); done {
		if n > 0 || err == nil {
			return quic.Fail[struct{}](ErrUncollectedWrite)
		}
		s.write.claim()
		s.sess.unpark(&s.write)
		s.err = s.sess.mapErr(err)
		return quic.Fail[struct{}](s.err)
	}

	if err := s.str.Close(); err != nil {
		s.err = s.sess.mapErr(err)
		return quic.Fail[struct{}](s.err)
	}
	s.finished = true

	s.sess.logger.Debug("finished stream",
		"stream_id", s.str.StreamID(),
	)

	return quic.Ready(struct{}{})
}

func (s *sendStream) Reset(code quic.Code) {
	if s.reset.Swap(true) {
		return
	}

	code = s.sess.validCode(code)
	s.str.CancelWrite(code)
	s.write.wake()
	s.sess.unpark(&s.write)

	s.sess.logger.Debug("reset stream",
		"stream_id", s.str.StreamID(),
		"code", uint64(code),
	)
}

func (s *sendStream) SendID() quic.StreamID {
	return s.str.StreamID()
}

var _ quic.RecvStream = (*recvStream)(nil)

type recvStream struct {
	sess      *session
	str       EngineReceiveStream
	chunkSize int

	read op[[]byte]
	// scratch is only touched by the read in flight.
	scratch []byte

	eos     bool
	err     error
	stopped atomic.Bool
}

func newRecvStream(sess *session, str EngineReceiveStream) *recvStream {
	return &recvStream{
		sess:      sess,
		str:       str,
		chunkSize: sess.config.readChunkSize(),
	}
}

func (s *recvStream) PollData(w quic.Waker) quic.Poll[[]byte] {
	if s.eos {
		return quic.Done[[]byte]()
	}
	if s.stopped.Load() {
		return quic.Fail[[]byte](quic.ErrStreamStopped)
	}
	if s.err != nil {
		return quic.Fail[[]byte](s.err)
	}
	if s.sess.isClosed() {
		s.sess.unpark(&s.read)
		return quic.Fail[[]byte](quic.ErrConnectionClosed)
	}

	chunk, ready, err := s.read.poll(w, s.readChunk)
	if !ready {
		s.sess.park(w, &s.read)
		return quic.Pending[[]byte]()
	}
	s.sess.unpark(&s.read)
	if s.stopped.Load() {
		return quic.Fail[[]byte](quic.ErrStreamStopped)
	}

	switch {
	case errors.Is(err, io.EOF):
		s.eos = true
	case err != nil:
		s.err = s.sess.mapErr(err)
	}

	if len(chunk) > 0 {
		return quic.Ready(chunk)
	}
	if s.eos {
		return quic.Done[[]byte]()
	}
	if s.err != nil {
		return quic.Fail[[]byte](s.err)
	}

	return s.PollData(w)
}

func (s *recvStream) readChunk() ([]byte, error) {
	if s.scratch == nil {
		s.scratch = make([]byte, s.chunkSize)
	}
	n, err := s.str.Read(s.scratch)
	if n == 0 {
		return nil, err
	}
	chunk := make([]byte, n)
	copy(chunk, s.scratch[:n])
	return chunk, err
}

func (s *recvStream) StopSending(code quic.Code) {
	if s.stopped.Swap(true) {
		return
	}

	code = s.sess.validCode(code)
	s.str.CancelRead(code)
	s.read.wake()
	s.sess.unpark(&s.read)

	s.sess.logger.Debug("stopped stream",
		"stream_id", s.str.StreamID(),
		"code", uint64(code),
	)
}

func (s *recvStream) RecvID() quic.StreamID {
	return s.str.StreamID()
}

var _ quic.BidiStream = (*bidiStream)(nil)

type bidiStream struct {
	*sendStream
	*recvStream
}

func newBidiStream(sess *session, str EngineStream) *bidiStream {
	return &bidiStream{
		sendStream: newSendStream(sess, str),
		recvStream: newRecvStream(sess, str),
	}
}

func (s *bidiStream) Split() (quic.SendStream, quic.RecvStream) {
	return s.sendStream, s.recvStream
}
