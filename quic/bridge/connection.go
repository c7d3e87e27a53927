package bridge

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/okdaichi/h3quic/quic"
)

var _ quic.Connection = (*Connection)(nil)

// Connection adapts an EngineConn to quic.Connection.
//
// Each blocking engine call runs on its own goroutine; polls only observe
// its outcome. Distinct operations may be polled from different goroutines,
// but a single operation kind must be driven by one task at a time.
type Connection struct {
	sess   *session
	opener *Opener

	acceptBidi op[EngineStream]
	acceptUni  op[EngineReceiveStream]
	datagrams  op[[]byte]
}

// NewConnection returns a Connection driving engine.
func NewConnection(engine EngineConn, config *Config) *Connection {
	sess := &session{
		engine: engine,
		config: config.Clone(),
		logger: config.logger(),
	}

	conn := &Connection{
		sess:   sess,
		opener: newOpener(sess),
	}
	return conn
}

func (c *Connection) PollAcceptRecv(w quic.Waker) quic.Poll[quic.RecvStream] {
	if c.sess.isClosed() {
		drain(c.sess, &c.acceptUni)
		return quic.Done[quic.RecvStream]()
	}

	str, ready, err := c.acceptUni.poll(w, func() (EngineReceiveStream, error) {
		return c.sess.engine.AcceptUniStream(c.sess.engine.Context())
	})
	if !ready {
		c.sess.park(w, &c.acceptUni)
		return quic.Pending[quic.RecvStream]()
	}
	c.sess.unpark(&c.acceptUni)
	if c.sess.isClosed() {
		if err == nil {
			c.sess.discard(str)
		}
		return quic.Done[quic.RecvStream]()
	}
	if err != nil {
		return quic.Fail[quic.RecvStream](quic.AsError(err))
	}

	c.sess.logger.Debug("accepted unidirectional stream",
		"stream_id", str.StreamID(),
	)

	return quic.Ready[quic.RecvStream](newRecvStream(c.sess, str))
}

func (c *Connection) PollAcceptBidi(w quic.Waker) quic.Poll[quic.BidiStream] {
	if c.sess.isClosed() {
		drain(c.sess, &c.acceptBidi)
		return quic.Done[quic.BidiStream]()
	}

	str, ready, err := c.acceptBidi.poll(w, func() (EngineStream, error) {
		return c.sess.engine.AcceptStream(c.sess.engine.Context())
	})
	if !ready {
		c.sess.park(w, &c.acceptBidi)
		return quic.Pending[quic.BidiStream]()
	}
	c.sess.unpark(&c.acceptBidi)
	if c.sess.isClosed() {
		if err == nil {
			c.sess.discard(str)
		}
		return quic.Done[quic.BidiStream]()
	}
	if err != nil {
		return quic.Fail[quic.BidiStream](quic.AsError(err))
	}

	c.sess.logger.Debug("accepted bidirectional stream",
		"stream_id", str.StreamID(),
	)

	return quic.Ready[quic.BidiStream](newBidiStream(c.sess, str))
}

func (c *Connection) PollOpenBidi(w quic.Waker) quic.Poll[quic.BidiStream] {
	return c.opener.PollOpenBidi(w)
}

func (c *Connection) PollOpenSend(w quic.Waker) quic.Poll[quic.SendStream] {
	return c.opener.PollOpenUni(w)
}

// Opener returns a new Opener sharing this connection.
// Openers hold no session resources until a poll on them is pending.
func (c *Connection) Opener() quic.OpenStreams {
	return newOpener(c.sess)
}

func (c *Connection) Close(code quic.Code, reason []byte) {
	c.sess.close(code, reason)
}

func (c *Connection) PollAcceptDatagram(w quic.Waker) quic.Poll[[]byte] {
	if c.sess.isClosed() || !c.sess.config.enableDatagrams() {
		return quic.Done[[]byte]()
	}

	data, ready, err := c.datagrams.poll(w, func() ([]byte, error) {
		return c.sess.engine.ReceiveDatagram(c.sess.engine.Context())
	})
	if !ready {
		c.sess.park(w, &c.datagrams)
		return quic.Pending[[]byte]()
	}
	c.sess.unpark(&c.datagrams)
	if c.sess.isClosed() {
		return quic.Done[[]byte]()
	}
	if err != nil {
		return quic.Fail[[]byte](quic.AsError(err))
	}

	return quic.Ready(data)
}

func (c *Connection) SendDatagram(data []byte) error {
	if c.sess.isClosed() {
		return quic.ConnectionLost(quic.ErrConnectionClosed)
	}
	if !c.sess.config.enableDatagrams() {
		return quic.ErrDatagramDisabled
	}
	if !c.sess.engine.SupportsDatagrams() {
		return quic.ErrDatagramUnsupportedByPeer
	}

	err := c.sess.engine.SendDatagram(data)
	if err == nil {
		return nil
	}

	var derr *quic.SendDatagramError
	if errors.As(err, &derr) {
		return derr
	}

	c.sess.logger.Debug("failed to send datagram",
		"error", err,
	)

	return quic.ConnectionLost(err)
}

var _ quic.OpenStreams = (*Opener)(nil)

// Opener opens streams on a Connection.
// Its pending opens are independent of the Connection's own.
type Opener struct {
	sess *session

	openBidi op[EngineStream]
	openUni  op[EngineSendStream]
}

func newOpener(sess *session) *Opener {
	return &Opener{sess: sess}
}

func (o *Opener) PollOpenBidi(w quic.Waker) quic.Poll[quic.BidiStream] {
	if o.sess.isClosed() {
		drain(o.sess, &o.openBidi)
		return quic.Fail[quic.BidiStream](quic.ErrConnectionClosed)
	}

	str, ready, err := o.openBidi.poll(w, func() (EngineStream, error) {
		return o.sess.engine.OpenStreamSync(o.sess.engine.Context())
	})
	if !ready {
		o.sess.park(w, &o.openBidi)
		return quic.Pending[quic.BidiStream]()
	}
	o.sess.unpark(&o.openBidi)
	if err != nil {
		return quic.Fail[quic.BidiStream](o.sess.mapErr(err))
	}
	if o.sess.isClosed() {
		o.sess.discard(str)
		return quic.Fail[quic.BidiStream](quic.ErrConnectionClosed)
	}

	o.sess.logger.Debug("opened bidirectional stream",
		"stream_id", str.StreamID(),
	)

	return quic.Ready[quic.BidiStream](newBidiStream(o.sess, str))
}

func (o *Opener) PollOpenUni(w quic.Waker) quic.Poll[quic.SendStream] {
	if o.sess.isClosed() {
		drain(o.sess, &o.openUni)
		return quic.Fail[quic.SendStream](quic.ErrConnectionClosed)
	}

	str, ready, err := o.openUni.poll(w, func() (EngineSendStream, error) {
		return o.sess.engine.OpenUniStreamSync(o.sess.engine.Context())
	})
	if !ready {
		o.sess.park(w, &o.openUni)
		return quic.Pending[quic.SendStream]()
	}
	o.sess.unpark(&o.openUni)
	if err != nil {
		return quic.Fail[quic.SendStream](o.sess.mapErr(err))
	}
	if o.sess.isClosed() {
		o.sess.discard(str)
		return quic.Fail[quic.SendStream](quic.ErrConnectionClosed)
	}

	o.sess.logger.Debug("opened unidirectional stream",
		"stream_id", str.StreamID(),
	)

	return quic.Ready[quic.SendStream](newSendStream(o.sess, str))
}

func (o *Opener) Close(code quic.Code, reason []byte) {
	o.sess.close(code, reason)
}

// session is the state shared by a Connection, its openers and its streams.
type session struct {
	engine EngineConn
	config *Config
	logger *slog.Logger

	closed    atomic.Bool
	closeOnce sync.Once

	mu     sync.Mutex
	parked map[waiter]struct{}
}

// waiter is an operation whose pending poll must be woken on close.
type waiter interface{ wake() }

func (s *session) isClosed() bool {
	return s.closed.Load()
}

// park registers o to be woken by close while a poll on it is pending.
// On a closed session w is woken at once so the caller polls again and
// observes the close.
func (s *session) park(w quic.Waker, o waiter) {
	s.mu.Lock()
	if !s.isClosed() {
		if s.parked == nil {
			s.parked = make(map[waiter]struct{})
		}
		s.parked[o] = struct{}{}
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if w != nil {
		w.Wake()
	}
}

// unpark removes o once its outcome was handed out or it ended.
func (s *session) unpark(o waiter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.parked, o)
}

func (s *session) close(code quic.Code, reason []byte) {
	s.closeOnce.Do(func() {
		s.closed.Store(true)

		code = s.validCode(code)
		if err := s.engine.CloseWithError(code, string(reason)); err != nil {
			s.logger.Debug("failed to close connection",
				"error", err,
			)
		}

		s.logger.Debug("closed connection",
			"code", uint64(code),
		)

		s.mu.Lock()
		parked := s.parked
		s.parked = nil
		s.mu.Unlock()

		for o := range parked {
			o.wake()
		}
	})
}

// drain discards a stream that o obtained but no poll handed out.
func drain[S any](sess *session, o *op[S]) {
	str, done, err := o.claim()
	if !done {
		return
	}
	sess.unpark(o)
	if err == nil {
		sess.discard(str)
	}
}

// discard cancels a stream the engine handed over after the session closed.
func (s *session) discard(str any) {
	if recv, ok := str.(EngineReceiveStream); ok {
		recv.CancelRead(0)
	}
	if send, ok := str.(EngineSendStream); ok {
		send.CancelWrite(0)
	}

	s.logger.Debug("discarded stream after close")
}

// validCode clamps codes that cannot be encoded on the wire.
func (s *session) validCode(code quic.Code) quic.Code {
	if code.Valid() {
		return code
	}
	s.logger.Warn("error code out of range",
		"code", uint64(code),
		"sent", uint64(quic.MaxCode),
	)
	return quic.MaxCode
}

// mapErr classifies an engine error. After a local close every failure is
// reported as quic.ErrConnectionClosed.
func (s *session) mapErr(err error) error {
	if s.isClosed() {
		return quic.ErrConnectionClosed
	}
	return quic.AsError(err)
}
