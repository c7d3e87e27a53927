package quicmetrics

import (
	"sync/atomic"

	"github.com/okdaichi/h3quic/quic"
)

// Instrument returns conn reporting to m.
func Instrument(conn quic.Connection, m *Metrics) quic.Connection {
	m.Connections.Inc()
	return &connection{conn: conn, m: m, closed: new(atomic.Bool)}
}

var _ quic.Connection = (*connection)(nil)

type connection struct {
	conn quic.Connection
	m    *Metrics

	// closed is shared with openers so a connection is counted once.
	closed *atomic.Bool
}

func (c *connection) PollAcceptRecv(w quic.Waker) quic.Poll[quic.RecvStream] {
	p := c.conn.PollAcceptRecv(w)
	if str, err := p.Result(); p.IsReady() && !p.IsDone() && err == nil {
		c.m.Streams.WithLabelValues(originAccepted, kindUni).Inc()
		return quic.Ready[quic.RecvStream](&recvStream{str: str, m: c.m})
	}
	return p
}

func (c *connection) PollAcceptBidi(w quic.Waker) quic.Poll[quic.BidiStream] {
	p := c.conn.PollAcceptBidi(w)
	if str, err := p.Result(); p.IsReady() && !p.IsDone() && err == nil {
		c.m.Streams.WithLabelValues(originAccepted, kindBidi).Inc()
		return quic.Ready[quic.BidiStream](newBidiStream(str, c.m))
	}
	return p
}

func (c *connection) PollOpenBidi(w quic.Waker) quic.Poll[quic.BidiStream] {
	return pollOpenBidi(c.conn.PollOpenBidi(w), c.m)
}

func (c *connection) PollOpenSend(w quic.Waker) quic.Poll[quic.SendStream] {
	return pollOpenUni(c.conn.PollOpenSend(w), c.m)
}

func (c *connection) Opener() quic.OpenStreams {
	return &opener{opener: c.conn.Opener(), m: c.m, closed: c.closed}
}

func (c *connection) Close(code quic.Code, reason []byte) {
	countClose(c.closed, c.m)
	c.conn.Close(code, reason)
}

func (c *connection) PollAcceptDatagram(w quic.Waker) quic.Poll[[]byte] {
	p := c.conn.PollAcceptDatagram(w)
	if p.IsReady() && !p.IsDone() && p.Err() == nil {
		c.m.Datagrams.WithLabelValues(directionReceived).Inc()
	}
	return p
}

func (c *connection) SendDatagram(data []byte) error {
	err := c.conn.SendDatagram(data)
	if err != nil {
		c.m.DatagramFailures.WithLabelValues(datagramFailureReason(err)).Inc()
		return err
	}
	c.m.Datagrams.WithLabelValues(directionSent).Inc()
	return nil
}

var _ quic.OpenStreams = (*opener)(nil)

type opener struct {
	opener quic.OpenStreams
	m      *Metrics
	closed *atomic.Bool
}

func (o *opener) PollOpenBidi(w quic.Waker) quic.Poll[quic.BidiStream] {
	return pollOpenBidi(o.opener.PollOpenBidi(w), o.m)
}

func (o *opener) PollOpenUni(w quic.Waker) quic.Poll[quic.SendStream] {
	return pollOpenUni(o.opener.PollOpenUni(w), o.m)
}

func (o *opener) Close(code quic.Code, reason []byte) {
	countClose(o.closed, o.m)
	o.opener.Close(code, reason)
}

func countClose(closed *atomic.Bool, m *Metrics) {
	if !closed.Swap(true) {
		m.ConnectionCloses.Inc()
	}
}

func pollOpenBidi(p quic.Poll[quic.BidiStream], m *Metrics) quic.Poll[quic.BidiStream] {
	if str, err := p.Result(); p.IsReady() && !p.IsDone() && err == nil {
		m.Streams.WithLabelValues(originOpened, kindBidi).Inc()
		return quic.Ready[quic.BidiStream](newBidiStream(str, m))
	}
	return p
}

func pollOpenUni(p quic.Poll[quic.SendStream], m *Metrics) quic.Poll[quic.SendStream] {
	if str, err := p.Result(); p.IsReady() && !p.IsDone() && err == nil {
		m.Streams.WithLabelValues(originOpened, kindUni).Inc()
		return quic.Ready[quic.SendStream](&sendStream{str: str, m: m})
	}
	return p
}
