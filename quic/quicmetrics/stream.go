package quicmetrics

import (
	"github.com/okdaichi/h3quic/quic"
)

var _ quic.SendStream = (*sendStream)(nil)

type sendStream struct {
	str quic.SendStream
	m   *Metrics
}

func (s *sendStream) PollSend(w quic.Waker, buf quic.Buf) quic.Poll[int] {
	p := s.str.PollSend(w, buf)
	if n := p.Value(); p.IsReady() && n > 0 {
		s.m.StreamBytes.WithLabelValues(directionSent).Add(float64(n))
	}
	return p
}

func (s *sendStream) PollFinish(w quic.Waker) quic.Poll[struct{}] {
	return s.str.PollFinish(w)
}

func (s *sendStream) Reset(code quic.Code) {
	s.m.StreamCancels.WithLabelValues(cancelReset).Inc()
	s.str.Reset(code)
}

func (s *sendStream) SendID() quic.StreamID {
	return s.str.SendID()
}

var _ quic.RecvStream = (*recvStream)(nil)

type recvStream struct {
	str quic.RecvStream
	m   *Metrics
}

func (s *recvStream) PollData(w quic.Waker) quic.Poll[[]byte] {
	p := s.str.PollData(w)
	if n := len(p.Value()); p.IsReady() && n > 0 {
		s.m.StreamBytes.WithLabelValues(directionReceived).Add(float64(n))
	}
	return p
}

func (s *recvStream) StopSending(code quic.Code) {
	s.m.StreamCancels.WithLabelValues(cancelStopSending).Inc()
	s.str.StopSending(code)
}

func (s *recvStream) RecvID() quic.StreamID {
	return s.str.RecvID()
}

var _ quic.BidiStream = (*bidiStream)(nil)

type bidiStream struct {
	*sendStream
	*recvStream
}

func newBidiStream(str quic.BidiStream, m *Metrics) *bidiStream {
	send, recv := str.Split()
	return &bidiStream{
		sendStream: &sendStream{str: send, m: m},
		recvStream: &recvStream{str: recv, m: m},
	}
}

func (s *bidiStream) Split() (quic.SendStream, quic.RecvStream) {
	return s.sendStream, s.recvStream
}
