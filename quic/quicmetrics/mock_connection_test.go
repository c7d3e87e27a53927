package quicmetrics

import (
	"github.com/okdaichi/h3quic/quic"
	"github.com/stretchr/testify/mock"
)

var _ quic.Connection = (*MockConnection)(nil)

// MockConnection is a mock implementation of quic.Connection using testify/mock.
type MockConnection struct {
	mock.Mock
}

func (m *MockConnection) PollAcceptRecv(w quic.Waker) quic.Poll[quic.RecvStream] {
	args := m.Called(w)
	return args.Get(0).(quic.Poll[quic.RecvStream])
}

func (m *MockConnection) PollAcceptBidi(w quic.Waker) quic.Poll[quic.BidiStream] {
	args := m.Called(w)
	return args.Get(0).(quic.Poll[quic.BidiStream])
}

func (m *MockConnection) PollOpenBidi(w quic.Waker) quic.Poll[quic.BidiStream] {
	args := m.Called(w)
	return args.Get(0).(quic.Poll[quic.BidiStream])
}

func (m *MockConnection) PollOpenSend(w quic.Waker) quic.Poll[quic.SendStream] {
	args := m.Called(w)
	return args.Get(0).(quic.Poll[quic.SendStream])
}

func (m *MockConnection) Opener() quic.OpenStreams {
	args := m.Called()
	return args.Get(0).(quic.OpenStreams)
}

func (m *MockConnection) Close(code quic.Code, reason []byte) {
	m.Called(code, reason)
}

func (m *MockConnection) PollAcceptDatagram(w quic.Waker) quic.Poll[[]byte] {
	args := m.Called(w)
	return args.Get(0).(quic.Poll[[]byte])
}

func (m *MockConnection) SendDatagram(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

var _ quic.OpenStreams = (*MockOpener)(nil)

type MockOpener struct {
	mock.Mock
}

func (m *MockOpener) PollOpenBidi(w quic.Waker) quic.Poll[quic.BidiStream] {
	args := m.Called(w)
	return args.Get(0).(quic.Poll[quic.BidiStream])
}

func (m *MockOpener) PollOpenUni(w quic.Waker) quic.Poll[quic.SendStream] {
	args := m.Called(w)
	return args.Get(0).(quic.Poll[quic.SendStream])
}

func (m *MockOpener) Close(code quic.Code, reason []byte) {
	m.Called(code, reason)
}

var _ quic.BidiStream = (*fakeStream)(nil)

// fakeStream accepts every write in full and delivers chunks in order.
type fakeStream struct {
	id     quic.StreamID
	chunks [][]byte

	written   []byte
	resetCode *quic.Code
	stopCode  *quic.Code
}

func (s *fakeStream) PollSend(w quic.Waker, buf quic.Buf) quic.Poll[int] {
	n := buf.Remaining()
	for buf.Remaining() > 0 {
		chunk := buf.Chunk()
		s.written = append(s.written, chunk...)
		buf.Advance(len(chunk))
	}
	return quic.Ready(n)
}

func (s *fakeStream) PollFinish(w quic.Waker) quic.Poll[struct{}] {
	return quic.Ready(struct{}{})
}

func (s *fakeStream) Reset(code quic.Code) {
	s.resetCode = &code
}

func (s *fakeStream) SendID() quic.StreamID {
	return s.id
}

func (s *fakeStream) PollData(w quic.Waker) quic.Poll[[]byte] {
	if len(s.chunks) == 0 {
		return quic.Done[[]byte]()
	}
	chunk := s.chunks[0]
	s.chunks = s.chunks[1:]
	return quic.Ready(chunk)
}

func (s *fakeStream) StopSending(code quic.Code) {
	s.stopCode = &code
}

func (s *fakeStream) RecvID() quic.StreamID {
	return s.id
}

func (s *fakeStream) Split() (quic.SendStream, quic.RecvStream) {
	return s, s
}
