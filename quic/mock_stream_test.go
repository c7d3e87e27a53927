package quic

import (
	"github.com/stretchr/testify/mock"
)

var _ SendStream = (*MockSendStream)(nil)

// MockSendStream is a mock implementation of SendStream using testify/mock.
// PollSendFunc, when set, replaces the recorded call of PollSend.
type MockSendStream struct {
	mock.Mock
	PollSendFunc func(w Waker, buf Buf) Poll[int]
}

func (m *MockSendStream) PollSend(w Waker, buf Buf) Poll[int] {
	if m.PollSendFunc != nil {
		return m.PollSendFunc(w, buf)
	}
	args := m.Called(w, buf)
	return args.Get(0).(Poll[int])
}

func (m *MockSendStream) PollFinish(w Waker) Poll[struct{}] {
	args := m.Called(w)
	return args.Get(0).(Poll[struct{}])
}

func (m *MockSendStream) Reset(code Code) {
	m.Called(code)
}

func (m *MockSendStream) SendID() StreamID {
	args := m.Called()
	return args.Get(0).(StreamID)
}

var _ RecvStream = (*MockRecvStream)(nil)

// MockRecvStream is a mock implementation of RecvStream.
// Chunks are delivered in order, followed by Err or, if nil, Done.
type MockRecvStream struct {
	mock.Mock
	Chunks [][]byte
	Err    error
}

func (m *MockRecvStream) PollData(w Waker) Poll[[]byte] {
	if len(m.Chunks) > 0 {
		chunk := m.Chunks[0]
		m.Chunks = m.Chunks[1:]
		return Ready(chunk)
	}
	if m.Err != nil {
		return Fail[[]byte](m.Err)
	}
	return Done[[]byte]()
}

func (m *MockRecvStream) StopSending(code Code) {
	m.Called(code)
}

func (m *MockRecvStream) RecvID() StreamID {
	args := m.Called()
	return args.Get(0).(StreamID)
}
