package quicmetrics

import (
	"context"
	"errors"
	"testing"

	"github.com/okdaichi/h3quic/quic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	return NewMetrics(prometheus.NewRegistry())
}

func TestNewMetrics(t *testing.T) {
	t.Run("nil registerer", func(t *testing.T) {
		assert.NotPanics(t, func() {
			NewMetrics(nil)
			NewMetrics(nil)
		})
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		NewMetrics(reg)
		assert.Panics(t, func() {
			NewMetrics(reg)
		})
	})
}

func TestInstrument(t *testing.T) {
	m := newTestMetrics(t)

	conn := &MockConnection{}
	conn.On("Close", quic.Code(3), []byte("bye")).Return()

	instrumented := Instrument(conn, m)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Connections))

	instrumented.Close(3, []byte("bye"))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ConnectionCloses))
	conn.AssertExpectations(t)
}

func TestConnection_CloseCountedOnce(t *testing.T) {
	m := newTestMetrics(t)

	conn := &MockConnection{}
	opener := &MockOpener{}
	conn.On("Close", mock.Anything, mock.Anything).Return()
	conn.On("Opener").Return(opener)
	opener.On("Close", mock.Anything, mock.Anything).Return()

	instrumented := Instrument(conn, m)
	instrumented.Close(0, nil)
	instrumented.Close(1, nil)
	instrumented.Opener().Close(2, nil)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ConnectionCloses))
	conn.AssertNumberOfCalls(t, "Close", 2)
	opener.AssertNumberOfCalls(t, "Close", 1)
}

func TestConnection_Streams(t *testing.T) {
	tests := map[string]struct {
		setup  func(conn *MockConnection, opener *MockOpener, str *fakeStream)
		poll   func(conn quic.Connection) bool
		origin string
		kind   string
		want   float64
	}{
		"accepted bidi": {
			setup: func(conn *MockConnection, opener *MockOpener, str *fakeStream) {
				conn.On("PollAcceptBidi", mock.Anything).Return(quic.Ready[quic.BidiStream](str))
			},
			poll: func(conn quic.Connection) bool {
				return quic.Await(context.Background(), conn.PollAcceptBidi).Err() == nil
			},
			origin: originAccepted,
			kind:   kindBidi,
			want:   1,
		},
		"accepted uni": {
			setup: func(conn *MockConnection, opener *MockOpener, str *fakeStream) {
				conn.On("PollAcceptRecv", mock.Anything).Return(quic.Ready[quic.RecvStream](str))
			},
			poll: func(conn quic.Connection) bool {
				return quic.Await(context.Background(), conn.PollAcceptRecv).Err() == nil
			},
			origin: originAccepted,
			kind:   kindUni,
			want:   1,
		},
		"opened bidi": {
			setup: func(conn *MockConnection, opener *MockOpener, str *fakeStream) {
				conn.On("PollOpenBidi", mock.Anything).Return(quic.Ready[quic.BidiStream](str))
			},
			poll: func(conn quic.Connection) bool {
				return quic.Await(context.Background(), conn.PollOpenBidi).Err() == nil
			},
			origin: originOpened,
			kind:   kindBidi,
			want:   1,
		},
		"opened uni": {
			setup: func(conn *MockConnection, opener *MockOpener, str *fakeStream) {
				conn.On("PollOpenSend", mock.Anything).Return(quic.Ready[quic.SendStream](str))
			},
			poll: func(conn quic.Connection) bool {
				return quic.Await(context.Background(), conn.PollOpenSend).Err() == nil
			},
			origin: originOpened,
			kind:   kindUni,
			want:   1,
		},
		"opened through opener": {
			setup: func(conn *MockConnection, opener *MockOpener, str *fakeStream) {
				conn.On("Opener").Return(opener)
				opener.On("PollOpenUni", mock.Anything).Return(quic.Ready[quic.SendStream](str))
			},
			poll: func(conn quic.Connection) bool {
				return quic.Await(context.Background(), conn.Opener().PollOpenUni).Err() == nil
			},
			origin: originOpened,
			kind:   kindUni,
			want:   1,
		},
		"failed accept": {
			setup: func(conn *MockConnection, opener *MockOpener, str *fakeStream) {
				conn.On("PollAcceptBidi", mock.Anything).Return(quic.Fail[quic.BidiStream](errors.New("closed")))
			},
			poll: func(conn quic.Connection) bool {
				return quic.Await(context.Background(), conn.PollAcceptBidi).Err() != nil
			},
			origin: originAccepted,
			kind:   kindBidi,
			want:   0,
		},
		"no more streams": {
			setup: func(conn *MockConnection, opener *MockOpener, str *fakeStream) {
				conn.On("PollAcceptRecv", mock.Anything).Return(quic.Done[quic.RecvStream]())
			},
			poll: func(conn quic.Connection) bool {
				return quic.Await(context.Background(), conn.PollAcceptRecv).IsDone()
			},
			origin: originAccepted,
			kind:   kindUni,
			want:   0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := newTestMetrics(t)
			conn := &MockConnection{}
			opener := &MockOpener{}
			tt.setup(conn, opener, &fakeStream{id: 4})

			assert.True(t, tt.poll(Instrument(conn, m)))
			assert.Equal(t, tt.want, testutil.ToFloat64(m.Streams.WithLabelValues(tt.origin, tt.kind)))
		})
	}
}

func TestConnection_PendingIsPassedThrough(t *testing.T) {
	m := newTestMetrics(t)

	conn := &MockConnection{}
	conn.On("PollOpenBidi", mock.Anything).Return(quic.Pending[quic.BidiStream]())

	p := Instrument(conn, m).PollOpenBidi(quic.WakerFunc(func() {}))
	assert.True(t, p.IsPending())
	assert.Equal(t, float64(0), testutil.ToFloat64(m.Streams.WithLabelValues(originOpened, kindBidi)))
}

func TestStream_Counters(t *testing.T) {
	ctx := context.Background()
	m := newTestMetrics(t)

	str := &fakeStream{id: 0, chunks: [][]byte{[]byte("abc"), []byte("de")}}
	conn := &MockConnection{}
	conn.On("PollOpenBidi", mock.Anything).Return(quic.Ready[quic.BidiStream](str))

	bidi, err := quic.Await(ctx, Instrument(conn, m).PollOpenBidi).Result()
	require.NoError(t, err)
	send, recv := bidi.Split()

	require.NoError(t, quic.WriteAll(ctx, send, quic.NewWriteBuf([]byte("hello"), []byte("!"))))
	assert.Equal(t, "hello!", string(str.written))
	assert.Equal(t, float64(6), testutil.ToFloat64(m.StreamBytes.WithLabelValues(directionSent)))

	data, err := quic.ReadAll(ctx, recv)
	require.NoError(t, err)
	assert.Equal(t, "abcde", string(data))
	assert.Equal(t, float64(5), testutil.ToFloat64(m.StreamBytes.WithLabelValues(directionReceived)))

	send.Reset(9)
	recv.StopSending(8)
	require.NotNil(t, str.resetCode)
	require.NotNil(t, str.stopCode)
	assert.Equal(t, quic.Code(9), *str.resetCode)
	assert.Equal(t, quic.Code(8), *str.stopCode)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StreamCancels.WithLabelValues(cancelReset)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StreamCancels.WithLabelValues(cancelStopSending)))

	assert.Equal(t, str.id, bidi.SendID())
	assert.Equal(t, str.id, bidi.RecvID())
}

func TestConnection_SendDatagram(t *testing.T) {
	tests := map[string]struct {
		err        error
		wantSent   float64
		wantReason string
	}{
		"sent": {
			err:      nil,
			wantSent: 1,
		},
		"unsupported by peer": {
			err:        quic.ErrDatagramUnsupportedByPeer,
			wantReason: "unsupported_by_peer",
		},
		"disabled": {
			err:        quic.ErrDatagramDisabled,
			wantReason: "disabled",
		},
		"too large": {
			err:        &quic.SendDatagramError{Kind: quic.DatagramTooLarge, MaxPayloadSize: 1200},
			wantReason: "too_large",
		},
		"connection lost": {
			err:        quic.ConnectionLost(quic.ErrConnectionClosed),
			wantReason: "connection_lost",
		},
		"other": {
			err:        errors.New("boom"),
			wantReason: "other",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := newTestMetrics(t)
			conn := &MockConnection{}
			conn.On("SendDatagram", []byte("ping")).Return(tt.err)

			err := Instrument(conn, m).SendDatagram([]byte("ping"))
			assert.Equal(t, tt.err, err)
			assert.Equal(t, tt.wantSent, testutil.ToFloat64(m.Datagrams.WithLabelValues(directionSent)))
			if tt.wantReason != "" {
				assert.Equal(t, float64(1), testutil.ToFloat64(m.DatagramFailures.WithLabelValues(tt.wantReason)))
			}
		})
	}
}

func TestConnection_PollAcceptDatagram(t *testing.T) {
	m := newTestMetrics(t)

	conn := &MockConnection{}
	conn.On("PollAcceptDatagram", mock.Anything).Return(quic.Ready([]byte("pong"))).Once()
	conn.On("PollAcceptDatagram", mock.Anything).Return(quic.Done[[]byte]())

	instrumented := Instrument(conn, m)

	data, err := quic.Await(context.Background(), instrumented.PollAcceptDatagram).Result()
	require.NoError(t, err)
	assert.Equal(t, "pong", string(data))

	assert.True(t, quic.Await(context.Background(), instrumented.PollAcceptDatagram).IsDone())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Datagrams.WithLabelValues(directionReceived)))
}
