package quicgo

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/okdaichi/h3quic/quic"
	quicgo_quicgo "github.com/quic-go/quic-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapError(t *testing.T) {
	tests := map[string]struct {
		err   error
		check func(t *testing.T, err error)
	}{
		"nil": {
			err: nil,
			check: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		"eof passes through": {
			err: io.EOF,
			check: func(t *testing.T, err error) {
				assert.Equal(t, io.EOF, err)
			},
		},
		"stream error": {
			err: &quicgo_quicgo.StreamError{StreamID: 4, ErrorCode: 42, Remote: true},
			check: func(t *testing.T, err error) {
				var streamErr *quic.StreamError
				require.ErrorAs(t, err, &streamErr)
				assert.Equal(t, quic.StreamID(4), streamErr.StreamID)
				assert.Equal(t, quic.Code(42), streamErr.ErrorCode)
				assert.True(t, streamErr.Remote)
			},
		},
		"application error": {
			err: &quicgo_quicgo.ApplicationError{Remote: true, ErrorCode: 0x10, ErrorMessage: "going away"},
			check: func(t *testing.T, err error) {
				var appErr *quic.ApplicationError
				require.ErrorAs(t, err, &appErr)
				assert.True(t, appErr.Remote)
				assert.Equal(t, quic.Code(0x10), appErr.ErrorCode)
				assert.Equal(t, "going away", string(appErr.Reason))
			},
		},
		"wrapped application error": {
			err: fmt.Errorf("dial: %w", &quicgo_quicgo.ApplicationError{ErrorCode: 3}),
			check: func(t *testing.T, err error) {
				code, ok := quic.ErrCode(err)
				assert.True(t, ok)
				assert.Equal(t, quic.Code(3), code)
			},
		},
		"transport error": {
			err: &quicgo_quicgo.TransportError{
				ErrorCode:    quicgo_quicgo.ProtocolViolation,
				FrameType:    0x08,
				ErrorMessage: "bad frame",
			},
			check: func(t *testing.T, err error) {
				var transportErr *quic.TransportError
				require.ErrorAs(t, err, &transportErr)
				assert.Equal(t, quic.Code(quicgo_quicgo.ProtocolViolation), transportErr.ErrorCode)
				assert.Equal(t, uint64(0x08), transportErr.FrameType)
				assert.Equal(t, "bad frame", transportErr.Message)
			},
		},
		"idle timeout": {
			err: &quicgo_quicgo.IdleTimeoutError{},
			check: func(t *testing.T, err error) {
				assert.True(t, quic.IsTimeout(err))

				var timeoutErr *quic.TimeoutError
				require.ErrorAs(t, err, &timeoutErr)
				assert.False(t, timeoutErr.Handshake)
			},
		},
		"handshake timeout": {
			err: &quicgo_quicgo.HandshakeTimeoutError{},
			check: func(t *testing.T, err error) {
				assert.True(t, quic.IsTimeout(err))

				var timeoutErr *quic.TimeoutError
				require.ErrorAs(t, err, &timeoutErr)
				assert.True(t, timeoutErr.Handshake)
			},
		},
		"datagram too large": {
			err: &quicgo_quicgo.DatagramTooLargeError{MaxDatagramPayloadSize: 1200},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, quic.ErrDatagramTooLarge)

				var datagramErr *quic.SendDatagramError
				require.ErrorAs(t, err, &datagramErr)
				assert.Equal(t, int64(1200), datagramErr.MaxPayloadSize)
			},
		},
		"unknown error": {
			err: errors.New("boom"),
			check: func(t *testing.T, err error) {
				assert.EqualError(t, err, "boom")
				assert.False(t, quic.IsTimeout(err))
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tt.check(t, WrapError(tt.err))
		})
	}
}
