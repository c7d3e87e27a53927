package quicgo

import (
	"errors"

	"github.com/okdaichi/h3quic/quic"
	quicgo_quicgo "github.com/quic-go/quic-go"
)

// WrapError maps quic-go errors onto the engine independent quic error types.
// Unknown errors, io.EOF included, are returned as is.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var (
		streamErr    *quicgo_quicgo.StreamError
		appErr       *quicgo_quicgo.ApplicationError
		transportErr *quicgo_quicgo.TransportError
		idleErr      *quicgo_quicgo.IdleTimeoutError
		handshakeErr *quicgo_quicgo.HandshakeTimeoutError
		datagramErr  *quicgo_quicgo.DatagramTooLargeError
	)

	switch {
	case errors.As(err, &streamErr):
		return &quic.StreamError{
			StreamID:  quic.StreamID(streamErr.StreamID),
			ErrorCode: quic.Code(streamErr.ErrorCode),
			Remote:    streamErr.Remote,
		}
	case errors.As(err, &appErr):
		return &quic.ApplicationError{
			Remote:    appErr.Remote,
			ErrorCode: quic.Code(appErr.ErrorCode),
			Reason:    []byte(appErr.ErrorMessage),
		}
	case errors.As(err, &transportErr):
		return &quic.TransportError{
			Remote:    transportErr.Remote,
			FrameType: transportErr.FrameType,
			ErrorCode: quic.Code(transportErr.ErrorCode),
			Message:   transportErr.ErrorMessage,
		}
	case errors.As(err, &idleErr):
		return &quic.TimeoutError{}
	case errors.As(err, &handshakeErr):
		return &quic.TimeoutError{Handshake: true}
	case errors.As(err, &datagramErr):
		return &quic.SendDatagramError{
			Kind:           quic.DatagramTooLarge,
			MaxPayloadSize: datagramErr.MaxDatagramPayloadSize,
		}
	default:
		return err
	}
}
