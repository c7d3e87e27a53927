package webtransportgo

import (
	"errors"
	"math"

	"github.com/okdaichi/h3quic/quic"
	"github.com/okdaichi/h3quic/quic/quicgo"
	quicgo_webtransportgo "github.com/quic-go/webtransport-go"
)

// WrapError maps webtransport-go errors onto the quic error types.
// Errors of the underlying QUIC connection are mapped by quicgo.WrapError.
func WrapError(err error) error {
	return wrapStreamError(0, err)
}

// wrapStreamError is WrapError with the ID of the stream err was returned from.
func wrapStreamError(id quic.StreamID, err error) error {
	if err == nil {
		return nil
	}

	var (
		streamErr  *quicgo_webtransportgo.StreamError
		sessionErr *quicgo_webtransportgo.SessionError
	)

	switch {
	case errors.As(err, &streamErr):
		return &quic.StreamError{
			StreamID:  id,
			ErrorCode: quic.Code(streamErr.ErrorCode),
			Remote:    streamErr.Remote,
		}
	case errors.As(err, &sessionErr):
		return &quic.ApplicationError{
			Remote:    sessionErr.Remote,
			ErrorCode: quic.Code(sessionErr.ErrorCode),
			Reason:    []byte(sessionErr.Message),
		}
	default:
		return quicgo.WrapError(err)
	}
}

// clampCode narrows code to the 32 bits a WebTransport error code can hold.
func clampCode(code quic.Code) uint32 {
	if code > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(code)
}
