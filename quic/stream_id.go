package quic

import (
	"fmt"

	"github.com/quic-go/quic-go/quicvarint"
)

// StreamID identifies a stream within the connection that produced it.
// The two low bits encode the initiator and the directionality.
type StreamID uint64

// InvalidStreamIDError is returned when a number cannot be a stream ID.
type InvalidStreamIDError struct {
	Value uint64
}

func (e *InvalidStreamIDError) Error() string {
	return fmt.Sprintf("quic: invalid stream id %d", e.Value)
}

func (e *InvalidStreamIDError) IsTimeout() bool       { return false }
func (e *InvalidStreamIDError) ErrCode() (Code, bool) { return 0, false }

// NewStreamID validates v, typically read off the wire, as a stream ID.
func NewStreamID(v uint64) (StreamID, error) {
	if v > quicvarint.Max {
		return 0, &InvalidStreamIDError{Value: v}
	}
	return StreamID(v), nil
}

// IsClientInitiated reports whether the client opened the stream.
func (id StreamID) IsClientInitiated() bool {
	return id&0x1 == 0
}

// IsBidirectional reports whether the stream carries data in both directions.
func (id StreamID) IsBidirectional() bool {
	return id&0x2 == 0
}

// Index returns the position of the stream among the streams of the same type.
func (id StreamID) Index() uint64 {
	return uint64(id) >> 2
}

func (id StreamID) String() string {
	return fmt.Sprintf("%d", uint64(id))
}
