package quic

import (
	"errors"
	"fmt"
	"net"

	"github.com/quic-go/quic-go/quicvarint"
)

// Code is an application error code carried by a connection close,
// a stream reset or a stop-sending signal.
type Code uint64

// MaxCode is the largest code that fits in a QUIC variable-length integer.
const MaxCode Code = quicvarint.Max

// Valid reports whether the code can be sent on the wire.
func (c Code) Valid() bool {
	return c <= MaxCode
}

// Error is the classification surface every transport error exposes, so that
// callers can branch on timeouts and error codes without knowing the engine.
type Error interface {
	error

	// IsTimeout reports whether the error is an idle or handshake timeout.
	IsTimeout() bool

	// ErrCode returns the code carried by a connection close or a stream
	// stop/reset. ok is false when the error has no such code.
	ErrCode() (code Code, ok bool)
}

// AsError returns err as an Error.
// Errors that do not implement Error themselves are wrapped; net.Error
// timeouts are classified as timeouts. AsError(nil) returns nil.
func AsError(err error) Error {
	if err == nil {
		return nil
	}

	var qerr Error
	if errors.As(err, &qerr) {
		return qerr
	}

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return &TimeoutError{Err: err}
	}

	return &opaqueError{err: err}
}

// IsTimeout reports whether err is classified as a timeout.
func IsTimeout(err error) bool {
	qerr := AsError(err)
	return qerr != nil && qerr.IsTimeout()
}

// ErrCode returns the error code carried by err, if any.
func ErrCode(err error) (Code, bool) {
	qerr := AsError(err)
	if qerr == nil {
		return 0, false
	}
	return qerr.ErrCode()
}

var (
	// ErrConnectionClosed is returned by operations on a connection closed locally.
	ErrConnectionClosed Error = &localError{msg: "connection closed"}

	// ErrStreamFinished is returned when writing to a finished send half.
	ErrStreamFinished Error = &localError{msg: "stream finished"}

	// ErrStreamReset is returned when using a send half after a local reset.
	ErrStreamReset Error = &localError{msg: "stream reset"}

	// ErrStreamStopped is returned when reading from a receive half after stop-sending.
	ErrStreamStopped Error = &localError{msg: "stream stopped"}
)

type localError struct {
	msg string
}

func (e *localError) Error() string         { return "quic: " + e.msg }
func (e *localError) IsTimeout() bool       { return false }
func (e *localError) ErrCode() (Code, bool) { return 0, false }
func (e *localError) Is(target error) bool  { return target == net.ErrClosed }

type opaqueError struct {
	err error
}

func (e *opaqueError) Error() string         { return e.err.Error() }
func (e *opaqueError) Unwrap() error         { return e.err }
func (e *opaqueError) IsTimeout() bool       { return false }
func (e *opaqueError) ErrCode() (Code, bool) { return 0, false }

// ApplicationError is returned once a connection was closed with an
// application error code, by either endpoint.
type ApplicationError struct {
	Remote    bool
	ErrorCode Code
	Reason    []byte
}

func (e *ApplicationError) Error() string {
	side := "local"
	if e.Remote {
		side = "remote"
	}
	if len(e.Reason) == 0 {
		return fmt.Sprintf("quic: application error 0x%x (%s)", uint64(e.ErrorCode), side)
	}
	return fmt.Sprintf("quic: application error 0x%x (%s): %s", uint64(e.ErrorCode), side, e.Reason)
}

func (e *ApplicationError) IsTimeout() bool       { return false }
func (e *ApplicationError) ErrCode() (Code, bool) { return e.ErrorCode, true }
func (e *ApplicationError) Is(target error) bool  { return target == net.ErrClosed }

// TransportError is returned when a connection was closed by the transport
// itself, e.g. on a protocol violation.
type TransportError struct {
	Remote    bool
	FrameType uint64
	ErrorCode Code
	Message   string
}

func (e *TransportError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("quic: transport error 0x%x", uint64(e.ErrorCode))
	}
	return fmt.Sprintf("quic: transport error 0x%x: %s", uint64(e.ErrorCode), e.Message)
}

func (e *TransportError) IsTimeout() bool       { return false }
func (e *TransportError) ErrCode() (Code, bool) { return e.ErrorCode, true }
func (e *TransportError) Is(target error) bool  { return target == net.ErrClosed }

// StreamError is returned from a stream half that was reset or stopped.
type StreamError struct {
	StreamID  StreamID
	ErrorCode Code
	Remote    bool
}

func (e *StreamError) Error() string {
	verb := "canceled locally"
	if e.Remote {
		verb = "canceled by peer"
	}
	return fmt.Sprintf("quic: stream %d %s with error code %d", uint64(e.StreamID), verb, uint64(e.ErrorCode))
}

func (e *StreamError) IsTimeout() bool       { return false }
func (e *StreamError) ErrCode() (Code, bool) { return e.ErrorCode, true }

// TimeoutError is returned when a connection was idle for too long or the
// handshake did not complete in time.
type TimeoutError struct {
	Handshake bool
	Err       error
}

func (e *TimeoutError) Error() string {
	switch {
	case e.Err != nil:
		return "quic: timeout: " + e.Err.Error()
	case e.Handshake:
		return "quic: handshake timeout"
	default:
		return "quic: idle timeout"
	}
}

func (e *TimeoutError) Unwrap() error         { return e.Err }
func (e *TimeoutError) IsTimeout() bool       { return true }
func (e *TimeoutError) ErrCode() (Code, bool) { return 0, false }

// Timeout implements net.Error.
func (e *TimeoutError) Timeout() bool { return true }

// Temporary implements net.Error.
func (e *TimeoutError) Temporary() bool { return false }
