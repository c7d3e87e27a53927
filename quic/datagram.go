package quic

// SendDatagramErrorKind enumerates why an unreliable datagram could not be sent.
type SendDatagramErrorKind uint8

const (
	// DatagramUnsupportedByPeer means the peer did not negotiate datagram support.
	DatagramUnsupportedByPeer SendDatagramErrorKind = iota + 1

	// DatagramDisabled means datagram support is disabled in the local configuration.
	DatagramDisabled

	// DatagramTooLarge means the payload does not fit in a single datagram on the current path.
	DatagramTooLarge

	// DatagramConnectionLost means the underlying connection is gone.
	DatagramConnectionLost
)

var sendDatagramErrorTexts = map[SendDatagramErrorKind]string{
	DatagramUnsupportedByPeer: "datagrams not supported by peer",
	DatagramDisabled:          "datagram support disabled",
	DatagramTooLarge:          "datagram too large",
	DatagramConnectionLost:    "connection lost",
}

func (k SendDatagramErrorKind) String() string {
	return sendDatagramErrorTexts[k]
}

// SendDatagramError is returned by Connection.SendDatagram.
// Datagram failures are never timeouts; only a lost connection carries a code.
type SendDatagramError struct {
	Kind SendDatagramErrorKind

	// Err is the connection error, set only for DatagramConnectionLost.
	Err Error

	// MaxPayloadSize is the largest payload the path accepts, when the
	// engine reports it for DatagramTooLarge. Zero if unknown.
	MaxPayloadSize int64
}

var (
	ErrDatagramUnsupportedByPeer = &SendDatagramError{Kind: DatagramUnsupportedByPeer}
	ErrDatagramDisabled          = &SendDatagramError{Kind: DatagramDisabled}
	ErrDatagramTooLarge          = &SendDatagramError{Kind: DatagramTooLarge}
)

// ConnectionLost wraps err in a SendDatagramError of kind DatagramConnectionLost.
func ConnectionLost(err error) *SendDatagramError {
	return &SendDatagramError{Kind: DatagramConnectionLost, Err: AsError(err)}
}

func (e *SendDatagramError) Error() string {
	return "quic: " + e.Kind.String()
}

func (e *SendDatagramError) Unwrap() error {
	if e.Err == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is a SendDatagramError of the same kind.
func (e *SendDatagramError) Is(target error) bool {
	t, ok := target.(*SendDatagramError)
	return ok && t.Kind == e.Kind
}

func (e *SendDatagramError) IsTimeout() bool { return false }

func (e *SendDatagramError) ErrCode() (Code, bool) {
	if e.Kind == DatagramConnectionLost && e.Err != nil {
		return e.Err.ErrCode()
	}
	return 0, false
}
