// Package quic defines poll-based contracts for QUIC-like transports.
//
// Protocol code written against Connection, SendStream, RecvStream and
// BidiStream runs on any engine that implements them: native QUIC through
// the quicgo subpackage, or WebTransport sessions through
// webtransport/webtransportgo.
//
// # Polling
//
// Every potentially blocking operation is a Poll method taking a Waker. A
// poll either completes, with a value, an error, or Done, or it registers the
// waker and returns Pending. The waker is woken once the operation may make
// progress; the caller then polls again. Done is not an error: it reports the
// clean end of a sequence, such as the end of a stream or of incoming streams
// on a closing connection.
//
// Await drives a single poll from a goroutine:
//
//	str, err := quic.Await(ctx, conn.PollOpenBidi).Result()
//	if err != nil {
//		return err
//	}
//	send, recv := str.Split()
//	if err := quic.WriteAll(ctx, send, quic.NewWriteBuf(header, payload)); err != nil {
//		return err
//	}
//	if err := quic.Finish(ctx, send); err != nil {
//		return err
//	}
//	reply, err := quic.ReadAll(ctx, recv)
//
// # Errors
//
// Errors returned by engines implement Error, which classifies timeouts and
// exposes the application code of a connection close or stream cancellation.
// AsError, IsTimeout and ErrCode classify arbitrary errors. SendDatagram
// failures are *SendDatagramError values; compare them with errors.Is against
// ErrDatagramUnsupportedByPeer, ErrDatagramDisabled or ErrDatagramTooLarge.
//
// Codes are QUIC variable-length integers. Engines clamp larger values to
// MaxCode.
package quic
