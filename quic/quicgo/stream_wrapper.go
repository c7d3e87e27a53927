package quicgo

import (
	"github.com/okdaichi/h3quic/quic"
	"github.com/okdaichi/h3quic/quic/bridge"
	quicgo_quicgo "github.com/quic-go/quic-go"
)

var _ bridge.EngineStream = (*rawQuicStream)(nil)

type rawQuicStream struct {
	stream *quicgo_quicgo.Stream
}

func (wrapper rawQuicStream) StreamID() quic.StreamID {
	return quic.StreamID(wrapper.stream.StreamID())
}

func (wrapper rawQuicStream) Read(b []byte) (int, error) {
	n, err := wrapper.stream.Read(b)
	return n, WrapError(err)
}

func (wrapper rawQuicStream) Write(b []byte) (int, error) {
	n, err := wrapper.stream.Write(b)
	return n, WrapError(err)
}

func (wrapper rawQuicStream) CancelRead(code quic.Code) {
	wrapper.stream.CancelRead(quicgo_quicgo.StreamErrorCode(code))
}

func (wrapper rawQuicStream) CancelWrite(code quic.Code) {
	wrapper.stream.CancelWrite(quicgo_quicgo.StreamErrorCode(code))
}

func (wrapper rawQuicStream) Close() error {
	return WrapError(wrapper.stream.Close())
}

/*
 *
 */
var _ bridge.EngineReceiveStream = (*rawQuicReceiveStream)(nil)

type rawQuicReceiveStream struct {
	stream *quicgo_quicgo.ReceiveStream
}

func (wrapper rawQuicReceiveStream) StreamID() quic.StreamID {
	return quic.StreamID(wrapper.stream.StreamID())
}

func (wrapper rawQuicReceiveStream) Read(b []byte) (int, error) {
	n, err := wrapper.stream.Read(b)
	return n, WrapError(err)
}

func (wrapper rawQuicReceiveStream) CancelRead(code quic.Code) {
	wrapper.stream.CancelRead(quicgo_quicgo.StreamErrorCode(code))
}

/*
 *
 */
var _ bridge.EngineSendStream = (*rawQuicSendStream)(nil)

type rawQuicSendStream struct {
	stream *quicgo_quicgo.SendStream
}

func (wrapper rawQuicSendStream) StreamID() quic.StreamID {
	return quic.StreamID(wrapper.stream.StreamID())
}

func (wrapper rawQuicSendStream) Write(b []byte) (int, error) {
	n, err := wrapper.stream.Write(b)
	return n, WrapError(err)
}

func (wrapper rawQuicSendStream) CancelWrite(code quic.Code) {
	wrapper.stream.CancelWrite(quicgo_quicgo.StreamErrorCode(code))
}

func (wrapper rawQuicSendStream) Close() error {
	return WrapError(wrapper.stream.Close())
}
