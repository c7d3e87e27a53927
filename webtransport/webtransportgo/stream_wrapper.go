package webtransportgo

import (
	"github.com/okdaichi/h3quic/quic"
	"github.com/okdaichi/h3quic/quic/bridge"
	quicgo_webtransportgo "github.com/quic-go/webtransport-go"
)

var _ bridge.EngineStream = (*streamWrapper)(nil)

type streamWrapper struct {
	stream *quicgo_webtransportgo.Stream
}

func (wrapper streamWrapper) StreamID() quic.StreamID {
	return quic.StreamID(wrapper.stream.StreamID())
}

func (wrapper streamWrapper) Read(b []byte) (int, error) {
	n, err := wrapper.stream.Read(b)
	return n, wrapStreamError(wrapper.StreamID(), err)
}

func (wrapper streamWrapper) Write(b []byte) (int, error) {
	n, err := wrapper.stream.Write(b)
	return n, wrapStreamError(wrapper.StreamID(), err)
}

func (wrapper streamWrapper) CancelRead(code quic.Code) {
	wrapper.stream.CancelRead(quicgo_webtransportgo.StreamErrorCode(clampCode(code)))
}

func (wrapper streamWrapper) CancelWrite(code quic.Code) {
	wrapper.stream.CancelWrite(quicgo_webtransportgo.StreamErrorCode(clampCode(code)))
}

func (wrapper streamWrapper) Close() error {
	return wrapStreamError(wrapper.StreamID(), wrapper.stream.Close())
}

/*
 *
 */
var _ bridge.EngineReceiveStream = (*receiveStreamWrapper)(nil)

type receiveStreamWrapper struct {
	stream *quicgo_webtransportgo.ReceiveStream
}

func (wrapper receiveStreamWrapper) StreamID() quic.StreamID {
	return quic.StreamID(wrapper.stream.StreamID())
}

func (wrapper receiveStreamWrapper) Read(b []byte) (int, error) {
	n, err := wrapper.stream.Read(b)
	return n, wrapStreamError(wrapper.StreamID(), err)
}

func (wrapper receiveStreamWrapper) CancelRead(code quic.Code) {
	wrapper.stream.CancelRead(quicgo_webtransportgo.StreamErrorCode(clampCode(code)))
}

/*
 *
 */
var _ bridge.EngineSendStream = (*sendStreamWrapper)(nil)

type sendStreamWrapper struct {
	stream *quicgo_webtransportgo.SendStream
}

func (wrapper sendStreamWrapper) StreamID() quic.StreamID {
	return quic.StreamID(wrapper.stream.StreamID())
}

func (wrapper sendStreamWrapper) Write(b []byte) (int, error) {
	n, err := wrapper.stream.Write(b)
	return n, wrapStreamError(wrapper.StreamID(), err)
}

func (wrapper sendStreamWrapper) CancelWrite(code quic.Code) {
	wrapper.stream.CancelWrite(quicgo_webtransportgo.StreamErrorCode(clampCode(code)))
}

func (wrapper sendStreamWrapper) Close() error {
	return wrapStreamError(wrapper.StreamID(), wrapper.stream.Close())
}
