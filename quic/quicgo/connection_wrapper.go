package quicgo

import (
	"context"

	"github.com/okdaichi/h3quic/quic"
	"github.com/okdaichi/h3quic/quic/bridge"
	quicgo_quicgo "github.com/quic-go/quic-go"
)

var _ bridge.EngineConn = (*connWrapper)(nil)

type connWrapper struct {
	conn *quicgo_quicgo.Conn
}

func (wrapper *connWrapper) AcceptStream(ctx context.Context) (bridge.EngineStream, error) {
	stream, err := wrapper.conn.AcceptStream(ctx)
	if err != nil {
		return nil, WrapError(err)
	}
	return rawQuicStream{stream: stream}, nil
}

func (wrapper *connWrapper) AcceptUniStream(ctx context.Context) (bridge.EngineReceiveStream, error) {
	stream, err := wrapper.conn.AcceptUniStream(ctx)
	if err != nil {
		return nil, WrapError(err)
	}
	return rawQuicReceiveStream{stream: stream}, nil
}

func (wrapper *connWrapper) OpenStreamSync(ctx context.Context) (bridge.EngineStream, error) {
	stream, err := wrapper.conn.OpenStreamSync(ctx)
	if err != nil {
		return nil, WrapError(err)
	}
	return rawQuicStream{stream: stream}, nil
}

func (wrapper *connWrapper) OpenUniStreamSync(ctx context.Context) (bridge.EngineSendStream, error) {
	stream, err := wrapper.conn.OpenUniStreamSync(ctx)
	if err != nil {
		return nil, WrapError(err)
	}
	return rawQuicSendStream{stream: stream}, nil
}

func (wrapper *connWrapper) CloseWithError(code quic.Code, reason string) error {
	return WrapError(wrapper.conn.CloseWithError(quicgo_quicgo.ApplicationErrorCode(code), reason))
}

func (wrapper *connWrapper) Context() context.Context {
	return wrapper.conn.Context()
}

func (wrapper *connWrapper) SupportsDatagrams() bool {
	return wrapper.conn.ConnectionState().SupportsDatagrams
}

func (wrapper *connWrapper) SendDatagram(b []byte) error {
	return WrapError(wrapper.conn.SendDatagram(b))
}

func (wrapper *connWrapper) ReceiveDatagram(ctx context.Context) ([]byte, error) {
	b, err := wrapper.conn.ReceiveDatagram(ctx)
	return b, WrapError(err)
}
