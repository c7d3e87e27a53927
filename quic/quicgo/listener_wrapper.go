package quicgo

import (
	"context"
	"net"

	"github.com/okdaichi/h3quic/quic"
	quicgo_quicgo "github.com/quic-go/quic-go"
)

var _ quic.Listener = (*listenerWrapper)(nil)

type listenerWrapper struct {
	listener *quicgo_quicgo.Listener
	engine   *Engine
}

func (wrapper *listenerWrapper) Accept(ctx context.Context) (quic.Connection, error) {
	conn, err := wrapper.listener.Accept(ctx)
	if err != nil {
		return nil, WrapError(err)
	}

	wrapper.engine.logger().Debug("accepted connection",
		"remote_address", conn.RemoteAddr(),
	)

	return wrapper.engine.Wrap(conn), nil
}

func (wrapper *listenerWrapper) Addr() net.Addr {
	return wrapper.listener.Addr()
}

func (wrapper *listenerWrapper) Close() error {
	return wrapper.listener.Close()
}
