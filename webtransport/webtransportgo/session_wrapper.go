package webtransportgo

import (
	"context"
	"log/slog"

	"github.com/okdaichi/h3quic/quic"
	"github.com/okdaichi/h3quic/quic/bridge"
	quicgo_webtransportgo "github.com/quic-go/webtransport-go"
)

var _ bridge.EngineConn = (*sessionWrapper)(nil)

type sessionWrapper struct {
	sess *quicgo_webtransportgo.Session
}

// WrapSession returns sess as a poll-based quic.Connection.
// logger may be nil.
func WrapSession(sess *quicgo_webtransportgo.Session, logger *slog.Logger) quic.Connection {
	if sess == nil {
		return nil
	}
	return wrapSession(sess, &bridge.Config{Logger: logger})
}

func wrapSession(sess *quicgo_webtransportgo.Session, config *bridge.Config) quic.Connection {
	config = config.Clone()
	if config == nil {
		config = &bridge.Config{}
	}
	// WebTransport sessions cannot be established without datagram support.
	config.EnableDatagrams = true
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	config.Logger = config.Logger.With(
		"local_address", sess.LocalAddr(),
		"remote_address", sess.RemoteAddr(),
	)

	return bridge.NewConnection(&sessionWrapper{sess: sess}, config)
}

func (wrapper *sessionWrapper) AcceptStream(ctx context.Context) (bridge.EngineStream, error) {
	stream, err := wrapper.sess.AcceptStream(ctx)
	if err != nil {
		return nil, WrapError(err)
	}
	return streamWrapper{stream: stream}, nil
}

func (wrapper *sessionWrapper) AcceptUniStream(ctx context.Context) (bridge.EngineReceiveStream, error) {
	stream, err := wrapper.sess.AcceptUniStream(ctx)
	if err != nil {
		return nil, WrapError(err)
	}
	return receiveStreamWrapper{stream: stream}, nil
}

func (wrapper *sessionWrapper) OpenStreamSync(ctx context.Context) (bridge.EngineStream, error) {
	stream, err := wrapper.sess.OpenStreamSync(ctx)
	if err != nil {
		return nil, WrapError(err)
	}
	return streamWrapper{stream: stream}, nil
}

func (wrapper *sessionWrapper) OpenUniStreamSync(ctx context.Context) (bridge.EngineSendStream, error) {
	stream, err := wrapper.sess.OpenUniStreamSync(ctx)
	if err != nil {
		return nil, WrapError(err)
	}
	return sendStreamWrapper{stream: stream}, nil
}

func (wrapper *sessionWrapper) CloseWithError(code quic.Code, reason string) error {
	return WrapError(wrapper.sess.CloseWithError(quicgo_webtransportgo.SessionErrorCode(clampCode(code)), reason))
}

func (wrapper *sessionWrapper) Context() context.Context {
	return wrapper.sess.Context()
}

func (wrapper *sessionWrapper) SupportsDatagrams() bool {
	return wrapper.sess.ConnectionState().SupportsDatagrams
}

func (wrapper *sessionWrapper) SendDatagram(b []byte) error {
	return WrapError(wrapper.sess.SendDatagram(b))
}

func (wrapper *sessionWrapper) ReceiveDatagram(ctx context.Context) ([]byte, error) {
	b, err := wrapper.sess.ReceiveDatagram(ctx)
	return b, WrapError(err)
}
