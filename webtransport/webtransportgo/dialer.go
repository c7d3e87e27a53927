package webtransportgo

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"

	"github.com/okdaichi/h3quic/quic"
	"github.com/okdaichi/h3quic/quic/bridge"
	"github.com/okdaichi/h3quic/quic/quicgo"
	"github.com/okdaichi/h3quic/webtransport"
	quicgo_webtransportgo "github.com/quic-go/webtransport-go"
)

var _ webtransport.DialAddrFunc = Dial

// Dial establishes a WebTransport session with default settings.
func Dial(ctx context.Context, addr string, header http.Header, tlsConfig *tls.Config) (*http.Response, quic.Connection, error) {
	var d Dialer
	return d.Dial(ctx, addr, header, tlsConfig)
}

// Dialer establishes WebTransport sessions.
type Dialer struct {
	// QUICConfig is used for the underlying QUIC connection.
	// Datagram support is always enabled.
	QUICConfig *quicgo.Config

	// ReadChunkSize and WriteChunkSize are passed to the bridge.
	ReadChunkSize  int
	WriteChunkSize int

	Logger *slog.Logger
}

var _ webtransport.DialAddrFunc = (*Dialer)(nil).Dial

// Dial sends an extended CONNECT request to addr, an https URL, and
// returns the established session.
func (d *Dialer) Dial(ctx context.Context, addr string, header http.Header, tlsConfig *tls.Config) (*http.Response, quic.Connection, error) {
	wd := quicgo_webtransportgo.Dialer{
		TLSClientConfig: tlsConfig,
		QUICConfig:      d.quicConfig(),
	}

	rsp, wtsess, err := wd.Dial(ctx, addr, header)
	if err != nil {
		return rsp, nil, WrapError(err)
	}

	return rsp, wrapSession(wtsess, d.bridgeConfig()), nil
}

func (d *Dialer) quicConfig() *quicgo.Config {
	var config *quicgo.Config
	if d != nil && d.QUICConfig != nil {
		config = d.QUICConfig.Clone()
	} else {
		config = &quicgo.Config{}
	}
	config.EnableDatagrams = true
	return config
}

func (d *Dialer) bridgeConfig() *bridge.Config {
	if d == nil {
		return nil
	}
	return &bridge.Config{
		ReadChunkSize:  d.ReadChunkSize,
		WriteChunkSize: d.WriteChunkSize,
		Logger:         d.Logger,
	}
}
