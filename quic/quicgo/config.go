package quicgo

import (
	quicgo_quicgo "github.com/quic-go/quic-go"
)

// Config contains configuration options for a quic-go connection.
// See github.com/quic-go/quic-go.Config for available options.
type Config = quicgo_quicgo.Config
