// Package quicmetrics exports Prometheus metrics for poll-based QUIC connections.
//
// Instrument decorates any quic.Connection; streams it accepts or opens,
// their split halves and its openers report to the same Metrics.
package quicmetrics

import (
	"errors"

	"github.com/okdaichi/h3quic/quic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "h3quic"

// Metrics holds the collectors updated by instrumented connections.
type Metrics struct {
	Connections      prometheus.Counter
	ConnectionCloses prometheus.Counter

	// Streams counts streams by origin ("accepted", "opened") and kind ("bidi", "uni").
	Streams *prometheus.CounterVec

	// StreamBytes counts stream payload by direction ("sent", "received").
	StreamBytes *prometheus.CounterVec

	// StreamCancels counts local cancellations by kind ("reset", "stop_sending").
	StreamCancels *prometheus.CounterVec

	// Datagrams counts datagrams by direction ("sent", "received").
	Datagrams *prometheus.CounterVec

	// DatagramFailures counts failed datagram sends by reason.
	DatagramFailures *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// If reg is nil, the collectors are created but not registered.
// It panics if a collector with the same name is already registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Connections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "connection",
			Name:      "instrumented_total",
			Help:      "Total number of instrumented connections",
		}),
		ConnectionCloses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "connection",
			Name:      "closes_total",
			Help:      "Total number of locally closed connections",
		}),
		Streams: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "streams_total",
			Help:      "Total number of streams accepted or opened",
		}, []string{"origin", "kind"}),
		StreamBytes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "bytes_total",
			Help:      "Total number of stream payload bytes",
		}, []string{"direction"}),
		StreamCancels: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "cancels_total",
			Help:      "Total number of local stream cancellations",
		}, []string{"kind"}),
		Datagrams: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "datagram",
			Name:      "datagrams_total",
			Help:      "Total number of datagrams sent or received",
		}, []string{"direction"}),
		DatagramFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "datagram",
			Name:      "send_failures_total",
			Help:      "Total number of failed datagram sends",
		}, []string{"reason"}),
	}
}

const (
	originAccepted = "accepted"
	originOpened   = "opened"

	kindBidi = "bidi"
	kindUni  = "uni"

	directionSent     = "sent"
	directionReceived = "received"

	cancelReset       = "reset"
	cancelStopSending = "stop_sending"
)

var datagramFailureReasons = map[quic.SendDatagramErrorKind]string{
	quic.DatagramUnsupportedByPeer: "unsupported_by_peer",
	quic.DatagramDisabled:          "disabled",
	quic.DatagramTooLarge:          "too_large",
	quic.DatagramConnectionLost:    "connection_lost",
}

func datagramFailureReason(err error) string {
	var derr *quic.SendDatagramError
	if errors.As(err, &derr) {
		if reason, ok := datagramFailureReasons[derr.Kind]; ok {
			return reason
		}
	}
	return "other"
}
