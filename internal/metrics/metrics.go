package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sessionlink"

// Metrics holds the collectors for one connection manager.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	state              prometheus.Gauge
	transitions        *prometheus.CounterVec
	reconnectScheduled prometheus.Counter
	reconnectFired     prometheus.Counter
	messages           *prometheus.CounterVec
	parseErrors        prometheus.Counter
	duplicates         prometheus.Counter
	pings              prometheus.Counter
	sendFailures       prometheus.Counter
}

// New creates the collectors and registers them with reg.
// A nil reg creates unregistered collectors.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		state: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connection_state",
			Help:      "Current connection state (0=disconnected 1=connecting 2=authenticating 3=connected 4=authenticated).",
		}),
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Connection state transitions by target state.",
		}, []string{"state"}),
		reconnectScheduled: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconnects_scheduled_total",
			Help:      "Reconnects scheduled after an abnormal close.",
		}),
		reconnectFired: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconnects_fired_total",
			Help:      "Scheduled reconnects that actually ran.",
		}),
		messages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Decoded inbound messages by type.",
		}, []string{"type"}),
		parseErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_errors_total",
			Help:      "Inbound payloads dropped as malformed.",
		}),
		duplicates: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_suppressed_total",
			Help:      "Streamed output messages suppressed by the dedup cache.",
		}),
		pings: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pings_sent_total",
			Help:      "Ping messages written to the transport.",
		}),
		sendFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "send_failures_total",
			Help:      "Outbound sends that were rejected or failed.",
		}),
	}
}

// StateChanged records a transition to the state with the given ordinal and name.
func (m *Metrics) StateChanged(ordinal int, name string) {
	if m == nil {
		return
	}
	m.state.Set(float64(ordinal))
	m.transitions.WithLabelValues(name).Inc()
}

// ReconnectScheduled records a scheduled reconnect.
func (m *Metrics) ReconnectScheduled() {
	if m == nil {
		return
	}
	m.reconnectScheduled.Inc()
}

// ReconnectFired records a reconnect timer firing.
func (m *Metrics) ReconnectFired() {
	if m == nil {
		return
	}
	m.reconnectFired.Inc()
}

// MessageReceived records a decoded inbound message.
func (m *Metrics) MessageReceived(msgType string) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(msgType).Inc()
}

// ParseError records a dropped malformed payload.
func (m *Metrics) ParseError() {
	if m == nil {
		return
	}
	m.parseErrors.Inc()
}

// DuplicateSuppressed records a message dropped by the dedup cache.
func (m *Metrics) DuplicateSuppressed() {
	if m == nil {
		return
	}
	m.duplicates.Inc()
}

// PingSent records an outbound ping.
func (m *Metrics) PingSent() {
	if m == nil {
		return
	}
	m.pings.Inc()
}

// SendFailed records a rejected or failed send.
func (m *Metrics) SendFailed() {
	if m == nil {
		return
	}
	m.sendFailures.Inc()
}
