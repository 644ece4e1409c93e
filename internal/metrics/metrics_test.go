package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.StateChanged(3, "connected")
		m.ReconnectScheduled()
		m.ReconnectFired()
		m.MessageReceived("pong")
		m.ParseError()
		m.DuplicateSuppressed()
		m.PingSent()
		m.SendFailed()
	})
}

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.StateChanged(1, "connecting")
	m.StateChanged(3, "connected")
	m.ReconnectScheduled()
	m.ReconnectFired()
	m.MessageReceived("session_output")
	m.MessageReceived("session_output")
	m.ParseError()
	m.DuplicateSuppressed()
	m.PingSent()
	m.SendFailed()

	assert.Equal(t, float64(3), testutil.ToFloat64(m.state))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.transitions.WithLabelValues("connected")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.reconnectScheduled))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.reconnectFired))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.messages.WithLabelValues("session_output")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.parseErrors))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.duplicates))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.pings))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.sendFailures))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNew_NilRegisterer(t *testing.T) {
	m := New(nil)
	m.PingSent()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.pings))
}
