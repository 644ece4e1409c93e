package connection

import (
	"github.com/jonboulle/clockwork"
)

// reconnectState is the single authoritative reconnect cell. Timer callbacks
// read and write it through the manager, never through a captured copy.
type reconnectState struct {
	attempts uint
	timer    clockwork.Timer
	seq      uint64 // Bumped on cancel; a callback with an older seq is stale
}

// scheduleReconnect arms a reconnect after the fixed delay. Caller holds mu.
func (m *Manager) scheduleReconnect() {
	if limit := m.cfg.MaxReconnectAttempts; limit > 0 && m.reconnect.attempts >= uint(limit) {
		m.logger.Warn("giving up reconnecting",
			"attempts", m.reconnect.attempts,
			"max_attempts", limit,
		)
		m.setError(ErrMsgReconnectsFailed)
		return
	}

	m.cancelReconnect()

	seq := m.reconnect.seq
	m.reconnect.timer = m.clock.AfterFunc(m.cfg.ReconnectDelay, func() {
		m.fireReconnect(seq)
	})
	m.metrics.ReconnectScheduled()

	m.logger.Info("reconnect scheduled",
		"delay", m.cfg.ReconnectDelay,
		"attempt", m.reconnect.attempts+1,
	)
}

// cancelReconnect stops a pending reconnect. Caller holds mu.
func (m *Manager) cancelReconnect() {
	m.reconnect.seq++
	if m.reconnect.timer != nil {
		m.reconnect.timer.Stop()
		m.reconnect.timer = nil
	}
}

// fireReconnect runs when the reconnect timer expires.
func (m *Manager) fireReconnect(seq uint64) {
	m.mu.Lock()
	defer m.unlock()

	if seq != m.reconnect.seq || m.reconnect.timer == nil || m.closed {
		return
	}
	m.reconnect.timer = nil

	if m.state != StateDisconnected {
		return
	}

	m.reconnect.attempts++
	m.metrics.ReconnectFired()
	m.logger.Info("attempting reconnection", "attempt", m.reconnect.attempts)

	m.lastError = ""
	m.acquire()
}
