package connection

import (
	"github.com/jonboulle/clockwork"
)

// keepaliveState tracks the ping timer while the channel is live.
type keepaliveState struct {
	timer clockwork.Timer
	seq   uint64
}

// startKeepalive arms the ping timer unless it is running or disabled. Caller holds mu.
func (m *Manager) startKeepalive() {
	if m.cfg.PingInterval <= 0 || m.keepalive.timer != nil {
		return
	}

	m.keepalive.seq++
	m.armKeepalive(m.keepalive.seq)
}

func (m *Manager) armKeepalive(seq uint64) {
	m.keepalive.timer = m.clock.AfterFunc(m.cfg.PingInterval, func() {
		m.keepaliveTick(seq)
	})
}

// stopKeepalive cancels the ping timer. Caller holds mu.
func (m *Manager) stopKeepalive() {
	if m.keepalive.timer == nil {
		return
	}

	m.keepalive.timer.Stop()
	m.keepalive.timer = nil
	m.keepalive.seq++
}

func (m *Manager) keepaliveTick(seq uint64) {
	m.mu.Lock()
	defer m.unlock()

	if seq != m.keepalive.seq || m.keepalive.timer == nil {
		return
	}

	if !m.pingLocked() {
		m.logger.Debug("keepalive ping skipped, channel not open")
	}
	m.armKeepalive(seq)
}
