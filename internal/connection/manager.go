package connection

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/rickgao/sessionlink/internal/metrics"
	"github.com/rickgao/sessionlink/internal/model"
	"github.com/rickgao/sessionlink/internal/router"
)

// Manager maintains one long-lived channel to the session server.
//
// All state lives behind mu. Transport events and timer callbacks carry the
// generation they were created for and do nothing once it has moved on, so
// Disconnect leaves the manager inert. Handlers run after mu is released.
type Manager struct {
	cfg        Config
	dialer     Dialer
	dispatcher *router.Dispatcher
	clock      clockwork.Clock
	metrics    *metrics.Metrics
	logger     *slog.Logger

	initialHandlers *router.Handlers

	mu        sync.Mutex
	state     State
	clientID  string
	authed    bool
	lastError string
	closed    bool

	// Transport ownership
	transport Transport
	open      bool
	gen       uint64

	reconnect reconnectState
	keepalive keepaliveState

	// Handler calls queued while holding mu
	pending []func()
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock sets the clock used for reconnect and keepalive timers.
func WithClock(clock clockwork.Clock) Option {
	return func(m *Manager) {
		m.clock = clock
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// WithHandlers sets the initial handler table.
func WithHandlers(h router.Handlers) Option {
	return func(m *Manager) {
		m.initialHandlers = &h
	}
}

// NewManager creates a new Connection Manager. It does not connect.
func NewManager(cfg Config, dialer Dialer, opts ...Option) *Manager {
	m := &Manager{
		cfg:    cfg,
		dialer: dialer,
		clock:  clockwork.NewRealClock(),
		logger: slog.Default(),
		state:  StateDisconnected,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.dispatcher = router.NewDispatcher(
		router.DispatcherConfig{DedupCapacity: cfg.DedupCapacity},
		m.metrics,
		m.logger,
	)
	if m.initialHandlers != nil {
		m.dispatcher.SetHandlers(*m.initialHandlers)
		m.initialHandlers = nil
	}

	return m
}

// Connect opens the channel. It is a no-op unless the manager is Disconnected.
func (m *Manager) Connect() {
	m.mu.Lock()
	defer m.unlock()

	if m.closed || m.state != StateDisconnected {
		return
	}

	m.reconnect.attempts = 0
	m.lastError = ""
	m.cancelReconnect()
	m.acquire()
}

// Disconnect closes the channel with a normal closure and cancels all timers.
// No reconnect or keepalive callback changes state after it returns.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.unlock()

	m.shutdown("client disconnect")
}

// Close disconnects and makes the manager permanently inert.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.unlock()

	m.closed = true
	m.shutdown("client closed")
}

// Authenticate sends the auth token and moves to Authenticating.
// It reports whether the token was sent.
func (m *Manager) Authenticate(token string) bool {
	m.mu.Lock()
	defer m.unlock()

	if !m.sendLocked(model.AuthMsg{Type: model.TypeAuth, Token: token}) {
		return false
	}

	m.setState(StateAuthenticating)
	return true
}

// Ping sends a ping message. It reports whether the ping was sent.
func (m *Manager) Ping() bool {
	m.mu.Lock()
	defer m.unlock()

	return m.pingLocked()
}

// Send marshals payload as JSON and writes it. It reports whether the
// payload was written and never panics on a closed channel.
func (m *Manager) Send(payload any) bool {
	m.mu.Lock()
	defer m.unlock()

	return m.sendLocked(payload)
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Snapshot returns the observable fields in one consistent read.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		State:             m.state,
		ClientID:          m.clientID,
		IsAuthenticated:   m.authed,
		LastError:         m.lastError,
		ReconnectAttempts: m.reconnect.attempts,
		ReconnectPending:  m.reconnect.timer != nil,
	}
}

// SetHandlers replaces the handler table without touching the channel.
func (m *Manager) SetHandlers(h router.Handlers) {
	m.dispatcher.SetHandlers(h)
}

// DispatcherStats returns the dispatcher's counters.
func (m *Manager) DispatcherStats() router.DispatcherStats {
	return m.dispatcher.Stats()
}

// unlock releases mu and runs the handler calls queued while it was held.
func (m *Manager) unlock() {
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

// acquire dials a new transport. Caller holds mu.
func (m *Manager) acquire() {
	m.gen++
	m.open = false

	t, err := m.dialer.Dial(m.cfg.URL, &link{m: m, gen: m.gen})
	if err != nil {
		m.logger.Error("failed to create connection", "url", m.cfg.URL, "error", err)
		m.transport = nil
		m.setError(ErrMsgCreateFailed)
		m.setState(StateDisconnected)
		return
	}

	m.transport = t
	m.logger.Info("connecting", "url", m.cfg.URL, "reconnect_attempts", m.reconnect.attempts)
	m.setState(StateConnecting)
}

// shutdown cancels timers, closes the transport and clears the session. Caller holds mu.
func (m *Manager) shutdown(reason string) {
	m.stopKeepalive()
	m.cancelReconnect()
	m.reconnect.attempts = 0

	// Events still in flight from the old transport are ignored.
	m.gen++

	if t := m.transport; t != nil {
		m.transport = nil
		m.open = false
		if err := t.Close(CloseNormal, reason); err != nil {
			m.logger.Debug("close transport", "error", err)
		}
	}

	m.setState(StateDisconnected)
}

// setState applies a transition and the identity fields tied to it. Caller holds mu.
func (m *Manager) setState(s State) {
	if s == StateDisconnected {
		m.clientID = ""
	}
	m.authed = s == StateAuthenticated

	if m.state == s {
		return
	}

	prev := m.state
	m.state = s
	m.metrics.StateChanged(int(s), s.String())
	m.logger.Debug("state changed", "from", prev, "to", s)

	if s.Live() {
		m.startKeepalive()
	} else {
		m.stopKeepalive()
	}

	if h := m.dispatcher.Handlers().OnConnectionChange; h != nil {
		m.pending = append(m.pending, func() { h(s) })
	}
}

// setError fills the error slot and queues the error handler. Caller holds mu.
func (m *Manager) setError(msg string) {
	m.lastError = msg

	if h := m.dispatcher.Handlers().OnError; h != nil {
		m.pending = append(m.pending, func() { h(msg) })
	}
}

func (m *Manager) isOpen() bool {
	return m.transport != nil && m.open
}

// sendLocked marshals and writes v. Caller holds mu.
func (m *Manager) sendLocked(v any) bool {
	if !m.isOpen() {
		m.metrics.SendFailed()
		return false
	}

	data, err := json.Marshal(v)
	if err != nil {
		m.logger.Warn("failed to marshal payload", "error", err)
		m.metrics.SendFailed()
		return false
	}

	if err := m.transport.Send(data); err != nil {
		m.logger.Warn("failed to send", "error", err)
		m.metrics.SendFailed()
		return false
	}

	return true
}

func (m *Manager) pingLocked() bool {
	if !m.sendLocked(model.PingMsg{Type: model.TypePing}) {
		return false
	}
	m.metrics.PingSent()
	return true
}

// link binds the events of one transport generation to the manager.
// It is also the dispatcher's SessionSink for messages of that generation.
type link struct {
	m   *Manager
	gen uint64
}

// current reports whether this link's transport is still the active one. Caller holds mu.
func (l *link) current() bool {
	return l.gen == l.m.gen && !l.m.closed
}

func (l *link) OnOpen() {
	m := l.m
	m.mu.Lock()
	defer m.unlock()

	if !l.current() {
		return
	}

	m.open = true
	m.logger.Info("connection opened", "url", m.cfg.URL)
	m.setState(StateAuthenticating)
}

func (l *link) OnMessage(data []byte) {
	l.m.dispatcher.Dispatch(data, l)
}

// Active reports whether this link still belongs to the live transport.
func (l *link) Active() bool {
	m := l.m
	m.mu.Lock()
	defer m.mu.Unlock()

	return l.current()
}

func (l *link) OnError(err error) {
	m := l.m
	m.mu.Lock()
	defer m.unlock()

	if !l.current() {
		return
	}

	m.logger.Warn("connection error", "error", err)
	m.setError(ErrMsgConnection)
}

func (l *link) OnClose(code int, reason string) {
	m := l.m
	m.mu.Lock()
	defer m.unlock()

	if !l.current() {
		return
	}

	m.stopKeepalive()
	m.transport = nil
	m.open = false
	m.gen++

	m.logger.Info("connection closed", "code", code, "reason", reason)
	m.setState(StateDisconnected)

	if code == CloseNormal || !m.cfg.AutoReconnect {
		return
	}
	m.scheduleReconnect()
}

func (l *link) Handshake(clientID string, authenticated bool) {
	m := l.m
	m.mu.Lock()
	defer m.unlock()

	if !l.current() {
		return
	}

	m.clientID = clientID
	if authenticated {
		m.setState(StateAuthenticated)
	} else {
		m.setState(StateConnected)
	}
}

func (l *link) AuthRequired(clientID string) {
	m := l.m
	m.mu.Lock()
	defer m.unlock()

	if !l.current() {
		return
	}

	m.clientID = clientID
	m.setState(StateConnected)
}

func (l *link) AuthSucceeded(clientID string) {
	m := l.m
	m.mu.Lock()
	defer m.unlock()

	if !l.current() {
		return
	}

	if clientID != "" {
		m.clientID = clientID
	}
	m.lastError = ""
	m.setState(StateAuthenticated)
}

func (l *link) ServerError(message string) bool {
	m := l.m
	m.mu.Lock()
	defer m.unlock()

	if !l.current() {
		return false
	}

	m.lastError = message
	return true
}
