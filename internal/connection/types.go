package connection

import (
	"errors"
	"net/http"
	"time"

	"github.com/rickgao/sessionlink/internal/model"
)

// Errors
var (
	ErrNotConnected      = errors.New("not connected")
	ErrAlreadyClosed     = errors.New("already closed")
	ErrInvalidURL        = errors.New("invalid url")
	ErrUnsupportedScheme = errors.New("unsupported url scheme")
)

// Messages surfaced through the error slot.
const (
	ErrMsgCreateFailed     = "failed to create connection"
	ErrMsgConnection       = "connection error"
	ErrMsgReconnectsFailed = "max reconnect attempts reached"
)

// Close codes.
const (
	CloseNormal   = 1000
	CloseAbnormal = 1006
)

// Transport is one open channel to the server.
type Transport interface {
	// Send writes one text message.
	Send(data []byte) error

	// Close closes the channel with the given close code and reason.
	Close(code int, reason string) error
}

// TransportEvents receives the events of one Transport. A transport delivers
// its events sequentially from a single goroutine, in the order:
// OnOpen, OnMessage*, OnError?, OnClose.
type TransportEvents interface {
	OnOpen()
	OnMessage(data []byte)
	OnError(err error)
	OnClose(code int, reason string)
}

// Dialer acquires transports.
type Dialer interface {
	// Dial starts opening a channel to url and returns immediately. It returns
	// an error only when the transport cannot be constructed at all; failures
	// while connecting are reported through events. Dial must not call events
	// before it returns.
	Dial(url string, events TransportEvents) (Transport, error)
}

// State aliases the shared connection state type.
type State = model.ConnectionState

// State values.
const (
	StateDisconnected   = model.StateDisconnected
	StateConnecting     = model.StateConnecting
	StateAuthenticating = model.StateAuthenticating
	StateConnected      = model.StateConnected
	StateAuthenticated  = model.StateAuthenticated
)

// Config configures the Connection Manager.
type Config struct {
	URL                  string        // WebSocket URL (e.g., wss://host/ws?sessionId=abc)
	AutoReconnect        bool          // Reconnect after an abnormal close
	ReconnectDelay       time.Duration // Fixed delay before each reconnect
	MaxReconnectAttempts int           // 0 = unbounded
	PingInterval         time.Duration // Keepalive interval, 0 disables
	DedupCapacity        int           // Remembered session_output ids
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		AutoReconnect:  true,
		ReconnectDelay: 2 * time.Second,
		PingInterval:   30 * time.Second,
		DedupCapacity:  1000,
	}
}

// DialerConfig configures a WebSocketDialer.
type DialerConfig struct {
	Header           http.Header   // Extra handshake headers (e.g., Origin)
	HandshakeTimeout time.Duration // Max time for the opening handshake
	WriteTimeout     time.Duration // Write deadline for sends
}

// DefaultDialerConfig returns sensible defaults.
func DefaultDialerConfig() DialerConfig {
	return DialerConfig{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
	}
}

// Snapshot is a consistent view of the manager's observable fields.
type Snapshot struct {
	State             State  `json:"state"`
	ClientID          string `json:"clientId,omitempty"`
	IsAuthenticated   bool   `json:"isAuthenticated"`
	LastError         string `json:"lastError,omitempty"`
	ReconnectAttempts uint   `json:"reconnectAttempts"`
	ReconnectPending  bool   `json:"reconnectPending"`
}
