package router

import (
	"encoding/json"

	"github.com/rickgao/sessionlink/internal/dedup"
	"github.com/rickgao/sessionlink/internal/model"
)

// DispatcherConfig holds configuration for the Message Dispatcher.
type DispatcherConfig struct {
	DedupCapacity int // Default: 1000
}

// DefaultDispatcherConfig returns default configuration.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		DedupCapacity: dedup.DefaultCapacity,
	}
}

// Message is an inbound payload handed to the catch-all handler.
type Message struct {
	Type string // Discriminant, may be empty or unknown
	Data []byte // Raw JSON payload
}

// Handlers is the table of caller-supplied callbacks. A nil slot is skipped.
//
// OnConnectionChange and OnError are driven by the connection manager as well
// as by the dispatcher; every other slot is driven by one message type.
type Handlers struct {
	OnConnectionChange func(state model.ConnectionState)
	OnError            func(message string)
	OnMessage          func(msg Message) // Catch-all, receives every decoded payload

	OnSessionsList         func(sessions []model.SessionData)
	OnSessionStateChange   func(sessionID, state string, fields map[string]json.RawMessage)
	OnSessionAdded         func(session model.SessionData)
	OnSessionRemoved       func(sessionID string)
	OnActiveSessionChanged func(sessionID string)
	OnSessionOutput        func(sessionID, data, source, tabID string)
	OnSessionExit          func(sessionID string, exitCode int)
	OnUserInput            func(sessionID, command, inputMode string)
	OnTheme                func(theme model.Theme)
	OnCustomCommands       func(commands []model.CustomCommand)
	OnAutoRunState         func(sessionID string, state *model.AutoRunState)
	OnTabsChanged          func(sessionID string, tabs []model.AITab, activeTabID string)
}

// SessionSink receives the session identity side effects of handshake and
// auth messages. The connection manager implements it.
type SessionSink interface {
	// Active reports whether messages from this sink's channel are still
	// wanted. Messages arriving on an inactive sink are dropped unrouted.
	Active() bool

	// Handshake applies a "connected" message.
	Handshake(clientID string, authenticated bool)

	// AuthRequired applies an "auth_required" message.
	AuthRequired(clientID string)

	// AuthSucceeded applies an "auth_success" message.
	AuthSucceeded(clientID string)

	// ServerError records an "auth_failed" or "error" message. It reports
	// whether the message was applied.
	ServerError(message string) bool
}

// DispatcherStats contains runtime statistics.
type DispatcherStats struct {
	MessagesReceived int64 `json:"messagesReceived"`
	MessagesRouted   int64 `json:"messagesRouted"`
	ParseErrors      int64 `json:"parseErrors"`
	Duplicates       int64 `json:"duplicates"`
	UnknownMessages  int64 `json:"unknownMessages"`
	StaleMessages    int64 `json:"staleMessages"`
	DedupSize        int   `json:"dedupSize"`
}
