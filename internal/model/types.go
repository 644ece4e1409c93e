package model

import "encoding/json"

// -----------------------------------------------------------------------------
// Message Types
// -----------------------------------------------------------------------------

// Server → client message discriminants.
const (
	TypeConnected            = "connected"
	TypeAuthRequired         = "auth_required"
	TypeAuthSuccess          = "auth_success"
	TypeAuthFailed           = "auth_failed"
	TypeSessionsList         = "sessions_list"
	TypeSessionStateChange   = "session_state_change"
	TypeSessionAdded         = "session_added"
	TypeSessionRemoved       = "session_removed"
	TypeActiveSessionChanged = "active_session_changed"
	TypeSessionOutput        = "session_output"
	TypeSessionExit          = "session_exit"
	TypeUserInput            = "user_input"
	TypeTheme                = "theme"
	TypeCustomCommands       = "custom_commands"
	TypeAutoRunState         = "autorun_state"
	TypeTabsChanged          = "tabs_changed"
	TypeError                = "error"
	TypePong                 = "pong"
)

// Client → server message discriminants.
const (
	TypeAuth = "auth"
	TypePing = "ping"
)

// -----------------------------------------------------------------------------
// Domain Types
// -----------------------------------------------------------------------------

// SessionData describes one session hosted by the server.
type SessionData struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	ToolType    string          `json:"toolType"`
	State       string          `json:"state"`
	InputMode   string          `json:"inputMode"`
	Cwd         string          `json:"cwd"`
	GroupID     string          `json:"groupId,omitempty"`
	AITabs      []AITab         `json:"aiTabs,omitempty"`
	ActiveTabID string          `json:"activeTabId,omitempty"`
	Usage       json.RawMessage `json:"usageStats,omitempty"` // Opaque to the client
}

// AITab is a conversation tab inside a session.
type AITab struct {
	ID             string `json:"id"`
	AgentSessionID string `json:"agentSessionId,omitempty"`
	Name           string `json:"name,omitempty"`
	Starred        bool   `json:"starred"`
	InputValue     string `json:"inputValue,omitempty"`
	CreatedAt      int64  `json:"createdAt"` // ms since epoch
	State          string `json:"state"`     // "idle" or "busy"
}

// Theme is the color theme pushed by the server.
type Theme struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Mode   string            `json:"mode"` // "light", "dark" or "vibe"
	Colors map[string]string `json:"colors"`
}

// CustomCommand is a user-defined slash command.
type CustomCommand struct {
	ID          string `json:"id"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

// AutoRunState is the batch-processing state of a session.
type AutoRunState struct {
	IsRunning        bool `json:"isRunning"`
	TotalTasks       int  `json:"totalTasks"`
	CompletedTasks   int  `json:"completedTasks"`
	CurrentTaskIndex int  `json:"currentTaskIndex"`
	IsStopping       bool `json:"isStopping,omitempty"`
}

// -----------------------------------------------------------------------------
// Server Messages
// -----------------------------------------------------------------------------

// Envelope carries the discriminant and the raw payload of any inbound message.
type Envelope struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// ConnectedMsg is the handshake message sent right after the channel opens.
type ConnectedMsg struct {
	ClientID      string `json:"clientId"`
	Message       string `json:"message"`
	Authenticated bool   `json:"authenticated"`
}

// AuthRequiredMsg tells the client it must authenticate before proceeding.
type AuthRequiredMsg struct {
	ClientID string `json:"clientId"`
	Message  string `json:"message"`
}

// AuthSuccessMsg acknowledges a successful auth.
type AuthSuccessMsg struct {
	ClientID string `json:"clientId"`
	Message  string `json:"message"`
}

// ErrorMsg is the payload of both "auth_failed" and "error".
type ErrorMsg struct {
	Message string `json:"message"`
}

// SessionsListMsg carries the full session list.
type SessionsListMsg struct {
	Sessions []SessionData `json:"sessions"`
}

// SessionStateChangeMsg reports a state change plus any changed session fields.
type SessionStateChangeMsg struct {
	SessionID string
	State     string
	Fields    map[string]json.RawMessage // Every field besides type, sessionId and state
}

// UnmarshalJSON keeps the partial session fields alongside the fixed ones.
func (m *SessionStateChangeMsg) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if raw, ok := fields["sessionId"]; ok {
		if err := json.Unmarshal(raw, &m.SessionID); err != nil {
			return err
		}
	}
	if raw, ok := fields["state"]; ok {
		if err := json.Unmarshal(raw, &m.State); err != nil {
			return err
		}
	}

	delete(fields, "type")
	delete(fields, "sessionId")
	delete(fields, "state")
	delete(fields, "timestamp")
	m.Fields = fields

	return nil
}

// SessionAddedMsg carries a newly created session.
type SessionAddedMsg struct {
	Session SessionData `json:"session"`
}

// SessionRefMsg is used by "session_removed" and "active_session_changed".
type SessionRefMsg struct {
	SessionID string `json:"sessionId"`
}

// SessionOutputMsg is one chunk of streamed session output.
type SessionOutputMsg struct {
	SessionID string `json:"sessionId"`
	TabID     string `json:"tabId,omitempty"`
	Data      string `json:"data"`
	Source    string `json:"source"` // "ai" or "terminal"
	MsgID     string `json:"msgId,omitempty"`
}

// SessionExitMsg reports a session process exit.
type SessionExitMsg struct {
	SessionID string `json:"sessionId"`
	ExitCode  int    `json:"exitCode"`
}

// UserInputMsg echoes input typed on another client.
type UserInputMsg struct {
	SessionID string `json:"sessionId"`
	Command   string `json:"command"`
	InputMode string `json:"inputMode"`
}

// ThemeMsg carries the current theme.
type ThemeMsg struct {
	Theme Theme `json:"theme"`
}

// CustomCommandsMsg carries the custom command list.
type CustomCommandsMsg struct {
	Commands []CustomCommand `json:"commands"`
}

// AutoRunStateMsg carries a session's auto-run state (nil state means stopped).
type AutoRunStateMsg struct {
	SessionID string        `json:"sessionId"`
	State     *AutoRunState `json:"state"`
}

// TabsChangedMsg carries a session's tab list.
type TabsChangedMsg struct {
	SessionID   string  `json:"sessionId"`
	AITabs      []AITab `json:"aiTabs"`
	ActiveTabID string  `json:"activeTabId"`
}

// -----------------------------------------------------------------------------
// Client Messages
// -----------------------------------------------------------------------------

// AuthMsg is sent by Authenticate.
type AuthMsg struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// PingMsg is sent by Ping and the keepalive timer.
type PingMsg struct {
	Type string `json:"type"`
}
