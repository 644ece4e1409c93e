package router

import (
	"encoding/json"
	"log/slog"
	"sync/atomic"

	"github.com/rickgao/sessionlink/internal/dedup"
	"github.com/rickgao/sessionlink/internal/metrics"
	"github.com/rickgao/sessionlink/internal/model"
)

// Dispatcher decodes inbound payloads and routes them to the handler table.
type Dispatcher struct {
	logger  *slog.Logger
	metrics *metrics.Metrics

	handlers atomic.Pointer[Handlers]
	dedup    *dedup.Cache

	// Stats
	received        atomic.Int64
	routed          atomic.Int64
	parseErrors     atomic.Int64
	duplicates      atomic.Int64
	unknownMessages atomic.Int64
	staleMessages   atomic.Int64
}

// NewDispatcher creates a new Message Dispatcher.
func NewDispatcher(cfg DispatcherConfig, m *metrics.Metrics, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dispatcher{
		logger:  logger,
		metrics: m,
		dedup:   dedup.New(cfg.DedupCapacity),
	}
	d.handlers.Store(&Handlers{})

	return d
}

// SetHandlers replaces the handler table. A dispatch already in progress
// keeps using the table it started with.
func (d *Dispatcher) SetHandlers(h Handlers) {
	d.handlers.Store(&h)
}

// Handlers returns the current handler table.
func (d *Dispatcher) Handlers() Handlers {
	return *d.handlers.Load()
}

// Stats returns current statistics.
func (d *Dispatcher) Stats() DispatcherStats {
	return DispatcherStats{
		MessagesReceived: d.received.Load(),
		MessagesRouted:   d.routed.Load(),
		ParseErrors:      d.parseErrors.Load(),
		Duplicates:       d.duplicates.Load(),
		UnknownMessages:  d.unknownMessages.Load(),
		StaleMessages:    d.staleMessages.Load(),
		DedupSize:        d.dedup.Len(),
	}
}

// Dispatch decodes one payload, applies its side effects to sink and invokes
// the matching handlers. Malformed payloads and payloads for an inactive sink
// are dropped.
//
// Handlers run without any manager lock held, so a Disconnect that races
// with a handler call already past the Active check does not stop it.
func (d *Dispatcher) Dispatch(data []byte, sink SessionSink) {
	d.received.Add(1)

	var env model.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		d.dropMalformed("", err)
		return
	}

	if !sink.Active() {
		d.dropStale(env.Type)
		return
	}

	h := d.handlers.Load()

	if !d.route(env.Type, data, h, sink) {
		return
	}

	d.routed.Add(1)
	d.metrics.MessageReceived(metricType(env.Type))

	if !sink.Active() {
		d.dropStale(env.Type)
		return
	}
	if h.OnMessage != nil {
		h.OnMessage(Message{Type: env.Type, Data: data})
	}
}

// route handles one decoded message. It returns false when the message must
// not reach the catch-all handler (malformed body or duplicate).
func (d *Dispatcher) route(msgType string, data []byte, h *Handlers, sink SessionSink) bool {
	switch msgType {
	case model.TypeConnected:
		var msg model.ConnectedMsg
		if !d.decode(msgType, data, &msg) {
			return false
		}
		sink.Handshake(msg.ClientID, msg.Authenticated)

	case model.TypeAuthRequired:
		var msg model.AuthRequiredMsg
		if !d.decode(msgType, data, &msg) {
			return false
		}
		sink.AuthRequired(msg.ClientID)

	case model.TypeAuthSuccess:
		var msg model.AuthSuccessMsg
		if !d.decode(msgType, data, &msg) {
			return false
		}
		sink.AuthSucceeded(msg.ClientID)

	case model.TypeAuthFailed, model.TypeError:
		var msg model.ErrorMsg
		if !d.decode(msgType, data, &msg) {
			return false
		}
		if !sink.ServerError(msg.Message) {
			d.dropStale(msgType)
			return false
		}
		d.logger.Warn("server reported error", "type", msgType, "message", msg.Message)
		if h.OnError != nil {
			h.OnError(msg.Message)
		}

	case model.TypePong:
		// Catch-all only.

	case model.TypeSessionsList:
		var msg model.SessionsListMsg
		if !d.decode(msgType, data, &msg) {
			return false
		}
		if h.OnSessionsList != nil {
			h.OnSessionsList(msg.Sessions)
		}

	case model.TypeSessionStateChange:
		var msg model.SessionStateChangeMsg
		if !d.decode(msgType, data, &msg) {
			return false
		}
		if h.OnSessionStateChange != nil {
			h.OnSessionStateChange(msg.SessionID, msg.State, msg.Fields)
		}

	case model.TypeSessionAdded:
		var msg model.SessionAddedMsg
		if !d.decode(msgType, data, &msg) {
			return false
		}
		if h.OnSessionAdded != nil {
			h.OnSessionAdded(msg.Session)
		}

	case model.TypeSessionRemoved:
		var msg model.SessionRefMsg
		if !d.decode(msgType, data, &msg) {
			return false
		}
		if h.OnSessionRemoved != nil {
			h.OnSessionRemoved(msg.SessionID)
		}

	case model.TypeActiveSessionChanged:
		var msg model.SessionRefMsg
		if !d.decode(msgType, data, &msg) {
			return false
		}
		if h.OnActiveSessionChanged != nil {
			h.OnActiveSessionChanged(msg.SessionID)
		}

	case model.TypeSessionOutput:
		var msg model.SessionOutputMsg
		if !d.decode(msgType, data, &msg) {
			return false
		}
		if msg.MsgID != "" && d.dedup.Seen(msg.MsgID) {
			d.duplicates.Add(1)
			d.metrics.DuplicateSuppressed()
			d.logger.Debug("suppressed duplicate output", "msg_id", msg.MsgID, "session_id", msg.SessionID)
			return false
		}
		if h.OnSessionOutput != nil {
			h.OnSessionOutput(msg.SessionID, msg.Data, msg.Source, msg.TabID)
		}

	case model.TypeSessionExit:
		var msg model.SessionExitMsg
		if !d.decode(msgType, data, &msg) {
			return false
		}
		if h.OnSessionExit != nil {
			h.OnSessionExit(msg.SessionID, msg.ExitCode)
		}

	case model.TypeUserInput:
		var msg model.UserInputMsg
		if !d.decode(msgType, data, &msg) {
			return false
		}
		if h.OnUserInput != nil {
			h.OnUserInput(msg.SessionID, msg.Command, msg.InputMode)
		}

	case model.TypeTheme:
		var msg model.ThemeMsg
		if !d.decode(msgType, data, &msg) {
			return false
		}
		if h.OnTheme != nil {
			h.OnTheme(msg.Theme)
		}

	case model.TypeCustomCommands:
		var msg model.CustomCommandsMsg
		if !d.decode(msgType, data, &msg) {
			return false
		}
		if h.OnCustomCommands != nil {
			h.OnCustomCommands(msg.Commands)
		}

	case model.TypeAutoRunState:
		var msg model.AutoRunStateMsg
		if !d.decode(msgType, data, &msg) {
			return false
		}
		if h.OnAutoRunState != nil {
			h.OnAutoRunState(msg.SessionID, msg.State)
		}

	case model.TypeTabsChanged:
		var msg model.TabsChangedMsg
		if !d.decode(msgType, data, &msg) {
			return false
		}
		if h.OnTabsChanged != nil {
			h.OnTabsChanged(msg.SessionID, msg.AITabs, msg.ActiveTabID)
		}

	default:
		d.unknownMessages.Add(1)
		d.logger.Debug("unhandled message type", "type", msgType)
	}

	return true
}

// decode unmarshals a typed message body, counting failures as parse errors.
func (d *Dispatcher) decode(msgType string, data []byte, v any) bool {
	if err := json.Unmarshal(data, v); err != nil {
		d.dropMalformed(msgType, err)
		return false
	}
	return true
}

func (d *Dispatcher) dropStale(msgType string) {
	d.staleMessages.Add(1)
	d.logger.Debug("dropping message from closed channel", "type", msgType)
}

func (d *Dispatcher) dropMalformed(msgType string, err error) {
	d.parseErrors.Add(1)
	d.metrics.ParseError()
	d.logger.Debug("dropping malformed message", "type", msgType, "error", err)
}

// metricType bounds label cardinality to the known message types.
func metricType(msgType string) string {
	switch msgType {
	case model.TypeConnected, model.TypeAuthRequired, model.TypeAuthSuccess, model.TypeAuthFailed,
		model.TypeSessionsList, model.TypeSessionStateChange, model.TypeSessionAdded,
		model.TypeSessionRemoved, model.TypeActiveSessionChanged, model.TypeSessionOutput,
		model.TypeSessionExit, model.TypeUserInput, model.TypeTheme, model.TypeCustomCommands,
		model.TypeAutoRunState, model.TypeTabsChanged, model.TypeError, model.TypePong:
		return msgType
	default:
		return "other"
	}
}
