package main

import (
	"encoding/json"
	"log/slog"

	"github.com/rickgao/sessionlink/internal/model"
	"github.com/rickgao/sessionlink/internal/router"
)

// authenticator sends the auth token on the live channel.
type authenticator interface {
	Authenticate(token string) bool
}

// eventHandlers logs every session event. When token is set it answers the
// server's auth challenge as soon as the channel reaches Connected.
func eventHandlers(auth authenticator, token string, logger *slog.Logger) router.Handlers {
	return router.Handlers{
		OnConnectionChange: func(state model.ConnectionState) {
			logger.Info("connection state", "state", state)
			if state == model.StateConnected && token != "" {
				if !auth.Authenticate(token) {
					logger.Warn("failed to send auth token")
				}
			}
		},
		OnError: func(message string) {
			logger.Error("connection error", "message", message)
		},
		OnSessionsList: func(sessions []model.SessionData) {
			logger.Info("sessions list", "count", len(sessions))
			for _, s := range sessions {
				logger.Debug("session", "session_id", s.ID, "name", s.Name, "state", s.State, "tool", s.ToolType)
			}
		},
		OnSessionStateChange: func(sessionID, state string, fields map[string]json.RawMessage) {
			logger.Info("session state changed", "session_id", sessionID, "state", state, "extra_fields", len(fields))
		},
		OnSessionAdded: func(session model.SessionData) {
			logger.Info("session added", "session_id", session.ID, "name", session.Name)
		},
		OnSessionRemoved: func(sessionID string) {
			logger.Info("session removed", "session_id", sessionID)
		},
		OnActiveSessionChanged: func(sessionID string) {
			logger.Info("active session changed", "session_id", sessionID)
		},
		OnSessionOutput: func(sessionID, data, source, tabID string) {
			logger.Info("session output", "session_id", sessionID, "tab_id", tabID, "source", source, "bytes", len(data))
		},
		OnSessionExit: func(sessionID string, exitCode int) {
			logger.Info("session exited", "session_id", sessionID, "exit_code", exitCode)
		},
		OnUserInput: func(sessionID, command, inputMode string) {
			logger.Info("user input", "session_id", sessionID, "input_mode", inputMode, "bytes", len(command))
		},
		OnTheme: func(theme model.Theme) {
			logger.Info("theme", "theme_id", theme.ID, "mode", theme.Mode)
		},
		OnCustomCommands: func(commands []model.CustomCommand) {
			logger.Info("custom commands", "count", len(commands))
		},
		OnAutoRunState: func(sessionID string, state *model.AutoRunState) {
			if state == nil {
				logger.Info("auto-run cleared", "session_id", sessionID)
				return
			}
			logger.Info("auto-run state",
				"session_id", sessionID,
				"running", state.IsRunning,
				"completed", state.CompletedTasks,
				"total", state.TotalTasks,
			)
		},
		OnTabsChanged: func(sessionID string, tabs []model.AITab, activeTabID string) {
			logger.Info("tabs changed", "session_id", sessionID, "tabs", len(tabs), "active_tab_id", activeTabID)
		},
	}
}
