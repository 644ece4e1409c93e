package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rickgao/sessionlink/internal/model"
)

type fakeAuth struct {
	tokens []string
	ok     bool
}

func (f *fakeAuth) Authenticate(token string) bool {
	f.tokens = append(f.tokens, token)
	return f.ok
}

func TestEventHandlers_AuthenticatesWhenConnected(t *testing.T) {
	auth := &fakeAuth{ok: true}
	h := eventHandlers(auth, "tok", slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	h.OnConnectionChange(model.StateConnecting)
	h.OnConnectionChange(model.StateAuthenticating)
	assert.Empty(t, auth.tokens)

	h.OnConnectionChange(model.StateConnected)
	assert.Equal(t, []string{"tok"}, auth.tokens)

	h.OnConnectionChange(model.StateAuthenticated)
	assert.Len(t, auth.tokens, 1)
}

func TestEventHandlers_NoToken(t *testing.T) {
	auth := &fakeAuth{ok: true}
	h := eventHandlers(auth, "", slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	h.OnConnectionChange(model.StateConnected)
	assert.Empty(t, auth.tokens)
}

func TestEventHandlers_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := eventHandlers(&fakeAuth{ok: false}, "tok", logger)

	h.OnConnectionChange(model.StateConnected)
	h.OnError("invalid token")
	h.OnSessionOutput("s1", "hello", "ai", "t1")
	h.OnAutoRunState("s1", nil)
	h.OnSessionExit("s1", 2)

	out := buf.String()
	assert.Contains(t, out, "failed to send auth token")
	assert.Contains(t, out, "message=\"invalid token\"")
	assert.Contains(t, out, "session_id=s1")
	assert.Contains(t, out, "auto-run cleared")
	assert.Contains(t, out, "exit_code=2")
	assert.NotContains(t, out, "tok\"", "token must not be logged")
}
