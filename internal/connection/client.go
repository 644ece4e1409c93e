package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WebSocketDialer acquires transports backed by gorilla/websocket.
type WebSocketDialer struct {
	cfg    DialerConfig
	logger *slog.Logger
}

// NewWebSocketDialer creates a new WebSocket dialer.
func NewWebSocketDialer(cfg DialerConfig, logger *slog.Logger) *WebSocketDialer {
	if logger == nil {
		logger = slog.Default()
	}

	return &WebSocketDialer{
		cfg:    cfg,
		logger: logger,
	}
}

// Dial validates rawURL and starts connecting in the background.
func (d *WebSocketDialer) Dial(rawURL string, events TransportEvents) (Transport, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	id := uuid.NewString()
	c := &client{
		id:     id,
		url:    rawURL,
		cfg:    d.cfg,
		logger: d.logger.With("conn_id", id),
		events: events,
		done:   make(chan struct{}),
	}

	go c.run()

	return c, nil
}

// client is a single WebSocket connection.
type client struct {
	id     string
	url    string
	cfg    DialerConfig
	logger *slog.Logger
	events TransportEvents

	conn *websocket.Conn
	done chan struct{}

	// Write serialization
	writeMu sync.Mutex

	// State
	mu        sync.Mutex
	connected bool
	closed    bool
}

// Send writes one text message.
func (c *client) Send(data []byte) error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return ErrNotConnected
	}
	conn := c.conn
	c.mu.Unlock()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.cfg.WriteTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

// Close sends a close frame and tears the connection down. No events are
// delivered after Close returns.
func (c *client) Close(code int, reason string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.connected = false
	conn := c.conn
	c.mu.Unlock()

	// Abort a dial in progress
	close(c.done)

	if conn == nil {
		return nil
	}

	conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(time.Second),
	)
	return conn.Close()
}

func (c *client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// run dials, reports the outcome and then reads until the connection ends.
func (c *client) run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-c.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: c.cfg.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, c.url, c.cfg.Header)
	if err != nil {
		if c.isClosed() {
			return
		}
		c.logger.Warn("websocket dial failed", "url", c.url, "error", err)
		c.events.OnError(err)
		c.events.OnClose(CloseAbnormal, "")
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	c.logger.Debug("websocket connected", "url", c.url)
	c.events.OnOpen()

	c.readLoop(conn)
}

// readLoop delivers messages until the connection fails or is closed.
func (c *client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err == nil {
			c.events.OnMessage(data)
			continue
		}

		c.mu.Lock()
		c.connected = false
		closed := c.closed
		c.mu.Unlock()

		// Ignore errors after Close() is called
		if closed {
			return
		}

		// gorilla reports a dropped connection as a 1006 CloseError. 1006 is
		// never sent on the wire, so only other codes mean a close frame arrived.
		code, reason := CloseAbnormal, ""
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) && closeErr.Code != websocket.CloseAbnormalClosure {
			code, reason = closeErr.Code, closeErr.Text
		} else {
			c.events.OnError(err)
		}

		conn.Close()
		c.logger.Debug("websocket closed", "code", code, "reason", reason)
		c.events.OnClose(code, reason)
		return
	}
}
