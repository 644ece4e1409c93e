package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.URL == "" && c.Server.Origin == "" {
		return errors.New("server.url or server.origin is required")
	}
	if c.Server.URL != "" {
		u, err := url.Parse(c.Server.URL)
		if err != nil {
			return fmt.Errorf("server.url: %w", err)
		}
		if u.Scheme != "ws" && u.Scheme != "wss" {
			return fmt.Errorf("server.url must use ws or wss, got %q", u.Scheme)
		}
	} else if _, err := c.ResolveURL(); err != nil {
		return fmt.Errorf("server.origin: %w", err)
	}

	if c.Connection.ReconnectDelay < 0 {
		return errors.New("connection.reconnect_delay must be >= 0")
	}
	if c.Connection.MaxReconnectAttempts < 0 {
		return errors.New("connection.max_reconnect_attempts must be >= 0")
	}
	if c.Connection.PingInterval != nil && *c.Connection.PingInterval < 0 {
		return errors.New("connection.ping_interval must be >= 0")
	}
	if c.Connection.DedupCapacity < 1 {
		return errors.New("connection.dedup_capacity must be >= 1")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path)
	}

	return nil
}
