package config

import (
	"fmt"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rickgao/sessionlink/internal/connection"
)

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML config bytes after expanding environment variables.
func Parse(data []byte) (*Config, error) {
	// Expand ${VAR} environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads config and applies default values.
func LoadWithDefaults(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// ResolveURL returns the WebSocket URL to dial. An explicit server.url is
// used as is; otherwise it is derived from server.origin and server.session_id.
func (c *Config) ResolveURL() (string, error) {
	if c.Server.URL != "" {
		return c.Server.URL, nil
	}
	return connection.BuildURL(c.Server.Origin, c.Server.SessionID)
}

// ManagerConfig converts the connection section to a connection.Config.
// Call after applyDefaults.
func (c *Config) ManagerConfig() (connection.Config, error) {
	url, err := c.ResolveURL()
	if err != nil {
		return connection.Config{}, fmt.Errorf("resolve server url: %w", err)
	}

	mc := connection.DefaultConfig()
	mc.URL = url
	mc.ReconnectDelay = c.Connection.ReconnectDelay
	mc.MaxReconnectAttempts = c.Connection.MaxReconnectAttempts
	mc.DedupCapacity = c.Connection.DedupCapacity
	if c.Connection.AutoReconnect != nil {
		mc.AutoReconnect = *c.Connection.AutoReconnect
	}
	if c.Connection.PingInterval != nil {
		mc.PingInterval = *c.Connection.PingInterval
	}

	return mc, nil
}

// DialerConfig returns the WebSocket dialer settings.
func (c *Config) DialerConfig() connection.DialerConfig {
	dc := connection.DefaultDialerConfig()
	dc.HandshakeTimeout = c.Connection.HandshakeTimeout
	dc.WriteTimeout = c.Connection.WriteTimeout

	if c.Server.HeaderOrigin != "" {
		dc.Header = http.Header{}
		dc.Header.Set("Origin", c.Server.HeaderOrigin)
	}

	return dc
}
