package config

import "time"

// Config is the root configuration for a sessionlink client.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Connection ConnectionConfig `yaml:"connection"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// ServerConfig identifies the session server.
type ServerConfig struct {
	URL          string `yaml:"url"`           // Full WebSocket URL; wins over Origin
	Origin       string `yaml:"origin"`        // Page origin (http/https), converted to a WebSocket URL
	SessionID    string `yaml:"session_id"`    // Optional session scope
	Token        string `yaml:"token"`         // Auth token sent when the server asks
	HeaderOrigin string `yaml:"header_origin"` // Origin header for the opening handshake
}

// ConnectionConfig holds Connection Manager settings.
type ConnectionConfig struct {
	AutoReconnect        *bool          `yaml:"auto_reconnect"`
	ReconnectDelay       time.Duration  `yaml:"reconnect_delay"`
	MaxReconnectAttempts int            `yaml:"max_reconnect_attempts"`
	PingInterval         *time.Duration `yaml:"ping_interval"` // 0s disables keepalive
	DedupCapacity        int            `yaml:"dedup_capacity"`
	HandshakeTimeout     time.Duration  `yaml:"handshake_timeout"`
	WriteTimeout         time.Duration  `yaml:"write_timeout"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
