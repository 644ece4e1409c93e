package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAutoReconnect    = true
	DefaultReconnectDelay   = 2 * time.Second
	DefaultPingInterval     = 30 * time.Second
	DefaultDedupCapacity    = 1000
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 5 * time.Second
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultMetricsPort      = 9090
	DefaultMetricsPath      = "/metrics"
)

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	// Connection defaults
	if c.Connection.AutoReconnect == nil {
		v := DefaultAutoReconnect
		c.Connection.AutoReconnect = &v
	}
	if c.Connection.ReconnectDelay == 0 {
		c.Connection.ReconnectDelay = DefaultReconnectDelay
	}
	if c.Connection.PingInterval == nil {
		v := DefaultPingInterval
		c.Connection.PingInterval = &v
	}
	if c.Connection.DedupCapacity == 0 {
		c.Connection.DedupCapacity = DefaultDedupCapacity
	}
	if c.Connection.HandshakeTimeout == 0 {
		c.Connection.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Connection.WriteTimeout == 0 {
		c.Connection.WriteTimeout = DefaultWriteTimeout
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
