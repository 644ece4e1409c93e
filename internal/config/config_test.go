package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/sessionlink/internal/connection"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	yaml := `
server:
  url: wss://maestro.local:3000/ws?sessionId=abc
  token: tok-1
connection:
  reconnect_delay: 5s
  max_reconnect_attempts: 10
logging:
  level: debug
  format: json
`
	cfg, err := Load(writeTempFile(t, yaml))
	require.NoError(t, err)

	assert.Equal(t, "wss://maestro.local:3000/ws?sessionId=abc", cfg.Server.URL)
	assert.Equal(t, "tok-1", cfg.Server.Token)
	assert.Equal(t, 5*time.Second, cfg.Connection.ReconnectDelay)
	assert.Equal(t, 10, cfg.Connection.MaxReconnectAttempts)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Nil(t, cfg.Connection.AutoReconnect, "unset before defaults")
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("SESSIONLINK_TOKEN", "secret123")

	yaml := `
server:
  origin: http://localhost:3000
  token: ${SESSIONLINK_TOKEN}
`
	cfg, err := Load(writeTempFile(t, yaml))
	require.NoError(t, err)

	assert.Equal(t, "secret123", cfg.Server.Token)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeTempFile(t, "server: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config yaml")
}

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults(writeTempFile(t, "server:\n  origin: http://localhost:3000\n"))
	require.NoError(t, err)

	require.NotNil(t, cfg.Connection.AutoReconnect)
	assert.True(t, *cfg.Connection.AutoReconnect)
	assert.Equal(t, DefaultReconnectDelay, cfg.Connection.ReconnectDelay)
	require.NotNil(t, cfg.Connection.PingInterval)
	assert.Equal(t, DefaultPingInterval, *cfg.Connection.PingInterval)
	assert.Equal(t, DefaultDedupCapacity, cfg.Connection.DedupCapacity)
	assert.Equal(t, DefaultHandshakeTimeout, cfg.Connection.HandshakeTimeout)
	assert.Equal(t, DefaultWriteTimeout, cfg.Connection.WriteTimeout)
	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Logging.Format)
	assert.Equal(t, DefaultMetricsPort, cfg.Metrics.Port)
	assert.Equal(t, DefaultMetricsPath, cfg.Metrics.Path)
}

func TestDefaultsKeepExplicitZeroes(t *testing.T) {
	yaml := `
server:
  origin: http://localhost:3000
connection:
  auto_reconnect: false
  ping_interval: 0s
`
	cfg, err := LoadWithDefaults(writeTempFile(t, yaml))
	require.NoError(t, err)

	assert.False(t, *cfg.Connection.AutoReconnect)
	assert.Zero(t, *cfg.Connection.PingInterval)

	mc, err := cfg.ManagerConfig()
	require.NoError(t, err)
	assert.False(t, mc.AutoReconnect)
	assert.Zero(t, mc.PingInterval)
}

func TestLoadAndValidate(t *testing.T) {
	cfg, err := LoadAndValidate(writeTempFile(t, "server:\n  url: ws://localhost:3000/ws\n"))
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:3000/ws", cfg.Server.URL)

	_, err = LoadAndValidate(writeTempFile(t, "logging:\n  level: info\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Server.Origin = "https://maestro.local"
		return cfg
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no server", func(c *Config) { c.Server.Origin = "" }, "server.url or server.origin is required"},
		{"bad origin scheme", func(c *Config) { c.Server.Origin = "ftp://host" }, "server.origin"},
		{"http url", func(c *Config) { c.Server.URL = "http://host/ws" }, "server.url must use ws or wss"},
		{"negative delay", func(c *Config) { c.Connection.ReconnectDelay = -time.Second }, "reconnect_delay"},
		{"negative attempts", func(c *Config) { c.Connection.MaxReconnectAttempts = -1 }, "max_reconnect_attempts"},
		{"negative ping", func(c *Config) {
			d := -time.Second
			c.Connection.PingInterval = &d
		}, "ping_interval"},
		{"zero dedup", func(c *Config) { c.Connection.DedupCapacity = 0 }, "dedup_capacity"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad port", func(c *Config) { c.Metrics.Port = 70000 }, "metrics.port"},
		{"bad path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestResolveURL(t *testing.T) {
	cfg := Default()
	cfg.Server.Origin = "https://maestro.local:8443"
	cfg.Server.SessionID = "s-42"

	got, err := cfg.ResolveURL()
	require.NoError(t, err)
	assert.Equal(t, "wss://maestro.local:8443/ws?sessionId=s-42", got)

	cfg.Server.URL = "ws://explicit:1/ws"
	got, err = cfg.ResolveURL()
	require.NoError(t, err)
	assert.Equal(t, "ws://explicit:1/ws", got)
}

func TestManagerConfig(t *testing.T) {
	cfg := Default()
	cfg.Server.URL = "ws://localhost:3000/ws"
	cfg.Connection.ReconnectDelay = 750 * time.Millisecond
	cfg.Connection.MaxReconnectAttempts = 3
	cfg.Connection.DedupCapacity = 50

	mc, err := cfg.ManagerConfig()
	require.NoError(t, err)

	assert.Equal(t, connection.Config{
		URL:                  "ws://localhost:3000/ws",
		AutoReconnect:        true,
		ReconnectDelay:       750 * time.Millisecond,
		MaxReconnectAttempts: 3,
		PingInterval:         DefaultPingInterval,
		DedupCapacity:        50,
	}, mc)
}

func TestManagerConfigBadOrigin(t *testing.T) {
	cfg := Default()
	cfg.Server.Origin = "::not a url"

	_, err := cfg.ManagerConfig()
	require.Error(t, err)
}

func TestDialerConfig(t *testing.T) {
	cfg := Default()
	cfg.Connection.WriteTimeout = time.Second

	dc := cfg.DialerConfig()
	assert.Equal(t, DefaultHandshakeTimeout, dc.HandshakeTimeout)
	assert.Equal(t, time.Second, dc.WriteTimeout)
	assert.Nil(t, dc.Header)

	cfg.Server.HeaderOrigin = "http://localhost:3000"
	dc = cfg.DialerConfig()
	assert.Equal(t, "http://localhost:3000", dc.Header.Get("Origin"))
}
