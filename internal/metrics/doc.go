// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Connection state and state transitions
//   - Reconnects scheduled and fired
//   - Inbound messages by type, parse errors, suppressed duplicates
//   - Keepalive pings and failed sends
package metrics
