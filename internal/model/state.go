package model

// ConnectionState is the state of the connection manager.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateAuthenticating
	StateConnected
	StateAuthenticated
)

// String returns the lowercase state name.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateConnected:
		return "connected"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Live reports whether the channel is usable (Connected or Authenticated).
func (s ConnectionState) Live() bool {
	return s == StateConnected || s == StateAuthenticated
}

// MarshalText encodes the state by name.
func (s ConnectionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
