package connection

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildURL derives the WebSocket URL from a server base URL.
//
// http and https bases are mapped to ws and wss. The path "/ws" is appended
// unless the base already ends with it, and sessionID (when non-empty) is
// added as the sessionId query parameter.
func BuildURL(base, sessionID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	path := strings.TrimSuffix(u.Path, "/")
	if !strings.HasSuffix(path, "/ws") {
		path += "/ws"
	}
	u.Path = path

	if sessionID != "" {
		q := u.Query()
		q.Set("sessionId", sessionID)
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}
