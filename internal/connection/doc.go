// Package connection implements the Connection Manager component.
//
// The Connection Manager:
//   - Owns a single long-lived WebSocket channel to the session server
//   - Drives the Disconnected → Connecting → Authenticating → Connected/Authenticated state machine
//   - Reconnects after an abnormal close with a fixed delay
//   - Sends keepalive pings while the channel is live
//   - Hands every inbound payload to the Message Dispatcher
package connection
