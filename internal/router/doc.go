// Package router implements the Message Dispatcher.
//
// The Dispatcher:
//   - Parses every inbound payload as JSON and switches on its "type"
//   - Applies session identity side effects (client id, auth flag) through a SessionSink
//   - Routes each known type to one typed handler slot
//   - Forwards every decoded payload to the catch-all handler
//   - Suppresses repeated session_output messages by msgId
package router
