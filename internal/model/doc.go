// Package model defines the JSON wire types exchanged with the session server.
//
// Conventions:
//   - Every message is a JSON object with a mandatory "type" discriminant
//   - Field names are camelCase on the wire
//   - Timestamps: int64 milliseconds since Unix epoch
package model
