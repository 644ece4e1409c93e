// Package dedup implements the message Deduplicator.
//
// The Deduplicator:
//   - Remembers the most recent N message ids (default 1000)
//   - Evicts the oldest id first, in insertion order
//   - Never refreshes an id on a repeat sighting
//   - Lets an evicted id through again if it reappears
package dedup
