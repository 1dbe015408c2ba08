// Package canvas maintains the revisioned local mirror of the server canvas.
//
// # Overview
//
// The Store holds the last known grid dimensions, the server revision, and a
// sparse pixel map keyed by linear index. It is the single source of truth
// for "what the server has confirmed"; drawing state lives elsewhere.
//
// # Sync Protocol
//
// SmartSync drives one round of reconciliation:
//
//  1. Fetch the head (revision plus dimensions) — a few bytes.
//  2. If the dimensions changed, adopt them and reload the full canvas;
//     a dimension change starts a new epoch and any revision ordering from
//     the old epoch is meaningless.
//  3. If the head revision equals the local one, do nothing. No payload is
//     fetched and the result is empty, so callers can stay silent.
//  4. Otherwise fetch the delta since the local revision. When the server
//     answers full=true the payload replaces the mirror instead of merging.
//
// # Revision Ordering
//
// Within an epoch the revision only moves forward: applying a payload with a
// stale revision keeps the newer local value. Malformed payloads are rejected
// before any mutation, so a decode failure leaves the mirror untouched.
//
// # Thread Safety
//
// The Store is safe for concurrent use. Reads return copies of the tracked
// state; SmartSync holds the write lock only while mutating, not across
// network fetches.
package canvas
