// Package gridd provides the HTTP and WebSocket client for the gridd canvas
// daemon API.
//
// # Overview
//
// This package defines the API client for talking to a gridd server. It
// handles HTTP communication, JSON decoding into the wire package's types,
// the optional /watch WebSocket feed, and mDNS discovery of servers on the
// local network.
//
// # Architecture
//
// The package is split into four files:
//
//   - client.go: HTTP client implementation and request/response handling
//   - types.go: response envelopes specific to the gridd API
//   - watch.go: WebSocket subscription to server-pushed head updates
//   - discover.go: zeroconf lookup of gridd instances
//
// # API Endpoints
//
// The client supports three read-only endpoints:
//
//   - GET /head: current revision and grid dimensions, a few bytes
//   - GET /canvas: the full canvas as a columnar compact payload
//   - GET /delta?since=N: pixels changed after revision N
//
// A delta response may carry full=true, meaning the server could not produce
// an incremental answer and sent a complete snapshot instead; callers must
// replace rather than merge in that case.
//
// # Request Handling
//
// All requests use context for cancellation, set Accept: application/json,
// send a User-Agent of easel/0.1, and wrap failures with descriptive context
// using fmt.Errorf. Non-2xx statuses and malformed JSON are both surfaced as
// errors.
//
// # Watch Feed
//
// NewWatcher derives a ws:// (or wss://) URL for the /watch endpoint from the
// client's base URL. Run blocks reading head frames and invokes the callback
// for each one until the context is canceled; cancellation is a clean return,
// any other read failure is an error. The feed only announces that something
// changed; fetching the actual pixels stays with the poller so a dropped
// socket degrades to plain polling.
//
// # Discovery
//
// Discover browses for the _gridd._tcp mDNS service and returns the first
// instance found as a host:port string. It is a convenience for LAN setups
// where the server address is not known in advance.
//
// # Thread Safety
//
// The Client struct is safe for concurrent use. A Watcher runs one
// connection per Run call.
package gridd
