// Package app provides the orchestration layer for the Easel application.
//
// # Overview
//
// This package wires together configuration, the gridd client, the canvas
// mirror, the drawing engine, the poller and the UI. It is the composition
// root: every dependency is constructed here and nowhere else.
//
// # Startup Sequence
//
//  1. Load ~/.config/easel/config.toml (created on first run)
//  2. Redirect the standard logger to easel's log file
//  3. Optionally discover a gridd server over mDNS
//  4. Build the HTTP client and load the full canvas (fatal if unreachable)
//  5. Seed the drawing engine with the confirmed pixels
//  6. Optionally stage an imported image as one undoable entry
//  7. Start the poller and the advisory websocket watch feed
//  8. Run the TUI and block until the user quits or the context ends
//
// # Data Flow
//
// The poller syncs the canvas store on its own goroutine. Results are
// bridged into the Bubble Tea loop over a buffered channel, so the engine is
// only ever mutated by the UI goroutine. The watch feed never carries pixel
// data; it just collapses the poller's pending wait when the server
// announces a new revision.
//
// # Error Handling
//
// Fatal errors (returned from Run): unreadable config, an unparsable server
// address, and a failed initial canvas load. Everything after startup is
// recoverable: sync failures back off and keep polling, a dead watch socket
// degrades to plain polling, and discovery failures fall back to the
// configured address.
package app
