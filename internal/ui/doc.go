// Package ui provides the Bubble Tea terminal interface for Easel.
//
// # Overview
//
// The UI is a single full-screen model: one header row, the canvas, and one
// footer row. The canvas renders the engine's composed frame with half-block
// characters, packing two framebuffer pixels into every terminal cell, so a
// typical window shows a few hundred canvas pixels at truecolor.
//
// # Event Flow
//
// The poller runs on its own goroutine and never touches the engine. Its
// results are bridged into Bubble Tea through a message channel: the app
// layer wraps each sync result with SyncApplied (or SyncFailed) and the model
// re-arms a waitEventCmd after every delivery. All engine mutation therefore
// happens on the Bubble Tea update loop, which is what lets the engine stay
// lock-free.
//
// # Interaction Model
//
// The keyboard cursor paints single-pixel strokes; the b key opens a stroke
// that keeps painting while the cursor moves and commits as one undoable
// entry. Mouse input does the same with press/drag/release. Opening a stroke
// pauses the poller so a base refresh cannot land mid-stroke; committing
// resumes it with the remaining wait intact.
//
// # Chrome
//
// The header shows the server, grid size, revision, zoom and the active
// color; the footer alternates between transient status messages and a key
// hint line. Themes are Lipgloss palettes cycled with T and persisted via the
// prefs package together with the last used color.
package ui
