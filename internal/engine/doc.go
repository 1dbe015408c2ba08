// Package engine owns the client-side drawing model: layered pixel state,
// viewport math, frame composition, and undo/redo history.
//
// # Overview
//
// The engine keeps two layers. The base layer mirrors the server-confirmed
// canvas and is only ever rewritten by sync results. The user layer holds
// local edits that have not been (and may never be) submitted; it always
// renders above the base layer, and an explicit erase in the user layer hides
// the base pixel underneath. CurrentPixelData merges the two with the user
// layer winning on conflict.
//
// # Architecture
//
// The package is split across several files:
//
//   - engine.go: the Engine struct, layer mutation, stroke batching
//   - history.go: entry types and the undo/redo stacks
//   - viewport.go: screen/world mapping, zoom and pan
//   - compose.go: off-screen buffers and the cached compositor
//   - export.go: flattened PNG/PDF export and image import decoding
//   - events.go: the typed event fanout the UI subscribes to
//
// # Strokes
//
// Edits are grouped into strokes. Everything painted between BeginStroke and
// EndStroke commits atomically: one history entry, one StrokeCommitted event,
// never a notification per pixel. Within a stroke the first touch of a
// coordinate decides its committed value; revisits show in the preview buffer
// but do not grow the change set. A paint with no open stroke is treated as a
// one-pixel stroke. Bulk image imports commit the same way under the import
// entry kind.
//
// # History
//
// Undo and redo replay the recorded before/after cells of one entry at a
// time. History describes the user layer only; syncs never touch it. Clearing
// the user layer, importing a canvas wholesale, or a grid dimension change
// drops both stacks.
//
// # Rendering
//
// Compose draws into a cached screen-sized frame. The base and user layers
// live in off-screen RGBA buffers at one pixel per grid cell; dirty flags
// decide whether a buffer needs a wholesale rebuild, and incremental paints
// touch buffer pixels directly. Each frame blits only the viewport-visible
// world rectangle, scaled with nearest-neighbor so cells stay hard-edged, and
// overlays faint grid lines once the scale crosses a readability threshold.
//
// # Concurrency
//
// The Engine is deliberately not synchronized. The hosting UI loop is the
// single writer: sync results, pointer input, and composition all arrive on
// the same goroutine. Event listeners run synchronously on that goroutine and
// must not re-enter the engine.
package engine
