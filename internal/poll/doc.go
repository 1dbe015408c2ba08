// Package poll schedules canvas synchronization against the gridd server.
//
// # Overview
//
// The Poller runs SmartSync on an adaptive cadence. Successful rounds reset
// the delay to the base interval; consecutive failures grow it multiplicatively
// up to a ceiling, so an unreachable server is probed ever more gently without
// ever being abandoned. Every delay gets a random jitter so a fleet of clients
// does not thundering-herd a recovering server.
//
// # Cadence Control
//
// Beyond the timer, the loop reacts to a few external signals:
//
//   - ForceSync collapses the pending wait and syncs immediately.
//   - SetVisible(false) stretches delays by a multiplier; becoming visible
//     again resets the delay and forces a sync.
//   - SetOnline mirrors network reachability with the same reset-and-force
//     behavior on recovery.
//   - PauseWhileDrawing freezes the pending wait so a base refresh cannot
//     land mid-stroke; ResumeAfterDrawing continues with the remaining time
//     intact rather than starting a fresh interval. Pauses nest, resumes
//     without a matching pause are ignored, and a force request arriving
//     while paused stays queued until the last stroke ends.
//
// # Error Handling
//
// Sync failures are delivered to OnError handlers and never stop the loop.
// Syncs that changed nothing are silent; OnUpdate fires only when the mirror
// actually moved.
//
// # Lifecycle
//
// Start launches the loop goroutine; Stop cancels the pending timer
// deterministically and returns the poller to its initial state, after which
// Start works again. Both are safe to call redundantly.
package poll
