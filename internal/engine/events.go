package engine

import "github.com/easelapp/easel/internal/wire"

// Event is the narrow contract between the engine and whatever UI hosts it.
// Listeners subscribe explicitly instead of threading callbacks through call
// sites.
type Event interface {
	isEvent()
}

// RevisionChanged announces that the base layer absorbed a sync.
type RevisionChanged struct {
	Revision   uint64
	Pixels     []wire.Pixel
	FullReload bool
}

// StrokeCommitted announces one atomically committed stroke or import.
type StrokeCommitted struct {
	Entry HistoryEntry
}

// SyncError announces a recoverable sync failure for toast-level reporting.
type SyncError struct {
	Err error
}

func (RevisionChanged) isEvent() {}
func (StrokeCommitted) isEvent() {}
func (SyncError) isEvent()       {}

// Subscribe registers a listener for engine events. Dispatch is synchronous
// on the mutating goroutine; listeners must not re-enter the engine.
func (e *Engine) Subscribe(listener func(Event)) {
	e.listeners = append(e.listeners, listener)
}

func (e *Engine) publish(ev Event) {
	for _, listener := range e.listeners {
		listener(ev)
	}
}
