package engine

// EntryKind distinguishes the two groupings history records.
type EntryKind string

const (
	EntryStroke EntryKind = "stroke"
	EntryImport EntryKind = "import"
)

// UserCell is one user-layer entry. Erase marks an explicit erase, which is
// distinct from the coordinate being absent.
type UserCell struct {
	Color uint32
	Erase bool
}

// DrawOp records one applied paint or erase, in application order.
type DrawOp struct {
	X     int
	Y     int
	Color uint32
	Erase bool
}

// StrokeChange captures one coordinate's transition within an entry. A nil
// pointer means the coordinate was absent from the user layer on that side.
type StrokeChange struct {
	Index  int
	Before *UserCell
	After  *UserCell
}

// HistoryEntry groups the changes of exactly one stroke or one bulk import.
type HistoryEntry struct {
	Kind    EntryKind
	Changes []StrokeChange
	Ops     []DrawOp
}

// history holds the undo and redo stacks. It only ever describes user-layer
// state; the server mirror is never recorded here.
type history struct {
	undo []HistoryEntry
	redo []HistoryEntry
}

// push appends a new entry and invalidates forward history.
func (h *history) push(entry HistoryEntry) {
	h.undo = append(h.undo, entry)
	h.redo = nil
}

func (h *history) popUndo() (HistoryEntry, bool) {
	if len(h.undo) == 0 {
		return HistoryEntry{}, false
	}
	entry := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, entry)
	return entry, true
}

func (h *history) popRedo() (HistoryEntry, bool) {
	if len(h.redo) == 0 {
		return HistoryEntry{}, false
	}
	entry := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, entry)
	return entry, true
}

func (h *history) clear() {
	h.undo = nil
	h.redo = nil
}

// CanUndo reports whether an entry is available to undo.
func (e *Engine) CanUndo() bool { return len(e.history.undo) > 0 }

// CanRedo reports whether an entry is available to redo.
func (e *Engine) CanRedo() bool { return len(e.history.redo) > 0 }
