package engine

import (
	"image"
	"image/color"

	"github.com/easelapp/easel/internal/canvas"
	"github.com/easelapp/easel/internal/wire"
)

// Engine owns the client-side drawing state: a base layer mirroring the
// server-confirmed canvas, a user layer holding local uncommitted edits, the
// viewport, and the undo/redo history. It is not safe for concurrent use;
// the hosting UI loop is the single writer and all calls are synchronous.
type Engine struct {
	width  int
	height int

	background color.RGBA

	base    map[int]wire.Pixel
	baseBuf *image.RGBA

	user    map[int]UserCell
	userBuf *image.RGBA
	ops     []DrawOp

	history   history
	listeners []func(Event)

	view  Viewport
	frame *image.RGBA

	// Wholesale-rebuild flags for the off-screen buffers, plus one flag for
	// the composed frame. Incremental paints touch the buffers directly and
	// only mark the frame.
	baseDirty  bool
	userDirty  bool
	frameDirty bool

	stroking   bool
	pending    []StrokeChange
	pendingIdx map[int]int
	pendingOps []DrawOp
}

// UserPixel is one externally visible user-layer cell.
type UserPixel struct {
	X      int
	Y      int
	Color  uint32
	Erased bool
}

// Options configure a new engine.
type Options struct {
	GridWidth  int
	GridHeight int
	CanvasW    int // screen pixels available to Compose
	CanvasH    int
	Background color.RGBA // empty-cell and erased-cell color
}

// New creates an engine for the given grid with empty layers.
func New(opts Options) *Engine {
	bg := opts.Background
	if bg.A == 0 {
		bg = color.RGBA{R: 0x12, G: 0x12, B: 0x12, A: 0xFF}
	}
	e := &Engine{
		background: bg,
		view:       newViewport(opts.CanvasW, opts.CanvasH),
	}
	e.resizeGrid(opts.GridWidth, opts.GridHeight)
	return e
}

// GridSize returns the current grid dimensions.
func (e *Engine) GridSize() (width, height int) {
	return e.width, e.height
}

// Viewport returns the current view transform.
func (e *Engine) Viewport() Viewport { return e.view }

// resizeGrid starts the engine over on a new grid: both layers, the history
// and the pending stroke are discarded.
func (e *Engine) resizeGrid(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	e.width = width
	e.height = height
	e.base = make(map[int]wire.Pixel)
	e.user = make(map[int]UserCell)
	e.ops = nil
	e.history.clear()
	e.baseBuf = image.NewRGBA(image.Rect(0, 0, width, height))
	e.userBuf = image.NewRGBA(image.Rect(0, 0, width, height))
	e.stroking = false
	e.pending = nil
	e.pendingIdx = nil
	e.pendingOps = nil
	e.baseDirty = true
	e.userDirty = true
	e.frameDirty = true
}

// ApplySync folds a sync result into the base layer. A dimension change
// invalidates everything including the user layer and history; a full reload
// rebuilds the base wholesale; a delta paints just the changed pixels.
func (e *Engine) ApplySync(res canvas.SyncResult, width, height int) {
	switch {
	case width != e.width || height != e.height:
		e.resizeGrid(width, height)
		e.replaceBase(res.Changed)
	case res.FullReload:
		e.replaceBase(res.Changed)
	default:
		for _, px := range res.Changed {
			if !e.inGrid(px.X, px.Y) {
				continue
			}
			e.base[wire.Index(px.X, px.Y, e.width)] = px
			e.baseBuf.SetRGBA(px.X, px.Y, rgbaOf(px.Color))
		}
		e.frameDirty = true
	}
	e.publish(RevisionChanged{Revision: res.Revision, Pixels: res.Changed, FullReload: res.FullReload})
}

// ReportSyncError relays a recoverable poll failure to event listeners.
func (e *Engine) ReportSyncError(err error) {
	e.publish(SyncError{Err: err})
}

// UpdateInitialData replaces the base layer only; the user layer and the
// history are preserved.
func (e *Engine) UpdateInitialData(pixels []wire.Pixel) {
	e.replaceBase(pixels)
}

// ImportData replaces the base layer wholesale and discards the user layer
// and all history, as when switching to a freshly loaded canvas.
func (e *Engine) ImportData(pixels []wire.Pixel) {
	e.abandonStroke()
	e.user = make(map[int]UserCell)
	e.ops = nil
	e.history.clear()
	e.userDirty = true
	e.replaceBase(pixels)
}

// ClearCanvas empties both layers and the history.
func (e *Engine) ClearCanvas() {
	e.abandonStroke()
	e.base = make(map[int]wire.Pixel)
	e.user = make(map[int]UserCell)
	e.ops = nil
	e.history.clear()
	e.baseDirty = true
	e.userDirty = true
	e.frameDirty = true
}

// ClearUserDrawing empties the user layer and the history; the base layer is
// untouched.
func (e *Engine) ClearUserDrawing() {
	e.abandonStroke()
	e.user = make(map[int]UserCell)
	e.ops = nil
	e.history.clear()
	e.userDirty = true
	e.frameDirty = true
}

func (e *Engine) replaceBase(pixels []wire.Pixel) {
	e.base = make(map[int]wire.Pixel, len(pixels))
	for _, px := range pixels {
		if !e.inGrid(px.X, px.Y) {
			continue
		}
		e.base[wire.Index(px.X, px.Y, e.width)] = px
	}
	e.baseDirty = true
	e.frameDirty = true
}

// BeginStroke opens a pointer-down-to-pointer-up batch. Paints between
// BeginStroke and EndStroke accumulate into one history entry and one change
// notification.
func (e *Engine) BeginStroke() {
	if e.stroking {
		return
	}
	e.stroking = true
	e.pending = nil
	e.pendingIdx = make(map[int]int)
	e.pendingOps = nil
}

// PaintPixel draws one world pixel in the user layer.
func (e *Engine) PaintPixel(x, y int, colorRGB uint32) {
	e.applyStrokeCell(x, y, UserCell{Color: colorRGB & 0xFFFFFF})
}

// ErasePixel records an explicit erase of one world pixel. An erased cell
// wins over the base layer, unlike a merely absent one.
func (e *Engine) ErasePixel(x, y int) {
	e.applyStrokeCell(x, y, UserCell{Erase: true})
}

func (e *Engine) applyStrokeCell(x, y int, cell UserCell) {
	if !e.inGrid(x, y) {
		return
	}
	implicit := !e.stroking
	if implicit {
		e.BeginStroke()
	}
	idx := wire.Index(x, y, e.width)
	if _, seen := e.pendingIdx[idx]; !seen {
		var before *UserCell
		if existing, ok := e.user[idx]; ok {
			c := existing
			before = &c
		}
		after := cell
		e.pendingIdx[idx] = len(e.pending)
		e.pending = append(e.pending, StrokeChange{Index: idx, Before: before, After: &after})
		e.pendingOps = append(e.pendingOps, DrawOp{X: x, Y: y, Color: cell.Color, Erase: cell.Erase})
	}
	// Repeat visits within a stroke are no-ops against the change map but
	// still show up in the buffer until the stroke commits.
	e.setUserBufCell(idx, &cell)
	e.frameDirty = true
	if implicit {
		e.EndStroke()
	}
}

// EndStroke commits the accumulated changes atomically: the user layer
// adopts them, one history entry is pushed, and a single StrokeCommitted
// event fires. An empty stroke leaves no trace.
func (e *Engine) EndStroke() {
	if !e.stroking {
		return
	}
	e.stroking = false
	if len(e.pending) == 0 {
		e.pending = nil
		e.pendingIdx = nil
		e.pendingOps = nil
		return
	}
	for _, ch := range e.pending {
		e.applyCell(ch.Index, ch.After)
	}
	entry := HistoryEntry{Kind: EntryStroke, Changes: e.pending, Ops: e.pendingOps}
	e.pending = nil
	e.pendingIdx = nil
	e.pendingOps = nil
	e.history.push(entry)
	e.ops = append(e.ops, entry.Ops...)
	e.frameDirty = true
	e.publish(StrokeCommitted{Entry: entry})
}

// abandonStroke drops an in-progress stroke without committing it.
func (e *Engine) abandonStroke() {
	if !e.stroking {
		return
	}
	e.stroking = false
	for _, ch := range e.pending {
		e.setUserBufCell(ch.Index, cellOf(e.user, ch.Index))
	}
	e.pending = nil
	e.pendingIdx = nil
	e.pendingOps = nil
	e.frameDirty = true
}

// Stroking reports whether a pointer-down batch is open.
func (e *Engine) Stroking() bool { return e.stroking }

// ImportDrawing paints a prepared pixel set into the user layer as one
// atomic import entry, e.g. the confirmation step of an image import.
// Out-of-range records are dropped silently.
func (e *Engine) ImportDrawing(pixels []wire.Pixel) {
	e.EndStroke()

	changes := make([]StrokeChange, 0, len(pixels))
	ops := make([]DrawOp, 0, len(pixels))
	seen := make(map[int]int, len(pixels))
	for _, px := range pixels {
		if !e.inGrid(px.X, px.Y) {
			continue
		}
		idx := wire.Index(px.X, px.Y, e.width)
		after := UserCell{Color: px.Color & 0xFFFFFF}
		if pos, ok := seen[idx]; ok {
			changes[pos].After = &after
			continue
		}
		var before *UserCell
		if existing, ok := e.user[idx]; ok {
			c := existing
			before = &c
		}
		seen[idx] = len(changes)
		changes = append(changes, StrokeChange{Index: idx, Before: before, After: &after})
		ops = append(ops, DrawOp{X: px.X, Y: px.Y, Color: after.Color})
	}
	if len(changes) == 0 {
		return
	}
	for _, ch := range changes {
		e.applyCell(ch.Index, ch.After)
	}
	entry := HistoryEntry{Kind: EntryImport, Changes: changes, Ops: ops}
	e.history.push(entry)
	e.ops = append(e.ops, entry.Ops...)
	e.frameDirty = true
	e.publish(StrokeCommitted{Entry: entry})
}

// Undo reverts the most recent entry, restoring each change's before state.
func (e *Engine) Undo() bool {
	e.EndStroke()
	entry, ok := e.history.popUndo()
	if !ok {
		return false
	}
	for i := len(entry.Changes) - 1; i >= 0; i-- {
		ch := entry.Changes[i]
		e.applyCell(ch.Index, ch.Before)
	}
	e.ops = e.ops[:len(e.ops)-len(entry.Ops)]
	e.frameDirty = true
	return true
}

// Redo reapplies the most recently undone entry.
func (e *Engine) Redo() bool {
	e.EndStroke()
	entry, ok := e.history.popRedo()
	if !ok {
		return false
	}
	for _, ch := range entry.Changes {
		e.applyCell(ch.Index, ch.After)
	}
	e.ops = append(e.ops, entry.Ops...)
	e.frameDirty = true
	return true
}

// applyCell writes one user-layer cell (nil deletes) and keeps the buffer in
// step.
func (e *Engine) applyCell(idx int, cell *UserCell) {
	if cell == nil {
		delete(e.user, idx)
	} else {
		e.user[idx] = *cell
	}
	e.setUserBufCell(idx, cell)
}

// CurrentPixelData merges base and user layers; the user layer wins on
// conflict and an explicit erase removes the cell entirely.
func (e *Engine) CurrentPixelData() []wire.Pixel {
	merged := make(map[int]wire.Pixel, len(e.base)+len(e.user))
	for idx, px := range e.base {
		merged[idx] = px
	}
	for idx, cell := range e.user {
		if cell.Erase {
			delete(merged, idx)
			continue
		}
		x, y := wire.Coords(idx, e.width)
		merged[idx] = wire.Pixel{X: x, Y: y, Color: cell.Color}
	}
	out := make([]wire.Pixel, 0, len(merged))
	for _, px := range merged {
		out = append(out, px)
	}
	return out
}

// UserDrawingData returns a copy of the user layer, erases included.
func (e *Engine) UserDrawingData() []UserPixel {
	out := make([]UserPixel, 0, len(e.user))
	for idx, cell := range e.user {
		x, y := wire.Coords(idx, e.width)
		out = append(out, UserPixel{X: x, Y: y, Color: cell.Color, Erased: cell.Erase})
	}
	return out
}

// DrawingOperations returns the applied user-layer operations in order.
func (e *Engine) DrawingOperations() []DrawOp {
	return append([]DrawOp(nil), e.ops...)
}

func (e *Engine) inGrid(x, y int) bool {
	return x >= 0 && x < e.width && y >= 0 && y < e.height
}

func cellOf(cells map[int]UserCell, idx int) *UserCell {
	if cell, ok := cells[idx]; ok {
		c := cell
		return &c
	}
	return nil
}

func rgbaOf(c uint32) color.RGBA {
	return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 0xFF}
}
