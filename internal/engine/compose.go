package engine

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/easelapp/easel/internal/wire"
)

// surroundColor fills the screen area outside the grid.
var surroundColor = color.RGBA{R: 0x08, G: 0x08, B: 0x08, A: 0xFF}

// gridLineColor is the faint overlay drawn between cells when zoomed in.
var gridLineColor = color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 0x50}

// SetCanvasSize tells the compositor how many screen pixels it has.
func (e *Engine) SetCanvasSize(w, h int) {
	if w == e.view.CanvasW && h == e.view.CanvasH {
		return
	}
	e.view.CanvasW = w
	e.view.CanvasH = h
	e.frame = nil
	e.frameDirty = true
}

// ZoomAt rescales the view around a screen point.
func (e *Engine) ZoomAt(p Point, factor float64) {
	before := e.view
	e.view.ZoomAt(p, factor)
	if e.view != before {
		e.frameDirty = true
	}
}

// ZoomIn and ZoomOut step the scale around a screen point.
func (e *Engine) ZoomIn(p Point)  { e.ZoomAt(p, defaultZoomFactor) }
func (e *Engine) ZoomOut(p Point) { e.ZoomAt(p, 1/defaultZoomFactor) }

// ZoomToScale zooms around the viewport center to an absolute scale.
func (e *Engine) ZoomToScale(target float64) {
	before := e.view
	e.view.ZoomToScale(target)
	if e.view != before {
		e.frameDirty = true
	}
}

// Pan shifts the view by a screen-space delta.
func (e *Engine) Pan(dx, dy float64) {
	e.view.Pan(dx, dy)
	e.frameDirty = true
}

// CenterOn places a world point at the center of the viewport.
func (e *Engine) CenterOn(wx, wy float64) {
	e.view.CenterOn(wx, wy)
	e.frameDirty = true
}

// ResetView restores the default scale and origin.
func (e *Engine) ResetView() {
	e.view.Reset()
	e.frameDirty = true
}

// Compose returns the screen-sized frame for the current state. The frame is
// cached: when nothing changed since the last call the same image comes back
// without any drawing. Only the visible portion of the grid is ever blitted.
func (e *Engine) Compose() *image.RGBA {
	if e.baseDirty {
		e.rebuildBaseBuf()
		e.baseDirty = false
		e.frameDirty = true
	}
	if e.userDirty {
		e.rebuildUserBuf()
		e.userDirty = false
		e.frameDirty = true
	}
	if e.frame == nil {
		e.frame = image.NewRGBA(image.Rect(0, 0, e.view.CanvasW, e.view.CanvasH))
		e.frameDirty = true
	}
	if !e.frameDirty {
		return e.frame
	}
	e.render()
	e.frameDirty = false
	return e.frame
}

func (e *Engine) render() {
	frame := e.frame
	xdraw.Draw(frame, frame.Bounds(), image.NewUniform(surroundColor), image.Point{}, xdraw.Src)

	visible := e.view.VisibleWorldRect(e.width, e.height)
	if visible.Empty() {
		return
	}
	dst := e.screenRect(visible)
	if dst.Empty() {
		return
	}

	xdraw.Draw(frame, dst, image.NewUniform(e.background), image.Point{}, xdraw.Src)
	xdraw.NearestNeighbor.Scale(frame, dst, e.baseBuf, visible, xdraw.Over, nil)
	xdraw.NearestNeighbor.Scale(frame, dst, e.userBuf, visible, xdraw.Over, nil)

	if e.view.Scale >= gridLineMinScale {
		e.drawGridLines(frame, visible, dst)
	}
}

// screenRect maps a world rectangle to screen pixels.
func (e *Engine) screenRect(world image.Rectangle) image.Rectangle {
	tl := e.view.ScreenAt(Point{X: float64(world.Min.X), Y: float64(world.Min.Y)})
	br := e.view.ScreenAt(Point{X: float64(world.Max.X), Y: float64(world.Max.Y)})
	return image.Rect(
		int(math.Round(tl.X)),
		int(math.Round(tl.Y)),
		int(math.Round(br.X)),
		int(math.Round(br.Y)),
	)
}

func (e *Engine) drawGridLines(frame *image.RGBA, visible, dst image.Rectangle) {
	uni := image.NewUniform(gridLineColor)
	for x := visible.Min.X; x <= visible.Max.X; x++ {
		sx := int(math.Round(e.view.ScreenAt(Point{X: float64(x)}).X))
		line := image.Rect(sx, dst.Min.Y, sx+1, dst.Max.Y).Intersect(dst)
		xdraw.Draw(frame, line, uni, image.Point{}, xdraw.Over)
	}
	for y := visible.Min.Y; y <= visible.Max.Y; y++ {
		sy := int(math.Round(e.view.ScreenAt(Point{Y: float64(y)}).Y))
		line := image.Rect(dst.Min.X, sy, dst.Max.X, sy+1).Intersect(dst)
		xdraw.Draw(frame, line, uni, image.Point{}, xdraw.Over)
	}
}

// rebuildBaseBuf repaints the base buffer from the base map. Empty cells stay
// transparent so the canvas background shows through.
func (e *Engine) rebuildBaseBuf() {
	clearRGBA(e.baseBuf)
	for idx, px := range e.base {
		x, y := wire.Coords(idx, e.width)
		e.baseBuf.SetRGBA(x, y, rgbaOf(px.Color))
	}
}

func (e *Engine) rebuildUserBuf() {
	clearRGBA(e.userBuf)
	for idx := range e.user {
		cell := e.user[idx]
		e.setUserBufCell(idx, &cell)
	}
}

// setUserBufCell keeps the user buffer in step with one cell. Erased cells
// are painted opaque background so they cover the base layer underneath.
func (e *Engine) setUserBufCell(idx int, cell *UserCell) {
	x, y := wire.Coords(idx, e.width)
	switch {
	case cell == nil:
		e.userBuf.SetRGBA(x, y, color.RGBA{})
	case cell.Erase:
		e.userBuf.SetRGBA(x, y, e.background)
	default:
		e.userBuf.SetRGBA(x, y, rgbaOf(cell.Color))
	}
}

func clearRGBA(img *image.RGBA) {
	for i := range img.Pix {
		img.Pix[i] = 0
	}
}
