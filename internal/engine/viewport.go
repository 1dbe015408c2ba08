package engine

import (
	"image"
	"math"
)

// Scale limits and the zoom level where per-pixel grid lines appear.
const (
	MinScale          = 0.5
	MaxScale          = 48.0
	gridLineMinScale  = 6.0
	defaultZoomFactor = 1.25
)

// Point is a position in either screen or world units.
type Point struct {
	X float64
	Y float64
}

// Viewport maps between screen space and world (grid) space. The world
// coordinate of a screen point is screen/Scale - Offset.
type Viewport struct {
	Scale   float64
	Offset  Point // world units
	CanvasW int   // screen pixels
	CanvasH int
}

func newViewport(canvasW, canvasH int) Viewport {
	return Viewport{Scale: 1, CanvasW: canvasW, CanvasH: canvasH}
}

func clampScale(s float64) float64 {
	return math.Min(MaxScale, math.Max(MinScale, s))
}

// WorldAt returns the world coordinate under a screen point.
func (v Viewport) WorldAt(p Point) Point {
	return Point{X: p.X/v.Scale - v.Offset.X, Y: p.Y/v.Scale - v.Offset.Y}
}

// ScreenAt returns the screen position of a world point.
func (v Viewport) ScreenAt(w Point) Point {
	return Point{X: (w.X + v.Offset.X) * v.Scale, Y: (w.Y + v.Offset.Y) * v.Scale}
}

// ZoomAt rescales around p so the world coordinate under p stays put.
func (v *Viewport) ZoomAt(p Point, factor float64) {
	oldScale := v.Scale
	newScale := clampScale(oldScale * factor)
	if newScale == oldScale {
		return
	}
	v.Offset = Point{
		X: p.X/newScale - (p.X/oldScale - v.Offset.X),
		Y: p.Y/newScale - (p.Y/oldScale - v.Offset.Y),
	}
	v.Scale = newScale
}

// ZoomToScale zooms around the viewport center to the target scale.
func (v *Viewport) ZoomToScale(target float64) {
	target = clampScale(target)
	if v.Scale == 0 {
		v.Scale = target
		return
	}
	center := Point{X: float64(v.CanvasW) / 2, Y: float64(v.CanvasH) / 2}
	v.ZoomAt(center, target/v.Scale)
}

// CenterOn places a world point at the center of the viewport.
func (v *Viewport) CenterOn(wx, wy float64) {
	v.Offset = Point{
		X: float64(v.CanvasW)/2/v.Scale - wx,
		Y: float64(v.CanvasH)/2/v.Scale - wy,
	}
}

// Pan shifts the view by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.Offset.X += dx / v.Scale
	v.Offset.Y += dy / v.Scale
}

// Reset restores scale 1 with the grid's origin at the screen origin.
func (v *Viewport) Reset() {
	v.Scale = 1
	v.Offset = Point{}
}

// VisibleWorldRect returns the world-space rectangle the viewport can see,
// clipped to the grid. Redraw cost is bounded by this rectangle, not by the
// grid size.
func (v Viewport) VisibleWorldRect(gridW, gridH int) image.Rectangle {
	topLeft := v.WorldAt(Point{})
	bottomRight := v.WorldAt(Point{X: float64(v.CanvasW), Y: float64(v.CanvasH)})
	rect := image.Rect(
		int(math.Floor(topLeft.X)),
		int(math.Floor(topLeft.Y)),
		int(math.Ceil(bottomRight.X)),
		int(math.Ceil(bottomRight.Y)),
	)
	return rect.Intersect(image.Rect(0, 0, gridW, gridH))
}
