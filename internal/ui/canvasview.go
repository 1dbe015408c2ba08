package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// halfBlock renders two vertically stacked framebuffer pixels per terminal
// cell: the foreground paints the upper pixel, the background the lower.
const halfBlock = "▀"

// renderCanvas turns the composed frame into terminal rows.
func (m Model) renderCanvas() string {
	frame := m.engine.Compose()
	rows := m.height - chromeRows
	if rows <= 0 {
		return ""
	}

	curX, curY := m.cursorCell()

	var b strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < m.width; col++ {
			top := frameColor(frame, col, row*2)
			bottom := frameColor(frame, col, row*2+1)
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(rgbaHex(top))).
				Background(lipgloss.Color(rgbaHex(bottom)))
			if col == curX && row == curY {
				style = style.Reverse(true)
			}
			b.WriteString(style.Render(halfBlock))
		}
		if row < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// cursorCell returns the terminal cell the drawing cursor occupies, or
// (-1, -1) when it is off screen.
func (m Model) cursorCell() (int, int) {
	p := m.cursorScreen()
	if p.X < 0 || p.Y < 0 {
		return -1, -1
	}
	return int(p.X), int(p.Y) / 2
}

func frameColor(frame *image.RGBA, x, y int) color.RGBA {
	if !(image.Point{X: x, Y: y}).In(frame.Bounds()) {
		return color.RGBA{A: 0xFF}
	}
	return frame.RGBAAt(x, y)
}

func rgbaHex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
