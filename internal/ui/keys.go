package ui

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/easelapp/easel/internal/engine"
	"github.com/easelapp/easel/internal/logtail"
	"github.com/easelapp/easel/internal/prefs"
)

// panStep is the pan distance per keypress, in screen pixels.
const panStep = 8.0

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes the help and log overlays.
	if m.showHelp || m.showLog {
		m.showHelp = false
		m.showLog = false
		return m, nil
	}

	if m.showGoto || m.showColor {
		return m.handlePromptKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.endStrokeMode()
		m.savePrefs()
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.styles = m.theme.Styles()
		m.savePrefs()
		return m, nil

	// Cursor movement. In stroke mode every visited cell is painted.
	case "left", "h":
		m.moveCursor(-1, 0)
		return m, nil
	case "right", "l":
		m.moveCursor(1, 0)
		return m, nil
	case "up", "k":
		m.moveCursor(0, -1)
		return m, nil
	case "down", "j":
		m.moveCursor(0, 1)
		return m, nil

	case " ", "enter":
		m.paintAtCursor()
		return m, nil

	case "x":
		m.eraser = !m.eraser
		if m.eraser {
			m.setStatus("eraser on", false)
		} else {
			m.setStatus("eraser off", false)
		}
		return m, nil

	case "b":
		m.toggleStrokeMode()
		return m, nil

	case "u":
		if m.engine.Undo() {
			m.setStatus("undone", false)
		}
		return m, nil

	case "r":
		if m.engine.Redo() {
			m.setStatus("redone", false)
		}
		return m, nil

	case "]":
		m.color = nextColor(m.color)
		return m, nil
	case "[":
		m.color = prevColor(m.color)
		return m, nil

	case "+", "=":
		m.engine.ZoomIn(m.cursorScreen())
		return m, nil
	case "-":
		m.engine.ZoomOut(m.cursorScreen())
		return m, nil
	case "0":
		m.engine.ResetView()
		return m, nil

	// Shift-moves pan the viewport.
	case "shift+left", "H":
		m.engine.Pan(panStep, 0)
		return m, nil
	case "shift+right", "L":
		m.engine.Pan(-panStep, 0)
		return m, nil
	case "shift+up", "K":
		m.engine.Pan(0, panStep)
		return m, nil
	case "shift+down", "J":
		m.engine.Pan(0, -panStep)
		return m, nil

	case "g":
		m.openPrompt(&m.showGoto, "x,y")
		return m, nil

	case "c":
		m.openPrompt(&m.showColor, "#RRGGBB")
		return m, nil

	case "s":
		m.poller.ForceSync()
		m.setStatus("sync requested", false)
		return m, nil

	case "C":
		m.engine.ClearUserDrawing()
		m.setStatus("drawing cleared", false)
		return m, nil

	case "E":
		return m, m.exportCmd("png")
	case "D":
		return m, m.exportCmd("pdf")

	case "v":
		lines, err := logtail.Tail(m.config.LogPath(), 200)
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.logLines = lines
		m.showLog = true
		return m, nil
	}

	return m, nil
}

func (m *Model) openPrompt(which *bool, placeholder string) {
	*which = true
	m.promptText.Placeholder = placeholder
	m.promptText.SetValue("")
	m.promptText.Focus()
}

// handlePromptKey drives the footer prompts: jump-to-coordinate and hex
// color entry.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.showGoto = false
		m.showColor = false
		return m, nil
	case "enter":
		value := m.promptText.Value()
		if m.showColor {
			m.showColor = false
			color, ok := ParseColor(value)
			if !ok {
				m.setStatus("expected #RRGGBB", true)
				return m, nil
			}
			m.color = color
			return m, nil
		}
		m.showGoto = false
		x, y, ok := parseCoords(value)
		if !ok {
			m.setStatus("expected x,y", true)
			return m, nil
		}
		m.cursorX, m.cursorY = x, y
		m.clampCursor()
		m.engine.CenterOn(float64(m.cursorX)+0.5, float64(m.cursorY)+0.5)
		return m, nil
	}
	var cmd tea.Cmd
	m.promptText, cmd = m.promptText.Update(msg)
	return m, cmd
}

// handleMouse maps terminal mouse events onto strokes, panning and zoom.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p := m.mousePoint(msg)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.engine.ZoomIn(p)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.engine.ZoomOut(p)
		return m, nil
	}

	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return m, nil
	}

	world := m.engine.Viewport().WorldAt(p)
	wx, wy := int(world.X), int(world.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		m.poller.PauseWhileDrawing()
		m.engine.BeginStroke()
		m.paintAt(wx, wy)
	case tea.MouseActionMotion:
		if m.engine.Stroking() {
			m.paintAt(wx, wy)
		}
	case tea.MouseActionRelease:
		if m.engine.Stroking() {
			m.engine.EndStroke()
			m.poller.ResumeAfterDrawing()
		}
	}
	return m, nil
}

// mousePoint converts a terminal cell position to framebuffer pixels. The
// header occupies the first row and each cell is two pixels tall.
func (m Model) mousePoint(msg tea.MouseMsg) engine.Point {
	return engine.Point{
		X: float64(msg.X) + 0.5,
		Y: float64(msg.Y-1)*2 + 1,
	}
}

func (m *Model) moveCursor(dx, dy int) {
	m.cursorX += dx
	m.cursorY += dy
	m.clampCursor()
	if m.strokeMode {
		m.paintAtCursor()
	}
}

func (m *Model) paintAtCursor() {
	m.paintAt(m.cursorX, m.cursorY)
}

func (m *Model) paintAt(x, y int) {
	if m.eraser {
		m.engine.ErasePixel(x, y)
		return
	}
	m.engine.PaintPixel(x, y, m.color)
}

// toggleStrokeMode opens or closes a keyboard stroke. While a stroke is open
// the poller is paused so a base refresh cannot land mid-stroke.
func (m *Model) toggleStrokeMode() {
	if m.strokeMode {
		m.endStrokeMode()
		m.setStatus("stroke committed", false)
		return
	}
	m.strokeMode = true
	m.poller.PauseWhileDrawing()
	m.engine.BeginStroke()
	m.paintAtCursor()
	m.setStatus("stroke started", false)
}

func (m *Model) endStrokeMode() {
	if !m.strokeMode {
		return
	}
	m.strokeMode = false
	m.engine.EndStroke()
	m.poller.ResumeAfterDrawing()
}

// cursorScreen returns the cursor cell center in framebuffer pixels.
func (m Model) cursorScreen() engine.Point {
	return m.engine.Viewport().ScreenAt(engine.Point{
		X: float64(m.cursorX) + 0.5,
		Y: float64(m.cursorY) + 0.5,
	})
}

// exportCmd writes the flattened canvas to a timestamped file in the
// working directory.
func (m Model) exportCmd(kind string) tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		name := fmt.Sprintf("easel-%s.%s", time.Now().Format("20060102-150405"), kind)
		file, err := os.Create(name)
		if err != nil {
			return exportedMsg{err: fmt.Errorf("export: %w", err)}
		}
		defer file.Close()

		switch kind {
		case "pdf":
			err = eng.ExportPDF(file)
		default:
			err = eng.ExportPNG(file, 4)
		}
		if err != nil {
			return exportedMsg{err: fmt.Errorf("export: %w", err)}
		}
		return exportedMsg{path: name}
	}
}

type exportedMsg struct {
	path string
	err  error
}

func parseCoords(s string) (x, y int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ",", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	x, errX := strconv.Atoi(strings.TrimSpace(parts[0]))
	y, errY := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errX != nil || errY != nil {
		return 0, 0, false
	}
	return x, y, true
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{
		Theme:     m.theme.Name,
		LastColor: hexColor(m.color),
	})
}
