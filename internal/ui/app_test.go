package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/easelapp/easel/internal/canvas"
	"github.com/easelapp/easel/internal/config"
	"github.com/easelapp/easel/internal/engine"
	"github.com/easelapp/easel/internal/poll"
)

type idleSyncer struct{}

func (idleSyncer) SmartSync(context.Context) (canvas.SyncResult, error) {
	return canvas.SyncResult{}, nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	eng := engine.New(engine.Options{GridWidth: 32, GridHeight: 32, CanvasW: 80, CanvasH: 40})
	m := New(Options{
		Engine:    eng,
		Poller:    poll.New(idleSyncer{}, poll.Options{}),
		Config:    &config.Config{Server: "127.0.0.1:7621"},
		PrefsPath: t.TempDir() + "/prefs.toml",
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 22})
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestWindowSizeSetsCanvasPixels(t *testing.T) {
	m := newTestModel(t)
	if !m.ready {
		t.Fatal("model not ready after WindowSizeMsg")
	}
	frame := m.engine.Compose()
	// 22 terminal rows minus 2 chrome rows, 2 pixels per row.
	if frame.Bounds().Dx() != 80 || frame.Bounds().Dy() != 40 {
		t.Fatalf("got frame %v, want 80x40", frame.Bounds())
	}
}

func TestCursorMovementClampsToGrid(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, key("left"))
	if m.cursorX != 0 || m.cursorY != 0 {
		t.Fatalf("cursor = (%d,%d), want clamp at origin", m.cursorX, m.cursorY)
	}

	for i := 0; i < 100; i++ {
		m = update(t, m, key("l"))
		m = update(t, m, key("down"))
	}
	if m.cursorX != 31 || m.cursorY != 31 {
		t.Fatalf("cursor = (%d,%d), want clamp at (31,31)", m.cursorX, m.cursorY)
	}
}

func TestPaintKeyDrawsAtCursor(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key("l"))
	m = update(t, m, key(" "))

	cells := m.engine.UserDrawingData()
	if len(cells) != 1 {
		t.Fatalf("got %d user cells, want 1", len(cells))
	}
	if cells[0].X != 1 || cells[0].Y != 0 || cells[0].Color != m.color {
		t.Fatalf("got cell %+v, want (1,0) in the active color", cells[0])
	}
}

func TestEraserToggleErases(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key(" ")) // paint (0,0)
	m = update(t, m, key("x"))
	m = update(t, m, key(" ")) // erase (0,0)

	cells := m.engine.UserDrawingData()
	if len(cells) != 1 || !cells[0].Erased {
		t.Fatalf("got %+v, want one explicit erase cell", cells)
	}
}

func TestStrokeModePaintsWhileMoving(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key("b")) // paints (0,0) and opens the stroke
	m = update(t, m, key("l"))
	m = update(t, m, key("l"))
	if !m.engine.Stroking() {
		t.Fatal("stroke should be open")
	}
	if m.engine.CanUndo() {
		t.Fatal("nothing should commit before the stroke closes")
	}

	m = update(t, m, key("b"))
	if m.engine.Stroking() {
		t.Fatal("stroke should be closed")
	}
	if got := len(m.engine.UserDrawingData()); got != 3 {
		t.Fatalf("got %d cells, want 3 painted by one stroke", got)
	}
	if !m.engine.CanUndo() {
		t.Fatal("stroke should have committed one entry")
	}
}

func TestColorCycling(t *testing.T) {
	m := newTestModel(t)
	start := m.color
	m = update(t, m, key("]"))
	if m.color == start {
		t.Fatal("] did not advance the color")
	}
	m = update(t, m, key("["))
	if m.color != start {
		t.Fatalf("got %06x, want back to %06x", m.color, start)
	}
}

func TestUndoRedoKeys(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key(" "))
	m = update(t, m, key("u"))
	if got := len(m.engine.UserDrawingData()); got != 0 {
		t.Fatalf("got %d cells after undo, want 0", got)
	}
	m = update(t, m, key("r"))
	if got := len(m.engine.UserDrawingData()); got != 1 {
		t.Fatalf("got %d cells after redo, want 1", got)
	}
}

func TestGotoPromptMovesCursor(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key("g"))
	if !m.showGoto {
		t.Fatal("goto prompt did not open")
	}
	for _, r := range "12,7" {
		m = update(t, m, key(string(r)))
	}
	m = update(t, m, key("enter"))
	if m.showGoto {
		t.Fatal("goto prompt did not close")
	}
	if m.cursorX != 12 || m.cursorY != 7 {
		t.Fatalf("cursor = (%d,%d), want (12,7)", m.cursorX, m.cursorY)
	}
}

func TestColorPromptSetsColor(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key("c"))
	if !m.showColor {
		t.Fatal("color prompt did not open")
	}
	for _, r := range "#123456" {
		m = update(t, m, key(string(r)))
	}
	m = update(t, m, key("enter"))
	if m.color != 0x123456 {
		t.Fatalf("color = %06x, want 123456", m.color)
	}
}

func TestGotoPromptRejectsGarbage(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key("g"))
	for _, r := range "nope" {
		m = update(t, m, key(string(r)))
	}
	m = update(t, m, key("enter"))
	if !m.statusErr {
		t.Fatal("expected an error status for unparsable input")
	}
}

func TestSyncAppliedUpdatesRevision(t *testing.T) {
	m := newTestModel(t)
	events := make(chan tea.Msg, 1)
	m.events = events
	m.store = canvas.NewStore(nil)

	m = update(t, m, syncAppliedMsg(canvas.SyncResult{Revision: 42}))
	if m.revision != 42 {
		t.Fatalf("revision = %d, want 42", m.revision)
	}
}

func TestViewRendersChromeAndCanvas(t *testing.T) {
	m := newTestModel(t)
	out := m.View()
	if !strings.Contains(out, "easel") {
		t.Fatal("view missing the logo")
	}
	if !strings.Contains(out, halfBlock) {
		t.Fatal("view missing canvas half-block cells")
	}
	if lines := strings.Count(out, "\n") + 1; lines != 22 {
		t.Fatalf("view has %d lines, want 22", lines)
	}
}

func TestHelpOverlayTogglesAndCloses(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key("?"))
	if !strings.Contains(m.View(), "easel keys") {
		t.Fatal("help overlay not shown")
	}
	m = update(t, m, key("z"))
	if strings.Contains(m.View(), "easel keys") {
		t.Fatal("help overlay did not close")
	}
}
