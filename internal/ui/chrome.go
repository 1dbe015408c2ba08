package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderMain assembles header, canvas and footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')
	b.WriteString(m.renderCanvas())
	b.WriteByte('\n')
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	gridW, gridH := m.engine.GridSize()
	scale := m.engine.Viewport().Scale

	swatch := lipgloss.NewStyle().
		Foreground(lipgloss.Color(hexColor(m.color))).
		Render("██")

	parts := []string{
		m.styles.Logo.Render("easel"),
		m.styles.MutedText.Render(m.config.Server),
		m.styles.Text.Render(fmt.Sprintf("%dx%d", gridW, gridH)),
		m.styles.MutedText.Render(fmt.Sprintf("rev %d", m.revision)),
		m.styles.MutedText.Render(fmt.Sprintf("%.2gx", scale)),
		swatch + " " + m.styles.Text.Render(hexColor(m.color)),
	}
	if m.eraser {
		parts = append(parts, m.styles.DangerText.Render("ERASER"))
	}
	if m.strokeMode {
		parts = append(parts, m.styles.AccentText.Render("STROKE "+m.spin.View()))
	}

	line := strings.Join(parts, "  ")
	return m.styles.Header.Width(m.width).Render(line)
}

func (m Model) renderFooter() string {
	if m.showGoto {
		return m.styles.Footer.Width(m.width).Render("goto: " + m.promptText.View())
	}
	if m.showColor {
		return m.styles.Footer.Width(m.width).Render("color: " + m.promptText.View())
	}

	if m.status != "" {
		style := m.styles.SuccessText
		if m.statusErr {
			style = m.styles.DangerText
		}
		return m.styles.Footer.Width(m.width).Render(style.Render(m.status))
	}

	synced := "never"
	if !m.lastSynced.IsZero() {
		synced = fmt.Sprintf("%ds ago", int(time.Since(m.lastSynced).Seconds()))
	}
	hints := fmt.Sprintf("(%d,%d)  synced %s  space paint · b stroke · u/r undo · ? help",
		m.cursorX, m.cursorY, synced)
	return m.styles.Footer.Width(m.width).Render(hints)
}

// renderLog shows the tail of easel's own log file.
func (m Model) renderLog() string {
	var b strings.Builder
	b.WriteString(m.styles.Logo.Render("easel log"))
	b.WriteString("  ")
	b.WriteString(m.styles.MutedText.Render(m.config.LogPath()))
	b.WriteString("\n\n")

	lines := m.logLines
	if max := m.height - 4; max > 0 && len(lines) > max {
		lines = lines[len(lines)-max:]
	}
	if len(lines) == 0 {
		b.WriteString(m.styles.MutedText.Render("  (empty)"))
		return b.String()
	}
	for _, line := range lines {
		b.WriteString(m.styles.Text.Render(line))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) renderHelp() string {
	rows := []struct{ key, desc string }{
		{"arrows / hjkl", "move the cursor"},
		{"space / enter", "paint the cursor cell"},
		{"b", "start/commit a keyboard stroke (paints while moving)"},
		{"x", "toggle eraser"},
		{"[ / ]", "previous / next palette color"},
		{"c", "enter a hex color"},
		{"u / r", "undo / redo"},
		{"+ / - / 0", "zoom in / out / reset view"},
		{"shift+arrows / HJKL", "pan the viewport"},
		{"g", "jump to x,y"},
		{"s", "sync with the server now"},
		{"C", "clear your drawing"},
		{"E / D", "export PNG / PDF"},
		{"v", "view easel's log"},
		{"T", "cycle theme"},
		{"mouse", "left drag paints, wheel zooms"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString(m.styles.Logo.Render("easel keys"))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			m.styles.AccentText.Render(fmt.Sprintf("%-20s", row.key)),
			m.styles.Text.Render(row.desc)))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.MutedText.Render("  press any key to close"))
	return b.String()
}
