package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/easelapp/easel/internal/canvas"
	"github.com/easelapp/easel/internal/config"
	"github.com/easelapp/easel/internal/engine"
	"github.com/easelapp/easel/internal/poll"
	"github.com/easelapp/easel/internal/prefs"
)

// chromeRows is the number of terminal rows reserved for header and footer.
const chromeRows = 2

// statusTTL is how long a transient status message stays in the footer.
const statusTTL = 5 * time.Second

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *canvas.Store
	Engine    *engine.Engine
	Poller    *poll.Poller
	Config    *config.Config
	Events    <-chan tea.Msg // sync results bridged from the poller
	ThemeName string
	PrefsPath string
	LastColor uint32
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Wiring
	ctx       context.Context
	store     *canvas.Store
	engine    *engine.Engine
	poller    *poll.Poller
	config    *config.Config
	events    <-chan tea.Msg
	prefsPath string

	// UI state
	theme  Theme
	styles Styles
	width  int
	height int
	ready  bool

	// Drawing state
	cursorX    int
	cursorY    int
	color      uint32
	eraser     bool
	strokeMode bool

	// Sync state
	revision   uint64
	lastSynced time.Time

	// Status line
	status    string
	statusErr bool
	statusAt  time.Time

	// Overlays
	showHelp  bool
	showLog   bool
	logLines  []string
	showGoto   bool
	showColor  bool
	promptText textinput.Model
	spin       spinner.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = themeOrder[0]
	}
	theme := GetTheme(themeName)

	color := opts.LastColor
	if color == 0 {
		color = paletteColors[0]
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	promptText := textinput.New()
	promptText.CharLimit = 16

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot

	return Model{
		ctx:       ctx,
		store:     opts.Store,
		engine:    opts.Engine,
		poller:    opts.Poller,
		config:    opts.Config,
		events:    opts.Events,
		prefsPath: prefsPath,
		theme:     theme,
		styles:    theme.Styles(),
		color:     color,
		promptText: promptText,
		spin:       spin,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(),
		m.spin.Tick,
	}
	if m.events != nil {
		cmds = append(cmds, waitEventCmd(m.events))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.engine != nil {
			m.engine.SetCanvasSize(msg.Width, canvasPixelRows(msg.Height))
		}
		m.ready = true
		return m, nil

	case tea.FocusMsg:
		if m.poller != nil {
			m.poller.SetVisible(true)
		}
		return m, nil

	case tea.BlurMsg:
		if m.poller != nil {
			m.poller.SetVisible(false)
		}
		return m, nil

	case tickMsg:
		if m.status != "" && time.Since(m.statusAt) > statusTTL {
			m.status = ""
			m.statusErr = false
		}
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case syncAppliedMsg:
		res := canvas.SyncResult(msg)
		if m.engine != nil && m.store != nil {
			w, h := m.store.Dimensions()
			m.engine.ApplySync(res, w, h)
			m.clampCursor()
		}
		m.revision = res.Revision
		m.lastSynced = time.Now()
		return m, waitEventCmd(m.events)

	case syncFailedMsg:
		m.setStatus("sync failed: "+msg.err.Error(), true)
		return m, waitEventCmd(m.events)

	case exportedMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
		} else {
			m.setStatus("exported "+msg.path, false)
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showLog {
		return m.renderLog()
	}
	return m.renderMain()
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
	m.statusAt = time.Now()
}

func (m *Model) clampCursor() {
	w, h := m.engine.GridSize()
	if m.cursorX >= w {
		m.cursorX = w - 1
	}
	if m.cursorY >= h {
		m.cursorY = h - 1
	}
	if m.cursorX < 0 {
		m.cursorX = 0
	}
	if m.cursorY < 0 {
		m.cursorY = 0
	}
}

// canvasPixelRows converts terminal rows to framebuffer rows: each text cell
// renders two vertically stacked pixels.
func canvasPixelRows(termHeight int) int {
	rows := termHeight - chromeRows
	if rows < 0 {
		rows = 0
	}
	return rows * 2
}

// Messages

type tickMsg time.Time

type syncAppliedMsg canvas.SyncResult

type syncFailedMsg struct{ err error }

// SyncApplied wraps a sync result for delivery over the events channel.
func SyncApplied(res canvas.SyncResult) tea.Msg { return syncAppliedMsg(res) }

// SyncFailed wraps a sync error for delivery over the events channel.
func SyncFailed(err error) tea.Msg { return syncFailedMsg{err: err} }

// Commands

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitEventCmd(ch <-chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		return <-ch
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	_, err := p.Run()
	return err
}
