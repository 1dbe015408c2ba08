package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the chrome colors around the canvas.
type Theme struct {
	Name string

	Background string // outermost background
	Surface    string // header and footer bars
	Text       string
	Muted      string
	Accent     string
	Success    string
	Warning    string
	Danger     string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),

		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Header      lipgloss.Style
	Footer      lipgloss.Style
	Logo        lipgloss.Style
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	DangerText  lipgloss.Style
}

// Theme definitions

var themes = map[string]Theme{
	"Nightfox": nightfoxTheme(),
	"Kanagawa": kanagawaTheme(),
	"Slate":    slateTheme(),
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return nightfoxTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func nightfoxTheme() Theme {
	// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name:       "Nightfox",
		Background: "#131a24", // bg0
		Surface:    "#192330", // bg1
		Text:       "#cdcecf", // fg1
		Muted:      "#738091", // comment
		Accent:     "#719cd6", // blue
		Success:    "#81b29a", // green
		Warning:    "#dbc074", // yellow
		Danger:     "#c94f6d", // red
	}
}

func kanagawaTheme() Theme {
	// Kanagawa palette: https://github.com/rebelot/kanagawa.nvim
	return Theme{
		Name:       "Kanagawa",
		Background: "#16161D", // sumiInk0
		Surface:    "#1F1F28", // sumiInk3
		Text:       "#DCD7BA", // fujiWhite
		Muted:      "#C8C093", // oldWhite
		Accent:     "#7E9CD8", // crystalBlue
		Success:    "#98BB6C", // springGreen
		Warning:    "#E6C384", // carpYellow
		Danger:     "#E46876", // waveRed
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name:       "Slate",
		Background: "#020617", // slate-950
		Surface:    "#0f172a", // slate-900
		Text:       "#f1f5f9", // slate-100
		Muted:      "#94a3b8", // slate-400
		Accent:     "#38bdf8", // sky-400
		Success:    "#22c55e", // green-500
		Warning:    "#f59e0b", // amber-500
		Danger:     "#ef4444", // red-500
	}
}
