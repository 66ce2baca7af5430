package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/GaryOcean428/qsearch/internal/theme"
)

// Palette is the color set for one resolved theme.
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Highlight lipgloss.Color
	Success   lipgloss.Color
	Danger    lipgloss.Color
	Text      lipgloss.Color
	Surface   lipgloss.Color
}

var darkPalette = Palette{
	Primary:   lipgloss.Color("62"),  // Purple
	Secondary: lipgloss.Color("241"), // Gray
	Muted:     lipgloss.Color("240"),
	Highlight: lipgloss.Color("212"), // Pink
	Success:   lipgloss.Color("78"),  // Green
	Danger:    lipgloss.Color("196"),
	Text:      lipgloss.Color("255"),
	Surface:   lipgloss.Color("236"),
}

var lightPalette = Palette{
	Primary:   lipgloss.Color("55"),
	Secondary: lipgloss.Color("243"),
	Muted:     lipgloss.Color("249"),
	Highlight: lipgloss.Color("162"),
	Success:   lipgloss.Color("28"),
	Danger:    lipgloss.Color("124"),
	Text:      lipgloss.Color("235"),
	Surface:   lipgloss.Color("253"),
}

// PaletteFor returns the palette for a resolved theme.
func PaletteFor(mode theme.Resolved) Palette {
	if mode == theme.ResolvedLight {
		return lightPalette
	}
	return darkPalette
}

// Styles is the full style set, derived from one palette.
type Styles struct {
	Title        lipgloss.Style
	SelectedItem lipgloss.Style
	NormalItem   lipgloss.Style
	Snippet      lipgloss.Style
	ScoreBadge   lipgloss.Style
	CacheBadge   lipgloss.Style
	ModeBadge    lipgloss.Style
	StatusBar    lipgloss.Style
	StatusText   lipgloss.Style
	Error        lipgloss.Style
	Help         lipgloss.Style
	FormLabel    lipgloss.Style
}

// NewStyles builds the style set for a resolved theme.
func NewStyles(mode theme.Resolved) Styles {
	p := PaletteFor(mode)
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Highlight).
			Padding(0, 1),

		SelectedItem: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text).
			Background(p.Primary).
			Padding(0, 1),

		NormalItem: lipgloss.NewStyle().
			Foreground(p.Text).
			Padding(0, 1),

		Snippet: lipgloss.NewStyle().
			Foreground(p.Secondary).
			Padding(0, 3),

		ScoreBadge: lipgloss.NewStyle().
			Foreground(p.Primary).
			Background(p.Surface).
			Padding(0, 1).
			MarginRight(1),

		CacheBadge: lipgloss.NewStyle().
			Foreground(p.Success).
			Bold(true),

		ModeBadge: lipgloss.NewStyle().
			Foreground(p.Highlight).
			Background(p.Surface).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Surface).
			Padding(0, 1),

		StatusText: lipgloss.NewStyle().
			Foreground(p.Secondary),

		Error: lipgloss.NewStyle().
			Foreground(p.Danger).
			Bold(true).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(1, 2),

		FormLabel: lipgloss.NewStyle().
			Foreground(p.Secondary),
	}
}
