package tui

import (
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"timeline_stats/internal/config"
	"timeline_stats/internal/timeline"
)

// Styles holds every style the UI renders with, derived from one flavor
type Styles struct {
	flavor catppuccin.Flavor

	Title             lipgloss.Style
	Status            lipgloss.Style
	ActiveIndicator   lipgloss.Style
	InactiveIndicator lipgloss.Style
	Error             lipgloss.Style
	Warning           lipgloss.Style

	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	TabGap      lipgloss.Style

	ColumnHeader lipgloss.Style
	SelectedRow  lipgloss.Style
	Muted        lipgloss.Style
	Help         lipgloss.Style

	DetailHeader lipgloss.Style
	Label        lipgloss.Style
	Bar          lipgloss.Style
	Box          lipgloss.Style
}

// NewStyles builds styles for a catppuccin flavor name, defaulting to mocha
func NewStyles(flavorName string) Styles {
	flavor := catppuccin.Variant(flavorName)
	if flavor == nil {
		flavor = catppuccin.Mocha
	}

	c := func(col catppuccin.Color) lipgloss.Color { return lipgloss.Color(col.Hex) }

	return Styles{
		flavor: flavor,

		Title:             lipgloss.NewStyle().Bold(true).Foreground(c(flavor.Mauve())),
		Status:            lipgloss.NewStyle().Foreground(c(flavor.Overlay1())),
		ActiveIndicator:   lipgloss.NewStyle().Foreground(c(flavor.Green())).Bold(true),
		InactiveIndicator: lipgloss.NewStyle().Foreground(c(flavor.Overlay0())),
		Error:             lipgloss.NewStyle().Foreground(c(flavor.Red())).Bold(true),
		Warning:           lipgloss.NewStyle().Foreground(c(flavor.Yellow())),

		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Background(c(flavor.Mauve())).
			Foreground(c(flavor.Base())).
			Padding(0, 2),
		InactiveTab: lipgloss.NewStyle().Foreground(c(flavor.Overlay1())).Padding(0, 2),
		TabGap:      lipgloss.NewStyle().Foreground(c(flavor.Surface2())),

		ColumnHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(c(flavor.Subtext1())).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(c(flavor.Surface2())),
		SelectedRow: lipgloss.NewStyle().Background(c(flavor.Surface0())).Bold(true),
		Muted:       lipgloss.NewStyle().Foreground(c(flavor.Overlay0())),
		Help:        lipgloss.NewStyle().Foreground(c(flavor.Overlay1())),

		DetailHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(c(flavor.Lavender())).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(c(flavor.Surface2())),
		Label: lipgloss.NewStyle().Foreground(c(flavor.Subtext0())).Bold(true),
		Bar:   lipgloss.NewStyle().Foreground(c(flavor.Blue())),
		Box: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(c(flavor.Surface2())).
			Padding(0, 1),
	}
}

// Table returns bubbles table styles matching the flavor
func (s Styles) Table() table.Styles {
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(s.flavor.Surface2().Hex)).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color(s.flavor.Subtext1().Hex))
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color(s.flavor.Base().Hex)).
		Background(lipgloss.Color(s.flavor.Mauve().Hex)).
		Bold(false)
	return ts
}

// Color resolves a catppuccin color name like "peach" in the current flavor
func (s Styles) Color(name string) (lipgloss.Color, bool) {
	f := s.flavor
	colors := map[string]catppuccin.Color{
		"rosewater": f.Rosewater(), "flamingo": f.Flamingo(), "pink": f.Pink(),
		"mauve": f.Mauve(), "red": f.Red(), "maroon": f.Maroon(),
		"peach": f.Peach(), "yellow": f.Yellow(), "green": f.Green(),
		"teal": f.Teal(), "sky": f.Sky(), "sapphire": f.Sapphire(),
		"blue": f.Blue(), "lavender": f.Lavender(), "text": f.Text(),
		"subtext1": f.Subtext1(), "subtext0": f.Subtext0(),
		"overlay2": f.Overlay2(), "overlay1": f.Overlay1(), "overlay0": f.Overlay0(),
		"surface2": f.Surface2(), "surface1": f.Surface1(), "surface0": f.Surface0(),
	}
	col, ok := colors[strings.ToLower(name)]
	if !ok {
		return "", false
	}
	return lipgloss.Color(col.Hex), true
}

// ForEvent returns the style configured for an event name
func (s Styles) ForEvent(cfg *config.Config, name timeline.EventName) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(s.flavor.Text().Hex))

	es := cfg.GetEventStyle(name)
	if es == nil {
		return style
	}
	if col, ok := s.Color(es.Color); ok {
		style = style.Foreground(col)
	}
	return style.Bold(es.Bold)
}
