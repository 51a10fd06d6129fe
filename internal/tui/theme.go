package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the set of styles the watch view renders with.
type Theme struct {
	Name      string
	Base      lipgloss.Style
	Border    lipgloss.Color
	Header    lipgloss.Style
	Row       lipgloss.Style
	Active    lipgloss.Style
	Critical  lipgloss.Style
	Sub       lipgloss.Style
	Narrative lipgloss.Style
	Dim       lipgloss.Style
	Error     lipgloss.Style
	// Gradient endpoints for the progress bar.
	BarFrom, BarTo string
}

// Themes holds the built-in themes keyed by name.
var Themes = map[string]Theme{
	"dark": {
		Name:      "Dark",
		Base:      lipgloss.NewStyle().Margin(1, 2),
		Border:    lipgloss.Color("63"),
		Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		Row:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Active:    lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		Critical:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		Sub:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Narrative: lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		BarFrom:   "#5A56E0",
		BarTo:     "#3EE6B0",
	},
	"light": {
		Name:      "Light",
		Base:      lipgloss.NewStyle().Margin(1, 2),
		Border:    lipgloss.Color("25"),
		Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
		Row:       lipgloss.NewStyle().Foreground(lipgloss.Color("235")),
		Active:    lipgloss.NewStyle().Foreground(lipgloss.Color("28")).Bold(true),
		Critical:  lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
		Sub:       lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		Narrative: lipgloss.NewStyle().Foreground(lipgloss.Color("94")),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("247")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		BarFrom:   "#1F6FEB",
		BarTo:     "#2DA44E",
	},
}

// ThemeFor picks the theme matching the dark_mode setting.
func ThemeFor(dark bool) Theme {
	if dark {
		return Themes["dark"]
	}
	return Themes["light"]
}
