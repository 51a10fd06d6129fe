// Package display styles plain terminal output for the one-shot commands.
//
// It respects the NO_COLOR environment variable (https://no-color.org/) and
// detects whether stdout is a terminal. Colors are automatically disabled when
// output is piped or redirected, or when NO_COLOR is set.
package display

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

type palette struct {
	bold     lipgloss.Style
	dim      lipgloss.Style
	green    lipgloss.Style
	yellow   lipgloss.Style
	cyan     lipgloss.Style
	gray     lipgloss.Style
	accent   lipgloss.Style
	critical lipgloss.Style
}

var (
	// enabled reports whether color output is active.
	enabled bool
	profile termenv.Profile
	styles  palette
)

func init() {
	SetEnabled(shouldEnable())
}

// shouldEnable determines whether to use color output.
func shouldEnable() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	// Respect FORCE_COLOR for testing.
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SetEnabled overrides the auto-detected color state.
// Useful for testing or when --json forces plain output.
func SetEnabled(b bool) {
	enabled = b
	profile = termenv.Ascii
	if b {
		profile = termenv.ANSI256
	}

	r := lipgloss.NewRenderer(os.Stdout)
	r.SetColorProfile(profile)
	styles = palette{
		bold:     r.NewStyle().Bold(true),
		dim:      r.NewStyle().Faint(true),
		green:    r.NewStyle().Foreground(lipgloss.Color("2")),
		yellow:   r.NewStyle().Foreground(lipgloss.Color("3")),
		cyan:     r.NewStyle().Foreground(lipgloss.Color("6")),
		gray:     r.NewStyle().Foreground(lipgloss.Color("8")),
		accent:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		critical: r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	}
}

// Enabled reports whether color output is currently active.
func Enabled() bool {
	return enabled
}

func render(s lipgloss.Style, text string) string {
	if !enabled {
		return text
	}
	return s.Render(text)
}

// Bold returns text rendered in bold.
func Bold(text string) string { return render(styles.bold, text) }

// Dim returns text rendered faint.
func Dim(text string) string { return render(styles.dim, text) }

// Green returns text rendered in green.
func Green(text string) string { return render(styles.green, text) }

// Yellow returns text rendered in yellow.
func Yellow(text string) string { return render(styles.yellow, text) }

// Cyan returns text rendered in cyan.
func Cyan(text string) string { return render(styles.cyan, text) }

// Gray returns text rendered in gray.
func Gray(text string) string { return render(styles.gray, text) }

// Accent marks the active row.
func Accent(text string) string { return render(styles.accent, text) }

// Critical marks a row or countdown under the critical threshold.
func Critical(text string) string { return render(styles.critical, text) }

// Boldf formats and bolds a string.
func Boldf(format string, a ...interface{}) string {
	return Bold(fmt.Sprintf(format, a...))
}

// Bar renders a width-cell progress bar for fraction in [0, 1].
func Bar(fraction float64, width int) string {
	bar := progress.New(
		progress.WithSolidFill("6"),
		progress.WithoutPercentage(),
		progress.WithWidth(width),
		progress.WithColorProfile(profile),
	)
	return bar.ViewAs(fraction)
}

// Percent formats fraction as a whole percentage, e.g. "42%".
func Percent(fraction float64) string {
	return fmt.Sprintf("%.0f%%", fraction*100)
}
