// Package tui is the full-screen watch view: today's rows, a progress bar
// on the active one and the countdown line, refreshed every minute.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/waqt/internal/prayer"
	"github.com/smokyabdulrahman/waqt/internal/schedule"
	"github.com/smokyabdulrahman/waqt/internal/tracker"
)

// TickMsg fires on each minute boundary.
type TickMsg time.Time

// RecomputedMsg carries the outcome of building a new day's schedule.
type RecomputedMsg struct {
	Day *schedule.Day
	Err error
}

func tickCmd(now time.Time) tea.Cmd {
	return tea.Tick(tracker.UntilNextMinute(now), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Options configures a Model.
type Options struct {
	Location   schedule.Location
	Method     int
	TimeFormat string
	Dark       bool
	// Config, if set, is checked on every tick and reread on "r".
	Config tracker.ConfigSource
}

// Model is the bubbletea model for the watch view.
type Model struct {
	store    *tracker.Store
	calc     schedule.Calculator
	opts     Options
	theme    Theme
	progress progress.Model

	status      prayer.Status
	statusErr   error
	refreshErr  error
	configErr   error
	recomputing bool
	retry       tracker.Backoff
	width       int

	// now is replaceable in tests.
	now func() time.Time
}

// New returns a model over store that uses calc to build each new day.
func New(store *tracker.Store, calc schedule.Calculator, opts Options) Model {
	theme := ThemeFor(opts.Dark)
	m := Model{
		store:    store,
		calc:     calc,
		opts:     opts,
		theme:    theme,
		progress: progress.New(progress.WithGradient(theme.BarFrom, theme.BarTo), progress.WithoutPercentage()),
		now:      time.Now,
	}
	m.progress.Width = 30
	m.evaluate(m.now())
	return m
}

// Init starts the minute-aligned ticker.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.now())
}

// Update handles keys, resizes, ticks and recompute results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.reloadConfig(true)
			m.evaluate(m.now())
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		target := 30
		if m.width < 60 {
			target = m.width / 3
		}
		if target < 10 {
			target = 10
		}
		m.progress.Width = target
		return m, nil

	case TickMsg:
		now := time.Time(msg)
		cmds := []tea.Cmd{tickCmd(now)}
		m.reloadConfig(false)
		if !m.store.Load().Day.Times.Covers(now) && !m.recomputing && m.retry.Ready(now) {
			m.recomputing = true
			cmds = append(cmds, m.recompute(now))
		}
		m.evaluate(now)
		return m, tea.Batch(cmds...)

	case RecomputedMsg:
		m.recomputing = false
		if msg.Err != nil {
			log.Error().Err(msg.Err).Msg("failed to recompute schedule, keeping the previous day")
			m.refreshErr = msg.Err
			m.retry.Failed(m.now())
		} else {
			m.refreshErr = nil
			m.retry.Reset()
			m.store.SetSchedule(msg.Day)
		}
		m.evaluate(m.now())
		return m, nil
	}
	return m, nil
}

// recompute builds the schedule for the calendar day of now.
func (m Model) recompute(now time.Time) tea.Cmd {
	date := now.In(m.store.Load().Day.Times.Location())
	return func() tea.Msg {
		day, err := m.calc.Calculate(context.Background(), date, m.opts.Location, m.opts.Method)
		return RecomputedMsg{Day: day, Err: err}
	}
}

func (m *Model) reloadConfig(force bool) {
	if m.opts.Config == nil {
		return
	}
	changed, err := tracker.ApplyConfig(m.store, m.opts.Config, force)
	switch {
	case err != nil:
		log.Error().Err(err).Msg("failed to reload config, keeping the previous settings")
		m.configErr = err
	case changed:
		log.Info().Msg("config reloaded")
		m.configErr = nil
	}
}

func (m *Model) evaluate(now time.Time) {
	m.status, m.statusErr = m.store.Status(now)
}

// View renders the timetable.
func (m Model) View() string {
	var b strings.Builder
	day := m.store.Load().Day

	b.WriteString(m.theme.Header.Render(m.opts.Location.String()) + "\n")
	date := day.Gregorian
	if day.Hijri != "" {
		date += "  ·  " + day.Hijri
	}
	b.WriteString(m.theme.Dim.Render(date) + "\n\n")

	if m.statusErr != nil {
		b.WriteString(m.theme.Error.Render("Schedule unavailable: "+m.statusErr.Error()) + "\n")
	} else {
		b.WriteString(m.renderRows())
		b.WriteString("\n")
		style := m.theme.Narrative
		if m.status.Remaining.Critical {
			style = m.theme.Critical
		}
		b.WriteString(style.Render(m.status.Remaining.Text) + "\n")
	}

	if m.refreshErr != nil {
		b.WriteString(m.theme.Error.Render("Refresh failed: "+m.refreshErr.Error()) + "\n")
	}
	if m.configErr != nil {
		b.WriteString(m.theme.Error.Render("Config not reloaded: "+m.configErr.Error()) + "\n")
	}
	help := "q quit"
	if m.opts.Config != nil {
		help = "r reload config  " + help
	}
	b.WriteString("\n" + m.theme.Dim.Render(help))

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(0, 1)
	return m.theme.Base.Render(frame.Render(b.String()))
}

func (m Model) renderRows() string {
	labelWidth := 0
	for _, r := range m.status.Rows {
		if w := lipgloss.Width(r.Label); w > labelWidth {
			labelWidth = w
		}
	}

	var b strings.Builder
	for _, r := range m.status.Rows {
		line := fmt.Sprintf("%-*s  %8s", labelWidth, r.Label, r.Start.Format(m.opts.TimeFormat))
		switch {
		case r.Progress != nil:
			style := m.theme.Active
			if r.Progress.Critical {
				style = m.theme.Critical
			}
			line = style.Render("▸ "+line) + "  " + m.progress.ViewAs(r.Progress.Elapsed) +
				style.Render(fmt.Sprintf(" %3.0f%%", r.Progress.Elapsed*100))
		default:
			line = m.theme.Row.Render("  " + line)
		}
		b.WriteString(line + "\n")

		if r.Sub != nil {
			sub := fmt.Sprintf("    %-*s%8s", labelWidth, r.Sub.Label, r.Sub.Start.Format(m.opts.TimeFormat))
			b.WriteString(m.theme.Sub.Render(sub) + "\n")
		}
	}
	return b.String()
}

// Run starts the program in the alternate screen and blocks until it quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
