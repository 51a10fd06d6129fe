package prayer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Format constants for status-line modes.
const (
	FormatRemaining             = "remaining"
	FormatCompact               = "compact"
	FormatNextTime              = "next-time"
	FormatLabelAndTime          = "label-and-time"
	FormatShortLabelAndTime     = "short-label-and-time"
	FormatShortLabelAndDuration = "short-label-and-duration"
	FormatFull                  = "full"
)

// FormatModes lists the built-in status-line modes.
var FormatModes = []string{
	FormatRemaining, FormatCompact, FormatNextTime, FormatLabelAndTime,
	FormatShortLabelAndTime, FormatShortLabelAndDuration, FormatFull,
}

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Label      string  // Current period label, e.g. "Asr awwal"
	ShortLabel string  // Abbreviated label, e.g. "A1"
	Narrative  string  // Countdown text, e.g. "2 hours and 15 minutes remaining"
	Remaining  string  // Compact countdown, e.g. "2h 15m"
	Hours      int     // Whole hours of the countdown
	Minutes    int     // Minutes after hours
	Critical   bool    // Countdown is under the critical threshold
	Elapsed    float64 // Fraction of the active row elapsed, 0 when none
	NextLabel  string  // Label of the next row to start today
	NextTime   string  // Formatted start of the next row
}

// FormatStatus renders s as a single status line. timeFormat should be
// "15:04" for 24h or "3:04 PM" for 12h.
//
// A mode containing "{{" is a Go template over FormatData, e.g.
// "{{.ShortLabel}} {{.Remaining}}" -> "A1 2h 15m".
func FormatStatus(s Status, mode string, timeFormat string) string {
	left := s.Remaining.Left
	data := FormatData{
		Label:      s.Label,
		ShortLabel: ShortLabel(s.Label),
		Narrative:  s.Remaining.Text,
		Remaining:  ShortDuration(left),
		Hours:      int(left / time.Hour),
		Minutes:    int(left/time.Minute) % 60,
		Critical:   s.Remaining.Critical,
		NextLabel:  "--",
		NextTime:   "--:--",
	}
	if active := s.Active(); active != nil {
		data.Elapsed = active.Progress.Elapsed
	}
	if s.Next != nil {
		data.NextLabel = s.Next.Label
		data.NextTime = s.Next.Start.Format(timeFormat)
	}

	if strings.Contains(mode, "{{") {
		return formatCustom(mode, data)
	}

	switch mode {
	case FormatRemaining:
		return data.Narrative
	case FormatCompact:
		return fmt.Sprintf("%s %s", data.Label, data.Remaining)
	case FormatNextTime:
		return data.NextTime
	case FormatShortLabelAndTime:
		return fmt.Sprintf("%s %s", ShortLabel(data.NextLabel), data.NextTime)
	case FormatShortLabelAndDuration:
		return fmt.Sprintf("%s %s", data.ShortLabel, data.Remaining)
	case FormatFull:
		return fmt.Sprintf("%s: %s", data.Label, data.Narrative)
	default:
		// FormatLabelAndTime, and anything unrecognised.
		return fmt.Sprintf("%s %s", data.NextLabel, data.NextTime)
	}
}

// ShortDuration formats d as "Xh Ym", or "Ym" under an hour.
func ShortDuration(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// formatCustom executes a user-provided Go template string against data.
func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	return buf.String()
}
