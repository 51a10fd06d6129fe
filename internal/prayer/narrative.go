package prayer

import (
	"fmt"
	"time"
)

// Remaining is the countdown line shown under the timetable.
type Remaining struct {
	Text     string        `json:"text"`
	Critical bool          `json:"critical"`
	Target   time.Time     `json:"target"`
	Left     time.Duration `json:"left"`
}

// narrativeKind names the three shapes the countdown text can take.
type narrativeKind int

const (
	// countdownTo counts down to the start of label: "5 minutes to Ishraq".
	countdownTo narrativeKind = iota
	// remainingIn counts down to the end of the current span: "5 minutes remaining".
	remainingIn
	// remainingOf is remainingIn naming the span: "5 minutes of Isha".
	remainingOf
)

func (k narrativeKind) String() string {
	switch k {
	case countdownTo:
		return "countdown-to"
	case remainingIn:
		return "remaining-in"
	case remainingOf:
		return "remaining-of"
	}
	return fmt.Sprintf("narrativeKind(%d)", int(k))
}

type narrative struct {
	kind   narrativeKind
	label  Period
	target time.Time
}

type narrativeRule func(e *Engine, now time.Time) narrative

// narrativeRules is keyed by the current period. Tomorrow has no rule.
var narrativeRules = map[Period]narrativeRule{
	Yesterday:      ofYesterday,
	QiyamYesterday: untilSuccessor(QiyamYesterday),
	Fajr:           untilSuccessor(Fajr),
	Sunrise:        duringSunrise,
	Dhuhr:          untilSuccessor(Dhuhr),
	AsrAwwal:       duringAsrAwwal,
	AsrThaani:      untilSuccessor(AsrThaani),
	Maghrib:        untilSuccessor(Maghrib),
	Isha:           untilSuccessor(Isha),
	Qiyam:          untilSuccessor(Qiyam),
}

func ofYesterday(e *Engine, _ time.Time) narrative {
	return narrative{kind: remainingOf, label: Yesterday, target: e.ScheduledTime(QiyamYesterday)}
}

// untilSuccessor counts to p's adjusted start, then to its scheduled end.
func untilSuccessor(p Period) narrativeRule {
	return func(e *Engine, now time.Time) narrative {
		return beforeOrDuring(e, p, e.ScheduledTime(e.Successor(p)), now)
	}
}

func beforeOrDuring(e *Engine, p Period, end, now time.Time) narrative {
	if start := e.AdjustedTime(p); now.Before(start) {
		return narrative{kind: countdownTo, label: p, target: start}
	}
	return narrative{kind: remainingIn, target: end}
}

func duringSunrise(e *Engine, now time.Time) narrative {
	ishraq := e.cfg.Ishraq
	if ishraq == nil {
		return narrative{kind: countdownTo, label: Dhuhr, target: e.ScheduledTime(Dhuhr)}
	}
	start := e.AdjustedTime(Sunrise).Add(time.Duration(ishraq.AfterSunrise) * time.Minute)
	end := e.ScheduledTime(Dhuhr).Add(-time.Duration(ishraq.BeforeDhuhr) * time.Minute)
	switch {
	case now.Before(start):
		return narrative{kind: countdownTo, label: Sunrise, target: start}
	case now.After(end):
		return narrative{kind: countdownTo, label: Dhuhr, target: dhuhrTarget(e, now)}
	}
	return narrative{kind: remainingIn, target: end}
}

// dhuhrTarget is adjusted Dhuhr, or scheduled Dhuhr once an early
// adjustment has already passed.
func dhuhrTarget(e *Engine, now time.Time) time.Time {
	if adjusted := e.AdjustedTime(Dhuhr); !adjusted.Before(now) {
		return adjusted
	}
	return e.ScheduledTime(Dhuhr)
}

// duringAsrAwwal keeps reading Dhuhr while Dhuhr overlaps Asr. When Asr
// starts at AsrThaani the countdown runs to that row's adjusted start.
func duringAsrAwwal(e *Engine, now time.Time) narrative {
	switch e.cfg.Asr.Mode {
	case DhuhrEndsAtAsrThaani:
		return narrative{kind: remainingOf, label: Dhuhr, target: e.ScheduledTime(AsrThaani)}
	case AsrStartsAtAsrThaani:
		return beforeOrDuring(e, AsrThaani, e.ScheduledTime(Maghrib), now)
	}
	return beforeOrDuring(e, AsrAwwal, e.ScheduledTime(Maghrib), now)
}

// Remaining composes the countdown text at now.
func (e *Engine) Remaining(now time.Time) (Remaining, error) {
	current, err := e.Current(now)
	if err != nil {
		return Remaining{}, err
	}
	rule, ok := narrativeRules[current]
	if !ok {
		return Remaining{}, violation(current, "no countdown rule")
	}
	n := rule(e, now)
	left := n.target.Sub(now)
	if left < 0 {
		return Remaining{}, violation(current, "%s target %s already passed", n.kind, n.target.Format(time.RFC3339))
	}

	text := FormatDuration(left)
	switch n.kind {
	case countdownTo:
		text += " to " + e.Label(n.label)
	case remainingIn:
		text += " remaining"
	case remainingOf:
		text += " of " + e.Label(n.label)
	}
	return Remaining{
		Text:     text,
		Critical: critical(left, e.cfg.CriticalAt),
		Target:   n.target,
		Left:     left,
	}, nil
}

// FormatDuration renders d as "2 hours and 5 minutes", "1 hour and 1 minute"
// or "45 minutes". Seconds are truncated.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int(d/time.Minute) % 60
	text := plural(minutes, "minute")
	if hours > 0 {
		text = plural(hours, "hour") + " and " + text
	}
	return text
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
