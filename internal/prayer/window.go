package prayer

import (
	"fmt"
	"time"
)

// Row is a displayable line of the timetable.
type Row int

const (
	RowFajr Row = iota
	RowSunrise
	RowDhuhr
	RowAsr
	RowMaghrib
	RowIsha
	RowQiyam
)

// AllRows lists the displayable rows in display order.
var AllRows = []Row{RowFajr, RowSunrise, RowDhuhr, RowAsr, RowMaghrib, RowIsha, RowQiyam}

var rowPeriods = map[Row]Period{
	RowFajr:    Fajr,
	RowSunrise: Sunrise,
	RowDhuhr:   Dhuhr,
	RowAsr:     AsrAwwal,
	RowMaghrib: Maghrib,
	RowIsha:    Isha,
	RowQiyam:   Qiyam,
}

// Period returns the period a row is anchored on. The Asr row is anchored
// on AsrAwwal.
func (r Row) Period() Period {
	return rowPeriods[r]
}

func (r Row) String() string {
	switch r {
	case RowAsr:
		return "Asr"
	}
	if p, ok := rowPeriods[r]; ok {
		return p.String()
	}
	return fmt.Sprintf("Row(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r Row) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// RowOf returns the row that owns the current period under the mode. The
// AsrAwwal period belongs to the Dhuhr row unless Dhuhr ends at AsrAwwal.
// Yesterday and QiyamYesterday own no row.
func RowOf(current Period, asr AsrConfig) (Row, bool) {
	switch current {
	case Fajr:
		return RowFajr, true
	case Sunrise:
		return RowSunrise, true
	case Dhuhr:
		return RowDhuhr, true
	case AsrAwwal:
		if asr.Mode == DhuhrEndsAtAsrAwwal {
			return RowAsr, true
		}
		return RowDhuhr, true
	case AsrThaani:
		return RowAsr, true
	case Maghrib:
		return RowMaghrib, true
	case Isha:
		return RowIsha, true
	case Qiyam:
		return RowQiyam, true
	}
	return 0, false
}

// Window is a time span a row occupies. Closed windows include End.
type Window struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Closed bool      `json:"closed"`
}

// Contains reports whether t falls inside w.
func (w Window) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	if w.Closed {
		return !t.After(w.End)
	}
	return t.Before(w.End)
}

// Progress is how far now has advanced through an active window.
type Progress struct {
	// Elapsed is the fraction of the window already passed, in [0, 1].
	Elapsed   float64       `json:"elapsed"`
	Remaining time.Duration `json:"remaining"`
	// Critical is set when fewer than the threshold's whole minutes remain.
	Critical bool `json:"critical"`
}

// progress computes elapsed and urgency for now inside w.
func (w Window) progress(now time.Time, criticalAt int) Progress {
	remaining := w.End.Sub(now)
	total := w.End.Sub(w.Start)
	return Progress{
		Elapsed:   1 - float64(remaining)/float64(total),
		Remaining: remaining,
		Critical:  critical(remaining, criticalAt),
	}
}

func critical(remaining time.Duration, criticalAt int) bool {
	return int64(remaining/time.Minute) < int64(criticalAt)
}

// SubRow is a secondary label shown beneath a row.
type SubRow struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
}

// RowView is everything a renderer needs for one row.
type RowView struct {
	Row   Row       `json:"row"`
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	// Window is nil when the row has no active span (Sunrise without Ishraq).
	Window *Window `json:"window,omitempty"`
	// Progress is set only while the row is active.
	Progress *Progress `json:"progress,omitempty"`
	Sub      *SubRow   `json:"sub,omitempty"`
}

// Active reports whether the row is highlighted.
func (v RowView) Active() bool {
	return v.Progress != nil
}

// Row resolves a single row at now.
func (e *Engine) Row(r Row, now time.Time) (RowView, error) {
	current, err := e.Current(now)
	if err != nil {
		return RowView{}, err
	}
	return e.resolveRow(r, current, now)
}

// Rows resolves every displayable row at now. At most one is active.
func (e *Engine) Rows(now time.Time) ([]RowView, error) {
	current, err := e.Current(now)
	if err != nil {
		return nil, err
	}
	views := make([]RowView, 0, len(AllRows))
	active := -1
	for i, r := range AllRows {
		v, err := e.resolveRow(r, current, now)
		if err != nil {
			return nil, err
		}
		if v.Active() {
			if active >= 0 {
				return nil, violation(current, "rows %s and %s both active", AllRows[active], r)
			}
			active = i
		}
		views = append(views, v)
	}
	return views, nil
}

func (e *Engine) resolveRow(r Row, current Period, now time.Time) (RowView, error) {
	switch r {
	case RowSunrise:
		return e.sunriseRow(now)
	case RowDhuhr:
		return e.dhuhrRow(current, now)
	case RowAsr:
		return e.asrRow(current, now)
	case RowFajr, RowMaghrib, RowIsha, RowQiyam:
		return e.genericRow(r, current, now)
	}
	return RowView{}, fmt.Errorf("unknown row %d", int(r))
}

func (e *Engine) genericRow(r Row, current Period, now time.Time) (RowView, error) {
	p := r.Period()
	w := Window{Start: e.AdjustedTime(p), End: e.ScheduledTime(e.Successor(p))}
	return e.view(r, e.Label(p), w.Start, w, current, now)
}

func (e *Engine) sunriseRow(now time.Time) (RowView, error) {
	start := e.AdjustedTime(Sunrise)
	v := RowView{Row: RowSunrise, Label: e.Label(Sunrise), Start: start}
	ishraq := e.cfg.Ishraq
	if ishraq == nil {
		return v, nil
	}
	w := Window{
		Start:  start.Add(time.Duration(ishraq.AfterSunrise) * time.Minute),
		End:    e.ScheduledTime(Dhuhr).Add(-time.Duration(ishraq.BeforeDhuhr) * time.Minute),
		Closed: true,
	}
	if !w.End.After(w.Start) {
		return v, violation(Sunrise, "ishraq window ends %s at or before it starts %s",
			w.End.Format(time.Kitchen), w.Start.Format(time.Kitchen))
	}
	v.Start = w.Start
	v.Window = &w
	if w.Contains(now) {
		p := w.progress(now, e.cfg.CriticalAt)
		v.Progress = &p
	}
	return v, nil
}

func (e *Engine) dhuhrRow(current Period, now time.Time) (RowView, error) {
	end := AsrThaani
	if e.cfg.Asr.Mode == DhuhrEndsAtAsrAwwal {
		end = AsrAwwal
	}
	w := Window{Start: e.AdjustedTime(Dhuhr), End: e.ScheduledTime(end), Closed: true}
	return e.view(RowDhuhr, e.Label(Dhuhr), w.Start, w, current, now)
}

func (e *Engine) asrRow(current Period, now time.Time) (RowView, error) {
	primary := AsrAwwal
	start := e.AdjustedTime(AsrAwwal)
	if e.cfg.Asr.Mode == AsrStartsAtAsrThaani {
		start = e.AdjustedTime(AsrThaani)
		if !e.cfg.Asr.ShowBoth {
			primary = AsrThaani
		}
	}
	w := Window{Start: start, End: e.ScheduledTime(Maghrib), Closed: true}
	v, err := e.view(RowAsr, e.Label(primary), e.AdjustedTime(primary), w, current, now)
	if err != nil {
		return v, err
	}
	if e.showsAsrThaani() {
		v.Sub = &SubRow{Label: e.Label(AsrThaani), Start: e.AdjustedTime(AsrThaani)}
	}
	return v, nil
}

func (e *Engine) showsAsrThaani() bool {
	switch e.cfg.Asr.Mode {
	case DhuhrEndsAtAsrAwwal:
		return false
	case AsrStartsAtAsrThaani:
		return e.cfg.Asr.ShowBoth
	}
	return true
}

// view assembles a row whose activity is decided by the current period.
func (e *Engine) view(r Row, label string, start time.Time, w Window, current Period, now time.Time) (RowView, error) {
	v := RowView{Row: r, Label: label, Start: start}
	if !w.End.After(w.Start) {
		return v, violation(r.Period(), "%s window ends %s at or before it starts %s",
			r, w.End.Format(time.RFC3339), w.Start.Format(time.RFC3339))
	}
	v.Window = &w
	if owner, ok := RowOf(current, e.cfg.Asr); ok && owner == r && w.Contains(now) {
		p := w.progress(now, e.cfg.CriticalAt)
		v.Progress = &p
	}
	return v, nil
}
