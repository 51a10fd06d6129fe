package prayer

import "time"

// Status is a complete projection of the engine at one instant. It is what
// the renderers and the daemon's sinks consume.
type Status struct {
	At        time.Time `json:"at"`
	Current   Period    `json:"current"`
	Label     string    `json:"label"`
	Remaining Remaining `json:"remaining"`
	Rows      []RowView `json:"rows"`
	// Next is the first row starting after At, if any remains today.
	Next *RowView `json:"next,omitempty"`
}

// Active returns the highlighted row, if any.
func (s Status) Active() *RowView {
	for i := range s.Rows {
		if s.Rows[i].Active() {
			return &s.Rows[i]
		}
	}
	return nil
}

// Status evaluates every query at now.
func (e *Engine) Status(now time.Time) (Status, error) {
	current, err := e.Current(now)
	if err != nil {
		return Status{}, err
	}
	rows, err := e.Rows(now)
	if err != nil {
		return Status{}, err
	}
	remaining, err := e.Remaining(now)
	if err != nil {
		return Status{}, err
	}

	s := Status{
		At:        now,
		Current:   current,
		Label:     e.Label(current),
		Remaining: remaining,
		Rows:      rows,
	}
	for i := range rows {
		if rows[i].Start.After(now) {
			s.Next = &rows[i]
			break
		}
	}
	return s, nil
}
