package prayer

import (
	"fmt"
	"time"
)

// Schedule is one day's authoritative timetable, produced by an external
// calculator.
type Schedule interface {
	// TimeOf returns the unadjusted timestamp at which p begins.
	TimeOf(p Period) time.Time
	// PeriodAt returns the period containing t.
	PeriodAt(t time.Time) Period
}

// Times is an immutable Schedule for one calendar day.
type Times struct {
	date  time.Time
	times [numPeriods]time.Time
}

// NewTimes builds a schedule for date from a timestamp per period. Every
// period must be present and the sequence must be non-decreasing in
// chronological period order.
func NewTimes(date time.Time, times map[Period]time.Time) (*Times, error) {
	s := &Times{date: time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())}
	for _, p := range AllPeriods {
		t, ok := times[p]
		if !ok {
			return nil, fmt.Errorf("missing timestamp for %s", p)
		}
		if p > Yesterday && t.Before(s.times[p-1]) {
			return nil, fmt.Errorf("%w: %s (%s) before %s (%s)", ErrUnorderedSchedule,
				p, t.Format(time.RFC3339), p-1, s.times[p-1].Format(time.RFC3339))
		}
		s.times[p] = t
	}
	return s, nil
}

// Date returns local midnight of the calendar day the schedule describes.
func (s *Times) Date() time.Time {
	return s.date
}

// Location returns the time zone the schedule was computed in.
func (s *Times) Location() *time.Location {
	return s.date.Location()
}

// TimeOf implements Schedule.
func (s *Times) TimeOf(p Period) time.Time {
	return s.times[p]
}

// PeriodAt implements Schedule. It returns the latest period that has begun
// at t; an instant before the first timestamp reports Yesterday.
func (s *Times) PeriodAt(t time.Time) Period {
	current := Yesterday
	for _, p := range AllPeriods {
		if s.times[p].After(t) {
			break
		}
		current = p
	}
	return current
}

// Covers reports whether t falls on the schedule's calendar day.
func (s *Times) Covers(t time.Time) bool {
	y, m, d := t.In(s.Location()).Date()
	return y == s.date.Year() && m == s.date.Month() && d == s.date.Day()
}
