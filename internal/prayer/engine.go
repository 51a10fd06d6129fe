package prayer

import "time"

// Engine evaluates a (Config, Schedule) snapshot. It holds no mutable state;
// replace the whole Engine to change either input.
type Engine struct {
	cfg   Config
	sched Schedule
}

// New returns an engine over cfg and sched.
func New(cfg Config, sched Schedule) *Engine {
	return &Engine{cfg: cfg, sched: sched}
}

// Config returns the configuration snapshot.
func (e *Engine) Config() Config { return e.cfg }

// Schedule returns the schedule snapshot.
func (e *Engine) Schedule() Schedule { return e.sched }

// WithConfig returns a new engine sharing the schedule.
func (e *Engine) WithConfig(cfg Config) *Engine {
	return New(cfg, e.sched)
}

// WithSchedule returns a new engine sharing the configuration.
func (e *Engine) WithSchedule(sched Schedule) *Engine {
	return New(e.cfg, sched)
}

// Successor returns the period following p under the configured mode.
func (e *Engine) Successor(p Period) Period {
	return Successor(p, e.cfg.Asr)
}

// Label returns the display name of p.
func (e *Engine) Label(p Period) string {
	return Label(p, e.cfg)
}

// ScheduledTime returns the unadjusted start of p.
func (e *Engine) ScheduledTime(p Period) time.Time {
	return e.sched.TimeOf(p)
}

// AdjustedTime returns the start of p shifted by the user's offset.
func (e *Engine) AdjustedTime(p Period) time.Time {
	return e.sched.TimeOf(p).Add(e.cfg.Adjustments.Offset(p))
}

// Current returns the period containing now according to the schedule.
// Tomorrow, or an instant the schedule does not reach back to, is reported
// as an invariant violation: the schedule is stale.
func (e *Engine) Current(now time.Time) (Period, error) {
	if now.Before(e.sched.TimeOf(Yesterday)) {
		return Yesterday, violation(Yesterday, "%s precedes the schedule", now.Format(time.RFC3339))
	}
	p := e.sched.PeriodAt(now)
	if !p.Valid() {
		return p, violation(p, "schedule returned an unknown period")
	}
	if p == Tomorrow {
		return p, violation(p, "schedule resolved %s to the next day", now.Format(time.RFC3339))
	}
	return p, nil
}
