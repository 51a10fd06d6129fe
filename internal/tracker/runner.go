package tracker

//go:generate mockgen -source=runner.go -destination=mock_sink_test.go -package=tracker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/waqt/internal/prayer"
	"github.com/smokyabdulrahman/waqt/internal/schedule"
)

// Sink receives a status snapshot on every tick.
type Sink interface {
	Name() string
	Publish(ctx context.Context, s prayer.Status) error
}

// Runner ticks on minute boundaries, recomputes the schedule when the
// local date moves on and fans the resulting status out to its sinks.
type Runner struct {
	store    *Store
	calc     schedule.Calculator
	location schedule.Location
	method   int
	sinks    []Sink
	config   ConfigSource
	reloads  chan struct{}
	retry    Backoff

	// now is replaceable in tests.
	now func() time.Time
}

// NewRunner returns a runner over store. calc and loc are used to build
// each new day's schedule.
func NewRunner(store *Store, calc schedule.Calculator, loc schedule.Location, method int, sinks ...Sink) *Runner {
	return &Runner{
		store:    store,
		calc:     calc,
		location: loc,
		method:   method,
		sinks:    sinks,
		reloads:  make(chan struct{}, 1),
		now:      time.Now,
	}
}

// WatchConfig makes every tick pick up settings changed in src.
func (r *Runner) WatchConfig(src ConfigSource) {
	r.config = src
}

// Reload asks Run to reread the configuration and publish right away.
// It does not block; requests made while one is pending are merged.
func (r *Runner) Reload() {
	select {
	case r.reloads <- struct{}{}:
	default:
	}
}

// UntilNextMinute returns how long to wait from now until the next
// wall-clock minute starts.
func UntilNextMinute(now time.Time) time.Duration {
	return now.Truncate(time.Minute).Add(time.Minute).Sub(now)
}

// Run publishes immediately, then on every minute boundary and after each
// Reload, until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.Tick(ctx)

	timer := time.NewTimer(UntilNextMinute(r.now()))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.reloads:
			r.reloadConfig(true)
			r.Tick(ctx)
		case <-timer.C:
			r.Tick(ctx)
			timer.Reset(UntilNextMinute(r.now()))
		}
	}
}

// Tick runs one cycle: pick up changed settings, recompute if the date
// changed, then publish.
func (r *Runner) Tick(ctx context.Context) {
	r.reloadConfig(false)

	now := r.now()
	if err := r.refresh(ctx, now); err != nil {
		log.Error().Err(err).Time("retry_at", r.retry.Next()).
			Msg("failed to recompute schedule, keeping the previous day")
	}

	status, err := r.store.Status(now)
	if err != nil {
		log.Error().Err(err).Time("at", now).Msg("failed to evaluate status")
		return
	}

	for _, sink := range r.sinks {
		if err := sink.Publish(ctx, status); err != nil {
			log.Warn().Err(err).Str("sink", sink.Name()).Msg("publish failed")
		}
	}
}

func (r *Runner) reloadConfig(force bool) {
	if r.config == nil {
		return
	}
	changed, err := ApplyConfig(r.store, r.config, force)
	if err != nil {
		log.Error().Err(err).Msg("failed to reload config, keeping the previous settings")
		return
	}
	if changed {
		log.Info().Msg("config reloaded")
	}
}

// refresh installs a new day when now no longer falls on the installed
// schedule's date. On failure the stale schedule stays in place and the
// next attempt waits for the backoff.
func (r *Runner) refresh(ctx context.Context, now time.Time) error {
	day := r.store.Load().Day
	if day.Times.Covers(now) || !r.retry.Ready(now) {
		return nil
	}

	local := now.In(day.Times.Location())
	next, err := r.calc.Calculate(ctx, local, r.location, r.method)
	if err != nil {
		r.retry.Failed(now)
		return err
	}

	r.retry.Reset()
	log.Info().Str("date", next.Gregorian).Msg("installed new schedule")
	r.store.SetSchedule(next)
	return nil
}
