package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/waqt/internal/api"
	"github.com/smokyabdulrahman/waqt/internal/cache"
	"github.com/smokyabdulrahman/waqt/internal/config"
	"github.com/smokyabdulrahman/waqt/internal/geo"
	"github.com/smokyabdulrahman/waqt/internal/prayer"
	"github.com/smokyabdulrahman/waqt/internal/schedule"
)

// Replaceable in tests.
var (
	apiBaseURL  = ""
	newDetector = func() schedule.Detector { return geo.NewDetector() }
	clock       = time.Now
)

// session is what every schedule-showing command needs: merged settings,
// a resolved location and a calculator backed by the cache.
type session struct {
	cfg     *config.Config
	cache   *cache.Cache
	calc    schedule.Calculator
	loc     schedule.Location
	method  int
	timeFmt string
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg := effectiveConfig(cmd)

	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		log.Warn().Err(err).Msg("cache disabled")
		c = nil
	}

	client := api.NewClient()
	if apiBaseURL != "" {
		client.BaseURL = apiBaseURL
	}

	want := schedule.Location{
		Latitude:  cfg.Latitude,
		Longitude: cfg.Longitude,
		City:      cfg.City,
		Country:   cfg.Country,
		Name:      cfg.LocationName,
	}
	loc, err := schedule.Resolve(cmd.Context(), want, c, newDetector())
	if err != nil {
		return nil, err
	}
	log.Debug().Str("location", loc.String()).Msg("location resolved")

	return &session{
		cfg:     cfg,
		cache:   c,
		calc:    schedule.NewAladhanCalculator(client, c),
		loc:     loc,
		method:  cfg.MethodOrDefault(-1),
		timeFmt: goTimeFormat(cfg.TimeFormat),
	}, nil
}

// today returns the schedule for the current date in the location's time
// zone, and now re-anchored to that zone.
func (s *session) today(ctx context.Context) (*schedule.Day, time.Time, error) {
	now := clock()
	day, err := s.calc.Calculate(ctx, now, s.loc, s.method)
	if err != nil {
		return nil, now, err
	}

	// The local calendar date can differ from the location's.
	local := now.In(day.Times.Location())
	if !sameDate(local, day.Date()) {
		if day, err = s.calc.Calculate(ctx, local, s.loc, s.method); err != nil {
			return nil, local, err
		}
	}
	return day, local, nil
}

// engine returns the period engine over day with the merged settings.
func (s *session) engine(day *schedule.Day) *prayer.Engine {
	return prayer.New(s.cfg.Engine(), day.Times)
}

// status evaluates today's schedule at the current instant.
func (s *session) status(ctx context.Context) (*schedule.Day, prayer.Status, error) {
	day, now, err := s.today(ctx)
	if err != nil {
		return nil, prayer.Status{}, err
	}
	st, err := s.engine(day).Status(now)
	if err != nil {
		return nil, prayer.Status{}, fmt.Errorf("evaluating %s: %w", day.Gregorian, err)
	}
	return day, st, nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
