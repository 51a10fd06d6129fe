package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/waqt/internal/api"
	"github.com/smokyabdulrahman/waqt/internal/cache"
)

// Fetcher is the part of the Al Adhan client the calculator needs.
type Fetcher interface {
	FetchDay(ctx context.Context, date time.Time, q api.Query) (*api.Response, error)
	FetchCalendar(ctx context.Context, year int, month time.Month, q api.Query) (*api.CalendarResponse, error)
}

// AladhanCalculator builds schedules from the Al Adhan API. AsrAwwal comes
// from the single-shadow school and AsrThaani from the double-shadow one.
type AladhanCalculator struct {
	client Fetcher
	cache  *cache.Cache
}

// NewAladhanCalculator returns a calculator backed by client. A nil cache
// disables caching.
func NewAladhanCalculator(client Fetcher, c *cache.Cache) *AladhanCalculator {
	return &AladhanCalculator{client: client, cache: c}
}

// Calculate implements Calculator with four single-day requests: today in
// both schools, yesterday and tomorrow.
func (a *AladhanCalculator) Calculate(ctx context.Context, date time.Time, loc Location, method int) (*Day, error) {
	awwal := loc.query(method, api.ShadowSingle)
	thaani := loc.query(method, api.ShadowDouble)

	var t timings
	fetches := []struct {
		dst  *api.Data
		date time.Time
		q    api.Query
	}{
		{&t.today, date, awwal},
		{&t.thaani, date, thaani},
		{&t.yesterday, date.AddDate(0, 0, -1), awwal},
		{&t.tomorrow, date.AddDate(0, 0, 1), awwal},
	}
	for _, f := range fetches {
		d, err := a.day(ctx, f.date, f.q)
		if err != nil {
			return nil, err
		}
		*f.dst = *d
	}

	return t.build(date)
}

// CalculateRange implements Calculator using whole-month calendar requests.
func (a *AladhanCalculator) CalculateRange(ctx context.Context, start time.Time, days int, loc Location, method int) ([]*Day, error) {
	if days < 1 {
		return nil, fmt.Errorf("days must be positive, got %d", days)
	}

	awwal := newMonths(a, loc.query(method, api.ShadowSingle))
	thaani := newMonths(a, loc.query(method, api.ShadowDouble))

	out := make([]*Day, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)

		var t timings
		fetches := []struct {
			dst  *api.Data
			from *months
			date time.Time
		}{
			{&t.today, awwal, date},
			{&t.thaani, thaani, date},
			{&t.yesterday, awwal, date.AddDate(0, 0, -1)},
			{&t.tomorrow, awwal, date.AddDate(0, 0, 1)},
		}
		for _, f := range fetches {
			d, err := f.from.day(ctx, f.date)
			if err != nil {
				return nil, err
			}
			*f.dst = d
		}

		day, err := t.build(date)
		if err != nil {
			return nil, err
		}
		out = append(out, day)
	}
	return out, nil
}

// day returns one day's answer, from the cache when possible.
func (a *AladhanCalculator) day(ctx context.Context, date time.Time, q api.Query) (*api.Data, error) {
	if a.cache != nil {
		if entry := a.cache.LoadTimings(date, q); entry != nil {
			d := entry.Data()
			return &d, nil
		}
	}

	resp, err := a.client.FetchDay(ctx, date, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timings for %s: %w", date.Format("2006-01-02"), err)
	}

	if a.cache != nil {
		if err := a.cache.SaveTimings(date, q, resp); err != nil {
			log.Warn().Err(err).Msg("failed to cache timings")
		}
	}
	return &resp.Data, nil
}

// month returns one month's answers, from the cache when possible.
func (a *AladhanCalculator) month(ctx context.Context, year int, month time.Month, q api.Query) ([]api.Data, error) {
	if a.cache != nil {
		if entry := a.cache.LoadCalendar(year, month, q); entry != nil {
			return entry.Days, nil
		}
	}

	resp, err := a.client.FetchCalendar(ctx, year, month, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar for %d-%02d: %w", year, int(month), err)
	}

	if a.cache != nil {
		if err := a.cache.SaveCalendar(year, month, q, resp); err != nil {
			log.Warn().Err(err).Msg("failed to cache calendar")
		}
	}
	return resp.Data, nil
}

type monthKey struct {
	year  int
	month time.Month
}

// months memoises calendar months for one query during a range build.
type months struct {
	calc *AladhanCalculator
	q    api.Query
	seen map[monthKey][]api.Data
}

func newMonths(calc *AladhanCalculator, q api.Query) *months {
	return &months{calc: calc, q: q, seen: make(map[monthKey][]api.Data)}
}

func (m *months) day(ctx context.Context, date time.Time) (api.Data, error) {
	key := monthKey{date.Year(), date.Month()}
	days, ok := m.seen[key]
	if !ok {
		var err error
		days, err = m.calc.month(ctx, key.year, key.month, m.q)
		if err != nil {
			return api.Data{}, err
		}
		m.seen[key] = days
	}

	idx := date.Day() - 1
	if idx >= len(days) {
		return api.Data{}, fmt.Errorf("day %d out of range for %d-%02d (got %d days)", date.Day(), key.year, int(key.month), len(days))
	}

	d := days[idx]
	got, err := d.Day(date.Location())
	if err != nil {
		return api.Data{}, err
	}
	if got.Day() != date.Day() || got.Month() != date.Month() || got.Year() != date.Year() {
		return api.Data{}, fmt.Errorf("calendar entry %d of %d-%02d is dated %s", idx+1, key.year, int(key.month), d.Date.Gregorian.Date)
	}
	return d, nil
}
