// Package schedule turns Al Adhan responses into the per-day timetables the
// prayer engine consumes.
package schedule

//go:generate mockgen -source=schedule.go -destination=mock_schedule/mock_calculator.go -package=mock_schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/smokyabdulrahman/waqt/internal/api"
	"github.com/smokyabdulrahman/waqt/internal/prayer"
)

// Location is where a schedule is computed for. Coordinates win over a
// city when both are present.
type Location struct {
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
	// Name is a display label, e.g. from config's location_name.
	Name string `json:"name,omitempty"`
}

// HasCoordinates reports whether the location is pinned by latitude and
// longitude.
func (l Location) HasCoordinates() bool {
	return l.Latitude != 0 || l.Longitude != 0
}

// String returns the most human-friendly label available.
func (l Location) String() string {
	switch {
	case l.Name != "":
		return l.Name
	case l.City != "" && l.Country != "":
		return l.City + ", " + l.Country
	case l.City != "":
		return l.City
	default:
		return fmt.Sprintf("%.4f, %.4f", l.Latitude, l.Longitude)
	}
}

func (l Location) query(method, school int) api.Query {
	q := api.Query{Method: method, School: school}
	if l.HasCoordinates() {
		q.Latitude, q.Longitude = l.Latitude, l.Longitude
	} else {
		q.City, q.Country = l.City, l.Country
	}
	return q
}

// Day is one calendar day's timetable together with the calendar details
// the API reported for it.
type Day struct {
	Times     *prayer.Times `json:"-"`
	Gregorian string        `json:"gregorian"`
	Weekday   string        `json:"weekday,omitempty"`
	Hijri     string        `json:"hijri,omitempty"`
	Timezone  string        `json:"timezone"`
	Method    string        `json:"method,omitempty"`
}

// Date returns local midnight of the day.
func (d *Day) Date() time.Time {
	return d.Times.Date()
}

// Calculator produces schedules. Implementations must fail rather than
// return a partial or defaulted timetable.
type Calculator interface {
	// Calculate returns the schedule for the calendar day of date.
	Calculate(ctx context.Context, date time.Time, loc Location, method int) (*Day, error)
	// CalculateRange returns days consecutive schedules starting at start.
	CalculateRange(ctx context.Context, start time.Time, days int, loc Location, method int) ([]*Day, error)
}

// timings is the set of API answers one day's schedule is built from.
type timings struct {
	today     api.Data
	thaani    api.Data // today with the double-shadow Asr
	yesterday api.Data
	tomorrow  api.Data
}

// build anchors every clock reading on its calendar day in the time zone
// the API reported, then validates the sequence.
func (t timings) build(date time.Time) (*Day, error) {
	tz, err := time.LoadLocation(t.today.Meta.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", t.today.Meta.Timezone, err)
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, tz)
	prev, next := day.AddDate(0, 0, -1), day.AddDate(0, 0, 1)

	readings := []struct {
		period prayer.Period
		on     time.Time
		clock  string
	}{
		{prayer.Yesterday, prev, t.yesterday.Timings.Isha},
		{prayer.QiyamYesterday, prev, t.yesterday.Timings.Lastthird},
		{prayer.Fajr, day, t.today.Timings.Fajr},
		{prayer.Sunrise, day, t.today.Timings.Sunrise},
		{prayer.Dhuhr, day, t.today.Timings.Dhuhr},
		{prayer.AsrAwwal, day, t.today.Timings.Asr},
		{prayer.AsrThaani, day, t.thaani.Timings.Asr},
		{prayer.Maghrib, day, t.today.Timings.Maghrib},
		{prayer.Isha, day, t.today.Timings.Isha},
		{prayer.Qiyam, day, t.today.Timings.Lastthird},
		{prayer.Tomorrow, next, t.tomorrow.Timings.Fajr},
	}

	times := make(map[prayer.Period]time.Time, len(readings))
	for _, r := range readings {
		ts, err := api.ParseClock(r.on, r.clock, tz)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.period, err)
		}
		times[r.period] = ts
	}

	// The last third of the night usually falls after midnight.
	if err := rollPastMaghrib(times, prayer.QiyamYesterday, prev, t.yesterday.Timings.Maghrib, tz); err != nil {
		return nil, err
	}
	if err := rollPastMaghrib(times, prayer.Qiyam, day, t.today.Timings.Maghrib, tz); err != nil {
		return nil, err
	}

	sched, err := prayer.NewTimes(day, times)
	if err != nil {
		return nil, fmt.Errorf("schedule for %s: %w", day.Format("2006-01-02"), err)
	}

	return &Day{
		Times:     sched,
		Gregorian: day.Format("02 Jan 2006"),
		Weekday:   t.today.Date.Gregorian.Weekday.En,
		Hijri:     t.today.Date.Hijri.Format(),
		Timezone:  t.today.Meta.Timezone,
		Method:    t.today.Meta.Method.Name,
	}, nil
}

func rollPastMaghrib(times map[prayer.Period]time.Time, p prayer.Period, on time.Time, maghrib string, tz *time.Location) error {
	m, err := api.ParseClock(on, maghrib, tz)
	if err != nil {
		return fmt.Errorf("maghrib: %w", err)
	}
	if times[p].Before(m) {
		times[p] = times[p].AddDate(0, 0, 1)
	}
	return nil
}
