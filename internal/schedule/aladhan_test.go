package schedule

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/smokyabdulrahman/waqt/internal/api"
	"github.com/smokyabdulrahman/waqt/internal/cache"
	"github.com/smokyabdulrahman/waqt/internal/prayer"
)

// ---------------------------------------------------------------------------
// Calculate
// ---------------------------------------------------------------------------

func TestCalculate_AssemblesEveryPeriod(t *testing.T) {
	tz := mustLondon(t)
	calc := newTestCalculator(t, newFakeAladhan())
	date := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	day, err := calc.Calculate(context.Background(), date, london, 2)
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}

	at := func(m time.Month, d, h, min int) time.Time {
		return time.Date(2026, m, d, h, min, 0, 0, tz)
	}
	want := map[prayer.Period]time.Time{
		prayer.Yesterday:      at(2, 27, 19, 10),
		prayer.QiyamYesterday: at(2, 28, 2, 25),
		prayer.Fajr:           at(2, 28, 5, 17),
		prayer.Sunrise:        at(2, 28, 6, 48),
		prayer.Dhuhr:          at(2, 28, 12, 13),
		prayer.AsrAwwal:       at(2, 28, 15, 2),
		prayer.AsrThaani:      at(2, 28, 15, 50),
		prayer.Maghrib:        at(2, 28, 17, 39),
		prayer.Isha:           at(2, 28, 19, 10),
		prayer.Qiyam:          at(3, 1, 2, 25),
		prayer.Tomorrow:       at(3, 1, 5, 17),
	}
	for p, w := range want {
		if got := day.Times.TimeOf(p); !got.Equal(w) {
			t.Errorf("%s = %v, want %v", p, got, w)
		}
	}

	if !day.Date().Equal(at(2, 28, 0, 0)) {
		t.Errorf("Date() = %v, want local midnight", day.Date())
	}
	if day.Hijri != "10 Ramadan 1447 AH" {
		t.Errorf("Hijri = %q", day.Hijri)
	}
	if day.Weekday != "Saturday" {
		t.Errorf("Weekday = %q, want Saturday", day.Weekday)
	}
	if day.Timezone != "Europe/London" || day.Method != "ISNA" {
		t.Errorf("Timezone/Method = %q/%q", day.Timezone, day.Method)
	}
}

func TestCalculate_LastThirdBeforeMidnight(t *testing.T) {
	tz := mustLondon(t)
	f := newFakeAladhan()
	f.lastThird = "23:40"
	calc := newTestCalculator(t, f)

	day, err := calc.Calculate(context.Background(), time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), london, 2)
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}

	if got, want := day.Times.TimeOf(prayer.Qiyam), time.Date(2026, 2, 28, 23, 40, 0, 0, tz); !got.Equal(want) {
		t.Errorf("Qiyam = %v, want %v", got, want)
	}
}

func TestCalculate_UsesCache(t *testing.T) {
	mustLondon(t)
	f := newFakeAladhan()
	calc := newTestCalculator(t, f)
	c, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	calc.cache = c
	date := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if _, err := calc.Calculate(context.Background(), date, london, 2); err != nil {
		t.Fatalf("first Calculate: %v", err)
	}
	if got := f.requests.Load(); got != 4 {
		t.Fatalf("requests = %d, want 4", got)
	}

	if _, err := calc.Calculate(context.Background(), date, london, 2); err != nil {
		t.Fatalf("second Calculate: %v", err)
	}
	if got := f.requests.Load(); got != 4 {
		t.Errorf("requests after cached run = %d, want 4", got)
	}
}

func TestCalculate_Failures(t *testing.T) {
	mustLondon(t)
	date := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		handler http.Handler
		wantErr error
	}{
		{
			name: "server error",
			handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			}),
		},
		{
			name: "unknown timezone",
			handler: func() http.Handler {
				f := newFakeAladhan()
				f.timezone = "Mars/Olympus"
				return f
			}(),
		},
		{
			name: "asr thaani before asr awwal",
			handler: func() http.Handler {
				f := newFakeAladhan()
				f.asrThaani = "14:00"
				return f
			}(),
			wantErr: prayer.ErrUnorderedSchedule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := newTestCalculator(t, tt.handler)
			day, err := calc.Calculate(context.Background(), date, london, 2)
			if err == nil {
				t.Fatalf("expected error, got %+v", day)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLocation_Query(t *testing.T) {
	q := london.query(3, api.ShadowDouble)
	if q.ByCity() || q.Method != 3 || q.School != api.ShadowDouble {
		t.Errorf("coordinate query = %+v", q)
	}

	both := Location{Latitude: 1, Longitude: 2, City: "Paris", Country: "FR"}
	if q := both.query(2, 0); q.City != "" {
		t.Errorf("coordinates should win over city, got %+v", q)
	}

	city := Location{City: "Paris", Country: "FR"}
	if q := city.query(2, 0); !q.ByCity() {
		t.Errorf("city query = %+v", q)
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		loc  Location
		want string
	}{
		{Location{Name: "Home", City: "Paris"}, "Home"},
		{Location{City: "Paris", Country: "FR"}, "Paris, FR"},
		{Location{City: "Paris"}, "Paris"},
		{london, "51.5074, -0.1278"},
	}
	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.loc, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// CalculateRange
// ---------------------------------------------------------------------------

func TestCalculateRange_AcrossMonths(t *testing.T) {
	tz := mustLondon(t)
	f := newFakeAladhan()
	calc := newTestCalculator(t, f)
	start := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)

	days, err := calc.CalculateRange(context.Background(), start, 3, london, 2)
	if err != nil {
		t.Fatalf("CalculateRange error: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("got %d days, want 3", len(days))
	}

	wantDates := []string{"27 Feb 2026", "28 Feb 2026", "01 Mar 2026"}
	for i, d := range days {
		if d.Gregorian != wantDates[i] {
			t.Errorf("day %d = %q, want %q", i, d.Gregorian, wantDates[i])
		}
	}

	last := days[2].Times
	if got, want := last.TimeOf(prayer.Tomorrow), time.Date(2026, 3, 2, 5, 17, 0, 0, tz); !got.Equal(want) {
		t.Errorf("Tomorrow = %v, want %v", got, want)
	}
	if got, want := last.TimeOf(prayer.AsrThaani), time.Date(2026, 3, 1, 15, 50, 0, 0, tz); !got.Equal(want) {
		t.Errorf("AsrThaani = %v, want %v", got, want)
	}

	// February and March, once per school.
	if got := f.requests.Load(); got != 4 {
		t.Errorf("requests = %d, want 4", got)
	}
}

func TestCalculateRange_InvalidDays(t *testing.T) {
	calc := newTestCalculator(t, newFakeAladhan())
	if _, err := calc.CalculateRange(context.Background(), time.Now(), 0, london, 2); err == nil {
		t.Error("expected error for zero days")
	}
}

func TestCalculateRange_MislabelledCalendar(t *testing.T) {
	mustLondon(t)
	f := newFakeAladhan()
	f.shiftGregorian = true
	calc := newTestCalculator(t, f)

	start := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	if _, err := calc.CalculateRange(context.Background(), start, 1, london, 2); err == nil {
		t.Error("expected error for a calendar entry carrying the wrong date")
	}
}

func TestCalculateRange_UsesCache(t *testing.T) {
	mustLondon(t)
	f := newFakeAladhan()
	calc := newTestCalculator(t, f)
	c, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	calc.cache = c
	start := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		if _, err := calc.CalculateRange(context.Background(), start, 7, london, 2); err != nil {
			t.Fatalf("CalculateRange run %d: %v", i, err)
		}
	}
	if got := f.requests.Load(); got != 2 {
		t.Errorf("requests = %d, want 2", got)
	}
}
