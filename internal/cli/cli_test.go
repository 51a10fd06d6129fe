package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/smokyabdulrahman/waqt/internal/api"
	"github.com/smokyabdulrahman/waqt/internal/display"
	"github.com/smokyabdulrahman/waqt/internal/geo"
	"github.com/smokyabdulrahman/waqt/internal/schedule"
)

// fakeAladhan serves the same clock readings for every day.
type fakeAladhan struct {
	lastThird string
	fail      bool
}

func (f *fakeAladhan) data(date time.Time, school string) api.Data {
	asr := "15:02 (GMT)"
	if school == "1" {
		asr = "15:50 (GMT)"
	}
	return api.Data{
		Timings: api.Timings{
			Fajr:      "05:17 (GMT)",
			Sunrise:   "06:48 (GMT)",
			Dhuhr:     "12:13 (GMT)",
			Asr:       asr,
			Maghrib:   "17:39 (GMT)",
			Isha:      "19:10 (GMT)",
			Lastthird: f.lastThird + " (GMT)",
		},
		Date: api.DateInfo{
			Hijri: api.HijriDate{Day: "13", Month: api.HijriMonth{En: "Ramadan"}, Year: "1447"},
			Gregorian: api.GregorianDate{
				Date:    date.Format("02-01-2006"),
				Weekday: api.GregorianDay{En: date.Weekday().String()},
			},
		},
		Meta: api.Meta{
			Latitude:  51.5074,
			Longitude: -0.1278,
			Timezone:  "Europe/London",
			Method:    api.MethodInfo{ID: 2, Name: "ISNA"},
		},
	}
}

func (f *fakeAladhan) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.fail {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	school := r.URL.Query().Get("school")
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch parts[0] {
	case "timings", "timingsByCity":
		date, err := time.Parse("02-01-2006", parts[1])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(api.Response{Code: 200, Status: "OK", Data: f.data(date, school)})
	case "calendar", "calendarByCity":
		year, _ := strconv.Atoi(parts[1])
		month, _ := strconv.Atoi(parts[2])
		first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		var days []api.Data
		for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
			days = append(days, f.data(d, school))
		}
		json.NewEncoder(w).Encode(api.CalendarResponse{Code: 200, Status: "OK", Data: days})
	default:
		http.NotFound(w, r)
	}
}

type failingDetector struct{}

func (failingDetector) Detect(context.Context) (*geo.Location, error) {
	return nil, errors.New("offline")
}

// env is an isolated CLI environment: a fake API, a config file path and
// a fixed clock.
type env struct {
	t      *testing.T
	api    *fakeAladhan
	config string
}

func newEnv(t *testing.T, now time.Time) *env {
	t.Helper()
	f := &fakeAladhan{lastThird: "02:25"}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	wasEnabled := display.Enabled()
	display.SetEnabled(false)

	apiBaseURL = srv.URL
	newDetector = func() schedule.Detector { return failingDetector{} }
	clock = func() time.Time { return now }
	t.Cleanup(func() {
		apiBaseURL = ""
		newDetector = func() schedule.Detector { return geo.NewDetector() }
		clock = time.Now
		display.SetEnabled(wasEnabled)
	})

	return &env{t: t, api: f, config: filepath.Join(t.TempDir(), "config.toml")}
}

// run executes the CLI with args plus an isolated config and cache.
func (e *env) run(args ...string) (string, error) {
	e.t.Helper()
	root := NewRootCmd("v1.2.3-test")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append(args, "--config", e.config, "--cache-dir", e.t.TempDir()))
	err := root.Execute()
	return buf.String(), err
}

// day fetches the fixed schedule for the environment's date.
func (e *env) day() *schedule.Day {
	e.t.Helper()
	client := api.NewClient()
	client.BaseURL = apiBaseURL
	loc := schedule.Location{Latitude: 51.5074, Longitude: -0.1278}
	day, err := schedule.NewAladhanCalculator(client, nil).Calculate(context.Background(), clock(), loc, -1)
	if err != nil {
		e.t.Fatalf("Calculate: %v", err)
	}
	return day
}

var londonArgs = []string{"--latitude=51.5074", "--longitude=-0.1278"}

func inLondon(args ...string) []string {
	return append(args, londonArgs...)
}

func mustLondon(t *testing.T) *time.Location {
	t.Helper()
	tz, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	return tz
}

// afternoon is 14:00 on Monday 2 March 2026, during Dhuhr.
func afternoon(t *testing.T) time.Time {
	return time.Date(2026, 3, 2, 14, 0, 0, 0, mustLondon(t))
}

// ---

func TestVersionFlag(t *testing.T) {
	e := newEnv(t, afternoon(t))

	out, err := e.run("--version")
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if got := strings.TrimSpace(out); got != "waqt version v1.2.3-test" {
		t.Errorf("--version = %q", got)
	}
}

func TestMethodsSubcommand(t *testing.T) {
	e := newEnv(t, afternoon(t))

	out, err := e.run("methods")
	if err != nil {
		t.Fatalf("methods failed: %v", err)
	}
	for _, m := range []string{"ISNA", "Muslim World League", "Umm Al-Qura", "Jafari", "Ministry of Awqaf, Jordan"} {
		if !strings.Contains(out, m) {
			t.Errorf("methods output missing %q", m)
		}
	}
}

func TestLocationErrors(t *testing.T) {
	e := newEnv(t, afternoon(t))

	_, err := e.run("next", "--city", "London")
	if !errors.Is(err, schedule.ErrCountryRequired) {
		t.Errorf("city without country: err = %v, want ErrCountryRequired", err)
	}

	_, err = e.run("next")
	if err == nil || !strings.Contains(err.Error(), "auto-detection failed") {
		t.Errorf("no location: err = %v, want auto-detection failure", err)
	}
}

func TestEffectiveConfig_Priority(t *testing.T) {
	e := newEnv(t, afternoon(t))

	if _, err := e.run("config", "set", "city", "Paris"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.run("config", "set", "country", "France"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.run("config", "set", "time_format", "12h"); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WAQT_COUNTRY", "Italy")

	root := NewRootCmd("test")
	pf := root.PersistentFlags()
	pf.Set("config", e.config)
	pf.Set("city", "Makkah")
	if err := loadConfig(root, nil); err != nil {
		t.Fatal(err)
	}
	cfg := effectiveConfig(root)

	if cfg.City != "Makkah" {
		t.Errorf("City = %q, want flag value", cfg.City)
	}
	if cfg.Country != "Italy" {
		t.Errorf("Country = %q, want environment value", cfg.Country)
	}
	if cfg.TimeFormat != "12h" {
		t.Errorf("TimeFormat = %q, want file value", cfg.TimeFormat)
	}
	if cfg.MethodOrDefault(0) != -1 {
		t.Errorf("Method = %d, want default -1", cfg.MethodOrDefault(0))
	}
	if cfg.MQTT.Topic != "waqt" {
		t.Errorf("MQTT.Topic = %q, want default", cfg.MQTT.Topic)
	}
}

func TestGoTimeFormat(t *testing.T) {
	tests := []struct {
		setting string
		want    string
	}{
		{"12h", "3:04 PM"},
		{"24h", "15:04"},
		{"", "15:04"},
	}
	for _, tt := range tests {
		if got := goTimeFormat(tt.setting); got != tt.want {
			t.Errorf("goTimeFormat(%q) = %q, want %q", tt.setting, got, tt.want)
		}
	}
}
