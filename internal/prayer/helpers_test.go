package prayer

import (
	"testing"
	"time"
)

// day is the calendar day every fixture schedule describes.
var day = time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

// at returns hh:mm on day shifted by offset days.
func at(offset, hour, min int) time.Time {
	return day.AddDate(0, 0, offset).Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func sampleTimeMap() map[Period]time.Time {
	return map[Period]time.Time{
		Yesterday:      at(-1, 19, 10),
		QiyamYesterday: at(0, 2, 25),
		Fajr:           at(0, 5, 17),
		Sunrise:        at(0, 6, 48),
		Dhuhr:          at(0, 12, 13),
		AsrAwwal:       at(0, 15, 2),
		AsrThaani:      at(0, 15, 50),
		Maghrib:        at(0, 17, 39),
		Isha:           at(0, 19, 10),
		Qiyam:          at(1, 2, 26),
		Tomorrow:       at(1, 5, 16),
	}
}

// sampleTimes builds the fixture schedule, applying edits first.
func sampleTimes(t *testing.T, edits ...func(map[Period]time.Time)) *Times {
	t.Helper()
	m := sampleTimeMap()
	for _, edit := range edits {
		edit(m)
	}
	s, err := NewTimes(day, m)
	if err != nil {
		t.Fatalf("NewTimes: %v", err)
	}
	return s
}

// sixAndNoon moves sunrise to 06:00 and midday to 12:00.
func sixAndNoon(m map[Period]time.Time) {
	m[Sunrise] = at(0, 6, 0)
	m[Dhuhr] = at(0, 12, 0)
}

func modeA() AsrConfig { return AsrConfig{Mode: DhuhrEndsAtAsrAwwal} }
func modeB() AsrConfig { return AsrConfig{Mode: DhuhrEndsAtAsrThaani} }
func modeC(showBoth bool) AsrConfig {
	return AsrConfig{Mode: AsrStartsAtAsrThaani, ShowBoth: showBoth}
}

func allModes() map[string]AsrConfig {
	return map[string]AsrConfig{
		"A":           modeA(),
		"B":           modeB(),
		"C show both": modeC(true),
		"C single":    modeC(false),
	}
}
