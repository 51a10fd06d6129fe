// Package prayer derives what a prayer timetable means at a given instant.
//
// Given one day's canonical timestamps (a Schedule) and the user's display
// configuration, it answers which period is current, which displayable row
// is active and how far through it we are, and how much time remains, as
// text. Everything here is a pure function of (Config, Schedule, now).
package prayer

import (
	"fmt"
	"strings"
)

// Period is one of the enumerated liturgical time segments of a day.
// The values are in chronological order.
type Period int

const (
	// Yesterday aliases the previous day's Isha.
	Yesterday Period = iota
	// QiyamYesterday is the last third of the previous night.
	QiyamYesterday
	Fajr
	Sunrise
	Dhuhr
	AsrAwwal
	AsrThaani
	Maghrib
	Isha
	// Qiyam is the last third of the coming night.
	Qiyam
	// Tomorrow aliases the next day's Fajr. It is never a current period.
	Tomorrow

	numPeriods = int(Tomorrow) + 1
)

// AllPeriods lists every period in chronological order.
var AllPeriods = []Period{
	Yesterday, QiyamYesterday, Fajr, Sunrise, Dhuhr,
	AsrAwwal, AsrThaani, Maghrib, Isha, Qiyam, Tomorrow,
}

var periodNames = [numPeriods]string{
	Yesterday:      "Yesterday",
	QiyamYesterday: "QiyamYesterday",
	Fajr:           "Fajr",
	Sunrise:        "Sunrise",
	Dhuhr:          "Dhuhr",
	AsrAwwal:       "AsrAwwal",
	AsrThaani:      "AsrThaani",
	Maghrib:        "Maghrib",
	Isha:           "Isha",
	Qiyam:          "Qiyam",
	Tomorrow:       "Tomorrow",
}

// String returns the canonical identifier of the period.
func (p Period) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periodNames[p]
}

// Valid reports whether p is one of the enumerated periods.
func (p Period) Valid() bool {
	return p >= Yesterday && p <= Tomorrow
}

// ParsePeriod resolves a period identifier, ignoring case.
func ParsePeriod(s string) (Period, error) {
	for _, p := range AllPeriods {
		if strings.EqualFold(p.String(), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown period %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Period) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid period %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Period) UnmarshalText(b []byte) error {
	v, err := ParsePeriod(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// AsrMode selects how Dhuhr and the two Asr sub-periods divide the afternoon.
type AsrMode int

const (
	// DhuhrEndsAtAsrAwwal ends Dhuhr where Asr begins, at AsrAwwal.
	DhuhrEndsAtAsrAwwal AsrMode = iota
	// DhuhrEndsAtAsrThaani keeps Dhuhr open until AsrThaani while Asr
	// already begins at AsrAwwal.
	DhuhrEndsAtAsrThaani
	// AsrStartsAtAsrThaani starts Asr at AsrThaani.
	AsrStartsAtAsrThaani
)

var asrModeNames = map[AsrMode]string{
	DhuhrEndsAtAsrAwwal:  "dhuhr-ends-at-asr-awwal",
	DhuhrEndsAtAsrThaani: "dhuhr-ends-at-asr-thaani",
	AsrStartsAtAsrThaani: "asr-starts-at-asr-thaani",
}

// AsrModeNames lists the accepted mode identifiers in declaration order.
var AsrModeNames = []string{
	asrModeNames[DhuhrEndsAtAsrAwwal],
	asrModeNames[DhuhrEndsAtAsrThaani],
	asrModeNames[AsrStartsAtAsrThaani],
}

func (m AsrMode) String() string {
	if name, ok := asrModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("AsrMode(%d)", int(m))
}

// ParseAsrMode accepts a mode identifier or its single-letter alias (a, b, c).
func ParseAsrMode(s string) (AsrMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "a":
		return DhuhrEndsAtAsrAwwal, nil
	case "b":
		return DhuhrEndsAtAsrThaani, nil
	case "c":
		return AsrStartsAtAsrThaani, nil
	}
	for m, name := range asrModeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown asr mode %q; valid modes: %s", s, strings.Join(AsrModeNames, ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (m AsrMode) MarshalText() ([]byte, error) {
	name, ok := asrModeNames[m]
	if !ok {
		return nil, fmt.Errorf("invalid asr mode %d", int(m))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *AsrMode) UnmarshalText(b []byte) error {
	v, err := ParseAsrMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// AsrConfig is the jurisprudential mode. ShowBoth is only meaningful with
// AsrStartsAtAsrThaani.
type AsrConfig struct {
	Mode     AsrMode
	ShowBoth bool
}

// Successor returns the period that follows p. Only the Dhuhr edge depends
// on the mode. Tomorrow wraps to the next day's Yesterday.
func Successor(p Period, asr AsrConfig) Period {
	switch p {
	case Yesterday:
		return QiyamYesterday
	case QiyamYesterday:
		return Fajr
	case Fajr:
		return Sunrise
	case Sunrise:
		return Dhuhr
	case Dhuhr:
		if asr.Mode == DhuhrEndsAtAsrAwwal {
			return AsrAwwal
		}
		return AsrThaani
	case AsrAwwal, AsrThaani:
		return Maghrib
	case Maghrib:
		return Isha
	case Isha:
		return Qiyam
	case Qiyam:
		return Tomorrow
	case Tomorrow:
		return Yesterday
	}
	panic(fmt.Sprintf("prayer: successor of invalid period %d", int(p)))
}

// Label returns the display name of p under cfg.
func Label(p Period, cfg Config) string {
	switch p {
	case Yesterday:
		return Label(Isha, cfg)
	case QiyamYesterday:
		return Label(Qiyam, cfg)
	case Tomorrow:
		return Label(Fajr, cfg)
	case Sunrise:
		if cfg.Ishraq != nil {
			return "Ishraq"
		}
		return "Sunrise"
	case AsrAwwal:
		if cfg.Asr.Mode == DhuhrEndsAtAsrAwwal {
			return "Asr"
		}
		return "Asr awwal"
	case AsrThaani:
		if cfg.Asr.Mode == AsrStartsAtAsrThaani && !cfg.Asr.ShowBoth {
			return "Asr"
		}
		return "Asr thaani"
	}
	return p.String()
}

// shortLabels abbreviates display labels for status bars.
var shortLabels = map[string]string{
	"Fajr":       "F",
	"Sunrise":    "S",
	"Ishraq":     "Ish",
	"Dhuhr":      "D",
	"Asr":        "A",
	"Asr awwal":  "A1",
	"Asr thaani": "A2",
	"Maghrib":    "M",
	"Isha":       "I",
	"Qiyam":      "Q",
}

// ShortLabel abbreviates a display label produced by Label.
func ShortLabel(label string) string {
	if s, ok := shortLabels[label]; ok {
		return s
	}
	return label
}
