package prayer

import "time"

// Config is the slice of user configuration the engine consumes.
type Config struct {
	Asr AsrConfig
	// Ishraq is nil when no Ishraq window is configured.
	Ishraq *IshraqWindow
	// CriticalAt is the urgency threshold in whole minutes.
	CriticalAt int
	Adjustments Adjustments
}

// IshraqWindow narrows the Sunrise row to the span that starts AfterSunrise
// minutes after sunrise and ends BeforeDhuhr minutes before midday.
type IshraqWindow struct {
	AfterSunrise int
	BeforeDhuhr  int
}

// Adjustments holds signed per-prayer minute offsets. Asr applies to both
// AsrAwwal and AsrThaani.
type Adjustments struct {
	Fajr    int
	Sunrise int
	Dhuhr   int
	Asr     int
	Maghrib int
	Isha    int
}

// Offset returns the adjustment for p. Periods that cannot be adjusted
// always get zero.
func (a Adjustments) Offset(p Period) time.Duration {
	var m int
	switch p {
	case Fajr:
		m = a.Fajr
	case Sunrise:
		m = a.Sunrise
	case Dhuhr:
		m = a.Dhuhr
	case AsrAwwal, AsrThaani:
		m = a.Asr
	case Maghrib:
		m = a.Maghrib
	case Isha:
		m = a.Isha
	}
	return time.Duration(m) * time.Minute
}

// Adjustable reports whether a user offset applies to p.
func Adjustable(p Period) bool {
	switch p {
	case Fajr, Sunrise, Dhuhr, AsrAwwal, AsrThaani, Maghrib, Isha:
		return true
	}
	return false
}
