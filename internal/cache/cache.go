// Package cache stores Al Adhan responses and geolocation results on disk
// so repeated runs and daily recomputes avoid the network.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smokyabdulrahman/waqt/internal/api"
	"github.com/smokyabdulrahman/waqt/internal/geo"
)

const (
	timingsCacheFile  = "timings_%s.json"  // keyed by hash
	calendarCacheFile = "calendar_%s.json" // keyed by hash
	geoCacheFile      = "geolocation.json"
	geoTTL            = 24 * time.Hour
)

// Cache provides file-based caching for prayer times and geolocation data.
type Cache struct {
	dir string
}

// TimingsEntry stores one day's response along with metadata for validation.
type TimingsEntry struct {
	Date     string       `json:"date"` // YYYY-MM-DD
	Method   int          `json:"method"`
	School   int          `json:"school"`
	Timings  api.Timings  `json:"timings"`
	DateInfo api.DateInfo `json:"date_info"`
	Meta     api.Meta     `json:"meta"`
}

// Data returns the entry in the shape the API returned it.
func (e *TimingsEntry) Data() api.Data {
	return api.Data{Timings: e.Timings, Date: e.DateInfo, Meta: e.Meta}
}

// CalendarEntry stores a whole month of daily responses.
type CalendarEntry struct {
	Year   int        `json:"year"`
	Month  int        `json:"month"`
	Method int        `json:"method"`
	School int        `json:"school"`
	Days   []api.Data `json:"days"`
}

// GeoCacheEntry stores a cached geolocation result with a timestamp.
type GeoCacheEntry struct {
	Location geo.Location `json:"location"`
	CachedAt time.Time    `json:"cached_at"`
}

// New creates a Cache rooted at the given directory.
// If dir is empty, it defaults to waqt/ under the user cache directory
// ($XDG_CACHE_HOME or ~/.cache on Linux).
func New(dir string) (*Cache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine cache directory: %w", err)
		}
		dir = filepath.Join(base, "waqt")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &Cache{dir: dir}, nil
}

// Dir returns the directory the cache writes to.
func (c *Cache) Dir() string {
	return c.dir
}

// queryKey folds every parameter that changes the API's answer.
func queryKey(q api.Query) string {
	return fmt.Sprintf("%.6f|%.6f|%s|%s|%d|%d", q.Latitude, q.Longitude, q.City, q.Country, q.Method, q.School)
}

// cacheKey builds a deterministic hash for one day of one query.
func cacheKey(date string, q api.Query) string {
	return hashKey(date + "|" + queryKey(q))
}

// calendarKey builds a deterministic hash for one month of one query.
func calendarKey(year int, month time.Month, q api.Query) string {
	return hashKey(fmt.Sprintf("%04d-%02d|%s", year, int(month), queryKey(q)))
}

func hashKey(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", h[:8]) // 16 hex chars is plenty for uniqueness
}

// LoadTimings attempts to read a cached day for the given query.
// Returns nil if the cache is missing, unreadable or for another date.
func (c *Cache) LoadTimings(date time.Time, q api.Query) *TimingsEntry {
	dateStr := date.Format("2006-01-02")
	path := filepath.Join(c.dir, fmt.Sprintf(timingsCacheFile, cacheKey(dateStr, q)))

	var entry TimingsEntry
	if !readJSON(path, &entry) || entry.Date != dateStr {
		return nil
	}
	return &entry
}

// SaveTimings writes a day's response to the cache.
func (c *Cache) SaveTimings(date time.Time, q api.Query, resp *api.Response) error {
	dateStr := date.Format("2006-01-02")
	path := filepath.Join(c.dir, fmt.Sprintf(timingsCacheFile, cacheKey(dateStr, q)))

	return writeJSON(path, TimingsEntry{
		Date:     dateStr,
		Method:   q.Method,
		School:   q.School,
		Timings:  resp.Data.Timings,
		DateInfo: resp.Data.Date,
		Meta:     resp.Data.Meta,
	})
}

// LoadCalendar attempts to read a cached month for the given query.
func (c *Cache) LoadCalendar(year int, month time.Month, q api.Query) *CalendarEntry {
	path := filepath.Join(c.dir, fmt.Sprintf(calendarCacheFile, calendarKey(year, month, q)))

	var entry CalendarEntry
	if !readJSON(path, &entry) || entry.Year != year || entry.Month != int(month) {
		return nil
	}
	return &entry
}

// SaveCalendar writes a month's response to the cache.
func (c *Cache) SaveCalendar(year int, month time.Month, q api.Query, resp *api.CalendarResponse) error {
	path := filepath.Join(c.dir, fmt.Sprintf(calendarCacheFile, calendarKey(year, month, q)))

	return writeJSON(path, CalendarEntry{
		Year:   year,
		Month:  int(month),
		Method: q.Method,
		School: q.School,
		Days:   resp.Data,
	})
}

// LoadGeo attempts to read a cached geolocation result.
// Returns nil if the cache is missing or older than the TTL (24 hours).
func (c *Cache) LoadGeo() *geo.Location {
	var entry GeoCacheEntry
	if !readJSON(filepath.Join(c.dir, geoCacheFile), &entry) {
		return nil
	}
	if time.Since(entry.CachedAt) > geoTTL {
		return nil
	}
	return &entry.Location
}

// SaveGeo writes a geolocation result to the cache.
func (c *Cache) SaveGeo(loc *geo.Location) error {
	return writeJSON(filepath.Join(c.dir, geoCacheFile), GeoCacheEntry{
		Location: *loc,
		CachedAt: time.Now(),
	})
}

func readJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}
