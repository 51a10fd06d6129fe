// Package config provides persistent configuration for waqt.
//
// Configuration is stored as TOML at ~/.config/waqt/config.toml
// (XDG-compliant). The merge priority is: CLI flags > WAQT_* environment
// variables (optionally from a .env file) > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/smokyabdulrahman/waqt/internal/prayer"
)

const (
	configDirName  = "waqt"
	configFileName = "config.toml"

	// EnvPrefix prefixes the environment variable of every key.
	EnvPrefix = "WAQT_"
)

var (
	// ErrInvalidValue is returned by Set when a value fails validation.
	ErrInvalidValue = errors.New("invalid value")
	// ErrUnknownKey is returned by Set and Get for keys not in ValidKeys.
	ErrUnknownKey = errors.New("unknown config key")
)

// Default values applied when a key is not set.
const (
	DefaultCriticalAt   = 15
	DefaultAfterSunrise = 15
	DefaultBeforeDhuhr  = 10
	DefaultMQTTTopic    = "waqt"
	DefaultTimeFormat   = "24h"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"city", "country",
	"latitude", "longitude",
	"location_name",
	"method",
	"time_format",
	"dark_mode",
	"critical_at",
	"cache_dir",
	"listen",
	"asr.mode", "asr.show_both",
	"ishraq.enabled", "ishraq.after_sunrise", "ishraq.before_dhuhr",
	"adjustments.fajr", "adjustments.sunrise", "adjustments.dhuhr",
	"adjustments.asr", "adjustments.maghrib", "adjustments.isha",
	"mqtt.broker", "mqtt.topic", "mqtt.client_id",
}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults or auto-detect).
type Config struct {
	City         string  `toml:"city,omitempty"`
	Country      string  `toml:"country,omitempty"`
	Latitude     float64 `toml:"latitude,omitempty"`
	Longitude    float64 `toml:"longitude,omitempty"`
	LocationName string  `toml:"location_name,omitempty"`
	Method       *int    `toml:"method,omitempty"`
	TimeFormat   string  `toml:"time_format,omitempty"` // "12h" or "24h"
	DarkMode     *bool   `toml:"dark_mode,omitempty"`
	CriticalAt   *int    `toml:"critical_at,omitempty"`
	CacheDir     string  `toml:"cache_dir,omitempty"`
	Listen       string  `toml:"listen,omitempty"`

	Asr         Asr         `toml:"asr"`
	Ishraq      Ishraq      `toml:"ishraq"`
	Adjustments Adjustments `toml:"adjustments"`
	MQTT        MQTT        `toml:"mqtt"`
}

// Asr is the [asr] table.
type Asr struct {
	Mode     prayer.AsrMode `toml:"mode"`
	ShowBoth bool           `toml:"show_both,omitempty"`
}

// Ishraq is the [ishraq] table. The window is enabled unless Enabled is
// explicitly false.
type Ishraq struct {
	Enabled      *bool `toml:"enabled,omitempty"`
	AfterSunrise *int  `toml:"after_sunrise,omitempty"`
	BeforeDhuhr  *int  `toml:"before_dhuhr,omitempty"`
}

// Adjustments is the [adjustments] table, in signed minutes.
type Adjustments struct {
	Fajr    int `toml:"fajr,omitempty"`
	Sunrise int `toml:"sunrise,omitempty"`
	Dhuhr   int `toml:"dhuhr,omitempty"`
	Asr     int `toml:"asr,omitempty"`
	Maghrib int `toml:"maghrib,omitempty"`
	Isha    int `toml:"isha,omitempty"`
}

// MQTT is the [mqtt] table used by the daemon.
type MQTT struct {
	Broker   string `toml:"broker,omitempty"`
	Topic    string `toml:"topic,omitempty"`
	ClientID string `toml:"client_id,omitempty"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	method := -1
	critical := DefaultCriticalAt
	enabled := true
	after := DefaultAfterSunrise
	before := DefaultBeforeDhuhr
	dark := true
	return Config{
		Method:     &method,
		TimeFormat: DefaultTimeFormat,
		DarkMode:   &dark,
		CriticalAt: &critical,
		Asr:        Asr{Mode: prayer.DhuhrEndsAtAsrAwwal},
		Ishraq:     Ishraq{Enabled: &enabled, AfterSunrise: &after, BeforeDhuhr: &before},
		MQTT:       MQTT{Topic: DefaultMQTTTopic},
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk.
// If the file does not exist, it returns an empty Config (not an error).
// If the file exists but is invalid TOML, it returns an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Config{}
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Validate applies the checks Set makes to every key that holds a value.
func (c *Config) Validate() error {
	var scratch Config
	for _, key := range ValidKeys {
		value, err := c.Get(key)
		if err != nil {
			return err
		}
		if value == "" {
			continue
		}
		if err := scratch.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// LoadDotEnv loads variables from a .env file into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// EnvVar returns the environment variable that overrides key,
// e.g. "asr.mode" -> "WAQT_ASR_MODE".
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// ApplyEnv overrides every key whose environment variable is set.
// lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, key := range ValidKeys {
		value, ok := lookup(EnvVar(key))
		if !ok {
			continue
		}
		if err := c.Set(key, value); err != nil {
			return fmt.Errorf("%s: %w", EnvVar(key), err)
		}
	}
	return nil
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "city":
		c.City = value
	case "country":
		c.Country = value
	case "latitude":
		v, err := parseFloat(key, value, -90, 90)
		if err != nil {
			return err
		}
		c.Latitude = v
	case "longitude":
		v, err := parseFloat(key, value, -180, 180)
		if err != nil {
			return err
		}
		c.Longitude = v
	case "location_name":
		c.LocationName = value
	case "method":
		v, err := parseInt(key, value, 0, 23)
		if err != nil {
			return err
		}
		c.Method = &v
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("%w: time_format %q must be \"12h\" or \"24h\"", ErrInvalidValue, value)
		}
		c.TimeFormat = value
	case "dark_mode":
		v, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.DarkMode = &v
	case "critical_at":
		v, err := parseInt(key, value, 0, 24*60)
		if err != nil {
			return err
		}
		c.CriticalAt = &v
	case "cache_dir":
		c.CacheDir = value
	case "listen":
		c.Listen = value
	case "asr.mode":
		m, err := prayer.ParseAsrMode(value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		c.Asr.Mode = m
	case "asr.show_both":
		v, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.Asr.ShowBoth = v
	case "ishraq.enabled":
		v, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.Ishraq.Enabled = &v
	case "ishraq.after_sunrise":
		v, err := parseInt(key, value, 0, 240)
		if err != nil {
			return err
		}
		c.Ishraq.AfterSunrise = &v
	case "ishraq.before_dhuhr":
		v, err := parseInt(key, value, 0, 240)
		if err != nil {
			return err
		}
		c.Ishraq.BeforeDhuhr = &v
	case "adjustments.fajr", "adjustments.sunrise", "adjustments.dhuhr",
		"adjustments.asr", "adjustments.maghrib", "adjustments.isha":
		v, err := parseInt(key, value, -180, 180)
		if err != nil {
			return err
		}
		*c.adjustment(key) = v
	case "mqtt.broker":
		c.MQTT.Broker = value
	case "mqtt.topic":
		c.MQTT.Topic = strings.TrimSuffix(value, "/")
	case "mqtt.client_id":
		c.MQTT.ClientID = value
	default:
		return fmt.Errorf("%w %q; valid keys: %s", ErrUnknownKey, key, strings.Join(ValidKeys, ", "))
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "city":
		return c.City, nil
	case "country":
		return c.Country, nil
	case "latitude":
		if c.Latitude == 0 {
			return "", nil
		}
		return strconv.FormatFloat(c.Latitude, 'f', -1, 64), nil
	case "longitude":
		if c.Longitude == 0 {
			return "", nil
		}
		return strconv.FormatFloat(c.Longitude, 'f', -1, 64), nil
	case "location_name":
		return c.LocationName, nil
	case "method":
		return formatIntPtr(c.Method), nil
	case "time_format":
		return c.TimeFormat, nil
	case "dark_mode":
		return formatBoolPtr(c.DarkMode), nil
	case "critical_at":
		return formatIntPtr(c.CriticalAt), nil
	case "cache_dir":
		return c.CacheDir, nil
	case "listen":
		return c.Listen, nil
	case "asr.mode":
		return c.Asr.Mode.String(), nil
	case "asr.show_both":
		return strconv.FormatBool(c.Asr.ShowBoth), nil
	case "ishraq.enabled":
		return formatBoolPtr(c.Ishraq.Enabled), nil
	case "ishraq.after_sunrise":
		return formatIntPtr(c.Ishraq.AfterSunrise), nil
	case "ishraq.before_dhuhr":
		return formatIntPtr(c.Ishraq.BeforeDhuhr), nil
	case "adjustments.fajr", "adjustments.sunrise", "adjustments.dhuhr",
		"adjustments.asr", "adjustments.maghrib", "adjustments.isha":
		return strconv.Itoa(*c.adjustment(key)), nil
	case "mqtt.broker":
		return c.MQTT.Broker, nil
	case "mqtt.topic":
		return c.MQTT.Topic, nil
	case "mqtt.client_id":
		return c.MQTT.ClientID, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
}

func (c *Config) adjustment(key string) *int {
	switch strings.TrimPrefix(key, "adjustments.") {
	case "fajr":
		return &c.Adjustments.Fajr
	case "sunrise":
		return &c.Adjustments.Sunrise
	case "dhuhr":
		return &c.Adjustments.Dhuhr
	case "asr":
		return &c.Adjustments.Asr
	case "maghrib":
		return &c.Adjustments.Maghrib
	default:
		return &c.Adjustments.Isha
	}
}

// MethodOrDefault returns the method value, falling back to the given default.
func (c *Config) MethodOrDefault(def int) int {
	if c.Method != nil {
		return *c.Method
	}
	return def
}

// CriticalAtOrDefault returns the urgency threshold in minutes.
func (c *Config) CriticalAtOrDefault() int {
	if c.CriticalAt != nil {
		return *c.CriticalAt
	}
	return DefaultCriticalAt
}

// DarkModeOrDefault reports whether the dark theme is selected.
func (c *Config) DarkModeOrDefault() bool {
	return c.DarkMode == nil || *c.DarkMode
}

// Engine converts the settings the period engine consumes.
func (c *Config) Engine() prayer.Config {
	cfg := prayer.Config{
		Asr:        prayer.AsrConfig{Mode: c.Asr.Mode, ShowBoth: c.Asr.ShowBoth},
		CriticalAt: c.CriticalAtOrDefault(),
		Adjustments: prayer.Adjustments{
			Fajr:    c.Adjustments.Fajr,
			Sunrise: c.Adjustments.Sunrise,
			Dhuhr:   c.Adjustments.Dhuhr,
			Asr:     c.Adjustments.Asr,
			Maghrib: c.Adjustments.Maghrib,
			Isha:    c.Adjustments.Isha,
		},
	}
	if c.Ishraq.Enabled == nil || *c.Ishraq.Enabled {
		w := prayer.IshraqWindow{AfterSunrise: DefaultAfterSunrise, BeforeDhuhr: DefaultBeforeDhuhr}
		if c.Ishraq.AfterSunrise != nil {
			w.AfterSunrise = *c.Ishraq.AfterSunrise
		}
		if c.Ishraq.BeforeDhuhr != nil {
			w.BeforeDhuhr = *c.Ishraq.BeforeDhuhr
		}
		cfg.Ishraq = &w
	}
	return cfg
}

func parseInt(key, value string, min, max int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q must be an integer", ErrInvalidValue, key, value)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%w: %s %q must be between %d and %d", ErrInvalidValue, key, value, min, max)
	}
	return v, nil
}

func parseFloat(key, value string, min, max float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q must be a number", ErrInvalidValue, key, value)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%w: %s %q must be between %g and %g", ErrInvalidValue, key, value, min, max)
	}
	return v, nil
}

func parseBool(key, value string) (bool, error) {
	v, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("%w: %s %q must be true or false", ErrInvalidValue, key, value)
	}
	return v, nil
}

func formatIntPtr(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func formatBoolPtr(p *bool) string {
	if p == nil {
		return ""
	}
	return strconv.FormatBool(*p)
}
