package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/waqt/internal/config"
	"github.com/smokyabdulrahman/waqt/internal/logging"
)

// Global flags shared across all subcommands.
var (
	FlagCity       string
	FlagCountry    string
	FlagLatitude   float64
	FlagLongitude  float64
	FlagMethod     int
	FlagJSON       bool
	FlagCacheDir   string
	FlagTimeFormat string
	FlagConfig     string

	verbosity int
	// shellVerbosity is the level chosen with the shell's log command.
	shellVerbosity int
)

// loadedConfig holds the config file with environment overrides applied,
// loaded during PersistentPreRunE.
var loadedConfig *config.Config

// configPath is the file loadedConfig was read from and `config set` writes to.
var configPath string

// NewRootCmd creates the root command for the waqt CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "waqt",
		Short: "Prayer periods, windows and countdowns",
		Long: "Shows which prayer period is current, the window of every prayer and\n" +
			"how long remains, using timings from the Al Adhan API.",
		Version:           version,
		PersistentPreRunE: loadConfig,
		// Default action: show today's schedule.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagCity, "city", "", "Override city (takes precedence over config)")
	pf.StringVar(&FlagCountry, "country", "", "Override country")
	pf.Float64Var(&FlagLatitude, "latitude", 0, "Override latitude")
	pf.Float64Var(&FlagLongitude, "longitude", 0, "Override longitude")
	pf.IntVar(&FlagMethod, "method", -1, "Override calculation method (0-23)")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/waqt/)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.StringVar(&FlagConfig, "config", "", "Config file (default: ~/.config/waqt/config.toml)")
	pf.CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v, -vv, -vvv)")

	rootCmd.AddCommand(
		newNextCmd(),
		newListCmd(),
		newWeekCmd(),
		newMonthCmd(),
		newWatchCmd(),
		newDaemonCmd(),
		newConfigCmd(),
		newMethodsCmd(),
		newShellCmd(),
	)

	return rootCmd
}

// loadConfig reads .env, the config file and WAQT_* variables, in that order.
func loadConfig(cmd *cobra.Command, args []string) error {
	logging.SetVerbosity(max(verbosity, shellVerbosity))

	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	path := FlagConfig
	if path == "" {
		var err error
		if path, err = config.Path(); err != nil {
			return err
		}
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}

	loadedConfig = cfg
	configPath = path
	return nil
}

// effectiveConfig returns the merged configuration values,
// applying the priority: CLI flags > environment > config file > defaults.
// It uses cobra's Changed() to detect whether a flag was explicitly set.
func effectiveConfig(cmd *cobra.Command) *config.Config {
	var cfg config.Config
	if loadedConfig != nil {
		cfg = *loadedConfig
	}
	defaults := config.Defaults()

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if flagWasSet(flags, root, "city") {
		cfg.City = FlagCity
	}
	if flagWasSet(flags, root, "country") {
		cfg.Country = FlagCountry
	}
	if flagWasSet(flags, root, "latitude") {
		cfg.Latitude = FlagLatitude
	}
	if flagWasSet(flags, root, "longitude") {
		cfg.Longitude = FlagLongitude
	}
	if flagWasSet(flags, root, "method") {
		method := FlagMethod
		cfg.Method = &method
	} else if cfg.Method == nil {
		cfg.Method = defaults.Method
	}
	if flagWasSet(flags, root, "cache-dir") {
		cfg.CacheDir = FlagCacheDir
	}

	// Time format: CLI flag > config > default ("24h").
	if flagWasSet(flags, root, "time-format") {
		cfg.TimeFormat = FlagTimeFormat
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = defaults.TimeFormat
	}
	if cfg.MQTT.Topic == "" {
		cfg.MQTT.Topic = defaults.MQTT.Topic
	}

	return &cfg
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}

// goTimeFormat maps the time_format setting to a Go layout.
func goTimeFormat(setting string) string {
	if setting == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}
