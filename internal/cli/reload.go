package cli

import (
	"os"

	"github.com/smokyabdulrahman/waqt/internal/config"
	"github.com/smokyabdulrahman/waqt/internal/prayer"
	"github.com/smokyabdulrahman/waqt/internal/tracker"
)

// engineSource feeds edits of the config file to the tracker. Only the
// engine settings are reloaded; location and method need a restart.
type engineSource struct {
	watcher *config.Watcher
}

var _ tracker.ConfigSource = engineSource{}

// newEngineSource follows the config file this invocation loaded.
func newEngineSource() engineSource {
	return engineSource{watcher: config.NewWatcher(configPath, func(c *config.Config) error {
		return c.ApplyEnv(os.LookupEnv)
	})}
}

func (s engineSource) Changed(force bool) (prayer.Config, bool, error) {
	cfg, changed, err := s.watcher.Reload(force)
	if err != nil || !changed {
		return prayer.Config{}, false, err
	}
	return cfg.Engine(), true, nil
}
