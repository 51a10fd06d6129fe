package tracker

import "github.com/smokyabdulrahman/waqt/internal/prayer"

// ConfigSource yields engine settings that changed since the last call.
// With force set it rereads them even when nothing appears to have changed.
type ConfigSource interface {
	Changed(force bool) (cfg prayer.Config, changed bool, err error)
}

// ApplyConfig installs the settings src reports as changed. On error the
// store keeps its current configuration.
func ApplyConfig(store *Store, src ConfigSource, force bool) (bool, error) {
	cfg, changed, err := src.Changed(force)
	if err != nil || !changed {
		return false, err
	}
	store.SetConfig(cfg)
	return true, nil
}
