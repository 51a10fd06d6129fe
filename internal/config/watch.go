package config

import (
	"os"
	"time"
)

// Watcher rereads a config file when its modification time or size
// changes, so long-running commands pick up `config set`.
type Watcher struct {
	path  string
	apply func(*Config) error

	modTime time.Time
	size    int64
	exists  bool
}

// NewWatcher returns a watcher over path whose current state counts as
// already read. apply, if non-nil, layers overrides such as the
// environment onto every reread.
func NewWatcher(path string, apply func(*Config) error) *Watcher {
	w := &Watcher{path: path, apply: apply}
	w.modTime, w.size, w.exists = w.stat()
	return w
}

func (w *Watcher) stat() (time.Time, int64, bool) {
	info, err := os.Stat(w.path)
	if err != nil {
		return time.Time{}, 0, false
	}
	return info.ModTime(), info.Size(), true
}

// Reload returns the config when the file changed since the last call, or
// unconditionally when force is set. A removed file reads as empty.
// A file that fails to load is reported once, not on every call.
func (w *Watcher) Reload(force bool) (*Config, bool, error) {
	modTime, size, exists := w.stat()
	if !force && modTime.Equal(w.modTime) && size == w.size && exists == w.exists {
		return nil, false, nil
	}
	w.modTime, w.size, w.exists = modTime, size, exists

	cfg, err := LoadFrom(w.path)
	if err != nil {
		return nil, false, err
	}
	if w.apply != nil {
		if err := w.apply(cfg); err != nil {
			return nil, false, err
		}
	}
	return cfg, true, nil
}
