package config

import (
	"errors"
	"os"
	"testing"
	"time"
)

func writeConfig(t *testing.T, path, raw string, mod time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func TestWatcher_Reload(t *testing.T) {
	path := tempConfigPath(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	writeConfig(t, path, "critical_at = 15\n", base)

	w := NewWatcher(path, nil)
	if _, changed, err := w.Reload(false); changed || err != nil {
		t.Fatalf("unchanged file: changed=%v err=%v", changed, err)
	}

	writeConfig(t, path, "critical_at = 30\n[asr]\nmode = \"c\"\n", base.Add(time.Second))
	cfg, changed, err := w.Reload(false)
	if err != nil || !changed {
		t.Fatalf("edited file: changed=%v err=%v", changed, err)
	}
	if cfg.Engine().CriticalAt != 30 || cfg.Asr.Mode.String() != "asr-starts-at-asr-thaani" {
		t.Errorf("reloaded config = %+v", cfg)
	}

	if _, changed, _ := w.Reload(false); changed {
		t.Error("second check without an edit reported a change")
	}
	if _, changed, _ := w.Reload(true); !changed {
		t.Error("forced reload must always report a change")
	}
}

func TestWatcher_InvalidFileReportedOnce(t *testing.T) {
	path := tempConfigPath(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	writeConfig(t, path, "critical_at = 15\n", base)
	w := NewWatcher(path, nil)

	writeConfig(t, path, "critical_at = -5\n", base.Add(time.Second))
	if _, _, err := w.Reload(false); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("Reload error = %v, want ErrInvalidValue", err)
	}
	if _, changed, err := w.Reload(false); changed || err != nil {
		t.Errorf("repeat check: changed=%v err=%v, want neither", changed, err)
	}
}

func TestWatcher_AppliesOverridesAndRemoval(t *testing.T) {
	path := tempConfigPath(t)
	writeConfig(t, path, "critical_at = 30\n", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	env := map[string]string{"WAQT_ASR_MODE": "b"}
	w := NewWatcher(path, func(c *Config) error {
		return c.ApplyEnv(func(k string) (string, bool) { v, ok := env[k]; return v, ok })
	})

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	cfg, changed, err := w.Reload(false)
	if err != nil || !changed {
		t.Fatalf("removed file: changed=%v err=%v", changed, err)
	}
	if cfg.CriticalAt != nil {
		t.Errorf("removed file should read as empty, got critical_at %d", *cfg.CriticalAt)
	}
	if cfg.Asr.Mode.String() != "dhuhr-ends-at-asr-thaani" {
		t.Errorf("Asr.Mode = %s, want the environment override", cfg.Asr.Mode)
	}
}
