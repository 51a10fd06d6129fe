// Package tracker keeps the live engine state for long-running consumers
// and drives them once a minute.
package tracker

import (
	"sync/atomic"
	"time"

	"github.com/smokyabdulrahman/waqt/internal/prayer"
	"github.com/smokyabdulrahman/waqt/internal/schedule"
)

// Snapshot is an immutable pairing of the engine and the day it was built
// from. Readers never observe a half-applied update.
type Snapshot struct {
	Engine *prayer.Engine
	Day    *schedule.Day
}

// Store publishes snapshots to concurrent readers.
type Store struct {
	cur atomic.Pointer[Snapshot]
}

// NewStore returns a store seeded with cfg and day.
func NewStore(cfg prayer.Config, day *schedule.Day) *Store {
	s := &Store{}
	s.cur.Store(&Snapshot{Engine: prayer.New(cfg, day.Times), Day: day})
	return s
}

// Load returns the current snapshot.
func (s *Store) Load() *Snapshot {
	return s.cur.Load()
}

// SetConfig replaces the engine configuration, keeping the schedule.
func (s *Store) SetConfig(cfg prayer.Config) {
	s.update(func(old *Snapshot) *Snapshot {
		return &Snapshot{Engine: old.Engine.WithConfig(cfg), Day: old.Day}
	})
}

// SetSchedule installs a new day, keeping the configuration.
func (s *Store) SetSchedule(day *schedule.Day) {
	s.update(func(old *Snapshot) *Snapshot {
		return &Snapshot{Engine: old.Engine.WithSchedule(day.Times), Day: day}
	})
}

func (s *Store) update(fn func(*Snapshot) *Snapshot) {
	for {
		old := s.cur.Load()
		if s.cur.CompareAndSwap(old, fn(old)) {
			return
		}
	}
}

// Status evaluates the current snapshot at now.
func (s *Store) Status(now time.Time) (prayer.Status, error) {
	return s.Load().Engine.Status(now)
}
