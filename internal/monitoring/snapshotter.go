// Package monitoring runs the background maintenance loops.
package monitoring

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/SydAsim/Visaguardai-Upwork/internal/store"
)

// Snapshotter periodically writes a copy of the user collection to disk so a
// corrupted or lost database can be restored by hand.
type Snapshotter struct {
	store     *store.UserStore
	dir       string
	schedule  cron.Schedule
	retention int
	nextRun   time.Time
	ticker    *time.Ticker
	done      chan bool
}

// NewSnapshotter creates a Snapshotter firing on the given cron expression,
// keeping at most retention snapshot files.
func NewSnapshotter(s *store.UserStore, dir, cronExpr string, retention int) (*Snapshotter, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", cronExpr, err)
	}
	return &Snapshotter{
		store:     s,
		dir:       dir,
		schedule:  schedule,
		retention: retention,
		nextRun:   schedule.Next(time.Now()),
		done:      make(chan bool),
	}, nil
}

// Run starts the snapshot loop.
func (s *Snapshotter) Run() {
	log.Info().Str("dir", s.dir).Msg("Starting background snapshotter...")
	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping background snapshotter.")
			return
		case <-s.ticker.C:
			now := time.Now()
			if now.After(s.nextRun) {
				if err := s.snapshot(now); err != nil {
					log.Error().Err(err).Msg("Snapshotter: failed to write snapshot")
				}
				s.nextRun = s.schedule.Next(now)
			}
		}
	}
}

// Stop halts the snapshot loop.
func (s *Snapshotter) Stop() {
	s.done <- true
}

// snapshot writes the current collection to a timestamped file and prunes
// files past the retention count.
func (s *Snapshotter) snapshot(now time.Time) error {
	users, err := s.store.ListUsers()
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}

	name := fmt.Sprintf("users-%s.json", now.UTC().Format("20060102T150405"))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("users", len(users)).Msg("Snapshot written")

	return s.prune()
}

// prune deletes the oldest snapshot files beyond the retention count. The
// timestamped names sort chronologically.
func (s *Snapshotter) prune() error {
	matches, err := filepath.Glob(filepath.Join(s.dir, "users-*.json"))
	if err != nil {
		return err
	}
	if s.retention <= 0 || len(matches) <= s.retention {
		return nil
	}

	sort.Strings(matches)
	for _, stale := range matches[:len(matches)-s.retention] {
		if err := os.Remove(stale); err != nil {
			log.Warn().Err(err).Str("path", stale).Msg("Snapshotter: could not prune snapshot")
		}
	}
	return nil
}
