// Package scheduler plays scenes on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/callebjorkell/tardis-lights/internal/config"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Entry is a registered schedule and when it fires next.
type Entry struct {
	Cron  string    `json:"cron"`
	Scene string    `json:"scene"`
	Next  time.Time `json:"next"`
}

type Scheduler struct {
	cron  *cron.Cron
	store map[cron.EntryID]config.Schedule
}

// New registers every schedule. Schedules with a bad cron expression or naming a scene for which known returns
// false are rejected. play is called from the cron goroutine and should not block.
func New(schedules []config.Schedule, known func(scene string) bool, play func(scene string)) (*Scheduler, error) {
	s := &Scheduler{
		cron:  cron.New(cron.WithLogger(cron.PrintfLogger(log.StandardLogger()))),
		store: make(map[cron.EntryID]config.Schedule),
	}

	for _, sch := range schedules {
		if !known(sch.Scene) {
			return nil, fmt.Errorf("schedule %q refers to unknown scene %q", sch.Cron, sch.Scene)
		}

		scene := sch.Scene
		id, err := s.cron.AddFunc(sch.Cron, func() {
			log.Infof("Schedule triggered scene %q", scene)
			play(scene)
		})
		if err != nil {
			return nil, fmt.Errorf("invalid schedule %q: %w", sch.Cron, err)
		}
		s.store[id] = sch
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Infof("Scheduler started with %d schedules", len(s.store))
}

// Stop halts the scheduler. The returned context is done once running jobs have returned.
func (s *Scheduler) Stop() context.Context {
	log.Info("Scheduler stopped")
	return s.cron.Stop()
}

func (s *Scheduler) Entries() []Entry {
	entries := make([]Entry, 0, len(s.store))
	for _, e := range s.cron.Entries() {
		sch := s.store[e.ID]
		entries = append(entries, Entry{Cron: sch.Cron, Scene: sch.Scene, Next: e.Next})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Cron < entries[j].Cron
	})
	return entries
}
