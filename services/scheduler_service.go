// backend/services/scheduler_service.go
package services

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler owns the cron runner that fires unattended crawl passes.
// Callers hold the returned handle and stop it on shutdown; nothing
// else in the process touches the runner.
type Scheduler struct {
	cron  *cron.Cron
	entry cron.EntryID
}

// StartScheduler registers a full crawl pass under the given cron spec
// and starts the runner. A bad spec returns an error and no scheduler;
// the service keeps running with manual triggers only.
func StartScheduler(crawl *CrawlService, spec string) (*Scheduler, error) {
	runner := cron.New()
	entry, err := runner.AddFunc(spec, func() {
		log.Println("Service: Scheduled crawl starting")
		names, err := ResolveScope("all")
		if err != nil {
			log.Printf("ERROR Service: Scheduled crawl aborted: %v", err)
			return
		}
		crawl.Run(names)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	runner.Start()
	log.Printf("Service: Scheduler started with spec %q\n", spec)
	return &Scheduler{cron: runner, entry: entry}, nil
}

// Stop halts the runner. Jobs already in flight finish on their own.
func (s *Scheduler) Stop() {
	if s == nil {
		return
	}
	s.cron.Stop()
	log.Println("Service: Scheduler stopped")
}

// NextRun reports when the next unattended pass fires, or nil when the
// scheduler is absent.
func (s *Scheduler) NextRun() *time.Time {
	if s == nil {
		return nil
	}
	next := s.cron.Entry(s.entry).Next
	if next.IsZero() {
		return nil
	}
	return &next
}
