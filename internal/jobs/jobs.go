// Package jobs runs scheduled maintenance tasks.
package jobs

import (
	"fmt"
	"sync"

	"cms-dashboard/internal/logger"

	"github.com/robfig/cron/v3"
)

// Job is a named task with a cron schedule.
type Job struct {
	Name     string
	Schedule string
	Func     func()
}

// Scheduler wraps a cron dispatcher. Panics in jobs are recovered.
type Scheduler struct {
	dispatcher *cron.Cron
	entries    map[string]cron.EntryID
	mu         sync.Mutex
	log        logger.Logger
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(log logger.Logger) *Scheduler {
	return &Scheduler{
		dispatcher: cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		entries:    make(map[string]cron.EntryID),
		log:        log,
	}
}

// Add registers job, replacing any job with the same name.
// An empty schedule disables the job.
func (s *Scheduler) Add(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[job.Name]; ok {
		s.dispatcher.Remove(id)
		delete(s.entries, job.Name)
	}
	if job.Schedule == "" {
		s.log.Info(fmt.Sprintf("job %s disabled", job.Name))
		return nil
	}

	id, err := s.dispatcher.AddFunc(job.Schedule, job.Func)
	if err != nil {
		return fmt.Errorf("failed to add job '%s': %w", job.Name, err)
	}
	s.entries[job.Name] = id
	return nil
}

// Len returns the number of scheduled jobs.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Start runs the dispatcher in its own goroutine.
func (s *Scheduler) Start() {
	s.dispatcher.Start()
}

// Stop stops the dispatcher and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.dispatcher.Stop()
	<-ctx.Done()
}

// Purger removes expired cache entries.
type Purger interface {
	PurgeExpired() (int64, error)
}

// CachePurgeJob returns the job that purges expired entries from c.
func CachePurgeJob(schedule string, c Purger, log logger.Logger) Job {
	return Job{
		Name:     "cache-purge",
		Schedule: schedule,
		Func: func() {
			n, err := c.PurgeExpired()
			if err != nil {
				log.Error(err, "cache purge failed")
				return
			}
			log.With(map[string]interface{}{"removed": n}).Debug("cache purged")
		},
	}
}
