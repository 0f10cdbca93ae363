package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler re-runs the chart pipeline on a cron schedule (watch mode).
type Scheduler struct {
	Cron *cron.Cron
}

// NewScheduler creates a new Scheduler with seconds-precision cron specs.
func NewScheduler() *Scheduler {
	return &Scheduler{Cron: cron.New(cron.WithSeconds())}
}

// Register adds the pipeline job under the given cron spec.
func (s *Scheduler) Register(spec string, job func()) error {
	if _, err := s.Cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}
