package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler reloads the datasets on a fixed interval. Remote sources cannot be
// watched, so this is how they pick up upstream changes.
type Scheduler struct {
	loader   *Loader
	interval time.Duration
	timeout  time.Duration
}

func NewScheduler(loader *Loader, interval time.Duration) *Scheduler {
	return &Scheduler{
		loader:   loader,
		interval: interval,
		timeout:  5 * time.Minute,
	}
}

// Spec returns the cron expression used for the reload job.
func (s *Scheduler) Spec() string {
	return fmt.Sprintf("@every %s", s.interval)
}

// Run blocks until ctx is cancelled, reloading on every tick.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(s.Spec(), func() { s.reload(ctx) }); err != nil {
		return fmt.Errorf("schedule reload: %w", err)
	}
	log.Printf("scheduler: reloading datasets %s", s.Spec())
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func (s *Scheduler) reload(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()
	if _, err := s.loader.Load(ctx); err != nil {
		log.Printf("scheduler: reload: %v", err)
	}
}
