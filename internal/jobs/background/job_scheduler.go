package background

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"rentalhub/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

const (
	sweepJobName = "booking-completion-sweep"
	sweepTimeout = time.Minute
)

// BookingSweeper completes bookings whose stay has ended.
type BookingSweeper interface {
	CompleteEnded(ctx context.Context, now time.Time) (*repositories.SweepResult, error)
}

// JobScheduler runs the periodic background jobs
type JobScheduler struct {
	scheduler gocron.Scheduler
	sweeper   BookingSweeper
	now       func() time.Time
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a scheduler that sweeps ended bookings every
// interval. The first sweep runs as soon as the scheduler starts.
func NewJobScheduler(sweeper BookingSweeper, interval time.Duration) (*JobScheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive, got %s", interval)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		sweeper:   sweeper,
		now:       time.Now,
		jobs:      make(map[string]gocron.Job),
	}

	job, err := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(js.RunSweep, context.Background()),
		gocron.WithName(sweepJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("failed to create sweep job: %w", err)
	}
	js.jobs[sweepJobName] = job

	log.Printf("Registered %d background jobs", len(js.jobs))
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// RunSweep completes every confirmed booking that has ended and releases
// idle properties.
func (js *JobScheduler) RunSweep(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	result, err := js.sweeper.CompleteEnded(ctx, js.now().UTC())
	if err != nil {
		log.Printf("ERROR: booking completion sweep failed: %v", err)
		return err
	}
	log.Printf("Booking completion sweep finished: completed=%d released=%d",
		len(result.Completed), len(result.Released))
	return nil
}

// JobNames lists the registered jobs.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}
