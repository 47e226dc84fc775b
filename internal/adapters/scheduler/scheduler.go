// Package scheduler triggers recurring jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/devakmmm/LeetInsight/pkg/logger"
	"github.com/devakmmm/LeetInsight/pkg/metrics"
)

const stopTimeout = 30 * time.Second

// JobFunc is run on every tick.
type JobFunc func(ctx context.Context) error

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLocation sets the time zone the schedule is evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// Scheduler runs named jobs on standard five-field cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	loc    *time.Location
	logger logger.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	entries map[string]cron.EntryID
}

// New creates a Scheduler. Jobs do not run until Start.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		loc:     time.Local,
		entries: make(map[string]cron.EntryID),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("scheduler")
	}
	s.cron = cron.New(cron.WithLocation(s.loc))
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Add registers fn under name on spec. An empty spec disables the job.
func (s *Scheduler) Add(name, spec string, fn JobFunc) error {
	if spec == "" {
		s.logger.Info(context.Background(), "job disabled", logger.String("job", name))
		return nil
	}
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("%w: %s %q: %v", ErrInvalidSpec, name, spec, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.cron.Schedule(sched, cron.FuncJob(func() { s.run(name, fn) }))
	s.entries[name] = id
	return nil
}

// RunNow runs the named job immediately on the caller's goroutine.
func (s *Scheduler) RunNow(ctx context.Context, name string, fn JobFunc) error {
	return s.invoke(ctx, name, fn)
}

// Next returns the next activation of the named job.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(id).Next, true
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info(s.ctx, "scheduler started", logger.Int("jobs", len(s.entries)))
}

// Stop halts the schedule, cancels running jobs and waits for them to return.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	stopped := s.cron.Stop()

	ctx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()
	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

func (s *Scheduler) run(name string, fn JobFunc) {
	_ = s.invoke(s.ctx, name, fn)
}

func (s *Scheduler) invoke(ctx context.Context, name string, fn JobFunc) error {
	start := time.Now()
	metrics.RecordSchedulerRun(start.Unix())
	s.logger.Info(ctx, "job started", logger.String("job", name))

	if err := fn(ctx); err != nil {
		metrics.RecordErrorByComponent("scheduler", name)
		s.logger.Error(ctx, "job failed", logger.String("job", name), logger.Error(err))
		return fmt.Errorf("job %s: %w", name, err)
	}
	s.logger.Info(ctx, "job finished", logger.String("job", name), logger.Duration("took", time.Since(start)))
	return nil
}
