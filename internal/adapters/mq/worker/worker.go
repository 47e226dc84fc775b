// Package worker executes snapshot jobs pulled off the queue.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/devakmmm/LeetInsight/internal/adapters/mq/queue"
	"github.com/devakmmm/LeetInsight/internal/domain/model"
	"github.com/devakmmm/LeetInsight/pkg/logger"
	"github.com/devakmmm/LeetInsight/pkg/metrics"
)

const (
	defaultWorkerCount = 4
	defaultJobTimeout  = 30 * time.Second
)

// Job is what workers read off the queue.
type Job = model.SnapshotJob

// Snapshotter captures a snapshot of one user.
type Snapshotter interface {
	Snapshot(ctx context.Context, username string) error
}

// SnapshotFunc adapts a function to Snapshotter.
type SnapshotFunc func(ctx context.Context, username string) error

// Snapshot calls f.
func (f SnapshotFunc) Snapshot(ctx context.Context, username string) error { return f(ctx, username) }

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes snapshot jobs.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue drains.
	Run(ctx context.Context)

	// Shutdown stops the worker without waiting for the queue to drain.
	Shutdown(ctx context.Context) error
}

// counters is shared by the workers of a pool.
type counters struct {
	processed atomic.Int64
	failed    atomic.Int64
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue      Queue
	snapshots  Snapshotter
	name       string
	jobTimeout time.Duration
	counters   *counters

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker.
func NewInMemoryWorker(q Queue, s Snapshotter, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      q,
		snapshots:  s,
		name:       "worker",
		jobTimeout: defaultJobTimeout,
		counters:   &counters{},
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			// per-user failures are logged and counted; the batch moves on
			_ = w.process(ctx, job)
		}
	}
}

// Shutdown stops the worker loop after the job in progress.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) process(ctx context.Context, job Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	if err := w.snapshots.Snapshot(jobCtx, job.Username); err != nil {
		w.counters.failed.Add(1)
		metrics.RecordWorkerError()
		metrics.RecordSnapshotFailure(job.Source)
		metrics.RecordErrorByComponent("worker", "snapshot_error")
		w.logger.Warn(ctx, "snapshot job failed",
			logger.String("job_id", job.JobID),
			logger.String("run_id", job.RunID),
			logger.String("username", job.Username),
			logger.Error(err),
		)
		return fmt.Errorf("snapshot job %s: %w", job.JobID, err)
	}

	w.counters.processed.Add(1)
	w.logger.Debug(ctx, "snapshot job done",
		logger.String("job_id", job.JobID),
		logger.String("username", job.Username),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

// Stats are the pool's lifetime job counters.
type Stats struct {
	Workers   int   `json:"workers"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

// Pool manages multiple workers.
type Pool struct {
	count      int
	workers    []*InMemoryWorker
	workerOpts []Option
	queue      Queue
	counters   *counters
	started    atomic.Bool

	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(q Queue, s Snapshotter, opts ...PoolOption) *Pool {
	p := &Pool{
		count:    defaultWorkerCount,
		queue:    q,
		counters: &counters{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("worker-pool")
	}

	p.workers = make([]*InMemoryWorker, p.count)
	for i := range p.workers {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, p.workerOpts...)
		w := NewInMemoryWorker(q, s, wopts...)
		w.counters = p.counters
		p.workers[i] = w
	}

	metrics.UpdateWorkerCount(p.count)
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", p.count))
}

// Stats returns the pool's job counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:   p.count,
		Processed: p.counters.processed.Load(),
		Failed:    p.counters.failed.Load(),
	}
}

// Shutdown closes the queue and lets the workers drain it. Workers still busy
// when ctx is done are told to stop after their current job.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	if !p.started.Load() {
		return nil
	}

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker drain timed out", logger.Int("worker_id", i))
			stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			_ = w.Shutdown(stopCtx)
			cancel()
		}
	}

	metrics.UpdateWorkerCount(0)
	p.logger.Info(ctx, "worker pool stopped", logger.Int64("processed", p.counters.processed.Load()))
	return nil
}

var _ Queue = (*queue.InMemoryQueue)(nil)
