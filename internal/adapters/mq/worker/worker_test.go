package worker_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	queue "github.com/devakmmm/LeetInsight/internal/adapters/mq/queue"
	worker "github.com/devakmmm/LeetInsight/internal/adapters/mq/worker"
	model "github.com/devakmmm/LeetInsight/internal/domain/model"
	logging "github.com/devakmmm/LeetInsight/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logging.InitWriter(io.Discard, logging.FormatText); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// Mock implementations for testing.
type mockQueue struct {
	jobs chan queue.Job
	once sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan queue.Job, 10)}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan queue.Job {
	return mq.jobs
}

func (mq *mockQueue) Close() error {
	mq.once.Do(func() { close(mq.jobs) })
	return nil
}

func (mq *mockQueue) add(username string) {
	mq.jobs <- model.SnapshotJob{JobID: "job-" + username, RunID: "run-1", Username: username, Source: model.SourceScheduled}
}

type mockSnapshotter struct {
	mu     sync.Mutex
	done   map[string]int
	errors map[string]error
	delay  time.Duration
}

func newMockSnapshotter() *mockSnapshotter {
	return &mockSnapshotter{done: make(map[string]int), errors: make(map[string]error)}
}

func (ms *mockSnapshotter) Snapshot(ctx context.Context, username string) error {
	if ms.delay > 0 {
		select {
		case <-time.After(ms.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if err, ok := ms.errors[username]; ok {
		return err
	}
	ms.done[username]++
	return nil
}

func (ms *mockSnapshotter) setError(username string, err error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.errors[username] = err
}

func (ms *mockSnapshotter) count(username string) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.done[username]
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a running InMemoryWorker", t, func() {
		q := newMockQueue()
		snaps := newMockSnapshotter()
		w := worker.NewInMemoryWorker(q, snaps, worker.WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When a job arrives", func() {
			q.add("alice")
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then the user is snapshotted", func() {
				convey.So(snaps.count("alice"), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When a job fails", func() {
			snaps.setError("bob", errors.New("upstream down"))
			q.add("bob")
			q.add("carol")
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then the worker keeps going", func() {
				convey.So(snaps.count("bob"), convey.ShouldEqual, 0)
				convey.So(snaps.count("carol"), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer shutdownCancel()

			convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given a worker whose context is cancelled", t, func() {
		w := worker.NewInMemoryWorker(newMockQueue(), newMockSnapshotter())
		ctx, cancel := context.WithCancel(context.Background())
		go w.Run(ctx)
		cancel()

		convey.Convey("Then Run returns", func() {
			select {
			case <-w.Done():
				convey.So(true, convey.ShouldBeTrue)
			case <-time.After(time.Second):
				convey.So("worker still running", convey.ShouldBeEmpty)
			}
		})
	})

	convey.Convey("Given a slow job and a short job timeout", t, func() {
		q := newMockQueue()
		snaps := newMockSnapshotter()
		snaps.delay = time.Second
		w := worker.NewInMemoryWorker(q, snaps, worker.WithJobTimeout(10*time.Millisecond))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		q.add("slow")
		time.Sleep(100 * time.Millisecond)
		convey.So(snaps.count("slow"), convey.ShouldEqual, 0)
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a pool over a real queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		snaps := newMockSnapshotter()
		snaps.setError("user-3", errors.New("private profile"))
		pool := worker.NewPool(q, snaps, worker.WithWorkerCount(3))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)
		pool.Start(ctx)

		convey.Convey("When a batch is enqueued and the pool shuts down", func() {
			for i := 0; i < 10; i++ {
				err := q.Enqueue(ctx, model.SnapshotJob{JobID: fmt.Sprint(i), Username: fmt.Sprintf("user-%d", i)})
				convey.So(err, convey.ShouldBeNil)
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()
			convey.So(pool.Shutdown(shutdownCtx), convey.ShouldBeNil)

			convey.Convey("Then every job was drained and failures counted", func() {
				stats := pool.Stats()
				convey.So(stats.Workers, convey.ShouldEqual, 3)
				convey.So(stats.Processed, convey.ShouldEqual, int64(9))
				convey.So(stats.Failed, convey.ShouldEqual, int64(1))
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a pool that was never started", t, func() {
		q := newMockQueue()
		pool := worker.NewPool(q, worker.SnapshotFunc(func(context.Context, string) error { return nil }))

		convey.Convey("Then Shutdown returns immediately", func() {
			convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
			convey.So(pool.Stats().Workers, convey.ShouldEqual, 4)
		})
	})
}

func TestWorkerConcurrency(t *testing.T) {
	convey.Convey("Given many users across a pool", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(1000))
		snaps := newMockSnapshotter()
		pool := worker.NewPool(q, snaps, worker.WithWorkerCount(8))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		var wg sync.WaitGroup
		for p := 0; p < 4; p++ {
			wg.Add(1)
			go func(p int) {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					_ = q.Enqueue(ctx, model.SnapshotJob{Username: fmt.Sprintf("u%d-%d", p, i)})
				}
			}(p)
		}
		wg.Wait()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = pool.Shutdown(shutdownCtx)

		convey.So(pool.Stats().Processed, convey.ShouldEqual, int64(400))
	})
}
