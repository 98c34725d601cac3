// Package shutdownqueue collects cleanup tasks during startup and drains
// them in LIFO order at the end of main.
//
// Register with Add wherever a resource is opened, then drain once:
//
//	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
//	defer cancel()
//	err := shutdownqueue.Shutdown(ctx)
//
// Shutdown is idempotent, recovers panicking tasks, and aggregates task
// errors with errors.Join.
package shutdownqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Task is a cleanup function. It should honor ctx and return an error if it
// cannot finish in time.
type Task func(ctx context.Context) error

// Queue is a LIFO list of shutdown tasks safe for concurrent use.
type Queue struct {
	mu     sync.Mutex
	tasks  []Task
	closed bool
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Add registers a task. Nil tasks and tasks added after Shutdown started are
// ignored.
func (q *Queue) Add(t Task) {
	if t == nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.tasks = append(q.tasks, t)
}

// Shutdown drains the queue in reverse registration order. It stops early if
// ctx expires; the context error and any task errors are joined. Subsequent
// calls are no-ops.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()

		return nil
	}

	q.closed = true
	tasks := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	var errs []error

	for i := len(tasks) - 1; i >= 0; i-- {
		select {
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("shutdown canceled: %w", ctx.Err()))

			return errors.Join(errs...)
		default:
		}

		err := runTask(ctx, tasks[i])
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func runTask(ctx context.Context, t Task) (err error) {
	defer func() {
		r := recover()
		if r != nil {
			err = fmt.Errorf("panic in shutdown task: %v", r)
		}
	}()

	return t(ctx)
}

// Default process-wide queue, for the common single-binary case.
var defaultQueue = NewQueue()

// Add registers a task on the default queue.
func Add(t Task) {
	defaultQueue.Add(t)
}

// Shutdown drains the default queue.
func Shutdown(ctx context.Context) error {
	return defaultQueue.Shutdown(ctx)
}
