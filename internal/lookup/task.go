package lookup

import (
	"context"
	"sync"
	"time"
)

// Task is the handle of one lookup invocation
type Task struct {
	ID    int
	Mode  Mode
	Query string

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu          sync.RWMutex
	status      Status
	err         error
	startedAt   time.Time
	completedAt time.Time
	cached      bool
}

func newTask(parent context.Context, id int, mode Mode, query string) *Task {
	ctx, cancel := context.WithCancel(parent)
	return &Task{
		ID:        id,
		Mode:      mode,
		Query:     query,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		status:    StatusPending,
		startedAt: time.Now(),
	}
}

// Status returns the current state of the task
func (t *Task) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// Err returns the error that made the task fail, if any. Errors are also
// rendered into the buffer.
func (t *Task) Err() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err
}

// Cached reports whether the result was replayed from the result cache
func (t *Task) Cached() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cached
}

// Duration returns how long the task ran, or has been running so far
func (t *Task) Duration() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.completedAt.IsZero() {
		return time.Since(t.startedAt)
	}
	return t.completedAt.Sub(t.startedAt)
}

// Cancel stops the task. Pending buffer updates of a cancelled task are
// dropped.
func (t *Task) Cancel() {
	t.cancel()
}

// Done returns a channel that is closed once the task has finished
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task has finished and returns its final status
func (t *Task) Wait() Status {
	<-t.done
	return t.Status()
}

func (t *Task) cancelled() bool {
	return t.ctx.Err() != nil
}

func (t *Task) setStatus(s Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.Done() {
		return
	}
	t.status = s
}

func (t *Task) fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.Done() {
		return
	}
	t.status = StatusFailed
	t.err = err
}

// finish records the terminal state and releases waiters
func (t *Task) finish() {
	t.mu.Lock()
	if !t.status.Done() {
		if t.ctx.Err() != nil {
			t.status = StatusCancelled
		} else {
			t.status = StatusCompleted
		}
	}
	t.completedAt = time.Now()
	t.mu.Unlock()

	t.cancel()
	close(t.done)
}
