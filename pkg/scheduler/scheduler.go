package scheduler

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// TaskTable holds one-shot deferred tasks keyed by an owner-chosen ID.
// A task fires at most once; cancelling removes it from the table before
// it runs. Tasks live only for the lifetime of the process and are never
// persisted.
type TaskTable struct {
	logger *zap.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// NewTaskTable builds an empty task table.
func NewTaskTable(logger *zap.Logger) *TaskTable {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskTable{
		logger: logger,
		timers: make(map[string]*time.Timer),
	}
}

// Schedule registers fn to run after delay under the given ID. Scheduling
// with an ID that is already present replaces the pending task.
func (t *TaskTable) Schedule(id string, delay time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	if existing, ok := t.timers[id]; ok {
		existing.Stop()
	}
	t.timers[id] = time.AfterFunc(delay, func() {
		t.remove(id)
		fn()
	})
	t.logger.Debug("task scheduled", zap.String("task_id", id), zap.Duration("delay", delay))
}

// Cancel removes a pending task. It reports whether a task was actually
// pending; a task that has already fired cannot be cancelled.
func (t *TaskTable) Cancel(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	timer, ok := t.timers[id]
	if !ok {
		return false
	}
	delete(t.timers, id)
	stopped := timer.Stop()
	t.logger.Debug("task cancelled", zap.String("task_id", id), zap.Bool("stopped", stopped))
	return stopped
}

// Pending reports whether a task is still registered under the ID.
func (t *TaskTable) Pending(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.timers[id]
	return ok
}

// Close cancels every pending task and rejects further scheduling.
func (t *TaskTable) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
}

func (t *TaskTable) remove(id string) {
	t.mu.Lock()
	delete(t.timers, id)
	t.mu.Unlock()
}
