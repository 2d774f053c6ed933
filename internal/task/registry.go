package task

import (
	"fmt"
	"sync"

	"github.com/codyd51/axle-sub000/internal/clock"
	"github.com/codyd51/axle-sub000/log"
)

// Registry owns every live and zombie TCB and is the sole mutator of task
// status (spec.md §3, §4.2). A kernel.CPU never edits Task fields directly
// outside of Registry methods.
type Registry struct {
	mu     sync.Mutex
	clock  clock.Clock
	nextID int64
	tasks  map[int64]*Task
}

// NewRegistry returns an empty Registry reading time from c.
func NewRegistry(c clock.Clock) *Registry {
	return &Registry{clock: c, tasks: map[int64]*Task{}}
}

// Get returns the task by id, or nil if unknown.
func (r *Registry) Get(id int64) *Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tasks[id]
}

// All returns a snapshot slice of every registered task (alive or zombie).
func (r *Registry) All() []*Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t)
	}
	return out
}

// TaskSpawn creates a new task owning a fresh address space cloned from
// parentVAS, or a brand new one if parentVAS is nil (spec.md §4.2: the first
// ramdisk task has no parent). The new task starts in its home queue (0) at
// full TTL; the caller (scheduler) is responsible for AddTaskToQueue.
func (r *Registry) TaskSpawn(name string, parentVAS VAS, quantumMs int64) (*Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var vas VAS
	var err error
	if parentVAS != nil {
		vas, err = parentVAS.Clone()
	} else {
		vas = NewMemVAS()
	}
	if err != nil {
		return nil, fmt.Errorf("task: spawn %q: %w", name, err)
	}

	r.nextID++
	t := &Task{
		ID:           r.nextID,
		Name:         name,
		Blocked:      BlockedInfo{Status: StatusRunnable},
		QueueIndex:   0,
		TTLRemaining: quantumMs,
		AddressSpace: vas,
		KernelStack:  make([]byte, 0, kernelStackBytes),
	}
	r.tasks[t.ID] = t
	log.With("task_id", t.ID, "name", name).Debug("task spawned")
	return t, nil
}

// ThreadSpawn creates a thread sharing sharedVAS rather than cloning it
// (spec.md §3, §4.2: "threads spawned into an existing address space").
func (r *Registry) ThreadSpawn(name string, sharedVAS VAS, quantumMs int64) (*Task, error) {
	if sharedVAS == nil {
		return nil, fmt.Errorf("task: thread_spawn %q requires a shared address space", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t := &Task{
		ID:           r.nextID,
		Name:         name,
		Blocked:      BlockedInfo{Status: StatusRunnable},
		QueueIndex:   0,
		TTLRemaining: quantumMs,
		IsThread:     true,
		AddressSpace: sharedVAS,
		KernelStack:  make([]byte, 0, kernelStackBytes),
	}
	r.tasks[t.ID] = t
	log.With("task_id", t.ID, "name", name).Debug("thread spawned")
	return t, nil
}

// kernelStackBytes is the per-task kernel stack reservation (spec.md §3).
const kernelStackBytes = 16 * 1024

// Block transitions t to BLOCKED with the given reason and optional wake
// timestamp (nil means "blocked until an explicit unblock").
func (r *Registry) Block(t *Task, reason BlockReason, wakeAtMs *int64) error {
	next, err := ApplyTransition(t.Blocked.Status, EventBlock)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t.Blocked.Status = next
	t.Blocked.Reason = reason
	t.Blocked.WakeAtMs = wakeAtMs
	return nil
}

// Unblock transitions t back to RUNNABLE, recording why.
func (r *Registry) Unblock(t *Task, reason UnblockReason) error {
	next, err := ApplyTransition(t.Blocked.Status, EventUnblock)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t.Blocked.Status = next
	t.Blocked.Reason = BlockReasonNone
	t.Blocked.WakeAtMs = nil
	t.Blocked.LastUnblockReason = reason
	return nil
}

// DueToWake reports tasks currently blocked with a wake timestamp at or
// before nowMs, for the scheduler's sleep-timeout sweep (spec.md §4.2).
func (r *Registry) DueToWake(nowMs int64) []*Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []*Task
	for _, t := range r.tasks {
		if t.Blocked.Status == StatusBlocked && t.Blocked.WakeAtMs != nil && *t.Blocked.WakeAtMs <= nowMs {
			due = append(due, t)
		}
	}
	return due
}

// ReaperSend enqueues a task's TCB pointer to the reaper. Die calls this
// before marking the task a zombie, preserving the sender-sequence
// constraint spec.md §4.4 requires: a task must never become a zombie
// without its cleanup having already been handed off, so a preemption
// between the two steps still leaves the reaper able to find it.
type ReaperSend func(t *Task) error

// Die runs spec.md §4.4's task-death sequence: notify the supervisor (if
// any), hand the TCB to the reaper, and only on success mark the task a
// zombie. If reaperSend fails the task is left alive so the caller can retry.
func (r *Registry) Die(t *Task, exitCode int, reaperSend ReaperSend, notifySupervisor func(supervisor string, t *Task)) error {
	t.ExitCode = exitCode
	if t.ManagedBy != nil && notifySupervisor != nil {
		notifySupervisor(*t.ManagedBy, t)
	}
	if err := reaperSend(t); err != nil {
		return fmt.Errorf("task: die %q: reaper handoff failed, task stays alive: %w", t.Name, err)
	}

	next, err := ApplyTransition(t.Blocked.Status, EventDie)
	if err != nil {
		return err
	}
	r.mu.Lock()
	t.Blocked.Status = next
	r.mu.Unlock()
	log.With("task_id", t.ID, "name", t.Name, "exit_code", exitCode).Debug("task zombified")
	return nil
}

// Reap tears down a zombified task's resources and removes it from the
// registry. Returns an error on a double-reap (spec.md's supplemented
// double-free guard), rather than silently succeeding.
func (r *Registry) Reap(id int64) error {
	r.mu.Lock()
	t, ok := r.tasks[id]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("task: reap: no such task %d (already reaped?)", id)
	}
	if t.Blocked.Status != StatusZombie {
		r.mu.Unlock()
		return fmt.Errorf("task: reap: task %d is not a zombie (status=%s)", id, t.Blocked.Status)
	}
	delete(r.tasks, id)
	r.mu.Unlock()

	if !t.IsThread && t.AddressSpace != nil {
		if err := t.AddressSpace.Teardown(); err != nil {
			return fmt.Errorf("task: reap %d: %w", id, err)
		}
	}
	log.With("task_id", id, "name", t.Name).Debug("task reaped")
	return nil
}
