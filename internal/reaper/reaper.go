// Package reaper implements spec.md §4.4's dedicated cleanup task: it
// registers the well-known service com.axle.reaper, consumes zombie TCB
// handoffs, and tears down each task's resources exactly once.
package reaper

import (
	"context"
	"fmt"

	"github.com/codyd51/axle-sub000/internal/amc"
	"github.com/codyd51/axle-sub000/internal/task"
	"github.com/codyd51/axle-sub000/log"
)

// ServiceName is the reaper's well-known AMC service address.
const ServiceName = "com.axle.reaper"

// handoffQueueDepth bounds how many zombie handoffs may be in flight before
// Registry.Die's sender starts seeing backpressure.
const handoffQueueDepth = 256

// Handoff is a same-process zombie-task-id handoff. It never leaves this
// process's memory, so it bypasses AMC's wire-shaped byte-slice payloads
// (spec.md §4.4: the reaper receives a TCB pointer, not a serialized
// message) even though the reaper is itself a registered AMC service for
// everything else it might be asked about.
type Handoff struct {
	TaskID int64
}

// Reaper drains zombie-task handoffs and reaps them via registry. A task
// is only ever reaped once: Registry.Reap itself errors on a repeat id,
// which Run logs rather than treats as fatal, since a duplicate handoff is
// a caller bug, not a condition the kernel must halt for.
type Reaper struct {
	dir      *amc.Directory
	registry *task.Registry
	handoffs chan Handoff
}

// New registers the reaper service against dir (so other services can
// discover it and so its death, if it ever occurs, is observable the same
// way any other service's is) and returns a Reaper ready for Run.
func New(dir *amc.Directory, registry *task.Registry) (*Reaper, error) {
	if _, err := dir.Register(ServiceName); err != nil {
		return nil, fmt.Errorf("reaper: %w", err)
	}
	return &Reaper{dir: dir, registry: registry, handoffs: make(chan Handoff, handoffQueueDepth)}, nil
}

// SendFunc returns a task.ReaperSend suitable for wiring into
// Registry.Die: it enqueues the dying task's id for Run to pick up.
// Registry.Die only marks the task a zombie after this succeeds, so a
// full handoff queue leaves the task alive for the caller to retry rather
// than losing the zombie silently.
func (r *Reaper) SendFunc() task.ReaperSend {
	return func(t *task.Task) error {
		select {
		case r.handoffs <- Handoff{TaskID: t.ID}:
			return nil
		default:
			return fmt.Errorf("reaper: handoff queue full, cannot accept task %d", t.ID)
		}
	}
}

// Run drains handoffs until ctx is done, reaping each task exactly once and
// deregistering any AMC service the task was addressable under (spec.md
// §5: a dead service's mailbox must not linger, and its death subscribers —
// e.g. AWM's per-window death watch — must be notified).
func (r *Reaper) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case h := <-r.handoffs:
			name := ""
			if t := r.registry.Get(h.TaskID); t != nil {
				name = t.Name
			}
			if err := r.registry.Reap(h.TaskID); err != nil {
				log.With("task_id", h.TaskID, "err", err).Warn("reap failed")
				continue
			}
			log.With("task_id", h.TaskID).Debug("task reaped")
			if name == "" {
				continue
			}
			if err := r.dir.Deregister(name); err != nil {
				log.With("task_id", h.TaskID, "name", name).Debug("reaped task had no registered AMC service")
			}
		}
	}
}
