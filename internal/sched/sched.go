// Package sched implements spec.md §4.2's MLFQ (multi-level feedback queue)
// scheduler: four priority queues with per-queue quanta, demotion on
// quantum exhaustion, and periodic priority boosts. The locking pattern and
// FIFO-queue-per-level shape are grounded on a feedback-queue scheduler in
// the retrieved corpus that also guards its run-queue with a single mutex.
package sched

import (
	"sync"

	"github.com/codyd51/axle-sub000/config"
	"github.com/codyd51/axle-sub000/internal/clock"
	"github.com/codyd51/axle-sub000/internal/task"
	"github.com/codyd51/axle-sub000/log"
)

// NumQueues is the MLFQ depth (spec.md §4.2: four levels).
const NumQueues = 4

// MLFQ is a multi-level feedback queue scheduler. One MLFQ instance is
// shared by every kernel.CPU; ChooseTask is safe for concurrent CPUs.
type MLFQ struct {
	mu         sync.Mutex
	quantaMs   [NumQueues]int64
	boostMs    int64
	idleMs     int64
	clock      clock.Clock
	queues     [NumQueues][]*task.Task
	lastBoost  int64
}

// NewMLFQ builds an MLFQ from cfg's quanta/boost period, reading time from c.
func NewMLFQ(cfg *config.Config, c clock.Clock) *MLFQ {
	m := &MLFQ{clock: c, boostMs: int64(cfg.BoostPeriodMs), idleMs: int64(cfg.IdleQuantumMs)}
	for i := 0; i < NumQueues; i++ {
		m.quantaMs[i] = int64(cfg.SchedulerQuanta[i])
	}
	m.lastBoost = c.NowMs()
	return m
}

// AddTaskToQueue places t at the back of its recorded queue index,
// refreshing its TTL to that queue's quantum (spec.md §4.2).
func (m *MLFQ) AddTaskToQueue(t *task.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addLocked(t)
}

func (m *MLFQ) addLocked(t *task.Task) {
	q := t.QueueIndex
	if q < 0 || q >= NumQueues {
		q = 0
		t.QueueIndex = 0
	}
	t.TTLRemaining = m.quantaMs[q]
	m.enqueueLocked(t)
}

func (m *MLFQ) enqueueLocked(t *task.Task) {
	q := t.QueueIndex
	m.queues[q] = append(m.queues[q], t)
	if len(m.queues[q]) >= softWatermark {
		log.With("queue", q, "depth", len(m.queues[q])).Debug("queue depth crossed soft watermark")
	}
}

// softWatermark is the supplemented debug-logging threshold: queue depth at
// or above this logs at Debug so a long-running box can be inspected without
// enabling full tracing.
const softWatermark = 64

// ChooseTask pops the next runnable task from the highest non-empty queue
// (strict priority across levels, FIFO within a level), applying the
// periodic priority boost first if one is due (spec.md §4.2). Returns nil if
// every queue is empty.
func (m *MLFQ) ChooseTask() *task.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boostIfNecessaryLocked()

	for q := 0; q < NumQueues; q++ {
		if len(m.queues[q]) == 0 {
			continue
		}
		t := m.queues[q][0]
		m.queues[q] = m.queues[q][1:]
		t.Timeslice.StartMs = m.clock.NowMs()
		t.Timeslice.EndMs = t.Timeslice.StartMs + t.TTLRemaining
		return t
	}
	return nil
}

// PrepareForSwitchFromTask re-queues t after its turn on a CPU ends, charging
// it for the wall-clock time it actually ran since ChooseTask dispatched it
// (spec.md §4.3; mirrors original_source/kernel/kernel/multitasking/tasks/mlfq.c's
// runtime = now - last_schedule_start, ttl_remaining -= runtime). Demotes t
// one level only once TTLRemaining is fully consumed, granting a fresh
// quantum at the new level; a task that yielded or blocked before exhausting
// its slice keeps its level and whatever TTL it has left.
func (m *MLFQ) PrepareForSwitchFromTask(t *task.Task) {
	if t.Blocked.Status != task.StatusRunnable {
		return // blocked or zombified tasks are not re-queued here
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	ran := m.clock.NowMs() - t.Timeslice.StartMs
	if ran < 0 {
		ran = 0
	}
	t.TTLRemaining -= ran

	if t.TTLRemaining <= 0 {
		if t.QueueIndex < NumQueues-1 {
			t.QueueIndex++
		}
		t.TTLRemaining = m.quantaMs[t.QueueIndex]
	}
	m.enqueueLocked(t)
}

// PriorityBoostIfNecessary is the externally-callable form of the boost
// check, for a CPU's idle loop to drive without going through ChooseTask.
func (m *MLFQ) PriorityBoostIfNecessary() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boostIfNecessaryLocked()
}

func (m *MLFQ) boostIfNecessaryLocked() {
	now := m.clock.NowMs()
	if now-m.lastBoost < m.boostMs {
		return
	}
	m.lastBoost = now

	var boosted int
	for q := 1; q < NumQueues; q++ {
		for _, t := range m.queues[q] {
			t.QueueIndex = 0
			t.TTLRemaining = m.quantaMs[0]
			m.queues[0] = append(m.queues[0], t)
			boosted++
		}
		m.queues[q] = nil
	}
	if boosted > 0 {
		log.With("boosted", boosted).Debug("priority boost")
	}
}

// DeleteTask removes t from whichever queue currently holds it, for when a
// task dies while still runnable-but-not-running (spec.md §4.4).
func (m *MLFQ) DeleteTask(t *task.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for q := 0; q < NumQueues; q++ {
		for i, cand := range m.queues[q] {
			if cand.ID == t.ID {
				m.queues[q] = append(m.queues[q][:i], m.queues[q][i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of runnable tasks currently queued, across all
// levels; used by tests and the idle-CPU decision.
func (m *MLFQ) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for q := 0; q < NumQueues; q++ {
		n += len(m.queues[q])
	}
	return n
}
