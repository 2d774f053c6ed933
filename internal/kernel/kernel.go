// Package kernel wires the interrupt controller, task registry, MLFQ
// scheduler, AMC directory, and reaper into one boot sequence (spec.md
// §2's system overview), and exposes the small per-CPU surface a
// scheduling loop drives.
package kernel

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/codyd51/axle-sub000/config"
	"github.com/codyd51/axle-sub000/internal/amc"
	"github.com/codyd51/axle-sub000/internal/audit"
	"github.com/codyd51/axle-sub000/internal/clock"
	"github.com/codyd51/axle-sub000/internal/interrupt"
	"github.com/codyd51/axle-sub000/internal/reaper"
	"github.com/codyd51/axle-sub000/internal/sched"
	"github.com/codyd51/axle-sub000/internal/task"
)

// CPU is one scheduling context. Its current task id is read by
// invariant checks (spec.md §4.2: "the current task's id equals the
// per-CPU current-task pointer's id") and written only from RunSlice.
type CPU struct {
	ID      int
	current atomic.Int64
}

// CurrentTaskID returns the id of the task this CPU is presently running,
// or 0 if idle.
func (c *CPU) CurrentTaskID() int64 { return c.current.Load() }

// Kernel is the assembled subsystem set spec.md §2 describes booting.
type Kernel struct {
	Config      *config.Config
	Clock       clock.Clock
	Audit       audit.Logger
	Interrupts  *interrupt.Controller
	Tasks       *task.Registry
	Sched       *sched.MLFQ
	AMC         *amc.Directory
	Reaper      *reaper.Reaper
	CPUs        []*CPU
}

// Boot assembles a Kernel from cfg. c defaults to a system clock and
// logger defaults to a no-op audit sink when nil. numCPUs must be >= 1.
func Boot(cfg *config.Config, c clock.Clock, logger audit.Logger, numCPUs int) (*Kernel, error) {
	if numCPUs < 1 {
		return nil, fmt.Errorf("kernel: numCPUs must be >= 1, got %d", numCPUs)
	}
	if c == nil {
		c = clock.NewSystem()
	}
	if logger == nil {
		logger = audit.NopLogger()
	}

	registry := task.NewRegistry(c)
	mlfq := sched.NewMLFQ(cfg, c)
	dir := amc.NewDirectory(c, logger)

	k := &Kernel{Config: cfg, Clock: c, Audit: logger, Tasks: registry, Sched: mlfq, AMC: dir}

	k.Interrupts = interrupt.NewController(func(vector int, frame *interrupt.RegisterFrame) {
		logger.Emit(audit.New(audit.EventFatalFault, "unhandled CPU fault",
			audit.WithDetail(fmt.Sprintf("vector=%d", vector)), audit.WithLevel("error")))
	})

	rp, err := reaper.New(dir, registry)
	if err != nil {
		return nil, fmt.Errorf("kernel: boot: %w", err)
	}
	k.Reaper = rp

	k.CPUs = make([]*CPU, numCPUs)
	for i := range k.CPUs {
		k.CPUs[i] = &CPU{ID: i}
	}
	return k, nil
}

// RunReaper starts the reaper's drain loop; returns once ctx is canceled.
// Callers typically run this in its own goroutine.
func (k *Kernel) RunReaper(ctx context.Context) {
	k.Reaper.Run(ctx)
}

// SpawnTask creates a task owning a fresh address space (or one cloned
// from parentVAS) in the home queue and enqueues it for scheduling
// (spec.md §4.2's task_spawn, plus the scheduler placement that follows
// it in practice).
func (k *Kernel) SpawnTask(name string, parentVAS task.VAS) (*task.Task, error) {
	t, err := k.Tasks.TaskSpawn(name, parentVAS, int64(k.Config.SchedulerQuanta[0]))
	if err != nil {
		return nil, err
	}
	k.Sched.AddTaskToQueue(t)
	k.Audit.Emit(audit.New(audit.EventTaskSpawned, "task spawned", audit.WithTask(t.ID, name)))
	return t, nil
}

// SpawnThread creates a thread sharing sharedVAS and enqueues it
// (spec.md §4.2's thread_spawn).
func (k *Kernel) SpawnThread(name string, sharedVAS task.VAS) (*task.Task, error) {
	t, err := k.Tasks.ThreadSpawn(name, sharedVAS, int64(k.Config.SchedulerQuanta[0]))
	if err != nil {
		return nil, err
	}
	k.Sched.AddTaskToQueue(t)
	k.Audit.Emit(audit.New(audit.EventTaskSpawned, "thread spawned", audit.WithTask(t.ID, name)))
	return t, nil
}

// DieTask runs spec.md §4.4's death sequence for t: notify its supervisor
// over AMC (if managed), hand its TCB off to the reaper, and only then let
// Registry.Die mark it a zombie.
func (k *Kernel) DieTask(t *task.Task, exitCode int) error {
	notify := func(supervisor string, dying *task.Task) {
		_ = k.AMC.Send("com.axle.kernel", supervisor, []byte(fmt.Sprintf("task %d died, exit=%d", dying.ID, exitCode)))
	}
	k.Sched.DeleteTask(t)
	if err := k.Tasks.Die(t, exitCode, k.Reaper.SendFunc(), notify); err != nil {
		return err
	}
	k.Audit.Emit(audit.New(audit.EventTaskZombified, "task zombified", audit.WithTask(t.ID, t.Name)))
	return nil
}

// RunSlice runs one scheduling round on cpu: choose the next runnable task,
// mark it current while run executes, and re-queue it via the MLFQ, which
// charges the task for however much wall-clock time run actually took and
// demotes it only once that consumes its remaining quantum. Returns nil if
// no task was runnable (the CPU goes idle this round).
func (k *Kernel) RunSlice(cpu *CPU, run func(t *task.Task)) *task.Task {
	t := k.Sched.ChooseTask()
	if t == nil {
		cpu.current.Store(0)
		k.Sched.PriorityBoostIfNecessary()
		return nil
	}
	cpu.current.Store(t.ID)
	run(t)
	cpu.current.Store(0)
	k.Sched.PrepareForSwitchFromTask(t)
	return t
}
