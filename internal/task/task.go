// Package task models spec.md §3's task control block and its lifecycle:
// spawn, thread-spawn, block/unblock, and die. The saved-register machine
// state and kernel stack are represented as opaque placeholders since the
// real context-switch trampoline is assembly this module does not own;
// everything the scheduler and reaper actually branch on — status, queue
// index, timeslice, ttl, supervisor linkage — is modeled precisely.
package task

// Status is a task's run state (spec.md §3, §4.2).
type Status string

const (
	StatusRunnable Status = "runnable"
	StatusBlocked  Status = "blocked"
	StatusZombie   Status = "zombie"
)

// BlockReason records why a task was put to sleep.
type BlockReason string

const (
	BlockReasonNone            BlockReason = ""
	BlockReasonAMCAwaitMessage BlockReason = "amc_await_message"
	BlockReasonAMCAwaitTimestamp BlockReason = "amc_await_timestamp"
	BlockReasonManual          BlockReason = "manual"
)

// UnblockReason records why a blocked task became runnable again
// (spec.md §3: "blocked-info... including the reason it was last unblocked").
type UnblockReason string

const (
	UnblockReasonNone                UnblockReason = ""
	UnblockReasonManual              UnblockReason = "manual"
	UnblockReasonAMCMessageAvailable UnblockReason = "amc_message_available"
	UnblockReasonAMCTimeoutElapsed   UnblockReason = "amc_timeout_elapsed"
	UnblockReasonServiceDied         UnblockReason = "service_died"
)

// BlockedInfo is the blocked-state sub-record of a TCB (spec.md §3).
type BlockedInfo struct {
	Status            Status
	Reason            BlockReason
	WakeAtMs          *int64 // nil: no timeout, blocked until explicit unblock
	LastUnblockReason UnblockReason
}

// Timeslice is the task's current scheduler quantum window (spec.md §4.2).
type Timeslice struct {
	StartMs int64
	EndMs   int64
}

// MachineState is the saved-register snapshot restored on context switch.
// The real kernel saves/restores this from assembly; it is opaque data here.
type MachineState struct {
	Regs       map[string]uint64
	ReturnAddr uintptr
}

// Task is the TCB spec.md §3 describes.
type Task struct {
	ID       int64
	Name     string
	Machine  MachineState
	Blocked  BlockedInfo
	Timeslice Timeslice

	// QueueIndex is the MLFQ queue this task currently sits in (0 highest
	// priority); TTLRemaining is how much of the current quantum is left.
	QueueIndex   int
	TTLRemaining int64

	// IsThread is true for threads spawned into an existing address space
	// rather than tasks that own one (spec.md §3, §4.2 thread_spawn).
	IsThread      bool
	AddressSpace  VAS
	KernelStack   []byte

	// ELF-task-only fields; nil/zero for kernel tasks and threads.
	ProgramBreak *uintptr
	BSSAddr      *uintptr
	SymbolTable  map[string]uintptr

	// ManagedBy names the supervisor service notified on this task's death,
	// if any (spec.md §3's "managed-by-parent" reference).
	ManagedBy *string

	ExitCode int
}

// IsAlive reports whether the task has not died, i.e. is not a zombie
// (a zombie awaiting the reaper already reports false).
func (t *Task) IsAlive() bool { return t.Blocked.Status != StatusZombie }
