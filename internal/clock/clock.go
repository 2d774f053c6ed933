// Package clock provides the single monotonic millisecond clock spec.md §3
// says "provides all time reference points" for the scheduler, AMC timeouts,
// and the animation engine. The real kernel reads this off the RTC/PIT
// (out of scope, per spec.md §1); here it is backed by the host's
// monotonic clock via golang.org/x/sys on Linux, falling back to time.Now
// elsewhere.
package clock

import (
	"sync/atomic"
)

// Clock is ms_since_boot(): a monotonically non-decreasing millisecond
// counter. Tests substitute a Fake to drive scheduler/animation logic
// deterministically without sleeping.
type Clock interface {
	NowMs() int64
}

// System is the production Clock, anchored at process start so NowMs()
// reads like "milliseconds since boot" rather than a Unix timestamp.
// monotonicNs is platform-specific (clock_linux.go reads CLOCK_MONOTONIC
// directly; clock_other.go falls back to time.Now).
type System struct {
	startNs int64
}

// NewSystem returns a Clock anchored at the current time.
func NewSystem() *System {
	return &System{startNs: monotonicNs()}
}

// NowMs returns milliseconds elapsed since the clock was created.
func (s *System) NowMs() int64 {
	return (monotonicNs() - s.startNs) / 1_000_000
}

// Fake is a manually-advanced Clock for deterministic tests of scheduler
// demotion, priority boost, and animation interpolation.
type Fake struct {
	ms atomic.Int64
}

// NewFake returns a Fake clock starting at ms 0.
func NewFake() *Fake {
	return &Fake{}
}

// NowMs returns the current fake time.
func (f *Fake) NowMs() int64 {
	return f.ms.Load()
}

// Advance moves the fake clock forward by delta milliseconds and returns
// the new time.
func (f *Fake) Advance(delta int64) int64 {
	return f.ms.Add(delta)
}

// Set pins the fake clock to an absolute millisecond value.
func (f *Fake) Set(ms int64) {
	f.ms.Store(ms)
}
