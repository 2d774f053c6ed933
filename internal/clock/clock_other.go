//go:build !linux

package clock

import "time"

// processStart anchors monotonicNs; time.Since uses the monotonic reading
// time.Now carries, so wall-clock adjustments do not move the result.
var processStart = time.Now()

// monotonicNs falls back to the standard library's monotonic reading on
// platforms without a direct CLOCK_MONOTONIC syscall binding.
func monotonicNs() int64 {
	return int64(time.Since(processStart))
}
