// Package sentry provides Sentry reporting for fatal kernel faults and
// duplicate interrupt-handler registrations — the two documented-fatal error
// kinds in spec.md §7 — when telemetry is opted in. ReportFatalFault and
// ReportDuplicateHandler have no callers: internal/kernel and
// internal/interrupt do not invoke them. Mirrors the teacher's
// internal/sentry package: Init/Flush/RecoverPanic/SetContext, all safe
// no-ops when telemetry is disabled.
package sentry

import (
	"runtime"
	"strconv"
	"time"

	gosentry "github.com/getsentry/sentry-go"
)

const sentryDSN = "https://ingest.invalid/0"

// dsn is a package-level var so tests can override it.
var dsn = sentryDSN

// enabled tracks whether sentry was successfully initialized.
var enabled bool

// Init initializes the Sentry SDK. When telemetryEnabled is false or dsn is
// empty, it no-ops silently — all other functions in this package become safe
// no-ops.
func Init(version string, telemetryEnabled bool) error {
	if !telemetryEnabled || dsn == "" {
		enabled = false
		return nil
	}

	err := gosentry.Init(gosentry.ClientOptions{
		Dsn:              dsn,
		Release:          "axle@" + version,
		AttachStacktrace: true,
		SampleRate:       1.0,
	})
	if err != nil {
		return err
	}

	gosentry.ConfigureScope(func(scope *gosentry.Scope) {
		scope.SetTag("os", runtime.GOOS)
		scope.SetTag("arch", runtime.GOARCH)
		scope.SetTag("go_version", runtime.Version())
		scope.SetTag("version", version)
	})

	enabled = true
	return nil
}

// IsEnabled returns whether sentry is active.
func IsEnabled() bool {
	return enabled
}

// Flush waits up to 2 seconds for buffered events to be sent.
func Flush() {
	if !enabled {
		return
	}
	gosentry.Flush(2 * time.Second)
}

// RecoverPanic captures a panic to Sentry, flushes, then re-panics.
// Usage: defer sentry.RecoverPanic()
func RecoverPanic() {
	if !enabled {
		return
	}
	if err := recover(); err != nil {
		gosentry.CurrentHub().Recover(err)
		gosentry.Flush(2 * time.Second)
		panic(err)
	}
}

// SetContext adds per-boot context to the current scope.
func SetContext(cpuCount, screenWidth, screenHeight int) {
	if !enabled {
		return
	}
	gosentry.ConfigureScope(func(scope *gosentry.Scope) {
		scope.SetTag("cpu_count", strconv.Itoa(cpuCount))
		scope.SetContext("boot", map[string]interface{}{
			"cpu_count":     cpuCount,
			"screen_width":  screenWidth,
			"screen_height": screenHeight,
		})
	})
}

// ReportFatalFault reports a kernel fatal fault (spec.md §7: "Fatal CPU
// fault") as a Sentry event carrying the register dump as extra context.
func ReportFatalFault(vector int, faultName string, registers map[string]uint64) {
	if !enabled {
		return
	}
	gosentry.WithScope(func(scope *gosentry.Scope) {
		scope.SetTag("vector", strconv.Itoa(vector))
		scope.SetExtra("registers", registers)
		gosentry.CaptureMessage("fatal CPU fault: " + faultName)
	})
}

// ReportDuplicateHandler reports spec.md §7's other documented-fatal error
// kind: registering a second interrupt handler for an already-used vector.
func ReportDuplicateHandler(vector int) {
	if !enabled {
		return
	}
	gosentry.WithScope(func(scope *gosentry.Scope) {
		scope.SetTag("vector", strconv.Itoa(vector))
		gosentry.CaptureMessage("duplicate interrupt handler registration")
	})
}
