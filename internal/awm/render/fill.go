// Package render blits the compositor's back buffer to a terminal sink —
// the closest idiomatic-Go analog of spec.md §4.7 step 6 ("blit to video
// memory") available without real framebuffer hardware.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FillBackground pads a rendered frame to at least `height` lines so the
// alt-screen renderer doesn't leave stale content below the composited
// screen — the desktop background fills the rest (spec.md §4.7 step 3).
func FillBackground(s string, width, height int, bg lipgloss.TerminalColor) string {
	if height <= 0 {
		return s
	}

	lines := strings.Split(s, "\n")

	// Extend to target height with blank lines.
	for len(lines) < height {
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
