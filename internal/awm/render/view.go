package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/codyd51/axle-sub000/internal/awm/window"
)

// View renders the window list's z-order as a one-line-per-window summary,
// back-to-front, styling the focused window's chrome distinctly (spec.md
// §4.6's focused-vs-unfocused title bar). This is the demo binary's stand-in
// for a real framebuffer blit: there is no terminal raster wide enough to
// show a desktop's worth of overlapping windows as ASCII art, so the CLI
// reports the same z-order and geometry a blit would paint instead.
func View(l *window.List, focused *window.Window) string {
	var b strings.Builder

	chrome := lipgloss.NewStyle().Foreground(ColorText).Background(ColorChrome).Padding(0, 1)
	chromeActive := lipgloss.NewStyle().Foreground(ColorText).Background(ColorChromeActive).Padding(0, 1)

	for _, w := range l.Ordinary() {
		style := chrome
		if w == focused {
			style = chromeActive
		}
		line := fmt.Sprintf("%-20s %4d,%-4d %4dx%-4d", w.Title, w.Frame.X, w.Frame.Y, w.Frame.W, w.Frame.H)
		line += " " + Zones.Mark(closeZoneID(w), "[x]")
		if !w.IsDock {
			line += " " + Zones.Mark(minimizeZoneID(w), "[_]")
		}
		if w.Minimized {
			line += " (minimized)"
		}
		b.WriteString(style.Render(line))
		b.WriteByte('\n')
	}
	for _, w := range l.Overlays() {
		line := fmt.Sprintf("[dock] %-14s %4d,%-4d %4dx%-4d", w.Title, w.Frame.X, w.Frame.Y, w.Frame.W, w.Frame.H)
		b.WriteString(lipgloss.NewStyle().Foreground(ColorSubtle).Render(line))
		b.WriteByte('\n')
	}

	return Zones.Scan(b.String())
}
