package render

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	zone "github.com/lrstanley/bubblezone/v2"

	"github.com/codyd51/axle-sub000/internal/awm/window"
)

// Zones tracks rendered hit regions for each window's close/minimize
// buttons (spec.md §4.6, §4.8), the same way the teacher's bubblezone
// manager resolves a terminal mouse click back to the on-screen control it
// landed on. This is the terminal-cell counterpart to the input package's
// fixed-pixel hit-testing, which assumes synthetic client coordinates
// rather than real terminal cells.
var Zones = zone.New()

func closeZoneID(w *window.Window) string    { return fmt.Sprintf("close-%d", w.ID) }
func minimizeZoneID(w *window.Window) string { return fmt.Sprintf("minimize-%d", w.ID) }

// HitClose reports whether msg landed on w's rendered close button.
func HitClose(w *window.Window, msg tea.MouseMsg) bool {
	return Zones.Get(closeZoneID(w)).InBounds(msg)
}

// HitMinimize reports whether msg landed on w's rendered minimize button.
func HitMinimize(w *window.Window, msg tea.MouseMsg) bool {
	return Zones.Get(minimizeZoneID(w)).InBounds(msg)
}
