// Package compositor implements spec.md §4.7's per-frame rendering
// algorithm: resolve dirty rects, fill the background underneath them,
// composite visible window fragments, draw the cursor, blit, run any
// extra draws, and flush.
package compositor

import (
	"github.com/codyd51/axle-sub000/internal/awm/window"
)

// FragmentDrawer draws w's content clipped to region (a piece of w's frame
// not occluded by anything above it).
type FragmentDrawer func(w *window.Window, region window.Rect)

// Compositor renders one frame at a time against a window.List and a
// DamageTracker. All callbacks are optional; a nil callback is simply
// skipped, matching the no-op-by-default ambient style used elsewhere in
// this module (spec.md §4.7's pipeline never itself dictates pixel
// format, only the ordering of its steps).
type Compositor struct {
	Windows        *window.List
	Damage         *DamageTracker
	FillBackground func(region window.Rect)
	DrawFragment   FragmentDrawer
	DrawCursor     func()
	Blit           func(region window.Rect)
	ExtraDraws     []func()
}

// New returns a Compositor over windows, tracking damage against screen.
func New(windows *window.List, screen window.Rect) *Compositor {
	return &Compositor{Windows: windows, Damage: NewDamageTracker(screen)}
}

// RenderFrame runs spec.md §4.7's eight-step pipeline for whatever damage
// is currently outstanding and returns the dirty regions that were
// repainted (empty if nothing was dirty, in which case no drawing happens
// at all). Step 1 ("fetch") is the caller's responsibility — client
// redraw-ready messages should already have updated window content before
// RenderFrame runs.
func (c *Compositor) RenderFrame() []window.Rect {
	dirty := c.Damage.Resolve() // step 2: dirty-rect resolve
	if len(dirty) == 0 {
		return nil
	}

	if c.FillBackground != nil { // step 3: background fill
		for _, r := range dirty {
			c.FillBackground(r)
		}
	}

	if c.DrawFragment != nil { // step 4: composite
		visible := VisibleRegions(c.Windows)
		for w, pieces := range visible {
			for _, piece := range pieces {
				for _, d := range dirty {
					clipped := piece.Intersection(d)
					if !clipped.Empty() {
						c.DrawFragment(w, clipped)
					}
				}
			}
		}
	}

	if c.DrawCursor != nil { // step 5: cursor
		c.DrawCursor()
	}

	if c.Blit != nil { // step 6: blit
		for _, r := range dirty {
			c.Blit(r)
		}
	}

	for _, extra := range c.ExtraDraws { // step 7: extra draws
		extra()
	}

	// step 8 (flush) is implicit: Damage.Resolve() already cleared the
	// queue at the top of this call, so the next MarkDirty starts fresh.
	return dirty
}
