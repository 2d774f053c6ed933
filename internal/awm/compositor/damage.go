package compositor

import (
	"sync"

	"github.com/codyd51/axle-sub000/internal/awm/window"
)

// DamageTracker accumulates dirty rectangles between frames (spec.md §4.7:
// "dirty-rect resolve" is the second step of every composited frame).
type DamageTracker struct {
	mu     sync.Mutex
	screen window.Rect
	dirty  []window.Rect
}

// NewDamageTracker returns a tracker clipping all marks to screen.
func NewDamageTracker(screen window.Rect) *DamageTracker {
	return &DamageTracker{screen: screen}
}

// MarkDirty records r (clipped to the screen bounds) as needing redraw.
// A rect fully outside the screen, or already empty, is dropped silently.
func (d *DamageTracker) MarkDirty(r window.Rect) {
	clipped := r.Intersection(d.screen)
	if clipped.Empty() {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dirty = append(d.dirty, clipped)
}

// MarkWindowDirty marks w's entire current frame dirty, e.g. on move,
// resize, or content redraw (spec.md §4.7).
func (d *DamageTracker) MarkWindowDirty(w *window.Window) {
	d.MarkDirty(w.Frame)
}

// Resolve returns the accumulated dirty rects since the last Resolve and
// clears the tracker, as the per-frame pipeline's resolve step does.
func (d *DamageTracker) Resolve() []window.Rect {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.dirty
	d.dirty = nil
	return out
}

// Pending reports whether any damage is outstanding, for a CPU deciding
// whether this tick needs a composite pass at all.
func (d *DamageTracker) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.dirty) > 0
}
