package compositor

import "github.com/codyd51/axle-sub000/internal/awm/window"

// RectDiff returns the disjoint rectangles covering a minus b: the parts of
// a not occluded by b (spec.md §4.3's occlusion-splitting algorithm). If a
// and b do not intersect, a is returned whole. At most four pieces are ever
// produced (top, bottom, left, right strips around b's intersection with a).
func RectDiff(a, b window.Rect) []window.Rect {
	inter := a.Intersection(b)
	if inter.Empty() {
		return []window.Rect{a}
	}

	var out []window.Rect
	if inter.Y > a.Y {
		out = append(out, window.Rect{X: a.X, Y: a.Y, W: a.W, H: inter.Y - a.Y})
	}
	if inter.Bottom() < a.Bottom() {
		out = append(out, window.Rect{X: a.X, Y: inter.Bottom(), W: a.W, H: a.Bottom() - inter.Bottom()})
	}
	if inter.X > a.X {
		out = append(out, window.Rect{X: a.X, Y: inter.Y, W: inter.X - a.X, H: inter.H})
	}
	if inter.Right() < a.Right() {
		out = append(out, window.Rect{X: inter.Right(), Y: inter.Y, W: a.Right() - inter.Right(), H: inter.H})
	}
	return out
}

// VisibleRegions computes, for every non-minimized window in l, the
// fragments of its frame not occluded by any window above it in z-order
// (overlays/docks are always above ordinary windows, per spec.md §4.3).
func VisibleRegions(l *window.List) map[*window.Window][]window.Rect {
	var topToBottom []*window.Window
	overlays := l.Overlays()
	for i := len(overlays) - 1; i >= 0; i-- {
		topToBottom = append(topToBottom, overlays[i])
	}
	ordinary := l.Ordinary()
	for i := len(ordinary) - 1; i >= 0; i-- {
		topToBottom = append(topToBottom, ordinary[i])
	}

	visible := make(map[*window.Window][]window.Rect, len(topToBottom))
	var covered []window.Rect
	for _, w := range topToBottom {
		if w.Minimized {
			continue
		}
		pieces := []window.Rect{w.Frame}
		for _, c := range covered {
			if len(pieces) == 0 {
				break
			}
			var next []window.Rect
			for _, p := range pieces {
				next = append(next, RectDiff(p, c)...)
			}
			pieces = next
		}
		visible[w] = pieces
		covered = append(covered, w.Frame)
	}
	return visible
}
