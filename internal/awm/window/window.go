// Package window models spec.md §4.3's window/view data model: window
// geometry, the z-ordered window list, and the separate overlay/dock list
// that always composites above ordinary windows.
package window

import "fmt"

// Rect is an axis-aligned pixel rectangle, half-open on the right/bottom
// edges ([X, X+W) x [Y, Y+H)) so adjacent rects tile without overlap.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether r covers no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Right and Bottom are the exclusive far edges.
func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

// Contains reports whether point (x, y) falls within r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersects reports whether r and other share any area.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.Right() && other.X < r.Right() && r.Y < other.Bottom() && other.Y < r.Bottom()
}

// Intersection returns the overlapping rect of r and other; Empty() if none.
func (r Rect) Intersection(other Rect) Rect {
	x0, y0 := max(r.X, other.X), max(r.Y, other.Y)
	x1, y1 := min(r.Right(), other.Right()), min(r.Bottom(), other.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// TitleBarHeight is the fixed decoration height every ordinary window
// reserves above its content (spec.md §4.6).
const TitleBarHeight = 24

// Window is a single client's on-screen presence (spec.md §4.3).
type Window struct {
	ID            int64
	Title         string
	Frame         Rect // includes the title bar
	ClientService string
	IsDock        bool
	Minimized     bool
	PreMinimizeFrame Rect // restored on Unminimize
}

// ContentFrame is the window's frame minus its title bar.
func (w *Window) ContentFrame() Rect {
	if w.IsDock {
		return w.Frame
	}
	return Rect{X: w.Frame.X, Y: w.Frame.Y + TitleBarHeight, W: w.Frame.W, H: w.Frame.H - TitleBarHeight}
}

// TitleBarFrame is the title-bar strip along the window's top edge.
func (w *Window) TitleBarFrame() Rect {
	return Rect{X: w.Frame.X, Y: w.Frame.Y, W: w.Frame.W, H: TitleBarHeight}
}

// ButtonWidth is the fixed pixel width of each title-bar button (spec.md
// §4.6's close/minimize controls).
const ButtonWidth = 24

// CloseButtonFrame is the rightmost title-bar strip that closes w.
func (w *Window) CloseButtonFrame() Rect {
	tb := w.TitleBarFrame()
	return Rect{X: tb.Right() - ButtonWidth, Y: tb.Y, W: ButtonWidth, H: tb.H}
}

// MinimizeButtonFrame sits immediately to the left of CloseButtonFrame.
func (w *Window) MinimizeButtonFrame() Rect {
	tb := w.TitleBarFrame()
	return Rect{X: tb.Right() - 2*ButtonWidth, Y: tb.Y, W: ButtonWidth, H: tb.H}
}

// List is the z-ordered collection of windows spec.md §4.3 describes:
// ordinary windows in back-to-front order, plus a separate overlay/dock
// list that always composites above them.
type List struct {
	nextID   int64
	ordinary []*Window // back-to-front; last element is topmost
	overlays []*Window // docks and other chrome, always above ordinary
}

// NewList returns an empty window list.
func NewList() *List { return &List{} }

// Create adds a new window at the given frame and brings it to the top of
// its list (ordinary, or overlay if isDock). Returns the new window.
func (l *List) Create(title string, frame Rect, clientService string, isDock bool) *Window {
	l.nextID++
	w := &Window{ID: l.nextID, Title: title, Frame: frame, ClientService: clientService, IsDock: isDock}
	if isDock {
		l.overlays = append(l.overlays, w)
	} else {
		l.ordinary = append(l.ordinary, w)
	}
	return w
}

// MoveToTop brings w to the front of whichever list it belongs to
// (spec.md §4.3: window activation raises it above all siblings).
func (l *List) MoveToTop(w *Window) {
	list := &l.ordinary
	if w.IsDock {
		list = &l.overlays
	}
	idx := indexOf(*list, w)
	if idx < 0 || idx == len(*list)-1 {
		return
	}
	*list = append(append((*list)[:idx], (*list)[idx+1:]...), w)
}

func indexOf(list []*Window, w *Window) int {
	for i, cand := range list {
		if cand == w {
			return i
		}
	}
	return -1
}

// ContainingPoint returns the topmost window (checking overlays first,
// then ordinary windows front-to-back) whose frame contains (x, y), or nil.
func (l *List) ContainingPoint(x, y int) *Window {
	for i := len(l.overlays) - 1; i >= 0; i-- {
		w := l.overlays[i]
		if !w.Minimized && w.Frame.Contains(x, y) {
			return w
		}
	}
	for i := len(l.ordinary) - 1; i >= 0; i-- {
		w := l.ordinary[i]
		if !w.Minimized && w.Frame.Contains(x, y) {
			return w
		}
	}
	return nil
}

// Destroy removes w from whichever list holds it. Returns an error if w is
// not present (a double-destroy, spec.md §4.3's teardown path).
func (l *List) Destroy(w *Window) error {
	list := &l.ordinary
	if w.IsDock {
		list = &l.overlays
	}
	idx := indexOf(*list, w)
	if idx < 0 {
		return fmt.Errorf("window: destroy: window %d not present (already destroyed?)", w.ID)
	}
	*list = append((*list)[:idx], (*list)[idx+1:]...)
	return nil
}

// Minimize hides w from hit-testing and compositing while remembering its
// frame for Unminimize (spec.md §4.3).
func (l *List) Minimize(w *Window) {
	if w.Minimized {
		return
	}
	w.PreMinimizeFrame = w.Frame
	w.Minimized = true
}

// Unminimize restores w to its pre-minimize frame and visibility.
func (l *List) Unminimize(w *Window) {
	if !w.Minimized {
		return
	}
	w.Frame = w.PreMinimizeFrame
	w.Minimized = false
	l.MoveToTop(w)
}

// TopOrdinary returns the frontmost non-minimized ordinary window, the
// keyboard's default forwarding target when no shortcut consumed a key
// (spec.md §4.8: "all other keys go to the top z-ordered window").
func (l *List) TopOrdinary() *Window {
	for i := len(l.ordinary) - 1; i >= 0; i-- {
		if !l.ordinary[i].Minimized {
			return l.ordinary[i]
		}
	}
	return nil
}

// Ordinary returns the back-to-front ordinary window slice (read-only use).
func (l *List) Ordinary() []*Window { return l.ordinary }

// Overlays returns the back-to-front overlay/dock slice (read-only use).
func (l *List) Overlays() []*Window { return l.overlays }

// Resize updates w's frame in place, e.g. from a WINDOW_RESIZE_ENDED event
// (spec.md §6).
func (w *Window) Resize(frame Rect) { w.Frame = frame }

// UpdateTitle sets w's title (UPDATE_WINDOW_TITLE, spec.md §6).
func (w *Window) UpdateTitle(title string) { w.Title = title }
