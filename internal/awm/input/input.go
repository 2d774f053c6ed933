// Package input implements spec.md §4.9's mouse/keyboard state machine:
// hit-testing against a window's title bar and edges to decide between
// move, resize, and content-forwarded events, plus the keyboard shortcut
// table (Ctrl+Tab to cycle windows, Ctrl+W to close the focused one).
package input

import (
	"github.com/codyd51/axle-sub000/internal/awm/window"
)

// Modifier is a bitmask of held keyboard modifiers.
type Modifier uint8

const ModNone Modifier = 0

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

func (m Modifier) Has(flag Modifier) bool { return m&flag != 0 }

// Key identifies a key independent of modifiers.
type Key uint32

const (
	KeyTab Key = iota + 1
	KeyW
	KeyOther
)

// edgeMargin is how close to a window's border, in pixels, a mouse-down
// must land to start a resize drag instead of a move (spec.md §4.9).
const edgeMargin = 6

// Edge is a bitmask of which border(s) a resize drag is anchored to.
type Edge uint8

const EdgeNone Edge = 0

const (
	EdgeTop Edge = 1 << iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// DragKind distinguishes what a mouse-down-then-move gesture is doing.
type DragKind int

const (
	DragNone DragKind = iota
	DragMove
	DragResize
	DragContent // forwarded to the client; AWM does not interpret it
)

// Shortcut is a recognized keyboard chord's effect.
type Shortcut int

const (
	ShortcutNone Shortcut = iota
	ShortcutCycleWindows
	ShortcutCloseFocused
)

// ButtonHit identifies which title-bar control, if any, a point falls on.
type ButtonHit int

const (
	ButtonHitNone ButtonHit = iota
	ButtonHitClose
	ButtonHitMinimize
)

// HitTitleBarButton reports whether (x, y) lands on w's close or minimize
// button. Checked before MouseDown's drag classification so a button press
// never starts a move gesture (spec.md §4.6, §4.9).
func HitTitleBarButton(w *window.Window, x, y int) ButtonHit {
	if w.IsDock {
		return ButtonHitNone
	}
	switch {
	case w.CloseButtonFrame().Contains(x, y):
		return ButtonHitClose
	case w.MinimizeButtonFrame().Contains(x, y):
		return ButtonHitMinimize
	default:
		return ButtonHitNone
	}
}

// State is the input dispatcher's session state: which window (if any) is
// mid-drag, and which modifiers are currently held.
type State struct {
	windows       *window.List
	doubleClickMs int64

	modifiers Modifier

	dragKind       DragKind
	dragWindow     *window.Window
	dragEdge       Edge
	dragStartX     int
	dragStartY     int
	dragStartFrame window.Rect

	focused       *window.Window
	lastClickMs   int64
	lastClickWin  *window.Window

	hover *window.Window
}

// NewState returns an input dispatcher hit-testing against windows.
func NewState(windows *window.List, doubleClickMs int64) *State {
	return &State{windows: windows, doubleClickMs: doubleClickMs}
}

// Focused returns the window last brought to front by a click, if any.
func (s *State) Focused() *window.Window { return s.focused }

// hitEdge returns which edge(s) of w's frame (x, y) falls within.
func hitEdge(w *window.Window, x, y int) Edge {
	f := w.Frame
	var e Edge
	if y >= f.Y && y < f.Y+edgeMargin {
		e |= EdgeTop
	}
	if y < f.Bottom() && y >= f.Bottom()-edgeMargin {
		e |= EdgeBottom
	}
	if x >= f.X && x < f.X+edgeMargin {
		e |= EdgeLeft
	}
	if x < f.Right() && x >= f.Right()-edgeMargin {
		e |= EdgeRight
	}
	return e
}

// MouseDown starts a gesture at (x, y). It brings the hit window to front,
// sets it focused, and classifies the gesture as a title-bar move, an
// edge resize, or forwarding to window content (spec.md §4.9). Returns
// the hit window, or nil if the click landed on the desktop.
func (s *State) MouseDown(x, y int, nowMs int64) *window.Window {
	w := s.windows.ContainingPoint(x, y)
	if w == nil {
		s.dragKind = DragNone
		return nil
	}
	s.windows.MoveToTop(w)
	s.focused = w

	switch {
	case w.TitleBarFrame().Contains(x, y):
		s.dragKind = DragMove
	case hitEdge(w, x, y) != EdgeNone:
		s.dragKind = DragResize
		s.dragEdge = hitEdge(w, x, y)
	default:
		s.dragKind = DragContent
	}
	s.dragWindow = w
	s.dragStartX, s.dragStartY = x, y
	s.dragStartFrame = w.Frame

	s.lastClickMs = nowMs
	s.lastClickWin = w
	return w
}

// IsDoubleClick reports whether the most recent MouseDown on w landed
// within the configured double-click interval of the one before it.
func (s *State) IsDoubleClick(w *window.Window, nowMs int64, prevClickMs int64) bool {
	return w == s.lastClickWin && nowMs-prevClickMs <= s.doubleClickMs
}

// MouseDrag updates the dragged window's frame for a move or resize in
// progress. Returns ok=false if there is no active drag (DragContent
// gestures are the caller's responsibility to forward verbatim).
func (s *State) MouseDrag(x, y int) (w *window.Window, frame window.Rect, ok bool) {
	if s.dragWindow == nil || (s.dragKind != DragMove && s.dragKind != DragResize) {
		return nil, window.Rect{}, false
	}
	dx, dy := x-s.dragStartX, y-s.dragStartY
	f := s.dragStartFrame

	switch s.dragKind {
	case DragMove:
		f.X += dx
		f.Y += dy
	case DragResize:
		if s.dragEdge&EdgeRight != 0 {
			f.W += dx
		}
		if s.dragEdge&EdgeBottom != 0 {
			f.H += dy
		}
		if s.dragEdge&EdgeLeft != 0 {
			f.X += dx
			f.W -= dx
		}
		if s.dragEdge&EdgeTop != 0 {
			f.Y += dy
			f.H -= dy
		}
	}
	if f.W < 1 {
		f.W = 1
	}
	if f.H < 1 {
		f.H = 1
	}
	s.dragWindow.Resize(f)
	return s.dragWindow, f, true
}

// MouseUp ends whatever gesture was in progress.
func (s *State) MouseUp() (w *window.Window, kind DragKind) {
	w, kind = s.dragWindow, s.dragKind
	s.dragWindow = nil
	s.dragKind = DragNone
	s.dragEdge = EdgeNone
	return w, kind
}

// DragContentWindow returns the window a DragContent gesture is forwarding
// to, or nil. MouseDrag only moves/resizes AWM-interpreted gestures, so a
// caller compares against this to know when it must keep forwarding
// MOUSE_DRAGGED to the client itself (spec.md §4.9).
func (s *State) DragContentWindow() *window.Window {
	if s.dragKind != DragContent {
		return nil
	}
	return s.dragWindow
}

// MouseMove updates which window is hovered at (x, y), for MOUSE_ENTERED/
// MOUSE_EXITED dispatch. Returns the previously and newly hovered window
// (either may be nil).
func (s *State) MouseMove(x, y int) (prev, next *window.Window) {
	prev = s.hover
	if s.dragWindow != nil && s.dragKind != DragNone {
		s.hover = s.dragWindow
	} else {
		s.hover = s.windows.ContainingPoint(x, y)
	}
	return prev, s.hover
}

// Hover returns the window currently under the pointer, if any.
func (s *State) Hover() *window.Window { return s.hover }

// KeyDown updates held modifiers and returns any recognized shortcut
// (spec.md §4.9: Ctrl+Tab cycles focus, Ctrl+W closes the focused window).
func (s *State) KeyDown(key Key, mods Modifier) Shortcut {
	s.modifiers = mods
	switch {
	case key == KeyTab && mods.Has(ModCtrl):
		return ShortcutCycleWindows
	case key == KeyW && mods.Has(ModCtrl):
		return ShortcutCloseFocused
	default:
		return ShortcutNone
	}
}

// KeyUp clears modifier state for the released key's chord.
func (s *State) KeyUp(mods Modifier) {
	s.modifiers = mods
}

// CycleFocus advances focus to the next ordinary window (back-to-front
// wrap), for ShortcutCycleWindows.
func (s *State) CycleFocus() *window.Window {
	ordinary := s.windows.Ordinary()
	if len(ordinary) == 0 {
		return nil
	}
	idx := -1
	for i, w := range ordinary {
		if w == s.focused {
			idx = i
			break
		}
	}
	next := ordinary[(idx+1)%len(ordinary)]
	s.windows.MoveToTop(next)
	s.focused = next
	return next
}
