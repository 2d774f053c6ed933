package window_test

import (
	"testing"

	"github.com/codyd51/axle-sub000/internal/awm/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRect_ContainsHalfOpenEdges(t *testing.T) {
	r := window.Rect{X: 0, Y: 0, W: 10, H: 10}
	assert.True(t, r.Contains(0, 0))
	assert.True(t, r.Contains(9, 9))
	assert.False(t, r.Contains(10, 5), "the right edge must be exclusive")
	assert.False(t, r.Contains(5, 10), "the bottom edge must be exclusive")
}

func TestRect_Intersection(t *testing.T) {
	a := window.Rect{X: 0, Y: 0, W: 10, H: 10}
	b := window.Rect{X: 5, Y: 5, W: 10, H: 10}
	got := a.Intersection(b)
	assert.Equal(t, window.Rect{X: 5, Y: 5, W: 5, H: 5}, got)

	c := window.Rect{X: 100, Y: 100, W: 5, H: 5}
	assert.True(t, a.Intersection(c).Empty())
}

func TestList_ContainingPoint_PrefersOverlaysOverOrdinary(t *testing.T) {
	l := window.NewList()
	ordinary := l.Create("terminal", window.Rect{X: 0, Y: 0, W: 100, H: 100}, "com.axle.terminal", false)
	dock := l.Create("dock", window.Rect{X: 0, Y: 0, W: 100, H: 50}, "com.axle.dock", true)

	got := l.ContainingPoint(10, 10)
	assert.Same(t, dock, got)
	_ = ordinary
}

func TestList_MoveToTop_ReordersWithinOwnList(t *testing.T) {
	l := window.NewList()
	a := l.Create("a", window.Rect{X: 0, Y: 0, W: 10, H: 10}, "a", false)
	b := l.Create("b", window.Rect{X: 0, Y: 0, W: 10, H: 10}, "b", false)

	// b is already on top (created last); containing point for overlap goes to b.
	require.Same(t, b, l.ContainingPoint(5, 5))

	l.MoveToTop(a)
	assert.Same(t, a, l.ContainingPoint(5, 5))
}

func TestList_Destroy_RemovesWindowAndRejectsDoubleDestroy(t *testing.T) {
	l := window.NewList()
	w := l.Create("a", window.Rect{X: 0, Y: 0, W: 10, H: 10}, "a", false)
	require.NoError(t, l.Destroy(w))
	assert.Nil(t, l.ContainingPoint(5, 5))
	assert.Error(t, l.Destroy(w))
}

func TestList_MinimizeUnminimize_RestoresFrame(t *testing.T) {
	l := window.NewList()
	w := l.Create("a", window.Rect{X: 10, Y: 10, W: 100, H: 100}, "a", false)

	l.Minimize(w)
	assert.True(t, w.Minimized)
	assert.Nil(t, l.ContainingPoint(50, 50), "a minimized window must not be hit-testable")

	l.Unminimize(w)
	assert.False(t, w.Minimized)
	assert.Equal(t, window.Rect{X: 10, Y: 10, W: 100, H: 100}, w.Frame)
	assert.Same(t, w, l.ContainingPoint(50, 50))
}

func TestWindow_ContentFrameExcludesTitleBar(t *testing.T) {
	w := &window.Window{Frame: window.Rect{X: 0, Y: 0, W: 100, H: 100}}
	content := w.ContentFrame()
	assert.Equal(t, window.TitleBarHeight, content.Y)
	assert.Equal(t, 100-window.TitleBarHeight, content.H)
}

func TestWindow_DockHasNoTitleBar(t *testing.T) {
	w := &window.Window{Frame: window.Rect{X: 0, Y: 0, W: 100, H: 50}, IsDock: true}
	assert.Equal(t, w.Frame, w.ContentFrame())
}
