package render

import (
	"strings"
	"testing"

	"github.com/codyd51/axle-sub000/internal/awm/window"
)

func TestView_ListsWindowsBackToFront(t *testing.T) {
	l := window.NewList()
	a := l.Create("shell", window.Rect{X: 0, Y: 0, W: 80, H: 24}, "com.axle.shell", false)
	l.Create("dock", window.Rect{X: 0, Y: 780, W: 1280, H: 20}, "com.axle.dock", true)

	out := View(l, a)
	if !strings.Contains(out, "shell") {
		t.Errorf("expected output to mention the window title, got %q", out)
	}
	if !strings.Contains(out, "[dock]") {
		t.Errorf("expected dock windows to be tagged, got %q", out)
	}
}

func TestView_EmptyListRendersNothing(t *testing.T) {
	l := window.NewList()
	if out := View(l, nil); out != "" {
		t.Errorf("expected empty output for an empty window list, got %q", out)
	}
}
