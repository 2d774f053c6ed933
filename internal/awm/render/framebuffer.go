package render

import (
	"strings"

	"github.com/codyd51/axle-sub000/internal/awm/window"
)

// cellScale is how many framebuffer pixels each terminal character cell
// stands in for. A real framebuffer is pixel-addressed; a terminal is not,
// so the compositor's FillBackground/DrawFragment/DrawCursor callbacks
// write at this coarser grid instead of a 1:1 pixel blit.
const cellScale = 8

// Framebuffer is the back buffer the compositor's callbacks paint into —
// AWM's stand-in for the kernel-mapped video memory spec.md §4.7 step 6
// blits to. The per-window shared regions CreateWindowResponse names are
// separate AMC shared regions, not this buffer.
type Framebuffer struct {
	width, height int // in cells
	cells         [][]rune
}

// NewFramebuffer returns a blank framebuffer sized for a screenW x screenH
// pixel screen.
func NewFramebuffer(screenW, screenH int) *Framebuffer {
	w := max(1, screenW/cellScale)
	h := max(1, screenH/cellScale)
	cells := make([][]rune, h)
	for y := range cells {
		cells[y] = make([]rune, w)
		for x := range cells[y] {
			cells[y][x] = ' '
		}
	}
	return &Framebuffer{width: w, height: h, cells: cells}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (f *Framebuffer) toCellRect(r window.Rect) (x0, y0, x1, y1 int) {
	x0 = clampInt(r.X/cellScale, 0, f.width)
	y0 = clampInt(r.Y/cellScale, 0, f.height)
	x1 = clampInt(r.Right()/cellScale+1, 0, f.width)
	y1 = clampInt(r.Bottom()/cellScale+1, 0, f.height)
	return
}

// Fill clears region to the desktop's empty-cell glyph (spec.md §4.7 step 3,
// the compositor's FillBackground callback).
func (f *Framebuffer) Fill(region window.Rect) {
	x0, y0, x1, y1 := f.toCellRect(region)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			f.cells[y][x] = '.'
		}
	}
}

// DrawFragment paints w's visible piece with a glyph derived from its id, so
// overlapping windows are distinguishable in the rendered grid (spec.md
// §4.7 step 4, the compositor's DrawFragment callback).
func (f *Framebuffer) DrawFragment(w *window.Window, region window.Rect) {
	glyph := rune('A' + int(w.ID-1)%26)
	x0, y0, x1, y1 := f.toCellRect(region)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			f.cells[y][x] = glyph
		}
	}
}

// DrawCursor paints the cursor glyph at (x, y) in screen coordinates
// (spec.md §4.7 step 5 — drawn last so it is never occluded).
func (f *Framebuffer) DrawCursor(x, y int) {
	cx, cy := x/cellScale, y/cellScale
	if cy >= 0 && cy < f.height && cx >= 0 && cx < f.width {
		f.cells[cy][cx] = '+'
	}
}

// Snapshot renders the current framebuffer contents as terminal lines — the
// readback half of a blit, since there is no real video memory to read from.
func (f *Framebuffer) Snapshot() string {
	var b strings.Builder
	for y, row := range f.cells {
		b.WriteString(string(row))
		if y < len(f.cells)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
