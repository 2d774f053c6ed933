package compositor_test

import (
	"testing"

	"github.com/codyd51/axle-sub000/internal/awm/compositor"
	"github.com/codyd51/axle-sub000/internal/awm/window"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestRectDiff_NoOverlapReturnsWhole(t *testing.T) {
	a := window.Rect{X: 0, Y: 0, W: 10, H: 10}
	b := window.Rect{X: 20, Y: 20, W: 10, H: 10}
	got := compositor.RectDiff(a, b)
	assert.Equal(t, []window.Rect{a}, got)
}

func TestRectDiff_FullOcclusionReturnsEmpty(t *testing.T) {
	a := window.Rect{X: 0, Y: 0, W: 10, H: 10}
	b := window.Rect{X: -5, Y: -5, W: 50, H: 50}
	got := compositor.RectDiff(a, b)
	assert.Empty(t, got)
}

func TestRectDiff_CenterPunchProducesFourStrips(t *testing.T) {
	a := window.Rect{X: 0, Y: 0, W: 30, H: 30}
	b := window.Rect{X: 10, Y: 10, W: 10, H: 10}
	got := compositor.RectDiff(a, b)
	assert.Len(t, got, 4)
	assert.Equal(t, area(a)-area(b), totalArea(got))
}

func area(r window.Rect) int { return r.W * r.H }

func totalArea(rs []window.Rect) int {
	sum := 0
	for _, r := range rs {
		sum += area(r)
	}
	return sum
}

// TestRectDiff_PiecesNeverOverlapAndConserveArea is a property test: for
// any two overlapping rects, RectDiff's pieces are mutually disjoint, each
// lies entirely within a, none intersects b, and their areas sum to
// area(a) - area(intersection(a,b)).
func TestRectDiff_PiecesNeverOverlapAndConserveArea(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := window.Rect{
			X: rapid.IntRange(0, 50).Draw(rt, "ax"),
			Y: rapid.IntRange(0, 50).Draw(rt, "ay"),
			W: rapid.IntRange(1, 50).Draw(rt, "aw"),
			H: rapid.IntRange(1, 50).Draw(rt, "ah"),
		}
		b := window.Rect{
			X: rapid.IntRange(0, 50).Draw(rt, "bx"),
			Y: rapid.IntRange(0, 50).Draw(rt, "by"),
			W: rapid.IntRange(1, 50).Draw(rt, "bw"),
			H: rapid.IntRange(1, 50).Draw(rt, "bh"),
		}

		pieces := compositor.RectDiff(a, b)
		inter := a.Intersection(b)

		for i, p := range pieces {
			assert.False(rt, p.Empty())
			assert.Equal(rt, p, a.Intersection(p), "piece %d must lie entirely within a", i)
			if !inter.Empty() {
				assert.True(rt, p.Intersection(inter).Empty(), "piece %d must not overlap b", i)
			}
			for j, q := range pieces {
				if i == j {
					continue
				}
				assert.True(rt, p.Intersection(q).Empty(), "pieces %d and %d must be disjoint", i, j)
			}
		}

		expected := area(a) - area(inter)
		assert.Equal(rt, expected, totalArea(pieces))
	})
}
