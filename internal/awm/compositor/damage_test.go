package compositor_test

import (
	"testing"

	"github.com/codyd51/axle-sub000/internal/awm/compositor"
	"github.com/codyd51/axle-sub000/internal/awm/window"
	"github.com/stretchr/testify/assert"
)

func TestDamageTracker_ClipsToScreen(t *testing.T) {
	d := compositor.NewDamageTracker(window.Rect{X: 0, Y: 0, W: 100, H: 100})
	d.MarkDirty(window.Rect{X: 90, Y: 90, W: 50, H: 50})

	got := d.Resolve()
	assert := assert.New(t)
	assert.Len(got, 1)
	assert.Equal(window.Rect{X: 90, Y: 90, W: 10, H: 10}, got[0])
}

func TestDamageTracker_FullyOffscreenIsDropped(t *testing.T) {
	d := compositor.NewDamageTracker(window.Rect{X: 0, Y: 0, W: 100, H: 100})
	d.MarkDirty(window.Rect{X: 200, Y: 200, W: 10, H: 10})
	assert.False(t, d.Pending())
	assert.Empty(t, d.Resolve())
}

func TestDamageTracker_ResolveClearsQueue(t *testing.T) {
	d := compositor.NewDamageTracker(window.Rect{X: 0, Y: 0, W: 100, H: 100})
	d.MarkDirty(window.Rect{X: 0, Y: 0, W: 10, H: 10})
	assert.True(t, d.Pending())

	first := d.Resolve()
	assert.Len(t, first, 1)
	assert.False(t, d.Pending())
	assert.Empty(t, d.Resolve())
}
