package animation_test

import (
	"testing"

	"github.com/codyd51/axle-sub000/internal/awm/animation"
	"github.com/codyd51/axle-sub000/internal/awm/window"
	"github.com/codyd51/axle-sub000/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearAnimation_StepsThroughHalfwayPoint(t *testing.T) {
	c := clock.NewFake()
	m := animation.NewManager(c, 16)
	from := window.Rect{X: 0, Y: 0, W: 0, H: 0}
	to := window.Rect{X: 100, Y: 0, W: 0, H: 0}

	var steps []window.Rect
	finished := false
	m.Start(from, to, 100, func(r window.Rect) { steps = append(steps, r) }, func() { finished = true })

	c.Advance(50)
	m.Tick()
	require.NotEmpty(t, steps)
	assert.InDelta(t, 50, steps[len(steps)-1].X, 1)
	assert.False(t, finished)

	c.Advance(60)
	m.Tick()
	assert.True(t, finished)
	assert.Equal(t, to.X, steps[len(steps)-1].X)
}

func TestLinearAnimation_RemovedFromActiveAfterFinish(t *testing.T) {
	c := clock.NewFake()
	m := animation.NewManager(c, 16)
	m.Start(window.Rect{}, window.Rect{X: 10}, 10, func(window.Rect) {}, func() {})
	assert.Equal(t, 1, m.Active())

	c.Advance(20)
	m.Tick()
	assert.Equal(t, 0, m.Active())
}

func TestCancel_SkipsFinishCallback(t *testing.T) {
	c := clock.NewFake()
	m := animation.NewManager(c, 16)
	finished := false
	id := m.Start(window.Rect{}, window.Rect{X: 10}, 10, func(window.Rect) {}, func() { finished = true })

	m.Cancel(id)
	c.Advance(100)
	m.Tick()
	assert.False(t, finished)
	assert.Equal(t, 0, m.Active())
}

func TestSpringAnimation_EventuallySettlesAtTarget(t *testing.T) {
	c := clock.NewFake()
	m := animation.NewManager(c, 16)
	from := window.Rect{X: 0, Y: 0, W: 50, H: 50}
	to := window.Rect{X: 200, Y: 0, W: 50, H: 50}

	var last window.Rect
	finished := false
	m.StartSpring(from, to, 6, 1, func(r window.Rect) { last = r }, func() { finished = true })

	for i := 0; i < 500 && !finished; i++ {
		c.Advance(16)
		m.Tick()
	}
	require.True(t, finished, "a critically-damped spring must settle within a bounded number of ticks")
	assert.InDelta(t, to.X, last.X, 2)
}
