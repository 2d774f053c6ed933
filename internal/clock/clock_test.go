package clock_test

import (
	"testing"

	"github.com/codyd51/axle-sub000/internal/clock"
	"github.com/stretchr/testify/assert"
)

func TestFakeClock_AdvanceAndSet(t *testing.T) {
	c := clock.NewFake()
	assert.Equal(t, int64(0), c.NowMs())

	c.Advance(10)
	assert.Equal(t, int64(10), c.NowMs())

	c.Advance(5)
	assert.Equal(t, int64(15), c.NowMs())

	c.Set(1000)
	assert.Equal(t, int64(1000), c.NowMs())
}

func TestSystemClock_Monotonic(t *testing.T) {
	c := clock.NewSystem()
	a := c.NowMs()
	b := c.NowMs()
	assert.GreaterOrEqual(t, b, a)
}
