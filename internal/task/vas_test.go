package task_test

import (
	"testing"

	"github.com/codyd51/axle-sub000/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemVAS_AllocRangeIsPageAligned(t *testing.T) {
	v := task.NewMemVAS()
	a, err := v.AllocRange(1)
	require.NoError(t, err)
	b, err := v.AllocRange(1)
	require.NoError(t, err)
	assert.Equal(t, uintptr(0x1000), b-a, "each alloc must round up to a full page regardless of requested size")
}

func TestMemVAS_CloneDoesNotShareUserMappings(t *testing.T) {
	v := task.NewMemVAS()
	_, err := v.AllocRange(4096)
	require.NoError(t, err)

	clone, err := v.Clone()
	require.NoError(t, err)

	addr, err := clone.AllocRange(4096)
	require.NoError(t, err)
	assert.Equal(t, uintptr(0x1000), addr, "a freshly cloned address space must not inherit the parent's user ranges")
}

func TestMemVAS_TeardownRejectsFurtherUse(t *testing.T) {
	v := task.NewMemVAS()
	require.NoError(t, v.Teardown())
	assert.Error(t, v.LoadState())
	assert.Error(t, v.Teardown())
	_, err := v.AllocRange(4096)
	assert.Error(t, err)
}
