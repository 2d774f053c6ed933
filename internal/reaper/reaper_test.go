package reaper_test

import (
	"context"
	"testing"
	"time"

	"github.com/codyd51/axle-sub000/internal/amc"
	"github.com/codyd51/axle-sub000/internal/clock"
	"github.com/codyd51/axle-sub000/internal/reaper"
	"github.com/codyd51/axle-sub000/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaper_ReapsHandoffTaskExactlyOnce(t *testing.T) {
	c := clock.NewFake()
	dir := amc.NewDirectory(c, nil)
	registry := task.NewRegistry(c)

	r, err := reaper.New(dir, registry)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	tsk, err := registry.TaskSpawn("com.axle.doomed", nil, 10)
	require.NoError(t, err)
	require.NoError(t, registry.Die(tsk, 0, r.SendFunc(), nil))

	require.Eventually(t, func() bool {
		return registry.Get(tsk.ID) == nil
	}, time.Second, 5*time.Millisecond, "reaper never removed the zombified task from the registry")
}

func TestReaper_RegistersWellKnownServiceName(t *testing.T) {
	c := clock.NewFake()
	dir := amc.NewDirectory(c, nil)
	registry := task.NewRegistry(c)

	_, err := reaper.New(dir, registry)
	require.NoError(t, err)

	_, ok := dir.Lookup(reaper.ServiceName)
	assert.True(t, ok)
}

func TestReaper_DoubleRegisterFails(t *testing.T) {
	c := clock.NewFake()
	dir := amc.NewDirectory(c, nil)
	registry := task.NewRegistry(c)

	_, err := reaper.New(dir, registry)
	require.NoError(t, err)
	_, err = reaper.New(dir, registry)
	assert.Error(t, err)
}
