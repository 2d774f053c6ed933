package task_test

import (
	"testing"

	"github.com/codyd51/axle-sub000/internal/clock"
	"github.com/codyd51/axle-sub000/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskSpawn_NewAddressSpaceWhenNoParent(t *testing.T) {
	r := task.NewRegistry(clock.NewFake())
	tsk, err := r.TaskSpawn("com.axle.init", nil, 10)
	require.NoError(t, err)
	assert.Equal(t, task.StatusRunnable, tsk.Blocked.Status)
	assert.False(t, tsk.IsThread)
	assert.NotNil(t, tsk.AddressSpace)
}

func TestThreadSpawn_SharesAddressSpace(t *testing.T) {
	r := task.NewRegistry(clock.NewFake())
	owner, err := r.TaskSpawn("com.axle.owner", nil, 10)
	require.NoError(t, err)

	th, err := r.ThreadSpawn("com.axle.owner.worker", owner.AddressSpace, 10)
	require.NoError(t, err)
	assert.True(t, th.IsThread)
	assert.Same(t, owner.AddressSpace, th.AddressSpace)
}

func TestThreadSpawn_RequiresSharedVAS(t *testing.T) {
	r := task.NewRegistry(clock.NewFake())
	_, err := r.ThreadSpawn("orphan-thread", nil, 10)
	assert.Error(t, err)
}

func TestBlockUnblock_RoundTrip(t *testing.T) {
	r := task.NewRegistry(clock.NewFake())
	tsk, _ := r.TaskSpawn("com.axle.sleeper", nil, 10)

	wake := int64(500)
	require.NoError(t, r.Block(tsk, task.BlockReasonAMCAwaitTimestamp, &wake))
	assert.Equal(t, task.StatusBlocked, tsk.Blocked.Status)
	assert.Equal(t, task.BlockReasonAMCAwaitTimestamp, tsk.Blocked.Reason)

	require.NoError(t, r.Unblock(tsk, task.UnblockReasonAMCTimeoutElapsed))
	assert.Equal(t, task.StatusRunnable, tsk.Blocked.Status)
	assert.Equal(t, task.UnblockReasonAMCTimeoutElapsed, tsk.Blocked.LastUnblockReason)
	assert.Nil(t, tsk.Blocked.WakeAtMs)
}

func TestUnblock_RunnableTaskFails(t *testing.T) {
	r := task.NewRegistry(clock.NewFake())
	tsk, _ := r.TaskSpawn("com.axle.already-running", nil, 10)
	assert.Error(t, r.Unblock(tsk, task.UnblockReasonManual))
}

func TestDueToWake_ReturnsOnlyElapsedTimers(t *testing.T) {
	c := clock.NewFake()
	r := task.NewRegistry(c)
	early, _ := r.TaskSpawn("com.axle.early", nil, 10)
	late, _ := r.TaskSpawn("com.axle.late", nil, 10)

	wakeEarly, wakeLate := int64(100), int64(900)
	require.NoError(t, r.Block(early, task.BlockReasonAMCAwaitTimestamp, &wakeEarly))
	require.NoError(t, r.Block(late, task.BlockReasonAMCAwaitTimestamp, &wakeLate))

	c.Set(200)
	due := r.DueToWake(c.NowMs())
	require.Len(t, due, 1)
	assert.Equal(t, early.ID, due[0].ID)
}

func TestDie_ZombifiesOnlyAfterReaperHandoffSucceeds(t *testing.T) {
	r := task.NewRegistry(clock.NewFake())
	tsk, _ := r.TaskSpawn("com.axle.doomed", nil, 10)

	failing := func(t *task.Task) error { return assertErr }
	err := r.Die(tsk, 1, failing, nil)
	assert.Error(t, err)
	assert.Equal(t, task.StatusRunnable, tsk.Blocked.Status, "task must not be zombified when reaper handoff failed")

	var sent *task.Task
	ok := func(t *task.Task) error { sent = t; return nil }
	require.NoError(t, r.Die(tsk, 1, ok, nil))
	assert.Equal(t, task.StatusZombie, tsk.Blocked.Status)
	assert.Same(t, tsk, sent)
}

func TestDie_NotifiesSupervisor(t *testing.T) {
	r := task.NewRegistry(clock.NewFake())
	supervisor := "com.axle.supervisor"
	tsk, _ := r.TaskSpawn("com.axle.child", nil, 10)
	tsk.ManagedBy = &supervisor

	var notified string
	ok := func(t *task.Task) error { return nil }
	require.NoError(t, r.Die(tsk, 0, ok, func(s string, _ *task.Task) { notified = s }))
	assert.Equal(t, supervisor, notified)
}

func TestReap_DoubleReapFails(t *testing.T) {
	r := task.NewRegistry(clock.NewFake())
	tsk, _ := r.TaskSpawn("com.axle.reap-me", nil, 10)
	ok := func(t *task.Task) error { return nil }
	require.NoError(t, r.Die(tsk, 0, ok, nil))

	require.NoError(t, r.Reap(tsk.ID))
	assert.Error(t, r.Reap(tsk.ID), "a second reap of the same task id must fail, not silently succeed")
}

func TestReap_NonZombieFails(t *testing.T) {
	r := task.NewRegistry(clock.NewFake())
	tsk, _ := r.TaskSpawn("com.axle.alive", nil, 10)
	assert.Error(t, r.Reap(tsk.ID))
}

var assertErr = simpleErr("reaper mailbox full")

type simpleErr string

func (e simpleErr) Error() string { return string(e) }
