package sched_test

import (
	"testing"

	"github.com/codyd51/axle-sub000/config"
	"github.com/codyd51/axle-sub000/internal/clock"
	"github.com/codyd51/axle-sub000/internal/sched"
	"github.com/codyd51/axle-sub000/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newMLFQ() (*sched.MLFQ, *clock.Fake) {
	cfg := config.DefaultConfig()
	c := clock.NewFake()
	return sched.NewMLFQ(cfg, c), c
}

func newRegistry(c clock.Clock) *task.Registry {
	return task.NewRegistry(c)
}

func TestChooseTask_StrictPriorityAcrossLevels(t *testing.T) {
	m, _ := newMLFQ()
	r := newRegistry(clock.NewFake())

	low, _ := r.TaskSpawn("low", nil, 10)
	low.QueueIndex = 2
	high, _ := r.TaskSpawn("high", nil, 10)
	high.QueueIndex = 0

	m.AddTaskToQueue(low)
	m.AddTaskToQueue(high)

	chosen := m.ChooseTask()
	require.NotNil(t, chosen)
	assert.Equal(t, high.ID, chosen.ID, "a task in a higher-priority queue must always be chosen first")
}

func TestChooseTask_FIFOWithinLevel(t *testing.T) {
	m, _ := newMLFQ()
	r := newRegistry(clock.NewFake())

	a, _ := r.TaskSpawn("a", nil, 10)
	b, _ := r.TaskSpawn("b", nil, 10)
	m.AddTaskToQueue(a)
	m.AddTaskToQueue(b)

	first := m.ChooseTask()
	second := m.ChooseTask()
	assert.Equal(t, a.ID, first.ID)
	assert.Equal(t, b.ID, second.ID)
}

func TestPrepareForSwitchFromTask_DemotesOnQuantumExhaustion(t *testing.T) {
	m, c := newMLFQ()
	r := newRegistry(c)
	tsk, _ := r.TaskSpawn("hog", nil, 10)
	m.AddTaskToQueue(tsk)
	m.ChooseTask()

	c.Advance(10) // busy-loops for the full 10ms quantum
	m.PrepareForSwitchFromTask(tsk)
	assert.Equal(t, 1, tsk.QueueIndex, "a task that fully consumes its quantum is demoted")
	assert.Equal(t, int64(20), tsk.TTLRemaining, "demotion grants a fresh quantum at the new level")
}

func TestPrepareForSwitchFromTask_StaysAtLevelOnVoluntaryYield(t *testing.T) {
	m, c := newMLFQ()
	r := newRegistry(c)
	tsk, _ := r.TaskSpawn("polite", nil, 10)
	tsk.QueueIndex = 2
	m.AddTaskToQueue(tsk)
	m.ChooseTask()

	c.Advance(5) // yields after using only 5ms of queue 2's 30ms quantum
	m.PrepareForSwitchFromTask(tsk)
	assert.Equal(t, 2, tsk.QueueIndex, "yielding before exhausting TTL keeps the current level")
	assert.Equal(t, int64(25), tsk.TTLRemaining, "only the elapsed runtime is charged against TTL")
}

func TestPrepareForSwitchFromTask_LowestQueueNeverDemotesFurther(t *testing.T) {
	m, c := newMLFQ()
	r := newRegistry(c)
	tsk, _ := r.TaskSpawn("bottom-dweller", nil, 10)
	tsk.QueueIndex = sched.NumQueues - 1
	m.AddTaskToQueue(tsk)
	m.ChooseTask()

	c.Advance(40)
	m.PrepareForSwitchFromTask(tsk)
	assert.Equal(t, sched.NumQueues-1, tsk.QueueIndex)
}

func TestPrepareForSwitchFromTask_PartialRunsAccumulateAcrossDispatches(t *testing.T) {
	m, c := newMLFQ()
	r := newRegistry(c)
	tsk, _ := r.TaskSpawn("chunky", nil, 10)
	m.AddTaskToQueue(tsk)

	// Three 4ms dispatches: 12ms total against a 10ms quantum, so the task
	// should still be at level 0 after the first two (TTL 6ms, then 2ms)
	// and demoted on the third (mirrors mlfq.c's incremental decrement,
	// not an all-at-once comparison against the original quantum).
	m.ChooseTask()
	c.Advance(4)
	m.PrepareForSwitchFromTask(tsk)
	assert.Equal(t, 0, tsk.QueueIndex)
	assert.Equal(t, int64(6), tsk.TTLRemaining)

	m.ChooseTask()
	c.Advance(4)
	m.PrepareForSwitchFromTask(tsk)
	assert.Equal(t, 0, tsk.QueueIndex)
	assert.Equal(t, int64(2), tsk.TTLRemaining)

	m.ChooseTask()
	c.Advance(4)
	m.PrepareForSwitchFromTask(tsk)
	assert.Equal(t, 1, tsk.QueueIndex, "the third dispatch finally exhausts the accumulated quantum")
}

func TestPriorityBoost_ReturnsAllTasksToQueueZero(t *testing.T) {
	cfg := config.DefaultConfig()
	c := clock.NewFake()
	m := sched.NewMLFQ(cfg, c)
	r := newRegistry(c)

	tsk, _ := r.TaskSpawn("demoted", nil, 10)
	tsk.QueueIndex = 3
	m.AddTaskToQueue(tsk)

	c.Advance(int64(cfg.BoostPeriodMs) + 1)
	m.PriorityBoostIfNecessary()

	chosen := m.ChooseTask()
	require.NotNil(t, chosen)
	assert.Equal(t, 0, chosen.QueueIndex)
}

func TestDeleteTask_RemovesFromWhicheverQueueHoldsIt(t *testing.T) {
	m, _ := newMLFQ()
	r := newRegistry(clock.NewFake())
	tsk, _ := r.TaskSpawn("doomed", nil, 10)
	tsk.QueueIndex = 1
	m.AddTaskToQueue(tsk)
	require.Equal(t, 1, m.Len())

	m.DeleteTask(tsk)
	assert.Equal(t, 0, m.Len())
}

// TestMLFQ_NeverLosesOrDuplicatesTasks is a property test: across random
// sequences of add/choose/requeue operations, the total enqueued task count
// is always conserved across the four levels.
func TestMLFQ_NeverLosesOrDuplicatesTasks(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cfg := config.DefaultConfig()
		c := clock.NewFake()
		m := sched.NewMLFQ(cfg, c)
		r := newRegistry(c)

		n := rapid.IntRange(1, 20).Draw(rt, "n")
		tasks := make([]*task.Task, 0, n)
		for i := 0; i < n; i++ {
			tsk, err := r.TaskSpawn("t", nil, 10)
			require.NoError(rt, err)
			m.AddTaskToQueue(tsk)
			tasks = append(tasks, tsk)
		}

		steps := rapid.IntRange(0, 40).Draw(rt, "steps")
		inFlight := 0
		for i := 0; i < steps; i++ {
			chosen := m.ChooseTask()
			if chosen == nil {
				continue
			}
			inFlight++
			c.Advance(rapid.Int64Range(0, 50).Draw(rt, "ranMs"))
			m.PrepareForSwitchFromTask(chosen)
			inFlight--
		}

		assert.Equal(rt, n-inFlight, m.Len())
	})
}
