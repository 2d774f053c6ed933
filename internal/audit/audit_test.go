package audit_test

import (
	"testing"

	"github.com/codyd51/axle-sub000/internal/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "task_spawned", audit.EventTaskSpawned.String())
	assert.Equal(t, "amc_service_died", audit.EventServiceDied.String())
}

func TestNopLogger_DoesNotPanic(t *testing.T) {
	l := audit.NopLogger()
	assert.NotPanics(t, func() {
		l.Emit(audit.New(audit.EventTaskSpawned, "spawned"))
	})
}

func TestSQLiteLogger_EmitAndQuery(t *testing.T) {
	logger, err := audit.NewSQLiteLogger(":memory:")
	require.NoError(t, err)
	defer logger.Close()

	logger.Emit(audit.New(audit.EventTaskSpawned, "spawned reaper",
		audit.WithTask(1, "com.axle.reaper"),
		audit.WithService("com.axle.reaper"),
	))

	events, err := logger.Query(audit.QueryFilter{TaskID: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.EventTaskSpawned, events[0].Kind)
	assert.Equal(t, "com.axle.reaper", events[0].TaskName)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestSQLiteLogger_QueryFilterByService(t *testing.T) {
	logger, err := audit.NewSQLiteLogger(":memory:")
	require.NoError(t, err)
	defer logger.Close()

	logger.Emit(audit.New(audit.EventServiceRegistered, "registered", audit.WithService("com.axle.awm")))
	logger.Emit(audit.New(audit.EventServiceDied, "died", audit.WithService("com.axle.other")))

	events, err := logger.Query(audit.QueryFilter{Service: "com.axle.awm"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.EventServiceRegistered, events[0].Kind)
}
