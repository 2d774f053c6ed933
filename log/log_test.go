package log_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/codyd51/axle-sub000/log"
	"github.com/stretchr/testify/assert"
)

func TestInit_DebugLevelEmitsDebugLines(t *testing.T) {
	var buf bytes.Buffer
	log.Init(&buf, true)

	log.With("task_id", int64(7)).Debug("demoted task")

	assert.Contains(t, buf.String(), "demoted task")
	assert.Contains(t, buf.String(), "task_id=7")
}

func TestInit_InfoLevelSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	log.Init(&buf, false)

	log.L().Debug("should not appear")
	log.L().Info("should appear")

	out := buf.String()
	assert.False(t, strings.Contains(out, "should not appear"))
	assert.Contains(t, out, "should appear")
}
