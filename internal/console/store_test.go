package console

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndList(t *testing.T) {
	store := NewStore()
	now := time.Now()

	first := store.AppendLog(TypeLog, "booted", now)
	second := store.AppendLog(TypeError, "boom", now.Add(time.Second))

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	logs := store.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, "booted", logs[0].Message)
	assert.Equal(t, TypeError, logs[1].Type)
}

func TestAppendNetwork(t *testing.T) {
	store := NewStore()

	entry := store.AppendNetwork("GET", "https://api.example.com/users", 200, 45, time.Now())
	assert.NotEmpty(t, entry.ID)

	requests := store.Network()
	require.Len(t, requests, 1)
	assert.Equal(t, 200, requests[0].Status)
	assert.Equal(t, int64(45), requests[0].Duration)
}

func TestMarkFixingAndFixed(t *testing.T) {
	store := NewStore()
	store.AppendLog(TypeError, "boom", time.Now())
	store.AppendLog(TypeError, "boom", time.Now().Add(time.Second))

	require.True(t, store.MarkFixing("boom"))
	logs := store.Logs()
	// The newest matching entry is flagged, not the first.
	assert.False(t, logs[0].IsFixing)
	assert.True(t, logs[1].IsFixing)

	require.True(t, store.MarkFixed("boom"))
	logs = store.Logs()
	assert.True(t, logs[1].IsFixed)
	assert.False(t, logs[1].IsFixing)
}

func TestMarkIgnoresNonErrors(t *testing.T) {
	store := NewStore()
	store.AppendLog(TypeWarn, "boom", time.Now())

	assert.False(t, store.MarkFixing("boom"))
	assert.False(t, store.MarkFixed("missing"))
}

func TestTailReturnsRecentErrorsChronologically(t *testing.T) {
	store := NewStore()
	base := time.Now()
	store.AppendLog(TypeLog, "noise", base)
	store.AppendLog(TypeError, "first error", base.Add(1*time.Second))
	store.AppendLog(TypeWarn, "a warning", base.Add(2*time.Second))
	store.AppendLog(TypeInfo, "more noise", base.Add(3*time.Second))
	store.AppendLog(TypeError, "second error", base.Add(4*time.Second))

	tail := store.Tail(2)
	assert.Equal(t, []string{"warn: a warning", "error: second error"}, tail)

	full := store.Tail(10)
	assert.Equal(t, []string{"error: first error", "warn: a warning", "error: second error"}, full)
}

func TestClear(t *testing.T) {
	store := NewStore()
	store.AppendLog(TypeError, "boom", time.Now())
	store.AppendNetwork("GET", "/x", 404, 3, time.Now())

	store.ClearLogs()
	assert.Empty(t, store.Logs())
	assert.Len(t, store.Network(), 1)

	store.ClearNetwork()
	assert.Empty(t, store.Network())
}
