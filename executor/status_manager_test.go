package executor

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusManagerOrderAndTimes(t *testing.T) {
	sm := NewStatusManager()
	start := time.Date(2012, 3, 5, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Minute)

	sm.SetStatus(StepLess, StatusQueued)
	sm.SetStatus(StepCSS, StatusQueued)
	sm.UpdateStatus(StepLess, StatusRunning, start, time.Time{})
	sm.UpdateStatus(StepLess, StatusCompleted, time.Time{}, end)
	sm.SetStatus(StepLess, StatusQueued)

	assert.Equal(t, []string{StepLess, StepCSS}, sm.Steps())

	st, ok := sm.Status(StepCSS)
	require.True(t, ok)
	assert.Equal(t, StatusQueued, st.Status)

	_, ok = sm.Status(StepClean)
	assert.False(t, ok)
}

func TestStatusManagerKeepsTimes(t *testing.T) {
	sm := NewStatusManager()
	start := time.Date(2012, 3, 5, 9, 0, 0, 0, time.UTC)

	sm.UpdateStatus(StepJavascript, StatusRunning, start, time.Time{})
	sm.UpdateStatus(StepJavascript, StatusCompleted, time.Time{}, start.Add(time.Second))

	st, ok := sm.Status(StepJavascript)
	require.True(t, ok)
	assert.Equal(t, start, st.StartTime)
	assert.Equal(t, time.Second, st.EndTime.Sub(st.StartTime))
}

func TestStatusManagerMarkAsFailed(t *testing.T) {
	sm := NewStatusManager()
	sm.MarkAsFailed(StepCSS)

	st, ok := sm.Status(StepCSS)
	require.True(t, ok)
	assert.Equal(t, StatusFailed, st.Status)
	assert.False(t, st.EndTime.IsZero())
	assert.Equal(t, 1, sm.FailedCount())
}

func TestStatusManagerLogIsBounded(t *testing.T) {
	sm := NewStatusManager()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				sm.AppendLog(fmt.Sprintf("%d-%d", i, j))
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, sm.LogLines(), maxLogLines)
}
