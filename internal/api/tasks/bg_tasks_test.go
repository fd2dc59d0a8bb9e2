package tasks

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	bgTasks := New(slog.Default(), 3, 10)
	bgTasks.Run()
	var runned atomic.Int32
	for i := 0; i < 5; i++ {
		bgTasks.Add(func() {
			runned.Add(1)
		})
	}
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	assert.Equal(t, int32(5), runned.Load())
	assert.True(t, bgTasks.IsEmpty())
}

func TestPanickingTaskDoesNotStopWorker(t *testing.T) {
	bgTasks := New(slog.Default(), 1, 10)
	bgTasks.Run()
	taskRunned := false
	bgTasks.Add(func() { panic("boom") })
	bgTasks.Add(func() { taskRunned = true })
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	assert.True(t, taskRunned)
}

func TestShutdownTimeout(t *testing.T) {
	bgTasks := New(slog.Default(), 1, 1)
	bgTasks.Run()
	release := make(chan struct{})
	bgTasks.Add(func() { <-release })
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bgTasks.Shutdown(ctx), context.DeadlineExceeded)
	close(release)
}
