package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEveryRunsJob(t *testing.T) {
	s := New(zap.NewNop())
	var runs atomic.Int32
	require.NoError(t, s.Every("@every 1s", "tick", time.Second, func(ctx context.Context) {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		runs.Add(1)
	}))
	s.Start()
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestEveryRejectsBadSpec(t *testing.T) {
	s := New(nil)
	err := s.Every("every hour please", "bad", time.Second, func(context.Context) {})
	assert.Error(t, err)
}

func TestSkipIfStillRunning(t *testing.T) {
	s := New(zap.NewNop())
	var running, maxRunning atomic.Int32
	release := make(chan struct{})
	require.NoError(t, s.Every("@every 1s", "slow", 10*time.Second, func(ctx context.Context) {
		n := running.Add(1)
		defer running.Add(-1)
		if n > maxRunning.Load() {
			maxRunning.Store(n)
		}
		select {
		case <-release:
		case <-ctx.Done():
		}
	}))
	s.Start()

	time.Sleep(2500 * time.Millisecond)
	close(release)
	s.Stop(context.Background())
	assert.Equal(t, int32(1), maxRunning.Load())
}

func TestPanicIsRecoveredAndLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	s := New(zap.New(core))
	require.NoError(t, s.Every("@every 1s", "boom", time.Second, func(context.Context) { panic("boom") }))
	s.Start()
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool { return logs.Len() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestSystemClockUTC(t *testing.T) {
	assert.Equal(t, time.UTC, SystemClock{}.Now().Location())
}
