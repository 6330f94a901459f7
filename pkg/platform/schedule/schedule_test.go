package schedule

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAfterRunsCallback(t *testing.T) {
	s := NewScheduler()
	fired := make(chan struct{})

	s.After(5*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("callback did not run")
	}

	// Handle bookkeeping drains after the callback finishes.
	require.Eventually(t, func() bool { return s.Pending() == 0 },
		time.Second, 5*time.Millisecond)
}

func TestCancelPreventsCallback(t *testing.T) {
	s := NewScheduler()
	var ran atomic.Bool

	h := s.After(20*time.Millisecond, func() { ran.Store(true) })
	assert.True(t, h.Cancel())

	time.Sleep(60 * time.Millisecond)
	assert.False(t, ran.Load())
}

func TestCancelAfterFireReportsFalse(t *testing.T) {
	s := NewScheduler()
	fired := make(chan struct{})

	h := s.After(time.Millisecond, func() { close(fired) })
	<-fired

	assert.False(t, h.Cancel(), "cancel after fire must report the callback ran")
}

func TestDoubleCancelReportsFalse(t *testing.T) {
	s := NewScheduler()
	h := s.After(time.Hour, func() {})

	assert.True(t, h.Cancel())
	assert.False(t, h.Cancel())
}

func TestStopCancelsEverything(t *testing.T) {
	s := NewScheduler()
	var ran atomic.Int32

	for i := 0; i < 5; i++ {
		s.After(20*time.Millisecond, func() { ran.Add(1) })
	}
	s.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, ran.Load())
	assert.Zero(t, s.Pending())
}

func TestAfterOnStoppedSchedulerIsInert(t *testing.T) {
	s := NewScheduler()
	s.Stop()

	var ran atomic.Bool
	h := s.After(time.Millisecond, func() { ran.Store(true) })

	time.Sleep(20 * time.Millisecond)
	assert.False(t, ran.Load())
	assert.False(t, h.Cancel())
}
