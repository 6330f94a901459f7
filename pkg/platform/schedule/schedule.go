// Package schedule provides cancellable one-shot timers.
//
// A cancelled handle guarantees its callback either never runs or, if the
// timer already fired and the callback is queued, becomes a no-op. Callbacks
// that started before Cancel was called are not interrupted; their effect
// stands.
package schedule

import (
	"sync"
	"time"
)

// Scheduler tracks pending handles so they can be cancelled in bulk on
// shutdown.
type Scheduler struct {
	mu      sync.Mutex
	pending map[*Handle]struct{}
	stopped bool
}

// Handle represents one scheduled callback.
type Handle struct {
	mu        sync.Mutex
	sched     *Scheduler
	timer     *time.Timer
	cancelled bool
	fired     bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[*Handle]struct{})}
}

// After schedules fn to run once after d. Returns a handle that can cancel
// the callback. After a Stop, handles are returned already cancelled.
func (s *Scheduler) After(d time.Duration, fn func()) *Handle {
	h := &Handle{sched: s}

	s.mu.Lock()
	if s.stopped {
		h.cancelled = true
		s.mu.Unlock()
		return h
	}
	s.pending[h] = struct{}{}
	s.mu.Unlock()

	h.timer = time.AfterFunc(d, func() {
		h.mu.Lock()
		if h.cancelled {
			h.mu.Unlock()
			return
		}
		h.fired = true
		h.mu.Unlock()

		defer s.forget(h)
		fn()
	})
	return h
}

// Cancel prevents the callback from running. Reports whether the callback
// was actually prevented; false means it already ran (or started running).
func (h *Handle) Cancel() bool {
	h.mu.Lock()
	if h.fired || h.cancelled {
		h.mu.Unlock()
		return false
	}
	h.cancelled = true
	if h.timer != nil {
		h.timer.Stop()
	}
	h.mu.Unlock()

	h.sched.forget(h)
	return true
}

// Stop cancels every pending handle and rejects new work. Used on shutdown
// so no timer re-enters the store after teardown begins.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	handles := make([]*Handle, 0, len(s.pending))
	for h := range s.pending {
		handles = append(handles, h)
	}
	s.pending = make(map[*Handle]struct{})
	s.mu.Unlock()

	for _, h := range handles {
		h.Cancel()
	}
}

// Pending returns the number of not-yet-fired handles.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *Scheduler) forget(h *Handle) {
	s.mu.Lock()
	delete(s.pending, h)
	s.mu.Unlock()
}
