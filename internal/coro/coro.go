// Package coro is a minimal stand-in for the cooperative coroutine runtime
// internal/bus is specified against (current/suspend/wakeup/yield). The
// real runtime is an external collaborator, explicitly out of scope for
// this module (spec §1); this package is only large enough to give
// internal/bus something concrete to suspend into in its tests.
//
// A Scheduler runs at most one coroutine's Go code at a time: Run pops a
// runnable Handle off a FIFO ready queue, hands it the baton, and blocks
// until that coroutine either returns or calls Suspend. That is the whole
// "single thread, no preemption" model spec §5 asks for.
package coro

import "sync"

// Handle identifies one coroutine managed by a Scheduler.
type Handle struct {
	resume chan struct{}
	yield  chan struct{}
}

// Scheduler is a single-threaded cooperative round-robin runner.
type Scheduler struct {
	mu      sync.Mutex
	ready   []*Handle
	current *Handle
}

// NewScheduler returns an empty, idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Go registers f to run as a new coroutine the next time Run drains the
// ready queue. f must call Suspend(h) (with h the handle Go returns) at
// every point it wants to park.
func (s *Scheduler) Go(f func()) *Handle {
	h := &Handle{resume: make(chan struct{}), yield: make(chan struct{})}
	go func() {
		<-h.resume
		f()
		h.yield <- struct{}{}
	}()

	s.mu.Lock()
	s.ready = append(s.ready, h)
	s.mu.Unlock()
	return h
}

// Wakeup marks h runnable again. Per spec, the woken coroutine does not
// run synchronously with the caller; it is merely appended to the ready
// queue for a later Run call to pick up.
func (s *Scheduler) Wakeup(h *Handle) {
	s.mu.Lock()
	s.ready = append(s.ready, h)
	s.mu.Unlock()
}

// Suspend parks the calling coroutine until some other code calls
// Wakeup(h) and a later Run turn reaches it again. Must be called from
// inside the function passed to Go, with that same call's handle.
func (s *Scheduler) Suspend(h *Handle) {
	h.yield <- struct{}{}
	<-h.resume
}

// Current returns the handle of the coroutine the scheduler is currently
// running, or nil outside of Run.
func (s *Scheduler) Current() *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Run drains the ready queue, running each runnable coroutine until it
// suspends or returns, in FIFO order, until nothing is left runnable.
func (s *Scheduler) Run() {
	for {
		s.mu.Lock()
		if len(s.ready) == 0 {
			s.current = nil
			s.mu.Unlock()
			return
		}
		h := s.ready[0]
		s.ready = s.ready[1:]
		s.current = h
		s.mu.Unlock()

		h.resume <- struct{}{}
		<-h.yield
	}
}
