// Package wakeup implements the FIFO of suspended coroutines that
// internal/bus channels use to order send/recv wakeups (spec §4.A1).
package wakeup

import (
	"container/list"

	"coroshell/internal/coro"
)

// entry is what lives on a Queue while its coroutine is parked. The spec's
// reference implementation embeds this on the waiter's stack and uses an
// intrusive list so detaching it costs no heap traffic; container/list's
// *list.Element plays the same role here (O(1) remove given the element
// pointer, no scan), without hand-rolling the intrusive list the spec
// explicitly puts out of scope.
type entry struct {
	coro    *coro.Handle
	removed bool
}

// Queue is an ordered sequence of parked coroutines, FIFO.
type Queue struct {
	l *list.List
}

// New returns an empty wakeup queue.
func New() *Queue {
	return &Queue{l: list.New()}
}

// Empty reports whether no coroutine is currently parked on q.
func (q *Queue) Empty() bool {
	return q.l.Len() == 0
}

// Len reports how many coroutines are currently parked on q.
func (q *Queue) Len() int {
	return q.l.Len()
}

// SuspendCurrent parks the calling coroutine on q until it is woken, via
// sched.Suspend. On return the entry has always already been detached,
// whether by WakeupFirst (waker-initiated) or here (if the waiter resumed
// for some other reason and was never picked).
func (q *Queue) SuspendCurrent(sched *coro.Scheduler, self *coro.Handle) {
	e := &entry{coro: self}
	elem := q.l.PushBack(e)

	sched.Suspend(self)

	if !e.removed {
		q.l.Remove(elem)
	}
}

// WakeupFirst detaches and wakes the longest-waiting coroutine on q, if
// any. A no-op on an empty queue. The woken coroutine does not run
// synchronously; per spec it only becomes runnable for the scheduler.
func (q *Queue) WakeupFirst(sched *coro.Scheduler) {
	front := q.l.Front()
	if front == nil {
		return
	}
	e := front.Value.(*entry)
	e.removed = true
	q.l.Remove(front)
	sched.Wakeup(e.coro)
}

// DrainAll wakes every coroutine currently parked on q, in FIFO order,
// leaving q empty. Used by Bus.Close (spec §4.A3): every waiter must be
// woken so it can re-validate via the bus and observe NO_CHANNEL.
func (q *Queue) DrainAll(sched *coro.Scheduler) {
	for !q.Empty() {
		q.WakeupFirst(sched)
	}
}
