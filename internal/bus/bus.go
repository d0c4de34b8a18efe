// Package bus implements CORE A of the spec: a multi-channel, bounded,
// single-value message bus for cooperatively scheduled coroutines sharing
// one thread (spec §1, §2, §4.A2, §4.A3).
package bus

import (
	"coroshell/internal/coro"
)

// Bus is a sparse, stably-indexed table of channel slots (spec §3). A
// valid id is one whose slot is non-nil; once cleared by Close, the id is
// permanently invalid until the slot is reused by a later Open.
type Bus struct {
	sched    *coro.Scheduler
	channels []*channel
	lastErr  ErrorCode
}

// New creates an empty bus driven by sched. sched must be the same
// scheduler every coroutine calling into this bus runs under.
func New(sched *coro.Scheduler) *Bus {
	return &Bus{sched: sched}
}

// Delete frees every live channel without running waiter logic: by
// construction no coroutine should still be blocked on a bus being torn
// down (spec §4.A3).
func (b *Bus) Delete() {
	b.channels = nil
}

// Errno returns the last-error register (spec §3, §6).
func (b *Bus) Errno() ErrorCode { return b.lastErr }

func (b *Bus) setErr(c ErrorCode) { b.lastErr = c }

// growCapacity implements corobus.cpp's channel-table growth policy
// (spec §4.A3): start at 4, double while <= 1024, then grow by x1.25.
func growCapacity(cur int) int {
	if cur == 0 {
		return 4
	}
	if cur <= 1024 {
		return cur * 2
	}
	return cur + cur/4
}

// Open returns the lowest empty slot index if one exists (slot reuse),
// else appends a new slot, growing the backing table per growCapacity.
// capacity must be >= 1.
func (b *Bus) Open(capacity int) int {
	for i, ch := range b.channels {
		if ch == nil {
			b.channels[i] = newChannel(capacity)
			b.setErr(ErrNone)
			return i
		}
	}

	if len(b.channels) == cap(b.channels) {
		grown := make([]*channel, len(b.channels), growCapacity(cap(b.channels)))
		copy(grown, b.channels)
		b.channels = grown
	}
	id := len(b.channels)
	b.channels = append(b.channels, newChannel(capacity))
	b.setErr(ErrNone)
	return id
}

// lookup returns the channel for id, or nil with NO_CHANNEL set.
func (b *Bus) lookup(id int) *channel {
	if id < 0 || id >= len(b.channels) || b.channels[id] == nil {
		b.setErr(ErrNoChannel)
		return nil
	}
	return b.channels[id]
}

// Close clears id's slot, wakes every waiter on both its queues (so each
// can re-validate via the bus and observe NO_CHANNEL), yields once so
// those wakeups are observed before storage is released, then frees the
// channel. A no-op on an already-empty or out-of-range slot (spec §8
// "idempotent close").
func (b *Bus) Close(id int) {
	if id < 0 || id >= len(b.channels) || b.channels[id] == nil {
		return
	}
	ch := b.channels[id]
	b.channels[id] = nil

	ch.sendQ.DrainAll(b.sched)
	ch.recvQ.DrainAll(b.sched)

	b.sched.Run() // let drained waiters observe the cleared slot

	// ch itself is simply dropped; Go's GC plays the role of corobus.cpp's
	// free(ch->data); free(ch).
}

// TrySend implements the non-blocking send (spec §4.A2): fails
// WOULD_BLOCK if full, else writes and wakes one receiver.
func (b *Bus) TrySend(id int, v uint32) bool {
	ch := b.lookup(id)
	if ch == nil {
		return false
	}
	if ch.full() {
		b.setErr(ErrWouldBlock)
		return false
	}
	ch.push(v)
	ch.recvQ.WakeupFirst(b.sched)
	b.setErr(ErrNone)
	return true
}

// Send blocks (by suspending the calling coroutine) until v is enqueued
// or the channel is closed out from under it.
func (b *Bus) Send(self *coro.Handle, id int, v uint32) bool {
	for {
		ch := b.lookup(id)
		if ch == nil {
			return false
		}
		if b.TrySend(id, v) {
			return true
		}
		if b.lastErr != ErrWouldBlock {
			return false
		}
		ch.sendQ.SuspendCurrent(b.sched, self)
	}
}

// TryRecv implements the non-blocking receive (spec §4.A2).
func (b *Bus) TryRecv(id int) (uint32, bool) {
	ch := b.lookup(id)
	if ch == nil {
		return 0, false
	}
	if ch.empty() {
		b.setErr(ErrWouldBlock)
		return 0, false
	}
	v := ch.pop()
	ch.sendQ.WakeupFirst(b.sched)
	b.setErr(ErrNone)
	return v, true
}

// Recv blocks until a value is available or the channel is closed.
func (b *Bus) Recv(self *coro.Handle, id int) (uint32, bool) {
	for {
		ch := b.lookup(id)
		if ch == nil {
			return 0, false
		}
		if v, ok := b.TryRecv(id); ok {
			return v, true
		}
		if b.lastErr != ErrWouldBlock {
			return 0, false
		}
		ch.recvQ.SuspendCurrent(b.sched, self)
	}
}
