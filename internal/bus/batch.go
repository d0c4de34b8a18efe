package bus

import "coroshell/internal/coro"

// TrySendV implements the optional vectored send (spec §4.A2): fails
// WOULD_BLOCK only if the channel was already full at entry, otherwise
// transfers min(len(data), capacity-count) elements (>=1) and returns
// that count. Wakes one receiver per transferred element.
func (b *Bus) TrySendV(id int, data []uint32) int {
	ch := b.lookup(id)
	if ch == nil {
		return -1
	}
	if ch.full() {
		b.setErr(ErrWouldBlock)
		return -1
	}

	sent := 0
	for sent < len(data) && !ch.full() {
		ch.push(data[sent])
		sent++
	}
	for i := 0; i < sent; i++ {
		ch.recvQ.WakeupFirst(b.sched)
	}
	b.setErr(ErrNone)
	return sent
}

// SendV blocks until at least one element of data is transferred.
func (b *Bus) SendV(self *coro.Handle, id int, data []uint32) int {
	for {
		ch := b.lookup(id)
		if ch == nil {
			return -1
		}
		if n := b.TrySendV(id, data); n > 0 {
			return n
		}
		if b.lastErr != ErrWouldBlock {
			return -1
		}
		ch.sendQ.SuspendCurrent(b.sched, self)
	}
}

// TryRecvV implements the optional vectored receive, symmetric to
// TrySendV: fails WOULD_BLOCK only if empty at entry, else transfers
// min(len(out), count) elements (>=1).
func (b *Bus) TryRecvV(id int, out []uint32) int {
	ch := b.lookup(id)
	if ch == nil {
		return -1
	}
	if ch.empty() {
		b.setErr(ErrWouldBlock)
		return -1
	}

	recvd := 0
	for recvd < len(out) && !ch.empty() {
		out[recvd] = ch.pop()
		recvd++
	}
	for i := 0; i < recvd; i++ {
		ch.sendQ.WakeupFirst(b.sched)
	}
	b.setErr(ErrNone)
	return recvd
}

// RecvV blocks until at least one element is available.
func (b *Bus) RecvV(self *coro.Handle, id int, out []uint32) int {
	for {
		ch := b.lookup(id)
		if ch == nil {
			return -1
		}
		if n := b.TryRecvV(id, out); n > 0 {
			return n
		}
		if b.lastErr != ErrWouldBlock {
			return -1
		}
		ch.recvQ.SuspendCurrent(b.sched, self)
	}
}

// TryBroadcast pushes v into every live channel, all-or-nothing: it fails
// NO_CHANNEL if no channel exists at all, WOULD_BLOCK if any existing
// channel is full (checked as a precondition snapshot before any
// mutation), else every channel's count increases by exactly one and one
// receiver per channel is woken (spec §4.A2).
func (b *Bus) TryBroadcast(v uint32) bool {
	live := 0
	for _, ch := range b.channels {
		if ch != nil {
			live++
		}
	}
	if live == 0 {
		b.setErr(ErrNoChannel)
		return false
	}

	for _, ch := range b.channels {
		if ch != nil && ch.full() {
			b.setErr(ErrWouldBlock)
			return false
		}
	}

	for _, ch := range b.channels {
		if ch == nil {
			continue
		}
		ch.push(v)
		ch.recvQ.WakeupFirst(b.sched)
	}
	b.setErr(ErrNone)
	return true
}

// Broadcast blocks until every live channel accepts v. On WOULD_BLOCK it
// parks on the send queue of the first full channel found and retries
// after being woken (spec §4.A2).
func (b *Bus) Broadcast(self *coro.Handle, v uint32) bool {
	for {
		if b.TryBroadcast(v) {
			return true
		}
		if b.lastErr != ErrWouldBlock {
			return false
		}
		for _, ch := range b.channels {
			if ch != nil && ch.full() {
				ch.sendQ.SuspendCurrent(b.sched, self)
				break
			}
		}
	}
}
