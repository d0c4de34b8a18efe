package wakeup

import (
	"testing"

	"coroshell/internal/coro"
)

// Wakeups are FIFO with respect to suspension order on the same queue
// (spec §4.A1, §5).
func TestFIFOOrdering(t *testing.T) {
	sched := coro.NewScheduler()
	q := New()

	var order []int
	done := make(chan struct{}, 3)

	for i := 0; i < 3; i++ {
		i := i
		sched.Go(func() {
			self := sched.Current()
			q.SuspendCurrent(sched, self)
			order = append(order, i)
			done <- struct{}{}
		})
		sched.Run() // each coroutine runs up to its own SuspendCurrent in turn
	}

	for q.Len() > 0 {
		q.WakeupFirst(sched)
		sched.Run()
	}
	<-done
	<-done
	<-done

	want := []int{0, 1, 2}
	for i, v := range want {
		if order[i] != v {
			t.Fatalf("wakeup order = %v, want %v", order, want)
		}
	}
}

func TestWakeupFirstOnEmptyQueueIsNoop(t *testing.T) {
	sched := coro.NewScheduler()
	q := New()
	q.WakeupFirst(sched) // must not panic
	if !q.Empty() {
		t.Fatal("expected queue to remain empty")
	}
}
