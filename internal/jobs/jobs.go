// Package jobs tracks background pipeline-sequence child processes and
// reaps them non-blockingly (spec §3 "background set", §4.B3 "Background
// reaping"). The bookkeeping shape (mutex-guarded slice, monotonic id)
// follows the teacher's internal/executor Job/addJob/GetJobs; the reap
// loop itself follows solution.cpp's cleanup_background, using
// golang.org/x/sys/unix.Wait4 with WNOHANG because os/exec.Cmd.Wait has
// no non-blocking form (spec §4.B3 requires literal non-blocking reap).
package jobs

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// Job is one backgrounded command-line sequence.
type Job struct {
	ID  int
	PID int
}

// Set is the shell-wide background set (spec §3). Access is strictly
// serial in practice (only the main loop touches it) but the mutex keeps
// it safe if that ever changes, matching the teacher's jobsMutex.
type Set struct {
	mu     sync.Mutex
	jobs   []Job
	nextID int
}

// NewSet returns an empty background set.
func NewSet() *Set {
	return &Set{nextID: 1}
}

// Add records pid as a new background job and returns its id.
func (s *Set) Add(pid int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.jobs = append(s.jobs, Job{ID: id, PID: pid})
	return id
}

// Len reports how many background jobs are still unreaped.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Reap non-blockingly waits on every tracked pid (WNOHANG) and drops the
// ones that have exited, matching solution.cpp's cleanup_background.
// Called after every command line and at shell exit (spec §4.B3).
func (s *Set) Reap() {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.jobs[:0]
	for _, j := range s.jobs {
		var status unix.WaitStatus
		pid, err := unix.Wait4(j.PID, &status, unix.WNOHANG, nil)
		if err != nil || pid == 0 {
			live = append(live, j)
		}
	}
	s.jobs = live
}

// ReapAll spin-waits (short sleeps between polls) until every background
// job has exited, matching spec §4.B3's shell-exit behavior.
func (s *Set) ReapAll() {
	for s.Len() > 0 {
		s.Reap()
		if s.Len() > 0 {
			time.Sleep(10 * time.Millisecond)
		}
	}
}
