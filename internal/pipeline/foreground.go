package pipeline

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// Foreground tracks which process group currently owns the controlling
// terminal. It generalizes the teacher's single currentFgPgid global and
// setForeground/setCurrentFgPgid/GetCurrentFgPgid/SendSignalToFg
// functions (executor.go) from "the one external command currently
// running" to "the one pipeline currently running, however many
// processes it spawned".
type Foreground struct {
	mu   sync.RWMutex
	pgid int
}

// NewForeground returns a tracker with no foreground pgid set.
func NewForeground() *Foreground {
	return &Foreground{pgid: -1}
}

// Set records pgid as the current foreground process group.
func (f *Foreground) Set(pgid int) {
	f.mu.Lock()
	f.pgid = pgid
	f.mu.Unlock()
}

// Get returns the current foreground process group, or -1 if none.
func (f *Foreground) Get() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.pgid
}

// TakeTerminal hands the controlling terminal to the tracked foreground
// pgid via TIOCSPGRP, mirroring the teacher's setForeground.
func (f *Foreground) TakeTerminal() {
	pgid := f.Get()
	if pgid <= 0 {
		return
	}
	_ = unix.IoctlSetInt(int(os.Stdin.Fd()), unix.TIOCSPGRP, pgid)
}

// Release gives the terminal back to the shell's own process group and
// clears the tracked foreground pgid.
func (f *Foreground) Release() {
	_ = unix.IoctlSetInt(int(os.Stdin.Fd()), unix.TIOCSPGRP, unix.Getpgrp())
	f.Set(-1)
}

// SignalForeground forwards sig to the current foreground process group.
// Used to relay a shell-caught SIGINT to whatever pipeline currently owns
// the terminal, matching the teacher's SendSignalToFg.
func (f *Foreground) SignalForeground(sig unix.Signal) {
	pgid := f.Get()
	if pgid > 0 {
		_ = unix.Kill(-pgid, sig)
	}
}
