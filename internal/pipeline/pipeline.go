// Package pipeline implements CORE B's Pipeline Runner (spec §4.B2):
// realizing one pipeline of commands as a tree of child processes joined
// by pipes, applying redirection, running cd/exit builtins, and
// reporting the last command's exit status.
//
// Go forbids a raw fork() once goroutines exist, so every child here is
// spawned the way every Go shell in the retrieval pack spawns one:
// os/exec.Cmd, which is the idiomatic replacement for fork+pipe+dup2+
// execvp. A forked child that merely chdir's or _exit's (spec's "cd"/
// "exit" mid-pipeline, intentionally a no-op on the shell's own cwd) has
// no os/exec equivalent, since os/exec always execs a binary — so those
// two cases re-exec the shell's own binary with an internal flag
// (cmd/coroshell checks for it before anything else runs), the same
// self-reexec idiom infra tools like Docker's reexec package use in
// place of raw fork+custom-child-code.
package pipeline

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"coroshell/internal/parse"

	"golang.org/x/sys/unix"
)

// ReexecCDFlag and ReexecExitFlag are the argv[1] markers cmd/coroshell
// recognizes to run ChildCD/ChildExit instead of the normal shell loop.
const (
	ReexecCDFlag   = "--coroshell-internal-cd"
	ReexecExitFlag = "--coroshell-internal-exit"
)

// ExecResult is what one pipeline run reports back to the sequence
// executor (spec §4.B2).
type ExecResult struct {
	Code       int
	ShouldExit bool
}

// Runner spawns and wires pipelines, tracking which one currently owns
// the controlling terminal.
type Runner struct {
	fg *Foreground
}

// NewRunner returns a Runner reporting foreground ownership through fg.
func NewRunner(fg *Foreground) *Runner {
	return &Runner{fg: fg}
}

// Run executes one pipeline. takeForeground is false for a pipeline
// running inside a backgrounded sequence (spec §4.B3): such a pipeline
// still gets its own process group, but never takes the controlling
// terminal, and its first command's stdin defaults to /dev/null rather
// than the shell's stdin. The backgrounded fork itself also ignores
// SIGTTIN/SIGTTOU before spawning (see cmd/coroshell's reexec handling),
// so neither it nor anything it execs here can be stopped by the tty
// driver even if it does touch the terminal.
func (r *Runner) Run(cmds []*parse.Command, cl *parse.CommandLine, isLastPipeline, allowExit, takeForeground bool, lastStatus int) ExecResult {
	if len(cmds) == 1 {
		if res, handled := tryBuiltin(cmds[0], cl, isLastPipeline, allowExit, lastStatus); handled {
			return res
		}
	}
	return r.runExternal(cmds, cl, isLastPipeline, takeForeground, lastStatus)
}

func (r *Runner) runExternal(cmds []*parse.Command, cl *parse.CommandLine, isLastPipeline, takeForeground bool, lastStatus int) ExecResult {
	n := len(cmds)
	procs := make([]*exec.Cmd, 0, n)
	var prevRead *os.File
	pgid := 0

	abort := func(label string, err error) ExecResult {
		fmt.Fprintln(os.Stderr, label+":", err)
		for _, p := range procs {
			_ = p.Process.Kill()
		}
		if prevRead != nil {
			prevRead.Close()
		}
		return ExecResult{Code: 1}
	}

	for i, cmd := range cmds {
		last := i == n-1

		c, err := buildCmd(cmd, lastStatus)
		if err != nil {
			return abort("exec", err)
		}

		if prevRead != nil {
			c.Stdin = prevRead
		} else if !takeForeground {
			devNull, err := os.Open(os.DevNull)
			if err != nil {
				return abort("open", err)
			}
			defer devNull.Close()
			c.Stdin = devNull
		} else {
			c.Stdin = os.Stdin
		}

		var pipeW *os.File
		switch {
		case !last:
			pr, pw, err := os.Pipe()
			if err != nil {
				return abort("pipe", err)
			}
			c.Stdout = pw
			pipeW = pw
			prevRead = pr
		case isLastPipeline && cl.OutType != parse.OutStdout:
			f, err := openRedirect(cl)
			if err != nil {
				return abort("open", err)
			}
			defer f.Close()
			c.Stdout = f
			prevRead = nil
		default:
			c.Stdout = os.Stdout
			prevRead = nil
		}
		c.Stderr = os.Stderr

		c.SysProcAttr = &unix.SysProcAttr{Setpgid: true}
		if pgid != 0 {
			c.SysProcAttr.Pgid = pgid
		}

		if err := c.Start(); err != nil {
			if pipeW != nil {
				pipeW.Close()
			}
			return abort("fork", err)
		}

		if pgid == 0 {
			pgid, _ = unix.Getpgid(c.Process.Pid)
		}
		if pipeW != nil {
			pipeW.Close()
		}
		procs = append(procs, c)
	}

	if takeForeground {
		r.fg.Set(pgid)
		r.fg.TakeTerminal()
	}

	code := 0
	for i, p := range procs {
		err := p.Wait()
		if i == n-1 {
			code = exitCodeFromWaitErr(err)
		}
	}

	if takeForeground {
		r.fg.Release()
	}

	return ExecResult{Code: code}
}

// buildCmd returns the *exec.Cmd standing in for forking+execvp'ing cmd
// (or, for cd/exit, forking+chdir/_exit'ing via the self-reexec idiom).
func buildCmd(cmd *parse.Command, lastStatus int) (*exec.Cmd, error) {
	switch cmd.Exe {
	case "cd":
		return reexecCmd(ReexecCDFlag, cmd.Args)
	case "exit":
		return reexecCmd(ReexecExitFlag, append([]string{strconv.Itoa(lastStatus)}, cmd.Args...))
	default:
		return exec.Command(cmd.Exe, cmd.Args...), nil
	}
}

func reexecCmd(flag string, args []string) (*exec.Cmd, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, err
	}
	return exec.Command(self, append([]string{flag}, args...)...), nil
}

// openRedirect opens the final pipeline's output file per spec §4.B2:
// O_WRONLY|O_CREAT|(O_TRUNC if FILE_NEW else O_APPEND), mode 0666.
func openRedirect(cl *parse.CommandLine) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE
	if cl.OutType == parse.OutFileNew {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}
	return os.OpenFile(cl.OutFile, flags, 0666)
}

// redirectStdoutTo temporarily dups f over the shell's own stdout (for
// an in-process cd builtin with file redirection) and returns a closure
// that restores the original stdout.
func redirectStdoutTo(f *os.File) func() {
	saved, err := syscall.Dup(int(os.Stdout.Fd()))
	if err != nil {
		return func() {}
	}
	_ = syscall.Dup2(int(f.Fd()), int(os.Stdout.Fd()))
	f.Close()
	return func() {
		_ = syscall.Dup2(saved, int(os.Stdout.Fd()))
		_ = syscall.Close(saved)
	}
}

// exitCodeFromWaitErr converts a completed exec.Cmd.Wait error into the
// shell status code spec §4.B2 specifies: exited normally -> its code;
// signalled -> 128+signal; anything else -> 1.
func exitCodeFromWaitErr(err error) int {
	if err == nil {
		return 0
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return 1
	}
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	if !ok {
		return 1
	}
	if status.Exited() {
		return status.ExitStatus()
	}
	if status.Signaled() {
		return 128 + int(status.Signal())
	}
	return 1
}
