// Command coroshell is CORE B's shell entry point (spec §4.B3, §6).
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"coroshell/internal/config"
	"coroshell/internal/history"
	"coroshell/internal/jobs"
	"coroshell/internal/parse"
	"coroshell/internal/pipeline"
	"coroshell/internal/shell"

	"golang.org/x/sys/unix"
)

func main() {
	if reexeced() {
		return
	}

	opts, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := log.New(os.Stderr, "coroshell: ", 0)

	fg := pipeline.NewForeground()
	runner := pipeline.NewRunner(fg)
	jobSet := jobs.NewSet()

	hist, err := history.Open(historyPath())
	if err != nil {
		logger.Println("history unavailable:", err)
		hist = nil
	}
	defer hist.Close()

	lp := &shell.Loop{
		Runner:  runner,
		Fg:      fg,
		Jobs:    jobSet,
		History: hist,
		Log:     logger,
	}

	var code int
	switch {
	case opts.Command != "":
		cl, err := parse.Parse(opts.Command)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		status, _ := shell.RunSequence(runner, cl, 0, true, true)
		code = status
		jobSet.ReapAll()
	case opts.Interactive:
		code = lp.RunInteractive()
	default:
		in := os.Stdin
		if opts.Script != "" {
			f, err := os.Open(opts.Script)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			defer f.Close()
			in = f
		}
		code = lp.RunChunked(in)
	}

	os.Exit(code)
}

// reexeced handles the self-reexec markers used by internal/pipeline and
// internal/shell to stand in for a raw fork() that just chdir's, _exit's,
// or re-runs one backgrounded command line (spec §4.B2/§4.B3; see the
// pipeline package doc comment for why Go needs this idiom at all). It
// reports whether argv matched one of these markers, in which case the
// process has already run to completion and main should return.
func reexeced() bool {
	if len(os.Args) < 2 {
		return false
	}

	switch os.Args[1] {
	case pipeline.ReexecCDFlag:
		cmd := &parse.Command{Exe: "cd", Args: os.Args[2:]}
		os.Exit(pipeline.ChildCD(cmd))
	case pipeline.ReexecExitFlag:
		lastStatus, _ := strconv.Atoi(os.Args[2])
		cmd := &parse.Command{Exe: "exit", Args: os.Args[3:]}
		os.Exit(pipeline.ChildExit(cmd, lastStatus))
	case shell.ReexecSequenceFlag:
		// Background children ignore SIGTTIN/SIGTTOU (spec §4.B3):
		// ignored dispositions survive exec, so every external command
		// this fork goes on to spawn inherits the same ignore.
		signal.Ignore(unix.SIGTTIN, unix.SIGTTOU)

		lastStatus, _ := strconv.Atoi(os.Args[2])
		line := os.Args[3]
		cl, err := parse.Parse(line)
		if err != nil {
			os.Exit(1)
		}
		cl.IsBackground = false // this process *is* the background fork

		fg := pipeline.NewForeground()
		runner := pipeline.NewRunner(fg)
		status, _ := shell.RunSequence(runner, cl, lastStatus, false, false)
		os.Exit(status)
	default:
		return false
	}
	return true
}

func historyPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	dir = filepath.Join(dir, "coroshell")
	_ = os.MkdirAll(dir, 0700)
	return filepath.Join(dir, "history.db")
}
